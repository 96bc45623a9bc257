package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "baskerville",
		Short: "Infer and validate the column types of tabular data",
		Long: `Baskerville reads delimited or JSON records, narrows the candidate types of
every column and reports the inferred fields. Inferred fields can be used to
validate other inputs, exported as an Arrow schema or used to create and load
a SQL table.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadConfig(); err != nil {
				return err
			}
			return SetupLogging()
		},
	}

	flags := rootCmd.PersistentFlags()

	flags.String("config", "", "Configuration file path")
	flags.String("log-level", "info", "Logging level (debug, info, warn, error)")
	flags.Bool("json-logs", false, "Use JSON log format")

	// Input.
	flags.String("format", "", "Input format (csv, json, ldjson). Detected from the file name if empty.")
	flags.String("compression", "", "Compression used (gzip, bzip2). Detected from the file name if empty.")
	flags.String("encoding", "", "Text encoding of the input, UTF-8 if empty")
	flags.Int("workers", runtime.NumCPU(), "Number of files processed concurrently")

	// CSV.
	flags.String("delimiter", ",", "Field delimiter")
	flags.String("quote", `"`, "Quote character")
	flags.Bool("quoting", true, "Enable quoted fields")
	flags.String("escape", "", "Escape character in quoted fields")
	flags.String("trim", "none", "Trim whitespace (none, headers, fields, all)")
	flags.String("terminator", "crlf", "Record terminator, crlf or a single character")
	flags.String("comment", "", "Comment character")

	// Inference.
	flags.Bool("header", true, "The first record holds the column names")
	flags.Bool("flexible", false, "Allow records with more values than the first")
	flags.Bool("temporal", true, "Include date, time and datetime in the default types")
	flags.StringSlice("types", nil, "Candidate types in priority order (integer, float, text, date, time, datetime, unique)")
	flags.StringSlice("literal", nil, "Values of an additional literal candidate type, such as true,false")
	flags.String("null", "", "Value read as null. Empty values if not set.")

	for _, key := range []string{
		"config", "log-level", "json-logs",
		"format", "compression", "encoding", "workers",
		"delimiter", "quote", "quoting", "escape", "trim", "terminator", "comment",
		"header", "flexible", "temporal", "types", "literal", "null",
	} {
		viper.BindPFlag(flagKey(key), flags.Lookup(key))
	}

	inferCmd := &cobra.Command{
		Use:   "infer [file|dir]...",
		Short: "Print the inferred fields of each input as JSON",
		Long: `Infer reads every record of each input and prints the inferred fields.
Without arguments, records are read from stdin as CSV unless --format is given.`,
		RunE: runInfer,
	}

	validateCmd := &cobra.Command{
		Use:   "validate --schema <file> [file|dir]...",
		Short: "Check inputs against previously inferred fields",
		RunE:  runValidate,
	}
	validateCmd.Flags().String("schema", "", "Inferred fields as printed by infer (required)")
	validateCmd.MarkFlagRequired("schema")
	viper.BindPFlag("schema_file", validateCmd.Flags().Lookup("schema"))

	arrowCmd := &cobra.Command{
		Use:   "arrow [file]",
		Short: "Print the Arrow schema of the inferred fields",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runArrow,
	}
	arrowCmd.Flags().String("ipc", "", "Write the schema as an Arrow IPC stream to this file")
	viper.BindPFlag("ipc", arrowCmd.Flags().Lookup("ipc"))

	importCmd := &cobra.Command{
		Use:   "import [file|dir]...",
		Short: "Create a table for each input and load its records",
		Long: `Import infers the fields of each input, creates a table for them and loads the
records. Files in a directory are loaded into tables named after the files, in
schemas named after their subdirectories.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	iflags := importCmd.Flags()
	iflags.String("db", "", "Database connection string")
	iflags.String("driver", "postgres", "Database driver (postgres, sqlite, sqlserver)")
	iflags.String("schema", "public", "Schema name")
	iflags.String("table", "", "Table name. Derived from the file name if empty.")
	iflags.Bool("append", false, "Append to the table instead of replacing it")
	iflags.Bool("cstore", false, "Use a cstore table (postgres)")

	for _, key := range []string{"db", "driver", "schema", "table", "append", "cstore"} {
		viper.BindPFlag(key, iflags.Lookup(key))
	}

	rootCmd.AddCommand(inferCmd, validateCmd, arrowCmd, importCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Error(err)
		stop()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaynewey/baskerville"
	"github.com/jaynewey/baskerville/profile"
	"github.com/jaynewey/baskerville/profile/arrow"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// input is a file to process. Files found in a directory carry the schema
// and table named after their location.
type input struct {
	path   string
	rel    string
	schema string
	table  string
}

// inputs expands directory arguments into the files they contain. No
// arguments means stdin.
func inputs(args []string) ([]input, error) {
	if len(args) == 0 {
		return []input{{path: "-", rel: "-"}}, nil
	}

	var files []input

	for _, arg := range args {
		if arg == "-" {
			files = append(files, input{path: arg, rel: arg})
			continue
		}

		stat, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !stat.IsDir() {
			files = append(files, input{path: arg, rel: arg})
			continue
		}

		root := arg
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			rpath, _ := filepath.Rel(root, path)
			dir, base := filepath.Split(rpath)

			files = append(files, input{
				path:   path,
				rel:    rpath,
				schema: strings.ReplaceAll(strings.Trim(filepath.ToSlash(dir), "/"), "/", "_"),
				table:  strings.Split(base, ".")[0],
			})

			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// each calls fn for every input, at most workers at a time. The first
// error cancels the remaining inputs.
func each(ctx context.Context, files []input, fn func(ctx context.Context, i int, in input) error) error {
	workers := viper.GetInt("workers")
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, in := range files {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			if err := fn(ctx, i, in); err != nil {
				return fmt.Errorf("%s: %w", in.rel, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runInfer(cmd *cobra.Command, args []string) error {
	files, err := inputs(args)
	if err != nil {
		return err
	}

	profiles := make([]*profile.Profile, len(files))

	err = each(cmd.Context(), files, func(_ context.Context, i int, in input) error {
		r, err := newRequest(in.path)
		if err != nil {
			return err
		}

		p, err := r.Infer()
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"path":    in.rel,
			"records": p.RecordCount,
			"fields":  len(p.Fields),
		}).Info("inferred fields")

		profiles[i] = p
		return nil
	})
	if err != nil {
		return err
	}

	if len(files) == 1 {
		return writeJSON(cmd.OutOrStdout(), profiles[0])
	}

	byPath := make(map[string]*profile.Profile, len(files))
	for i, in := range files {
		byPath[in.rel] = profiles[i]
	}

	return writeJSON(cmd.OutOrStdout(), byPath)
}

func readSchema(name string) (profile.Fields, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	var p profile.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", name, err)
	}

	return p.Fields, nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	fields, err := readSchema(viper.GetString("schema_file"))
	if err != nil {
		return err
	}

	files, err := inputs(args)
	if err != nil {
		return err
	}

	return each(cmd.Context(), files, func(_ context.Context, _ int, in input) error {
		r, err := newRequest(in.path)
		if err != nil {
			return err
		}

		if err := r.Validate(fields.Clone()); err != nil {
			return err
		}

		logrus.WithField("path", in.rel).Info("valid")
		return nil
	})
}

func runArrow(cmd *cobra.Command, args []string) error {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}

	r, err := newRequest(path)
	if err != nil {
		return err
	}

	p, err := r.Infer()
	if err != nil {
		return err
	}

	schema := arrow.Schema(p.Fields)

	out := viper.GetString("ipc")
	if out == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), schema)
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}

	if err := arrow.WriteSchema(f, schema); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func runImport(cmd *cobra.Command, args []string) error {
	files, err := inputs(args)
	if err != nil {
		return err
	}

	return each(cmd.Context(), files, func(ctx context.Context, _ int, in input) error {
		r, err := newRequest(in.path)
		if err != nil {
			return err
		}

		r.Database = viper.GetString("db")
		r.Driver = viper.GetString("driver")
		r.AppendTable = viper.GetBool("append")
		r.CStore = viper.GetBool("cstore")

		r.Schema = in.schema
		if r.Schema == "" {
			r.Schema = viper.GetString("schema")
		}

		if in.table != "" {
			r.Table = in.table
		} else if t := viper.GetString("table"); t != "" && len(files) == 1 {
			r.Table = t
		}

		logrus.WithFields(logrus.Fields{
			"path":   in.rel,
			"schema": r.Schema,
			"table":  r.Table,
		}).Info("loading file")

		return baskerville.Import(ctx, r)
	})
}

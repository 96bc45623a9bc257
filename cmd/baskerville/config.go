package main

import (
	"fmt"
	"strings"

	"github.com/jaynewey/baskerville"
	"github.com/jaynewey/baskerville/profile"
	"github.com/jaynewey/baskerville/profile/csv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.SetEnvPrefix("BASKERVILLE")
	viper.AutomaticEnv()

	return nil
}

// SetupLogging configures the standard logger.
func SetupLogging() error {
	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logrus.SetLevel(level)

	if viper.GetBool("json_logs") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return nil
}

// byteOption returns a single character option. Tabs may be written as
// "\t" or "tab".
func byteOption(key string) (byte, error) {
	s := viper.GetString(key)

	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}

	if len(s) != 1 {
		return 0, fmt.Errorf("%s must be a single character: %q", key, s)
	}

	return s[0], nil
}

func csvOptions() (csv.Options, error) {
	opts := csv.DefaultOptions()

	var err error

	if opts.Delimiter, err = byteOption("delimiter"); err != nil {
		return opts, err
	}
	if opts.Delimiter == 0 {
		return opts, fmt.Errorf("delimiter is required")
	}

	if opts.Quote, err = byteOption("quote"); err != nil {
		return opts, err
	}

	if opts.Escape, err = byteOption("escape"); err != nil {
		return opts, err
	}

	if opts.Comment, err = byteOption("comment"); err != nil {
		return opts, err
	}

	opts.Quoting = viper.GetBool("quoting") && opts.Quote != 0

	if opts.Trim, err = csv.ParseTrim(viper.GetString("trim")); err != nil {
		return opts, err
	}

	if strings.EqualFold(viper.GetString("terminator"), "crlf") {
		opts.Terminator = csv.CRLF
	} else if opts.Terminator, err = byteOption("terminator"); err != nil {
		return opts, err
	}

	return opts, nil
}

// dataTypes returns the candidate types in priority order.
func dataTypes() ([]profile.DataType, error) {
	names := viper.GetStringSlice("types")

	var types []profile.DataType

	if len(names) == 0 {
		types = profile.DefaultDataTypes(viper.GetBool("temporal"))
	}

	for _, n := range names {
		switch t := profile.ParseValueType(n); t {
		case profile.UnknownType:
			return nil, fmt.Errorf("%w: %s", profile.ErrUnknownType, n)
		case profile.LiteralType:
			return nil, fmt.Errorf("literal types take their values from --literal")
		case profile.EmptyType, profile.FuncType:
			return nil, fmt.Errorf("%s is not a candidate type", t)
		default:
			types = append(types, profile.Of(t))
		}
	}

	if values := viper.GetStringSlice("literal"); len(values) > 0 {
		types = append(types, profile.NewDataType(profile.NewLiteral(values...)))
	}

	return types, nil
}

func profileOptions() (profile.Options, error) {
	types, err := dataTypes()
	if err != nil {
		return profile.Options{}, err
	}

	opts := profile.Options{
		DataTypes:     types,
		NullValidator: profile.Of(profile.EmptyType),
		HasHeader:     viper.GetBool("header"),
		Flexible:      viper.GetBool("flexible"),
		Logger:        logrus.StandardLogger(),
	}

	if null := viper.GetString("null"); null != "" {
		opts.NullValidator = profile.NewDataType(profile.NewLiteral(null))
	}

	return opts, nil
}

// newRequest returns the request for an input with the shared options.
func newRequest(path string) (*baskerville.Request, error) {
	copts, err := csvOptions()
	if err != nil {
		return nil, err
	}

	opts, err := profileOptions()
	if err != nil {
		return nil, err
	}

	r := &baskerville.Request{
		Path:        path,
		Format:      viper.GetString("format"),
		Compression: viper.GetString("compression"),
		Encoding:    viper.GetString("encoding"),
		CSV:         copts,
		Options:     opts,
	}

	if err := r.Detect(); err != nil {
		return nil, err
	}

	return r, nil
}

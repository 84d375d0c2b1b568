package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "DSPTOOL"

// app carries the state shared by every subcommand of one root command.
type app struct {
	v   *viper.Viper
	log *zap.Logger

	configFile   string
	verbose      bool
	logLevel     string
	outputFormat string
}

func newRootCmd() *cobra.Command {
	a := &app{
		v:   viper.New(),
		log: zap.NewNop(),
	}

	root := &cobra.Command{
		Use:   "dsptool",
		Short: "Spectrum, filter and resampling tools",
		Long: `dsptool runs the dsp packages from the command line.

It approximates resampling ratios, measures tone spectra, designs
windowed-sinc FIR filters, resamples WAV files and benchmarks the FFT.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initialize(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "",
		"config file (default is ./dsptool.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"verbose output")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn",
		"log level (debug, info, warn, error)")
	root.PersistentFlags().StringVarP(&a.outputFormat, "output", "o", "text",
		"output format (text, yaml, json)")

	root.AddCommand(
		newFactorsCmd(a),
		newSpectrumCmd(a),
		newFilterCmd(a),
		newResampleCmd(a),
		newBenchCmd(a),
	)

	return root
}

// initialize reads the config file, binds flags to config and environment
// values and builds the logger. It runs once per invocation, after flag
// parsing.
func (a *app) initialize(cmd *cobra.Command) error {
	if err := a.readConfig(); err != nil {
		return err
	}
	if err := bindFlags(cmd, a.v); err != nil {
		return err
	}
	if _, err := parseFormat(a.outputFormat); err != nil {
		return err
	}

	logger, err := newLogger(cmd, a.logLevel, a.verbose)
	if err != nil {
		return err
	}
	a.log = logger.Named(cmd.Name())

	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("using config file", zap.String("path", used))
	}

	return nil
}

func (a *app) readConfig() error {
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	a.v.AutomaticEnv()

	a.v.SetDefault("log-level", "warn")
	a.v.SetDefault("output", "text")

	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.configFile, err)
		}
		return nil
	}

	a.v.AddConfigPath(".")
	a.v.SetConfigName("dsptool")
	a.v.SetConfigType("yaml")
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

// bindFlags copies config and environment values into every flag the user
// did not set on the command line, then binds the flags to v.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var errs []error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" {
			return
		}

		if !f.Changed && v.IsSet(f.Name) {
			if err := setFlag(cmd.Flags(), f, v.Get(f.Name)); err != nil {
				errs = append(errs, fmt.Errorf("flag --%s: %w", f.Name, err))
			}
		}

		if err := v.BindPFlag(f.Name, f); err != nil {
			errs = append(errs, err)
		}
	})

	return errors.Join(errs...)
}

func setFlag(fs *pflag.FlagSet, f *pflag.Flag, val any) error {
	if list, ok := val.([]any); ok {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			items := make([]string, len(list))
			for i, item := range list {
				items[i] = fmt.Sprintf("%v", item)
			}
			return sv.Replace(items)
		}
	}
	return fs.Set(f.Name, fmt.Sprintf("%v", val))
}

// newLogger writes to the command's stderr: a console encoder in verbose
// mode, JSON otherwise.
func newLogger(cmd *cobra.Command, level string, verbose bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encCfg)
	if verbose {
		lvl = zapcore.DebugLevel
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(cmd.ErrOrStderr()), lvl)

	return zap.New(core), nil
}

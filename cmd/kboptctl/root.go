package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/SamuelMFS/ML-Keyboard-Optimizer/internal/observability"
	"github.com/SamuelMFS/ML-Keyboard-Optimizer/pkg/kbopt"
)

var cfgFile string

// NewRootCommand builds a fresh command tree. A new instance per execution
// keeps flag state from leaking between runs.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "kboptctl",
		Short:   "Evolve keyboard layouts against measured typing timings.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initializeConfig(cmd); err != nil {
				return err
			}
			observability.InitializeLogger(observability.Config{
				Level:       viper.GetString("log.level"),
				Format:      viper.GetString("log.format"),
				LogFile:     viper.GetString("log.file"),
				MaxSize:     viper.GetInt("log.max_size"),
				MaxBackups:  viper.GetInt("log.max_backups"),
				MaxAge:      viper.GetInt("log.max_age"),
				Compress:    viper.GetBool("log.compress"),
				ServiceName: "kboptctl",
			})
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./kboptctl.yaml)")
	root.PersistentFlags().String("store", "", "run store backend: memory or sqlite (default depends on build)")
	root.PersistentFlags().String("db", "kbopt.db", "sqlite database path")
	root.PersistentFlags().String("runs-dir", "runs", "directory for per-run artifacts")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "console", "log format: console or json")
	root.PersistentFlags().String("log-file", "", "optional rotating log file")

	_ = viper.BindPFlag("store", root.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("db", root.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("runs_dir", root.PersistentFlags().Lookup("runs-dir"))
	_ = viper.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", root.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("log.file", root.PersistentFlags().Lookup("log-file"))
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newOptimizeCommand(),
		newRunsCommand(),
		newFitnessCommand(),
		newExportCommand(),
		newCorpusStatsCommand(),
		newMergeTimingsCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI and logs failures through the global logger.
func Execute(ctx context.Context) error {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}
	return nil
}

func initializeConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("kboptctl")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("KBOPT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

func newClient() (*kbopt.Client, error) {
	return kbopt.New(kbopt.Options{
		StoreKind: viper.GetString("store"),
		DBPath:    viper.GetString("db"),
		RunsDir:   viper.GetString("runs_dir"),
	})
}

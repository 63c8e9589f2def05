package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fyerfyer/fyer-typedsql/codegen/table_gen"
	"github.com/fyerfyer/fyer-typedsql/logger"
)

const envPrefix = "TABLEGEN"

// config 优先级：命令行参数 > TABLEGEN_* 环境变量 > 配置文件
type config struct {
	Input    string `mapstructure:"input"`
	Output   string `mapstructure:"output"`
	Package  string `mapstructure:"package"`
	LogLevel string `mapstructure:"log_level"`
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "tablegen",
		Short: "Generate typed table declarations from a schema file",
		Example: `  tablegen -i ./schema.yaml -o ./internal/schema
  tablegen --config ./tablegen.yaml
  TABLEGEN_PACKAGE=models tablegen -i schema.yaml -o ./models`,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadConfig(v, cmd, cfgFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg config
			if err := v.Unmarshal(&cfg); err != nil {
				return fmt.Errorf("decode config error: %w", err)
			}
			return run(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.StringP("input", "i", "", "schema file path (e.g., ./schema.yaml)")
	flags.StringP("output", "o", "", "output directory (e.g., ./internal/schema)")
	flags.StringP("package", "p", "", "package name of the generated file (default: schema package or output dir name)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	return cmd
}

func loadConfig(v *viper.Viper, cmd *cobra.Command, cfgFile string) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, name := range []string{"input", "output", "package", "log-level"} {
		key := strings.ReplaceAll(name, "-", "_")
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config error: %w", err)
	}
	return nil
}

func run(cmd *cobra.Command, cfg config) error {
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithConsole(),
	)

	if cfg.Input == "" || cfg.Output == "" {
		return fmt.Errorf("both input and output are required")
	}

	outputDir := filepath.Clean(cfg.Output)
	log.Debug("generating tables",
		logger.String("input", cfg.Input),
		logger.String("output", outputDir),
		logger.String("package", cfg.Package))

	path, err := table_gen.GenerateFile(cfg.Input, outputDir, cfg.Package)
	if err != nil {
		log.Error("code generation failed", logger.FieldError(err))
		return err
	}

	log.Info("code generation completed", logger.String("file", path))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/config"
	"alfredoptarigan/hiring-agent/internal/logger"
)

const app = "screen"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           app,
		Short:         "screen runs candidate resumes through the hiring agent workflow",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "a config file (default is screen.yaml in current directory, optional)")
	flags.BoolP("debug", "d", false, "verbose/debug output")
	flags.BoolP("json", "j", false, "json format for logging")
	flags.String("provider", "", "reasoning provider: gemini, openai, groq, anthropic, ollama")
	flags.String("model", "", "reasoning model name")
	flags.Duration("timeout", 0, "per-call reasoning timeout")
	flags.Int("max-reflections", 0, "reflection attempt ceiling")
	flags.Float64("confidence-threshold", 0, "confidence needed to stop reflecting")
	flags.Bool("no-summary", false, "screen the raw resume instead of a summary")
	flags.Bool("lenient", false, "do not force rejection when skills do not match")

	for _, name := range []string{
		"debug", "json", "provider", "model", "timeout", "max-reflections",
		"confidence-threshold", "no-summary", "lenient",
	} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", name, err))
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	viper.SetEnvPrefix("SCREEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads environment configuration and applies the config file and
// flags on top of it.
func loadConfig() (*config.Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := config.Load()
	applyOverrides(cfg, viper.GetViper())
	return cfg, nil
}

func applyOverrides(cfg *config.Config, v *viper.Viper) {
	if v.IsSet("provider") && v.GetString("provider") != "" {
		cfg.Reasoning.Provider = strings.ToLower(v.GetString("provider"))
	}
	if v.IsSet("model") && v.GetString("model") != "" {
		cfg.Reasoning.Model = v.GetString("model")
	}
	if v.IsSet("timeout") && v.GetDuration("timeout") > 0 {
		cfg.Reasoning.Timeout = v.GetDuration("timeout")
	}
	if v.IsSet("max-reflections") && v.GetInt("max-reflections") > 0 {
		cfg.Screening.MaxReflectionAttempts = v.GetInt("max-reflections")
	}
	if v.IsSet("confidence-threshold") && v.GetFloat64("confidence-threshold") > 0 {
		cfg.Screening.ConfidenceThreshold = v.GetFloat64("confidence-threshold")
	}
	if v.GetBool("no-summary") {
		cfg.Screening.Summarize = false
	}
	if v.GetBool("lenient") {
		cfg.Screening.StrictPolicy = false
	}
	if v.GetBool("debug") {
		cfg.Log.Debug = true
	}
	if v.GetBool("json") {
		cfg.Log.JSON = true
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	l, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}
	return l, nil
}

package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/logger"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "resume-matcher"
)

type Config struct {
	ResumeFile string         `mapstructure:"resume-file" json:"resume-file,omitempty"`
	JobFile    string         `mapstructure:"job-file" json:"job-file,omitempty"`
	Analysis   map[string]any `mapstructure:"analysis" json:"analysis,omitempty"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher turns a raw model answer about a resume and a job description into a clean, consistent match report",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("resume-file", "RESUME_MATCHER_RESUME_FILE"); err != nil {
		log.Fatalf("binding RESUME_MATCHER_RESUME_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("job-file", "RESUME_MATCHER_JOB_FILE"); err != nil {
		log.Fatalf("binding RESUME_MATCHER_JOB_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// The default config file is optional. An explicit one is not.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	log.Fatal(err)
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// decodePolicy overlays the analysis section of the config on the default
// policy. Unknown keys are rejected.
func decodePolicy(section map[string]any) (analysis.Policy, error) {
	policy := analysis.DefaultPolicy()
	if len(section) == 0 {
		return policy, nil
	}

	// Lists from the config replace the defaults, mapstructure would merge them.
	for key := range section {
		switch strings.ToLower(key) {
		case "instructional-prefixes":
			policy.InstructionalPrefixes = nil
		case "non-skill-phrases":
			policy.NonSkillPhrases = nil
		case "disabled-filters":
			policy.DisabledFilters = nil
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &policy,
	})
	if err != nil {
		return policy, fmt.Errorf("creating policy decoder: %w", err)
	}

	if err := decoder.Decode(section); err != nil {
		return policy, fmt.Errorf("decoding analysis section: %w", err)
	}

	return policy, nil
}

// setup builds everything a command needs from flags and config. Any failure
// is fatal.
func setup() (*zap.Logger, *Config, *analysis.Analyzer) {
	startFields := logger.StringFields(
		logger.StringField{Key: "version", Value: version},
		logger.StringField{Key: "config", Value: viper.ConfigFileUsed()},
	)

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting the resume-matcher", startFields...)

	policy, err := decodePolicy(config.Analysis)
	if err != nil {
		logger.Fatal("reading analysis policy", zap.Error(err))
	}

	analyzer, err := analysis.New(policy, logger)
	if err != nil {
		logger.Fatal("creating an analyzer", zap.Error(err))
	}

	return logger, config, analyzer
}

package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Names   NamesConfig   `yaml:"names" mapstructure:"names"`
	Quality QualityConfig `yaml:"quality" mapstructure:"quality"`
	Verify  VerifyConfig  `yaml:"verify" mapstructure:"verify"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run history database.
type StoreConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// NamesConfig points at the optional vocabulary and manual override files.
// Empty paths fall back to the built-in vocabulary and an empty override table.
type NamesConfig struct {
	VocabularyPath string `yaml:"vocabulary_path" mapstructure:"vocabulary_path"`
	OverridesPath  string `yaml:"overrides_path" mapstructure:"overrides_path"`
}

// QualityConfig holds the single-table quality score weights and grade cutoffs.
type QualityConfig struct {
	FieldsPerRecord      int     `yaml:"fields_per_record" mapstructure:"fields_per_record"`
	InvalidEmailWeight   float64 `yaml:"invalid_email_weight" mapstructure:"invalid_email_weight"`
	MissingFieldWeight   float64 `yaml:"missing_field_weight" mapstructure:"missing_field_weight"`
	CasingWeight         float64 `yaml:"casing_weight" mapstructure:"casing_weight"`
	SpecialCharWeight    float64 `yaml:"special_char_weight" mapstructure:"special_char_weight"`
	DuplicateGroupWeight float64 `yaml:"duplicate_group_weight" mapstructure:"duplicate_group_weight"`
	GradeA               float64 `yaml:"grade_a" mapstructure:"grade_a"`
	GradeB               float64 `yaml:"grade_b" mapstructure:"grade_b"`
	GradeC               float64 `yaml:"grade_c" mapstructure:"grade_c"`
	GradeD               float64 `yaml:"grade_d" mapstructure:"grade_d"`
}

// VerifyConfig configures the master/profile consistency check.
type VerifyConfig struct {
	ExpectedRanks         int     `yaml:"expected_ranks" mapstructure:"expected_ranks"`
	CompletenessThreshold float64 `yaml:"completeness_threshold" mapstructure:"completeness_threshold"`
	LinkedInPrefix        string  `yaml:"linkedin_prefix" mapstructure:"linkedin_prefix"`
	MasterCoverageWeight  float64 `yaml:"master_coverage_weight" mapstructure:"master_coverage_weight"`
	ProfileCoverageWeight float64 `yaml:"profile_coverage_weight" mapstructure:"profile_coverage_weight"`
	ConsistencyWeight     float64 `yaml:"consistency_weight" mapstructure:"consistency_weight"`
	CompletenessWeight    float64 `yaml:"completeness_weight" mapstructure:"completeness_weight"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CONTACTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("store.enabled", true)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "contacts.db")
	v.SetDefault("names.vocabulary_path", "")
	v.SetDefault("names.overrides_path", "")
	v.SetDefault("quality.fields_per_record", 4)
	v.SetDefault("quality.invalid_email_weight", 3.0)
	v.SetDefault("quality.missing_field_weight", 2.0)
	v.SetDefault("quality.casing_weight", 0.5)
	v.SetDefault("quality.special_char_weight", 1.0)
	v.SetDefault("quality.duplicate_group_weight", 2.0)
	v.SetDefault("quality.grade_a", 90.0)
	v.SetDefault("quality.grade_b", 80.0)
	v.SetDefault("quality.grade_c", 70.0)
	v.SetDefault("quality.grade_d", 60.0)
	v.SetDefault("verify.expected_ranks", 0)
	v.SetDefault("verify.completeness_threshold", 95.0)
	v.SetDefault("verify.linkedin_prefix", "linkedin.com/")
	v.SetDefault("verify.master_coverage_weight", 0.15)
	v.SetDefault("verify.profile_coverage_weight", 0.15)
	v.SetDefault("verify.consistency_weight", 0.30)
	v.SetDefault("verify.completeness_weight", 0.40)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration for values the engine cannot work with.
func (c *Config) Validate() error {
	var errs []string

	if c.Store.Driver != "sqlite" {
		errs = append(errs, "store.driver must be sqlite, got "+c.Store.Driver)
	}
	if c.Quality.FieldsPerRecord <= 0 {
		errs = append(errs, "quality.fields_per_record must be positive")
	}
	if c.Verify.ExpectedRanks < 0 {
		errs = append(errs, "verify.expected_ranks must not be negative")
	}
	if c.Verify.CompletenessThreshold < 0 || c.Verify.CompletenessThreshold > 100 {
		errs = append(errs, "verify.completeness_threshold must be within 0-100")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// Package config provides configuration loading and validation for the CLI.
// Scraping sources, closed vocabularies and pipeline limits are explicit
// configuration values, not ambient lookups, so every stage can be built
// with injected fixed vocabularies in tests.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/pbt245/scrape-from-bhancockio/internal/types"
)

// SourceConfig describes one scraping source.
type SourceConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	CSSSelector string `mapstructure:"css_selector"`
	Enabled     bool   `mapstructure:"enabled"`
}

// VocabularyConfig holds the closed vocabularies for classification,
// matching and schema coercion.
type VocabularyConfig struct {
	Roles           []string `mapstructure:"roles"`
	SeniorityLevels []string `mapstructure:"seniority_levels"`
	SkillCategories []string `mapstructure:"skill_categories"`
	Proficiencies   []string `mapstructure:"proficiencies"`
	Recommendations []string `mapstructure:"recommendations"`
}

// Config is the full CLI configuration.
type Config struct {
	Sources       map[string]SourceConfig `mapstructure:"sources"`
	PrimarySource string                  `mapstructure:"primary_source"`

	Temperature float32 `mapstructure:"temperature"`
	Workers     int     `mapstructure:"workers"`
	PageLimit   int     `mapstructure:"page_limit"`
	UseBrowser  bool    `mapstructure:"use_browser"`

	OutputCSV  string `mapstructure:"output_csv"`
	OutputJSON string `mapstructure:"output_json"`
	JDFile     string `mapstructure:"jd_file"`

	Vocabulary VocabularyConfig `mapstructure:"vocabulary"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Sources: map[string]SourceConfig{
			"itviec": {
				BaseURL:     "https://itviec.com/it-jobs",
				CSSSelector: "[class*='job-details'], [class*='candidate']",
				Enabled:     true,
			},
			"topcv": {
				BaseURL:     "https://www.topcv.vn/viec-lam-it",
				CSSSelector: "[class*='cv-item'], [class*='profile']",
				Enabled:     false,
			},
			"github": {
				BaseURL:     "https://github.com/search?q=location:vietnam+type:user",
				CSSSelector: "[class*='user-list-info']",
				Enabled:     true,
			},
		},
		PrimarySource: "github",
		Temperature:   0.3,
		Workers:       1,
		PageLimit:     3,
		OutputCSV:     "candidates_cv_data.csv",
		OutputJSON:    "candidates_cv_data.json",
		JDFile:        "job_description.txt",
		Vocabulary: VocabularyConfig{
			Roles: []string{
				"Software Engineer",
				"Frontend Developer",
				"Backend Developer",
				"Full Stack Developer",
				"DevOps Engineer",
				"Data Engineer",
				"Data Scientist",
				"ML Engineer",
				"Mobile Developer",
				"QA Engineer",
				"Product Manager",
				"Technical Lead",
				"Architect",
				"Other",
			},
			SeniorityLevels: []string{
				"Intern",
				"Fresher",
				"Junior",
				"Mid-level",
				"Senior",
				"Lead",
				"Principal",
				"Staff",
			},
			SkillCategories: []string{
				"programming_languages",
				"frameworks",
				"tools",
				"databases",
				"cloud",
				"other",
			},
			Proficiencies: []string{
				"Beginner",
				"Intermediate",
				"Advanced",
				"Expert",
			},
			Recommendations: []string{
				"strong_yes",
				"yes",
				"maybe",
				"no",
			},
		},
	}
}

// Load reads configuration from an optional file path, falling back to
// cvscout.yaml in the working directory, with CVSCOUT_* environment
// variables overriding file values. A missing config file is not an error;
// defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CVSCOUT")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("cvscout")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	cfg := Default()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return cfg, nil
		}
		if path != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	src, ok := c.Sources[c.PrimarySource]
	if !ok {
		return fmt.Errorf("config error: primary_source %q is not a configured source", c.PrimarySource)
	}
	if !src.Enabled {
		return fmt.Errorf("config error: primary_source %q is disabled", c.PrimarySource)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config error: workers must be at least 1")
	}
	if c.PageLimit < 1 {
		return fmt.Errorf("config error: page_limit must be at least 1")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("config error: temperature must be in [0,1]")
	}
	return nil
}

// Vocabularies converts the vocabulary section into the injected form the
// pipeline stages consume.
func (c *Config) Vocabularies() types.Vocabularies {
	return types.Vocabularies{
		Roles:           c.Vocabulary.Roles,
		SeniorityLevels: c.Vocabulary.SeniorityLevels,
		SkillCategories: c.Vocabulary.SkillCategories,
		Proficiencies:   c.Vocabulary.Proficiencies,
		Recommendations: c.Vocabulary.Recommendations,
	}
}

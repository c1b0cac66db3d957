package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Built-in stop word sets
const (
	StopWordsDexter  = "dexter"
	StopWordsEnglish = "english"
)

// ConfigFileName is the base name (without extension) of the optional config file.
const ConfigFileName = "dexter"

// DefaultExtensions lists the file extensions treated as text files.
var DefaultExtensions = []string{".txt", ".py", ".cpp", ".c", ".h", ".hpp", ".pas", ".sql"}

// IndexSettings configuration for building indexes
type IndexSettings struct {
	Recurse        bool          `mapstructure:"recurse"`
	Extensions     []string      `mapstructure:"extensions"`
	MinWordLength  int           `mapstructure:"min_word_length"`
	StopWords      string        `mapstructure:"stop_words"` // StopWordsDexter or StopWordsEnglish
	IgnoreFile     string        `mapstructure:"ignore_file"`
	ConfigDir      string        `mapstructure:"config_dir"`
	SkipUnreadable bool          `mapstructure:"skip_unreadable"`
	LockTimeout    time.Duration `mapstructure:"lock_timeout"`
}

// QuerySettings configuration for find and list
type QuerySettings struct {
	Reindex       bool `mapstructure:"reindex"`
	Abbreviate    bool `mapstructure:"abbreviate"`
	SkipMalformed bool `mapstructure:"skip_malformed"`
}

// Settings application settings
type Settings struct {
	Verbose bool          `mapstructure:"verbose"`
	Index   IndexSettings `mapstructure:"index"`
	Query   QuerySettings `mapstructure:"query"`
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > config file > defaults.
// If flags is nil, only env vars, the config file and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("verbose", false)

	v.SetDefault("index.recurse", false)
	v.SetDefault("index.extensions", slices.Clone(DefaultExtensions))
	v.SetDefault("index.min_word_length", 3)
	v.SetDefault("index.stop_words", StopWordsDexter)
	v.SetDefault("index.ignore_file", "")
	v.SetDefault("index.config_dir", defaultConfigDir())
	v.SetDefault("index.skip_unreadable", false)
	v.SetDefault("index.lock_timeout", 10*time.Second)

	v.SetDefault("query.reindex", false)
	v.SetDefault("query.abbreviate", false)
	v.SetDefault("query.skip_malformed", false)

	// Environment variables
	v.SetEnvPrefix("DEXTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("verbose", "DEXTER_VERBOSE")
	_ = v.BindEnv("index.recurse", "DEXTER_INDEX_RECURSE")
	_ = v.BindEnv("index.extensions", "DEXTER_INDEX_EXTENSIONS")
	_ = v.BindEnv("index.min_word_length", "DEXTER_INDEX_MIN_WORD_LENGTH")
	_ = v.BindEnv("index.stop_words", "DEXTER_INDEX_STOP_WORDS")
	_ = v.BindEnv("index.ignore_file", "DEXTER_INDEX_IGNORE_FILE")
	_ = v.BindEnv("index.config_dir", "DEXTER_INDEX_CONFIG_DIR")
	_ = v.BindEnv("index.skip_unreadable", "DEXTER_INDEX_SKIP_UNREADABLE")
	_ = v.BindEnv("index.lock_timeout", "DEXTER_INDEX_LOCK_TIMEOUT")
	_ = v.BindEnv("query.reindex", "DEXTER_QUERY_REINDEX")
	_ = v.BindEnv("query.abbreviate", "DEXTER_QUERY_ABBREVIATE")
	_ = v.BindEnv("query.skip_malformed", "DEXTER_QUERY_SKIP_MALFORMED")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("verbose", flags.Lookup("verbose"))
		_ = v.BindPFlag("index.recurse", flags.Lookup("recurse"))
		_ = v.BindPFlag("index.extensions", flags.Lookup("extensions"))
		_ = v.BindPFlag("index.min_word_length", flags.Lookup("min-length"))
		_ = v.BindPFlag("index.stop_words", flags.Lookup("stop-words"))
		_ = v.BindPFlag("index.ignore_file", flags.Lookup("ignore-file"))
		_ = v.BindPFlag("index.config_dir", flags.Lookup("config-dir"))
		_ = v.BindPFlag("index.skip_unreadable", flags.Lookup("skip-unreadable"))
		_ = v.BindPFlag("index.lock_timeout", flags.Lookup("lock-timeout"))
		_ = v.BindPFlag("query.reindex", flags.Lookup("reindex"))
		_ = v.BindPFlag("query.abbreviate", flags.Lookup("abbrev"))
		_ = v.BindPFlag("query.skip_malformed", flags.Lookup("skip-malformed"))
	}

	// Optional dexter.{yaml,json,toml,...} in the working directory or the config directory
	v.SetConfigName(ConfigFileName)
	v.AddConfigPath(".")
	v.AddConfigPath(expandHomeDir(v.GetString("index.config_dir")))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Handle explicit parsing of extensions if provided via env var as comma-separated string
	extensionsEnv := os.Getenv("DEXTER_INDEX_EXTENSIONS")
	if extensionsEnv != "" {
		if len(settings.Index.Extensions) == 0 || (len(settings.Index.Extensions) == 1 && strings.Contains(settings.Index.Extensions[0], ",")) {
			settings.Index.Extensions = strings.Split(extensionsEnv, ",")
		}
	}

	for i := range settings.Index.Extensions {
		settings.Index.Extensions[i] = strings.TrimSpace(settings.Index.Extensions[i])
	}
	settings.Index.Extensions = filterEmptyStrings(settings.Index.Extensions)

	settings.Index.StopWords = strings.ToLower(strings.TrimSpace(settings.Index.StopWords))
	settings.Index.ConfigDir = expandHomeDir(settings.Index.ConfigDir)
	settings.Index.IgnoreFile = expandHomeDir(settings.Index.IgnoreFile)

	return &settings, nil
}

// defaultConfigDir returns the per-user dexter directory
func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dexter"
	}
	return filepath.Join(home, ".dexter")
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// filterEmptyStrings removes empty strings from a slice
func filterEmptyStrings(s []string) []string {
	var result []string
	for _, str := range s {
		if str != "" {
			result = append(result, str)
		}
	}
	return result
}

// ValidateSettings checks for invalid or conflicting configuration values.
func ValidateSettings(s *Settings) error {
	return validateIndexSettings(&s.Index)
}

// validateIndexSettings validates the index configuration
func validateIndexSettings(s *IndexSettings) error {
	if s.MinWordLength < 0 {
		return errors.New("min-length cannot be negative")
	}

	switch s.StopWords {
	case StopWordsDexter, StopWordsEnglish:
		// valid
	default:
		return errors.New("stop-words must be 'dexter' or 'english', got: " + s.StopWords)
	}

	if len(s.Extensions) == 0 {
		return errors.New("extensions requires at least one file extension")
	}
	for _, ext := range s.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.New("extensions must start with a dot, got: " + ext)
		}
	}

	if s.LockTimeout <= 0 {
		return errors.New("lock-timeout must be positive")
	}

	if s.ConfigDir == "" {
		return errors.New("config-dir cannot be empty")
	}

	return nil
}

// config/config.go
package config

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go-artifact-cleanup/internal/domain/eviction"
	"go-artifact-cleanup/internal/infrastructure/logger"
	"go-artifact-cleanup/pkg/constants"
	"go-artifact-cleanup/pkg/result"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is matched by every ConfigError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigError reports a missing or malformed setting.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidConfig, e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type Config struct {
	Owner             string
	Repo              string
	Token             string
	MaxSizeGB         float64
	MaxSizeBytes      int64
	DryRun            bool
	DeleteConcurrency int
	APIURL            string

	CleanupSchedule string
	CleanupTimeout  time.Duration
	HTTPPort        string
	HistoryDBPath   string
	TimeZone        string

	TelegramBotToken string
	TelegramChatID   string

	// Logger config
	Logger logger.Config
}

// Repository returns the owner/repo slug
func (c *Config) Repository() string {
	return c.Owner + "/" + c.Repo
}

// Environment names for each key. Action inputs arrive as INPUT_* variables,
// the runner's own context as GITHUB_*.
var envBindings = map[string][]string{
	"github_token":       {"INPUT_TOKEN", "GITHUB_TOKEN"},
	"github_repository":  {"GITHUB_REPOSITORY"},
	"github_api_url":     {"GITHUB_API_URL"},
	"owner":              {"OWNER", "INPUT_OWNER"},
	"repo":               {"REPO", "INPUT_REPO"},
	"max_size_gb":        {"MAX_SIZE_GB", "INPUT_MAX_SIZE"},
	"dry_run":            {"DRY_RUN", "INPUT_DRY_RUN"},
	"delete_concurrency": {"DELETE_CONCURRENCY", "INPUT_CONCURRENCY"},
}

// SetDefaults registers environment bindings and defaults on v.
func SetDefaults(v *viper.Viper) {
	v.AutomaticEnv()
	for key, envs := range envBindings {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}

	v.SetDefault("github_api_url", "https://api.github.com")
	v.SetDefault("dry_run", false)
	v.SetDefault("delete_concurrency", constants.DefaultDeleteConcurrency)
	v.SetDefault("cleanup_schedule", "0 * * * *")
	v.SetDefault("cleanup_timeout", constants.CleanupTimeout)
	v.SetDefault("http_port", "8080")
	v.SetDefault("time_zone", "UTC")

	// Logger defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "")
	v.SetDefault("log_max_size", 100)  // 100MB
	v.SetDefault("log_max_backups", 5) // 5 files
	v.SetDefault("log_max_age", 30)    // 30 days
	v.SetDefault("log_compress", true)
}

// LoadConfig reads an optional config file and validates the settings held by v.
func LoadConfig(v *viper.Viper, configFile string) result.Result[*Config] {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return result.Fail[*Config](&ConfigError{Key: "config_file", Reason: err.Error()})
		}
	}

	owner, repo, err := resolveRepository(
		v.GetString("owner"), v.GetString("repo"), v.GetString("github_repository"))
	if err != nil {
		return result.Fail[*Config](err)
	}

	token := strings.TrimSpace(v.GetString("github_token"))
	if token == "" {
		return result.Fail[*Config](&ConfigError{Key: "github_token", Reason: "a GitHub token is required"})
	}

	maxSize, err := parseMaxSize(v.GetString("max_size_gb"))
	if err != nil {
		return result.Fail[*Config](err)
	}

	concurrency := v.GetInt("delete_concurrency")
	if concurrency < 1 {
		return result.Fail[*Config](&ConfigError{Key: "delete_concurrency", Reason: "must be at least 1"})
	}

	timeout := v.GetDuration("cleanup_timeout")
	if timeout <= 0 {
		return result.Fail[*Config](&ConfigError{Key: "cleanup_timeout", Reason: "must be a positive duration"})
	}

	return result.Ok(&Config{
		Owner:             owner,
		Repo:              repo,
		Token:             token,
		MaxSizeGB:         maxSize,
		MaxSizeBytes:      eviction.GBToBytes(maxSize),
		DryRun:            v.GetBool("dry_run"),
		DeleteConcurrency: concurrency,
		APIURL:            v.GetString("github_api_url"),
		CleanupSchedule:   v.GetString("cleanup_schedule"),
		CleanupTimeout:    timeout,
		HTTPPort:          v.GetString("http_port"),
		HistoryDBPath:     v.GetString("history_db_path"),
		TimeZone:          v.GetString("time_zone"),
		TelegramBotToken:  v.GetString("telegram_bot_token"),
		TelegramChatID:    v.GetString("telegram_chat_id"),
		Logger: logger.Config{
			Level:      v.GetString("log_level"),
			LogDir:     v.GetString("log_dir"),
			MaxSize:    v.GetInt("log_max_size"),
			MaxBackups: v.GetInt("log_max_backups"),
			MaxAge:     v.GetInt("log_max_age"),
			Compress:   v.GetBool("log_compress"),
		},
	})
}

// resolveRepository picks owner and repo from explicit settings, an owner/repo
// value in repo, or the runner's GITHUB_REPOSITORY, in that order.
func resolveRepository(owner, repo, fallback string) (string, string, error) {
	owner = strings.TrimSpace(owner)
	repo = strings.TrimSpace(repo)

	switch {
	case owner == "" && strings.Contains(repo, "/"):
		return splitRepository(repo)
	case owner == "" && repo == "":
		if strings.TrimSpace(fallback) == "" {
			return "", "", &ConfigError{Key: "repo", Reason: "owner and repo are required"}
		}
		return splitRepository(fallback)
	}

	if owner == "" || repo == "" {
		return "", "", &ConfigError{Key: "repo", Reason: "owner and repo must both be set"}
	}
	if !namePattern.MatchString(owner) || !namePattern.MatchString(repo) {
		return "", "", &ConfigError{Key: "repo", Reason: fmt.Sprintf("malformed repository %q", owner+"/"+repo)}
	}
	return owner, repo, nil
}

func splitRepository(slug string) (string, string, error) {
	parts := strings.Split(strings.TrimSpace(slug), "/")
	if len(parts) != 2 || !namePattern.MatchString(parts[0]) || !namePattern.MatchString(parts[1]) {
		return "", "", &ConfigError{Key: "repo", Reason: fmt.Sprintf("malformed repository %q, expected owner/repo", slug)}
	}
	return parts[0], parts[1], nil
}

func parseMaxSize(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ConfigError{Key: "max_size_gb", Reason: "a size limit is required"}
	}
	size, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ConfigError{Key: "max_size_gb", Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return 0, &ConfigError{Key: "max_size_gb", Reason: "must be a positive number of GB"}
	}
	if size >= eviction.MaxGB {
		return 0, &ConfigError{Key: "max_size_gb", Reason: fmt.Sprintf("must be below %.0f GB", eviction.MaxGB)}
	}
	return size, nil
}

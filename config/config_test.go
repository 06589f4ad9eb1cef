package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the loader reads so the host environment
// (for example a CI runner) cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, env := range envs {
			t.Setenv(env, "")
		}
	}
	for _, env := range []string{
		"CLEANUP_SCHEDULE", "CLEANUP_TIMEOUT", "HTTP_PORT", "HISTORY_DB_PATH", "TIME_ZONE",
		"LOG_LEVEL", "LOG_DIR", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	} {
		t.Setenv(env, "")
	}
}

func TestLoadConfig(t *testing.T) {
	type input struct {
		env map[string]string
	}

	type expected struct {
		hasErr      bool
		errKey      string
		owner       string
		repo        string
		maxBytes    int64
		dryRun      bool
		concurrency int
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "action inputs",
			input: input{env: map[string]string{
				"INPUT_TOKEN":       "ghp_secret",
				"GITHUB_REPOSITORY": "octo/repo",
				"INPUT_MAX_SIZE":    "1.5",
				"INPUT_DRY_RUN":     "true",
			}},
			expected: expected{owner: "octo", repo: "repo", maxBytes: 3 << 29, dryRun: true, concurrency: 5},
		},
		{
			name: "explicit owner and repo win over runner repository",
			input: input{env: map[string]string{
				"GITHUB_TOKEN":       "ghp_secret",
				"GITHUB_REPOSITORY":  "octo/repo",
				"OWNER":              "acme",
				"REPO":               "widgets",
				"MAX_SIZE_GB":        "2",
				"DELETE_CONCURRENCY": "10",
			}},
			expected: expected{owner: "acme", repo: "widgets", maxBytes: 2 << 30, concurrency: 10},
		},
		{
			name: "repo given as slug",
			input: input{env: map[string]string{
				"GITHUB_TOKEN": "t",
				"REPO":         "acme/widgets",
				"MAX_SIZE_GB":  "1",
			}},
			expected: expected{owner: "acme", repo: "widgets", maxBytes: 1 << 30, concurrency: 5},
		},
		{
			name:     "missing token",
			input:    input{env: map[string]string{"GITHUB_REPOSITORY": "octo/repo", "MAX_SIZE_GB": "1"}},
			expected: expected{hasErr: true, errKey: "github_token"},
		},
		{
			name:     "missing repository",
			input:    input{env: map[string]string{"GITHUB_TOKEN": "t", "MAX_SIZE_GB": "1"}},
			expected: expected{hasErr: true, errKey: "repo"},
		},
		{
			name:     "malformed repository",
			input:    input{env: map[string]string{"GITHUB_TOKEN": "t", "GITHUB_REPOSITORY": "octo/repo/extra", "MAX_SIZE_GB": "1"}},
			expected: expected{hasErr: true, errKey: "repo"},
		},
		{
			name:     "owner without repo",
			input:    input{env: map[string]string{"GITHUB_TOKEN": "t", "OWNER": "octo", "MAX_SIZE_GB": "1"}},
			expected: expected{hasErr: true, errKey: "repo"},
		},
		{
			name:     "zero limit",
			input:    input{env: map[string]string{"GITHUB_TOKEN": "t", "GITHUB_REPOSITORY": "octo/repo", "MAX_SIZE_GB": "0"}},
			expected: expected{hasErr: true, errKey: "max_size_gb"},
		},
		{
			name:     "negative limit",
			input:    input{env: map[string]string{"GITHUB_TOKEN": "t", "GITHUB_REPOSITORY": "octo/repo", "MAX_SIZE_GB": "-3"}},
			expected: expected{hasErr: true, errKey: "max_size_gb"},
		},
		{
			name:     "limit too large for bytes",
			input:    input{env: map[string]string{"GITHUB_TOKEN": "t", "GITHUB_REPOSITORY": "octo/repo", "MAX_SIZE_GB": "1e10"}},
			expected: expected{hasErr: true, errKey: "max_size_gb"},
		},
		{
			name: "large limit within range",
			input: input{env: map[string]string{
				"GITHUB_TOKEN": "t", "GITHUB_REPOSITORY": "octo/repo", "MAX_SIZE_GB": "1000000",
			}},
			expected: expected{owner: "octo", repo: "repo", maxBytes: 1000000 << 30, concurrency: 5},
		},
		{
			name:     "non numeric limit",
			input:    input{env: map[string]string{"GITHUB_TOKEN": "t", "GITHUB_REPOSITORY": "octo/repo", "MAX_SIZE_GB": "lots"}},
			expected: expected{hasErr: true, errKey: "max_size_gb"},
		},
		{
			name:     "missing limit",
			input:    input{env: map[string]string{"GITHUB_TOKEN": "t", "GITHUB_REPOSITORY": "octo/repo"}},
			expected: expected{hasErr: true, errKey: "max_size_gb"},
		},
		{
			name: "bad concurrency",
			input: input{env: map[string]string{
				"GITHUB_TOKEN": "t", "GITHUB_REPOSITORY": "octo/repo", "MAX_SIZE_GB": "1", "DELETE_CONCURRENCY": "0",
			}},
			expected: expected{hasErr: true, errKey: "delete_concurrency"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.input.env {
				t.Setenv(k, v)
			}

			res := LoadConfig(viper.New(), "")

			if tt.expected.hasErr {
				require.True(t, res.IsErr())
				assert.ErrorIs(t, res.Err(), ErrInvalidConfig)

				var cfgErr *ConfigError
				require.ErrorAs(t, res.Err(), &cfgErr)
				assert.Equal(t, tt.expected.errKey, cfgErr.Key)
				return
			}

			require.True(t, res.IsOk(), "unexpected error: %v", res.Err())
			cfg := res.Value()
			assert.Equal(t, tt.expected.owner, cfg.Owner)
			assert.Equal(t, tt.expected.repo, cfg.Repo)
			assert.Equal(t, tt.expected.owner+"/"+tt.expected.repo, cfg.Repository())
			assert.Equal(t, tt.expected.maxBytes, cfg.MaxSizeBytes)
			assert.Equal(t, tt.expected.dryRun, cfg.DryRun)
			assert.Equal(t, tt.expected.concurrency, cfg.DeleteConcurrency)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "t")
	t.Setenv("GITHUB_REPOSITORY", "octo/repo")
	t.Setenv("MAX_SIZE_GB", "1")

	cfg, err := LoadConfig(viper.New(), "").Unwrap()
	require.NoError(t, err)

	assert.Equal(t, "https://api.github.com", cfg.APIURL)
	assert.Equal(t, "0 * * * *", cfg.CleanupSchedule)
	assert.Equal(t, 30*time.Minute, cfg.CleanupTimeout)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 100, cfg.Logger.MaxSize)
	assert.True(t, cfg.Logger.Compress)
	assert.Empty(t, cfg.HistoryDBPath)
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "GITHUB_TOKEN=file-token\nGITHUB_REPOSITORY=acme/widgets\nMAX_SIZE_GB=0.5\nCLEANUP_SCHEDULE=\"*/5 * * * *\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfig(viper.New(), path).Unwrap()
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Token)
	assert.Equal(t, "acme", cfg.Owner)
	assert.Equal(t, int64(1<<29), cfg.MaxSizeBytes)
	assert.Equal(t, "*/5 * * * *", cfg.CleanupSchedule)

	missing := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.env"))
	assert.ErrorIs(t, missing.Err(), ErrInvalidConfig)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvAPIToken, "  secret  ")

	tests := []struct {
		name    string
		body    string
		noFile  bool
		want    Config
		wantErr bool
	}{
		{
			name:   "defaults without a file",
			noFile: true,
			want: func() Config {
				c := Default()
				c.APIToken = "secret"
				return c
			}(),
		},
		{
			name: "file overrides selected keys",
			body: "courtesy_delay_ms: 250\ndebug_mode: true\naccount_channel: Shopify\nlog_file: \"\"\n",
			want: func() Config {
				c := Default()
				c.CourtesyDelayMs = 250
				c.DebugMode = true
				c.AccountChannel = "Shopify"
				c.LogFile = ""
				c.APIToken = "secret"
				return c
			}(),
		},
		{
			name:    "malformed yaml",
			body:    "courtesy_delay_ms: [1, 2\n",
			wantErr: true,
		},
		{
			name:    "wrong type",
			body:    "page_size: lots\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ""
			if !tt.noFile {
				path = writeConfig(t, tt.body)
			}

			got, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Durations(t *testing.T) {
	c := Config{CourtesyDelayMs: 500, RequestTimeoutMs: 1500}
	assert.Equal(t, 500*time.Millisecond, c.CourtesyDelay())
	assert.Equal(t, 1500*time.Millisecond, c.RequestTimeout())
}

func TestConfig_Validate(t *testing.T) {
	valid := Default()
	valid.APIToken = "token"
	assert.NoError(t, valid.Validate())

	invalid := Default()
	invalid.CourtesyDelayMs = -1
	invalid.PageSize = 0
	err := invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAPIToken)
	assert.Contains(t, err.Error(), "courtesy_delay_ms")
	assert.Contains(t, err.Error(), "page_size")
}

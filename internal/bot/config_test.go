package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, normalize(cfg))

	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5, cfg.Database.MaxConnections)
	assert.Equal(t, "en", cfg.Locale.Default)
}

func TestNormalizeRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown session backend",
			mutate:  func(c *Config) { c.Session.Backend = "dynamo" },
			wantErr: "session.backend",
		},
		{
			name:    "redis backend without address",
			mutate:  func(c *Config) { c.Session.Backend = SessionBackendRedis },
			wantErr: "session.redis_addr",
		},
		{
			name:    "negative session ttl",
			mutate:  func(c *Config) { c.Session.TTLMinutes = -1 },
			wantErr: "session.ttl_minutes",
		},
		{
			name:    "email enabled without sender",
			mutate:  func(c *Config) { c.Email.Enabled = true },
			wantErr: "email.from",
		},
		{
			name:    "calendar enabled without credentials",
			mutate:  func(c *Config) { c.Calendar.Enabled = true },
			wantErr: "calendar.credentials_file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			tt.mutate(cfg)
			err := normalize(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNormalizeAcceptsRedisWithAddr(t *testing.T) {
	cfg := &Config{}
	cfg.Session.Backend = "Redis"
	cfg.Session.RedisAddr = "localhost:6379"
	require.NoError(t, normalize(cfg))
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
}

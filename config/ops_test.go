package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpsConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         OpsConfig
		wantErr     bool
		errContains string
	}{
		{
			name: "valid",
			cfg:  OpsConfig{IRCHost: "irc.ppy.sh", IRCPort: "6667", LogLevel: "info", SendPaceMS: 500},
		},
		{
			name:        "missing host",
			cfg:         OpsConfig{IRCPort: "6667", LogLevel: "info", SendPaceMS: 500},
			wantErr:     true,
			errContains: "IRC_HOST",
		},
		{
			name:        "invalid log level",
			cfg:         OpsConfig{IRCHost: "h", IRCPort: "6667", LogLevel: "verbose", SendPaceMS: 500},
			wantErr:     true,
			errContains: "LOG_LEVEL",
		},
		{
			name:        "non-positive send pace",
			cfg:         OpsConfig{IRCHost: "h", IRCPort: "6667", LogLevel: "info", SendPaceMS: 0},
			wantErr:     true,
			errContains: "SEND_PACE_MS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

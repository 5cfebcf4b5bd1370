package config

import "fmt"

// OpsConfig holds process-level settings that are not part of the room
// roster: the network endpoint, logging granularity, and fetch timeouts.
// It is loaded from the environment with envconfig, optionally preloaded
// from a dotenv-style file.
type OpsConfig struct {
	IRCHost          string `envconfig:"IRC_HOST" default:"irc.ppy.sh"`
	IRCPort          string `envconfig:"IRC_PORT" default:"6667"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info" desc:"trace, debug, info, warning, error, critical"`
	LogDir           string `envconfig:"LOG_DIR" default:"."`
	ConnectTimeoutMS int    `envconfig:"CONNECT_TIMEOUT_MS" default:"5000"`
	FetchTimeoutMS   int    `envconfig:"FETCH_TIMEOUT_MS" default:"10000"`
	ReconcileTickMS  int    `envconfig:"RECONCILE_TICK_MS" default:"3000"`
	SendPaceMS       int    `envconfig:"SEND_PACE_MS" default:"500"`
}

// Validate checks field-level constraints that envconfig's struct tags
// can't express.
func (c OpsConfig) Validate() error {
	if c.IRCHost == "" {
		return fmt.Errorf("ops config: IRC_HOST is required")
	}
	if c.IRCPort == "" {
		return fmt.Errorf("ops config: IRC_PORT is required")
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warning", "error", "critical":
	default:
		return fmt.Errorf("ops config: invalid LOG_LEVEL %q", c.LogLevel)
	}
	if c.SendPaceMS <= 0 {
		return fmt.Errorf("ops config: SEND_PACE_MS must be positive")
	}
	return nil
}

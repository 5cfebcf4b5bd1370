// Package config defines the bot's startup configuration: the JSON room
// roster loaded once at process start, and the ambient process settings
// loaded from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// BotMode selects whether a room cycles host privilege through its player
// queue (AutoHost) or cycles a pre-filtered beatmap queue with no host
// (AutoPick).
type BotMode int

const (
	AutoHost BotMode = 0
	AutoPick BotMode = 1
)

// RoomConfig is immutable once loaded; it never changes for the lifetime of
// the process.
type RoomConfig struct {
	Name               string  `json:"name"`
	Password           string  `json:"password"`
	TeamMode           int     `json:"team_mode"`
	ScoreMode          int     `json:"score_mode"`
	PlayMode           int     `json:"play_mode"`
	RoomSize           int     `json:"room_size"`
	BotMode            BotMode `json:"bot_mode"`
	MinStar            float64 `json:"min"`
	MaxStar            float64 `json:"max"`
	CurrentBeatmap     int     `json:"current_beatmap"`
	BeatmapsetFilename string  `json:"beatmapset_filename"`
}

const defaultRoomSize = 16

// StartupConfig is the top-level JSON document the bot loads at launch:
// IRC credentials plus the roster of rooms to host.
type StartupConfig struct {
	Username string       `json:"username"`
	Password string       `json:"password"`
	Rooms    []RoomConfig `json:"rooms"`
}

// Load reads and validates a StartupConfig from path.
func Load(path string) (StartupConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return StartupConfig{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg StartupConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return StartupConfig{}, fmt.Errorf("parse config file: %w", err)
	}

	for i := range cfg.Rooms {
		cfg.Rooms[i].Name = strings.TrimSpace(cfg.Rooms[i].Name)
		if cfg.Rooms[i].RoomSize == 0 {
			cfg.Rooms[i].RoomSize = defaultRoomSize
		}
	}

	if err := cfg.Validate(); err != nil {
		return StartupConfig{}, err
	}

	return cfg, nil
}

// Validate returns a fatal configuration error: an AutoPick room with no
// beatmapset_filename, a room with no name, or duplicate room names.
func (c StartupConfig) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("config: username is required")
	}
	if len(c.Rooms) == 0 {
		return fmt.Errorf("config: at least one room is required")
	}

	seen := make(map[string]struct{}, len(c.Rooms))
	for _, room := range c.Rooms {
		if room.Name == "" {
			return fmt.Errorf("config: room name is required")
		}
		if _, dup := seen[room.Name]; dup {
			return fmt.Errorf("config: duplicate room name %q", room.Name)
		}
		seen[room.Name] = struct{}{}

		if room.BotMode == AutoPick && room.BeatmapsetFilename == "" {
			return fmt.Errorf("config: room %q is AutoPick but has no beatmapset_filename", room.Name)
		}
		if room.MinStar > room.MaxStar {
			return fmt.Errorf("config: room %q has min star %.2f greater than max star %.2f", room.Name, room.MinStar, room.MaxStar)
		}
	}

	return nil
}

// Command server runs the match-room host bot: it loads a room roster,
// connects to the configured IRC server, and drives every configured
// room through its lifecycle until stopped.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/astrolabio1417/testbot/beatmap"
	"github.com/astrolabio1417/testbot/config"
	"github.com/astrolabio1417/testbot/ircnet"
	"github.com/astrolabio1417/testbot/logging"
	"github.com/astrolabio1417/testbot/registry"
	"github.com/astrolabio1417/testbot/room"
)

var (
	configPath string
	envPath    string
	logLevel   string
)

func init() {
	pflag.StringVar(&configPath, "config", "config.json", "path to the room roster JSON file")
	pflag.StringVar(&envPath, "env", ".env", "path to an optional dotenv file for ops settings")
	pflag.StringVar(&logLevel, "log-level", "", "override LOG_LEVEL from the environment")
	pflag.Parse()

	if err := godotenv.Load(envPath); err != nil {
		fmt.Printf("no dotenv file at %s, using process environment only\n", envPath)
	}
}

func main() {
	var ops config.OpsConfig
	if err := envconfig.Process("", &ops); err != nil {
		fmt.Printf("startup failed: load ops config: %s\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		ops.LogLevel = logLevel
	}
	if err := ops.Validate(); err != nil {
		fmt.Printf("startup failed: %s\n", err)
		os.Exit(1)
	}

	startup, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("startup failed: %s\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(ops, time.Now().Format("20060102-150405"))
	if err != nil {
		fmt.Printf("startup failed: build logger: %s\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, err := buildRegistry(startup, ops, logger)
	if err != nil {
		logger.Error("startup failed", zap.Error(err))
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%s", ops.IRCHost, ops.IRCPort)
	connectTimeout := time.Duration(ops.ConnectTimeoutMS) * time.Millisecond
	sendPace := time.Duration(ops.SendPaceMS) * time.Millisecond
	reconcileTick := time.Duration(ops.ReconcileTickMS) * time.Millisecond

	for {
		if ctx.Err() != nil {
			return
		}

		connID := uuid.NewString()
		connLogger := logger.With(zap.String("conn_id", connID))

		conn, err := ircnet.DialTCP(addr, startup.Username, startup.Password, connectTimeout)
		if err != nil {
			connLogger.Error("connect failed, retrying", zap.Error(err))
			if !sleepOrDone(ctx, connectTimeout) {
				return
			}
			continue
		}

		sender := ircnet.NewIRCSender(ircnet.NewPacedSender(conn, sendPace))
		for _, sess := range reg.All() {
			sess.Sender = sender
		}
		dispatcher := registry.NewDispatcher(reg)
		reconciler := registry.NewReconciler(reg, sender)
		engine := registry.NewEngine(conn, sender, dispatcher, reconciler, reg, startup.Username, connLogger)

		ticker := time.NewTicker(reconcileTick)
		connLogger.Info("connected", zap.String("addr", addr))
		err = engine.Run(ctx, ticker.C)
		ticker.Stop()

		if err == nil {
			return
		}
		connLogger.Error("disconnected, reconnecting", zap.Error(err))
	}
}

// buildRegistry constructs one Session per configured room, loading and
// filtering the beatmap catalog for AutoPick rooms. The catalog is
// shuffled once at startup so successive rooms don't all serve the same
// opening map.
func buildRegistry(startup config.StartupConfig, ops config.OpsConfig, logger *zap.Logger) (*registry.Registry, error) {
	reg := registry.New()
	connectTimeout := time.Duration(ops.ConnectTimeoutMS) * time.Millisecond
	fetchTimeout := time.Duration(ops.FetchTimeoutMS) * time.Millisecond
	fetcher := beatmap.NewHTTPFetcher(connectTimeout, fetchTimeout)
	policy := beatmap.NewPolicy(fetcher)

	for _, roomCfg := range startup.Rooms {
		var records []beatmap.Record
		if roomCfg.BotMode == config.AutoPick {
			catalog, err := beatmap.LoadCatalog(roomCfg.BeatmapsetFilename)
			if err != nil {
				return nil, fmt.Errorf("room %q: %w", roomCfg.Name, err)
			}
			filtered := beatmap.FilterByStars(catalog, roomCfg.MinStar, roomCfg.MaxStar)
			rand.Shuffle(len(filtered), func(i, j int) { filtered[i], filtered[j] = filtered[j], filtered[i] })
			records = filtered
			logger.Info("loaded beatmap catalog",
				zap.String("room", roomCfg.Name),
				zap.Int("catalog_size", len(catalog)),
				zap.Int("filtered_size", len(filtered)),
			)
		}

		state := room.New(roomCfg, records)
		sess := room.NewSession(state, nil, room.RealPacer{}, policy)
		reg.AddRoom(sess)
	}

	logger.Info("room roster loaded", zap.Int("room_count", len(startup.Rooms)))
	return reg, nil
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/config"
	"github.com/cory-johannsen/gridtactics/internal/content"
	"github.com/cory-johannsen/gridtactics/internal/game/ai"
	"github.com/cory-johannsen/gridtactics/internal/game/dice"
	"github.com/cory-johannsen/gridtactics/internal/game/skills"
	"github.com/cory-johannsen/gridtactics/internal/observability"
	"github.com/cory-johannsen/gridtactics/internal/scripting"
	"github.com/cory-johannsen/gridtactics/internal/session"
	"github.com/cory-johannsen/gridtactics/internal/storage/postgres"
	"github.com/cory-johannsen/gridtactics/internal/storage/redis"
)

// runtime holds the wired engine shared by every subcommand.
type runtime struct {
	cfg     config.Config
	logger  *zap.Logger
	src     dice.Source
	scripts *scripting.Manager
	lib     *content.Library
	enemies *ai.Registry

	pool    *postgres.Pool
	closers []func()
}

// newRuntime loads configuration and content.
//
// Postcondition: The caller must call close on success.
func newRuntime() (*runtime, error) {
	start := time.Now()
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if contentRoot != "" {
		cfg.Content.Root = contentRoot
	}
	if seed != 0 {
		cfg.Battle.Seed = seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	rt := &runtime{cfg: cfg, logger: logger}
	rt.closers = append(rt.closers, func() { _ = logger.Sync() })

	if cfg.Battle.Seed != 0 {
		rt.src = dice.NewSeededSource(cfg.Battle.Seed)
	} else {
		rt.src = dice.NewCryptoSource()
	}
	roller := dice.NewRoller(rt.src, logger)
	rt.scripts = scripting.NewManager(roller, cfg.Battle.ScriptInstructionLimit, logger)
	rt.closers = append(rt.closers, rt.scripts.Close)
	rt.enemies = ai.NewRegistry(rt.src, logger)

	rt.lib, err = content.Load(content.Options{
		Dirs:                 content.DirsUnder(cfg.Content.Root),
		Skills:               skills.NewRegistry(roller, rt.scripts, logger),
		Scripts:              rt.scripts,
		Behaviors:            rt.enemies.Behaviors(),
		DefaultMovementRange: cfg.Battle.DefaultMovementRange,
		Logger:               logger,
	})
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("loading content from %q: %w", cfg.Content.Root, err)
	}
	logger.Debug("runtime ready",
		zap.String("content", cfg.Content.Root),
		zap.Uint64("seed", cfg.Battle.Seed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return rt, nil
}

// close releases everything opened by the runtime in reverse order.
func (rt *runtime) close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
}

// database connects to PostgreSQL once.
func (rt *runtime) database(ctx context.Context) (*postgres.Pool, error) {
	if rt.pool != nil {
		return rt.pool, nil
	}
	if !rt.cfg.Database.Enabled {
		return nil, fmt.Errorf("database is disabled (set database.enabled)")
	}
	pool, err := postgres.NewPool(ctx, rt.cfg.Database)
	if err != nil {
		return nil, err
	}
	rt.logger.Info("database connected", zap.String("host", rt.cfg.Database.Host))
	rt.pool = pool
	rt.closers = append(rt.closers, pool.Close)
	return pool, nil
}

// resultStore connects the redis results store, or returns nil when redis is disabled.
func (rt *runtime) resultStore() (*redis.ResultStore, error) {
	if !rt.cfg.Redis.Enabled {
		return nil, nil
	}
	client := redis.NewClient(rt.cfg.Redis)
	rt.closers = append(rt.closers, func() { _ = client.Close() })
	return redis.NewResultStore(client, rt.cfg.Redis.ResultTTL, rt.cfg.Redis.MaxResults, rt.logger)
}

// recorder combines every enabled result sink. player attributes archived
// battles when non-nil.
func (rt *runtime) recorder(ctx context.Context, player *postgres.Player) (session.ResultRecorder, error) {
	var recs session.Recorders
	store, err := rt.resultStore()
	if err != nil {
		return nil, err
	}
	if store != nil {
		recs = append(recs, store)
	}
	if rt.cfg.Database.Enabled {
		pool, err := rt.database(ctx)
		if err != nil {
			return nil, err
		}
		var id *int64
		if player != nil {
			id = &player.ID
		}
		recs = append(recs, postgres.NewHistoryRepository(pool.DB(), id))
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs, nil
}

// party resolves the fighting roster: explicit loadouts win, otherwise the
// stored roster of the named player.
func (rt *runtime) party(ctx context.Context, loadouts []string, playerName string) ([]content.Loadout, *postgres.Player, error) {
	var player *postgres.Player
	if playerName != "" {
		pool, err := rt.database(ctx)
		if err != nil {
			return nil, nil, err
		}
		p, err := postgres.NewRosterRepository(pool.DB()).PlayerByName(ctx, playerName)
		if err != nil {
			return nil, nil, err
		}
		player = &p
	}
	if len(loadouts) > 0 {
		out, err := parseLoadouts(loadouts)
		return out, player, err
	}
	if player == nil {
		return nil, nil, fmt.Errorf("no party: pass --party or --player")
	}
	pool, _ := rt.database(ctx)
	out, err := postgres.NewRosterRepository(pool.DB()).LoadRoster(ctx, player.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(out) == 0 {
		return nil, nil, fmt.Errorf("player %q has an empty roster", player.Name)
	}
	return out, player, nil
}

func parseLoadouts(specs []string) ([]content.Loadout, error) {
	out := make([]content.Loadout, 0, len(specs))
	for _, s := range specs {
		if strings.TrimSpace(s) == "" {
			continue
		}
		l, err := content.ParseLoadout(s)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

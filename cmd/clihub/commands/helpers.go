package commands

import (
	"log/slog"

	"github.com/clihub/clihub/internal/legacy"
	"github.com/clihub/clihub/internal/mcp/sync"
	"github.com/clihub/clihub/internal/paths"
	"github.com/clihub/clihub/internal/store"
)

// app bundles the store and sync service a subcommand works with.
type app struct {
	store *store.Store
	svc   *sync.Service
}

// newApp opens the database, runs the one-time legacy migration if this
// is a fresh store, and wires the sync service over all three clients.
func newApp() (*app, error) {
	log := slog.Default()

	dbPath := paths.DatabasePath()
	if cfg != nil && cfg.DatabasePath != "" {
		dbPath = cfg.DatabasePath
	}

	st, err := store.Open(dbPath,
		store.WithLogger(log),
		store.WithRetention(cfg.Retention()))
	if err != nil {
		return nil, err
	}

	if err := firstRun(st, log); err != nil {
		_ = st.Close()
		return nil, err
	}

	adapters := make([]sync.Adapter, 0, 3)
	for _, client := range paths.Clients() {
		live, err := cfg.LiveFile(client)
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		switch client {
		case paths.ClientClaude:
			adapters = append(adapters, sync.NewClaudeAdapter(live, log))
		case paths.ClientCodex:
			adapters = append(adapters, sync.NewCodexAdapter(live, log))
		case paths.ClientGemini:
			adapters = append(adapters, sync.NewGeminiAdapter(live, log))
		}
	}

	svc := sync.NewService(st, adapters,
		sync.WithLogger(log),
		sync.WithAfterChange(func() error {
			_, err := st.BackupDatabaseFile()
			return err
		}))

	return &app{store: st, svc: svc}, nil
}

// firstRun migrates the legacy config file into a fresh store. When the
// store stays empty afterwards, it points the user at the importers.
func firstRun(st *store.Store, log *slog.Logger) error {
	empty, err := st.IsEmptyForFirstImport()
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	legacyCfg, err := legacy.Load(paths.LegacyConfigPath())
	if err != nil {
		return err
	}
	if legacyCfg != nil {
		n, err := st.MigrateFromLegacy(legacyCfg)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("migrated servers from legacy config", "count", n)
			return nil
		}
	}

	log.Info("no servers configured yet; run 'clihub mcp import --all' to pull them from your clients")
	return nil
}

func (a *app) Close() {
	_ = a.store.Close()
}

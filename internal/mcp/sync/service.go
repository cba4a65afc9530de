package sync

import (
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/clihub/clihub/internal/mcp"
	"github.com/clihub/clihub/internal/mcp/validator"
	"github.com/clihub/clihub/internal/paths"
)

// Store is the canonical persistence the sync service drives.
type Store interface {
	ListServers() (map[string]*mcp.Server, error)
	SaveServer(srv *mcp.Server) error
	DeleteServer(id string) (bool, error)
	ToggleApp(id, client string, enabled bool) (bool, error)
}

// Service runs the shared import/export algorithms over a set of client
// adapters.
type Service struct {
	store    Store
	adapters map[string]Adapter
	log      *slog.Logger

	// afterChange runs after any mutation that changed the store, for
	// automatic database backups. Its error is logged, never returned.
	afterChange func() error
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithAfterChange registers a hook run after every store-changing
// operation.
func WithAfterChange(fn func() error) Option {
	return func(s *Service) { s.afterChange = fn }
}

// NewService builds a service over the given adapters.
func NewService(store Store, adapters []Adapter, opts ...Option) *Service {
	s := &Service{
		store:    store,
		adapters: make(map[string]Adapter, len(adapters)),
		log:      slog.Default(),
	}
	for _, a := range adapters {
		s.adapters[a.Client()] = a
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) adapter(client string) (Adapter, error) {
	a, ok := s.adapters[client]
	if !ok {
		return nil, errors.Wrapf(paths.ErrUnknownClient, "%q", client)
	}
	return a, nil
}

// Import pulls the client's live file into the store.
//
// New entries are inserted with only this client's flag set. Entries
// already present only get the flag flipped on; their name, spec and
// metadata are never overwritten. Invalid entries are skipped and
// logged. Returns the number of inserts plus flips.
func (s *Service) Import(client string) (int, error) {
	a, err := s.adapter(client)
	if err != nil {
		return 0, err
	}

	incoming, err := a.Read()
	if err != nil {
		return 0, err
	}
	if len(incoming) == 0 {
		return 0, nil
	}

	existing, err := s.store.ListServers()
	if err != nil {
		return 0, err
	}

	changed := 0
	for id, spec := range incoming {
		if err := validator.Validate(spec); err != nil {
			s.log.Warn("skipping invalid server", "client", client, "id", id, "reason", err)
			continue
		}

		if srv, ok := existing[id]; ok {
			if srv.Apps.Enabled(client) {
				continue
			}
			if _, err := s.store.ToggleApp(id, client, true); err != nil {
				return changed, err
			}
			changed++
			continue
		}

		srv := &mcp.Server{ID: id, Name: id, Spec: spec}
		srv.Apps.SetEnabled(client, true)
		if err := s.store.SaveServer(srv); err != nil {
			return changed, err
		}
		existing[id] = srv
		changed++
	}

	if changed > 0 {
		s.notifyChanged()
	}
	s.log.Info("imported servers", "client", client, "changed", changed)
	return changed, nil
}

// ImportAll imports every client in the fixed order. A failing client is
// recorded but does not stop the others. Returns per-client change
// counts and the combined error, if any.
func (s *Service) ImportAll() (map[string]int, error) {
	counts := make(map[string]int, len(s.adapters))
	var combined error

	for _, client := range paths.Clients() {
		if _, ok := s.adapters[client]; !ok {
			continue
		}
		n, err := s.Import(client)
		counts[client] = n
		if err != nil {
			s.log.Error("import failed", "client", client, "error", err)
			combined = errors.CombineErrors(combined, errors.Wrapf(err, "client %s", client))
		}
	}
	return counts, combined
}

// SyncEnabled writes every server enabled for the client to its live
// file, replacing the managed section wholesale.
func (s *Service) SyncEnabled(client string) error {
	a, err := s.adapter(client)
	if err != nil {
		return err
	}

	servers, err := s.store.ListServers()
	if err != nil {
		return err
	}

	enabled := make(map[string]*mcp.Spec)
	for id, srv := range servers {
		if srv.Apps.Enabled(client) && srv.Spec != nil {
			enabled[id] = srv.Spec
		}
	}

	if err := a.Write(enabled); err != nil {
		return errors.Wrapf(err, "syncing %s", client)
	}
	s.log.Debug("synced live file", "client", client, "servers", len(enabled))
	return nil
}

// SyncAllEnabled syncs the clients in fixed order. The first failure
// stops the sequence; files already written stay written.
func (s *Service) SyncAllEnabled() error {
	for _, client := range paths.Clients() {
		if _, ok := s.adapters[client]; !ok {
			continue
		}
		if err := s.SyncEnabled(client); err != nil {
			return err
		}
	}
	return nil
}

// Upsert validates and saves a server. Unlike bulk import, an invalid
// spec is rejected outright.
func (s *Service) Upsert(srv *mcp.Server) error {
	if err := validator.ValidateServer(srv); err != nil {
		return err
	}
	if err := s.store.SaveServer(srv); err != nil {
		return err
	}
	s.notifyChanged()
	return nil
}

// Remove deletes a server by id and reports whether it existed.
func (s *Service) Remove(id string) (bool, error) {
	existed, err := s.store.DeleteServer(id)
	if err != nil {
		return false, err
	}
	if existed {
		s.notifyChanged()
	}
	return existed, nil
}

// Toggle flips one client flag and reports whether the server existed.
func (s *Service) Toggle(id, client string, enabled bool) (bool, error) {
	if !paths.ValidClient(client) {
		return false, errors.Wrapf(paths.ErrUnknownClient, "%q", client)
	}
	existed, err := s.store.ToggleApp(id, client, enabled)
	if err != nil {
		return false, err
	}
	if existed {
		s.notifyChanged()
	}
	return existed, nil
}

func (s *Service) notifyChanged() {
	if s.afterChange == nil {
		return
	}
	if err := s.afterChange(); err != nil {
		s.log.Warn("post-change hook failed", "error", err)
	}
}

// Package catalog owns the runtime type system of one tenant environment:
// the registered types and fields, their backing tables, and the immutable
// snapshots queries compile against. Metadata mutations run their catalog
// rows and DDL in one transaction and publish a new snapshot only after the
// commit succeeds.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/metacore-io/metacore/internal/config"
	"github.com/metacore-io/metacore/internal/logger"
	"github.com/metacore-io/metacore/internal/schema"
	"github.com/metacore-io/metacore/internal/store"
	"github.com/metacore-io/metacore/models"
)

// AutomationLookup exposes the automation hooks attached to types.
// [Environment.DeleteType] consults it so a type with live hooks is only
// dropped when the caller explicitly opts to strip them. The lifecycle hook
// registry implements it.
type AutomationLookup interface {
	HasHooks(typeName string) bool
	StripHooks(typeName string)
}

// Environment is the catalog of one tenant. Reads are lock-free through the
// current snapshot; metadata writes serialize on a single writer mutex and
// never block readers.
type Environment struct {
	id     uuid.UUID
	tenant string

	db     *store.DB
	repo   store.CatalogRepository
	schema *schema.Synchronizer
	engine config.Engine
	logger zerolog.Logger

	mu          sync.Mutex
	snapshot    atomic.Pointer[Snapshot]
	automations AutomationLookup
}

// NewEnvironment loads the persisted catalog and returns an environment
// serving it as snapshot generation one.
func NewEnvironment(ctx context.Context, db *store.DB, repo store.CatalogRepository, sync *schema.Synchronizer, engine config.Engine, log *logger.Logger) (*Environment, error) {
	env := &Environment{
		id:     uuid.New(),
		tenant: engine.Tenant,
		db:     db,
		repo:   repo,
		schema: sync,
		engine: engine,
		logger: log.With().Str("tenant", engine.Tenant).Logger(),
	}

	types, err := repo.LoadTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	env.snapshot.Store(newSnapshot(1, types))

	env.logger.Info().
		Str("func", "NewEnvironment").
		Str("environment", env.id.String()).
		Int("types", len(types)).
		Msg("catalog loaded")
	return env, nil
}

// ID returns the process-local identity of this environment instance.
func (e *Environment) ID() uuid.UUID { return e.id }

// Tenant returns the tenant label the environment serves.
func (e *Environment) Tenant() string { return e.tenant }

// Snapshot returns the current catalog generation. The returned snapshot is
// immutable and stays valid after later metadata changes.
func (e *Environment) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// TypeByName resolves a qualified name through the current snapshot. The
// environment satisfies the query compiler's resolver interface so that
// compilation always sees the latest published generation.
func (e *Environment) TypeByName(qualifiedName string) (*models.Type, bool) {
	return e.Snapshot().TypeByName(qualifiedName)
}

// TypeByID resolves a catalog identifier through the current snapshot.
func (e *Environment) TypeByID(id models.KID) (*models.Type, bool) {
	return e.Snapshot().TypeByID(id)
}

// BindAutomations attaches the hook lookup consulted by
// [Environment.DeleteType]. Without one, type deletion skips the hook guard.
func (e *Environment) BindAutomations(lookup AutomationLookup) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.automations = lookup
}

// Reload replaces the snapshot with a fresh read of the persisted catalog,
// for picking up changes applied by another process.
func (e *Environment) Reload(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	types, err := e.repo.LoadTypes(ctx)
	if err != nil {
		return fmt.Errorf("reloading catalog: %w", err)
	}
	e.snapshot.Store(newSnapshot(e.snapshot.Load().version+1, types))

	e.logger.Info().Str("func", "Reload").Int("types", len(types)).Msg("catalog reloaded")
	return nil
}

// publish installs the successor snapshot. Callers hold the writer mutex and
// have already committed the corresponding catalog transaction.
func (e *Environment) publish(next *Snapshot) {
	e.snapshot.Store(next)
}

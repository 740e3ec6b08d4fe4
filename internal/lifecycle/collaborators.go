package lifecycle

//go:generate mockgen -source=collaborators.go -destination=../mock/lifecycle_collaborators_mock.go -package=mock

import (
	"context"
	"sync"

	"github.com/metacore-io/metacore/models"
)

// Authorizer answers permission questions for the acting user. The engine
// consults it before inserts and deletes; row-level edit checks are enforced
// by the database triggers instead.
type Authorizer interface {
	CanCreate(ctx context.Context, actor models.KID, t *models.Type) (bool, error)
	CanDelete(ctx context.Context, actor models.KID, t *models.Type, id models.KID) (bool, error)
}

// Dictionary resolves the value set of enumeration fields configured with a
// dictionary id instead of an inline list.
type Dictionary interface {
	Values(ctx context.Context, dictionaryID string) ([]string, error)
}

// History records one entry per changed tracked field of a saved record.
type History interface {
	FieldChanged(ctx context.Context, t *models.Type, id models.KID, field models.Field, oldValue, newValue string) error
}

// Sharing maintains the visibility side effects of record mutations:
// ownership grants and reverse lookups on insert, rule recomputation after
// every save, lookup removal on delete.
type Sharing interface {
	RegisterOwnership(ctx context.Context, t *models.Type, id models.KID, actor models.KID) error
	RemoveReverseLookups(ctx context.Context, t *models.Type, id models.KID) error
	Recalculate(ctx context.Context, t *models.Type, id models.KID) error
}

// Collaborators bundles the external services the engine calls during a
// save or delete. Nil members default to no-op implementations, which allow
// everything and record nothing.
type Collaborators struct {
	Authorizer Authorizer
	Dictionary Dictionary
	History    History
	Sharing    Sharing
}

// Event identifies one point of the record lifecycle that hooks can attach
// to.
type Event int

const (
	BeforeInsert Event = iota + 1
	AfterInsert
	BeforeUpdate
	AfterUpdate
	BeforeDelete
	AfterDelete

	// OnSave fires after every successful insert or update, once the after
	// hooks of the specific operation have run. Business-process automations
	// register here.
	OnSave
)

var eventNames = map[Event]string{
	BeforeInsert: "BeforeInsert",
	AfterInsert:  "AfterInsert",
	BeforeUpdate: "BeforeUpdate",
	AfterUpdate:  "AfterUpdate",
	BeforeDelete: "BeforeDelete",
	AfterDelete:  "AfterDelete",
	OnSave:       "OnSave",
}

// String implements fmt.Stringer.
func (ev Event) String() string {
	if name, ok := eventNames[ev]; ok {
		return name
	}
	return "Event(?)"
}

// Hook is one automation callback. Before hooks receive a clone of the
// record being saved and may mutate it; mutations never leak into the
// caller's record. A hook error aborts the whole operation.
type Hook func(ctx context.Context, rec *models.Record) error

type hookKey struct {
	typeName string
	event    Event
}

// HookRegistry maps (type, lifecycle event) to an ordered list of callbacks.
// Registration and lookup are safe for concurrent use; the mechanism that
// produces the callback bodies is out of scope.
type HookRegistry struct {
	mu    sync.RWMutex
	hooks map[hookKey][]Hook
}

// NewHookRegistry returns an empty registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{hooks: make(map[hookKey][]Hook)}
}

// Register appends a hook for the given type and event, preserving
// registration order.
func (r *HookRegistry) Register(typeName string, event Event, h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := hookKey{typeName: typeName, event: event}
	r.hooks[key] = append(r.hooks[key], h)
}

// Run invokes the hooks registered for the type and event in order. The
// first error stops the chain and is returned.
func (r *HookRegistry) Run(ctx context.Context, typeName string, event Event, rec *models.Record) error {
	r.mu.RLock()
	chain := r.hooks[hookKey{typeName: typeName, event: event}]
	r.mu.RUnlock()

	for _, h := range chain {
		if err := h(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// HasHooks reports whether any hook is registered for the type, at any
// event. The catalog consults it before deleting a type.
func (r *HookRegistry) HasHooks(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for key, chain := range r.hooks {
		if key.typeName == typeName && len(chain) > 0 {
			return true
		}
	}
	return false
}

// StripHooks removes every hook registered for the type.
func (r *HookRegistry) StripHooks(typeName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.hooks {
		if key.typeName == typeName {
			delete(r.hooks, key)
		}
	}
}

type nopAuthorizer struct{}

func (nopAuthorizer) CanCreate(context.Context, models.KID, *models.Type) (bool, error) {
	return true, nil
}

func (nopAuthorizer) CanDelete(context.Context, models.KID, *models.Type, models.KID) (bool, error) {
	return true, nil
}

type nopDictionary struct{}

func (nopDictionary) Values(context.Context, string) ([]string, error) { return nil, nil }

type nopHistory struct{}

func (nopHistory) FieldChanged(context.Context, *models.Type, models.KID, models.Field, string, string) error {
	return nil
}

type nopSharing struct{}

func (nopSharing) RegisterOwnership(context.Context, *models.Type, models.KID, models.KID) error {
	return nil
}

func (nopSharing) RemoveReverseLookups(context.Context, *models.Type, models.KID) error {
	return nil
}

func (nopSharing) Recalculate(context.Context, *models.Type, models.KID) error { return nil }

// Package lifecycle drives record saves and deletes through their state
// machine: audit stamps, authorization, automation hooks, defaults,
// aggregated validation, mutation SQL, history and sharing side effects.
// Every operation runs inside one transaction; a failure at any step rolls
// the whole operation back so partial writes are never observable.
package lifecycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/metacore-io/metacore/internal/catalog"
	"github.com/metacore-io/metacore/internal/config"
	"github.com/metacore-io/metacore/internal/logger"
	"github.com/metacore-io/metacore/internal/query"
	"github.com/metacore-io/metacore/internal/rowmap"
	"github.com/metacore-io/metacore/internal/schema"
	"github.com/metacore-io/metacore/internal/store"
	"github.com/metacore-io/metacore/models"
)

var (
	// ErrUnauthorized is returned when the acting user lacks the permission
	// an operation requires.
	ErrUnauthorized = errors.New("operation not permitted")

	// ErrRecordNotFound is returned when a record addressed by identifier
	// does not exist.
	ErrRecordNotFound = errors.New("record not found")
)

// defaultAccessType is the visibility flag stamped onto inserts that do not
// set one themselves.
const defaultAccessType = "private"

// SaveOptions tune a single save call.
type SaveOptions struct {
	// Silent skips the lastModifiedBy/lastModifiedDate stamps.
	Silent bool

	// SkipCreateCheck bypasses the create-permission gate on insert.
	SkipCreateCheck bool

	// SuppressOwnership skips the reverse-lookup and ownership-sharing
	// registration on insert.
	SuppressOwnership bool
}

// Engine executes record operations against one tenant environment.
type Engine struct {
	db       *store.DB
	env      *catalog.Environment
	schema   *schema.Synchronizer
	compiler *query.Compiler
	mapper   *rowmap.Mapper
	hooks    *HookRegistry

	authz      Authorizer
	dictionary Dictionary
	history    History
	sharing    Sharing

	logger zerolog.Logger
}

// NewEngine wires an engine over the environment's catalog. Nil collaborators
// default to no-ops that allow everything and record nothing.
func NewEngine(db *store.DB, env *catalog.Environment, sync *schema.Synchronizer, engine config.Engine, hooks *HookRegistry, collab Collaborators, log *logger.Logger) (*Engine, error) {
	compiler, err := query.NewCompiler(env, engine.QueryCacheSize, log)
	if err != nil {
		return nil, err
	}
	if hooks == nil {
		hooks = NewHookRegistry()
	}
	if collab.Authorizer == nil {
		collab.Authorizer = nopAuthorizer{}
	}
	if collab.Dictionary == nil {
		collab.Dictionary = nopDictionary{}
	}
	if collab.History == nil {
		collab.History = nopHistory{}
	}
	if collab.Sharing == nil {
		collab.Sharing = nopSharing{}
	}

	return &Engine{
		db:         db,
		env:        env,
		schema:     sync,
		compiler:   compiler,
		mapper:     rowmap.NewMapper(env),
		hooks:      hooks,
		authz:      collab.Authorizer,
		dictionary: collab.Dictionary,
		history:    collab.History,
		sharing:    collab.Sharing,
		logger:     log.With().Str("tenant", env.Tenant()).Logger(),
	}, nil
}

// Save persists the record: insert when it carries no identifier, update
// otherwise. On insert the generated identifier is written back onto the
// caller's record. Hooks run against a clone, so their mutations are
// persisted but never leak into the caller's value.
func (e *Engine) Save(ctx context.Context, actor models.KID, rec *models.Record, opts SaveOptions) error {
	snap := e.env.Snapshot()
	t, ok := snap.TypeByName(rec.TypeName())
	if !ok {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownType, rec.TypeName())
	}

	insert := !rec.Has(models.FieldID)
	log := e.logger.With().Str("func", "Save").Str("type", t.QualifiedName()).Bool("insert", insert).Logger()

	err := e.db.WithinTx(ctx, func(tx *sql.Tx) error {
		var prior *models.Record
		if !insert && tracksHistory(t) {
			var err error
			prior, err = e.loadForHistory(ctx, tx, snap, t, rec)
			if err != nil {
				return err
			}
		}

		clone := rec.Clone()
		now := time.Now().UTC()
		if !opts.Silent {
			clone.Set(models.FieldLastModifiedDate, now)
			clone.Set(models.FieldLastModifiedBy, string(actor))
		}
		if insert {
			clone.Set(models.FieldCreatedDate, now)
			clone.Set(models.FieldCreatedBy, string(actor))
			if !clone.Has(models.FieldAccessType) {
				clone.Set(models.FieldAccessType, defaultAccessType)
			}
		}

		if insert && !opts.SkipCreateCheck {
			allowed, err := e.authz.CanCreate(ctx, actor, t)
			if err != nil {
				return err
			}
			if !allowed {
				return fmt.Errorf("%w: create on %q", ErrUnauthorized, t.QualifiedName())
			}
		}

		before, after := BeforeUpdate, AfterUpdate
		if insert {
			before, after = BeforeInsert, AfterInsert
		}
		if err := e.hooks.Run(ctx, t.QualifiedName(), before, clone); err != nil {
			return err
		}

		if insert {
			if err := applyDefaults(snap, t, clone); err != nil {
				return err
			}
		}

		if err := e.validate(ctx, t, clone, insert); err != nil {
			return err
		}

		if insert {
			if err := e.renderAutoNumber(ctx, tx, t, clone); err != nil {
				return err
			}
			if err := e.execInsert(ctx, tx, t, rec, clone); err != nil {
				return err
			}
		} else {
			if err := e.execUpdate(ctx, tx, t, clone); err != nil {
				return err
			}
		}

		id, err := clone.KID()
		if err != nil {
			return err
		}

		if prior != nil {
			if err := e.writeHistory(ctx, t, id, prior, clone); err != nil {
				return err
			}
		}

		if insert && !opts.SuppressOwnership {
			if err := e.sharing.RegisterOwnership(ctx, t, id, actor); err != nil {
				return err
			}
		}

		if err := e.hooks.Run(ctx, t.QualifiedName(), after, clone); err != nil {
			return err
		}
		if err := e.hooks.Run(ctx, t.QualifiedName(), OnSave, clone); err != nil {
			return err
		}

		return e.sharing.Recalculate(ctx, t, id)
	})
	if err != nil {
		log.Error().Err(err).Msg("save failed")
		return err
	}

	log.Debug().Msg("record saved")
	return nil
}

// Delete removes one record: permission gate, before hooks over the stored
// values, the armed physical delete, reverse-lookup cleanup, after hooks.
func (e *Engine) Delete(ctx context.Context, actor models.KID, typeName string, id models.KID) error {
	snap := e.env.Snapshot()
	t, ok := snap.TypeByName(typeName)
	if !ok {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownType, typeName)
	}

	log := e.logger.With().Str("func", "Delete").Str("type", typeName).Str("id", string(id)).Logger()

	err := e.db.WithinTx(ctx, func(tx *sql.Tx) error {
		allowed, err := e.authz.CanDelete(ctx, actor, t, id)
		if err != nil {
			return err
		}
		if !allowed {
			return fmt.Errorf("%w: delete on %q", ErrUnauthorized, t.QualifiedName())
		}

		old, err := e.loadByID(ctx, tx, snap, t, id)
		if err != nil {
			return err
		}

		if err := e.hooks.Run(ctx, t.QualifiedName(), BeforeDelete, old); err != nil {
			return err
		}

		armSQL, armArgs, err := query.AuthorizeDeleteSQL(t, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, armSQL, armArgs...); err != nil {
			return fmt.Errorf("%w: %w", store.ErrExecutingStatement, store.TranslateError(err))
		}

		delSQL, delArgs, err := query.DeleteSQL(t, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, delSQL, delArgs...); err != nil {
			return fmt.Errorf("%w: %w", store.ErrExecutingStatement, store.TranslateError(err))
		}

		if err := e.sharing.RemoveReverseLookups(ctx, t, id); err != nil {
			return err
		}

		return e.hooks.Run(ctx, t.QualifiedName(), AfterDelete, old)
	})
	if err != nil {
		log.Error().Err(err).Msg("delete failed")
		return err
	}

	log.Debug().Msg("record deleted")
	return nil
}

func (e *Engine) execInsert(ctx context.Context, tx *sql.Tx, t *models.Type, rec, clone *models.Record) error {
	sqlText, args, err := query.InsertSQL(t, clone)
	if err != nil {
		return err
	}

	var kid string
	if err := tx.QueryRowContext(ctx, sqlText, args...).Scan(&kid); err != nil {
		return fmt.Errorf("%w: %w", store.ErrExecutingStatement, store.TranslateError(err))
	}
	id, err := models.ParseKID(strings.TrimSpace(kid))
	if err != nil {
		return err
	}

	// the caller's original record gets the identifier too
	rec.SetKID(id)
	clone.SetKID(id)
	return nil
}

func (e *Engine) execUpdate(ctx context.Context, tx *sql.Tx, t *models.Type, clone *models.Record) error {
	sqlText, args, err := query.UpdateSQL(t, clone)
	if err != nil {
		return err
	}
	result, err := tx.ExecContext(ctx, sqlText, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrExecutingStatement, store.TranslateError(err))
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		id, _ := clone.KID()
		return fmt.Errorf("%w: %q", ErrRecordNotFound, id)
	}
	return nil
}

// renderAutoNumber draws the next value from the field's sequence and writes
// the formatted label onto the record.
func (e *Engine) renderAutoNumber(ctx context.Context, tx *sql.Tx, t *models.Type, rec *models.Record) error {
	f, ok := t.AutoNumberField()
	if !ok {
		return nil
	}

	prefix, width, err := models.ParseAutoNumberFormat(f.DataType.AutoNumberFormat)
	if err != nil {
		return err
	}

	var n int64
	seq := e.schema.FieldSequence(t, f)
	if err := tx.QueryRowContext(ctx, fmt.Sprintf("SELECT nextval('%s')", seq)).Scan(&n); err != nil {
		return fmt.Errorf("%w: %w", store.ErrExecutingQuery, err)
	}

	rec.Set(f.APIName, fmt.Sprintf("%s%0*d", prefix, width, n))
	return nil
}

// applyDefaults fills type-declared default values into unset fields on
// insert. TypeReference defaults are resolved by identifier into a stub
// record of the referenced type.
func applyDefaults(snap *catalog.Snapshot, t *models.Type, rec *models.Record) error {
	for _, f := range t.Fields() {
		if f.DefaultValue == "" || f.AutoSet || !f.DataType.Kind.HasColumn() {
			continue
		}
		if rec.Has(f.APIName) {
			continue
		}

		if f.DataType.Kind == models.KindTypeReference {
			id, err := models.ParseKID(f.DefaultValue)
			if err != nil {
				return fmt.Errorf("default of %q: %w", f.APIName, err)
			}
			refType, ok := snap.TypeByID(f.DataType.ReferencedTypeID)
			if !ok {
				return fmt.Errorf("%w: default of %q references type %s",
					catalog.ErrUnknownType, f.APIName, f.DataType.ReferencedTypeID)
			}
			stub := models.NewRecord(refType.QualifiedName())
			stub.SetKID(id)
			rec.Set(f.APIName, stub)
			continue
		}

		rec.Set(f.APIName, f.DefaultValue)
	}
	return nil
}

// loadForHistory reads the current values of every tracked field of the
// record being updated, so changed values can be compared after the write.
func (e *Engine) loadForHistory(ctx context.Context, tx *sql.Tx, snap *catalog.Snapshot, t *models.Type, rec *models.Record) (*models.Record, error) {
	id, err := rec.KID()
	if err != nil {
		return nil, err
	}

	crit := models.NewCriteria(t.QualifiedName())
	for _, f := range t.Fields() {
		if f.TrackHistory && f.DataType.Kind.HasColumn() && f.APIName != models.FieldID {
			crit.AddProperty(f.APIName)
		}
	}
	if len(crit.Properties) == 0 {
		return nil, nil
	}
	crit.SetRestriction(models.Eq(models.FieldID, string(id)))

	records, err := e.find(ctx, tx, snap, crit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// loadByID reads every stored scalar field of one record, for supplying old
// values to delete hooks.
func (e *Engine) loadByID(ctx context.Context, tx *sql.Tx, snap *catalog.Snapshot, t *models.Type, id models.KID) (*models.Record, error) {
	crit := models.NewCriteria(t.QualifiedName())
	for _, f := range t.Fields() {
		if f.DataType.Kind.HasColumn() && f.DataType.Kind != models.KindTypeReference && f.APIName != models.FieldID {
			crit.AddProperty(f.APIName)
		}
	}
	crit.SetRestriction(models.Eq(models.FieldID, string(id)))

	records, err := e.find(ctx, tx, snap, crit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrRecordNotFound, id)
	}
	return records[0], nil
}

// writeHistory emits one history entry per tracked field whose stringified
// value changed against the prior snapshot.
func (e *Engine) writeHistory(ctx context.Context, t *models.Type, id models.KID, prior, clone *models.Record) error {
	for _, f := range t.Fields() {
		if !f.TrackHistory || !f.DataType.Kind.HasColumn() || f.APIName == models.FieldID {
			continue
		}
		if !clone.Has(f.APIName) {
			continue
		}

		newValue, err := clone.Get(f.APIName)
		if err != nil {
			return err
		}
		var oldValue any
		if prior.Has(f.APIName) {
			if oldValue, err = prior.Get(f.APIName); err != nil {
				return err
			}
		}

		oldText, newText := stringify(f, oldValue), stringify(f, newValue)
		if oldText == newText {
			continue
		}
		if err := e.history.FieldChanged(ctx, t, id, f, oldText, newText); err != nil {
			return err
		}
	}
	return nil
}

func tracksHistory(t *models.Type) bool {
	for _, f := range t.Fields() {
		if f.TrackHistory {
			return true
		}
	}
	return false
}

// stringify renders a field value in its storage text form, the
// representation history entries compare and record.
func stringify(f models.Field, value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		if f.DataType.Kind == models.KindDate {
			return v.Format(query.DateLayout)
		}
		return v.Format(query.DateTimeLayout)
	case []string:
		return strings.Join(v, ",")
	case models.KID:
		return string(v)
	case *models.Record:
		if id, err := v.KID(); err == nil {
			return string(id)
		}
		return ""
	case *big.Rat:
		return v.FloatString(f.DataType.DecimalPlaces)
	default:
		return fmt.Sprintf("%v", v)
	}
}

package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/metacore-io/metacore/internal/query/formula"
	"github.com/metacore-io/metacore/models"
)

// FieldUpdate carries the mutable attributes of a field; nil members are
// left unchanged. A field's api name is fixed, its value kind may only be
// refined within the same kind.
type FieldUpdate struct {
	Label        *string
	Required     *bool
	TrackHistory *bool
	DefaultValue *string
	DataType     *models.DataType
}

// CreateField adds a field to the named type: catalog row, backing column
// and constraint in one transaction, then the successor snapshot.
func (e *Environment) CreateField(ctx context.Context, qualifiedName string, def FieldDefinition) (models.Field, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := e.logger.With().Str("func", "CreateField").Str("type", qualifiedName).Str("field", def.APIName).Logger()

	snap := e.snapshot.Load()
	current, ok := snap.TypeByName(qualifiedName)
	if !ok {
		return models.Field{}, fmt.Errorf("%w: %q", ErrUnknownType, qualifiedName)
	}

	next := current.Clone()
	var created models.Field
	err := e.db.WithinTx(ctx, func(tx *sql.Tx) error {
		field, err := e.buildField(ctx, tx, next, def)
		if err != nil {
			return err
		}
		if err := e.validateField(snap.TypeByID, next, field); err != nil {
			return err
		}
		if err := next.AddField(field); err != nil {
			return err
		}
		if err := e.materializeField(ctx, tx, snap.TypeByID, next, field); err != nil {
			return err
		}
		if err := e.repo.InsertField(ctx, tx, field); err != nil {
			return err
		}
		created = field
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("field creation failed")
		return models.Field{}, err
	}

	e.publish(snap.successor(qualifiedName, next))
	log.Info().Str("id", string(created.ID)).Msg("field created")
	return created, nil
}

// UpdateField applies the update to a field of the named type. The value
// kind is immutable; within a kind only widening storage changes are
// accepted, and those alter the backing column in the same transaction.
func (e *Environment) UpdateField(ctx context.Context, qualifiedName, apiName string, update FieldUpdate) (models.Field, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := e.logger.With().Str("func", "UpdateField").Str("type", qualifiedName).Str("field", apiName).Logger()

	snap := e.snapshot.Load()
	current, ok := snap.TypeByName(qualifiedName)
	if !ok {
		return models.Field{}, fmt.Errorf("%w: %q", ErrUnknownType, qualifiedName)
	}
	old, ok := current.Field(apiName)
	if !ok {
		return models.Field{}, fmt.Errorf("%w: %q on %q", models.ErrNoSuchField, apiName, qualifiedName)
	}
	if old.IsSystem() {
		return models.Field{}, fmt.Errorf("%w: %q", ErrSystemField, apiName)
	}

	field := old
	if update.Label != nil {
		field.Label = *update.Label
	}
	if update.Required != nil {
		field.Required = *update.Required
	}
	if update.TrackHistory != nil {
		field.TrackHistory = *update.TrackHistory
	}
	if update.DefaultValue != nil {
		field.DefaultValue = *update.DefaultValue
	}

	alterColumn := false
	if update.DataType != nil {
		if update.DataType.Kind != old.DataType.Kind {
			return models.Field{}, fmt.Errorf("%w: value kind of %q cannot change from %s to %s",
				ErrImmutableAttribute, apiName, old.DataType.Kind, update.DataType.Kind)
		}
		if old.DataType.Kind == models.KindText && update.DataType.Length < old.DataType.Length {
			return models.Field{}, fmt.Errorf("%w: text length of %q can only grow (%d -> %d)",
				ErrFieldConstraint, apiName, old.DataType.Length, update.DataType.Length)
		}
		alterColumn = old.DataType.Kind == models.KindText && update.DataType.Length != old.DataType.Length ||
			old.DataType.Kind == models.KindNumber && update.DataType.DecimalPlaces != old.DataType.DecimalPlaces
		field.DataType = *update.DataType
	}
	if field.DataType.Kind == models.KindAutoNumber && !field.Required {
		return models.Field{}, fmt.Errorf("%w: autonumber field %q must stay required", ErrFieldConstraint, apiName)
	}

	next := current.Clone()
	if err := e.validateField(snap.TypeByID, next, field); err != nil {
		return models.Field{}, err
	}
	if err := next.ReplaceField(field); err != nil {
		return models.Field{}, err
	}

	err := e.db.WithinTx(ctx, func(tx *sql.Tx) error {
		if alterColumn {
			if err := e.schema.AlterColumn(ctx, tx, next, field); err != nil {
				return err
			}
		}
		return e.repo.UpdateField(ctx, tx, field)
	})
	if err != nil {
		log.Error().Err(err).Msg("field update failed")
		return models.Field{}, err
	}

	e.publish(snap.successor(qualifiedName, next))
	log.Info().Msg("field updated")
	return field, nil
}

// DeleteField removes a field and its backing column. System fields and
// fields that formulas, inverse collections or associations still depend on
// cannot be deleted.
func (e *Environment) DeleteField(ctx context.Context, qualifiedName, apiName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := e.logger.With().Str("func", "DeleteField").Str("type", qualifiedName).Str("field", apiName).Logger()

	snap := e.snapshot.Load()
	current, ok := snap.TypeByName(qualifiedName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, qualifiedName)
	}
	field, ok := current.Field(apiName)
	if !ok {
		return fmt.Errorf("%w: %q on %q", models.ErrNoSuchField, apiName, qualifiedName)
	}
	if field.IsSystem() {
		return fmt.Errorf("%w: %q", ErrSystemField, apiName)
	}
	if err := referencesToField(snap, current, field); err != nil {
		return err
	}

	next := current.Clone()
	next.RemoveField(apiName)

	err := e.db.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := e.repo.DeleteField(ctx, tx, field.ID); err != nil {
			return err
		}
		return e.schema.DropColumn(ctx, tx, next, field)
	})
	if err != nil {
		log.Error().Err(err).Msg("field deletion failed")
		return err
	}

	e.publish(snap.successor(qualifiedName, next))
	log.Info().Msg("field deleted")
	return nil
}

// referencesToField reports the first dependency that keeps a field alive:
// a formula on the owning type reading it, an inverse collection mirroring
// it, or an association using it as a linking field.
func referencesToField(snap *Snapshot, owner *models.Type, field models.Field) error {
	for _, f := range owner.Fields() {
		if f.DataType.Kind != models.KindFormula || f.APIName == field.APIName {
			continue
		}
		expr, err := formula.Parse(f.DataType.Formula)
		if err != nil {
			continue
		}
		for _, name := range expr.FieldNames() {
			if name == field.APIName {
				return fmt.Errorf("%w: formula %q reads %q", ErrFieldInUse, f.APIName, field.APIName)
			}
		}
	}

	for _, other := range snap.Types() {
		for _, f := range other.Fields() {
			dt := f.DataType
			switch dt.Kind {
			case models.KindInverseCollection:
				if dt.ReferencedTypeID == owner.ID && dt.MirrorField == field.APIName {
					return fmt.Errorf("%w: collection %q on %q mirrors %q",
						ErrFieldInUse, f.APIName, other.QualifiedName(), field.APIName)
				}
			case models.KindAssociation:
				if dt.LinkingTypeID == owner.ID && (dt.SelfLinkingField == field.APIName || dt.ForeignLinkingField == field.APIName) {
					return fmt.Errorf("%w: association %q on %q links through %q",
						ErrFieldInUse, f.APIName, other.QualifiedName(), field.APIName)
				}
			}
		}
	}

	return nil
}

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/metacore-io/metacore/models"
)

// TypeDefinition describes a type to create: names, behavior flags and the
// custom fields it starts with. System fields are added by the engine.
type TypeDefinition struct {
	Package     string
	APIName     string
	Label       string
	PluralLabel string
	AutoLinking bool
	Fields      []FieldDefinition
}

// FieldDefinition describes a field to create on a type.
type FieldDefinition struct {
	APIName      string
	Label        string
	DataType     models.DataType
	Required     bool
	TrackHistory bool
	DefaultValue string
}

// TypeUpdate carries the mutable attributes of a type; nil members are left
// unchanged. Key prefix, table name and creation time are fixed at creation
// and deliberately absent.
type TypeUpdate struct {
	APIName     *string
	Label       *string
	PluralLabel *string
	AutoLinking *bool

	// DefaultField selects the field shown when records are referenced,
	// by api name.
	DefaultField *string
}

// CreateType registers a new type: allocates its key prefix and identifiers,
// writes the catalog rows, creates the backing table with its system field
// columns, and publishes the successor snapshot. The whole change commits or
// rolls back as one transaction.
func (e *Environment) CreateType(ctx context.Context, def TypeDefinition) (*models.Type, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := e.logger.With().Str("func", "CreateType").Str("type", def.Package+"."+def.APIName).Logger()

	if err := validateTypeName(def.Package, def.APIName); err != nil {
		return nil, err
	}
	snap := e.snapshot.Load()
	qualified := def.Package + "." + def.APIName
	if _, taken := snap.TypeByName(qualified); taken {
		return nil, fmt.Errorf("%w: %q", ErrTypeExists, qualified)
	}

	var created *models.Type
	err := e.db.WithinTx(ctx, func(tx *sql.Tx) error {
		prefix, err := e.repo.NextKeyPrefix(ctx, tx)
		if err != nil {
			return err
		}
		typeID, err := e.repo.NextTypeID(ctx, tx)
		if err != nil {
			return err
		}

		t := &models.Type{
			ID:          typeID,
			Package:     def.Package,
			APIName:     def.APIName,
			Label:       def.Label,
			PluralLabel: def.PluralLabel,
			Prefix:      prefix,
			TableName:   "obj_" + string(prefix),
			AutoLinking: def.AutoLinking,
			CreatedAt:   time.Now().UTC(),
		}

		if err := e.schema.CreateTable(ctx, tx, t); err != nil {
			return err
		}

		lookup := func(id models.KID) (*models.Type, bool) {
			if id == t.ID {
				return t, true
			}
			return snap.TypeByID(id)
		}

		fields, err := e.systemFields(ctx, tx, t)
		if err != nil {
			return err
		}
		for _, fd := range def.Fields {
			field, err := e.buildField(ctx, tx, t, fd)
			if err != nil {
				return err
			}
			fields = append(fields, field)
		}

		for _, field := range fields {
			if err := e.validateField(lookup, t, field); err != nil {
				return err
			}
			if err := t.AddField(field); err != nil {
				return err
			}
			if err := e.materializeField(ctx, tx, lookup, t, field); err != nil {
				return err
			}
		}

		idField, _ := t.Field(models.FieldID)
		t.DefaultFieldID = idField.ID

		if err := e.repo.InsertType(ctx, tx, t); err != nil {
			return err
		}
		for _, field := range t.Fields() {
			if err := e.repo.InsertField(ctx, tx, field); err != nil {
				return err
			}
		}

		created = t
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("type creation failed")
		return nil, err
	}

	e.publish(snap.successor(qualified, created))
	log.Info().Str("id", string(created.ID)).Str("table", created.TableName).Msg("type created")
	return created, nil
}

// UpdateType applies the update to the named type and publishes the
// successor snapshot. Renames re-register the type under its new qualified
// name; records and the backing table are unaffected.
func (e *Environment) UpdateType(ctx context.Context, qualifiedName string, update TypeUpdate) (*models.Type, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := e.logger.With().Str("func", "UpdateType").Str("type", qualifiedName).Logger()

	snap := e.snapshot.Load()
	current, ok := snap.TypeByName(qualifiedName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, qualifiedName)
	}

	next := current.Clone()
	if update.APIName != nil && *update.APIName != next.APIName {
		if err := validateTypeName(next.Package, *update.APIName); err != nil {
			return nil, err
		}
		renamed := next.Package + "." + *update.APIName
		if _, taken := snap.TypeByName(renamed); taken {
			return nil, fmt.Errorf("%w: %q", ErrTypeExists, renamed)
		}
		next.APIName = *update.APIName
	}
	if update.Label != nil {
		next.Label = *update.Label
	}
	if update.PluralLabel != nil {
		next.PluralLabel = *update.PluralLabel
	}
	if update.AutoLinking != nil {
		next.AutoLinking = *update.AutoLinking
	}
	if update.DefaultField != nil {
		field, ok := next.Field(*update.DefaultField)
		if !ok {
			return nil, fmt.Errorf("%w: default field %q", models.ErrNoSuchField, *update.DefaultField)
		}
		next.DefaultFieldID = field.ID
	}

	err := e.db.WithinTx(ctx, func(tx *sql.Tx) error {
		return e.repo.UpdateType(ctx, tx, next)
	})
	if err != nil {
		log.Error().Err(err).Msg("type update failed")
		return nil, err
	}

	e.publish(snap.successor(qualifiedName, next))
	log.Info().Msg("type updated")
	return next, nil
}

// DeleteTypeOptions tune a single type deletion.
type DeleteTypeOptions struct {
	// StripHooks removes the type's automation hooks instead of rejecting
	// the deletion when hooks are still registered.
	StripHooks bool
}

// DeleteType removes the named type, its catalog rows and its backing table.
// Types still referenced by reference, collection or association fields of
// other types cannot be deleted; neither can types with automation hooks
// still attached, unless the caller opts to strip them.
func (e *Environment) DeleteType(ctx context.Context, qualifiedName string, opts DeleteTypeOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := e.logger.With().Str("func", "DeleteType").Str("type", qualifiedName).Logger()

	snap := e.snapshot.Load()
	t, ok := snap.TypeByName(qualifiedName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, qualifiedName)
	}
	if t.Basic || t.DeclaredInCode {
		return fmt.Errorf("%w: %q", ErrBuiltinType, qualifiedName)
	}
	if e.automations != nil && !opts.StripHooks && e.automations.HasHooks(qualifiedName) {
		return fmt.Errorf("%w: %q", ErrHooksAttached, qualifiedName)
	}
	if err := referencesToType(snap, t); err != nil {
		return err
	}

	err := e.db.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := e.repo.DeleteType(ctx, tx, t.ID); err != nil {
			return err
		}
		return e.schema.DropTable(ctx, tx, t)
	})
	if err != nil {
		log.Error().Err(err).Msg("type deletion failed")
		return err
	}

	// hooks are stripped only once the deletion has committed
	if e.automations != nil && opts.StripHooks {
		e.automations.StripHooks(qualifiedName)
	}

	e.publish(snap.successor(qualifiedName, nil))
	log.Info().Msg("type deleted")
	return nil
}

// referencesToType scans the catalog for fields on other types that point at
// t and reports the first one found.
func referencesToType(snap *Snapshot, t *models.Type) error {
	for _, other := range snap.Types() {
		if other.ID == t.ID {
			continue
		}
		for _, f := range other.Fields() {
			dt := f.DataType
			pointsHere := (dt.Kind == models.KindTypeReference || dt.Kind == models.KindInverseCollection) && dt.ReferencedTypeID == t.ID ||
				dt.Kind == models.KindAssociation && dt.LinkingTypeID == t.ID
			if pointsHere {
				return fmt.Errorf("%w: %q via field %q on %q",
					ErrTypeInUse, t.QualifiedName(), f.APIName, other.QualifiedName())
			}
		}
	}
	return nil
}

// systemFields builds the engine-owned fields every type carries, with fresh
// catalog identifiers.
func (e *Environment) systemFields(ctx context.Context, tx *sql.Tx, t *models.Type) ([]models.Field, error) {
	specs := []models.Field{
		{APIName: models.FieldID, Label: "Id", DataType: models.TextType(models.KIDLength), AutoSet: true},
		{APIName: models.FieldCreatedDate, Label: "Created Date", DataType: models.DateTimeType(), AutoSet: true},
		{APIName: models.FieldCreatedBy, Label: "Created By", DataType: models.TextType(models.KIDLength), AutoSet: true},
		{APIName: models.FieldLastModifiedDate, Label: "Last Modified Date", DataType: models.DateTimeType(), AutoSet: true},
		{APIName: models.FieldLastModifiedBy, Label: "Last Modified By", DataType: models.TextType(models.KIDLength), AutoSet: true},
		{APIName: models.FieldAccessType, Label: "Access Type", DataType: models.EnumerationType("private", "public"), AutoSet: true, DefaultValue: "private"},
	}

	out := make([]models.Field, 0, len(specs))
	for _, spec := range specs {
		id, err := e.repo.NextFieldID(ctx, tx)
		if err != nil {
			return nil, err
		}
		spec.ID = id
		spec.TypeID = t.ID
		out = append(out, spec)
	}
	return out, nil
}

// buildField turns a definition into a field with a fresh identifier.
func (e *Environment) buildField(ctx context.Context, tx *sql.Tx, t *models.Type, def FieldDefinition) (models.Field, error) {
	if err := validateFieldName(def.APIName); err != nil {
		return models.Field{}, err
	}

	id, err := e.repo.NextFieldID(ctx, tx)
	if err != nil {
		return models.Field{}, err
	}

	field := models.Field{
		ID:           id,
		TypeID:       t.ID,
		APIName:      def.APIName,
		Label:        def.Label,
		DataType:     def.DataType,
		Required:     def.Required,
		TrackHistory: def.TrackHistory,
		DefaultValue: def.DefaultValue,
	}
	if field.DataType.Kind == models.KindAutoNumber {
		field.Required = true
		field.AutoSet = true
	}
	return field, nil
}

// materializeField creates the physical storage of one field: its column
// and, for references, the foreign-key constraint.
func (e *Environment) materializeField(ctx context.Context, tx *sql.Tx, lookup typeLookup, t *models.Type, field models.Field) error {
	if err := e.schema.AddColumn(ctx, tx, t, field); err != nil {
		return err
	}
	if field.DataType.Kind == models.KindTypeReference && field.APIName != models.FieldCreatedBy && field.APIName != models.FieldLastModifiedBy {
		referenced, ok := lookup(field.DataType.ReferencedTypeID)
		if !ok {
			return fmt.Errorf("%w: reference %q targets unknown type %s",
				ErrFieldConstraint, field.APIName, field.DataType.ReferencedTypeID)
		}
		return e.schema.AddForeignKey(ctx, tx, t, field, referenced.TableName, field.DataType.CascadeDelete)
	}
	return nil
}

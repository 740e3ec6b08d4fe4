package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/metacore-io/metacore/internal/logger"
	"github.com/metacore-io/metacore/models"
)

// catalogRepository is the PostgreSQL-backed implementation of
// [CatalogRepository]. It reads and writes the sys_type and sys_field system
// tables and draws identifier sequences.
type catalogRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewCatalogRepository constructs a [CatalogRepository] backed by the
// provided database connection and logger.
func NewCatalogRepository(db *DB, logger *logger.Logger) CatalogRepository {
	return &catalogRepository{
		db:     db,
		logger: logger,
	}
}

// LoadTypes reads every sys_type row and its sys_field rows and assembles
// them into fully indexed [*models.Type] values. Called once at environment
// start; the catalog caches the result.
func (r *catalogRepository) LoadTypes(ctx context.Context) ([]*models.Type, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, selectTypes)
	if err != nil {
		log.Err(err).
			Str("func", "catalogRepository.LoadTypes").
			Msg("failed to query type metadata rows")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	byID := make(map[models.KID]*models.Type)
	ordered := make([]*models.Type, 0, 32)

	for rows.Next() {
		var (
			t                               models.Type
			kid, prefix                     string
			defaultFieldKID, sharingKID     string
		)

		scanErr := rows.Scan(
			&kid,
			&t.Package,
			&t.APIName,
			&t.Label,
			&t.PluralLabel,
			&prefix,
			&t.TableName,
			&defaultFieldKID,
			&sharingKID,
			&t.Basic,
			&t.AutoLinking,
			&t.DeclaredInCode,
			&t.CreatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "catalogRepository.LoadTypes").
				Msg("failed to scan type metadata row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		t.ID = models.KID(strings.TrimSpace(kid))
		t.Prefix = models.KeyPrefix(strings.TrimSpace(prefix))
		t.DefaultFieldID = models.KID(strings.TrimSpace(defaultFieldKID))
		t.SharingControlFieldID = models.KID(strings.TrimSpace(sharingKID))

		typ := &t
		byID[typ.ID] = typ
		ordered = append(ordered, typ)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "catalogRepository.LoadTypes").
			Msg("error occurred during type rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	if err := r.loadFields(ctx, byID); err != nil {
		return nil, err
	}

	log.Info().
		Str("func", "catalogRepository.LoadTypes").
		Int("type_count", len(ordered)).
		Msg("loaded catalog metadata")

	return ordered, nil
}

// loadFields attaches every sys_field row to its owning type.
func (r *catalogRepository) loadFields(ctx context.Context, byID map[models.KID]*models.Type) error {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, selectFields)
	if err != nil {
		log.Err(err).
			Str("func", "catalogRepository.loadFields").
			Msg("failed to query field metadata rows")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		field, typeKID, scanErr := scanFieldRow(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "catalogRepository.loadFields").
				Msg("failed to scan field metadata row")
			return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		owner, ok := byID[typeKID]
		if !ok {
			return fmt.Errorf("%w: field %q references unknown type %q", ErrTypeNotFound, field.APIName, typeKID)
		}
		if addErr := owner.AddField(field); addErr != nil {
			return addErr
		}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "catalogRepository.loadFields").
			Msg("error occurred during field rows iteration")
		return fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return nil
}

// InsertType writes a new sys_type row.
func (r *catalogRepository) InsertType(ctx context.Context, q DBTX, t *models.Type) error {
	log := logger.FromContext(ctx)

	_, err := q.ExecContext(ctx, insertType,
		string(t.ID),
		t.Package,
		t.APIName,
		t.Label,
		t.PluralLabel,
		string(t.Prefix),
		t.TableName,
		string(t.DefaultFieldID),
		string(t.SharingControlFieldID),
		t.Basic,
		t.AutoLinking,
		t.DeclaredInCode,
		t.CreatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "catalogRepository.InsertType").
			Str("type", t.QualifiedName()).
			Msg("failed to insert type metadata row")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, TranslateError(err))
	}

	return nil
}

// UpdateType rewrites the mutable attributes of a sys_type row. Key prefix,
// table name and creation timestamp are never touched.
func (r *catalogRepository) UpdateType(ctx context.Context, q DBTX, t *models.Type) error {
	log := logger.FromContext(ctx)

	_, err := q.ExecContext(ctx, updateType,
		t.Package,
		t.APIName,
		t.Label,
		t.PluralLabel,
		string(t.DefaultFieldID),
		string(t.SharingControlFieldID),
		t.AutoLinking,
		string(t.ID),
	)
	if err != nil {
		log.Err(err).
			Str("func", "catalogRepository.UpdateType").
			Str("type", t.QualifiedName()).
			Msg("failed to update type metadata row")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, TranslateError(err))
	}

	return nil
}

// DeleteType removes a sys_type row; its field rows cascade at the database
// level.
func (r *catalogRepository) DeleteType(ctx context.Context, q DBTX, id models.KID) error {
	log := logger.FromContext(ctx)

	_, err := q.ExecContext(ctx, deleteType, string(id))
	if err != nil {
		log.Err(err).
			Str("func", "catalogRepository.DeleteType").
			Str("type_kid", string(id)).
			Msg("failed to delete type metadata row")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, TranslateError(err))
	}

	return nil
}

// InsertField writes a new sys_field row.
func (r *catalogRepository) InsertField(ctx context.Context, q DBTX, f models.Field) error {
	log := logger.FromContext(ctx)

	enumValues, err := encodeEnumValues(f.DataType.EnumValues)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, insertField,
		string(f.ID),
		string(f.TypeID),
		f.APIName,
		f.Label,
		int(f.DataType.Kind),
		f.DataType.Length,
		int(f.DataType.NumberKind),
		f.DataType.DecimalPlaces,
		string(f.DataType.ReferencedTypeID),
		f.DataType.CascadeDelete,
		f.DataType.MirrorField,
		string(f.DataType.LinkingTypeID),
		f.DataType.SelfLinkingField,
		f.DataType.ForeignLinkingField,
		f.DataType.Formula,
		f.DataType.DictionaryID,
		enumValues,
		f.DataType.AutoNumberFormat,
		f.Required,
		f.AutoSet,
		f.TrackHistory,
		f.DefaultValue,
	)
	if err != nil {
		log.Err(err).
			Str("func", "catalogRepository.InsertField").
			Str("field", f.APIName).
			Str("type_kid", string(f.TypeID)).
			Msg("failed to insert field metadata row")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, TranslateError(err))
	}

	return nil
}

// UpdateField rewrites a sys_field row in place, keyed by the field
// identifier.
func (r *catalogRepository) UpdateField(ctx context.Context, q DBTX, f models.Field) error {
	log := logger.FromContext(ctx)

	enumValues, err := encodeEnumValues(f.DataType.EnumValues)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, updateField,
		f.APIName,
		f.Label,
		int(f.DataType.Kind),
		f.DataType.Length,
		int(f.DataType.NumberKind),
		f.DataType.DecimalPlaces,
		string(f.DataType.ReferencedTypeID),
		f.DataType.CascadeDelete,
		f.DataType.MirrorField,
		string(f.DataType.LinkingTypeID),
		f.DataType.SelfLinkingField,
		f.DataType.ForeignLinkingField,
		f.DataType.Formula,
		f.DataType.DictionaryID,
		enumValues,
		f.DataType.AutoNumberFormat,
		f.Required,
		f.AutoSet,
		f.TrackHistory,
		f.DefaultValue,
		string(f.ID),
	)
	if err != nil {
		log.Err(err).
			Str("func", "catalogRepository.UpdateField").
			Str("field", f.APIName).
			Msg("failed to update field metadata row")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, TranslateError(err))
	}

	return nil
}

// DeleteField removes a sys_field row.
func (r *catalogRepository) DeleteField(ctx context.Context, q DBTX, id models.KID) error {
	log := logger.FromContext(ctx)

	_, err := q.ExecContext(ctx, deleteField, string(id))
	if err != nil {
		log.Err(err).
			Str("func", "catalogRepository.DeleteField").
			Str("field_kid", string(id)).
			Msg("failed to delete field metadata row")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, TranslateError(err))
	}

	return nil
}

// NextKeyPrefix draws the next custom key prefix from the persisted counter.
func (r *catalogRepository) NextKeyPrefix(ctx context.Context, q DBTX) (models.KeyPrefix, error) {
	seq, err := r.nextSequence(ctx, q, nextKeyPrefixSequence)
	if err != nil {
		return "", err
	}
	return models.NewKeyPrefix(seq)
}

// NextTypeID allocates the catalog identifier for a new type row.
func (r *catalogRepository) NextTypeID(ctx context.Context, q DBTX) (models.KID, error) {
	seq, err := r.nextSequence(ctx, q, nextTypeSequence)
	if err != nil {
		return "", err
	}
	return models.NewKID(models.KeyPrefixType, seq)
}

// NextFieldID allocates the catalog identifier for a new field row.
func (r *catalogRepository) NextFieldID(ctx context.Context, q DBTX) (models.KID, error) {
	seq, err := r.nextSequence(ctx, q, nextFieldSequence)
	if err != nil {
		return "", err
	}
	return models.NewKID(models.KeyPrefixField, seq)
}

func (r *catalogRepository) nextSequence(ctx context.Context, q DBTX, query string) (int64, error) {
	log := logger.FromContext(ctx)

	var seq int64
	if err := q.QueryRowContext(ctx, query).Scan(&seq); err != nil {
		log.Err(err).
			Str("func", "catalogRepository.nextSequence").
			Msg("failed to draw sequence value")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return seq, nil
}

// fieldRowScanner is satisfied by *sql.Rows and *sql.Row.
type fieldRowScanner interface {
	Scan(dest ...any) error
}

// scanFieldRow decodes one sys_field row into a [models.Field] plus the
// owning type identifier.
func scanFieldRow(row fieldRowScanner) (models.Field, models.KID, error) {
	var (
		f                                  models.Field
		kid, typeKID, referencedTypeKID    string
		linkingTypeKID, enumValues         string
		kind, numberKind                   int
	)

	err := row.Scan(
		&kid,
		&typeKID,
		&f.APIName,
		&f.Label,
		&kind,
		&f.DataType.Length,
		&numberKind,
		&f.DataType.DecimalPlaces,
		&referencedTypeKID,
		&f.DataType.CascadeDelete,
		&f.DataType.MirrorField,
		&linkingTypeKID,
		&f.DataType.SelfLinkingField,
		&f.DataType.ForeignLinkingField,
		&f.DataType.Formula,
		&f.DataType.DictionaryID,
		&enumValues,
		&f.DataType.AutoNumberFormat,
		&f.Required,
		&f.AutoSet,
		&f.TrackHistory,
		&f.DefaultValue,
	)
	if err != nil {
		return models.Field{}, "", err
	}

	f.ID = models.KID(strings.TrimSpace(kid))
	f.TypeID = models.KID(strings.TrimSpace(typeKID))
	f.DataType.Kind = models.DataKind(kind)
	f.DataType.NumberKind = models.NumberKind(numberKind)
	f.DataType.ReferencedTypeID = models.KID(strings.TrimSpace(referencedTypeKID))
	f.DataType.LinkingTypeID = models.KID(strings.TrimSpace(linkingTypeKID))

	if values, decodeErr := decodeEnumValues(enumValues); decodeErr != nil {
		return models.Field{}, "", decodeErr
	} else {
		f.DataType.EnumValues = values
	}

	return f, models.KID(strings.TrimSpace(typeKID)), nil
}

// encodeEnumValues stores the inline enumeration value list as a JSON text
// column so the metadata tables stay portable across drivers.
func encodeEnumValues(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}

	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode enumeration values: %w", err)
	}

	return string(encoded), nil
}

func decodeEnumValues(encoded string) ([]string, error) {
	if encoded == "" || encoded == "[]" {
		return nil, nil
	}

	var values []string
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return nil, fmt.Errorf("failed to decode enumeration values: %w", err)
	}

	return values, nil
}

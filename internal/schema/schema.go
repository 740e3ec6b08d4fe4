// Package schema keeps backing tables in step with catalog metadata. Every
// metadata mutation that changes physical storage goes through the
// Synchronizer, which emits the DDL inside the caller's transaction so a
// failed statement rolls the whole logical change back.
package schema

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/metacore-io/metacore/internal/logger"
	"github.com/metacore-io/metacore/internal/store"
	"github.com/metacore-io/metacore/models"
)

// Synchronizer translates catalog mutations into DDL statements against the
// backing tables. Methods accept a [store.DBTX] so that they run inside the
// transaction owned by the metadata change.
type Synchronizer struct {
	logger zerolog.Logger
}

// NewSynchronizer returns a Synchronizer logging through the given logger.
func NewSynchronizer(log *logger.Logger) *Synchronizer {
	return &Synchronizer{logger: log.Logger}
}

// CreateTable creates the backing table for a new Type: the identifier
// sequence, the table with its engine-owned columns and the two permission
// triggers. Field columns are added afterwards through [Synchronizer.AddColumn].
func (s *Synchronizer) CreateTable(ctx context.Context, q store.DBTX, t *models.Type) error {
	log := s.logger.With().Str("func", "CreateTable").Str("table", t.TableName).Logger()

	stmts := []string{
		createSequenceDDL(recordSequenceName(t.Prefix)),
		createTableDDL(t),
		createEditTriggerDDL(t.TableName),
		createDeleteTriggerDDL(t.TableName),
	}
	for _, stmt := range stmts {
		if err := s.exec(ctx, q, stmt); err != nil {
			log.Error().Err(err).Msg("table creation failed")
			return err
		}
	}

	log.Debug().Msg("backing table created")
	return nil
}

// DropTable removes a Type's backing table together with its identifier
// sequence and any per-field sequences still attached to autonumber columns.
func (s *Synchronizer) DropTable(ctx context.Context, q store.DBTX, t *models.Type) error {
	log := s.logger.With().Str("func", "DropTable").Str("table", t.TableName).Logger()

	stmts := []string{dropTableDDL(t.TableName)}
	for _, f := range t.Fields() {
		if f.DataType.Kind == models.KindAutoNumber {
			stmts = append(stmts, dropSequenceDDL(fieldSequenceName(t.Prefix, f)))
		}
	}
	stmts = append(stmts, dropSequenceDDL(recordSequenceName(t.Prefix)))

	for _, stmt := range stmts {
		if err := s.exec(ctx, q, stmt); err != nil {
			log.Error().Err(err).Msg("table removal failed")
			return err
		}
	}

	log.Debug().Msg("backing table dropped")
	return nil
}

// AddColumn adds the backing column for a field. Fields without physical
// storage (formulas, collections) and the id field, whose kid column is part
// of the table itself, are no-ops. AutoNumber fields additionally get their
// render sequence.
func (s *Synchronizer) AddColumn(ctx context.Context, q store.DBTX, t *models.Type, f models.Field) error {
	if !f.DataType.Kind.HasColumn() || f.APIName == models.FieldID {
		return nil
	}

	log := s.logger.With().
		Str("func", "AddColumn").
		Str("table", t.TableName).
		Str("column", f.Column()).
		Logger()

	columnType, err := columnSQLType(f.DataType)
	if err != nil {
		return err
	}
	if err := s.exec(ctx, q, addColumnDDL(t.TableName, f.Column(), columnType)); err != nil {
		log.Error().Err(err).Msg("column creation failed")
		return err
	}

	if f.DataType.Kind == models.KindAutoNumber {
		if err := s.exec(ctx, q, createSequenceDDL(fieldSequenceName(t.Prefix, f))); err != nil {
			log.Error().Err(err).Msg("autonumber sequence creation failed")
			return err
		}
	}

	log.Debug().Msg("column added")
	return nil
}

// AlterColumn changes the SQL type of an existing column in place. Callers
// are responsible for only requesting widening changes; the database rejects
// anything its cast rules cannot express.
func (s *Synchronizer) AlterColumn(ctx context.Context, q store.DBTX, t *models.Type, f models.Field) error {
	if !f.DataType.Kind.HasColumn() || f.APIName == models.FieldID {
		return nil
	}

	log := s.logger.With().
		Str("func", "AlterColumn").
		Str("table", t.TableName).
		Str("column", f.Column()).
		Logger()

	columnType, err := columnSQLType(f.DataType)
	if err != nil {
		return err
	}
	if err := s.exec(ctx, q, alterColumnDDL(t.TableName, f.Column(), columnType)); err != nil {
		log.Error().Err(err).Msg("column alteration failed")
		return err
	}

	log.Debug().Msg("column altered")
	return nil
}

// DropColumn removes a field's backing column and, for autonumber fields,
// its render sequence. Dropping the column implicitly drops any foreign-key
// constraint attached to it.
func (s *Synchronizer) DropColumn(ctx context.Context, q store.DBTX, t *models.Type, f models.Field) error {
	if !f.DataType.Kind.HasColumn() || f.APIName == models.FieldID {
		return nil
	}

	log := s.logger.With().
		Str("func", "DropColumn").
		Str("table", t.TableName).
		Str("column", f.Column()).
		Logger()

	if err := s.exec(ctx, q, dropColumnDDL(t.TableName, f.Column())); err != nil {
		log.Error().Err(err).Msg("column removal failed")
		return err
	}

	if f.DataType.Kind == models.KindAutoNumber {
		if err := s.exec(ctx, q, dropSequenceDDL(fieldSequenceName(t.Prefix, f))); err != nil {
			log.Error().Err(err).Msg("autonumber sequence removal failed")
			return err
		}
	}

	log.Debug().Msg("column dropped")
	return nil
}

// AddForeignKey attaches the referential constraint of a TypeReference
// column. cascade selects ON DELETE CASCADE; otherwise deletions of the
// referenced record null the column out.
func (s *Synchronizer) AddForeignKey(ctx context.Context, q store.DBTX, t *models.Type, f models.Field, referencedTable string, cascade bool) error {
	log := s.logger.With().
		Str("func", "AddForeignKey").
		Str("table", t.TableName).
		Str("column", f.Column()).
		Str("references", referencedTable).
		Logger()

	if err := s.exec(ctx, q, addForeignKeyDDL(t.TableName, f.Column(), referencedTable, cascade)); err != nil {
		log.Error().Err(err).Msg("foreign key creation failed")
		return err
	}

	log.Debug().Msg("foreign key added")
	return nil
}

// DropForeignKey removes the referential constraint of a TypeReference
// column while keeping the column itself.
func (s *Synchronizer) DropForeignKey(ctx context.Context, q store.DBTX, t *models.Type, f models.Field) error {
	log := s.logger.With().
		Str("func", "DropForeignKey").
		Str("table", t.TableName).
		Str("column", f.Column()).
		Logger()

	if err := s.exec(ctx, q, dropForeignKeyDDL(t.TableName, f.Column())); err != nil {
		log.Error().Err(err).Msg("foreign key removal failed")
		return err
	}

	log.Debug().Msg("foreign key dropped")
	return nil
}

// FieldSequence returns the name of the render sequence backing an
// autonumber field, for callers that draw values from it.
func (s *Synchronizer) FieldSequence(t *models.Type, f models.Field) string {
	return fieldSequenceName(t.Prefix, f)
}

func (s *Synchronizer) exec(ctx context.Context, q store.DBTX, stmt string) error {
	if _, err := q.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("%w: %w", store.ErrExecutingDDL, err)
	}
	return nil
}

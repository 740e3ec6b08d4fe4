package lifecycle

import (
	"context"
	"fmt"

	"github.com/metacore-io/metacore/internal/catalog"
	"github.com/metacore-io/metacore/internal/store"
	"github.com/metacore-io/metacore/models"
)

// Find compiles the criteria against the current catalog snapshot, runs the
// statement and hydrates the result rows into records.
func (e *Engine) Find(ctx context.Context, crit *models.Criteria) ([]*models.Record, error) {
	return e.find(ctx, e.db, e.env.Snapshot(), crit)
}

// Count returns the number of distinct root records matching the criteria,
// ignoring projections, ordering and limit.
func (e *Engine) Count(ctx context.Context, crit *models.Criteria) (int64, error) {
	sqlText, args, err := e.compiler.CompileCount(crit)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := e.db.QueryRowContext(ctx, sqlText, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", store.ErrExecutingQuery, err)
	}
	return n, nil
}

// FindByID loads one record with all of its stored scalar fields.
func (e *Engine) FindByID(ctx context.Context, typeName string, id models.KID) (*models.Record, error) {
	snap := e.env.Snapshot()
	t, ok := snap.TypeByName(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownType, typeName)
	}

	crit := models.NewCriteria(typeName)
	for _, f := range t.Fields() {
		if f.DataType.Kind.HasColumn() && f.DataType.Kind != models.KindTypeReference && f.APIName != models.FieldID {
			crit.AddProperty(f.APIName)
		}
	}
	crit.SetRestriction(models.Eq(models.FieldID, string(id)))

	records, err := e.find(ctx, e.db, snap, crit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrRecordNotFound, id)
	}
	return records[0], nil
}

// find runs one compiled select over q, which is either the pooled handle or
// the ambient transaction of a save/delete pipeline.
func (e *Engine) find(ctx context.Context, q store.DBTX, snap *catalog.Snapshot, crit *models.Criteria) ([]*models.Record, error) {
	sel, err := e.compiler.CompileSelect(snap.Version(), crit)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, sel.SQL, sel.Args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrExecutingQuery, err)
	}
	defer rows.Close()

	return e.mapper.Records(sel, rows)
}

// Package rowmap decodes SQL result rows back into records. The projection
// layout of a compiled statement drives the decoding: scalar columns land on
// the record or on nested reference stubs, aggregated collection columns are
// unfolded into child record slices with cross-join duplication undone.
package rowmap

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/metacore-io/metacore/internal/query"
	"github.com/metacore-io/metacore/internal/store"
	"github.com/metacore-io/metacore/models"
)

// ErrRowDecoding is returned when a column value cannot be converted into
// the projected field's value kind.
var ErrRowDecoding = errors.New("failed to decode row value")

// Mapper turns result rows into records, resolving referenced and child
// types through the same catalog metadata the statement was compiled from.
type Mapper struct {
	resolver query.TypeResolver
}

// NewMapper returns a Mapper resolving metadata through resolver.
func NewMapper(resolver query.TypeResolver) *Mapper {
	return &Mapper{resolver: resolver}
}

// Records drains rows into one record per result row. The caller keeps
// ownership of rows and closes them.
func (m *Mapper) Records(sel *query.Select, rows *sql.Rows) ([]*models.Record, error) {
	width := 0
	for _, p := range sel.Projections {
		if p.ValueIndex >= width {
			width = p.ValueIndex + 1
		}
		if p.CountIndex >= width {
			width = p.CountIndex + 1
		}
	}

	var records []*models.Record
	for rows.Next() {
		values := make([]any, width)
		dests := make([]any, width)
		for i := range values {
			dests[i] = &values[i]
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("%w: %w", store.ErrScanningRows, err)
		}

		rec, err := m.record(sel, values)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrScanningRows, err)
	}

	return records, nil
}

func (m *Mapper) record(sel *query.Select, values []any) (*models.Record, error) {
	rec := models.NewRecord(sel.Type.QualifiedName())
	collections := map[string][]*models.Record{}

	for _, p := range sel.Projections {
		if p.Collection {
			if err := m.placeCollection(sel, rec, collections, p, values); err != nil {
				return nil, err
			}
			continue
		}
		if err := m.placeScalar(sel.Type, rec, p, values[p.ValueIndex]); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// placeScalar walks the property path, materialising reference stubs for
// intermediate segments, and sets the decoded value on the terminal one.
func (m *Mapper) placeScalar(root *models.Type, rec *models.Record, p query.Projection, raw any) error {
	segments := strings.Split(p.Property, ".")
	cur, curType := rec, root

	for i := 0; i < len(segments)-1; i++ {
		field, ok := curType.Field(segments[i])
		if !ok || field.DataType.Kind != models.KindTypeReference {
			return fmt.Errorf("%w: path %q does not traverse references", ErrRowDecoding, p.Property)
		}
		refType, ok := m.resolver.TypeByID(field.DataType.ReferencedTypeID)
		if !ok {
			return fmt.Errorf("%w: unknown referenced type %s", ErrRowDecoding, field.DataType.ReferencedTypeID)
		}

		nested := nestedRecord(cur, segments[i], refType.QualifiedName())
		cur, curType = nested, refType
	}

	terminal := segments[len(segments)-1]
	if raw == nil {
		cur.SetNull(terminal)
		return nil
	}

	// a projected terminal reference becomes a stub child holding the id
	if p.Field.DataType.Kind == models.KindTypeReference {
		refType, ok := m.resolver.TypeByID(p.Field.DataType.ReferencedTypeID)
		if !ok {
			return fmt.Errorf("%w: unknown referenced type %s", ErrRowDecoding, p.Field.DataType.ReferencedTypeID)
		}
		id, err := decodeKID(raw)
		if err != nil {
			return err
		}
		stub := nestedRecord(cur, terminal, refType.QualifiedName())
		stub.SetKID(id)
		return nil
	}

	value, err := decodeScalar(p.Field, raw)
	if err != nil {
		return err
	}
	cur.Set(terminal, value)
	return nil
}

// placeCollection unfolds one aggregated column into child records. The
// aggregate carries len(values)/count copies of each child value when other
// collections share the statement; stepping by that stride restores the
// distinct sequence.
func (m *Mapper) placeCollection(sel *query.Select, rec *models.Record, collections map[string][]*models.Record, p query.Projection, values []any) error {
	segments := strings.Split(p.Property, ".")
	prefix := segments[0]
	if len(segments) > 2 {
		return fmt.Errorf("%w: collection path %q nests too deep", ErrRowDecoding, p.Property)
	}

	childType, err := m.collectionChildType(p.Field)
	if err != nil {
		return err
	}

	count, err := decodeCount(values[p.CountIndex])
	if err != nil {
		return err
	}

	children, seen := collections[prefix]
	if !seen {
		children = make([]*models.Record, count)
		for i := range children {
			children[i] = models.NewRecord(childType.QualifiedName())
		}
		collections[prefix] = children
		rec.Set(prefix, children)
	}
	if count == 0 {
		return nil
	}

	elements, err := parseTextArray(values[p.ValueIndex])
	if err != nil {
		return err
	}
	if len(elements)%count != 0 {
		return fmt.Errorf("%w: aggregate of %d values is not a multiple of %d children for %q",
			ErrRowDecoding, len(elements), count, p.Property)
	}
	stride := len(elements) / count

	var subField models.Field
	subName := models.FieldID
	if len(segments) == 2 {
		subName = segments[1]
	}
	subField, ok := childType.Field(subName)
	if !ok {
		return fmt.Errorf("%w: no field %q on type %q", ErrRowDecoding, subName, childType.QualifiedName())
	}

	for i := 0; i < count; i++ {
		element := elements[i*stride]
		child := children[i]
		if element == nil {
			child.SetNull(subName)
			continue
		}
		if subName == models.FieldID {
			id, err := decodeKID(*element)
			if err != nil {
				return err
			}
			child.SetKID(id)
			continue
		}
		value, err := decodeScalar(subField, *element)
		if err != nil {
			return err
		}
		child.Set(subName, value)
	}

	return nil
}

// collectionChildType resolves the type whose records a collection field
// yields: the referencing child for inverse collections, the far side for
// associations.
func (m *Mapper) collectionChildType(field models.Field) (*models.Type, error) {
	switch field.DataType.Kind {
	case models.KindInverseCollection:
		child, ok := m.resolver.TypeByID(field.DataType.ReferencedTypeID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown child type %s", ErrRowDecoding, field.DataType.ReferencedTypeID)
		}
		return child, nil
	case models.KindAssociation:
		link, ok := m.resolver.TypeByID(field.DataType.LinkingTypeID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown linking type %s", ErrRowDecoding, field.DataType.LinkingTypeID)
		}
		foreignRef, ok := link.Field(field.DataType.ForeignLinkingField)
		if !ok {
			return nil, fmt.Errorf("%w: linking type %q misses field %q", ErrRowDecoding, link.QualifiedName(), field.DataType.ForeignLinkingField)
		}
		far, ok := m.resolver.TypeByID(foreignRef.DataType.ReferencedTypeID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown far type %s", ErrRowDecoding, foreignRef.DataType.ReferencedTypeID)
		}
		return far, nil
	}
	return nil, fmt.Errorf("%w: field %q is not a collection", ErrRowDecoding, field.APIName)
}

// nestedRecord returns the nested record stored under field, creating it
// when the slot is empty or holds a null.
func nestedRecord(parent *models.Record, field, typeName string) *models.Record {
	if parent.Has(field) && !parent.IsNull(field) {
		if existing, err := parent.Get(field); err == nil {
			if nested, ok := existing.(*models.Record); ok {
				return nested
			}
		}
	}
	nested := models.NewRecord(typeName)
	parent.Set(field, nested)
	return nested
}

func decodeCount(raw any) (int, error) {
	switch v := raw.(type) {
	case int64:
		return int(v), nil
	case []byte:
		return parseInt(string(v))
	case string:
		return parseInt(v)
	}
	return 0, fmt.Errorf("%w: count column holds %T", ErrRowDecoding, raw)
}

package query

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/metacore-io/metacore/models"
)

// Storage formats for date and datetime values. The row mapper decodes with
// the same layouts.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// authorizedFlag is written into the auth_checked column by every mutation
// after application-level permission checks pass; the table triggers reject
// rows arriving without it.
const authorizedFlag = "y"

var dollar = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// InsertSQL builds the INSERT for a new record. Only populated fields are
// written; the kid column fills from its sequence default and is returned so
// the caller can write it back into the record.
func InsertSQL(t *models.Type, rec *models.Record) (string, []any, error) {
	columns := []string{"auth_checked"}
	values := []any{authorizedFlag}

	for _, field := range t.Fields() {
		if !field.DataType.Kind.HasColumn() || field.APIName == models.FieldID {
			continue
		}
		if !rec.Has(field.APIName) {
			continue
		}
		raw, err := rec.Get(field.APIName)
		if err != nil {
			return "", nil, err
		}
		value, err := encodeValue(field, raw)
		if err != nil {
			return "", nil, err
		}
		columns = append(columns, field.Column())
		values = append(values, value)
	}

	return dollar.Insert(t.TableName).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING kid").
		ToSql()
}

// UpdateSQL builds the UPDATE for an existing record, addressed by its
// identifier. Unset fields are left untouched; explicitly null fields are
// written as NULL.
func UpdateSQL(t *models.Type, rec *models.Record) (string, []any, error) {
	kid, err := rec.KID()
	if err != nil {
		return "", nil, err
	}

	builder := dollar.Update(t.TableName).Set("auth_checked", authorizedFlag)
	for _, field := range t.Fields() {
		if !field.DataType.Kind.HasColumn() || field.APIName == models.FieldID {
			continue
		}
		if !rec.Has(field.APIName) {
			continue
		}
		raw, err := rec.Get(field.APIName)
		if err != nil {
			return "", nil, err
		}
		value, err := encodeValue(field, raw)
		if err != nil {
			return "", nil, err
		}
		builder = builder.Set(field.Column(), value)
	}

	return builder.Where(sq.Eq{"kid": string(kid)}).ToSql()
}

// AuthorizeDeleteSQL builds the UPDATE that arms the delete trigger's
// escape hatch for one record. It must run in the same transaction as the
// DELETE that follows.
func AuthorizeDeleteSQL(t *models.Type, id models.KID) (string, []any, error) {
	return dollar.Update(t.TableName).
		Set("auth_checked", authorizedFlag).
		Where(sq.Eq{"kid": string(id)}).
		ToSql()
}

// DeleteSQL builds the DELETE for one record.
func DeleteSQL(t *models.Type, id models.KID) (string, []any, error) {
	return dollar.Delete(t.TableName).
		Where(sq.Eq{"kid": string(id)}).
		ToSql()
}

// encodeValue converts a record value into its bind-parameter form for the
// field's column. nil (explicit null) passes through untouched.
func encodeValue(field models.Field, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	switch field.DataType.Kind {
	case models.KindDate:
		switch v := value.(type) {
		case time.Time:
			return v.Format(DateLayout), nil
		case string:
			return v, nil
		}
	case models.KindDateTime:
		switch v := value.(type) {
		case time.Time:
			return v.Format(DateTimeLayout), nil
		case string:
			return v, nil
		}
	case models.KindNumber:
		switch v := value.(type) {
		case *big.Rat:
			return v.FloatString(field.DataType.DecimalPlaces), nil
		case int, int64, float64, string:
			return v, nil
		}
	case models.KindMultiEnumeration:
		switch v := value.(type) {
		case []string:
			return EncodeTextArray(v), nil
		case string:
			return v, nil
		}
	case models.KindTypeReference:
		switch v := value.(type) {
		case *models.Record:
			kid, err := v.KID()
			if err != nil {
				return nil, err
			}
			return string(kid), nil
		case models.KID:
			return string(v), nil
		case string:
			return v, nil
		}
	default:
		if kid, ok := value.(models.KID); ok {
			return string(kid), nil
		}
		return value, nil
	}

	return nil, fmt.Errorf("%w: cannot encode %T into %s field %q",
		models.ErrDataTypeDefinition, value, field.DataType.Kind, field.APIName)
}

// EncodeTextArray renders a string slice as a PostgreSQL array literal for
// binding against text[] columns.
func EncodeTextArray(values []string) string {
	if len(values) == 0 {
		return "{}"
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(v, `\`, `\\`), `"`, `\"`))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}

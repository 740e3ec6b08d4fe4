package rowmap

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/metacore-io/metacore/internal/query"
	"github.com/metacore-io/metacore/models"
)

// decodeScalar converts one driver value into the Go representation of the
// field's value kind: strings for text kinds, int64, *big.Rat or float64 for
// numbers, bool for checkboxes, time.Time for dates and []string for
// multi-enumerations.
func decodeScalar(field models.Field, raw any) (any, error) {
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}

	switch field.DataType.Kind {
	case models.KindNumber:
		return decodeNumber(field, raw)

	case models.KindCheckbox:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			return v == "t" || v == "true", nil
		}

	case models.KindDate:
		switch v := raw.(type) {
		case time.Time:
			return v.Truncate(24 * time.Hour), nil
		case string:
			parsed, err := time.Parse(query.DateLayout, v)
			if err != nil {
				return nil, fmt.Errorf("%w: date %q on field %q: %w", ErrRowDecoding, v, field.APIName, err)
			}
			return parsed, nil
		}

	case models.KindDateTime:
		switch v := raw.(type) {
		case time.Time:
			return v, nil
		case string:
			parsed, err := time.Parse(query.DateTimeLayout, v)
			if err != nil {
				return nil, fmt.Errorf("%w: datetime %q on field %q: %w", ErrRowDecoding, v, field.APIName, err)
			}
			return parsed, nil
		}

	case models.KindMultiEnumeration:
		elements, err := parseTextArray(raw)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(elements))
		for _, e := range elements {
			if e != nil {
				out = append(out, *e)
			}
		}
		return out, nil

	case models.KindFormula:
		// formula results are dynamically typed; pass the driver value on
		return raw, nil

	default:
		if v, ok := raw.(string); ok {
			if field.APIName == models.FieldID {
				return decodeKID(v)
			}
			return strings.TrimRight(v, " "), nil
		}
	}

	return nil, fmt.Errorf("%w: %T value on %s field %q", ErrRowDecoding, raw, field.DataType.Kind, field.APIName)
}

func decodeNumber(field models.Field, raw any) (any, error) {
	switch field.DataType.NumberKind {
	case models.NumberInteger:
		switch v := raw.(type) {
		case int64:
			return v, nil
		case string:
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: integer %q on field %q: %w", ErrRowDecoding, v, field.APIName, err)
			}
			return n, nil
		}
	case models.NumberDecimal:
		switch v := raw.(type) {
		case string:
			rat, ok := new(big.Rat).SetString(v)
			if !ok {
				return nil, fmt.Errorf("%w: decimal %q on field %q", ErrRowDecoding, v, field.APIName)
			}
			return rat, nil
		case int64:
			return new(big.Rat).SetInt64(v), nil
		case float64:
			return new(big.Rat).SetFloat64(v), nil
		}
	case models.NumberFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: float %q on field %q: %w", ErrRowDecoding, v, field.APIName, err)
			}
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %T value on number field %q", ErrRowDecoding, raw, field.APIName)
}

func decodeKID(raw any) (models.KID, error) {
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: identifier column holds %T", ErrRowDecoding, raw)
	}
	id, err := models.ParseKID(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRowDecoding, err)
	}
	return id, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: count %q: %w", ErrRowDecoding, s, err)
	}
	return n, nil
}

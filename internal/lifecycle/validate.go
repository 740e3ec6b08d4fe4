package lifecycle

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/metacore-io/metacore/models"
)

// emailPattern is deliberately loose: one local part, one @, one dotted
// domain. Real deliverability is the mail system's problem.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Violation is one field-level validation failure.
type Violation struct {
	Field   string
	Message string
}

// ValidationError aggregates every violation found on a record so a caller
// sees all problems at once instead of fixing them one failure at a time.
type ValidationError struct {
	TypeName   string
	Violations []Violation
}

// Error implements the error interface, enumerating every offending field.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Message
	}
	return fmt.Sprintf("record of type %q failed validation: %s", e.TypeName, strings.Join(parts, "; "))
}

// Fields returns the offending field api names in violation order.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		out[i] = v.Field
	}
	return out
}

// validate checks every populated field of the record against its metadata,
// collecting violations rather than failing fast. On insert every required
// field must be present; on update only the fields actually present are
// checked.
func (e *Engine) validate(ctx context.Context, t *models.Type, rec *models.Record, insert bool) error {
	var violations []Violation

	for _, f := range t.Fields() {
		if !f.DataType.Kind.HasColumn() || f.AutoSet {
			continue
		}

		if !rec.Has(f.APIName) {
			if insert && f.Required {
				violations = append(violations, Violation{Field: f.APIName, Message: "required field is missing"})
			}
			continue
		}
		if rec.IsNull(f.APIName) {
			if f.Required {
				violations = append(violations, Violation{Field: f.APIName, Message: "required field cannot be null"})
			}
			continue
		}

		value, err := rec.Get(f.APIName)
		if err != nil {
			return err
		}
		if v := e.checkValue(ctx, f, value); v != nil {
			violations = append(violations, *v)
		}
	}

	if len(violations) > 0 {
		return &ValidationError{TypeName: t.QualifiedName(), Violations: violations}
	}
	return nil
}

func (e *Engine) checkValue(ctx context.Context, f models.Field, value any) *Violation {
	switch f.DataType.Kind {
	case models.KindText:
		s, ok := value.(string)
		if !ok {
			break
		}
		if n := utf8.RuneCountInString(s); n > f.DataType.Length {
			return &Violation{Field: f.APIName, Message: fmt.Sprintf("text of %d characters exceeds limit %d", n, f.DataType.Length)}
		}

	case models.KindEmail:
		s, ok := value.(string)
		if !ok {
			break
		}
		if !emailPattern.MatchString(s) {
			return &Violation{Field: f.APIName, Message: fmt.Sprintf("%q is not a valid email address", s)}
		}

	case models.KindEnumeration:
		s, ok := value.(string)
		if !ok {
			break
		}
		allowed, err := e.enumValues(ctx, f)
		if err != nil {
			return &Violation{Field: f.APIName, Message: err.Error()}
		}
		if !contains(allowed, s) {
			return &Violation{Field: f.APIName, Message: fmt.Sprintf("%q is not an allowed value", s)}
		}

	case models.KindMultiEnumeration:
		values, ok := value.([]string)
		if !ok {
			break
		}
		for _, s := range values {
			if !contains(f.DataType.EnumValues, s) {
				return &Violation{Field: f.APIName, Message: fmt.Sprintf("%q is not an allowed value", s)}
			}
		}
	}

	return nil
}

// enumValues returns the allowed value set of an enumeration field, from its
// inline list or the dictionary collaborator.
func (e *Engine) enumValues(ctx context.Context, f models.Field) ([]string, error) {
	if len(f.DataType.EnumValues) > 0 {
		return f.DataType.EnumValues, nil
	}
	values, err := e.dictionary.Values(ctx, f.DataType.DictionaryID)
	if err != nil {
		return nil, fmt.Errorf("resolving dictionary %q: %w", f.DataType.DictionaryID, err)
	}
	return values, nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

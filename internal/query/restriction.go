package query

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/metacore-io/metacore/models"
)

var comparisonSQL = map[models.RestrictionOp]string{
	models.OpEq:    "=",
	models.OpNe:    "<>",
	models.OpGt:    ">",
	models.OpGe:    ">=",
	models.OpLt:    "<",
	models.OpLe:    "<=",
	models.OpLike:  "LIKE",
	models.OpILike: "ILIKE",
}

// compileRestriction lowers one restriction node into a squirrel Sqlizer,
// registering any joins its property paths need on the scope.
func (c *Compiler) compileRestriction(s *scope, r *models.Restriction) (sq.Sqlizer, error) {
	switch {
	case r.Op.IsComparison():
		resolved, err := s.resolvePath(r.Path)
		if err != nil {
			return nil, err
		}
		value, err := encodeValue(resolved.field, r.Value)
		if err != nil {
			return nil, err
		}
		return sq.Expr(resolved.expr+" "+comparisonSQL[r.Op]+" ?", value), nil

	case r.Op == models.OpIsNull:
		resolved, err := s.resolvePath(r.Path)
		if err != nil {
			return nil, err
		}
		return sq.Expr(resolved.expr + " IS NULL"), nil

	case r.Op == models.OpIn:
		return c.compileIn(s, r)

	case r.Op == models.OpAnd:
		conj := make(sq.And, 0, len(r.Children))
		for _, child := range r.Children {
			compiled, err := c.compileRestriction(s, child)
			if err != nil {
				return nil, err
			}
			conj = append(conj, compiled)
		}
		return conj, nil

	case r.Op == models.OpOr:
		disj := make(sq.Or, 0, len(r.Children))
		for _, child := range r.Children {
			compiled, err := c.compileRestriction(s, child)
			if err != nil {
				return nil, err
			}
			disj = append(disj, compiled)
		}
		return disj, nil

	case r.Op == models.OpNot:
		compiled, err := c.compileRestriction(s, r.Children[0])
		if err != nil {
			return nil, err
		}
		childSQL, childArgs, err := compiled.ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrCriteria, err)
		}
		return sq.Expr("NOT ("+childSQL+")", childArgs...), nil
	}

	return nil, fmt.Errorf("%w: unknown restriction op %d", models.ErrCriteria, int(r.Op))
}

// compileIn lowers a membership test. Literal sets become a placeholder per
// value; subqueries are compiled in their own scope and embedded verbatim,
// after checking that the single projected field is stored and matches the
// outer field's data type.
func (c *Compiler) compileIn(s *scope, r *models.Restriction) (sq.Sqlizer, error) {
	resolved, err := s.resolvePath(r.Path)
	if err != nil {
		return nil, err
	}

	if r.Subquery == nil {
		placeholders := make([]string, len(r.Values))
		args := make([]any, len(r.Values))
		for i, raw := range r.Values {
			value, err := encodeValue(resolved.field, raw)
			if err != nil {
				return nil, err
			}
			placeholders[i] = "?"
			args[i] = value
		}
		return sq.Expr(resolved.expr+" IN ("+strings.Join(placeholders, ", ")+")", args...), nil
	}

	sub, err := c.compileSelect(r.Subquery, false)
	if err != nil {
		return nil, err
	}

	projected := sub.Projections[0].Field
	if projected.DataType.Kind == models.KindFormula {
		return nil, fmt.Errorf("%w: subquery for %q projects formula field %q",
			models.ErrCriteria, r.Path, projected.APIName)
	}
	if !projected.DataType.Equal(resolved.field.DataType) {
		return nil, fmt.Errorf("%w: subquery for %q projects %s field %q, want %s",
			models.ErrCriteria, r.Path, projected.DataType.Kind, projected.APIName, resolved.field.DataType.Kind)
	}

	return sq.Expr(resolved.expr+" IN ("+sub.SQL+")", sub.Args...), nil
}

package query

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/metacore-io/metacore/models"
)

// compileSelect builds the SELECT for a criteria. Top-level statements get
// the root identifier prepended when not projected explicitly and end with
// dollar placeholders; subqueries keep question placeholders so the outer
// statement renumbers them in one final pass.
func (c *Compiler) compileSelect(crit *models.Criteria, topLevel bool) (*Select, error) {
	root, ok := c.resolver.TypeByName(crit.TypeName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown type %q", models.ErrCriteria, crit.TypeName)
	}
	if crit.Where != nil {
		if err := crit.Where.Validate(); err != nil {
			return nil, err
		}
	}

	properties := crit.Properties
	if topLevel && !containsProperty(properties, models.FieldID) {
		properties = append([]string{models.FieldID}, properties...)
	}
	if !topLevel && len(properties) != 1 {
		return nil, fmt.Errorf("%w: subquery must project exactly one property, got %d",
			models.ErrCriteria, len(properties))
	}

	s := newScope(c.resolver, crit, root)

	var (
		columns     []string
		scalars     []string
		projections []Projection
		aggregated  bool
	)
	for _, property := range properties {
		r, err := s.resolvePath(property)
		if err != nil {
			return nil, err
		}

		if r.collection {
			aggregated = true
			projections = append(projections, Projection{
				Property:   property,
				Field:      r.field,
				Collection: true,
				ValueIndex: len(columns),
				CountIndex: len(columns) + 1,
			})
			columns = append(columns,
				"array_agg("+r.expr+")",
				"count(DISTINCT "+r.countExpr+")")
			continue
		}

		projections = append(projections, Projection{
			Property:   property,
			Field:      r.field,
			ValueIndex: len(columns),
			CountIndex: -1,
		})
		columns = append(columns, r.expr)
		scalars = append(scalars, r.expr)
	}

	var where sq.Sqlizer
	if crit.Where != nil {
		compiled, err := c.compileRestriction(s, crit.Where)
		if err != nil {
			return nil, err
		}
		where = compiled
	}

	var orderBys []string
	for _, order := range crit.OrderBy {
		r, err := s.resolvePath(order.Path)
		if err != nil {
			return nil, err
		}
		if r.collection {
			return nil, fmt.Errorf("%w: cannot order by collection path %q", models.ErrCriteria, order.Path)
		}
		expr := r.expr
		if order.Descending {
			expr += " DESC"
		}
		orderBys = append(orderBys, expr)
	}

	builder := sq.Select(columns...).From(root.TableName + " " + baseAlias)
	for _, join := range s.joins {
		builder = builder.JoinClause(join)
	}
	if where != nil {
		builder = builder.Where(where)
	}
	if aggregated {
		builder = builder.GroupBy(scalars...)
	}
	if len(orderBys) > 0 {
		builder = builder.OrderBy(orderBys...)
	}
	if crit.Limit > 0 {
		builder = builder.Limit(uint64(crit.Limit))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrCriteria, err)
	}
	if topLevel {
		sql, err = sq.Dollar.ReplacePlaceholders(sql)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrCriteria, err)
		}
	}

	return &Select{SQL: sql, Args: args, Projections: projections, Type: root}, nil
}

func (c *Compiler) compileCount(crit *models.Criteria) (string, []any, error) {
	root, ok := c.resolver.TypeByName(crit.TypeName)
	if !ok {
		return "", nil, fmt.Errorf("%w: unknown type %q", models.ErrCriteria, crit.TypeName)
	}

	s := newScope(c.resolver, crit, root)

	var where sq.Sqlizer
	if crit.Where != nil {
		if err := crit.Where.Validate(); err != nil {
			return "", nil, err
		}
		compiled, err := c.compileRestriction(s, crit.Where)
		if err != nil {
			return "", nil, err
		}
		where = compiled
	}

	// joins introduced by restriction paths can duplicate root rows
	builder := sq.Select("count(DISTINCT " + baseAlias + ".kid)").From(root.TableName + " " + baseAlias)
	for _, join := range s.joins {
		builder = builder.JoinClause(join)
	}
	if where != nil {
		builder = builder.Where(where)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", models.ErrCriteria, err)
	}
	sql, err = sq.Dollar.ReplacePlaceholders(sql)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", models.ErrCriteria, err)
	}

	return sql, args, nil
}

func containsProperty(properties []string, name string) bool {
	for _, p := range properties {
		if p == name {
			return true
		}
	}
	return false
}

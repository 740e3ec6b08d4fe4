package query

import (
	"fmt"
	"strings"

	"github.com/metacore-io/metacore/models"

	"github.com/metacore-io/metacore/internal/query/formula"
)

// scope is the per-statement compilation state: the root type, the join
// clauses discovered while resolving paths, and the criteria supplying the
// caller-assigned join aliases.
type scope struct {
	resolver TypeResolver
	criteria *models.Criteria
	root     *models.Type

	joins   []string
	aliases map[string]bool
}

func newScope(resolver TypeResolver, crit *models.Criteria, root *models.Type) *scope {
	return &scope{
		resolver: resolver,
		criteria: crit,
		root:     root,
		aliases:  map[string]bool{baseAlias: true},
	}
}

// resolved is the outcome of resolving one property path: the SQL expression
// reading the value, the terminal field, and for collection paths the
// expression counted to undo cross-join duplication.
type resolved struct {
	expr       string
	field      models.Field
	collection bool
	countExpr  string
}

func (s *scope) addJoin(table, alias, on string) {
	if s.aliases[alias] {
		return
	}
	s.aliases[alias] = true
	s.joins = append(s.joins, fmt.Sprintf("LEFT JOIN %s %s ON %s", table, alias, on))
}

func (s *scope) aliasFor(prefix string) (string, error) {
	alias, ok := s.criteria.Aliases[prefix]
	if !ok {
		return "", fmt.Errorf("%w: no join alias registered for path %q", models.ErrCriteria, prefix)
	}
	return alias, nil
}

// resolvePath walks a dotted property path from the root type, emitting the
// joins each reference segment needs and returning the terminal column
// expression.
func (s *scope) resolvePath(path string) (resolved, error) {
	if path == "" {
		return resolved{}, fmt.Errorf("%w: empty property path", models.ErrCriteria)
	}

	segments := strings.Split(path, ".")
	curType, curAlias := s.root, baseAlias

	for i, segment := range segments {
		field, ok := curType.Field(segment)
		if !ok {
			return resolved{}, fmt.Errorf("%w: no field %q on type %q in path %q",
				models.ErrCriteria, segment, curType.QualifiedName(), path)
		}
		last := i == len(segments)-1
		prefix := strings.Join(segments[:i+1], ".")

		switch field.DataType.Kind {
		case models.KindTypeReference:
			if last {
				return resolved{expr: curAlias + "." + field.Column(), field: field}, nil
			}

			refType, ok := s.resolver.TypeByID(field.DataType.ReferencedTypeID)
			if !ok {
				return resolved{}, fmt.Errorf("%w: field %q references unknown type %s",
					models.ErrCriteria, field.APIName, field.DataType.ReferencedTypeID)
			}

			// Reading just the referenced id does not need the join: the
			// reference column already holds it. The join stays when the
			// referenced type carries sharing control, so that row-level
			// visibility still filters the result.
			if i == len(segments)-2 && segments[i+1] == models.FieldID && !refType.HasSharingControl() {
				idField, _ := refType.Field(models.FieldID)
				return resolved{expr: curAlias + "." + field.Column(), field: idField}, nil
			}

			alias, err := s.aliasFor(prefix)
			if err != nil {
				return resolved{}, err
			}
			s.addJoin(refType.TableName, alias, curAlias+"."+field.Column()+" = "+alias+".kid")
			curType, curAlias = refType, alias

		case models.KindInverseCollection:
			childType, ok := s.resolver.TypeByID(field.DataType.ReferencedTypeID)
			if !ok {
				return resolved{}, fmt.Errorf("%w: collection %q references unknown type %s",
					models.ErrCriteria, field.APIName, field.DataType.ReferencedTypeID)
			}
			mirror, ok := childType.Field(field.DataType.MirrorField)
			if !ok {
				return resolved{}, fmt.Errorf("%w: collection %q mirrors missing field %q on type %q",
					models.ErrCriteria, field.APIName, field.DataType.MirrorField, childType.QualifiedName())
			}

			alias, err := s.aliasFor(prefix)
			if err != nil {
				return resolved{}, err
			}
			s.addJoin(childType.TableName, alias, alias+"."+mirror.Column()+" = "+curAlias+".kid")

			return s.resolveCollectionTail(path, segments, i, field, childType, alias)

		case models.KindAssociation:
			linkType, ok := s.resolver.TypeByID(field.DataType.LinkingTypeID)
			if !ok {
				return resolved{}, fmt.Errorf("%w: association %q uses unknown linking type %s",
					models.ErrCriteria, field.APIName, field.DataType.LinkingTypeID)
			}
			selfRef, ok := linkType.Field(field.DataType.SelfLinkingField)
			if !ok {
				return resolved{}, fmt.Errorf("%w: association %q misses linking field %q",
					models.ErrCriteria, field.APIName, field.DataType.SelfLinkingField)
			}
			foreignRef, ok := linkType.Field(field.DataType.ForeignLinkingField)
			if !ok {
				return resolved{}, fmt.Errorf("%w: association %q misses linking field %q",
					models.ErrCriteria, field.APIName, field.DataType.ForeignLinkingField)
			}
			farType, ok := s.resolver.TypeByID(foreignRef.DataType.ReferencedTypeID)
			if !ok {
				return resolved{}, fmt.Errorf("%w: association %q links to unknown type %s",
					models.ErrCriteria, field.APIName, foreignRef.DataType.ReferencedTypeID)
			}

			alias, err := s.aliasFor(prefix)
			if err != nil {
				return resolved{}, err
			}
			linkAlias := alias + "_l"
			s.addJoin(linkType.TableName, linkAlias, linkAlias+"."+selfRef.Column()+" = "+curAlias+".kid")
			s.addJoin(farType.TableName, alias, alias+".kid = "+linkAlias+"."+foreignRef.Column())

			return s.resolveCollectionTail(path, segments, i, field, farType, alias)

		case models.KindFormula:
			if !last {
				return resolved{}, fmt.Errorf("%w: formula %q cannot be traversed in path %q",
					models.ErrCriteria, field.APIName, path)
			}
			expr, err := s.inlineFormula(curType, curAlias, field)
			if err != nil {
				return resolved{}, err
			}
			return resolved{expr: expr, field: field}, nil

		default:
			if !last {
				return resolved{}, fmt.Errorf("%w: %s field %q cannot be traversed in path %q",
					models.ErrCriteria, field.DataType.Kind, field.APIName, path)
			}
			return resolved{expr: curAlias + "." + field.Column(), field: field}, nil
		}
	}

	return resolved{}, fmt.Errorf("%w: path %q resolves to no value", models.ErrCriteria, path)
}

// resolveCollectionTail finishes a path that entered a collection: either
// the collection itself (child identifiers) or exactly one scalar field on
// the child type.
func (s *scope) resolveCollectionTail(path string, segments []string, i int, field models.Field, childType *models.Type, alias string) (resolved, error) {
	if i == len(segments)-1 {
		return resolved{
			expr:       alias + ".kid",
			field:      field,
			collection: true,
			countExpr:  alias + ".kid",
		}, nil
	}
	if i != len(segments)-2 {
		return resolved{}, fmt.Errorf("%w: path %q descends more than one level into collection %q",
			models.ErrCriteria, path, field.APIName)
	}

	child, ok := childType.Field(segments[i+1])
	if !ok {
		return resolved{}, fmt.Errorf("%w: no field %q on type %q in path %q",
			models.ErrCriteria, segments[i+1], childType.QualifiedName(), path)
	}
	if !child.DataType.Kind.HasColumn() {
		return resolved{}, fmt.Errorf("%w: %s field %q cannot be projected through collection %q",
			models.ErrCriteria, child.DataType.Kind, child.APIName, field.APIName)
	}

	return resolved{
		expr:       alias + "." + child.Column(),
		field:      child,
		collection: true,
		countExpr:  alias + ".kid",
	}, nil
}

// inlineFormula renders a formula field as a SQL expression over the columns
// of its owning type. Formulas referencing formula fields are rejected at
// field creation, so resolution here is single-level.
func (s *scope) inlineFormula(owner *models.Type, alias string, field models.Field) (string, error) {
	expr, err := formula.Parse(field.DataType.Formula)
	if err != nil {
		return "", err
	}

	rendered, err := expr.Render(func(name string) (string, error) {
		ref, ok := owner.Field(name)
		if !ok {
			return "", fmt.Errorf("%w: formula %q references missing field %q on type %q",
				models.ErrCriteria, field.APIName, name, owner.QualifiedName())
		}
		if !ref.DataType.Kind.HasColumn() {
			return "", fmt.Errorf("%w: formula %q references %s field %q",
				models.ErrCriteria, field.APIName, ref.DataType.Kind, name)
		}
		return alias + "." + ref.Column(), nil
	})
	if err != nil {
		return "", err
	}

	return "(" + rendered + ")", nil
}

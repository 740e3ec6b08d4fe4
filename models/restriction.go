package models

import (
	"fmt"
	"strings"
)

// RestrictionOp enumerates the node kinds of the query restriction tree.
type RestrictionOp int

const (
	// Binary comparisons between a property path and a literal.
	OpEq RestrictionOp = iota + 1
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
	OpLike
	OpILike

	// OpIn matches the property against either a literal value set or a
	// single-column subquery.
	OpIn

	// OpIsNull is the unary null test.
	OpIsNull

	// Connectives. And/Or require at least one child, Not exactly one.
	OpAnd
	OpOr
	OpNot
)

var restrictionOpNames = map[RestrictionOp]string{
	OpEq: "=", OpNe: "<>", OpGt: ">", OpGe: ">=", OpLt: "<", OpLe: "<=",
	OpLike: "LIKE", OpILike: "ILIKE",
	OpIn: "IN", OpIsNull: "ISNULL",
	OpAnd: "AND", OpOr: "OR", OpNot: "NOT",
}

// String implements fmt.Stringer.
func (op RestrictionOp) String() string {
	if name, ok := restrictionOpNames[op]; ok {
		return name
	}
	return fmt.Sprintf("RestrictionOp(%d)", int(op))
}

// IsComparison reports whether the op compares a property against a literal.
func (op RestrictionOp) IsComparison() bool {
	return op >= OpEq && op <= OpILike
}

// IsConnective reports whether the op combines child restrictions.
func (op RestrictionOp) IsConnective() bool {
	return op == OpAnd || op == OpOr || op == OpNot
}

// Restriction is one node of the query filter tree: either a comparison on
// a property path, an IN membership test, a null test, or a connective over
// child nodes.
type Restriction struct {
	Op RestrictionOp

	// Path is the property the node tests; empty for connectives.
	Path string

	// Value is the comparison literal of binary comparisons.
	Value any

	// Values is the literal set of an IN test.
	Values []any

	// Subquery is the correlated single-column subquery of an IN test.
	// Exactly one of Values and Subquery is populated for OpIn.
	Subquery *Criteria

	// Children are the operands of a connective.
	Children []*Restriction
}

// Eq returns a "path = value" node.
func Eq(path string, value any) *Restriction {
	return &Restriction{Op: OpEq, Path: path, Value: value}
}

// Ne returns a "path <> value" node.
func Ne(path string, value any) *Restriction {
	return &Restriction{Op: OpNe, Path: path, Value: value}
}

// Gt returns a "path > value" node.
func Gt(path string, value any) *Restriction {
	return &Restriction{Op: OpGt, Path: path, Value: value}
}

// Ge returns a "path >= value" node.
func Ge(path string, value any) *Restriction {
	return &Restriction{Op: OpGe, Path: path, Value: value}
}

// Lt returns a "path < value" node.
func Lt(path string, value any) *Restriction {
	return &Restriction{Op: OpLt, Path: path, Value: value}
}

// Le returns a "path <= value" node.
func Le(path string, value any) *Restriction {
	return &Restriction{Op: OpLe, Path: path, Value: value}
}

// Like returns a case-sensitive pattern match node.
func Like(path string, pattern string) *Restriction {
	return &Restriction{Op: OpLike, Path: path, Value: pattern}
}

// ILike returns a case-insensitive pattern match node.
func ILike(path string, pattern string) *Restriction {
	return &Restriction{Op: OpILike, Path: path, Value: pattern}
}

// In returns a membership test against a literal value set.
func In(path string, values ...any) *Restriction {
	return &Restriction{Op: OpIn, Path: path, Values: values}
}

// InSubquery returns a membership test against a correlated subquery, which
// must project exactly one non-formula field whose DataType equals the outer
// field's.
func InSubquery(path string, subquery *Criteria) *Restriction {
	return &Restriction{Op: OpIn, Path: path, Subquery: subquery}
}

// IsNull returns the unary null test.
func IsNull(path string) *Restriction {
	return &Restriction{Op: OpIsNull, Path: path}
}

// And returns a conjunction over children.
func And(children ...*Restriction) *Restriction {
	return &Restriction{Op: OpAnd, Children: children}
}

// Or returns a disjunction over children.
func Or(children ...*Restriction) *Restriction {
	return &Restriction{Op: OpOr, Children: children}
}

// Not returns the negation of exactly one child.
func Not(child *Restriction) *Restriction {
	return &Restriction{Op: OpNot, Children: []*Restriction{child}}
}

// Validate checks the structural invariants of the node and its subtree:
// NOT has exactly one child, AND/OR at least one, comparisons carry a path,
// IN carries either literals or a subquery.
func (r *Restriction) Validate() error {
	switch {
	case r.Op.IsComparison():
		if r.Path == "" {
			return fmt.Errorf("%w: %s comparison without a property path", ErrCriteria, r.Op)
		}
	case r.Op == OpIsNull:
		if r.Path == "" {
			return fmt.Errorf("%w: ISNULL without a property path", ErrCriteria)
		}
	case r.Op == OpIn:
		if r.Path == "" {
			return fmt.Errorf("%w: IN without a property path", ErrCriteria)
		}
		hasValues := len(r.Values) > 0
		hasSubquery := r.Subquery != nil
		if hasValues == hasSubquery {
			return fmt.Errorf("%w: IN needs either a literal set or a subquery", ErrCriteria)
		}
	case r.Op == OpNot:
		if len(r.Children) != 1 {
			return fmt.Errorf("%w: NOT needs exactly one child, got %d", ErrCriteria, len(r.Children))
		}
	case r.Op == OpAnd || r.Op == OpOr:
		if len(r.Children) == 0 {
			return fmt.Errorf("%w: %s needs at least one child", ErrCriteria, r.Op)
		}
	default:
		return fmt.Errorf("%w: unknown restriction op %d", ErrCriteria, int(r.Op))
	}

	for _, child := range r.Children {
		if child == nil {
			return fmt.Errorf("%w: nil child under %s", ErrCriteria, r.Op)
		}
		if err := child.Validate(); err != nil {
			return err
		}
	}

	return nil
}

func (r *Restriction) writeFingerprint(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(r.Op.String())
	if r.Path != "" {
		b.WriteByte(' ')
		b.WriteString(r.Path)
	}
	if r.Value != nil {
		fmt.Fprintf(b, " %v", r.Value)
	}
	for _, v := range r.Values {
		fmt.Fprintf(b, " %v", v)
	}
	if r.Subquery != nil {
		b.WriteString(" sub:")
		b.WriteString(r.Subquery.Fingerprint())
	}
	for _, child := range r.Children {
		child.writeFingerprint(b)
	}
	b.WriteByte(')')
}

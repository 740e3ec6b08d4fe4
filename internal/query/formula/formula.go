// Package formula parses the expression language of formula fields and
// renders parsed expressions as SQL fragments for inlining into compiled
// queries. A formula value is never stored; every query that projects or
// filters on a formula field embeds the rendered expression instead.
package formula

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/metacore-io/metacore/models"
)

// Grammar: arithmetic over field references, numeric and string literals,
// with parentheses and a fixed set of scalar functions.
//
//	expr   = term (("+" | "-") term)*
//	term   = factor (("*" | "/") factor)*
//	factor = NUMBER | STRING | call | IDENT | "(" expr ")"
//	call   = IDENT "(" (expr ("," expr)*)? ")"

type Expr struct {
	Left *term     `parser:"@@"`
	Rest []*opTerm `parser:"@@*"`
}

type opTerm struct {
	Op   string `parser:"@('+' | '-')"`
	Term *term  `parser:"@@"`
}

type term struct {
	Left *factor     `parser:"@@"`
	Rest []*opFactor `parser:"@@*"`
}

type opFactor struct {
	Op     string  `parser:"@('*' | '/')"`
	Factor *factor `parser:"@@"`
}

type factor struct {
	Number *string `parser:"@(Float | Int)"`
	String *string `parser:"| @String"`
	Call   *call   `parser:"| @@"`
	Ident  *string `parser:"| @Ident"`
	Sub    *Expr   `parser:"| '(' @@ ')'"`
}

type call struct {
	Func string  `parser:"@Ident '('"`
	Args []*Expr `parser:"(@@ (',' @@)*)? ')'"`
}

// sqlFunctions maps the permitted formula functions to their SQL spellings.
var sqlFunctions = map[string]string{
	"upper":    "upper",
	"lower":    "lower",
	"round":    "round",
	"coalesce": "coalesce",
	"concat":   "concat",
	"length":   "length",
}

var parser = participle.MustBuild[Expr](
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Parse compiles a formula source expression. Unknown functions are rejected
// here so that a stored formula can always be rendered later.
func Parse(src string) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: formula expression is empty", models.ErrDataTypeDefinition)
	}

	expr, err := parser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("%w: formula %q: %w", models.ErrDataTypeDefinition, src, err)
	}
	if err := expr.validate(); err != nil {
		return nil, err
	}

	return expr, nil
}

// FieldNames returns the distinct field api names the expression references,
// sorted. Catalog validation uses this to reject formulas referencing
// missing or formula-kind fields.
func (e *Expr) FieldNames() []string {
	seen := map[string]struct{}{}
	e.collectFields(seen)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render writes the expression as a SQL fragment. resolve maps a referenced
// field api name to its alias-qualified column.
func (e *Expr) Render(resolve func(field string) (string, error)) (string, error) {
	var b strings.Builder
	if err := e.render(&b, resolve); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (e *Expr) validate() error {
	for _, f := range e.factors() {
		if f.Call == nil {
			continue
		}
		if _, ok := sqlFunctions[strings.ToLower(f.Call.Func)]; !ok {
			return fmt.Errorf("%w: unknown formula function %q", models.ErrDataTypeDefinition, f.Call.Func)
		}
		for _, arg := range f.Call.Args {
			if err := arg.validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Expr) factors() []*factor {
	var out []*factor
	collect := func(t *term) {
		out = append(out, t.Left)
		for _, r := range t.Rest {
			out = append(out, r.Factor)
		}
	}
	collect(e.Left)
	for _, r := range e.Rest {
		collect(r.Term)
	}
	for i := 0; i < len(out); i++ {
		if out[i].Sub != nil {
			sub := out[i].Sub
			collect(sub.Left)
			for _, r := range sub.Rest {
				collect(r.Term)
			}
		}
	}
	return out
}

func (e *Expr) collectFields(seen map[string]struct{}) {
	for _, f := range e.factors() {
		if f.Ident != nil {
			seen[*f.Ident] = struct{}{}
		}
		if f.Call != nil {
			for _, arg := range f.Call.Args {
				arg.collectFields(seen)
			}
		}
	}
}

func (e *Expr) render(b *strings.Builder, resolve func(string) (string, error)) error {
	if err := e.Left.render(b, resolve); err != nil {
		return err
	}
	for _, r := range e.Rest {
		b.WriteString(" " + r.Op + " ")
		if err := r.Term.render(b, resolve); err != nil {
			return err
		}
	}
	return nil
}

func (t *term) render(b *strings.Builder, resolve func(string) (string, error)) error {
	if err := t.Left.render(b, resolve); err != nil {
		return err
	}
	for _, r := range t.Rest {
		b.WriteString(" " + r.Op + " ")
		if err := r.Factor.render(b, resolve); err != nil {
			return err
		}
	}
	return nil
}

func (f *factor) render(b *strings.Builder, resolve func(string) (string, error)) error {
	switch {
	case f.Number != nil:
		b.WriteString(*f.Number)
	case f.String != nil:
		b.WriteString("'" + strings.ReplaceAll(*f.String, "'", "''") + "'")
	case f.Call != nil:
		b.WriteString(sqlFunctions[strings.ToLower(f.Call.Func)] + "(")
		for i, arg := range f.Call.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := arg.render(b, resolve); err != nil {
				return err
			}
		}
		b.WriteString(")")
	case f.Ident != nil:
		column, err := resolve(*f.Ident)
		if err != nil {
			return err
		}
		b.WriteString(column)
	case f.Sub != nil:
		b.WriteString("(")
		if err := f.Sub.render(b, resolve); err != nil {
			return err
		}
		b.WriteString(")")
	}
	return nil
}

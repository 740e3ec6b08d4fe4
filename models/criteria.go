package models

import (
	"fmt"
	"sort"
	"strings"
)

// Order is one ordering term of a Criteria.
type Order struct {
	Path       string
	Descending bool
}

// Criteria is a compiled query description: the target Type, the projected
// property paths, a join alias per non-root path segment, a restriction
// tree, ordering and limit.
//
// Paths may reach arbitrarily deep through TypeReference, InverseCollection
// and Association fields ("invoice.customer.address.city"). Every non-root
// segment must be given an alias via [Criteria.AddAlias] before the criteria
// can compile.
type Criteria struct {
	// TypeName is the qualified name of the target Type.
	TypeName string

	// Properties are the projected property paths in projection order.
	Properties []string

	// Aliases maps a path prefix ("customer", "customer.address") to the
	// SQL join alias used for it.
	Aliases map[string]string

	// Where is the optional restriction tree.
	Where *Restriction

	// OrderBy holds the ordering terms.
	OrderBy []Order

	// Limit caps the row count when positive.
	Limit int
}

// NewCriteria returns an empty criteria targeting the Type registered under
// typeName.
func NewCriteria(typeName string) *Criteria {
	return &Criteria{
		TypeName: typeName,
		Aliases:  make(map[string]string),
	}
}

// AddProperty appends projected property paths.
func (c *Criteria) AddProperty(paths ...string) *Criteria {
	c.Properties = append(c.Properties, paths...)
	return c
}

// AddAlias registers the SQL join alias for a non-root path prefix.
func (c *Criteria) AddAlias(pathPrefix, alias string) *Criteria {
	c.Aliases[pathPrefix] = alias
	return c
}

// SetRestriction installs the restriction tree.
func (c *Criteria) SetRestriction(r *Restriction) *Criteria {
	c.Where = r
	return c
}

// AddOrder appends an ordering term.
func (c *Criteria) AddOrder(path string, descending bool) *Criteria {
	c.OrderBy = append(c.OrderBy, Order{Path: path, Descending: descending})
	return c
}

// SetLimit caps the number of returned rows.
func (c *Criteria) SetLimit(limit int) *Criteria {
	c.Limit = limit
	return c
}

// Fingerprint returns a canonical textual form of the criteria, used as the
// compiled-statement cache key. Two criteria with equal fingerprints compile
// to the same SQL against the same catalog snapshot.
func (c *Criteria) Fingerprint() string {
	var b strings.Builder
	b.WriteString(c.TypeName)
	b.WriteString("|p:")
	b.WriteString(strings.Join(c.Properties, ","))

	b.WriteString("|a:")
	prefixes := make([]string, 0, len(c.Aliases))
	for prefix := range c.Aliases {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	for _, prefix := range prefixes {
		b.WriteString(prefix)
		b.WriteByte('=')
		b.WriteString(c.Aliases[prefix])
		b.WriteByte(',')
	}

	b.WriteString("|w:")
	if c.Where != nil {
		c.Where.writeFingerprint(&b)
	}

	b.WriteString("|o:")
	for _, o := range c.OrderBy {
		b.WriteString(o.Path)
		if o.Descending {
			b.WriteString(" desc")
		}
		b.WriteByte(',')
	}

	fmt.Fprintf(&b, "|l:%d", c.Limit)
	return b.String()
}

// Package query builds parameterized PostgreSQL SELECT statements from a
// projection of logical field names onto table columns.
package query

import (
	"fmt"
	"strings"
)

// Projection maps logical field names to alias-qualified columns of a table.
type Projection struct {
	table   string
	alias   string
	columns map[string]string
	order   []string
}

// NewProjection creates a Projection over table, referenced as alias.
func NewProjection(table, alias string) *Projection {
	return &Projection{
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Field maps column to the logical name. Fields are selected in the order
// they are added.
func (p *Projection) Field(column, name string) *Projection {
	qualified := fmt.Sprintf("%s.%s", p.alias, column)
	p.columns[name] = qualified
	p.order = append(p.order, qualified)
	return p
}

// Column returns the qualified column for a logical name. Unknown names
// panic: they are programming errors, never user input.
func (p *Projection) Column(name string) string {
	col, ok := p.columns[name]
	if !ok {
		panic(fmt.Sprintf("query: unknown field %q on %s", name, p.table))
	}
	return col
}

// Select returns the selected columns as a comma-separated list.
func (p *Projection) Select() string {
	return strings.Join(p.order, ", ")
}

// From returns the table reference with its alias.
func (p *Projection) From() string {
	return p.table + " " + p.alias
}

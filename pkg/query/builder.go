package query

import (
	"fmt"
	"strings"
)

// Order is one ORDER BY term over a logical field.
type Order struct {
	Field      string
	Descending bool
}

type condition struct {
	column string
	op     string
	arg    any
}

// Builder accumulates conditions and renders numbered-parameter queries.
type Builder struct {
	projection *Projection
	conditions []condition
	order      []Order
}

// NewBuilder creates a Builder for projection ordered by order.
func NewBuilder(projection *Projection, order ...Order) *Builder {
	return &Builder{projection: projection, order: order}
}

// Equals adds field = value.
func (b *Builder) Equals(field string, value any) *Builder {
	b.conditions = append(b.conditions, condition{
		column: b.projection.Column(field),
		op:     "=",
		arg:    value,
	})
	return b
}

// Contains adds a case-insensitive substring match. Empty values are ignored.
func (b *Builder) Contains(field, value string) *Builder {
	if value == "" {
		return b
	}
	b.conditions = append(b.conditions, condition{
		column: b.projection.Column(field),
		op:     "ILIKE",
		arg:    "%" + escapeLike(value) + "%",
	})
	return b
}

// EqualsIf adds field = value when ok is true.
func (b *Builder) EqualsIf(ok bool, field string, value any) *Builder {
	if !ok {
		return b
	}
	return b.Equals(field, value)
}

// Count renders SELECT COUNT(*) with the current conditions.
func (b *Builder) Count() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.From(), where), args
}

// Page renders an ordered SELECT with LIMIT and OFFSET.
func (b *Builder) Page(limit, offset int) (string, []any) {
	where, args := b.where()
	return fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Select(),
		b.projection.From(),
		where,
		b.orderBy(),
		limit,
		offset,
	), args
}

// One renders a SELECT limited to a single row.
func (b *Builder) One() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf(
		"SELECT %s FROM %s%s LIMIT 1",
		b.projection.Select(),
		b.projection.From(),
		where,
	), args
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	clauses := make([]string, len(b.conditions))
	args := make([]any, len(b.conditions))
	for i, c := range b.conditions {
		clauses[i] = fmt.Sprintf("%s %s $%d", c.column, c.op, i+1)
		args[i] = c.arg
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (b *Builder) orderBy() string {
	if len(b.order) == 0 {
		return ""
	}

	parts := make([]string, len(b.order))
	for i, o := range b.order {
		dir := "ASC"
		if o.Descending {
			dir = "DESC"
		}
		parts[i] = b.projection.Column(o.Field) + " " + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

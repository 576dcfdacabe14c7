package database

import (
	"fmt"

	"gorm.io/gorm"
)

// FilterOperator is a SQL comparison operator.
type FilterOperator int

// FilterOperator values.
const (
	OpEqual FilterOperator = iota
	OpIn
)

// String returns the SQL representation of the operator.
func (o FilterOperator) String() string {
	if o == OpIn {
		return "IN"
	}
	return "="
}

// Filter is a single WHERE condition.
type Filter struct {
	field    string
	operator FilterOperator
	value    any
}

// Field returns the column name.
func (f Filter) Field() string { return f.field }

// Operator returns the comparison operator.
func (f Filter) Operator() FilterOperator { return f.operator }

// Value returns the compared value.
func (f Filter) Value() any { return f.value }

// Clause renders the filter as a GORM where clause.
func (f Filter) Clause() string {
	if f.operator == OpIn {
		return fmt.Sprintf("%s IN ?", f.field)
	}
	return fmt.Sprintf("%s = ?", f.field)
}

// OrderBy sorts results by a column.
type OrderBy struct {
	field      string
	descending bool
}

// String renders the ORDER BY term.
func (o OrderBy) String() string {
	if o.descending {
		return o.field + " DESC"
	}
	return o.field + " ASC"
}

// Query is an immutable description of WHERE, ORDER BY and LIMIT terms.
type Query struct {
	filters []Filter
	orders  []OrderBy
	limit   int
}

// NewQuery returns an empty query that matches every row.
func NewQuery() Query {
	return Query{}
}

// Equal adds a field = value condition.
func (q Query) Equal(field string, value any) Query {
	return q.where(Filter{field: field, operator: OpEqual, value: value})
}

// In adds a field IN (values) condition.
func (q Query) In(field string, values any) Query {
	return q.where(Filter{field: field, operator: OpIn, value: values})
}

// OrderAsc sorts ascending by field.
func (q Query) OrderAsc(field string) Query {
	q.orders = append(append([]OrderBy{}, q.orders...), OrderBy{field: field})
	return q
}

// OrderDesc sorts descending by field.
func (q Query) OrderDesc(field string) Query {
	q.orders = append(append([]OrderBy{}, q.orders...), OrderBy{field: field, descending: true})
	return q
}

// Limit caps the number of rows returned.
func (q Query) Limit(n int) Query {
	q.limit = n
	return q
}

func (q Query) where(f Filter) Query {
	q.filters = append(append([]Filter{}, q.filters...), f)
	return q
}

// Filters returns a copy of the conditions.
func (q Query) Filters() []Filter {
	return append([]Filter{}, q.filters...)
}

// Orders returns a copy of the sort terms.
func (q Query) Orders() []OrderBy {
	return append([]OrderBy{}, q.orders...)
}

// LimitValue returns the row cap, zero for none.
func (q Query) LimitValue() int {
	return q.limit
}

// Apply adds the query's terms to a GORM session.
func (q Query) Apply(db *gorm.DB) *gorm.DB {
	db = q.ApplyConditions(db)
	for _, o := range q.orders {
		db = db.Order(o.String())
	}
	if q.limit > 0 {
		db = db.Limit(q.limit)
	}
	return db
}

// ApplyConditions adds only the WHERE terms, for COUNT and DELETE.
func (q Query) ApplyConditions(db *gorm.DB) *gorm.DB {
	for _, f := range q.filters {
		db = db.Where(f.Clause(), f.value)
	}
	return db
}

// Package filter turns storefront listing parameters into typed criteria that a store specific
// translator can execute.
package filter

import (
	"github.com/shopspring/decimal"
)

type Field string

const (
	FieldCategory    Field = "category"
	FieldPrice       Field = "price"
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldInStock     Field = "inStock"
	FieldFeatured    Field = "featured"
	FieldTag         Field = "tags.tag"
	FieldCreatedAt   Field = "createdAt"
)

// Condition is one of Equals, Range, Contains, AnyOf or Or.
type Condition interface {
	condition()
}

// Equals matches Field against Value, which is either a string or a bool.
type Equals struct {
	Field Field
	Value any
}

// Range is inclusive on both ends. A nil bound is open.
type Range struct {
	Field Field
	Min   *decimal.Decimal
	Max   *decimal.Decimal
}

// Contains is a case insensitive substring match.
type Contains struct {
	Field Field
	Value string
}

type AnyOf struct {
	Field  Field
	Values []string
}

type Or struct {
	Conditions []Condition
}

func (Equals) condition()   {}
func (Range) condition()    {}
func (Contains) condition() {}
func (AnyOf) condition()    {}
func (Or) condition()       {}

// Criteria is the conjunction of its conditions. An empty Criteria matches everything.
type Criteria struct {
	Conditions []Condition
}

func (c Criteria) IsEmpty() bool {
	return len(c.Conditions) == 0
}

type Sort struct {
	Field      Field
	Descending bool
}

// String renders the sort the way listing URLs and logs show it, e.g. "-createdAt".
func (s Sort) String() string {
	if s.Descending {
		return "-" + string(s.Field)
	}
	return string(s.Field)
}

type Query struct {
	Where Criteria
	Sort  Sort
	Page  int
	Limit int
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// TotalPages returns how many pages of Limit items total results span.
func (q Query) TotalPages(total int) int {
	if q.Limit <= 0 || total <= 0 {
		return 0
	}
	return (total + q.Limit - 1) / q.Limit
}

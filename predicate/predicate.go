// Package predicate provides an immutable boolean expression DSL for building
// SQL filter predicates. Expressions render to SQL text with ? placeholders
// plus a flat list of bind variables, suitable for Where-style query builder
// APIs on any dialect that rebinds placeholders.
//
// Every combinator allocates a new node rather than mutating an operand, so a
// sub-expression can safely appear in several larger expressions.
package predicate

import "strings"

// Expr is a boolean expression node. SQL returns the rendered text with ?
// placeholders; Vars returns the bind variables in placeholder order.
type Expr interface {
	SQL() string
	Vars() []any
}

// Cmp is a binary comparison between a column and a bound value.
type Cmp struct {
	Column string
	Op     string
	Value  any
}

func (c Cmp) SQL() string { return c.Column + " " + c.Op + " ?" }

func (c Cmp) Vars() []any { return []any{c.Value} }

// Eq creates an equality comparison.
func Eq(column string, value any) Cmp { return Cmp{Column: column, Op: "=", Value: value} }

// Ne creates a not-equal comparison.
func Ne(column string, value any) Cmp { return Cmp{Column: column, Op: "<>", Value: value} }

// IsNull represents an IS NULL check.
type IsNull struct {
	Column string
}

func (i IsNull) SQL() string { return i.Column + " IS NULL" }

func (i IsNull) Vars() []any { return nil }

// IsNotNull represents an IS NOT NULL check.
type IsNotNull struct {
	Column string
}

func (i IsNotNull) SQL() string { return i.Column + " IS NOT NULL" }

func (i IsNotNull) Vars() []any { return nil }

// In is a membership test. An empty value list matches no rows.
type In struct {
	Column string
	Values []any
}

func (i In) SQL() string {
	if len(i.Values) == 0 {
		return "1 = 0"
	}
	return i.Column + " IN (" + placeholders(len(i.Values)) + ")"
}

func (i In) Vars() []any { return i.Values }

// NotIn is a negated membership test. An empty value list matches all rows.
type NotIn struct {
	Column string
	Values []any
}

func (n NotIn) SQL() string {
	if len(n.Values) == 0 {
		return "1 = 1"
	}
	return n.Column + " NOT IN (" + placeholders(len(n.Values)) + ")"
}

func (n NotIn) Vars() []any { return n.Values }

// AndExpr is a conjunction of expressions.
type AndExpr struct {
	Exprs []Expr
}

func (a AndExpr) SQL() string { return joinSQL(a.Exprs, " AND ") }

func (a AndExpr) Vars() []any { return joinVars(a.Exprs) }

// And combines expressions with AND. Nil operands are dropped; And returns
// nil when no operands remain and the sole operand unchanged when one does.
func And(exprs ...Expr) Expr { return combine(exprs, newAnd) }

// OrExpr is a disjunction of expressions.
type OrExpr struct {
	Exprs []Expr
}

func (o OrExpr) SQL() string { return joinSQL(o.Exprs, " OR ") }

func (o OrExpr) Vars() []any { return joinVars(o.Exprs) }

// Or combines expressions with OR. Nil operands are dropped; Or returns nil
// when no operands remain and the sole operand unchanged when one does.
func Or(exprs ...Expr) Expr { return combine(exprs, newOr) }

// NotExpr negates an expression.
type NotExpr struct {
	Expr Expr
}

func (n NotExpr) SQL() string { return "NOT (" + n.Expr.SQL() + ")" }

func (n NotExpr) Vars() []any { return n.Expr.Vars() }

// Not negates an expression. Not(nil) is nil.
func Not(expr Expr) Expr {
	if expr == nil {
		return nil
	}
	return NotExpr{Expr: expr}
}

func newAnd(exprs []Expr) Expr { return AndExpr{Exprs: exprs} }

func newOr(exprs []Expr) Expr { return OrExpr{Exprs: exprs} }

func combine(exprs []Expr, wrap func([]Expr) Expr) Expr {
	filtered := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			filtered = append(filtered, e)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return wrap(filtered)
	}
}

func joinSQL(exprs []Expr, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = "(" + e.SQL() + ")"
	}
	return strings.Join(parts, sep)
}

func joinVars(exprs []Expr) []any {
	var vars []any
	for _, e := range exprs {
		vars = append(vars, e.Vars()...)
	}
	return vars
}

func placeholders(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("?")
	}
	return sb.String()
}

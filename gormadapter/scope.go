package gormadapter

import (
	"gorm.io/gorm"

	"github.com/jeremyyap/accessible"
)

// Scoper builds authorization-scoped queries. It is the query accumulator:
// a base query on the model, extended first with the outer joins every rule
// needs, then with the single compiled predicate as the filter.
//
// Scopers are stateless and safe for concurrent use; create one per
// application and share it.
type Scoper struct {
	distinct bool
}

// Option configures a Scoper.
type Option func(*Scoper)

// WithoutDistinct disables the DISTINCT instruction on scoped queries. Only
// safe when no rule traverses a one-to-many relation, since outer joins
// across those can multiply base rows.
func WithoutDistinct() Option {
	return func(s *Scoper) {
		s.distinct = false
	}
}

// NewScoper creates a Scoper. By default scoped queries select DISTINCT on
// the model's columns so base entities joined through one-to-many relations
// appear once in the materialized result.
func NewScoper(opts ...Option) *Scoper {
	s := &Scoper{distinct: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scope returns db restricted to the records the rule list permits: every
// relation path any rule references is LEFT JOINed in, the compiled predicate
// becomes the WHERE clause, and the result set is deduplicated. The returned
// query is owned by the caller, which materializes it with Find, Count, etc.
//
// Join attachment tolerates redundant paths across rules: identical join
// clauses are attached once. A nil compiled predicate attaches no filter.
//
// Compile failures (schema mismatch, invalid enum value, malformed condition
// tree) abort the build and are returned unwrapped for errors.Is checks.
func (s *Scoper) Scope(db *gorm.DB, model any, rules []accessible.Rule) (*gorm.DB, error) {
	root, err := Parse(model)
	if err != nil {
		return nil, err
	}

	pred, err := accessible.Compile(root, rules)
	if err != nil {
		return nil, err
	}

	tx := db.Model(model)

	seen := make(map[string]struct{})
	for _, rule := range rules {
		for _, path := range accessible.PlanJoins(rule.Conditions) {
			clauses, err := accessible.JoinClauses(root, path)
			if err != nil {
				return nil, err
			}
			for _, clause := range clauses {
				if _, dup := seen[clause]; dup {
					continue
				}
				seen[clause] = struct{}{}
				tx = tx.Joins(clause)
			}
		}
	}

	if pred != nil {
		tx = tx.Where(pred.SQL(), pred.Vars()...)
	}
	if s.distinct {
		tx = tx.Distinct(root.Table() + ".*")
	}
	return tx, nil
}

// ScopeFor fetches the rule list from a rule source and scopes db with it.
func (s *Scoper) ScopeFor(db *gorm.DB, model any, src accessible.RuleSource, action string) (*gorm.DB, error) {
	rules, err := src.RulesFor(action, model)
	if err != nil {
		return nil, err
	}
	return s.Scope(db, model, rules)
}

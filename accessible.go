// Package accessible compiles ordered allow/deny authorization rules into a
// single relational query predicate, so "fetch every record this actor may
// perform an action on" is answered in one SQL round trip instead of N
// in-memory permission checks.
//
// # Module Structure
//
// The module is split so that the compiler core stays free of ORM dependencies:
//
//   - github.com/jeremyyap/accessible (core): Rule types, join planner,
//     predicate compiler, schema-reflection interface. Stdlib only.
//   - github.com/jeremyyap/accessible/predicate: Immutable boolean expression
//     DSL rendered as SQL text plus bind variables.
//   - github.com/jeremyyap/accessible/gormadapter: GORM-backed schema
//     reflection and the Scoper that attaches joins, predicate, and DISTINCT
//     to a *gorm.DB.
//   - github.com/jeremyyap/accessible/schemafile: YAML-described schema
//     catalog, used by the CLI and by callers without Go model structs.
//
// # Core Concepts
//
// A Rule is an allow or deny assertion with a condition tree. Condition trees
// map attribute names to comparison values, or relation names to nested trees
// describing conditions on related entities:
//
//	rules := []accessible.Rule{
//	    {Grants: true, Conditions: accessible.Conditions{"owner_id": 5}},
//	    {Grants: false, Conditions: accessible.Conditions{"locked": true}},
//	}
//
// Compilation has two independent halves. PlanJoins walks a condition tree and
// derives the relation paths that must be outer-joined so every referenced
// attribute is reachable. Compile walks the ordered rule list and folds each
// rule's conditions into one boolean expression: grants are OR-ed into the
// accumulator, denials are AND-ed with not-equal leaf comparisons.
//
// # Basic Usage
//
//	scoper := gormadapter.NewScoper()
//	tx, err := scoper.Scope(db, &Article{}, rules)
//	var articles []Article
//	err = tx.Find(&articles).Error
//
// # Rule Sources
//
// Rules are produced by an external rule engine; this package consumes them
// as-is and never reorders them. The RuleSource interface is the contract for
// that collaborator.
//
// # Enumerations
//
// A model may declare that an attribute is enumeration-valued (stored as an
// integer, conditioned on symbolically). Implement EnumMapped and condition
// values such as "published" are decoded to their stored representation before
// comparison; slice values become membership tests.
package accessible

// Conditions is a condition tree: a mapping from attribute or relation name to
// either a value to compare the attribute against, or a nested Conditions
// describing constraints on the entity reachable via that relation.
//
// Trees are read-only inputs. The compiler never mutates them.
type Conditions map[string]any

// Rule is a single allow or deny assertion scoped to an entity type and
// action. Rule order is significant: rules are folded left to right in the
// sequence supplied by the rule engine, and position determines how each
// rule's expression combines with the accumulated predicate.
type Rule struct {
	// Grants is true for an allow rule, false for a deny rule.
	Grants bool

	// Conditions constrains which records the rule applies to. An empty or
	// nil tree makes the rule unconditional.
	Conditions Conditions
}

// Unconditional reports whether the rule has no conditions. An unconditional
// rule supersedes every other rule in the set: the compiled predicate
// collapses to "no restriction" (see Compile).
func (r Rule) Unconditional() bool {
	return len(r.Conditions) == 0
}

// RuleSource supplies the ordered rule list for an action on a model. It is
// the contract with the external rule engine; implementations decide which
// rules apply to the current actor.
type RuleSource interface {
	RulesFor(action string, model any) ([]Rule, error)
}

// asConditions reports whether a condition value is a nested condition tree.
// Both the named Conditions type and a plain map[string]any (as produced by
// YAML/JSON decoding) are accepted.
func asConditions(value any) (Conditions, bool) {
	switch v := value.(type) {
	case Conditions:
		return v, true
	case map[string]any:
		return Conditions(v), true
	default:
		return nil, false
	}
}

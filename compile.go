package accessible

import (
	"fmt"
	"reflect"

	"github.com/jeremyyap/accessible/predicate"
)

// comparator is the leaf comparison a rule's polarity selects. Grant rules
// compare with equality, deny rules with inequality; nested relation
// recursion propagates the comparator unchanged.
type comparator int

const (
	comparatorEq comparator = iota
	comparatorNe
)

// scope identifies the query context a comparison is built against: the
// entity type being constrained and the table alias its columns live under.
// Scopes are immutable values; descending into a relation allocates a fresh
// child scope, so sibling branches of a condition tree can never corrupt one
// another and the caller's root context is never touched.
type scope struct {
	entity Entity
	alias  string
	path   JoinPath
}

func (s scope) child(rel *Relation, name string) scope {
	path := make(JoinPath, 0, len(s.path)+1)
	path = append(path, s.path...)
	path = append(path, name)
	return scope{entity: rel.Target, alias: path.Alias(), path: path}
}

func (s scope) columnRef(column string) string {
	return s.alias + "." + column
}

// Compile folds an ordered rule list into a single boolean predicate for the
// root entity. A nil result means the predicate is unconditional: no WHERE
// restriction applies.
//
// Each rule compiles to a conjunction of per-attribute comparisons, equality
// for grants and inequality for denials. Successive rules fold left to right
// into the accumulator: grants OR in, denials AND in. A rule with empty
// conditions has a nil expression and supersedes the whole set - the fold
// short-circuits and the predicate collapses to unconditional regardless of
// the rule's polarity, mirroring an unconditional rule making every prior
// refinement moot.
//
// Zero rules also compile to nil. The caller decides what an unconditional
// predicate means for its query; Compile only reports that no restriction
// exists.
func Compile(root Entity, rules []Rule) (predicate.Expr, error) {
	var acc predicate.Expr
	for _, rule := range rules {
		right, err := compileRule(root, rule)
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, nil
		}
		switch {
		case acc == nil:
			acc = right
		case rule.Grants:
			acc = predicate.Or(acc, right)
		default:
			acc = predicate.And(acc, right)
		}
	}
	return acc, nil
}

// compileRule builds one rule's expression against the root entity, or nil
// for an unconditional rule.
func compileRule(root Entity, rule Rule) (predicate.Expr, error) {
	if rule.Unconditional() {
		return nil, nil
	}
	cmp := comparatorEq
	if !rule.Grants {
		cmp = comparatorNe
	}
	sc := scope{entity: root, alias: root.Table()}
	return buildNode(sc, cmp, rule.Conditions)
}

// buildNode reduces a condition tree's pairs with AND. Nested trees resolve
// their key as a relation and recurse into a child scope with the same
// comparator; scalar pairs become single comparisons.
func buildNode(sc scope, cmp comparator, conditions Conditions) (predicate.Expr, error) {
	exprs := make([]predicate.Expr, 0, len(conditions))
	for _, key := range sortedKeys(conditions) {
		value := conditions[key]

		if nested, ok := asConditions(value); ok {
			rel, found := sc.entity.Relation(key)
			if !found {
				return nil, fmt.Errorf("%w: %s has no relation %q",
					ErrSchemaMismatch, sc.entity.Name(), key)
			}
			sub, err := buildNode(sc.child(rel, key), cmp, nested)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, sub)
			continue
		}

		expr, err := buildComparison(sc, cmp, key, value)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return predicate.And(exprs...), nil
}

// buildComparison builds the leaf comparison for one attribute-value pair.
func buildComparison(sc scope, cmp comparator, key string, value any) (predicate.Expr, error) {
	column, ok := sc.entity.Column(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no attribute or relation %q",
			ErrSchemaMismatch, sc.entity.Name(), key)
	}
	ref := sc.columnRef(column)

	if err := checkWellFormed(value); err != nil {
		return nil, fmt.Errorf("%w (%s.%s)", err, sc.entity.Name(), key)
	}

	if set, isEnum := sc.entity.Enum(key); isEnum {
		return buildEnumComparison(sc, cmp, key, ref, set, value)
	}

	if values, isMany := enumerate(value); isMany {
		return membership(cmp, ref, values), nil
	}

	if value == nil {
		if cmp == comparatorEq {
			return predicate.IsNull{Column: ref}, nil
		}
		return predicate.IsNotNull{Column: ref}, nil
	}

	if cmp == comparatorEq {
		return predicate.Eq(ref, value), nil
	}
	return predicate.Ne(ref, value), nil
}

// buildEnumComparison translates symbolic enum values to their stored integer
// representation before comparing. Enumerable values become membership tests.
func buildEnumComparison(sc scope, cmp comparator, key, ref string, set EnumSet, value any) (predicate.Expr, error) {
	if values, isMany := enumerate(value); isMany {
		decoded := make([]any, 0, len(values))
		for _, v := range values {
			n, err := decodeEnum(sc, key, set, v)
			if err != nil {
				return nil, err
			}
			decoded = append(decoded, n)
		}
		return membership(cmp, ref, decoded), nil
	}

	n, err := decodeEnum(sc, key, set, value)
	if err != nil {
		return nil, err
	}
	if cmp == comparatorEq {
		return predicate.Eq(ref, n), nil
	}
	return predicate.Ne(ref, n), nil
}

// decodeEnum resolves one enum comparison value. Symbolic strings decode
// through the enum set; integer values are treated as already stored form.
func decodeEnum(sc scope, key string, set EnumSet, value any) (int64, error) {
	switch v := value.(type) {
	case string:
		n, ok := set[v]
		if !ok {
			return 0, fmt.Errorf("%w: %q is not a value of %s.%s",
				ErrInvalidEnumValue, v, sc.entity.Name(), key)
		}
		return n, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		// JSON/YAML decoding yields float64 for numeric literals.
		return int64(v), nil
	default:
		return 0, fmt.Errorf("%w: cannot decode %T value for %s.%s",
			ErrInvalidEnumValue, value, sc.entity.Name(), key)
	}
}

func membership(cmp comparator, ref string, values []any) predicate.Expr {
	if cmp == comparatorEq {
		return predicate.In{Column: ref, Values: values}
	}
	return predicate.NotIn{Column: ref, Values: values}
}

// enumerate unpacks slice and array values into a membership value list.
// Strings and byte slices stay scalar.
func enumerate(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	if _, ok := value.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, true
}

// checkWellFormed rejects condition values that are neither scalars,
// enumerables, nor nested trees. asConditions has already claimed well-formed
// nested maps by the time this runs.
func checkWellFormed(value any) error {
	if value == nil {
		return nil
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Func, reflect.Chan:
		// Maps reaching this point are not condition trees; structs such as
		// time.Time stay scalar and are left to the driver.
		return ErrMalformedCondition
	default:
		return nil
	}
}

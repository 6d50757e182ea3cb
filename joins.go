package accessible

import (
	"fmt"
	"sort"
	"strings"
)

// JoinPath is an ordered sequence of relation names from the root entity to a
// nested condition tree. Every path that appears in a compiled predicate must
// have a corresponding join attached to the query; PlanJoins and Compile walk
// condition trees in the same sorted key order so both sides visit
// structurally identical paths.
type JoinPath []string

// Alias returns the table alias used for the entity at the end of the path.
// A double underscore separator keeps aliases from colliding with real table
// or column names.
func (p JoinPath) Alias() string {
	return strings.Join(p, "__")
}

// String returns the dotted form of the path, e.g. "author.team".
func (p JoinPath) String() string {
	return strings.Join(p, ".")
}

// PlanJoins derives the relation-traversal paths that must be outer-joined so
// every attribute referenced by the condition tree is reachable. For each key
// whose value is a nested tree it emits the single-element path [key] followed
// by key-prefixed sub-paths; scalar-valued keys emit nothing. Malformed or
// empty trees simply yield no paths.
//
// PlanJoins is pure and does not deduplicate across rules: the caller attaches
// each rule's paths in turn, and the join-attaching capability must tolerate
// redundant paths. Joins must be outer joins, so that a rule referencing an
// optional relation does not eliminate base rows lacking a related row.
func PlanJoins(conditions Conditions) []JoinPath {
	var paths []JoinPath
	for _, key := range sortedKeys(conditions) {
		nested, ok := asConditions(conditions[key])
		if !ok {
			continue
		}
		paths = append(paths, JoinPath{key})
		for _, sub := range PlanJoins(nested) {
			path := make(JoinPath, 0, len(sub)+1)
			path = append(path, key)
			path = append(path, sub...)
			paths = append(paths, path)
		}
	}
	return paths
}

// JoinClauses renders the LEFT JOIN clauses that attach one planned path to
// the root entity's query. Each relation contributes one clause per physical
// join step (two for many-to-many associations). Aliases are derived from the
// path so the predicate compiler references exactly the tables joined here.
//
// An unknown relation name along the path is a schema mismatch.
func JoinClauses(root Entity, path JoinPath) ([]string, error) {
	entity := root
	prevAlias := root.Table()
	var clauses []string

	for i, name := range path {
		rel, ok := entity.Relation(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no relation %q (path %s)",
				ErrSchemaMismatch, entity.Name(), name, path)
		}

		alias := path[:i+1].Alias()
		for s, step := range rel.Steps {
			stepAlias := alias
			if s < len(rel.Steps)-1 {
				// Intermediate hop (many-to-many join table).
				stepAlias = alias + "__join"
			}

			conds := make([]string, 0, len(step.On))
			for _, pair := range step.On {
				if pair.Value != "" {
					conds = append(conds, fmt.Sprintf("%s.%s = '%s'", stepAlias, pair.Right, pair.Value))
					continue
				}
				conds = append(conds, fmt.Sprintf("%s.%s = %s.%s", stepAlias, pair.Right, prevAlias, pair.Left))
			}
			clauses = append(clauses, fmt.Sprintf("LEFT JOIN %s AS %s ON %s",
				step.Table, stepAlias, strings.Join(conds, " AND ")))
			prevAlias = stepAlias
		}

		entity = rel.Target
		prevAlias = alias
	}

	return clauses, nil
}

// sortedKeys returns the tree's keys in a stable order. Go map iteration is
// randomized; sorting keeps planner output, predicate structure, and
// generated SQL deterministic.
func sortedKeys(conditions Conditions) []string {
	keys := make([]string, 0, len(conditions))
	for key := range conditions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

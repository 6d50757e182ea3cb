package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeremyyap/accessible"
	"github.com/jeremyyap/accessible/internal/cli"
	"github.com/jeremyyap/accessible/schemafile"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Compile rules and print the resulting joins and predicate",
	Long: `Compile a rule list against a schema document and print the LEFT JOIN
clauses and WHERE predicate the scoped query would carry.`,
	Example: `  # Explain the scope for Article
  accessible explain -s schema.yaml -r rules.yaml -e Article`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, rules, err := loadInputs()
		if err != nil {
			return err
		}

		joins, err := joinClauses(entity, rules)
		if err != nil {
			return cli.CompileError("planning joins", err)
		}

		pred, err := accessible.Compile(entity, rules)
		if err != nil {
			return cli.CompileError("compiling predicate", err)
		}

		fmt.Printf("FROM %s\n", entity.Table())
		for _, join := range joins {
			fmt.Println(join)
		}
		if pred == nil {
			fmt.Println("-- unconditional: no WHERE restriction")
			return nil
		}
		fmt.Printf("WHERE %s\n", pred.SQL())
		fmt.Printf("-- vars: %v\n", pred.Vars())
		return nil
	},
}

// loadInputs resolves the schema document, root entity, and rule list from
// the effective configuration.
func loadInputs() (accessible.Entity, []accessible.Rule, error) {
	if cfg.Entity == "" {
		return nil, nil, cli.ConfigError("no root entity", fmt.Errorf("set --entity or the entity config key"))
	}

	catalog, err := schemafile.Load(cfg.Schema)
	if err != nil {
		return nil, nil, cli.SchemaError("loading schema", err)
	}

	entity, ok := catalog.Entity(cfg.Entity)
	if !ok {
		return nil, nil, cli.SchemaError("resolving entity", fmt.Errorf("schema does not define %q", cfg.Entity))
	}

	rules, err := schemafile.LoadRules(cfg.Rules)
	if err != nil {
		return nil, nil, cli.SchemaError("loading rules", err)
	}

	return entity, rules, nil
}

// joinClauses renders every rule's join clauses, dropping duplicates the way
// the query accumulator does.
func joinClauses(entity accessible.Entity, rules []accessible.Rule) ([]string, error) {
	seen := make(map[string]struct{})
	var joins []string
	for _, rule := range rules {
		for _, path := range accessible.PlanJoins(rule.Conditions) {
			clauses, err := accessible.JoinClauses(entity, path)
			if err != nil {
				return nil, err
			}
			for _, clause := range clauses {
				if _, dup := seen[clause]; dup {
					continue
				}
				seen[clause] = struct{}{}
				joins = append(joins, clause)
			}
		}
	}
	return joins, nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeremyyap/accessible"
	"github.com/jeremyyap/accessible/schemafile"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the join paths each rule requires",
	Long: `Walk each rule's condition tree and print the relation-traversal paths
that would be outer-joined into the scoped query. No schema lookups are
performed; plan works on the rule list alone.`,
	Example: `  # Print join paths per rule
  accessible plan -r rules.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := schemafile.LoadRules(cfg.Rules)
		if err != nil {
			return err
		}

		for i, rule := range rules {
			polarity := "grant"
			if !rule.Grants {
				polarity = "deny"
			}
			paths := accessible.PlanJoins(rule.Conditions)
			if len(paths) == 0 {
				fmt.Printf("rule %d (%s): no joins\n", i+1, polarity)
				continue
			}
			fmt.Printf("rule %d (%s):\n", i+1, polarity)
			for _, path := range paths {
				fmt.Printf("  %s\n", path)
			}
		}
		return nil
	},
}

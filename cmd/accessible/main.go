// Package main provides a CLI for inspecting compiled authorization scopes.
//
// The CLI supports:
//   - explain: Compile a rule list against a schema and print the joins and
//     WHERE predicate the scoped query would carry
//   - plan: Print the join paths each rule requires, without compiling
//   - config: Show effective configuration
//   - version: Print version information
//
// The tool works entirely from files: a YAML schema document (entities,
// columns, relations, enums) and a YAML rule list. It is typically used
// during development to review what a rule change does to the generated
// query before shipping it.
package main

import (
	"github.com/jeremyyap/accessible/internal/cli"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

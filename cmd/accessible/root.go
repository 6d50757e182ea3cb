package main

import (
	"github.com/spf13/cobra"

	"github.com/jeremyyap/accessible/internal/cli"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string

	// Persistent flags
	cfgFile    string
	schemaFile string
	rulesFile  string
	entityName string
)

var rootCmd = &cobra.Command{
	Use:   "accessible",
	Short: "Authorization rule to SQL predicate compiler",
	Long: `accessible - Authorization rule to SQL predicate compiler

Accessible compiles ordered allow/deny rules into a single relational query:
the outer joins needed to reach every referenced relation, plus one WHERE
predicate combining all rules with correct order and polarity.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for help/completion/version commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}

		// Flags override config file values.
		if schemaFile != "" {
			cfg.Schema = schemaFile
		}
		if rulesFile != "" {
			cfg.Rules = rulesFile
		}
		if entityName != "" {
			cfg.Entity = entityName
		}

		return nil
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover accessible.yaml)")
	rootCmd.PersistentFlags().StringVarP(&schemaFile, "schema", "s", "", "YAML schema document")
	rootCmd.PersistentFlags().StringVarP(&rulesFile, "rules", "r", "", "YAML rule list")
	rootCmd.PersistentFlags().StringVarP(&entityName, "entity", "e", "", "root entity name")

	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

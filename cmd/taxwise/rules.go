package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect classification rules",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Print the active rules as YAML",
		Long: `Print the active rule tables as YAML. The output is a valid rules file:
save it, edit it and pass it back with --rules.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			rs, err := loadRules(cfg)
			if err != nil {
				return err
			}
			data, err := rs.Marshal()
			if err != nil {
				return fmt.Errorf("failed to render rules: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	})

	return cmd
}

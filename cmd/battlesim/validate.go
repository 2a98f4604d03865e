package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and cross-check all content",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "content under %s is valid\n", rt.cfg.Content.Root)
		fmt.Fprintf(out, "  battlefields: %s\n", strings.Join(rt.lib.BattlefieldIDs(), ", "))
		fmt.Fprintf(out, "  enemies:      %s\n", strings.Join(rt.lib.EnemyIDs(), ", "))
		fmt.Fprintf(out, "  characters:   %s\n", strings.Join(rt.lib.CharacterIDs(), ", "))
		fmt.Fprintf(out, "  equipment:    %s\n", strings.Join(rt.lib.EquipmentIDs(), ", "))
		return nil
	},
}

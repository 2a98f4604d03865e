package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/gridtactics/internal/sim"
)

var (
	autoBattles     int
	autoBattlefield string
	autoParty       []string
	autoPlayer      string
	autoMaxRounds   int
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Run unattended battles and print the outcome tally",
	Long: `Auto plays the party with the autopilot against the enemy AI for the
requested number of battles. Use --seed for a reproducible run.`,
	RunE: runAuto,
}

func init() {
	autoCmd.Flags().IntVarP(&autoBattles, "battles", "n", 10, "number of battles to run")
	autoCmd.Flags().StringVar(&autoBattlefield, "battlefield", "", "battlefield id (random per battle when empty)")
	autoCmd.Flags().StringSliceVar(&autoParty, "party", []string{"knight:longsword:amulet", "cleric:oak_staff", "ranger"}, "loadouts as character[:weapon[:artefact]]")
	autoCmd.Flags().StringVar(&autoPlayer, "player", "", "stored player whose roster to use and credit")
	autoCmd.Flags().IntVar(&autoMaxRounds, "max-rounds", sim.DefaultMaxRounds, "abandon a battle after this many rounds")
}

func runAuto(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if autoBattles < 1 {
		return fmt.Errorf("--battles must be >= 1, got %d", autoBattles)
	}
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	loadouts := autoParty
	if autoPlayer != "" && !cmd.Flags().Changed("party") {
		loadouts = nil
	}
	party, player, err := rt.party(ctx, loadouts, autoPlayer)
	if err != nil {
		return err
	}
	rec, err := rt.recorder(ctx, player)
	if err != nil {
		return err
	}
	r, err := sim.NewRunner(rt.lib, rt.enemies, rt.src, sim.Config{
		Battlefield: autoBattlefield,
		Party:       party,
		MaxRounds:   autoMaxRounds,
	}, rec, rt.logger)
	if err != nil {
		return err
	}
	sum, err := r.Run(ctx, autoBattles)
	printSummary(cmd.OutOrStdout(), sum)
	return err
}

func printSummary(w io.Writer, sum sim.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BATTLEFIELD\tBATTLES\tWON\tLOST\tWIN%\tROUNDS")
	row := func(name string, t sim.Tally) {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.1f\t%.1f\n", name, t.Battles, t.Victories, t.Defeats, 100*t.WinRate(), t.MeanRounds())
	}
	for _, id := range sum.Battlefields() {
		row(id, sum.Battlefield[id])
	}
	row("total", sum.Total)
	_ = tw.Flush()
	if sum.Stalemates > 0 {
		fmt.Fprintf(w, "%d battle(s) abandoned without a result\n", sum.Stalemates)
	}
}

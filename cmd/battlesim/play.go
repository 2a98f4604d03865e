package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/gridtactics/internal/content"
	"github.com/cory-johannsen/gridtactics/internal/game/combat"
	"github.com/cory-johannsen/gridtactics/internal/session"
)

var (
	playBattlefield string
	playParty       []string
	playPlayer      string
	playColor       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one battle from the terminal",
	Long: `Play starts a battle and reads commands from standard input.
Characters are numbered from 1 and enemies lettered from a, as on the board.
Type help for the command list.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playBattlefield, "battlefield", "", "battlefield id (random when empty)")
	playCmd.Flags().StringSliceVar(&playParty, "party", nil, "loadouts as character[:weapon[:artefact]], comma separated")
	playCmd.Flags().StringVar(&playPlayer, "player", "", "stored player whose roster to use and credit")
	playCmd.Flags().BoolVar(&playColor, "color", true, "colorize the board")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	party, player, err := rt.party(ctx, playParty, playPlayer)
	if err != nil {
		return err
	}
	rec, err := rt.recorder(ctx, player)
	if err != nil {
		return err
	}

	var enc *content.Encounter
	if playBattlefield != "" {
		enc, err = rt.lib.Encounter(playBattlefield, rt.src)
	} else {
		enc, err = rt.lib.RandomEncounter(rt.src)
	}
	if err != nil {
		return err
	}
	players := make([]*combat.Character, 0, len(party))
	for _, lo := range party {
		c, err := rt.lib.Character(lo)
		if err != nil {
			return err
		}
		players = append(players, c)
	}
	b, err := combat.NewBattle(players, enc.Enemies, enc.Field, rt.enemies, rt.logger)
	if err != nil {
		return err
	}

	mgr := session.NewManager(rt.cfg.Battle.IdleTimeout, rec, rt.logger)
	defer mgr.Close()
	s, err := mgr.Start(enc.BattlefieldID, b, enc.Objective)
	if err != nil {
		return err
	}
	rt.logger.Info("battle started", zap.String("session", s.ID.String()), zap.String("battlefield", enc.BattlefieldID))
	fmt.Fprintf(cmd.OutOrStdout(), "Battle %s on %s. Type help for commands.\n", s.ID, enc.BattlefieldID)
	return session.NewConsole(mgr, os.Stdin, cmd.OutOrStdout(), playColor).Run(ctx, s.ID)
}

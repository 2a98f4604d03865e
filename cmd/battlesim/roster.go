package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/gridtactics/internal/storage/postgres"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage stored players and their parties",
}

var rosterCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, done, err := rosterRepo(cmd)
		if err != nil {
			return err
		}
		defer done()
		p, err := repo.CreatePlayer(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created player %s (id %d)\n", p.Name, p.ID)
		return nil
	},
}

var rosterSetCmd = &cobra.Command{
	Use:   "set NAME LOADOUT...",
	Short: "Replace a player's party; each loadout is character[:weapon[:artefact]]",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()
		party, err := parseLoadouts(args[1:])
		if err != nil {
			return err
		}
		// Every loadout must build against the loaded content.
		for _, lo := range party {
			if _, err := rt.lib.Character(lo); err != nil {
				return err
			}
		}
		pool, err := rt.database(ctx)
		if err != nil {
			return err
		}
		repo := postgres.NewRosterRepository(pool.DB())
		p, err := repo.PlayerByName(ctx, args[0])
		if errors.Is(err, postgres.ErrPlayerNotFound) {
			p, err = repo.CreatePlayer(ctx, args[0])
		}
		if err != nil {
			return err
		}
		if err := repo.SaveRoster(ctx, p.ID, party); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %d loadout(s) for %s\n", len(party), p.Name)
		return nil
	},
}

var rosterShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Print a player's party",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, done, err := rosterRepo(cmd)
		if err != nil {
			return err
		}
		defer done()
		p, err := repo.PlayerByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		party, err := repo.LoadRoster(cmd.Context(), p.ID)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s:\n", p.Name)
		for i, lo := range party {
			fmt.Fprintf(out, "  %d. %s\n", i+1, lo)
		}
		return nil
	},
}

func init() {
	rosterCmd.AddCommand(rosterCreateCmd)
	rosterCmd.AddCommand(rosterSetCmd)
	rosterCmd.AddCommand(rosterShowCmd)
}

// rosterRepo opens the database for commands that do not need content.
func rosterRepo(cmd *cobra.Command) (*postgres.RosterRepository, func(), error) {
	rt, err := newRuntime()
	if err != nil {
		return nil, nil, err
	}
	pool, err := rt.database(cmd.Context())
	if err != nil {
		rt.close()
		return nil, nil, err
	}
	return postgres.NewRosterRepository(pool.DB()), rt.close, nil
}

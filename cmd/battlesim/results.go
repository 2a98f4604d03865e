package main

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	resultsLimit       int64
	resultsBattlefield string
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Show recently recorded battles from the results store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.close()
		store, err := rt.resultStore()
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("results store is disabled (set redis.enabled)")
		}
		out := cmd.OutOrStdout()

		if resultsBattlefield != "" {
			tally, err := store.Tally(ctx, resultsBattlefield)
			if err != nil {
				return err
			}
			outcomes := make([]string, 0, len(tally))
			for o := range tally {
				outcomes = append(outcomes, o)
			}
			sort.Strings(outcomes)
			fmt.Fprintf(out, "%s:\n", resultsBattlefield)
			for _, o := range outcomes {
				fmt.Fprintf(out, "  %-8s %d\n", o, tally[o])
			}
			return nil
		}

		recent, err := store.Recent(ctx, resultsLimit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FINISHED\tBATTLEFIELD\tOUTCOME\tROUNDS\tSURVIVORS")
		for _, r := range recent {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d/%d\n",
				r.FinishedAt.Format("2006-01-02 15:04:05"), r.Battlefield, r.Outcome, r.Rounds, r.Survivors, len(r.Players))
		}
		return tw.Flush()
	},
}

func init() {
	resultsCmd.Flags().Int64VarP(&resultsLimit, "limit", "n", 20, "number of recent battles to list")
	resultsCmd.Flags().StringVar(&resultsBattlefield, "battlefield", "", "print the outcome tally for one battlefield instead")
}

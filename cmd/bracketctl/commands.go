package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/AdamBeresnev/wc-bracket/internal/bracket"
	"github.com/AdamBeresnev/wc-bracket/internal/combination"
	"github.com/AdamBeresnev/wc-bracket/internal/registry"
	"github.com/AdamBeresnev/wc-bracket/internal/service"
	"github.com/AdamBeresnev/wc-bracket/internal/slot"
	"github.com/AdamBeresnev/wc-bracket/internal/standings"
	"github.com/spf13/cobra"
)

var errTableProblems = errors.New("combinations table has problems")

func newValidateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load the combinations table and report rejected or duplicate rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := combination.Load(combinationsPath, registry.ThirdPlaceSlots())
			if err != nil {
				return err
			}
			problems := writeTableReport(cmd.OutOrStdout(), table)
			if strict && problems > 0 {
				return fmt.Errorf("%w: %d", errTableProblems, problems)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any row is rejected or duplicated")
	return cmd
}

func writeTableReport(w io.Writer, table *combination.Table) int {
	fmt.Fprintf(w, "rows: %d\n", table.Len())
	fmt.Fprintf(w, "rejected: %d\n", len(table.Rejected))
	for _, r := range table.Rejected {
		fmt.Fprintf(w, "  line %d: %s\n", r.Line, r.Reason)
	}

	dups := table.Duplicates()
	keys := make([]string, 0, len(dups))
	for k := range dups {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	fmt.Fprintf(w, "duplicates: %d\n", len(keys))
	for _, k := range keys {
		fmt.Fprintf(w, "  %s rows %v\n", k, dups[k])
	}
	return len(table.Rejected) + len(keys)
}

func newRound32Cmd() *cobra.Command {
	var letters string
	cmd := &cobra.Command{
		Use:   "round32",
		Short: "Print the round-of-32 fixtures for a set of qualifying third places",
		Long: `Groups keep their registry order. --letters names the eight groups whose
third-placed teams qualify; the matching table row decides their opponents.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			qualified, err := parseLetters(letters)
			if err != nil {
				return err
			}

			logger := newLogger()
			table, err := combination.Load(combinationsPath, registry.ThirdPlaceSlots())
			if err != nil {
				logger.Warn("combination table not loaded, opponents will be TBD", "path", combinationsPath, "error", err)
				table = nil
			}

			row, ok := table.Match(qualified)
			if !ok {
				logger.Warn("no combination row for qualifiers", "letters", string(qualified))
			}

			matchups := roundOf32(qualified, row, logger)
			writeMatchups(cmd.OutOrStdout(), matchups, row)
			return nil
		},
	}
	cmd.Flags().StringVarP(&letters, "letters", "l", "ABCDEFGH", "Eight group letters whose third-placed teams qualify")
	return cmd
}

func parseLetters(raw string) ([]byte, error) {
	qualified := []byte(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := combination.CandidateKey(qualified); !ok {
		return nil, fmt.Errorf("need %d distinct group letters A-L, got %q", combination.QualifierCount, raw)
	}
	return qualified, nil
}

func roundOf32(qualified []byte, row *combination.Row, logger bracket.Logger) []bracket.Matchup {
	reg := registry.Groups()
	var thirds []bracket.ThirdPlaceQualifier
	for _, q := range standings.ThirdPlaces(nil, reg) {
		if l, ok := bracket.LetterOf(q.GroupName); ok && slices.Contains(qualified, l) {
			thirds = append(thirds, q)
		}
	}

	return service.BuildRoundOf32(service.BuildInput{
		SlotOrder:      registry.SlotOrder(),
		DefaultMapping: registry.DefaultMapping(),
		Row:            row,
		Resolver:       slot.Resolver{Registry: reg, ThirdPlaces: thirds},
		Log:            logger,
	})
}

func writeMatchups(w io.Writer, matchups []bracket.Matchup, row *combination.Row) {
	if row != nil && row.Option != nil {
		fmt.Fprintf(w, "combination option %s\n", *row.Option)
	}
	for i, m := range matchups {
		fmt.Fprintf(w, "%2d  %-3s %s vs %s\n", i+1, m.Slot, m.Winner.Name, m.Opponent.Name)
	}
}

// Command progressctl inspects progression arithmetic, workflow positioning
// and quest catalog files without a running backend.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"questpath/internal/catalog"
	"questpath/internal/progression"
	"questpath/internal/service"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "progressctl",
		Short:         "Inspect questpath progression data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newLevelCmd(), newStepCmd(), newCatalogCmd())
	return root
}

func newLevelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "level <xp>",
		Short: "Show level and in-level progress for an XP total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xp, err := strconv.Atoi(args[0])
			if err != nil || xp < 0 {
				return fmt.Errorf("xp must be a non-negative integer, got %q", args[0])
			}

			p := progression.Snapshot(xp)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "level:         %d\n", p.Level)
			fmt.Fprintf(out, "xp into level: %d\n", p.XPIntoLevel)
			fmt.Fprintf(out, "progress:      %d%%\n", p.Percent)
			fmt.Fprintf(out, "xp to next:    %d\n", p.XPToNext)
			return nil
		},
	}
}

func newStepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "step <state>",
		Short: "Show where a backend workflow state sits in the learning funnel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			class := service.NewWorkflowSequencer().Classify(args[0])
			out := cmd.OutOrStdout()

			for _, s := range class.Completed {
				fmt.Fprintf(out, "  [x] %s %s\n", s.Icon, s.Name)
			}
			fmt.Fprintf(out, "  [>] %s %s\n", class.Current.Icon, class.Current.Name)
			for _, s := range class.Upcoming {
				fmt.Fprintf(out, "  [ ] %s %s\n", s.Icon, s.Name)
			}
			return nil
		},
	}
}

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog <file>",
		Short: "Validate a YAML quest catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(args[0])
			if err != nil {
				return err
			}

			quests, _ := c.ListQuests(cmd.Context())
			out := cmd.OutOrStdout()
			total := 0
			for _, q := range quests {
				fmt.Fprintf(out, "%-24s %-13s %5d xp  %s\n", q.ID, q.Difficulty, q.XPReward, strings.TrimSpace(q.Title))
				total += q.XPReward
			}
			fmt.Fprintf(out, "%d quests, %d xp total (level %d)\n", len(quests), total, progression.LevelForXP(total))
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

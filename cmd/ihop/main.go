// Command ihop drives the blocksworld example domain end to end
// through the planner, executor, and actor, for manual inspection of
// plans, executions, and tree dumps from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ihop-dev/ihop"
	"github.com/ihop-dev/ihop/examples/blocksworld"
)

var (
	verbose int
	seed    int64
)

func newPlanner() (*ihop.Planner, error) {
	return ihop.New(blocksworld.NewMethods(), blocksworld.NewActions(), ihop.WithVerbose(verbose))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ihop",
		Short: "Drive the blocksworld example through the refinement planner",
	}
	root.PersistentFlags().IntVarP(&verbose, "verbose", "v", 0, "trace verbosity (0-3)")
	root.PersistentFlags().Int64Var(&seed, "seed", 1, "Monte-Carlo executor random seed")
	root.AddCommand(newPlanCmd(), newActCmd(), newDumpCmd())
	return root
}

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Plan the Sussman-anomaly scenario and print the resulting action sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPlanner()
			if err != nil {
				return err
			}
			initial, goal := blocksworld.Sussman()
			plan, err := p.Plan(initial, ihop.ToDoList{goal})
			if err != nil {
				return err
			}
			printPlan(cmd, p, plan)
			return nil
		},
	}
}

func newActCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "act",
		Short: "Run the Sussman-anomaly scenario through the full act-plan-repair loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			actions := blocksworld.NewActions()
			p, err := ihop.New(blocksworld.NewMethods(), actions, ihop.WithVerbose(verbose))
			if err != nil {
				return err
			}
			executor := ihop.NewExecutor(actions, ihop.WithRandSource(ihop.NewRandSource(seed)))
			actor := ihop.NewActor(p, executor, ihop.WithActorLogger(ihop.NewStdLogger(), verbose))

			initial, goal := blocksworld.Sussman()
			history, err := actor.Execute(initial, ihop.ToDoList{goal})
			if err != nil {
				return err
			}

			cmd.Println("History:")
			total := 0.0
			for _, act := range history {
				cost, _ := actions.Cost(act.Name)
				total += cost
				cmd.Printf("  %s %v\n", act.Name, act.Args)
			}
			cmd.Printf("Total cost: %.0f\n", total)
			return nil
		},
	}
}

func newDumpCmd() *cobra.Command {
	var showBT bool
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Plan the Sussman-anomaly scenario and print the interchange-format tree dump",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPlanner()
			if err != nil {
				return err
			}
			initial, goal := blocksworld.Sussman()
			if _, err := p.Plan(initial, ihop.ToDoList{goal}); err != nil {
				return err
			}
			cmd.Print(p.Tree().Dump(nil))
			if showBT {
				cmd.Println(p.Tree().String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showBT, "bt", false, "also print a behavior-tree-shaped structural view")
	return cmd
}

func printPlan(cmd *cobra.Command, p *ihop.Planner, plan ihop.ActionSeq) {
	cmd.Printf("Plan (%d actions, %d refinement iterations):\n", len(plan), p.Iterations())
	for _, act := range plan {
		cmd.Printf("  %s %v\n", act.Name, act.Args)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

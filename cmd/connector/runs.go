package main

import (
	"fmt"

	"github.com/biodt/argo-cordra-connector/pkg/runstore"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var colorRunState = map[string]*color.Color{
	"Pending":    color.New(color.FgHiBlack),
	"InProgress": color.New(color.FgCyan),
	"Completed":  color.New(color.FgGreen),
	"Failed":     color.New(color.FgRed),
}

var runsFlags = struct {
	namespace string
}{}

var runsCmd = &cobra.Command{
	Use:     "runs [name]",
	Aliases: []string{"run"},
	Short:   "List a running connector's known workflow runs",
	Long: `Without arguments, lists every workflow run the connector has been
notified about. With a name, shows that run's transfer outcome in detail.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		if len(args) == 0 {
			runs, err := client.ListRuns()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				log.Info().Message("No runs found.")
				return nil
			}
			for _, run := range runs {
				fmt.Printf("%s  %s\n", formatState(run), run.Ref)
			}
			return nil
		}

		namespace := runsFlags.namespace
		if namespace == "" {
			namespace = rootConfig.Argo.Namespace
		}
		run, err := client.GetRun(namespace, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s\n", formatState(run), run.Ref)
		if run.Error != "" {
			fmt.Printf("  error: %s\n", run.Error)
		}
		if run.Summary != nil {
			printSummary(*run.Summary)
		}
		return nil
	},
}

func formatState(run runstore.Run) string {
	state := run.State.String()
	if c, ok := colorRunState[state]; ok {
		return c.Sprintf("%-10s", state)
	}
	return fmt.Sprintf("%-10s", state)
}

func init() {
	rootCmd.AddCommand(runsCmd)
	addNamespaceFlag(runsCmd.Flags(), &runsFlags.namespace)
}

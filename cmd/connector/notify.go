package main

import (
	"github.com/spf13/cobra"
)

var notifyFlags = struct {
	namespace string
}{}

var notifyCmd = &cobra.Command{
	Use:   "notify <name>",
	Short: "Notify a running connector about a finished workflow run",
	Long: `Sends a notification to a running connector's REST API, the same
way a workflow exit handler would. The connector queues the run's artifacts
for transfer and responds immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, queued, err := newClient().Notify(notifyFlags.namespace, args[0])
		if err != nil {
			return err
		}
		if queued {
			log.Info().
				WithStringer("run", run.Ref).
				Message("Run queued for transfer.")
		} else {
			log.Info().
				WithStringer("run", run.Ref).
				WithStringer("state", run.State).
				Message("Run already known. Not queued again.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	addNamespaceFlag(notifyCmd.Flags(), &notifyFlags.namespace)
}

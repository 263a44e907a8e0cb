package main

import (
	"github.com/biodt/argo-cordra-connector/pkg/argo"
	"github.com/biodt/argo-cordra-connector/pkg/connectorserver"
	"github.com/biodt/argo-cordra-connector/pkg/cordra"
	"github.com/biodt/argo-cordra-connector/pkg/runstore"
	"github.com/biodt/argo-cordra-connector/pkg/transfer"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the connector's REST API",
	Long: `Serves the REST API that workflow exit handlers notify when a run
finishes. Each notification queues the run's output artifacts for transfer
into the repository; a worker pool drains the queue in the background.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		argoClient, err := argo.New(rootConfig.Argo)
		if err != nil {
			return err
		}
		cordraClient, err := cordra.New(rootConfig.Cordra)
		if err != nil {
			return err
		}

		orchestrator := transfer.NewOrchestrator(
			transfer.NewArgoSource(argoClient),
			transfer.NewCordraSink(cordraClient, rootConfig.Transfer.Dataset),
			rootConfig.Transfer)
		store := runstore.New()
		scheduler := connectorserver.NewScheduler(orchestrator, store, rootConfig.Transfer)
		scheduler.Start(rootContext)

		server := connectorserver.New(
			scheduler, store, argoClient, cordraClient,
			rootConfig.Argo.Namespace, rootConfig.HTTP)
		return server.Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

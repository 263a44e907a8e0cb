package main

import (
	"fmt"
	"os"

	"github.com/biodt/argo-cordra-connector/pkg/argo"
	"github.com/biodt/argo-cordra-connector/pkg/cordra"
	"github.com/biodt/argo-cordra-connector/pkg/transfer"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	colorRunName  = color.New(color.FgHiMagenta)
	colorStored   = color.New(color.FgGreen)
	colorSkipped  = color.New(color.FgYellow)
	colorFailed   = color.New(color.FgRed, color.Bold)
	colorObjectID = color.New(color.FgCyan)
)

var transferFlags = struct {
	namespace string
	summary   bool
}{}

var transferCmd = &cobra.Command{
	Use:   "transfer <name>",
	Short: "Transfer one workflow run's artifacts right now",
	Long: `Copies the named workflow run's output artifacts into the
repository directly, without going through a running connector's queue.

Useful for backfilling runs that finished while the connector was down,
or for trying out a configuration before deploying it.`,
	Args: cobra.ExactArgs(1),
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

		namespace := transferFlags.namespace
		if namespace == "" {
			namespace = rootConfig.Argo.Namespace
		}
		ref := transfer.RunRef{Namespace: namespace, Name: args[0]}
		summary, err := orchestrator.Run(rootContext, ref)
		printSummary(summary)
		return err
	},
}

func printSummary(summary transfer.RunSummary) {
	fmt.Printf("Run %s: %s / %s / %s\n",
		colorRunName.Sprint(summary.Run),
		colorStored.Sprintf("%d stored", summary.Stored),
		colorSkipped.Sprintf("%d skipped", summary.Skipped),
		colorFailed.Sprintf("%d failed", summary.Failed))
	for _, outcome := range summary.Outcomes {
		switch outcome.Kind {
		case transfer.OutcomeStored:
			fmt.Printf("  %s %s -> %s\n",
				colorStored.Sprint("stored "), outcome.Path,
				colorObjectID.Sprint(outcome.ObjectID))
		case transfer.OutcomeSkipped:
			fmt.Printf("  %s %s (%s)\n",
				colorSkipped.Sprint("skipped"), outcome.Path, outcome.Reason)
		case transfer.OutcomeFailed:
			fmt.Printf("  %s %s (%s)\n",
				colorFailed.Sprint("failed "), outcome.Path, outcome.Reason)
		}
	}
	if summary.DatasetID != "" {
		fmt.Printf("Dataset: %s\n", colorObjectID.Sprint(summary.DatasetID))
	}
	if transferFlags.summary {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		enc.Encode(summary)
		enc.Close()
	}
}

func init() {
	rootCmd.AddCommand(transferCmd)
	addNamespaceFlag(transferCmd.Flags(), &transferFlags.namespace)
	transferCmd.Flags().BoolVar(&transferFlags.summary, "summary", false, "Print the full summary as YAML")
}

package main

import (
	"errors"
	"fmt"

	"github.com/biodt/argo-cordra-connector/pkg/argo"
	"github.com/biodt/argo-cordra-connector/pkg/cordra"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var colorHealthy = color.New(color.FgGreen)
var colorUnhealthy = color.New(color.FgRed, color.Bold)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the configured upstream connections",
	Long: `Checks that both the workflow engine and the repository are
reachable with the configured credentials, without needing a running
connector.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		argoClient, err := argo.New(rootConfig.Argo)
		if err != nil {
			return err
		}
		cordraClient, err := cordra.New(rootConfig.Cordra)
		if err != nil {
			return err
		}

		argoErr := argoClient.CheckHealth(rootContext)
		cordraErr := cordraClient.CheckHealth(rootContext)
		printCheck("argo", argoErr)
		printCheck("cordra", cordraErr)
		if argoErr != nil || cordraErr != nil {
			return errors.New("one or more upstream checks failed")
		}
		return nil
	},
}

func printCheck(name string, err error) {
	if err == nil {
		fmt.Printf("%-8s %s\n", name, colorHealthy.Sprint("healthy"))
		return
	}
	fmt.Printf("%-8s %s  %s\n", name, colorUnhealthy.Sprint("unhealthy"), err)
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

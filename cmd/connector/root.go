package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/biodt/argo-cordra-connector/internal/flagtypes"
	"github.com/biodt/argo-cordra-connector/pkg/connectorclient"
	"github.com/iver-wharf/wharf-core/v2/pkg/app"
	"github.com/iver-wharf/wharf-core/v2/pkg/logger"
	"github.com/iver-wharf/wharf-core/v2/pkg/logger/consolepretty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var log = logger.NewScoped("CONNECTOR")

var isLoggingInitialized bool
var loglevel = flagtypes.LogLevel(logger.LevelInfo)
var apiURL string

var rootContext = context.Background()
var rootConfig Config

var rootCmd = &cobra.Command{
	SilenceErrors: true,
	SilenceUsage:  true,
	Use:           "connector",
	Short:         "Copies Argo workflow output artifacts into a Cordra repository",
	Long: `The connector listens for notifications about finished Argo
workflow runs and copies each run's output artifacts into a Cordra digital
object repository, grouped into a dataset with provenance metadata.

Workflow exit handlers notify the connector over its REST API; the CLI
subcommands talk to that same API or run a one-shot transfer directly.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		rootConfig, err = loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return nil
	},
}

func execute(version app.Version) {
	rootCmd.Version = versionString(version)
	ctx, cancel := signal.NotifyContext(rootContext, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	rootContext = ctx
	if err := rootCmd.Execute(); err != nil {
		initLoggingIfNeeded()
		log.Error().Message(err.Error())
		os.Exit(1)
	}
}

func versionString(v app.Version) string {
	var sb strings.Builder
	if v.Version != "" {
		sb.WriteString(v.Version)
	} else {
		sb.WriteString("v0.0.0")
	}
	if v.BuildRef != 0 {
		fmt.Fprintf(&sb, " #%d", v.BuildRef)
	}
	if v.BuildGitCommit != "" && v.BuildGitCommit != "HEAD" {
		fmt.Fprintf(&sb, " (%s)", v.BuildGitCommit)
	}
	if v.BuildDate != (time.Time{}) {
		sb.WriteString(" built ")
		sb.WriteString(v.BuildDate.Format(time.RFC1123))
	}
	return sb.String()
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.InitDefaultVersionFlag()
	rootCmd.PersistentFlags().Var(&loglevel, "loglevel", "Log severity filter")
	rootCmd.RegisterFlagCompletionFunc("loglevel", flagtypes.CompleteLogLevel)
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "URL of a running connector's REST API")
}

func addNamespaceFlag(flagSet *pflag.FlagSet, namespace *string) {
	flagSet.StringVarP(namespace, "namespace", "n", "", "Workflow namespace (defaults to the configured namespace)")
}

func newClient() connectorclient.Client {
	return connectorclient.Client{
		APIURL:    apiURL,
		BasicAuth: rootConfig.HTTP.BasicAuth,
	}
}

func initLoggingIfNeeded() {
	if !isLoggingInitialized {
		initLogging()
	}
}

func initLogging() {
	logConfig := consolepretty.DefaultConfig
	if loglevel.Level() != logger.LevelDebug {
		logConfig.DisableCaller = true
		logConfig.DisableDate = true
		logConfig.ScopeMinLengthAuto = false
	}
	logger.AddOutput(loglevel.Level(), consolepretty.New(logConfig))
	log.Debug().WithStringer("loglevel", loglevel.Level()).Message("Setting log-level.")
	isLoggingInitialized = true
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version will be set by main
var version = "dev"

// rootCmd represents the base command for the gsamples application
var rootCmd, rootApp = newRootCmd(newApp())

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	if shutdownErr := rootApp.shutdown(context.Background()); shutdownErr != nil {
		fmt.Fprintf(os.Stderr, "Error during instrumentation shutdown: %v\n", shutdownErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) (*cobra.Command, *app) {
	root := &cobra.Command{
		Use:   "gsamples",
		Short: "OAuth2 samples for the Google Calendar, Drive and YouTube Analytics APIs",
		Long: `gsamples runs small programs against Google APIs on behalf of the
signed-in user:

  - calendar insert: add a one hour event to the primary calendar
  - drive upload:    upload a local text file to Drive
  - youtube report:  print the top videos of the default channel

Each command authorizes with OAuth 2.0 the first time it runs and stores the
credential under ~/.credentials for later runs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate(`{{printf "gsamples version %s\n" .Version}}`)

	a.bindFlags(root)

	root.AddCommand(newCalendarCmd(a))
	root.AddCommand(newDriveCmd(a))
	root.AddCommand(newYouTubeCmd(a))
	root.AddCommand(newAuthCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newGenerateDocsCmd())
	root.AddCommand(newVersionCmd())

	return root, a
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/gsamples/internal/google"
	"github.com/teemow/gsamples/internal/instrumentation"
	"github.com/teemow/gsamples/internal/logging"
	"github.com/teemow/gsamples/internal/youtube"
)

func newYouTubeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "youtube",
		Short: "YouTube Analytics sample",
	}
	cmd.AddCommand(newYouTubeReportCmd(a))
	return cmd
}

func newYouTubeReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the top ten videos of the default channel by views",
		Long: `Look up the signed-in user's default YouTube channel and print its ten
most viewed videos between 2011-01-01 and 2014-12-05, with subscribers
gained and lost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			httpClient, err := a.httpClient(cmd, google.YouTubeProfile)
			if err != nil {
				return fmt.Errorf("failed to authorize: %w", err)
			}

			client, err := youtube.NewClient(ctx, httpClient,
				youtube.WithLogger(a.serviceLogger(instrumentation.ServiceYouTube)),
				youtube.WithMetrics(a.metrics()),
				youtube.WithClientOptions(a.apiOptions...),
			)
			if err != nil {
				return err
			}

			channel, err := client.DefaultChannel(ctx)
			if errors.Is(err, google.ErrNotFound) {
				a.logger.Warn("No channel found", logging.Err(err))
				fmt.Fprintln(out, "No channel found.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to look up channel: %w", err)
			}

			fmt.Fprintf(out, "Default Channel: %s (%s)\n\n", channel.Title, channel.ID)

			report, err := client.TopVideos(ctx, channel.ID)
			if err != nil {
				return fmt.Errorf("failed to query report: %w", err)
			}

			return youtube.PrintReport(out, report)
		},
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/gsamples/internal/calendar"
	"github.com/teemow/gsamples/internal/google"
	"github.com/teemow/gsamples/internal/instrumentation"
	"github.com/teemow/gsamples/internal/logging"
)

func newCalendarCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Google Calendar sample",
	}
	cmd.AddCommand(newCalendarInsertCmd(a))
	return cmd
}

func newCalendarInsertCmd(a *app) *cobra.Command {
	var input calendar.EventInput

	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert a one hour event starting now into the primary calendar",
		Long: `Insert an event into the primary calendar of the signed-in user.
The event starts now and lasts one hour. The ID of the created event is
printed on success.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			httpClient, err := a.httpClient(cmd, google.CalendarProfile)
			if err != nil {
				return fmt.Errorf("failed to authorize: %w", err)
			}

			client, err := calendar.NewClient(ctx, httpClient,
				calendar.WithLogger(a.serviceLogger(instrumentation.ServiceCalendar)),
				calendar.WithMetrics(a.metrics()),
				calendar.WithClientOptions(a.apiOptions...),
			)
			if err != nil {
				return err
			}

			event, err := client.InsertEvent(ctx, input)
			if err != nil {
				return fmt.Errorf("failed to insert event: %w", err)
			}

			a.logger.Info("Event created",
				logging.Service(instrumentation.ServiceCalendar),
				"event_id", event.ID,
				"html_link", event.HTMLLink,
			)
			fmt.Fprintln(cmd.OutOrStdout(), event.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Summary, "summary", "", "Summary (title) of the event")
	cmd.Flags().StringVar(&input.Location, "location", "", "Location of the event")
	_ = cmd.MarkFlagRequired("summary")

	return cmd
}

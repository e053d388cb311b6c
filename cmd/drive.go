package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/gsamples/internal/drive"
	"github.com/teemow/gsamples/internal/google"
	"github.com/teemow/gsamples/internal/instrumentation"
)

func newDriveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Google Drive sample",
	}
	cmd.AddCommand(newDriveUploadCmd(a))
	return cmd
}

func newDriveUploadCmd(a *app) *cobra.Command {
	var input drive.UploadInput

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a local text file to Drive",
		Long: `Upload a local file to the signed-in user's Drive as text/plain.
The title defaults to the file's base name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			httpClient, err := a.httpClient(cmd, google.DriveProfile)
			if err != nil {
				return fmt.Errorf("failed to authorize: %w", err)
			}

			client, err := drive.NewClient(ctx, httpClient,
				drive.WithLogger(a.serviceLogger(instrumentation.ServiceDrive)),
				drive.WithMetrics(a.metrics()),
				drive.WithClientOptions(a.apiOptions...),
			)
			if err != nil {
				return err
			}

			file, err := client.UploadTextFile(ctx, input)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", input.Path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "File created. File ID: %s\n", file.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Path, "file", "", "Path of the local file to upload")
	cmd.Flags().StringVar(&input.Title, "title", "", "Title of the Drive file (default: base name of --file)")
	cmd.Flags().StringVar(&input.Description, "description", "", "Description of the Drive file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

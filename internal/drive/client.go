package drive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/teemow/gsamples/internal/google"
	"github.com/teemow/gsamples/internal/instrumentation"
	"github.com/teemow/gsamples/internal/logging"
)

const (
	// TextMimeType is the MIME type of every uploaded file.
	TextMimeType = "text/plain"

	// DefaultApplicationName is sent as the user agent.
	DefaultApplicationName = "gsamples-drive-getting-started"

	uploadFields = "id, name, description, mimeType, size, createdTime, webViewLink"
)

// Client wraps the Google Drive service
type Client struct {
	service *drive.Service
	logger  logging.Logger
	metrics *instrumentation.Metrics

	appName    string
	clientOpts []option.ClientOption
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithClientOptions appends options for the generated service.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *Client) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// NewClient creates a Drive client that sends requests through httpClient.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	if httpClient == nil {
		return nil, errors.New("http client cannot be nil")
	}

	c := &Client{
		logger:  logging.DefaultLogger(),
		appName: DefaultApplicationName,
	}
	for _, opt := range opts {
		opt(c)
	}

	svcOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.clientOpts...)

	service, err := drive.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}
	service.UserAgent = c.appName
	c.service = service

	return c, nil
}

// UploadTextFile uploads the local file at input.Path as a new text/plain
// Drive file. The file is checked before any request is made.
func (c *Client) UploadTextFile(ctx context.Context, input UploadInput) (*FileInfo, error) {
	if input.Path == "" {
		return nil, fmt.Errorf("%w: source file path is required", google.ErrIO)
	}

	info, err := os.Stat(input.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", google.ErrIO, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", google.ErrIO, input.Path)
	}

	f, err := os.Open(input.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", google.ErrIO, err)
	}
	defer f.Close()

	title := input.Title
	if title == "" {
		title = filepath.Base(input.Path)
	}

	file := &drive.File{
		Name:        title,
		Description: input.Description,
		MimeType:    TextMimeType,
	}

	var created *drive.File
	err = instrumentation.ObserveGoogleAPI(ctx, c.metrics, instrumentation.ServiceDrive, instrumentation.OperationUpload,
		func(ctx context.Context) error {
			var err error
			created, err = c.service.Files.Create(file).
				Context(ctx).
				Media(f, googleapi.ContentType(TextMimeType)).
				Fields(uploadFields).
				Do()
			return err
		})
	if err != nil {
		return nil, google.WrapAPIError(instrumentation.ServiceDrive, instrumentation.OperationUpload, err)
	}

	c.logger.Info("Uploaded file to Drive",
		logging.Service(instrumentation.ServiceDrive),
		logging.Operation(instrumentation.OperationUpload),
		logging.Path(input.Path),
		"file_id", created.Id,
		"bytes", info.Size(),
	)
	return convertToFileInfo(created), nil
}

// convertToFileInfo converts a Drive API File to our FileInfo type
func convertToFileInfo(f *drive.File) *FileInfo {
	if f == nil {
		return &FileInfo{}
	}

	fileInfo := &FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		Description: f.Description,
		MimeType:    f.MimeType,
		Size:        f.Size,
		WebViewLink: f.WebViewLink,
	}
	if f.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
			fileInfo.CreatedTime = t
		}
	}
	return fileInfo
}

package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	youtube "google.golang.org/api/youtube/v3"
	youtubeanalytics "google.golang.org/api/youtubeanalytics/v2"

	"github.com/teemow/gsamples/internal/google"
	"github.com/teemow/gsamples/internal/instrumentation"
	"github.com/teemow/gsamples/internal/logging"
)

// ApplicationName is sent as the user agent on both services.
const ApplicationName = "youtube-analytics-api-report-example"

// Top videos report parameters.
const (
	ReportStartDate  = "2011-01-01"
	ReportEndDate    = "2014-12-05"
	ReportMetrics    = "views,subscribersGained,subscribersLost"
	ReportDimensions = "video"
	ReportSort       = "-views"
	ReportMaxResults = 10

	TopVideosTitle = "Top Videos"
)

// Channel identifies a YouTube channel.
type Channel struct {
	ID    string
	Title string
}

// Client queries the YouTube Data and YouTube Analytics APIs.
type Client struct {
	youtube   *youtube.Service
	analytics *youtubeanalytics.Service
	logger    logging.Logger
	metrics   *instrumentation.Metrics

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

// WithClientOptions appends options for both generated services.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *Client) {
		c.clientOpts = append(c.clientOpts, opts...)
	}
}

// NewClient creates a client whose requests go through httpClient.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	if httpClient == nil {
		return nil, errors.New("http client cannot be nil")
	}

	c := &Client{logger: logging.DefaultLogger()}
	for _, opt := range opts {
		opt(c)
	}

	svcOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, c.clientOpts...)

	var err error
	c.youtube, err = youtube.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	c.analytics, err = youtubeanalytics.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube Analytics service: %w", err)
	}

	c.youtube.UserAgent = ApplicationName
	c.analytics.UserAgent = ApplicationName

	return c, nil
}

// DefaultChannel returns the first channel owned by the authenticated user.
func (c *Client) DefaultChannel(ctx context.Context) (*Channel, error) {
	var resp *youtube.ChannelListResponse
	err := instrumentation.ObserveGoogleAPI(ctx, c.metrics, instrumentation.ServiceYouTube, instrumentation.OperationList,
		func(ctx context.Context) error {
			var err error
			resp, err = c.youtube.Channels.List([]string{"id", "snippet"}).
				Mine(true).
				Fields("items(id,snippet/title)").
				Context(ctx).
				Do()
			return err
		})
	if err != nil {
		return nil, google.WrapAPIError(instrumentation.ServiceYouTube, instrumentation.OperationList, err)
	}

	if len(resp.Items) == 0 || resp.Items[0] == nil || resp.Items[0].Id == "" {
		return nil, fmt.Errorf("%w: no channel for the authenticated user", google.ErrNotFound)
	}

	item := resp.Items[0]
	ch := &Channel{ID: item.Id}
	if item.Snippet != nil {
		ch.Title = item.Snippet.Title
	}

	c.logger.Debug("Resolved default channel",
		logging.Service(instrumentation.ServiceYouTube),
		"channel_id", ch.ID,
		"channels", len(resp.Items),
	)
	return ch, nil
}

// TopVideos returns the channel's ten most viewed videos over the fixed
// report window.
func (c *Client) TopVideos(ctx context.Context, channelID string) (*Report, error) {
	if channelID == "" {
		return nil, fmt.Errorf("%w: channel ID is required", google.ErrNotFound)
	}

	var table *youtubeanalytics.QueryResponse
	err := instrumentation.ObserveGoogleAPI(ctx, c.metrics, instrumentation.ServiceYouTubeAnalytics, instrumentation.OperationQuery,
		func(ctx context.Context) error {
			var err error
			table, err = c.analytics.Reports.Query().
				Ids("channel=="+channelID).
				StartDate(ReportStartDate).
				EndDate(ReportEndDate).
				Metrics(ReportMetrics).
				Dimensions(ReportDimensions).
				Sort(ReportSort).
				MaxResults(ReportMaxResults).
				Context(ctx).
				Do()
			return err
		})
	if err != nil {
		return nil, google.WrapAPIError(instrumentation.ServiceYouTubeAnalytics, instrumentation.OperationQuery, err)
	}

	return toReport(TopVideosTitle, table), nil
}

func toReport(title string, table *youtubeanalytics.QueryResponse) *Report {
	r := &Report{Title: title}
	if table == nil {
		return r
	}
	for _, h := range table.ColumnHeaders {
		if h == nil {
			continue
		}
		r.Columns = append(r.Columns, Column{Name: h.Name, Type: ParseColumnType(h.DataType)})
	}
	r.Rows = table.Rows
	return r
}

package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"

	"github.com/teemow/gsamples/internal/instrumentation"
	"github.com/teemow/gsamples/internal/logging"
)

// URLDeliverer hands a consent URL to the user.
type URLDeliverer interface {
	Deliver(url string) DeliveryResult
}

// Flow runs the authorization-code flow for one AuthRequest and keeps the
// resulting credential in a CredentialStore.
type Flow struct {
	request   AuthRequest
	receiver  CodeReceiver
	store     CredentialStore
	deliverer URLDeliverer
	logger    logging.Logger
	metrics   *instrumentation.Metrics
	newState  func() string
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithStore sets the credential store. The default keeps tokens in memory only.
func WithStore(store CredentialStore) FlowOption {
	return func(f *Flow) {
		if store != nil {
			f.store = store
		}
	}
}

// WithDeliverer sets how consent URLs reach the user.
func WithDeliverer(d URLDeliverer) FlowOption {
	return func(f *Flow) {
		if d != nil {
			f.deliverer = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) FlowOption {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) FlowOption {
	return func(f *Flow) {
		f.metrics = m
	}
}

// withStateGenerator overrides the state generator in tests.
func withStateGenerator(gen func() string) FlowOption {
	return func(f *Flow) {
		f.newState = gen
	}
}

// NewFlow creates a flow for req that obtains codes through receiver.
func NewFlow(req AuthRequest, receiver CodeReceiver, opts ...FlowOption) *Flow {
	f := &Flow{
		request:   req,
		receiver:  receiver,
		store:     NewMemoryStore(nil),
		deliverer: URLPresenter{Browser: NewSystemBrowser()},
		logger:    logging.DefaultLogger(),
		newState:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Store returns the flow's credential store.
func (f *Flow) Store() CredentialStore { return f.store }

// HasToken reports whether the store holds a usable credential.
func (f *Flow) HasToken() bool {
	tok, err := f.store.Read()
	return err == nil && usable(tok)
}

// usable reports whether tok can authenticate a request now or after a refresh.
func usable(tok *oauth2.Token) bool {
	return tok != nil && (tok.Valid() || tok.RefreshToken != "")
}

// Token returns the stored credential when it is usable, and otherwise runs
// an interactive authorization and stores the result.
func (f *Flow) Token(ctx context.Context) (*oauth2.Token, error) {
	if err := f.store.Init(); err != nil {
		return nil, err
	}

	tok, err := f.store.Read()
	switch {
	case err == nil && usable(tok):
		f.logger.Debug("Using stored credential", logging.Flow(f.receiver.Flow()))
		f.metrics.RecordOAuthAuth(ctx, f.receiver.Flow(), instrumentation.OAuthResultCached)
		return tok, nil
	case err == nil:
		f.logger.Info("Stored credential expired without refresh token, re-authorizing")
	case errors.Is(err, ErrNoCredential):
		f.logger.Debug("No stored credential, authorizing")
	default:
		f.logger.Warn("Ignoring unreadable stored credential", logging.Err(err))
	}

	tok, err = f.Authorize(ctx)
	if err != nil {
		return nil, err
	}
	if err := f.store.Write(tok); err != nil {
		return nil, fmt.Errorf("storing credential: %w", err)
	}
	return tok, nil
}

// Authorize runs one interactive authorization without consulting the store.
func (f *Flow) Authorize(ctx context.Context) (tok *oauth2.Token, err error) {
	flow := f.receiver.Flow()

	ctx, span := instrumentation.StartOAuthSpan(ctx, flow)
	defer func() {
		result := instrumentation.OAuthResultSuccess
		if err != nil {
			result = instrumentation.OAuthResultFailure
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		f.metrics.RecordOAuthAuth(ctx, flow, result)
		span.End()
	}()

	state := f.newState()
	redirectURL, err := f.receiver.Start(ctx, state)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.receiver.Close(); cerr != nil {
			f.logger.Warn("Failed to close code receiver", logging.Err(cerr))
		}
	}()

	req := f.request.WithRedirectURL(redirectURL)
	delivery := f.deliverer.Deliver(req.AuthCodeURL(state))
	span.SetAttributes(attribute.String(instrumentation.SpanAttrOAuthDelivery, delivery.Method.String()))
	if delivery.BrowserErr != nil {
		f.logger.Warn("Could not open browser, printed the authorization URL instead", logging.Err(delivery.BrowserErr))
	}
	f.logger.Debug("Authorization URL delivered",
		logging.Flow(flow),
		"delivery", delivery.Method.String(),
	)

	code, err := f.receiver.WaitForCode(ctx)
	if err != nil {
		return nil, err
	}

	tok, err = req.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Authorization complete",
		logging.Flow(flow),
		logging.Token("access_token", tok.AccessToken),
		"refresh_token", tok.RefreshToken != "",
	)
	return tok, nil
}

// HTTPClient returns a client authenticated with the flow's credential.
// Refreshed tokens are written back to the store.
func (f *Flow) HTTPClient(ctx context.Context) (*http.Client, error) {
	tok, err := f.Token(ctx)
	if err != nil {
		return nil, err
	}

	src := f.request.Config().TokenSource(ctx, tok)
	return NewHTTPClient(ctx, &persistingTokenSource{
		base:    src,
		store:   f.store,
		metrics: f.metrics,
		logger:  f.logger,
		ctx:     ctx,
		last:    tok.AccessToken,
	}), nil
}

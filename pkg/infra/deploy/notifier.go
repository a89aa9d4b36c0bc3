package deploy

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/domain/types"
)

const authHeader = "X-Admin-Key"

// Notifier delivers the control-plane call with bounded retry. One
// Notifier instance serves one deployment target and is safe for
// concurrent use.
type Notifier struct {
	endpoint       string
	adminKey       string
	client         *http.Client
	maxAttempts    int
	backoff        BackoffPolicy
	attemptTimeout time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

// Option is a functional option for Notifier configuration
type Option func(*Notifier)

// WithHTTPClient replaces the HTTP client used for delivery
func WithHTTPClient(client *http.Client) Option {
	return func(x *Notifier) {
		x.client = client
	}
}

// WithMaxAttempts sets the retry budget, minimum 1
func WithMaxAttempts(n int) Option {
	return func(x *Notifier) {
		if n >= 1 {
			x.maxAttempts = n
		}
	}
}

// WithBackoff replaces the backoff policy between attempts
func WithBackoff(policy BackoffPolicy) Option {
	return func(x *Notifier) {
		x.backoff = policy
	}
}

// WithAttemptTimeout bounds a single attempt, distinct from the
// overall retry budget
func WithAttemptTimeout(d time.Duration) Option {
	return func(x *Notifier) {
		x.attemptTimeout = d
	}
}

// New creates a Notifier for the given deployment endpoint
func New(endpoint, adminKey string, opts ...Option) *Notifier {
	n := &Notifier{
		endpoint:       endpoint,
		adminKey:       adminKey,
		client:         http.DefaultClient,
		maxAttempts:    3,
		backoff:        Exponential(time.Second, 30*time.Second),
		attemptTimeout: 10 * time.Second,
		sleep:          sleepContext,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// buildRequest constructs the single-use request from configuration.
// Fails before any network call when the credential is unusable.
func (x *Notifier) buildRequest() (*model.DeploymentRequest, error) {
	if x.adminKey == "" {
		return nil, goerr.New("deployment credential is missing",
			goerr.T(types.ErrTagAuth),
		)
	}
	if strings.ContainsAny(x.adminKey, " \r\n") {
		return nil, goerr.New("deployment credential is malformed",
			goerr.T(types.ErrTagAuth),
		)
	}

	return &model.DeploymentRequest{
		Endpoint: x.endpoint,
		Method:   http.MethodPatch,
		Headers: map[string]string{
			authHeader: x.adminKey,
		},
	}, nil
}

// Notify sends the control call, retrying on transport errors and 5xx
// responses. 4xx responses are permanent failures and stop the loop.
// Cancellation before the first successful attempt yields Aborted.
func (x *Notifier) Notify(ctx context.Context) (*model.DeploymentOutcome, error) {
	logger := ctxlog.From(ctx)

	req, err := x.buildRequest()
	if err != nil {
		return nil, err
	}

	state := model.NotifyPending
	outcome := &model.DeploymentOutcome{}

	for attempt := 1; attempt <= x.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return x.abort(state, outcome), nil
		}

		state = model.NotifyAttempting
		outcome.AttemptCount = attempt

		code, err := x.attempt(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return x.abort(state, outcome), nil
			}
			logger.Warn("Deployment attempt failed",
				"attempt", attempt,
				"max_attempts", x.maxAttempts,
				"error", err,
			)
		} else {
			outcome.LastHTTPCode = code

			switch {
			case code >= 200 && code < 300:
				state = model.NotifySuccess
				outcome.FinalStatus = model.StatusSuccess
				outcome.Reason = fmt.Sprintf("deployment endpoint accepted request (HTTP %d)", code)
				logger.Info("Deployment notification succeeded",
					"attempt", attempt,
					"http_code", code,
				)
				return outcome, nil

			case code >= 400 && code < 500:
				state = model.NotifyFailed
				outcome.FinalStatus = model.StatusFailed
				outcome.Reason = fmt.Sprintf("deployment endpoint rejected request (HTTP %d)", code)
				logger.Error("Deployment notification permanently rejected",
					"attempt", attempt,
					"http_code", code,
				)
				return outcome, nil

			default:
				logger.Warn("Deployment endpoint returned server error",
					"attempt", attempt,
					"max_attempts", x.maxAttempts,
					"http_code", code,
				)
			}
		}

		if attempt < x.maxAttempts {
			if err := x.sleep(ctx, x.backoff(attempt)); err != nil {
				return x.abort(state, outcome), nil
			}
		}
	}

	outcome.FinalStatus = model.StatusFailed
	outcome.Reason = fmt.Sprintf("retry budget exhausted after %d attempts", outcome.AttemptCount)
	return outcome, nil
}

// attempt performs exactly one HTTP delivery under the per-attempt timeout
func (x *Notifier) attempt(ctx context.Context, req *model.DeploymentRequest) (int, error) {
	attemptCtx := ctx
	if x.attemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, x.attemptTimeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, req.Endpoint, bytes.NewReader(req.Payload))
	if err != nil {
		return 0, goerr.Wrap(err, "failed to build deployment request",
			goerr.T(types.ErrTagPermanent),
			goerr.V("endpoint", req.Endpoint),
		)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := x.client.Do(httpReq)
	if err != nil {
		return 0, goerr.Wrap(err, "deployment request failed",
			goerr.T(types.ErrTagTransient),
			goerr.V("endpoint", req.Endpoint),
		)
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

func (x *Notifier) abort(state model.NotifyState, outcome *model.DeploymentOutcome) *model.DeploymentOutcome {
	if !state.CanTransition(model.NotifyAborted) {
		return outcome
	}
	outcome.FinalStatus = model.StatusAborted
	outcome.Reason = "cancelled before a successful attempt"
	return outcome
}

// sleepContext waits for d, returning early when ctx is cancelled
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

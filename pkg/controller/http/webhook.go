package http

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/interfaces"
	"github.com/m-mizutani/drover/pkg/domain/model"
	"github.com/m-mizutani/drover/pkg/utils/async"
)

// WebhookHandler receives GitHub push webhooks and dispatches pipeline
// runs for pushes to the configured branch
type WebhookHandler struct {
	secret     string
	branch     string
	pipelineUC interfaces.PipelineUseCase
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(secret, branch string, pipelineUC interfaces.PipelineUseCase) *WebhookHandler {
	return &WebhookHandler{
		secret:     secret,
		branch:     branch,
		pipelineUC: pipelineUC,
	}
}

// Handle processes webhook requests. The pipeline itself runs
// asynchronously so the delivery is acknowledged before any retry
// loop starts.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", "error", err)
		writeError(w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Hub-Signature-256")
	if !h.verifySignature(body, signature) {
		logger.Warn("Invalid webhook signature")
		writeError(w, goerr.New("invalid signature"), http.StatusUnauthorized)
		return
	}

	eventType := r.Header.Get("X-GitHub-Event")
	if eventType != "push" {
		logger.Info("Ignoring non-push event", "event_type", eventType)
		writeStatus(w, http.StatusOK, "ignored")
		return
	}

	payload, err := github.ParseWebHook(eventType, body)
	if err != nil {
		logger.Error("Failed to parse webhook payload", "error", err)
		writeError(w, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	pushEvent, ok := payload.(*github.PushEvent)
	if !ok {
		writeError(w, goerr.New("unexpected payload type"), http.StatusBadRequest)
		return
	}

	event := &model.TriggerEvent{
		ID:         r.Header.Get("X-GitHub-Delivery"),
		SourceRef:  pushEvent.GetRef(),
		CommitSHA:  pushEvent.GetAfter(),
		Repository: pushEvent.GetRepo().GetFullName(),
		Actor:      pushEvent.GetSender().GetLogin(),
		ReceivedAt: time.Now(),
	}

	if event.Branch() != h.branch {
		logger.Info("Ignoring push to non-deployment branch",
			"ref", event.SourceRef,
			"deployment_branch", h.branch,
		)
		writeStatus(w, http.StatusOK, "ignored")
		return
	}

	logger.Info("Accepted deployment trigger",
		"event_id", event.ID,
		"repository", event.Repository,
		"ref", event.SourceRef,
		"actor", event.Actor,
	)

	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := h.pipelineUC.Run(ctx, event)
		return err
	})

	writeStatus(w, http.StatusAccepted, "accepted")
}

// verifySignature verifies the webhook HMAC-SHA256 signature
func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}

	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(payload)
	expectedMAC := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expectedMAC))
}

// writeStatus writes a JSON status response
func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
	})
}

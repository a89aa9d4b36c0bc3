package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	controller "github.com/m-mizutani/drover/pkg/controller/http"
	"github.com/m-mizutani/drover/pkg/domain/model"
)

// mockPipeline records pipeline invocations and signals each one
type mockPipeline struct {
	mu     sync.Mutex
	events []*model.TriggerEvent
	called chan struct{}
}

func newMockPipeline() *mockPipeline {
	return &mockPipeline{called: make(chan struct{}, 16)}
}

func (x *mockPipeline) Run(ctx context.Context, event *model.TriggerEvent) (*model.PipelineRun, error) {
	x.mu.Lock()
	x.events = append(x.events, event)
	x.mu.Unlock()
	x.called <- struct{}{}
	return &model.PipelineRun{ID: "test-run", Event: *event}, nil
}

func (x *mockPipeline) callCount() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.events)
}

// generateSignature generates HMAC-SHA256 signature for testing
func generateSignature(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func pushPayload(ref string) []byte {
	payload := map[string]interface{}{
		"ref":   ref,
		"after": "abc123def456",
		"repository": map[string]interface{}{
			"full_name": "test/repo",
		},
		"sender": map[string]interface{}{
			"login": "testuser",
		},
	}
	raw, _ := json.Marshal(payload)
	return raw
}

func TestWebhookHandler_SignatureVerification(t *testing.T) {
	secret := "test-secret"
	uc := newMockPipeline()
	handler := controller.NewWebhookHandler(secret, "main", uc)

	tests := []struct {
		name           string
		payload        []byte
		signature      string
		wantStatusCode int
	}{
		{
			name:           "Valid signature",
			payload:        pushPayload("refs/heads/main"),
			signature:      "", // Will be generated
			wantStatusCode: http.StatusAccepted,
		},
		{
			name:           "Invalid signature",
			payload:        pushPayload("refs/heads/main"),
			signature:      "sha256=invalid",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "Missing signature",
			payload:        pushPayload("refs/heads/main"),
			signature:      "none",
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signature := tt.signature
			if signature == "" {
				signature = generateSignature(secret, tt.payload)
			} else if signature == "none" {
				signature = ""
			}

			req := httptest.NewRequest(http.MethodPost, "/hooks/github", bytes.NewReader(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-GitHub-Event", "push")
			req.Header.Set("X-GitHub-Delivery", "test-delivery")
			req.Header.Set("X-Hub-Signature-256", signature)

			w := httptest.NewRecorder()
			handler.Handle(w, req)

			if w.Code != tt.wantStatusCode {
				t.Errorf("Handle() status = %v, want %v, body = %s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestWebhookHandler_TriggersPipelineForDeploymentBranch(t *testing.T) {
	secret := "test-secret"
	uc := newMockPipeline()
	handler := controller.NewWebhookHandler(secret, "main", uc)

	payload := pushPayload("refs/heads/main")
	req := httptest.NewRequest(http.MethodPost, "/hooks/github", bytes.NewReader(payload))
	req.Header.Set("X-GitHub-Event", "push")
	req.Header.Set("X-GitHub-Delivery", "delivery-42")
	req.Header.Set("X-Hub-Signature-256", generateSignature(secret, payload))

	w := httptest.NewRecorder()
	handler.Handle(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Handle() status = %v, want %v, body = %s", w.Code, http.StatusAccepted, w.Body.String())
	}

	select {
	case <-uc.called:
	case <-time.After(time.Second):
		t.Fatal("pipeline was not invoked")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	event := uc.events[0]
	if event.ID != "delivery-42" {
		t.Errorf("event.ID = %v, want delivery-42", event.ID)
	}
	if event.SourceRef != "refs/heads/main" {
		t.Errorf("event.SourceRef = %v, want refs/heads/main", event.SourceRef)
	}
	if event.Repository != "test/repo" {
		t.Errorf("event.Repository = %v, want test/repo", event.Repository)
	}
	if event.Actor != "testuser" {
		t.Errorf("event.Actor = %v, want testuser", event.Actor)
	}
	if event.CommitSHA != "abc123def456" {
		t.Errorf("event.CommitSHA = %v, want abc123def456", event.CommitSHA)
	}
}

func TestWebhookHandler_IgnoresOtherBranches(t *testing.T) {
	secret := "test-secret"
	uc := newMockPipeline()
	handler := controller.NewWebhookHandler(secret, "main", uc)

	payload := pushPayload("refs/heads/feature/wip")
	req := httptest.NewRequest(http.MethodPost, "/hooks/github", bytes.NewReader(payload))
	req.Header.Set("X-GitHub-Event", "push")
	req.Header.Set("X-GitHub-Delivery", "test-delivery")
	req.Header.Set("X-Hub-Signature-256", generateSignature(secret, payload))

	w := httptest.NewRecorder()
	handler.Handle(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Handle() status = %v, want %v", w.Code, http.StatusOK)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["status"] != "ignored" {
		t.Errorf("Response status = %v, want ignored", response["status"])
	}
	if uc.callCount() != 0 {
		t.Errorf("pipeline invocations = %d, want 0", uc.callCount())
	}
}

func TestWebhookHandler_IgnoresNonPushEvents(t *testing.T) {
	secret := "test-secret"
	uc := newMockPipeline()
	handler := controller.NewWebhookHandler(secret, "main", uc)

	payload := []byte(`{"zen": "Keep it logically awesome."}`)
	req := httptest.NewRequest(http.MethodPost, "/hooks/github", bytes.NewReader(payload))
	req.Header.Set("X-GitHub-Event", "ping")
	req.Header.Set("X-GitHub-Delivery", "test-delivery")
	req.Header.Set("X-Hub-Signature-256", generateSignature(secret, payload))

	w := httptest.NewRecorder()
	handler.Handle(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Handle() status = %v, want %v", w.Code, http.StatusOK)
	}
	if uc.callCount() != 0 {
		t.Errorf("pipeline invocations = %d, want 0", uc.callCount())
	}
}

func TestWebhookHandler_Integration(t *testing.T) {
	ctx := context.Background()
	secret := "integration-test-secret"
	uc := newMockPipeline()

	server, err := controller.NewServer(
		ctx,
		uc,
		controller.WithAddr("localhost:0"),
		controller.WithWebhookSecret(secret),
		controller.WithBranch("main"),
	)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	payload := pushPayload("refs/heads/main")
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/hooks/github", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "push")
	req.Header.Set("X-GitHub-Delivery", "integration-test")
	req.Header.Set("X-Hub-Signature-256", generateSignature(secret, payload))

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer func() {
		_ = resp.Body.Close() // Error ignored in test
	}()

	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("Status code = %v, want %v", resp.StatusCode, http.StatusAccepted)
	}

	select {
	case <-uc.called:
	case <-time.After(time.Second):
		t.Fatal("pipeline was not invoked")
	}
}

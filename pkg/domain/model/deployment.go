package model

// DeploymentRequest is the single control-plane call instructing the
// remote system to update itself. Built by the notifier from its
// configuration, used for one delivery, then discarded.
type DeploymentRequest struct {
	Endpoint string            // Target URL
	Method   string            // Always PATCH
	Headers  map[string]string // Includes the X-Admin-Key credential
	Payload  []byte            // Opaque request body, may be empty
}

// FinalStatus is the terminal result of a pipeline run
type FinalStatus string

const (
	StatusSuccess FinalStatus = "success"
	StatusFailed  FinalStatus = "failed"
	StatusAborted FinalStatus = "aborted"
)

// NotifyState tracks the notifier delivery state machine:
// Pending -> Attempting -> {Success | Failed | Aborted}
type NotifyState string

const (
	NotifyPending    NotifyState = "pending"
	NotifyAttempting NotifyState = "attempting"
	NotifySuccess    NotifyState = "success"
	NotifyFailed     NotifyState = "failed"
	NotifyAborted    NotifyState = "aborted"
)

// Terminal reports whether the state permits no further transitions
func (s NotifyState) Terminal() bool {
	switch s {
	case NotifySuccess, NotifyFailed, NotifyAborted:
		return true
	}
	return false
}

// CanTransition reports whether moving to next is a legal transition
func (s NotifyState) CanTransition(next NotifyState) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case NotifyPending:
		return next == NotifyAttempting || next == NotifyAborted
	case NotifyAttempting:
		return next.Terminal()
	}
	return false
}

// DeploymentOutcome records how a notification attempt sequence ended.
// FinalStatus is Success iff some attempt returned a 2xx code.
type DeploymentOutcome struct {
	AttemptCount int         `firestore:"attempt_count"` // Attempts started; 0 only when aborted before any attempt
	FinalStatus  FinalStatus `firestore:"final_status"`
	LastHTTPCode int         `firestore:"last_http_code"` // 0 when no response was received
	Reason       string      `firestore:"reason"`         // Human-readable explanation
}

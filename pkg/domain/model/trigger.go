package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/types"
)

// TriggerEvent represents a single deployment trigger. It is created by
// the event source (webhook delivery or CLI invocation) and consumed
// once by the pipeline coordinator.
type TriggerEvent struct {
	ID         string    `firestore:"id"`          // Delivery ID from the event source
	SourceRef  string    `firestore:"source_ref"`  // Git ref, e.g. refs/heads/main
	CommitSHA  string    `firestore:"commit_sha"`  // Commit the trigger points at
	Repository string    `firestore:"repository"`  // Repository full name
	Actor      string    `firestore:"actor"`       // User who triggered the event
	ReceivedAt time.Time `firestore:"received_at"` // Time when the event was received
}

// Validate checks the minimum fields required to run a pipeline
func (e *TriggerEvent) Validate() error {
	if e.SourceRef == "" {
		return goerr.New("trigger event has empty source ref",
			goerr.T(types.ErrTagConfig),
			goerr.V("event_id", e.ID),
		)
	}
	return nil
}

// Branch returns the branch name for branch refs, or the raw ref
// otherwise (tag refs never match a branch filter).
func (e *TriggerEvent) Branch() string {
	return strings.TrimPrefix(e.SourceRef, "refs/heads/")
}

package model

import "time"

// PipelineRun is the audit record of one coordinator execution
type PipelineRun struct {
	ID         string             `firestore:"id"`
	Event      TriggerEvent       `firestore:"event"`
	Report     *QualityReport     `firestore:"report,omitempty"`
	Outcome    *DeploymentOutcome `firestore:"outcome,omitempty"`
	StartedAt  time.Time          `firestore:"started_at"`
	FinishedAt time.Time          `firestore:"finished_at"`
}

// Status returns the terminal status of the run
func (r *PipelineRun) Status() FinalStatus {
	if r.Outcome == nil {
		return StatusAborted
	}
	return r.Outcome.FinalStatus
}

package audit

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// SlackSink posts pipeline results to a Slack channel
type SlackSink struct {
	client  *slack.Client
	channel string
}

// NewSlackSink creates a SlackSink for the given bot token and channel
func NewSlackSink(token, channel string) *SlackSink {
	return &SlackSink{
		client:  slack.New(token),
		channel: channel,
	}
}

// Record posts a summary of the pipeline run. Slack serializes posts
// per channel, so no extra locking is needed here.
func (x *SlackSink) Record(ctx context.Context, run *model.PipelineRun) error {
	attachment := slack.Attachment{
		Color: statusColor(run.Status()),
		Title: fmt.Sprintf("Deployment %s: %s", run.Status(), run.Event.Repository),
		Fields: []slack.AttachmentField{
			{Title: "Ref", Value: run.Event.SourceRef, Short: true},
			{Title: "Actor", Value: run.Event.Actor, Short: true},
		},
	}

	if run.Report != nil {
		attachment.Fields = append(attachment.Fields, slack.AttachmentField{
			Title: "Quality score",
			Value: fmt.Sprintf("%.2f / %.2f required", run.Report.Score, run.Report.Threshold),
			Short: true,
		})
	}

	if run.Outcome != nil {
		attachment.Fields = append(attachment.Fields, slack.AttachmentField{
			Title: "Result",
			Value: fmt.Sprintf("%s after %d attempt(s)", run.Outcome.Reason, run.Outcome.AttemptCount),
			Short: false,
		})
	}

	_, _, err := x.client.PostMessageContext(ctx, x.channel,
		slack.MsgOptionAttachments(attachment),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post audit message to Slack",
			goerr.V("channel", x.channel),
			goerr.V("run_id", run.ID),
		)
	}

	return nil
}

func statusColor(status model.FinalStatus) string {
	switch status {
	case model.StatusSuccess:
		return "good"
	case model.StatusFailed:
		return "danger"
	default:
		return "warning"
	}
}

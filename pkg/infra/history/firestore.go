package history

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"

	"github.com/m-mizutani/drover/pkg/domain/model"
)

// Firestore persists pipeline runs to a Firestore collection
type Firestore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore creates a Firestore history store
func NewFirestore(ctx context.Context, projectID, collection string) (*Firestore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client",
			goerr.V("project_id", projectID),
		)
	}

	return &Firestore{
		client:     client,
		collection: collection,
	}, nil
}

// Put stores the run keyed by its run ID
func (x *Firestore) Put(ctx context.Context, run *model.PipelineRun) error {
	_, err := x.client.Collection(x.collection).Doc(run.ID).Set(ctx, run)
	if err != nil {
		return goerr.Wrap(err, "failed to store pipeline run",
			goerr.V("run_id", run.ID),
		)
	}
	return nil
}

// List returns up to limit runs, newest first
func (x *Firestore) List(ctx context.Context, limit int) ([]*model.PipelineRun, error) {
	query := x.client.Collection(x.collection).
		OrderBy("started_at", firestore.Desc).
		Limit(limit)

	var runs []*model.PipelineRun
	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate pipeline runs")
		}

		var run model.PipelineRun
		if err := doc.DataTo(&run); err != nil {
			return nil, goerr.Wrap(err, "failed to decode pipeline run",
				goerr.V("doc_id", doc.Ref.ID),
			)
		}
		runs = append(runs, &run)
	}

	return runs, nil
}

// Close releases the underlying client
func (x *Firestore) Close() error {
	return x.client.Close()
}

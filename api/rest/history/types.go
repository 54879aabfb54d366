package history

import (
	"context"

	"codeberg.org/cosmicquirks/server/cosmicquirks/predictions"
)

// reads and soft-deletes a user's saved readings
type PredictionLister interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*predictions.Prediction, int, error)
	Deactivate(ctx context.Context, id, userID string) (bool, error)
}

// ListResponse is a page of saved readings.
type ListResponse struct {
	Predictions []*predictions.Prediction `json:"predictions"`
	Total       int                       `json:"total"`
	Limit       int                       `json:"limit"`
	Offset      int                       `json:"offset"`
}

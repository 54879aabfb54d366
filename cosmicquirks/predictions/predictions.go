package predictions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// DuplicateMatch identifies an already saved copy of a reading.
type DuplicateMatch struct {
	ID        string
	CreatedAt time.Time
}

// Insert persists a reading and returns it with its assigned ID.
// JSON columns take NULL rather than empty objects when absent.
func (r *Repository) Insert(ctx context.Context, record Record) (*Prediction, error) {
	variants, err := marshalJSONColumn(record.ImageVariants)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image variants: %w", err)
	}
	metadata, err := marshalJSONColumn(record.Metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}

	prediction := &Prediction{
		UserID:               record.UserID,
		FormType:             record.FormType,
		InputName:            record.InputName,
		InputBirthdate:       record.InputBirthdate,
		Question:             record.Question,
		CharacterName:        record.CharacterName,
		CharacterDescription: record.CharacterDescription,
		PredictionText:       record.PredictionText,
		CharacterImage:       record.CharacterImage,
		ImageVariants:        record.ImageVariants,
		Metadata:             record.Metadata,
		GenerationSource:     record.GenerationSource,
		IsActive:             true,
	}

	err = r.db.QueryRow(ctx, queryInsertPrediction,
		record.UserID, record.FormType, record.InputName, record.InputBirthdate,
		record.Question, record.CharacterName, record.CharacterDescription,
		record.PredictionText, nullableText(record.CharacterImage),
		variants, metadata, record.GenerationSource,
	).Scan(&prediction.ID, &prediction.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert prediction: %w", err)
	}

	return prediction, nil
}

// FindDuplicate looks for an active saved reading with the same character,
// text and question for the user. Returns nil when none exists.
func (r *Repository) FindDuplicate(ctx context.Context, userID, characterName, predictionText, question string) (*DuplicateMatch, error) {
	match := &DuplicateMatch{}
	err := r.db.QueryRow(ctx, queryFindDuplicate,
		userID, characterName, predictionText, question,
	).Scan(&match.ID, &match.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate prediction: %w", err)
	}
	return match, nil
}

// ListByUser returns a page of the user's active readings, newest first,
// along with the total count for pagination.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Prediction, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, queryCountByUser, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count predictions: %w", err)
	}

	rows, err := r.db.Query(ctx, queryListByUser, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	var results []*Prediction
	for rows.Next() {
		p := &Prediction{}
		var image *string
		var variants, metadata []byte
		err := rows.Scan(
			&p.ID, &p.UserID, &p.FormType, &p.InputName, &p.InputBirthdate,
			&p.Question, &p.CharacterName, &p.CharacterDescription,
			&p.PredictionText, &image, &variants, &metadata,
			&p.GenerationSource, &p.IsActive, &p.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan prediction: %w", err)
		}
		if image != nil {
			p.CharacterImage = *image
		}
		if err := unmarshalJSONColumn(variants, &p.ImageVariants); err != nil {
			return nil, 0, fmt.Errorf("failed to decode image variants: %w", err)
		}
		if err := unmarshalJSONColumn(metadata, &p.Metadata); err != nil {
			return nil, 0, fmt.Errorf("failed to decode metadata: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read predictions: %w", err)
	}

	return results, total, nil
}

// Deactivate soft-deletes a reading. Returns false when the reading does
// not exist, is already inactive, or belongs to another user.
func (r *Repository) Deactivate(ctx context.Context, id, userID string) (bool, error) {
	tag, err := r.db.Exec(ctx, queryDeactivate, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate prediction: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// jsonb params travel as text literals so they stay compatible with the
// simple query protocol used for the pooler
func marshalJSONColumn(value map[string]any) (*string, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	encoded := string(raw)
	return &encoded, nil
}

func unmarshalJSONColumn(raw []byte, target *map[string]any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package predictions

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// a stored reading together with its presentation artifacts
type Prediction struct {
	ID                   string         `json:"id"`
	UserID               string         `json:"user_id"`
	FormType             string         `json:"form_type"`
	InputName            string         `json:"input_name"`
	InputBirthdate       string         `json:"input_birthdate"`
	Question             string         `json:"question"`
	CharacterName        string         `json:"character_name"`
	CharacterDescription string         `json:"character_description"`
	PredictionText       string         `json:"prediction_text"`
	CharacterImage       string         `json:"character_image,omitempty"`
	ImageVariants        map[string]any `json:"image_variants,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
	GenerationSource     string         `json:"generation_source"`
	IsActive             bool           `json:"is_active"`
	CreatedAt            time.Time      `json:"created_at"`
}

// fields required to persist a reading
type Record struct {
	UserID               string
	FormType             string
	InputName            string
	InputBirthdate       string
	Question             string
	CharacterName        string
	CharacterDescription string
	PredictionText       string
	CharacterImage       string
	ImageVariants        map[string]any
	Metadata             map[string]any
	GenerationSource     string
}

// persisted reading history
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

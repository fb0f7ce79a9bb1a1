package ops

import (
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/memora-app/memora/internal/db"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/memory"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	UserID      string
	Title       string  // required
	Description *string // optional
	Type        string  // note|photo|audio|video
	Content     string  // required: note text or a content reference
	Tags        []string
	Date        *int64 // when the memory occurred; default: now
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	Memory memory.Record `json:"memory"`
}

// Create stores a new memory record.
func Create(database *sql.DB, input CreateInput) (*CreateOutput, error) {
	userID, err := requireUser(input.UserID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	if !memory.ValidType(input.Type) {
		return nil, errors.NewInvalidRequest("type must be one of: note, photo, audio, video")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, errors.NewInvalidRequest("content is required")
	}

	now := time.Now().Unix()
	date := now
	if input.Date != nil {
		date = *input.Date
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	rec := memory.Record{
		ID:          id,
		UserID:      userID,
		Title:       title,
		Description: cleanOptionalString(input.Description),
		Type:        memory.Type(strings.TrimSpace(input.Type)),
		Content:     input.Content,
		Tags:        cleanTags(input.Tags),
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := db.Insert(database, &rec); err != nil {
		return nil, err
	}

	return &CreateOutput{Memory: rec}, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// cleanOptionalString trims an optional string, mapping blank to nil.
func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

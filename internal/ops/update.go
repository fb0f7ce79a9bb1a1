package ops

import (
	"database/sql"
	"strings"

	"github.com/memora-app/memora/internal/db"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/memory"
)

// UpdateInput contains parameters for the Update operation.
// Nil fields are left unchanged.
type UpdateInput struct {
	UserID      string
	ID          string
	Title       *string
	Description *string
	Type        *string
	Content     *string
	Tags        *[]string
	Date        *int64
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	Memory memory.Record `json:"memory"`
}

// Update modifies an existing memory. At least one field must be provided.
func Update(database *sql.DB, input UpdateInput) (*UpdateOutput, error) {
	userID, err := requireUser(input.UserID)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if input.Title == nil && input.Description == nil && input.Type == nil &&
		input.Content == nil && input.Tags == nil && input.Date == nil {
		return nil, errors.NewInvalidRequest("must provide at least one field to update")
	}

	rec, err := db.GetByID(database, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.NewInvalidRequest("title must not be empty")
		}
		rec.Title = title
	}
	if input.Description != nil {
		rec.Description = cleanOptionalString(input.Description)
	}
	if input.Type != nil {
		if !memory.ValidType(*input.Type) {
			return nil, errors.NewInvalidRequest("type must be one of: note, photo, audio, video")
		}
		rec.Type = memory.Type(strings.TrimSpace(*input.Type))
	}
	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, errors.NewInvalidRequest("content must not be empty")
		}
		rec.Content = *input.Content
	}
	if input.Tags != nil {
		rec.Tags = cleanTags(*input.Tags)
	}
	if input.Date != nil {
		rec.Date = *input.Date
	}

	if err := db.UpdateByID(database, rec); err != nil {
		return nil, err
	}

	return &UpdateOutput{Memory: *rec}, nil
}

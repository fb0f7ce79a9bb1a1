package ops

import (
	"database/sql"
	"strings"

	"github.com/memora-app/memora/internal/db"
	"github.com/memora-app/memora/internal/errors"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	UserID string
	ID     string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Delete removes a memory permanently.
func Delete(database *sql.DB, input DeleteInput) (*DeleteOutput, error) {
	userID, err := requireUser(input.UserID)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if err := db.Delete(database, userID, id); err != nil {
		return nil, err
	}

	return &DeleteOutput{ID: id, Deleted: true}, nil
}

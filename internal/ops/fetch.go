package ops

import (
	"database/sql"
	"strings"

	"github.com/memora-app/memora/internal/db"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/memory"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	UserID string
	ID     string
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	Memory memory.Record `json:"memory"`
}

// Fetch retrieves a single memory by ID, scoped to the user.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	userID, err := requireUser(input.UserID)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	rec, err := db.GetByID(database, userID, id)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{Memory: *rec}, nil
}

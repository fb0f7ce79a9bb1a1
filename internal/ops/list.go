package ops

import (
	"database/sql"

	"github.com/memora-app/memora/internal/db"
	"github.com/memora-app/memora/internal/memory"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	UserID string
	Limit  int // default DefaultListLimit, capped at MaxListLimit
	Offset int
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []memory.Record `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

// List returns a page of the user's memories, most recent first.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	userID, err := requireUser(input.UserID)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	total, err := db.CountByUser(database, userID)
	if err != nil {
		return nil, err
	}

	items, err := db.ListByUser(database, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}

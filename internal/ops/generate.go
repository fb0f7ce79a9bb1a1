package ops

import (
	"context"
	"database/sql"

	"github.com/memora-app/memora/internal/capsule"
	"github.com/memora-app/memora/internal/db"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/llm"
)

// GenerateCapsuleInput contains parameters for the GenerateCapsule operation.
type GenerateCapsuleInput struct {
	UserID string
}

// GenerateCapsule loads the user's full memory collection and produces a
// capsule over it. An empty collection fails with EMPTY_COLLECTION before
// the model client is ever invoked. Nothing is persisted: the capsule is
// generated fresh per request and returned immediately.
func GenerateCapsule(ctx context.Context, database *sql.DB, client llm.Client, input GenerateCapsuleInput) (*capsule.Result, error) {
	userID, err := requireUser(input.UserID)
	if err != nil {
		return nil, err
	}

	// Full collection, date descending — the snapshot the prompt
	// builders' "first N" semantics depend on.
	records, err := db.ListByUser(database, userID, 0, 0)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.NewEmptyCollection()
	}

	return capsule.NewGenerator(client).Generate(ctx, records)
}

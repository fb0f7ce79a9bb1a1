package ops

import (
	"database/sql"

	"github.com/memora-app/memora/internal/db"
)

// CapsuleInfoInput contains parameters for the CapsuleInfo operation.
type CapsuleInfoInput struct {
	UserID string
}

// CapsuleInfoOutput reports whether capsule generation can proceed.
// It is a cheap precondition check, not a cache of past results.
type CapsuleInfoOutput struct {
	CanGenerate bool   `json:"canGenerate"`
	MemoryCount int    `json:"memoryCount"`
	Message     string `json:"message"`
}

// CapsuleInfo counts the user's memories without touching the generator.
func CapsuleInfo(database *sql.DB, input CapsuleInfoInput) (*CapsuleInfoOutput, error) {
	userID, err := requireUser(input.UserID)
	if err != nil {
		return nil, err
	}

	count, err := db.CountByUser(database, userID)
	if err != nil {
		return nil, err
	}

	message := "Add memories first to generate capsule"
	if count > 0 {
		message = "Ready to generate AI capsule"
	}

	return &CapsuleInfoOutput{
		CanGenerate: count > 0,
		MemoryCount: count,
		Message:     message,
	}, nil
}

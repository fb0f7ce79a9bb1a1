package ops

import (
	"database/sql"
	"testing"
	"time"

	"github.com/memora-app/memora/internal/db"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/memory"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func stringPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func TestCreate(t *testing.T) {
	database := setupTestDB(t)

	output, err := Create(database, CreateInput{
		UserID:      "alice",
		Title:       "First memory",
		Description: stringPtr("a longer note"),
		Type:        "note",
		Content:     "It was a good day.",
		Tags:        []string{"daily", "", "  mood  "},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rec := output.Memory
	if rec.ID == "" {
		t.Error("ID should be generated")
	}
	if rec.UserID != "alice" {
		t.Errorf("UserID = %q, want %q", rec.UserID, "alice")
	}
	if rec.Type != memory.TypeNote {
		t.Errorf("Type = %q, want note", rec.Type)
	}
	// Tags are trimmed and empties dropped
	if len(rec.Tags) != 2 || rec.Tags[0] != "daily" || rec.Tags[1] != "mood" {
		t.Errorf("Tags = %v, want [daily mood]", rec.Tags)
	}
	if rec.Date == 0 || rec.CreatedAt == 0 {
		t.Error("Date and CreatedAt should default to now")
	}
}

func TestCreate_ExplicitDate(t *testing.T) {
	database := setupTestDB(t)

	output, err := Create(database, CreateInput{
		UserID:  "alice",
		Title:   "Old memory",
		Type:    "photo",
		Content: "photos/old.jpg",
		Date:    int64Ptr(1500000000),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if output.Memory.Date != 1500000000 {
		t.Errorf("Date = %d, want 1500000000", output.Memory.Date)
	}
	if output.Memory.CreatedAt == 1500000000 {
		t.Error("CreatedAt should be the persist time, not the memory date")
	}
}

func TestCreate_Validation(t *testing.T) {
	database := setupTestDB(t)

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"missing user", CreateInput{Title: "t", Type: "note", Content: "c"}},
		{"missing title", CreateInput{UserID: "alice", Type: "note", Content: "c"}},
		{"blank title", CreateInput{UserID: "alice", Title: "   ", Type: "note", Content: "c"}},
		{"bad type", CreateInput{UserID: "alice", Title: "t", Type: "essay", Content: "c"}},
		{"missing content", CreateInput{UserID: "alice", Title: "t", Type: "note"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(database, tt.input)
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("expected INVALID_REQUEST, got %v", err)
			}
		})
	}
}

func TestCreate_ULIDsAreSortable(t *testing.T) {
	database := setupTestDB(t)

	var prev string
	for i := 0; i < 3; i++ {
		output, err := Create(database, CreateInput{
			UserID:  "alice",
			Title:   "memory",
			Type:    "note",
			Content: "c",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if output.Memory.ID <= prev {
			t.Errorf("ULID %q not monotonically increasing after %q", output.Memory.ID, prev)
		}
		prev = output.Memory.ID
		time.Sleep(2 * time.Millisecond)
	}
}

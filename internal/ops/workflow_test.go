package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/memora-app/memora/internal/db"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/llm"
	"github.com/memora-app/memora/internal/prompt"
)

// TestFullWorkflow exercises the complete memory lifecycle:
// create → fetch → update → list → capsule info → generate → delete → empty again
func TestFullWorkflow(t *testing.T) {
	database, err := db.Init(t.TempDir())
	require.NoError(t, err)
	defer database.Close()

	user := "workflow-user"

	// 1. Capsule info on a fresh vault
	info, err := CapsuleInfo(database, CapsuleInfoInput{UserID: user})
	require.NoError(t, err)
	require.False(t, info.CanGenerate)

	// 2. Create a few memories
	first, err := Create(database, CreateInput{
		UserID:      user,
		Title:       "Road trip",
		Description: stringPtr("Coast highway with friends"),
		Type:        "photo",
		Content:     "photos/coast.jpg",
		Tags:        []string{"travel"},
		Date:        int64Ptr(1705276800),
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.Memory.ID)

	second, err := Create(database, CreateInput{
		UserID:  user,
		Title:   "Moved apartments",
		Type:    "note",
		Content: "Finally unpacked the last box.",
		Date:    int64Ptr(1709251200),
	})
	require.NoError(t, err)

	// 3. Fetch
	fetched, err := Fetch(database, FetchInput{UserID: user, ID: first.Memory.ID})
	require.NoError(t, err)
	require.Equal(t, "Road trip", fetched.Memory.Title)

	// 4. Update a single field
	updated, err := Update(database, UpdateInput{
		UserID: user,
		ID:     first.Memory.ID,
		Title:  stringPtr("Coast road trip"),
	})
	require.NoError(t, err)
	require.Equal(t, "Coast road trip", updated.Memory.Title)
	require.Equal(t, []string{"travel"}, updated.Memory.Tags)

	// 5. List - most recent first
	listed, err := List(database, ListInput{UserID: user})
	require.NoError(t, err)
	require.Len(t, listed.Items, 2)
	require.Equal(t, second.Memory.ID, listed.Items[0].ID)

	// 6. Capsule info and generation
	info, err = CapsuleInfo(database, CapsuleInfoInput{UserID: user})
	require.NoError(t, err)
	require.True(t, info.CanGenerate)
	require.Equal(t, 2, info.MemoryCount)

	stub := llm.NewStubClient("a warm reflection")
	result, err := GenerateCapsule(context.Background(), database, stub, GenerateCapsuleInput{UserID: user})
	require.NoError(t, err)
	require.Equal(t, 2, result.TotalMemories)
	require.Len(t, result.Capsules, 5)
	require.Equal(t, "a warm reflection", result.Capsules[prompt.SectionSummary].Content)

	// 7. Delete everything
	for _, id := range []string{first.Memory.ID, second.Memory.ID} {
		_, err := Delete(database, DeleteInput{UserID: user, ID: id})
		require.NoError(t, err)
	}

	// 8. Generation is rejected again
	_, err = GenerateCapsule(context.Background(), database, stub, GenerateCapsuleInput{UserID: user})
	require.True(t, errors.Is(err, errors.ErrEmptyCollection))
}

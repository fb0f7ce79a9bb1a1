package capsule

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/llm"
	"github.com/memora-app/memora/internal/memory"
	"github.com/memora-app/memora/internal/prompt"
)

func stringPtr(s string) *string { return &s }

func testCollection() []memory.Record {
	return []memory.Record{
		{
			Title:       "Hiking trip",
			Type:        memory.TypePhoto,
			Description: stringPtr("Summit day"),
			Content:     "photos/hike.jpg",
			Tags:        []string{"outdoors"},
			Date:        1709251200,
		},
		{
			Title:   "New job",
			Type:    memory.TypeNote,
			Content: "Started at the lab today.",
			Date:    1707523200,
		},
		{
			Title:   "Grandma's birthday",
			Type:    memory.TypeVideo,
			Content: "videos/bday.mp4",
			Date:    1705276800,
		},
	}
}

func TestGenerate_AllSections(t *testing.T) {
	stub := llm.NewStubClient("generated content")
	gen := NewGenerator(stub)

	result, err := gen.Generate(context.Background(), testCollection())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if result.TotalMemories != 3 {
		t.Errorf("TotalMemories = %d, want 3", result.TotalMemories)
	}
	if len(result.Capsules) != 5 {
		t.Fatalf("len(Capsules) = %d, want 5", len(result.Capsules))
	}
	if result.GeneratedAt.IsZero() {
		t.Error("GeneratedAt should be set")
	}

	for _, key := range []prompt.SectionKey{
		prompt.SectionSummary, prompt.SectionEmotionalTone,
		prompt.SectionKeyMoments, prompt.SectionTimeline,
		prompt.SectionStorytelling,
	} {
		section, ok := result.Capsules[key]
		if !ok {
			t.Errorf("missing section %q", key)
			continue
		}
		if section.Content != "generated content" {
			t.Errorf("section %q content = %q", key, section.Content)
		}
		if section.Title == "" || section.Icon == "" {
			t.Errorf("section %q missing title or icon", key)
		}
	}

	// The emotionalTone key carries the legacy "emotional" type
	if result.Capsules[prompt.SectionEmotionalTone].Type != "emotional" {
		t.Errorf("emotionalTone Type = %q, want %q",
			result.Capsules[prompt.SectionEmotionalTone].Type, "emotional")
	}

	if stub.CallCount() != 5 {
		t.Errorf("CallCount = %d, want 5 (one per section)", stub.CallCount())
	}
}

func TestGenerate_DistinctResponsesPerSection(t *testing.T) {
	stub := &llm.StubClient{
		Response: "fallback",
		Responses: map[string]string{
			"meaningful summary":    "summary text",
			"emotional tone":        "emotional text",
			"KEY MOMENTS":           "moments text",
			"narrative timeline":    "timeline text",
			"compelling short stor": "stories text",
		},
	}
	gen := NewGenerator(stub)

	result, err := gen.Generate(context.Background(), testCollection())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := map[prompt.SectionKey]string{
		prompt.SectionSummary:       "summary text",
		prompt.SectionEmotionalTone: "emotional text",
		prompt.SectionKeyMoments:    "moments text",
		prompt.SectionTimeline:      "timeline text",
		prompt.SectionStorytelling:  "stories text",
	}
	for key, content := range want {
		if result.Capsules[key].Content != content {
			t.Errorf("Capsules[%s].Content = %q, want %q", key, result.Capsules[key].Content, content)
		}
	}
}

func TestGenerate_PromptsCoverCollection(t *testing.T) {
	stub := llm.NewStubClient("ok")
	gen := NewGenerator(stub)

	if _, err := gen.Generate(context.Background(), testCollection()); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// The shared-block sections must see every memory title
	var sharedPrompts int
	for _, p := range stub.Calls {
		if strings.Contains(p, "Hiking trip") &&
			strings.Contains(p, "New job") &&
			strings.Contains(p, "Grandma's birthday") {
			sharedPrompts++
		}
	}
	// summary, emotionalTone, keyMoments, timeline all carry every title
	if sharedPrompts < 4 {
		t.Errorf("only %d prompts covered the whole collection", sharedPrompts)
	}
}

// rendezvousClient blocks every Generate call until released, so a
// fan-out that serialized the section calls would never get all five
// in flight at once.
type rendezvousClient struct {
	arrivals chan struct{}
	release  chan struct{}
}

func (c *rendezvousClient) Generate(ctx context.Context, _, _ string) (string, error) {
	c.arrivals <- struct{}{}
	select {
	case <-c.release:
		return "ok", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (c *rendezvousClient) Name() string { return "rendezvous" }

func TestGenerate_SectionsRunConcurrently(t *testing.T) {
	client := &rendezvousClient{
		arrivals: make(chan struct{}),
		release:  make(chan struct{}),
	}
	gen := NewGenerator(client)

	done := make(chan error, 1)
	go func() {
		_, err := gen.Generate(context.Background(), testCollection())
		done <- err
	}()

	timeout := time.After(5 * time.Second)
	for i := 0; i < len(prompt.Sections); i++ {
		select {
		case <-client.arrivals:
		case <-timeout:
			t.Fatalf("only %d of %d section calls in flight", i, len(prompt.Sections))
		}
	}
	close(client.release)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
	case <-timeout:
		t.Fatal("Generate did not return after all sections were released")
	}
}

func TestGenerate_SectionFailureFailsAll(t *testing.T) {
	stub := &llm.StubClient{
		Response: "ok",
		FailOn:   []string{"KEY MOMENTS"},
	}
	gen := NewGenerator(stub)

	result, err := gen.Generate(context.Background(), testCollection())
	if result != nil {
		t.Error("no partial result on section failure")
	}
	if !errors.Is(err, errors.ErrGenerationFailed) {
		t.Fatalf("expected GENERATION_FAILED, got %v", err)
	}

	// The underlying model-call message passes through
	mErr := err.(*errors.MemoraError)
	if !strings.Contains(mErr.Message, "stub failure") {
		t.Errorf("Message = %q, want the model-call message", mErr.Message)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := NewGenerator(llm.NewStubClient("ok"))
	result, err := gen.Generate(ctx, testCollection())
	if result != nil {
		t.Error("no result on cancelled context")
	}
	if !errors.Is(err, errors.ErrGenerationFailed) {
		t.Errorf("expected GENERATION_FAILED wrapper, got %v", err)
	}
}

package capsule

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/memora-app/memora/internal/llm"
	"github.com/memora-app/memora/internal/prompt"
)

func testResult(t *testing.T) *Result {
	t.Helper()
	gen := NewGenerator(llm.NewStubClient("Some *markdown* content."))
	result, err := gen.Generate(context.Background(), testCollection())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return result
}

func TestRenderMarkdown(t *testing.T) {
	result := testResult(t)
	md := RenderMarkdown(result)

	if !strings.HasPrefix(md, "# Memory Capsule\n") {
		t.Error("document should open with the capsule heading")
	}
	if !strings.Contains(md, "from 3 memories") {
		t.Error("header should mention the collection size")
	}
	if !strings.Contains(md, result.GeneratedAt.Format(time.RFC3339)) {
		t.Error("header should carry the generation timestamp")
	}

	// Sections appear in registry order with icon and title
	lastIdx := -1
	for _, spec := range prompt.Sections {
		heading := "## " + spec.Icon + " " + spec.Title
		idx := strings.Index(md, heading)
		if idx < 0 {
			t.Errorf("missing heading %q", heading)
			continue
		}
		if idx < lastIdx {
			t.Errorf("heading %q out of registry order", heading)
		}
		lastIdx = idx
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(testResult(t))
	if err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}

	if !strings.Contains(html, "<h1>Memory Capsule</h1>") {
		t.Error("HTML should contain the converted heading")
	}
	if !strings.Contains(html, "<em>markdown</em>") {
		t.Error("section markdown should be converted")
	}
}

// Package capsule produces the AI-generated insight bundle over a user's
// memory collection: five independent section generations fanned out
// against the language model and joined into one result.
package capsule

import (
	"time"

	"github.com/memora-app/memora/internal/prompt"
)

// Section is one generated analysis of the memory collection. Content is
// the raw model output for that section, non-empty on success.
type Section struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Icon    string `json:"icon"`
	Content string `json:"content"`
}

// Result is a complete generated capsule. On any success Capsules holds
// exactly the five fixed section keys; there is no partial-success form.
type Result struct {
	TotalMemories int                           `json:"totalMemories"`
	Capsules      map[prompt.SectionKey]Section `json:"capsules"`
	GeneratedAt   time.Time                     `json:"generatedAt"`
}

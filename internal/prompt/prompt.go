// Package prompt turns a memory collection into model-ready text for each
// capsule section. Everything here is pure computation: no storage, no
// network, deterministic output for a given collection.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"github.com/memora-app/memora/internal/memory"
)

// SystemInstruction is the shared system message for all section generations.
const SystemInstruction = "You are a thoughtful AI assistant helping people reflect on and understand " +
	"their personal memories. You write in a warm, empathetic, and insightful tone."

// Bounds on prompt size. The timeline's detailed context and the
// storytelling selection are truncated to keep per-call token cost flat as
// collections grow; the timeline's one-line listing is deliberately not.
const (
	TimelineDetailLimit   = 10
	StorytellingSelection = 5
)

// SectionKey identifies one of the five fixed analysis kinds.
type SectionKey string

const (
	SectionSummary       SectionKey = "summary"
	SectionEmotionalTone SectionKey = "emotionalTone"
	SectionKeyMoments    SectionKey = "keyMoments"
	SectionTimeline      SectionKey = "timeline"
	SectionStorytelling  SectionKey = "storytelling"
)

// Spec is the static configuration of one capsule section.
// Build receives the pre-rendered shared memory block and the raw
// collection; each builder uses one or the other.
type Spec struct {
	Key   SectionKey
	Type  string
	Title string
	Icon  string
	Build func(shared string, records memory.Collection) string
}

// Sections is the fixed registry of the five capsule sections.
// The "emotional" type string (vs the emotionalTone key) is a historical
// wire-format artifact that clients depend on.
var Sections = []Spec{
	{
		Key:   SectionSummary,
		Type:  "summary",
		Title: "Your Life Summary",
		Icon:  "📖",
		Build: func(shared string, _ memory.Collection) string { return SummaryPrompt(shared) },
	},
	{
		Key:   SectionEmotionalTone,
		Type:  "emotional",
		Title: "Emotional Tone Analysis",
		Icon:  "💭",
		Build: func(shared string, _ memory.Collection) string { return EmotionalTonePrompt(shared) },
	},
	{
		Key:   SectionKeyMoments,
		Type:  "keyMoments",
		Title: "Key Moments",
		Icon:  "⭐",
		Build: func(shared string, _ memory.Collection) string { return KeyMomentsPrompt(shared) },
	},
	{
		Key:   SectionTimeline,
		Type:  "timeline",
		Title: "Your Journey Timeline",
		Icon:  "📅",
		Build: func(_ string, records memory.Collection) string { return TimelinePrompt(records) },
	},
	{
		Key:   SectionStorytelling,
		Type:  "storytelling",
		Title: "Your Memories as Stories",
		Icon:  "📚",
		Build: func(_ string, records memory.Collection) string { return StorytellingPrompt(records) },
	},
}

// RenderMemories renders the shared per-record text block consumed by the
// summary, emotional tone, and key moments prompts. Input order is
// preserved (most-recent-first as delivered by storage).
func RenderMemories(records memory.Collection) string {
	blocks := make([]string, len(records))
	for i, rec := range records {
		description := "No description"
		if rec.Description != nil && *rec.Description != "" {
			description = *rec.Description
		}

		tags := strings.Join(rec.Tags, ", ")
		if tags == "" {
			tags = "No tags"
		}

		blocks[i] = fmt.Sprintf(`
Memory %d:
Title: %s
Type: %s
Description: %s
Content: %s
Tags: %s
Date: %s
---`, i+1, rec.Title, rec.Type, description, rec.Content, tags, shortDate(rec.Date))
	}
	return strings.Join(blocks, "\n")
}

// SummaryPrompt builds the life-summary prompt over the shared block.
func SummaryPrompt(memoriesText string) string {
	return fmt.Sprintf(`Analyze these personal memories and create a concise, meaningful summary (2-3 paragraphs) that captures the essence of the person's life experiences:

%s

Focus on:
- Overall themes and patterns
- Most significant moments
- Personal growth journey
- Life highlights

Write in a warm, personal tone as if you're helping someone reflect on their life.`, memoriesText)
}

// EmotionalTonePrompt builds the emotional analysis prompt over the shared block.
func EmotionalTonePrompt(memoriesText string) string {
	return fmt.Sprintf(`Analyze the emotional tone of these memories and provide:

%s

1. Overall emotional sentiment (positive, neutral, mixed, reflective)
2. Dominant emotions present (joy, nostalgia, growth, achievement, etc.)
3. Emotional journey arc
4. 3-5 specific emotional insights

Format as a structured analysis with clear sections.`, memoriesText)
}

// KeyMomentsPrompt builds the key-moments prompt over the shared block.
func KeyMomentsPrompt(memoriesText string) string {
	return fmt.Sprintf(`From these memories, identify and describe the TOP 5-7 KEY MOMENTS that stand out as most significant:

%s

For each key moment:
- Give it a memorable title
- Explain why it's significant
- Note the emotional impact
- Connect it to personal growth

Present as a numbered list of key moments.`, memoriesText)
}

// TimelinePrompt builds the chronological narrative prompt. It re-sorts a
// working copy by date ascending regardless of input order. The one-line
// listing covers every record; the detailed context is truncated to the
// first TimelineDetailLimit records after sorting.
func TimelinePrompt(records memory.Collection) string {
	sorted := memory.SortedByDateAsc(records)

	lines := make([]string, len(sorted))
	for i, rec := range sorted {
		lines[i] = fmt.Sprintf("%s | %s (%s)", longDate(rec.Date), rec.Title, rec.Type)
	}

	detailed := sorted
	if len(detailed) > TimelineDetailLimit {
		detailed = detailed[:TimelineDetailLimit]
	}
	details := make([]string, len(detailed))
	for i, rec := range detailed {
		details[i] = fmt.Sprintf("%s: %s", rec.Title, descriptionOrContent(rec))
	}

	return fmt.Sprintf(`Create a narrative timeline from these chronological memories:

%s

Detailed memories for context:
%s

Create a flowing timeline narrative that:
- Groups memories by time periods (if applicable)
- Shows progression and growth
- Highlights connections between events
- Makes the timeline feel like a story

Write in an engaging, chronological narrative style.`,
		strings.Join(lines, "\n"), strings.Join(details, "\n"))
}

// StorytellingPrompt builds the short-story prompt from the first
// StorytellingSelection records in input order (most recent first, per the
// collection contract — no re-sort). Unlike the shared block, empty tags
// render as an empty join with no placeholder.
func StorytellingPrompt(records memory.Collection) string {
	selected := records
	if len(selected) > StorytellingSelection {
		selected = selected[:StorytellingSelection]
	}

	blocks := make([]string, len(selected))
	for i, rec := range selected {
		blocks[i] = fmt.Sprintf(`
Memory %d: %s
Type: %s
Description: %s
Date: %s
Tags: %s
---`, i+1, rec.Title, rec.Type, descriptionOrContent(rec), shortDate(rec.Date), strings.Join(rec.Tags, ", "))
	}

	return fmt.Sprintf(`Transform these personal memories into compelling short stories. For each memory, create a vivid, engaging narrative:

%s

For each memory:
1. Write a captivating short story (2-3 paragraphs)
2. Use vivid descriptions and sensory details
3. Capture the emotion and significance
4. Write in first-person perspective
5. Give each story a memorable title

Format:
**[Story Title]**
[Story content]

(Repeat for each memory)`, strings.Join(blocks, "\n"))
}

// descriptionOrContent prefers the description, falling back to content.
func descriptionOrContent(rec memory.Record) string {
	if rec.Description != nil && *rec.Description != "" {
		return *rec.Description
	}
	return rec.Content
}

// shortDate formats a Unix timestamp as M/D/YYYY.
func shortDate(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("1/2/2006")
}

// longDate formats a Unix timestamp as "Jan 2, 2006".
func longDate(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("Jan 2, 2006")
}

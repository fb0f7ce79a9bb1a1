package capsule

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/memora-app/memora/internal/prompt"
)

// RenderMarkdown flattens a Result into one markdown document, sections in
// registry order.
func RenderMarkdown(result *Result) string {
	var b strings.Builder

	b.WriteString("# Memory Capsule\n\n")
	fmt.Fprintf(&b, "Generated %s from %d memories.\n",
		result.GeneratedAt.Format(time.RFC3339), result.TotalMemories)

	for _, spec := range prompt.Sections {
		section, ok := result.Capsules[spec.Key]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n## %s %s\n\n%s\n", section.Icon, section.Title,
			strings.TrimRight(section.Content, "\n"))
	}

	return b.String()
}

// RenderHTML converts the markdown form of a Result to HTML.
func RenderHTML(result *Result) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(RenderMarkdown(result)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

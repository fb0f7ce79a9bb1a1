// Package ops implements Memora's operations as plain functions over the
// database and, for capsule generation, an injected model client. Every
// surface (CLI, HTTP API, MCP) maps onto these.
package ops

import (
	"strings"

	"github.com/memora-app/memora/internal/errors"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// requireUser validates and normalizes a user ID.
func requireUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", errors.NewInvalidRequest("user_id is required")
	}
	return userID, nil
}

// cleanTags trims whitespace and drops empty entries, preserving order.
// Order matters: tags render comma-joined into prompts as given.
func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}

package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/memora-app/memora/internal/capsule"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/llm"
)

// Export formats.
const (
	ExportFormatMarkdown = "markdown"
	ExportFormatHTML     = "html"
)

// ExportCapsuleInput contains parameters for the ExportCapsule operation.
type ExportCapsuleInput struct {
	UserID  string
	BaseDir string // data directory holding exports/
	Path    string // optional, default: BaseDir/exports/capsule-<timestamp>.<ext>
	Format  string // markdown|html, default markdown
}

// ExportCapsuleOutput contains the result of the ExportCapsule operation.
type ExportCapsuleOutput struct {
	Path          string `json:"path"`
	Format        string `json:"format"`
	TotalMemories int    `json:"total_memories"`
	ExportedAt    int64  `json:"exported_at"`
}

// ExportCapsule generates a capsule and writes it to a file. The write
// goes through a temp file and an atomic rename so a failed generation or
// write never leaves a partial export behind.
func ExportCapsule(ctx context.Context, database *sql.DB, client llm.Client, input ExportCapsuleInput) (*ExportCapsuleOutput, error) {
	format := input.Format
	if format == "" {
		format = ExportFormatMarkdown
	}
	if format != ExportFormatMarkdown && format != ExportFormatHTML {
		return nil, errors.NewInvalidRequest("format must be one of: markdown, html")
	}

	result, err := GenerateCapsule(ctx, database, client, GenerateCapsuleInput{UserID: input.UserID})
	if err != nil {
		return nil, err
	}

	var rendered string
	ext := ".md"
	if format == ExportFormatHTML {
		ext = ".html"
		rendered, err = capsule.RenderHTML(result)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
	} else {
		rendered = capsule.RenderMarkdown(result)
	}

	now := time.Now()
	exportPath := input.Path
	if exportPath == "" {
		if input.BaseDir == "" {
			return nil, errors.NewInvalidRequest("either path or base directory must be set")
		}
		name := fmt.Sprintf("capsule-%s%s", now.UTC().Format("20060102-150405"), ext)
		exportPath = filepath.Join(input.BaseDir, "exports", name)
	}

	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	// Write to temp file first, then atomic rename
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"

	if err := os.WriteFile(tempPath, []byte(rendered), 0600); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to write export file: %w", err))
	}
	if err := os.Rename(tempPath, exportPath); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export file: %w", err))
	}

	return &ExportCapsuleOutput{
		Path:          exportPath,
		Format:        format,
		TotalMemories: result.TotalMemories,
		ExportedAt:    now.Unix(),
	}, nil
}

package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/memora-app/memora/internal/config"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/llm"
	"github.com/memora-app/memora/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
// All tools run as the configured default user.
type Handlers struct {
	db     *sql.DB
	cfg    *config.Config
	client llm.Client
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, client llm.Client) *Handlers {
	return &Handlers{db: db, cfg: cfg, client: client}
}

// decode maps the request's argument object onto a typed struct by
// round-tripping it through JSON, so each tool gets its own request
// type without per-field type assertions.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var out T
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, fmt.Errorf("encode tool arguments: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode tool arguments: %w", err)
	}
	return out, nil
}

// Request types for each tool

// StoreRequest represents the arguments for memory_store.
type StoreRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Type        string   `json:"type"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags,omitempty"`
	Date        *int64   `json:"date,omitempty"`
}

// FetchRequest represents the arguments for memory_fetch.
type FetchRequest struct {
	ID string `json:"id"`
}

// ListRequest represents the arguments for memory_list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// UpdateRequest represents the arguments for memory_update.
type UpdateRequest struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Type        *string   `json:"type,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Date        *int64    `json:"date,omitempty"`
}

// DeleteRequest represents the arguments for memory_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// Handler implementations

// HandleStore handles the memory_store tool call.
func (h *Handlers) HandleStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Create(h.db, ops.CreateInput{
		UserID:      h.cfg.DefaultUser,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Content:     input.Content,
		Tags:        input.Tags,
		Date:        input.Date,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the memory_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{
		UserID: h.cfg.DefaultUser,
		ID:     input.ID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the memory_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		UserID: h.cfg.DefaultUser,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the memory_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Update(h.db, ops.UpdateInput{
		UserID:      h.cfg.DefaultUser,
		ID:          input.ID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		Content:     input.Content,
		Tags:        input.Tags,
		Date:        input.Date,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the memory_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(h.db, ops.DeleteInput{
		UserID: h.cfg.DefaultUser,
		ID:     input.ID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCapsuleGenerate handles the capsule_generate tool call.
func (h *Handlers) HandleCapsuleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.GenerateCapsule(ctx, h.db, h.client, ops.GenerateCapsuleInput{
		UserID: h.cfg.DefaultUser,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCapsuleInfo handles the capsule_info tool call.
func (h *Handlers) HandleCapsuleInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.CapsuleInfo(h.db, ops.CapsuleInfoInput{
		UserID: h.cfg.DefaultUser,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if mErr, ok := err.(*errors.MemoraError); ok {
		errorObj := map[string]any{
			"code":    mErr.Code,
			"message": mErr.Message,
			"status":  mErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if mErr.Code != errors.ErrInternal && mErr.Details != nil {
			errorObj["details"] = mErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

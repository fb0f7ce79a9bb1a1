package web

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/memora-app/memora/internal/capsule"
	"github.com/memora-app/memora/internal/config"
	"github.com/memora-app/memora/internal/errors"
	"github.com/memora-app/memora/internal/llm"
	"github.com/memora-app/memora/internal/ops"
	"github.com/memora-app/memora/internal/prompt"
)

// Handlers contains HTTP route handlers for the Memora API.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	client  llm.Client
	version string
}

// memoryRequest is the JSON body for create and update memory calls.
type memoryRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Type        *string   `json:"type"`
	Content     *string   `json:"content"`
	Tags        *[]string `json:"tags"`
	Date        *int64    `json:"date"`
}

// capsuleResponse is the wire shape of a successful generation.
type capsuleResponse struct {
	Success       bool                                  `json:"success"`
	TotalMemories int                                   `json:"totalMemories"`
	Capsules      map[prompt.SectionKey]capsule.Section `json:"capsules"`
	GeneratedAt   time.Time                             `json:"generatedAt"`
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleCreateMemory handles POST /api/memories.
func (h *Handlers) HandleCreateMemory(w http.ResponseWriter, r *http.Request) {
	var body memoryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(w, errors.NewInvalidRequest("invalid JSON body"))
		return
	}

	input := ops.CreateInput{
		UserID:      requestUserID(r),
		Description: body.Description,
		Date:        body.Date,
	}
	if body.Title != nil {
		input.Title = *body.Title
	}
	if body.Type != nil {
		input.Type = *body.Type
	}
	if body.Content != nil {
		input.Content = *body.Content
	}
	if body.Tags != nil {
		input.Tags = *body.Tags
	}

	output, err := ops.Create(h.db, input)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusCreated, output.Memory)
}

// HandleListMemories handles GET /api/memories.
func (h *Handlers) HandleListMemories(w http.ResponseWriter, r *http.Request) {
	output, err := ops.List(h.db, ops.ListInput{
		UserID: requestUserID(r),
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, output)
}

// HandleGetMemory handles GET /api/memories/{id}.
func (h *Handlers) HandleGetMemory(w http.ResponseWriter, r *http.Request) {
	output, err := ops.Fetch(h.db, ops.FetchInput{
		UserID: requestUserID(r),
		ID:     r.PathValue("id"),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, output.Memory)
}

// HandleUpdateMemory handles PUT /api/memories/{id}.
func (h *Handlers) HandleUpdateMemory(w http.ResponseWriter, r *http.Request) {
	var body memoryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(w, errors.NewInvalidRequest("invalid JSON body"))
		return
	}

	output, err := ops.Update(h.db, ops.UpdateInput{
		UserID:      requestUserID(r),
		ID:          r.PathValue("id"),
		Title:       body.Title,
		Description: body.Description,
		Type:        body.Type,
		Content:     body.Content,
		Tags:        body.Tags,
		Date:        body.Date,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, output.Memory)
}

// HandleDeleteMemory handles DELETE /api/memories/{id}.
func (h *Handlers) HandleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	output, err := ops.Delete(h.db, ops.DeleteInput{
		UserID: requestUserID(r),
		ID:     r.PathValue("id"),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, output)
}

// HandleGenerateCapsule handles POST /api/ai/generate-capsule.
// 200 with the full capsule on success; 400 when the user has no
// memories; 500 on any generation failure.
func (h *Handlers) HandleGenerateCapsule(w http.ResponseWriter, r *http.Request) {
	result, err := ops.GenerateCapsule(r.Context(), h.db, h.client, ops.GenerateCapsuleInput{
		UserID: requestUserID(r),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, capsuleResponse{
		Success:       true,
		TotalMemories: result.TotalMemories,
		Capsules:      result.Capsules,
		GeneratedAt:   result.GeneratedAt,
	})
}

// HandleCapsuleInfo handles GET /api/ai/capsule-info.
func (h *Handlers) HandleCapsuleInfo(w http.ResponseWriter, r *http.Request) {
	output, err := ops.CapsuleInfo(h.db, ops.CapsuleInfoInput{
		UserID: requestUserID(r),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"canGenerate": output.CanGenerate,
		"memoryCount": output.MemoryCount,
		"message":     output.Message,
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes the {success:false, message} error shape with the
// status carried by the error. Underlying generation messages pass
// through as-is.
func renderError(w http.ResponseWriter, err error) {
	mErr, ok := err.(*errors.MemoraError)
	if !ok {
		mErr = errors.NewInternal(err)
	}

	renderJSON(w, mErr.Status, map[string]any{
		"success": false,
		"message": mErr.Message,
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

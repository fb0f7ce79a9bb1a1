package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. The MCP surface runs as the configured default user;
// agents never pass a user id.

var storeToolDef = mcp.NewTool("memory_store",
	mcp.WithDescription("Store a new memory (note, photo, audio, or video) in the vault."),
	mcp.WithString("title", mcp.Required(),
		mcp.Description("Short title for the memory.")),
	mcp.WithString("type", mcp.Required(),
		mcp.Description("Memory type: note, photo, audio, or video.")),
	mcp.WithString("content", mcp.Required(),
		mcp.Description("Note text, or a reference to the media content.")),
	mcp.WithString("description",
		mcp.Description("Optional longer description.")),
	mcp.WithArray("tags",
		mcp.Description("Optional tags."),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithNumber("date",
		mcp.Description("When the memory occurred, as a Unix timestamp. Defaults to now.")),
)

var fetchToolDef = mcp.NewTool("memory_fetch",
	mcp.WithDescription("Fetch a single memory by ID."),
	mcp.WithString("id", mcp.Required(),
		mcp.Description("Memory ID.")),
)

var listToolDef = mcp.NewTool("memory_list",
	mcp.WithDescription("List memories, most recent first."),
	mcp.WithNumber("limit",
		mcp.Description("Page size (default 20, max 100).")),
	mcp.WithNumber("offset",
		mcp.Description("Number of memories to skip.")),
)

var updateToolDef = mcp.NewTool("memory_update",
	mcp.WithDescription("Update fields of an existing memory. Omitted fields are left unchanged."),
	mcp.WithString("id", mcp.Required(),
		mcp.Description("Memory ID.")),
	mcp.WithString("title",
		mcp.Description("New title.")),
	mcp.WithString("description",
		mcp.Description("New description.")),
	mcp.WithString("type",
		mcp.Description("New type: note, photo, audio, or video.")),
	mcp.WithString("content",
		mcp.Description("New content.")),
	mcp.WithArray("tags",
		mcp.Description("Replacement tags."),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithNumber("date",
		mcp.Description("New occurrence date, as a Unix timestamp.")),
)

var deleteToolDef = mcp.NewTool("memory_delete",
	mcp.WithDescription("Delete a memory permanently."),
	mcp.WithString("id", mcp.Required(),
		mcp.Description("Memory ID.")),
)

var capsuleGenerateToolDef = mcp.NewTool("capsule_generate",
	mcp.WithDescription("Generate an AI memory capsule from the full memory collection. "+
		"Produces a summary, emotional tone analysis, key moments, a timeline, and stories."),
)

var capsuleInfoToolDef = mcp.NewTool("capsule_info",
	mcp.WithDescription("Check whether capsule generation can proceed and how many memories exist."),
)

package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the blip MCP surface.

var captureToolDef = mcp.NewTool("blip_capture",
	mcp.WithDescription("Capture a new blip: a small unstructured note to resurface later."),
	mcp.WithString("content",
		mcp.Required(),
		mcp.Description("Free-text content of the blip"),
	),
	mcp.WithString("source_type",
		mcp.Description("Origin kind: discord, obsidian-inbox, clipper, daily-note, manual (default manual)"),
	),
	mcp.WithString("source_ref",
		mcp.Description("Opaque source reference matching the source type (e.g. channel:message:user for discord)"),
	),
	mcp.WithString("category",
		mcp.Description("Optional classification tag"),
	),
)

var showToolDef = mcp.NewTool("blip_show",
	mcp.WithDescription("Fetch a single blip by id, including notes, tags and links."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Blip id")),
)

var surfaceToolDef = mcp.NewTool("blip_surface",
	mcp.WithDescription("Rank blips worth the user's attention right now, each with a reason and suggested moves."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum suggestions to return (default from config)"),
	),
	mcp.WithBoolean("mark",
		mcp.Description("Record the surfacing on each returned blip (increments its surface count)"),
	),
)

var contextToolDef = mcp.NewTool("blip_context",
	mcp.WithDescription("Render the blip index as a markdown table for injection into a prompt context."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum rows to include (default all)"),
	),
)

var noteToolDef = mcp.NewTool("blip_note",
	mcp.WithDescription("Append a note to a blip. The first note moves a captured blip to incubating."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Blip id")),
	mcp.WithString("note", mcp.Required(), mcp.Description("Note text to append")),
)

var snoozeToolDef = mcp.NewTool("blip_snooze",
	mcp.WithDescription("Hide a blip from surfacing for a number of days."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Blip id")),
	mcp.WithNumber("days",
		mcp.Description("Days to snooze (default from config)"),
	),
)

var archiveToolDef = mcp.NewTool("blip_archive",
	mcp.WithDescription("Archive a blip. Archived blips are terminal and never surface again."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Blip id")),
)

var promoteToolDef = mcp.NewTool("blip_promote",
	mcp.WithDescription("Promote a blip into a longer-lived artifact. Promotion is terminal."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Blip id")),
	mcp.WithString("target",
		mcp.Required(),
		mcp.Description("Target type: goal, project, task or note"),
	),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Destination path of the promoted artifact"),
	),
)

var linkToolDef = mcp.NewTool("blip_link",
	mcp.WithDescription("Link a blip to another blip (symmetric) or to a vault document."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Blip id")),
	mcp.WithString("other_id",
		mcp.Description("Other blip id to link symmetrically"),
	),
	mcp.WithString("vault_path",
		mcp.Description("Vault document path to link (lookup-only relation)"),
	),
)

var tagToolDef = mcp.NewTool("blip_tag",
	mcp.WithDescription("Add tags to a blip. Duplicate tags are ignored."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Blip id")),
	mcp.WithArray("tags",
		mcp.Required(),
		mcp.Description("Tags to add"),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var listToolDef = mcp.NewTool("blip_list",
	mcp.WithDescription("List blips, optionally filtered by state or category, newest first."),
	mcp.WithString("state",
		mcp.Description("Filter by state: captured, incubating, active, archived, promoted"),
	),
	mcp.WithString("category",
		mcp.Description("Filter by category"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum blips to return (default all)"),
	),
)

var searchToolDef = mcp.NewTool("blip_search",
	mcp.WithDescription("Case-insensitive substring search over content, category, notes and tags."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
)

var recentToolDef = mcp.NewTool("blip_recent",
	mcp.WithDescription("List the most recently captured blips."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum blips to return (default 10)"),
	),
)

var statsToolDef = mcp.NewTool("blip_stats",
	mcp.WithDescription("Aggregate counts: totals by state and category, snoozed and note counts."),
)

var deleteToolDef = mcp.NewTool("blip_delete",
	mcp.WithDescription("Delete a blip permanently. Links on other blips are left dangling."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Blip id")),
)

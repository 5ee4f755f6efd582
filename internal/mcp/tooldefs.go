package mcp

import "github.com/mark3labs/mcp-go/mcp"

var recordToolDef = mcp.NewTool("note_record",
	mcp.WithDescription("Record a mood journal note. Creates a new committed note, or updates an existing one when id is given. Emotion scores are clamped to 0-100; a checkpoint score (multiple of 10) adopts that level's emoji and label, while any other value keeps its number and reports the neutral sentiment."),
	mcp.WithNumber("emotion_score",
		mcp.Required(),
		mcp.Description("Emotion score 0-100. Checkpoints are multiples of 10; values are clamped to the range."),
	),
	mcp.WithString("emotion_label",
		mcp.Description("Optional free-text emotion label. Defaults to the scale label for the score."),
	),
	mcp.WithString("title",
		mcp.Description("Optional note title."),
	),
	mcp.WithString("body",
		mcp.Description("Optional note body."),
	),
	mcp.WithString("id",
		mcp.Description("Existing note id to update. Omit to create a new note."),
	),
)

var getToolDef = mcp.NewTool("note_get",
	mcp.WithDescription("Fetch a single note by id."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Note id."),
	),
)

var listToolDef = mcp.NewTool("note_list",
	mcp.WithDescription("List committed notes grouped by calendar day, newest first. Drafts are never included."),
)

var deleteToolDef = mcp.NewTool("note_delete",
	mcp.WithDescription("Delete one or more notes by id. Missing ids are ignored."),
	mcp.WithArray("ids",
		mcp.Required(),
		mcp.Description("Note ids to delete."),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var exportToolDef = mcp.NewTool("note_export",
	mcp.WithDescription("Write the emotion journal export document (JSON) to disk. Defaults to all committed notes and a timestamped file in ~/.rnote/exports."),
	mcp.WithString("path",
		mcp.Description("Destination path (.json, must be directly in an allowed directory). Defaults to ~/.rnote/exports/rnote_export_<timestamp>.json."),
	),
	mcp.WithArray("ids",
		mcp.Description("Restrict the export to these note ids. Omit for all committed notes."),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

var shareTextToolDef = mcp.NewTool("note_share_text",
	mcp.WithDescription("Build the AI-chat share text for the journal: a prompt template followed by a data summary, the emotion flow, and per-note detail records."),
	mcp.WithString("prompt_type",
		mcp.Required(),
		mcp.Description("One of: analysis, weekly_report, counseling."),
	),
	mcp.WithArray("ids",
		mcp.Description("Restrict the share text to these note ids. Omit for all committed notes."),
		mcp.Items(map[string]any{"type": "string"}),
	),
)

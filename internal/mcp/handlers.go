package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rnote-app/rnote/internal/config"
	"github.com/rnote-app/rnote/internal/emotion"
	"github.com/rnote-app/rnote/internal/errors"
	"github.com/rnote-app/rnote/internal/export"
	"github.com/rnote-app/rnote/internal/list"
	"github.com/rnote-app/rnote/internal/note"
	"github.com/rnote-app/rnote/internal/session"
	"github.com/rnote-app/rnote/internal/store"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store *store.Store
	cfg   *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(st *store.Store, cfg *config.Config) *Handlers {
	return &Handlers{store: st, cfg: cfg}
}

// Request types for each tool

// RecordRequest represents the arguments for note_record.
type RecordRequest struct {
	EmotionScore *int    `json:"emotion_score"`
	EmotionLabel *string `json:"emotion_label,omitempty"`
	Title        *string `json:"title,omitempty"`
	Body         *string `json:"body,omitempty"`
	ID           *string `json:"id,omitempty"`
}

// GetRequest represents the arguments for note_get.
type GetRequest struct {
	ID string `json:"id"`
}

// DeleteRequest represents the arguments for note_delete.
type DeleteRequest struct {
	IDs []string `json:"ids"`
}

// ExportRequest represents the arguments for note_export.
type ExportRequest struct {
	Path string   `json:"path,omitempty"`
	IDs  []string `json:"ids,omitempty"`
}

// ShareTextRequest represents the arguments for note_share_text.
type ShareTextRequest struct {
	PromptType string   `json:"prompt_type"`
	IDs        []string `json:"ids,omitempty"`
}

// Result types

// ListResult is the note_list payload.
type ListResult struct {
	Days  []DayGroupView `json:"days"`
	Total int            `json:"total"`
}

// DayGroupView is one calendar day of notes in wire form.
type DayGroupView struct {
	Day   string      `json:"day"`
	Notes []note.View `json:"notes"`
}

// DeleteResult is the note_delete payload.
type DeleteResult struct {
	Deleted []string `json:"deleted"`
}

// ShareTextResult is the note_share_text payload.
type ShareTextResult struct {
	PromptType string `json:"prompt_type"`
	Text       string `json:"text"`
	NoteCount  int    `json:"note_count"`
}

// Handler implementations

// HandleRecord handles the note_record tool call.
func (h *Handlers) HandleRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RecordRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.EmotionScore == nil {
		return errorResult(errors.NewInvalidRequest("emotion_score is required")), nil
	}

	s := session.New(h.store)
	if err := s.Load(input.ID); err != nil {
		return errorResult(err), nil
	}

	score := emotion.ClampScore(*input.EmotionScore)
	level := emotion.Lookup(score)
	s.SetEmotion(level)
	if score != level.Score {
		s.AdjustScoreBy(score - level.Score)
	}
	if input.EmotionLabel != nil {
		s.SetLabel(*input.EmotionLabel)
	}
	if input.Title != nil {
		s.SetTitle(*input.Title)
	}
	if input.Body != nil {
		s.SetBody(*input.Body)
	}

	saved, err := s.Save()
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(saved.ToView())
}

// HandleGet handles the note_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.ID == "" {
		return errorResult(errors.NewInvalidRequest("id is required")), nil
	}

	n, err := h.store.GetByID(input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(n.ToView())
}

// HandleList handles the note_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := h.store.All()
	if err != nil {
		return errorResult(err), nil
	}

	groups := list.GroupByDay(notes)
	days := make([]DayGroupView, len(groups))
	for i, g := range groups {
		days[i] = DayGroupView{Day: g.Day, Notes: note.ToViews(g.Notes)}
	}

	return successResult(ListResult{Days: days, Total: len(notes)})
}

// HandleDelete handles the note_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if len(input.IDs) == 0 {
		return errorResult(errors.NewInvalidRequest("ids is required")), nil
	}

	if err := h.store.DeleteMany(input.IDs); err != nil {
		return errorResult(err), nil
	}

	return successResult(DeleteResult{Deleted: input.IDs})
}

// HandleExport handles the note_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	notes, err := h.selectNotes(input.IDs)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := export.WriteFile(ctx, notes, h.cfg, export.WriteInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(out)
}

// HandleShareText handles the note_share_text tool call.
func (h *Handlers) HandleShareText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShareTextRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	promptType, err := export.ParsePromptType(input.PromptType)
	if err != nil {
		return errorResult(err), nil
	}

	notes, err := h.selectNotes(input.IDs)
	if err != nil {
		return errorResult(err), nil
	}

	text := export.BuildShareText(notes, promptType)
	return successResult(ShareTextResult{
		PromptType: string(promptType),
		Text:       text,
		NoteCount:  len(notes),
	})
}

// selectNotes returns the full committed collection, or the subset named
// by ids. A requested id that does not exist fails with NotFound.
func (h *Handlers) selectNotes(ids []string) ([]note.Note, error) {
	notes, err := h.store.All()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return notes, nil
	}

	byID := make(map[string]note.Note, len(notes))
	for _, n := range notes {
		byID[n.ID] = n
	}

	selected := make([]note.Note, 0, len(ids))
	for _, id := range ids {
		n, ok := byID[id]
		if !ok {
			return nil, errors.NewNotFound(id)
		}
		selected = append(selected, n)
	}
	return selected, nil
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if noteErr, ok := err.(*errors.NoteError); ok {
		errorObj := map[string]any{
			"code":    noteErr.Code,
			"message": noteErr.Message,
			"status":  noteErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if noteErr.Code != errors.ErrInternal && noteErr.Details != nil {
			errorObj["details"] = noteErr.Details
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

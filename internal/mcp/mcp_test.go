package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rnote-app/rnote/internal/config"
	"github.com/rnote-app/rnote/internal/db"
	"github.com/rnote-app/rnote/internal/emotion"
	"github.com/rnote-app/rnote/internal/note"
	"github.com/rnote-app/rnote/internal/store"
)

// testSetup creates a temporary database-backed store and config.
func testSetup(t *testing.T) (*Handlers, *store.Store) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests

	st := store.New(database)
	return NewHandlers(st, cfg), st
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// decodeResult unmarshals a success payload into out.
func decodeResult(t *testing.T, res *mcp.CallToolResult, out any) {
	t.Helper()
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), out); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
}

// errorCode extracts the structured error code from an error result.
func errorCode(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if !res.IsError {
		t.Fatalf("expected error result, got success: %s", resultText(t, res))
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("failed to decode error payload: %v", err)
	}
	return payload.Error.Code
}

func seedCommitted(t *testing.T, st *store.Store, id string, createdAt int64) {
	t.Helper()
	err := st.Save(&note.Note{
		ID:            id,
		EmotionEmoji:  "\U0001F642",
		EmotionScore:  60,
		EmotionLabel:  "A Bit Good",
		Body:          "seeded",
		WordCount:     1,
		SentimentHint: emotion.SentimentPositive,
		OwnerScope:    note.DefaultOwnerScope,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	})
	if err != nil {
		t.Fatalf("seed Save failed: %v", err)
	}
}

func TestHandleRecord(t *testing.T) {
	h, _ := testSetup(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "record valid note",
			args: map[string]any{
				"emotion_score": 70,
				"title":         "a good day",
				"body":          "walked in the park",
			},
			wantError: false,
		},
		{
			name:      "record without emotion_score",
			args:      map[string]any{"body": "no score"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "record against missing id",
			args: map[string]any{
				"emotion_score": 50,
				"id":            "01NOSUCHNOTE",
			},
			wantError: true,
			errorCode: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.HandleRecord(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if tt.wantError {
				if code := errorCode(t, res); code != tt.errorCode {
					t.Errorf("error code = %q, want %q", code, tt.errorCode)
				}
				return
			}
			var v note.View
			decodeResult(t, res, &v)
			if v.ID == "" {
				t.Error("recorded note missing id")
			}
			if v.Sentiment != "positive" {
				t.Errorf("sentiment = %q for score 70, want positive", v.Sentiment)
			}
			if v.WordCount != 7 {
				t.Errorf("word count = %d, want 7", v.WordCount)
			}
		})
	}
}

func TestHandleRecord_UpdatePreservesCreation(t *testing.T) {
	h, st := testSetup(t)
	ctx := context.Background()

	createdAt := time.Now().Add(-time.Hour).Unix()
	seedCommitted(t, st, "01UPDATEME", createdAt)

	res, err := h.HandleRecord(ctx, makeRequest(map[string]any{
		"emotion_score": 30,
		"id":            "01UPDATEME",
		"body":          "worse now",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var v note.View
	decodeResult(t, res, &v)
	if v.ID != "01UPDATEME" {
		t.Errorf("id = %q, want the existing id", v.ID)
	}
	if v.CreatedAt != createdAt {
		t.Errorf("created_at = %d, want original %d", v.CreatedAt, createdAt)
	}
	if v.Sentiment != "negative" {
		t.Errorf("sentiment = %q for score 30, want negative", v.Sentiment)
	}
}

func TestHandleRecord_OffCheckpointScore(t *testing.T) {
	h, _ := testSetup(t)

	res, err := h.HandleRecord(context.Background(), makeRequest(map[string]any{
		"emotion_score": 95,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var v note.View
	decodeResult(t, res, &v)
	if v.EmotionScore != 95 {
		t.Errorf("score = %d, want raw 95 preserved", v.EmotionScore)
	}
	// Off-checkpoint scores resolve through the neutral fallback
	if v.Sentiment != "neutral" {
		t.Errorf("sentiment = %q for score 95, want neutral", v.Sentiment)
	}
}

func TestHandleRecord_ClampsScore(t *testing.T) {
	h, _ := testSetup(t)

	res, err := h.HandleRecord(context.Background(), makeRequest(map[string]any{
		"emotion_score": 140,
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var v note.View
	decodeResult(t, res, &v)
	if v.EmotionScore != 100 {
		t.Errorf("score = %d, want clamp at 100", v.EmotionScore)
	}
}

func TestHandleGet(t *testing.T) {
	h, st := testSetup(t)
	ctx := context.Background()

	seedCommitted(t, st, "01GETME", time.Now().Unix())

	res, err := h.HandleGet(ctx, makeRequest(map[string]any{"id": "01GETME"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var v note.View
	decodeResult(t, res, &v)
	if v.ID != "01GETME" || v.Body != "seeded" {
		t.Errorf("got %+v, want the seeded note", v)
	}

	res, err = h.HandleGet(ctx, makeRequest(map[string]any{"id": "01MISSING"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if code := errorCode(t, res); code != "NOT_FOUND" {
		t.Errorf("error code = %q, want NOT_FOUND", code)
	}

	res, err = h.HandleGet(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if code := errorCode(t, res); code != "INVALID_REQUEST" {
		t.Errorf("error code = %q, want INVALID_REQUEST", code)
	}
}

func TestHandleList_GroupsByDay(t *testing.T) {
	h, st := testSetup(t)

	dayOne := time.Date(2026, 8, 27, 9, 0, 0, 0, time.Local)
	dayTwo := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)
	seedCommitted(t, st, "01OLD", dayOne.Unix())
	seedCommitted(t, st, "01NEW", dayTwo.Unix())

	res, err := h.HandleList(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var result ListResult
	decodeResult(t, res, &result)
	if result.Total != 2 {
		t.Errorf("total = %d, want 2", result.Total)
	}
	if len(result.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(result.Days))
	}
	if result.Days[0].Day != "2026-08-28" {
		t.Errorf("first day = %q, want newest day first", result.Days[0].Day)
	}
}

func TestHandleDelete(t *testing.T) {
	h, st := testSetup(t)
	ctx := context.Background()

	seedCommitted(t, st, "01DELME", time.Now().Unix())

	res, err := h.HandleDelete(ctx, makeRequest(map[string]any{"ids": []string{"01DELME", "01NEVERWAS"}}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var result DeleteResult
	decodeResult(t, res, &result)
	if len(result.Deleted) != 2 {
		t.Errorf("deleted = %v, want both ids echoed", result.Deleted)
	}

	if _, err := st.GetByID("01DELME"); err == nil {
		t.Error("note still present after delete")
	}

	res, err = h.HandleDelete(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if code := errorCode(t, res); code != "INVALID_REQUEST" {
		t.Errorf("error code = %q, want INVALID_REQUEST", code)
	}
}

func TestHandleExport(t *testing.T) {
	h, st := testSetup(t)
	ctx := context.Background()

	seedCommitted(t, st, "01EXP1", time.Now().Add(-time.Minute).Unix())
	seedCommitted(t, st, "01EXP2", time.Now().Unix())

	path := filepath.Join(t.TempDir(), "out.json")
	res, err := h.HandleExport(ctx, makeRequest(map[string]any{"path": path}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var out struct {
		Path  string `json:"path"`
		Count int    `json:"count"`
	}
	decodeResult(t, res, &out)
	if out.Count != 2 {
		t.Errorf("count = %d, want 2", out.Count)
	}
	if _, err := os.Stat(out.Path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestHandleExport_SubsetAndMissingID(t *testing.T) {
	h, st := testSetup(t)
	ctx := context.Background()

	seedCommitted(t, st, "01ONLY", time.Now().Unix())

	path := filepath.Join(t.TempDir(), "subset.json")
	res, err := h.HandleExport(ctx, makeRequest(map[string]any{
		"path": path,
		"ids":  []string{"01ONLY"},
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var out struct {
		Count int `json:"count"`
	}
	decodeResult(t, res, &out)
	if out.Count != 1 {
		t.Errorf("count = %d, want 1", out.Count)
	}

	res, err = h.HandleExport(ctx, makeRequest(map[string]any{
		"path": filepath.Join(t.TempDir(), "never.json"),
		"ids":  []string{"01ABSENT"},
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if code := errorCode(t, res); code != "NOT_FOUND" {
		t.Errorf("error code = %q, want NOT_FOUND", code)
	}
}

func TestHandleShareText(t *testing.T) {
	h, st := testSetup(t)
	ctx := context.Background()

	seedCommitted(t, st, "01SHARE", time.Now().Unix())

	res, err := h.HandleShareText(ctx, makeRequest(map[string]any{"prompt_type": "counseling"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var result ShareTextResult
	decodeResult(t, res, &result)
	if result.NoteCount != 1 {
		t.Errorf("note count = %d, want 1", result.NoteCount)
	}
	if !strings.Contains(result.Text, "counselor") {
		t.Errorf("share text missing counseling template:\n%s", result.Text)
	}

	res, err = h.HandleShareText(ctx, makeRequest(map[string]any{"prompt_type": "horoscope"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if code := errorCode(t, res); code != "INVALID_REQUEST" {
		t.Errorf("error code = %q, want INVALID_REQUEST", code)
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"note_record", "capsule_store", "note_export"})
	if len(unknown) != 1 || unknown[0] != "capsule_store" {
		t.Errorf("unknown = %v, want only the foreign tool name", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Errorf("AllToolNames returned %d names, registry has %d", len(names), len(toolRegistry))
	}
}

func TestRecordToolDescription_MatchesScoreHandling(t *testing.T) {
	desc := recordToolDef.Description
	// Off-checkpoint scores are kept as-is, never rounded to a checkpoint
	if strings.Contains(desc, "snap") || strings.Contains(desc, "nearest") {
		t.Errorf("description promises rounding the scale does not do: %q", desc)
	}
	if !strings.Contains(desc, "keeps its number") {
		t.Errorf("description missing the keep-the-raw-score behavior: %q", desc)
	}
}

func TestDecode(t *testing.T) {
	req := makeRequest(map[string]any{
		"emotion_score": 70,
		"title":         "typed",
		"unknown_field": "ignored",
	})

	in, err := decode[RecordRequest](req)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if in.EmotionScore == nil || *in.EmotionScore != 70 {
		t.Errorf("EmotionScore = %v, want 70", in.EmotionScore)
	}
	if in.Title == nil || *in.Title != "typed" {
		t.Errorf("Title = %v, want typed", in.Title)
	}

	// A mistyped argument is one decode error, not a panic
	if _, err := decode[RecordRequest](makeRequest(map[string]any{
		"emotion_score": "seventy",
	})); err == nil {
		t.Error("expected error for mistyped argument")
	}
}

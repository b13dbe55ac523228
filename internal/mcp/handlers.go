package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/blip/internal/blip"
	"github.com/hpungsan/blip/internal/config"
	"github.com/hpungsan/blip/internal/errors"
	"github.com/hpungsan/blip/internal/store"
	"github.com/hpungsan/blip/internal/surface"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store  *store.Store
	engine *surface.Engine
	cfg    *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(s *store.Store, cfg *config.Config) *Handlers {
	return &Handlers{store: s, engine: surface.NewEngine(s), cfg: cfg}
}

// Request types for each tool

// CaptureRequest represents the arguments for capture.
type CaptureRequest struct {
	Content    string `json:"content"`
	SourceType string `json:"source_type,omitempty"`
	SourceRef  string `json:"source_ref,omitempty"`
	Category   string `json:"category,omitempty"`
}

// ShowRequest represents the arguments for show.
type ShowRequest struct {
	ID string `json:"id"`
}

// SurfaceRequest represents the arguments for surface.
type SurfaceRequest struct {
	Limit int  `json:"limit,omitempty"`
	Mark  bool `json:"mark,omitempty"`
}

// ContextRequest represents the arguments for context.
type ContextRequest struct {
	Limit int `json:"limit,omitempty"`
}

// NoteRequest represents the arguments for note.
type NoteRequest struct {
	ID   string `json:"id"`
	Note string `json:"note"`
}

// SnoozeRequest represents the arguments for snooze.
type SnoozeRequest struct {
	ID   string `json:"id"`
	Days int    `json:"days,omitempty"`
}

// PromoteRequest represents the arguments for promote.
type PromoteRequest struct {
	ID     string `json:"id"`
	Target string `json:"target"`
	Path   string `json:"path"`
}

// LinkRequest represents the arguments for link.
type LinkRequest struct {
	ID        string `json:"id"`
	OtherID   string `json:"other_id,omitempty"`
	VaultPath string `json:"vault_path,omitempty"`
}

// TagRequest represents the arguments for tag.
type TagRequest struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

// ListRequest represents the arguments for list.
type ListRequest struct {
	State    string `json:"state,omitempty"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// SearchRequest represents the arguments for search.
type SearchRequest struct {
	Query string `json:"query"`
}

// RecentRequest represents the arguments for recent.
type RecentRequest struct {
	Limit int `json:"limit,omitempty"`
}

// blipView is the wire shape of a blip: the record plus its source encoded
// as the type/ref pair (the Source field itself does not marshal).
type blipView struct {
	*blip.Blip
	SourceType string `json:"source_type"`
	SourceRef  string `json:"source_ref,omitempty"`
}

func view(b *blip.Blip) blipView {
	v := blipView{Blip: b, SourceType: string(blip.SourceManual)}
	if b.Source != nil {
		v.SourceType = string(b.Source.Kind())
		v.SourceRef = b.Source.Ref()
	}
	return v
}

func views(blips []*blip.Blip) []blipView {
	out := make([]blipView, len(blips))
	for i, b := range blips {
		out[i] = view(b)
	}
	return out
}

// Handler implementations

// HandleCapture handles the capture tool call.
func (h *Handlers) HandleCapture(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	src := blip.ParseSource(input.SourceType, input.SourceRef)
	b, err := h.store.Capture(input.Content, src, input.Category)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(view(b))
}

// HandleShow handles the show tool call.
func (h *Handlers) HandleShow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShowRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	b, ok := h.store.FindByID(input.ID)
	if !ok {
		return errorResult(errors.NewNotFound(input.ID)), nil
	}
	return successResult(view(b))
}

// HandleSurface handles the surface tool call.
func (h *Handlers) HandleSurface(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SurfaceRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = h.cfg.SurfaceLimit
	}
	suggestions := h.engine.Surface(limit)
	if input.Mark {
		for _, s := range suggestions {
			if _, err := h.store.MarkSurfaced(s.Blip.ID); err != nil {
				return errorResult(err), nil
			}
		}
	}
	return successResult(map[string]any{"suggestions": suggestions})
}

// HandleContext handles the context tool call. The rendered table is
// returned as plain text, ready for prompt injection.
func (h *Handlers) HandleContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ContextRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return mcp.NewToolResultText(h.store.FormatIndexForContext(input.Limit)), nil
}

// HandleNote handles the note tool call.
func (h *Handlers) HandleNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return h.mutation(input.ID, func() (bool, error) {
		return h.store.AddNote(input.ID, input.Note)
	})
}

// HandleSnooze handles the snooze tool call.
func (h *Handlers) HandleSnooze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SnoozeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	days := input.Days
	if days <= 0 {
		days = h.cfg.SnoozeDays
	}
	return h.mutation(input.ID, func() (bool, error) {
		return h.store.Snooze(input.ID, days)
	})
}

// HandleArchive handles the archive tool call.
func (h *Handlers) HandleArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShowRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return h.mutation(input.ID, func() (bool, error) {
		return h.store.Archive(input.ID)
	})
}

// HandlePromote handles the promote tool call.
func (h *Handlers) HandlePromote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PromoteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return h.mutation(input.ID, func() (bool, error) {
		return h.store.Promote(input.ID, blip.PromotionType(input.Target), input.Path)
	})
}

// HandleLink handles the link tool call. Exactly one of other_id and
// vault_path must be given.
func (h *Handlers) HandleLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LinkRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	switch {
	case input.OtherID != "" && input.VaultPath != "":
		return errorResult(errors.NewInvalidRequest("give other_id or vault_path, not both")), nil
	case input.OtherID != "":
		return h.mutation(input.ID, func() (bool, error) {
			return h.store.LinkBlips(input.ID, input.OtherID)
		})
	case input.VaultPath != "":
		return h.mutation(input.ID, func() (bool, error) {
			return h.store.LinkToVault(input.ID, input.VaultPath)
		})
	default:
		return errorResult(errors.NewInvalidRequest("other_id or vault_path is required")), nil
	}
}

// HandleTag handles the tag tool call.
func (h *Handlers) HandleTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TagRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	return h.mutation(input.ID, func() (bool, error) {
		return h.store.AddTags(input.ID, input.Tags...)
	})
}

// HandleList handles the list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	var blips []*blip.Blip
	switch {
	case input.State != "":
		state, ok := blip.ParseState(input.State)
		if !ok {
			return errorResult(errors.NewInvalidRequest("unknown state: " + input.State)), nil
		}
		blips = h.store.GetByState(state)
	case input.Category != "":
		blips = h.store.GetByCategory(input.Category)
	default:
		blips = h.store.All()
	}
	if input.Limit > 0 && len(blips) > input.Limit {
		blips = blips[:input.Limit]
	}
	return successResult(map[string]any{"blips": views(blips), "count": len(blips)})
}

// HandleSearch handles the search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Query == "" {
		return errorResult(errors.NewInvalidRequest("query is required")), nil
	}
	blips := h.store.Search(input.Query)
	return successResult(map[string]any{"blips": views(blips), "count": len(blips)})
}

// HandleRecent handles the recent tool call.
func (h *Handlers) HandleRecent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RecentRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	blips := h.store.GetRecent(limit)
	return successResult(map[string]any{"blips": views(blips), "count": len(blips)})
}

// HandleStats handles the stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(h.store.GetStats())
}

// HandleDelete handles the delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShowRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	ok, err := h.store.Delete(input.ID)
	if err != nil {
		return errorResult(err), nil
	}
	if !ok {
		return errorResult(errors.NewNotFound(input.ID)), nil
	}
	return successResult(map[string]any{"deleted": input.ID})
}

// mutation runs a store mutator and returns the updated blip on success.
// The (false, nil) contract maps to a NOT_FOUND error result.
func (h *Handlers) mutation(id string, fn func() (bool, error)) (*mcp.CallToolResult, error) {
	ok, err := fn()
	if err != nil {
		return errorResult(err), nil
	}
	if !ok {
		return errorResult(errors.NewNotFound(id)), nil
	}
	b, found := h.store.FindByID(id)
	if !found {
		return errorResult(errors.NewNotFound(id)), nil
	}
	return successResult(view(b))
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: internal error details are not exposed to prevent leaking paths.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if blipErr, ok := err.(*errors.BlipError); ok {
		errorObj := map[string]any{
			"code":    blipErr.Code,
			"message": blipErr.Message,
			"status":  blipErr.Status,
		}
		if blipErr.Code != errors.ErrInternal && blipErr.Code != errors.ErrPersistence && blipErr.Details != nil {
			errorObj["details"] = blipErr.Details
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

package web

import (
	"net/http"

	"github.com/hpungsan/blip/internal/config"
	"github.com/hpungsan/blip/internal/store"
)

// Handlers holds dependencies for web request handlers.
type Handlers struct {
	store    *store.Store
	cfg      *config.Config
	renderer *Renderer
}

// HandleIndex renders the blip index page.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := IndexPageData{
		PageData: PageData{Title: "Blips", Version: h.renderer.version},
		Entries:  h.store.BuildIndex(),
	}
	h.renderer.Render(w, "index", data)
}

// HandleDetail renders a single blip.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	b, ok := h.store.FindByID(id)
	if !ok {
		h.renderer.RenderError(w, http.StatusNotFound, "blip not found: "+id)
		return
	}

	data := DetailPageData{
		PageData:     PageData{Title: b.ID, Version: h.renderer.version},
		Blip:         b,
		RenderedHTML: renderMarkdown(b.Content),
	}
	if b.Source != nil {
		data.SourceType = string(b.Source.Kind())
		data.SourceRef = b.Source.Ref()
	}
	h.renderer.Render(w, "detail", data)
}

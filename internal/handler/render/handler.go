package render

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/navigator/backend/internal/model/component"
	"github.com/zhouzirui/navigator/backend/internal/render"
	"github.com/zhouzirui/navigator/backend/pkg/utils"
)

// Handler renders posted descriptors without touching any session.
type Handler struct{}

// New creates a render handler.
func New() *Handler {
	return &Handler{}
}

// RegisterRoutes mounts the render endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/render", h.handleRender)
}

func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Descriptors []component.Descriptor `json:"descriptors"`
	}
	if !utils.DecodeJSON(w, r, &payload) {
		return
	}

	views := render.Render(payload.Descriptors)
	if r.URL.Query().Get("format") == "html" {
		RespondHTML(w, views)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"views": views})
}

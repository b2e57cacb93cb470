// Package remito serves stored delivery note PDFs by file name.
package remito

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/remito/internal/document"
	"github.com/MrJamesThe3rd/remito/internal/http/response"
)

type Documents interface {
	Get(ctx context.Context, name string) ([]byte, error)
}

type Handler struct {
	documents Documents
}

func NewHandler(documents Documents) *Handler {
	return &Handler{documents: documents}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{name}", h.download)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := document.CheckName(name); err != nil {
		response.Error(w, r, err)
		return
	}

	data, err := h.documents.Get(r.Context(), name)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write document", "name", name, "error", err)
	}
}

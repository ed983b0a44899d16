package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	frontend_domain "github.com/repospector/repospector/frontend/internal/domain"
	"github.com/repospector/repospector/frontend/internal/middleware"
	"github.com/repospector/repospector/shared/domain"
	"github.com/repospector/repospector/shared/logger"
)

func (h *Handler) fetchInspection(w http.ResponseWriter, r *http.Request) (domain.Inspection, bool) {
	inspection, err := h.APIClient.GetInspection(r, chi.URLParam(r, "id"))
	if err != nil {
		if isUnauthorized(err) {
			h.LogoutHandler(w, r)
			return inspection, false
		}
		h.renderError(w, r, err)
		return inspection, false
	}
	return inspection, true
}

func (h *Handler) InspectionGetHandler(w http.ResponseWriter, r *http.Request) {
	inspection, ok := h.fetchInspection(w, r)
	if !ok {
		return
	}

	h.renderTemplate(w, r, "inspection.html", frontend_domain.InspectionPageData{
		Inspection: inspection,
		Notes:      h.Notes.Render(inspection.Notes),
	})
}

// InspectionDeleteGetHandler is the first phase of a delete: it only shows
// what is about to be removed and asks for confirmation.
func (h *Handler) InspectionDeleteGetHandler(w http.ResponseWriter, r *http.Request) {
	inspection, ok := h.fetchInspection(w, r)
	if !ok {
		return
	}
	h.renderTemplate(w, r, "delete.html", frontend_domain.DeletePageData{Inspection: inspection})
}

// InspectionDeletePostHandler is the confirmed second phase.
func (h *Handler) InspectionDeletePostHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.APIClient.DeleteInspection(r, id); err != nil {
		if isUnauthorized(err) {
			h.LogoutHandler(w, r)
			return
		}
		logger.Log.Info("inspection delete failed", "inspection_id", id, "error", err)
		h.redirectWithFlash(w, r, "/", middleware.FlashError, "Failed to delete inspection: "+userMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/", middleware.FlashSuccess, "Inspection deleted successfully")
}

// InspectionDownloadHandler serves the record as a JSON attachment.
func (h *Handler) InspectionDownloadHandler(w http.ResponseWriter, r *http.Request) {
	inspection, ok := h.fetchInspection(w, r)
	if !ok {
		return
	}

	body, err := json.MarshalIndent(inspection, "", "  ")
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, downloadName(inspection)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]+`)

// downloadName builds an ASCII filename like inspection-oak-street-2024-05-01.json.
func downloadName(i domain.Inspection) string {
	slug := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.ToLower(i.ProjectName), "-"), "-")
	if slug == "" {
		slug = i.Id.String()
	}
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	name := "inspection-" + slug
	if d := formatDate(i.Date); d != "" {
		name += "-" + d
	}
	return name + ".json"
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/repospector/repospector/shared/api"
	"github.com/repospector/repospector/shared/dashboard"
	"github.com/repospector/repospector/shared/domain"
	"github.com/repospector/repospector/shared/errors"
	jwt_internal "github.com/repospector/repospector/shared/jwt"
	mw "github.com/repospector/repospector/shared/middleware"
	"github.com/repospector/repospector/shared/utils"
)

const inspectionNotFound = "Inspection not found"

// inspectionId reads the {id} path param. A malformed id cannot name any
// record, so it is answered exactly like a missing one.
func inspectionId(r *http.Request) (domain.InspectionId, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.NotFound(inspectionNotFound)
	}
	return id, nil
}

func caller(r *http.Request) (jwt_internal.Identity, error) {
	identity, ok := mw.GetIdentityFromContext(r)
	if !ok {
		return jwt_internal.Identity{}, errors.Unauthorized("Authentication required")
	}
	return identity, nil
}

func (h *Handler) GetInspection(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	id, err := inspectionId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	inspection, err := h.inspection.Get(r.Context(), id, identity.UserId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, inspection)
}

// ListInspections serves the dashboard data. ?userId= selects another
// owner and is honoured for admins only.
func (h *Handler) ListInspections(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	owner := identity.UserId
	if raw := r.URL.Query().Get("userId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, errors.Validation("userId is invalid"))
			return
		}
		owner = parsed
	}

	items, err := h.inspection.List(r.Context(), identity.UserId, identity.Admin, owner, dashboard.ParseFilters(r.URL.Query()))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateInspection(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.CreateInspectionRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	inspection, err := h.inspection.Create(r.Context(), body.ToDomain(identity.UserId))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, inspection)
}

func (h *Handler) UpdateInspection(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	id, err := inspectionId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	var body api.UpdateInspectionRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	inspection, err := h.inspection.Update(r.Context(), id, identity.UserId, body.ToDomain())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, inspection)
}

func (h *Handler) DeleteInspection(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	id, err := inspectionId(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.inspection.Delete(r.Context(), id, identity.UserId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Inspection deleted successfully")
}

func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	identity, err := caller(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	info, err := h.inspection.Info(r.Context(), identity.UserId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.InfoResponse{TotalInspections: info.TotalInspections})
}

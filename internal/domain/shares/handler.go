package shares

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"nightspark/internal/middleware"
)

// PlanOwnerLookup evita importar el paquete plans (rompe ciclos).
type PlanOwnerLookup interface {
	OwnerOf(ctx context.Context, planID string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, planOwners PlanOwnerLookup) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		// Dueño del plan
		r.Route("/api/plans/{planID}/shares", func(sr chi.Router) {
			sr.Post("/", inviteShareHandler(svc, planOwners))
			sr.Get("/", listSharesByPlanHandler(svc, planOwners))
		})

		r.Route("/api/shares/{shareID}", func(sr chi.Router) {
			sr.Post("/accept", acceptShareHandler(svc))
			sr.Post("/revoke", revokeShareHandler(svc))
		})

		// Invitado: sus invitaciones
		r.Get("/api/me/shares", listMySharesHandler(svc))
	})
}

type inviteShareRequest struct {
	GranteeUserID string  `json:"grantee_user_id"`
	Scopes        []Scope `json:"scopes" enums:"plan:read,plan:edit"`
}

type shareResponse struct {
	ID            string     `json:"id"`
	PlanID        string     `json:"plan_id"`
	OwnerUserID   string     `json:"owner_user_id"`
	GranteeUserID string     `json:"grantee_user_id"`
	Scopes        []Scope    `json:"scopes"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// inviteShareHandler godoc
// @Summary Compartir un plan con un amigo
// @Description Solo el dueño. Sin scopes => plan:read. Re-invitar actualiza los scopes del share vivo.
// @Tags shares
// @Accept json
// @Produce json
// @Param planID path string true "ID del plan"
// @Param payload body inviteShareRequest true "Invitado y scopes"
// @Success 201 {object} shareResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/plans/{planID}/shares [post]
func inviteShareHandler(svc *Service, planOwners PlanOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())

		planID := chi.URLParam(r, "planID")
		if !requireOwner(w, r, planOwners, planID, userID) {
			return
		}

		var req inviteShareRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if strings.TrimSpace(req.GranteeUserID) == "" {
			writeError(w, http.StatusBadRequest, "grantee_user_id required")
			return
		}

		sh, err := svc.Invite(r.Context(), InviteInput{
			PlanID:        planID,
			OwnerUserID:   userID,
			GranteeUserID: req.GranteeUserID,
			Scopes:        req.Scopes,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toShareResponse(sh))
	}
}

// listSharesByPlanHandler godoc
// @Summary Listar shares de un plan
// @Tags shares
// @Produce json
// @Param planID path string true "ID del plan"
// @Success 200 {array} shareResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/plans/{planID}/shares [get]
func listSharesByPlanHandler(svc *Service, planOwners PlanOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())

		planID := chi.URLParam(r, "planID")
		if !requireOwner(w, r, planOwners, planID, userID) {
			return
		}

		items, err := svc.ListByPlan(r.Context(), planID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toShareResponses(items))
	}
}

// listMySharesHandler godoc
// @Summary Mis invitaciones
// @Tags shares
// @Produce json
// @Param status query string false "CSV: invited,active,revoked"
// @Success 200 {array} shareResponse
// @Failure 401 {object} errorResponse
// @Router /api/me/shares [get]
func listMySharesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())

		items, err := svc.ListByGrantee(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		if allowed := parseStatusFilter(r.URL.Query().Get("status")); len(allowed) > 0 {
			filtered := make([]Share, 0, len(items))
			for _, sh := range items {
				if _, ok := allowed[sh.Status]; ok {
					filtered = append(filtered, sh)
				}
			}
			items = filtered
		}
		writeJSON(w, http.StatusOK, toShareResponses(items))
	}
}

// acceptShareHandler godoc
// @Summary Aceptar invitación
// @Tags shares
// @Produce json
// @Param shareID path string true "ID del share"
// @Success 200 {object} shareResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/shares/{shareID}/accept [post]
func acceptShareHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())

		sh, err := svc.Accept(r.Context(), chi.URLParam(r, "shareID"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toShareResponse(sh))
	}
}

// revokeShareHandler godoc
// @Summary Revocar share
// @Tags shares
// @Produce json
// @Param shareID path string true "ID del share"
// @Success 200 {object} shareResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/shares/{shareID}/revoke [post]
func revokeShareHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())

		sh, err := svc.Revoke(r.Context(), chi.URLParam(r, "shareID"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toShareResponse(sh))
	}
}

func requireOwner(w http.ResponseWriter, r *http.Request, planOwners PlanOwnerLookup, planID, userID string) bool {
	ownerID, err := planOwners.OwnerOf(r.Context(), planID)
	if err != nil || strings.TrimSpace(ownerID) == "" {
		writeError(w, http.StatusNotFound, "plan not found")
		return false
	}
	if ownerID != userID {
		writeError(w, http.StatusForbidden, "forbidden")
		return false
	}
	return true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "share not found")
	case errors.Is(err, ErrBadState):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func toShareResponse(sh Share) shareResponse {
	return shareResponse{
		ID:            sh.ID,
		PlanID:        sh.PlanID,
		OwnerUserID:   sh.OwnerUserID,
		GranteeUserID: sh.GranteeUserID,
		Scopes:        sh.Scopes,
		Status:        sh.Status,
		CreatedAt:     sh.CreatedAt,
		UpdatedAt:     sh.UpdatedAt,
		RevokedAt:     sh.RevokedAt,
	}
}

func toShareResponses(items []Share) []shareResponse {
	out := make([]shareResponse, 0, len(items))
	for _, sh := range items {
		out = append(out, toShareResponse(sh))
	}
	return out
}

func parseStatusFilter(raw string) map[Status]struct{} {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	out := map[Status]struct{}{}
	for _, p := range strings.Split(raw, ",") {
		if st := Status(strings.TrimSpace(p)); st != "" {
			out[st] = struct{}{}
		}
	}
	return out
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

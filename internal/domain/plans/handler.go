package plans

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"nightspark/internal/domain/events"
	"nightspark/internal/domain/shares"
	"nightspark/internal/middleware"
	"nightspark/internal/platform/logger"
)

// EventLookup resuelve eventos de Storage por id (para agregar por eventId).
type EventLookup interface {
	GetByID(ctx context.Context, id string) (events.Event, error)
}

// StreamConfig configura el websocket de /stream.
type StreamConfig struct {
	// Orígenes permitidos; "*" acepta cualquiera. Vacío => cualquiera.
	AllowedOrigins []string
	Log            logger.Logger
}

func RegisterRoutes(r chi.Router, svc *Service, sharesSvc *shares.Service, lookup EventLookup, stream StreamConfig) {
	if stream.Log == nil {
		stream.Log = logger.Nop()
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)

		r.Route("/api/plans", func(pr chi.Router) {
			pr.Post("/", createPlanHandler(svc))
			pr.Get("/", listPlansHandler(svc))

			// Dueño o amigo con plan:read / plan:edit
			pr.Get("/{planID}", getPlanHandler(svc, sharesSvc))
			pr.Patch("/{planID}", updatePlanHandler(svc, sharesSvc))
			pr.Delete("/{planID}", deletePlanHandler(svc))

			pr.Post("/{planID}/items", addItemHandler(svc, sharesSvc, lookup))
			pr.Delete("/{planID}/items/{eventID}", removeItemHandler(svc, sharesSvc))

			pr.Get("/{planID}/itinerary", itineraryHandler(svc, sharesSvc))
			pr.Get("/{planID}/stream", streamPlanHandler(svc, sharesSvc, stream))
		})

		// Planes compartidos conmigo
		r.Get("/api/me/plans", listMySharedPlansHandler(svc, sharesSvc))
	})
}

type createPlanRequest struct {
	Name string `json:"name"`
	Date string `json:"date" example:"2026-03-14"` // YYYY-MM-DD opcional
}

type updatePlanRequest struct {
	Name *string `json:"name"`
	Date *string `json:"date"`
}

// addItemRequest: eventId busca en Storage; event trae el snapshot completo
// (resultados de /api/events con location no están en Storage).
type addItemRequest struct {
	EventID string        `json:"event_id"`
	Event   *events.Event `json:"event"`
}

type itemResponse struct {
	Event   events.Event `json:"event"`
	AddedAt time.Time    `json:"added_at"`
}

type planResponse struct {
	ID          string         `json:"id"`
	OwnerUserID string         `json:"owner_user_id"`
	Name        string         `json:"name"`
	Date        string         `json:"date,omitempty"`
	Items       []itemResponse `json:"items"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type sharedPlanResponse struct {
	Plan    planResponse   `json:"plan"`
	ShareID string         `json:"share_id"`
	Scopes  []shares.Scope `json:"scopes"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// createPlanHandler godoc
// @Summary Crear plan de salida
// @Tags plans
// @Accept json
// @Produce json
// @Param payload body createPlanRequest true "Nombre y fecha"
// @Success 201 {object} planResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /api/plans [post]
func createPlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())

		var req createPlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		p, err := svc.Create(r.Context(), userID, CreateInput(req))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPlanResponse(p))
	}
}

// listPlansHandler godoc
// @Summary Mis planes
// @Tags plans
// @Produce json
// @Success 200 {array} planResponse
// @Failure 401 {object} errorResponse
// @Router /api/plans [get]
func listPlansHandler(svc *Service) http.HandlerFunc {
	// Solo los propios (los compartidos van por /api/me/plans)
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())

		items, err := svc.ListByOwner(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]planResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPlanResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPlanHandler godoc
// @Summary Obtener plan
// @Tags plans
// @Produce json
// @Param planID path string true "ID del plan"
// @Success 200 {object} planResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/plans/{planID} [get]
func getPlanHandler(svc *Service, sharesSvc *shares.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorize(w, r, svc, sharesSvc, shares.ScopePlanRead)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toPlanResponse(p))
	}
}

// updatePlanHandler godoc
// @Summary Renombrar / cambiar fecha (parcial)
// @Tags plans
// @Accept json
// @Produce json
// @Param planID path string true "ID del plan"
// @Param payload body updatePlanRequest true "Campos a modificar"
// @Success 200 {object} planResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/plans/{planID} [patch]
func updatePlanHandler(svc *Service, sharesSvc *shares.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorize(w, r, svc, sharesSvc, shares.ScopePlanEdit)
		if !ok {
			return
		}

		var req updatePlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		updated, err := svc.Update(r.Context(), p.ID, UpdateInput(req))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPlanResponse(updated))
	}
}

// deletePlanHandler godoc
// @Summary Borrar plan (solo dueño)
// @Tags plans
// @Param planID path string true "ID del plan"
// @Success 204
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/plans/{planID} [delete]
func deletePlanHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "planID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if p.OwnerUserID != userID {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		if err := svc.Delete(r.Context(), p.ID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// addItemHandler godoc
// @Summary Agregar evento al plan
// @Description Con `event_id` busca en Storage; con `event` guarda el snapshot recibido. Agregar dos veces el mismo id no cambia el plan.
// @Tags plans
// @Accept json
// @Produce json
// @Param planID path string true "ID del plan"
// @Param payload body addItemRequest true "event_id o event"
// @Success 200 {object} planResponse
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/plans/{planID}/items [post]
func addItemHandler(svc *Service, sharesSvc *shares.Service, lookup EventLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorize(w, r, svc, sharesSvc, shares.ScopePlanEdit)
		if !ok {
			return
		}

		var req addItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var e events.Event
		switch {
		case req.Event != nil:
			e = *req.Event
		case strings.TrimSpace(req.EventID) != "" && lookup != nil:
			found, err := lookup.GetByID(r.Context(), strings.TrimSpace(req.EventID))
			if err != nil {
				if errors.Is(err, events.ErrNotFound) {
					writeError(w, http.StatusNotFound, "event not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			e = found
		default:
			writeError(w, http.StatusBadRequest, "event_id or event required")
			return
		}

		updated, err := svc.AddItem(r.Context(), p.ID, e)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPlanResponse(updated))
	}
}

// removeItemHandler godoc
// @Summary Quitar evento del plan
// @Tags plans
// @Produce json
// @Param planID path string true "ID del plan"
// @Param eventID path string true "ID del evento"
// @Success 200 {object} planResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/plans/{planID}/items/{eventID} [delete]
func removeItemHandler(svc *Service, sharesSvc *shares.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorize(w, r, svc, sharesSvc, shares.ScopePlanEdit)
		if !ok {
			return
		}

		updated, err := svc.RemoveItem(r.Context(), p.ID, chi.URLParam(r, "eventID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPlanResponse(updated))
	}
}

// itineraryHandler godoc
// @Summary Itinerario estimado
// @Description 120 minutos por parada y 20 de traslado entre paradas. Aritmética fija, sin ruteo.
// @Tags plans
// @Produce json
// @Param planID path string true "ID del plan"
// @Success 200 {object} Itinerary
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/plans/{planID}/itinerary [get]
func itineraryHandler(svc *Service, sharesSvc *shares.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorize(w, r, svc, sharesSvc, shares.ScopePlanRead)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, BuildItinerary(p))
	}
}

// listMySharedPlansHandler godoc
// @Summary Planes compartidos conmigo
// @Tags plans
// @Produce json
// @Success 200 {array} sharedPlanResponse
// @Failure 401 {object} errorResponse
// @Router /api/me/plans [get]
func listMySharedPlansHandler(svc *Service, sharesSvc *shares.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r.Context())

		items, err := sharesSvc.ListByGrantee(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		seen := map[string]struct{}{}
		out := make([]sharedPlanResponse, 0)
		for _, sh := range items {
			if sh.Status != shares.StatusActive || !shares.HasScope(sh, shares.ScopePlanRead) {
				continue
			}
			if _, ok := seen[sh.PlanID]; ok {
				continue
			}
			seen[sh.PlanID] = struct{}{}

			p, err := svc.GetByID(r.Context(), sh.PlanID)
			if err != nil {
				// share huérfano (plan borrado)
				continue
			}
			out = append(out, sharedPlanResponse{
				Plan:    toPlanResponse(p),
				ShareID: sh.ID,
				Scopes:  sh.Scopes,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// authorize: dueño pasa siempre; si no, share activo con scope.
func authorize(w http.ResponseWriter, r *http.Request, svc *Service, sharesSvc *shares.Service, scope shares.Scope) (Plan, bool) {
	userID := middleware.UserID(r.Context())

	p, err := svc.GetByID(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		writeServiceError(w, err)
		return Plan{}, false
	}
	if p.OwnerUserID != userID && !sharesSvc.Allowed(r.Context(), p.ID, userID, scope) {
		writeError(w, http.StatusForbidden, "forbidden")
		return Plan{}, false
	}
	return p, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "plan not found")
	case errors.Is(err, ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func toPlanResponse(p Plan) planResponse {
	items := make([]itemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, itemResponse{Event: it.Event, AddedAt: it.AddedAt})
	}
	return planResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Date:        p.Date,
		Items:       items,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

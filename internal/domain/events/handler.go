package events

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

// Discoverer corre el pipeline de agregación para una ubicación.
// Nunca falla hacia el usuario: en el peor caso devuelve sintéticos o vacío.
type Discoverer interface {
	Discover(ctx context.Context, location string) []Event
}

// RegisterRoutes monta /api/events. disc puede ser nil (solo Storage).
func RegisterRoutes(r chi.Router, svc *Service, disc Discoverer) {
	r.Route("/api/events", func(er chi.Router) {
		er.Get("/", listEventsHandler(svc, disc))
		er.Get("/featured", featuredEventsHandler(svc, disc))
		er.Post("/", createEventHandler(svc))

		er.Get("/{eventID}", getEventHandler(svc))
		er.Patch("/{eventID}", updateEventHandler(svc))
		er.Delete("/{eventID}", deleteEventHandler(svc))
	})
}

// createEventRequest es el cuerpo para dar de alta un evento en Storage.
type createEventRequest struct {
	Name           string            `json:"name"`
	Venue          string            `json:"venue"`
	Address        string            `json:"address"`
	City           string            `json:"city"`
	State          string            `json:"state"`
	StartTime      string            `json:"startTime" example:"21:00"`
	EndTime        *string           `json:"endTime" example:"23:30"`
	Price          int               `json:"price"` // centavos
	AgeRequirement AgeRequirement    `json:"ageRequirement" enums:"all,18,21"`
	Categories     []Category        `json:"categories"`
	TicketLinks    map[string]string `json:"ticketLinks"`
	ImageURL       string            `json:"imageUrl"`
	Description    string            `json:"description"`
	Kind           Kind              `json:"kind" enums:"scheduled_event,venue_listing"`
}

// updateEventRequest: todos los campos opcionales (PATCH).
type updateEventRequest struct {
	Name           *string            `json:"name"`
	Venue          *string            `json:"venue"`
	Address        *string            `json:"address"`
	City           *string            `json:"city"`
	State          *string            `json:"state"`
	StartTime      *string            `json:"startTime"`
	EndTime        *string            `json:"endTime"`
	Price          *int               `json:"price"`
	AgeRequirement *AgeRequirement    `json:"ageRequirement"`
	Categories     *[]Category        `json:"categories"`
	TicketLinks    *map[string]string `json:"ticketLinks"`
	ImageURL       *string            `json:"imageUrl"`
	Description    *string            `json:"description"`
}

// featuredResponse es la página de destacados.
type featuredResponse struct {
	Events  []Event `json:"events"`
	HasMore bool    `json:"hasMore"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// listEventsHandler godoc
// @Summary Buscar eventos
// @Description Con `location` corre la agregación (Ticketmaster + Eventbrite, luego Google Places, luego generador sintético) y filtra el resultado. Sin `location` consulta el set de Storage con el mismo filtro. Precios en centavos.
// @Tags events
// @Produce json
// @Param location query string false "Texto libre, ej: San Francisco, CA"
// @Param categories query []string false "Categorías (repetible o CSV); alcanza con que matchee una" collectionFormat(multi)
// @Param ageRequirement query string false "all, 18 o 21 (match exacto)"
// @Param minPrice query int false "Precio mínimo en centavos (inclusivo)"
// @Param maxPrice query int false "Precio máximo en centavos (inclusivo)"
// @Success 200 {array} Event
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/events [get]
func listEventsHandler(svc *Service, disc Discoverer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := ParseFilter(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		location := strings.TrimSpace(r.URL.Query().Get("location"))
		if location != "" && disc != nil {
			found := disc.Discover(r.Context(), location)
			writeJSON(w, http.StatusOK, filter.Apply(found))
			return
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, nonNil(items))
	}
}

// featuredEventsHandler godoc
// @Summary Eventos destacados
// @Description Devuelve una página de eventos; los que matchean `interests` van primero. `page` es 1-based, `limit` por defecto 10 (máx 50).
// @Tags events
// @Produce json
// @Param location query string false "Texto libre; sin location usa Storage"
// @Param interests query []string false "Categorías de interés (repetible o CSV)" collectionFormat(multi)
// @Param page query int false "Página, desde 1"
// @Param limit query int false "Tamaño de página (1-50)"
// @Success 200 {object} featuredResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/events/featured [get]
func featuredEventsHandler(svc *Service, disc Discoverer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		page, err := intParam(q.Get("page"), 1)
		if err != nil || page < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		limit, err := intParam(q.Get("limit"), DefaultFeaturedLimit)
		if err != nil || limit < 1 || limit > MaxFeaturedLimit {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}

		var all []Event
		if location := strings.TrimSpace(q.Get("location")); location != "" && disc != nil {
			all = disc.Discover(r.Context(), location)
		} else {
			all, err = svc.List(r.Context(), Filter{})
			if err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		items, hasMore := Featured(all, ParseInterests(q["interests"]), page, limit)
		writeJSON(w, http.StatusOK, featuredResponse{Events: nonNil(items), HasMore: hasMore})
	}
}

// createEventHandler godoc
// @Summary Crear evento en Storage
// @Tags events
// @Accept json
// @Produce json
// @Param payload body createEventRequest true "Evento; startTime/endTime en HH:MM"
// @Success 201 {object} Event
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/events [post]
func createEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		e, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

// getEventHandler godoc
// @Summary Obtener evento de Storage
// @Tags events
// @Produce json
// @Param eventID path string true "ID del evento"
// @Success 200 {object} Event
// @Failure 404 {object} errorResponse
// @Router /api/events/{eventID} [get]
func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// updateEventHandler godoc
// @Summary Actualizar evento de Storage (parcial)
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path string true "ID del evento"
// @Param payload body updateEventRequest true "Campos a modificar"
// @Success 200 {object} Event
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/events/{eventID} [patch]
func updateEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		e, err := svc.Update(r.Context(), chi.URLParam(r, "eventID"), UpdateInput(req))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// deleteEventHandler godoc
// @Summary Borrar evento de Storage
// @Tags events
// @Param eventID path string true "ID del evento"
// @Success 204
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/events/{eventID} [delete]
func deleteEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "eventID")); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "event not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func intParam(v string, def int) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func nonNil(in []Event) []Event {
	if in == nil {
		return []Event{}
	}
	return in
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

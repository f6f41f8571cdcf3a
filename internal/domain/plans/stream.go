package plans

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"nightspark/internal/domain/shares"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// streamMessage es lo único que manda el servidor: el plan completo.
type streamMessage struct {
	Type string       `json:"type"` // "snapshot"
	Plan planResponse `json:"plan"`
}

func newUpgrader(cfg StreamConfig) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r.Header.Get("Origin"), cfg.AllowedOrigins)
		},
	}
}

// originAllowed: sin Origin es un cliente nativo (app), no un browser.
func originAllowed(origin string, allowed []string) bool {
	if origin == "" || len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// streamPlanHandler godoc
// @Summary Cambios del plan en vivo (websocket)
// @Description Manda el snapshot actual al conectar y uno nuevo en cada cambio. Se cierra si el plan se borra.
// @Tags plans
// @Param planID path string true "ID del plan"
// @Success 101
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/plans/{planID}/stream [get]
func streamPlanHandler(svc *Service, sharesSvc *shares.Service, cfg StreamConfig) http.HandlerFunc {
	upgrader := newUpgrader(cfg)

	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := authorize(w, r, svc, sharesSvc, shares.ScopePlanRead)
		if !ok {
			return
		}

		// El snapshot inicial se lee después de suscribir: un cambio entre
		// authorize y Subscribe llega en la relectura o como update.
		updates, cancel := svc.Broker().Subscribe(p.ID)
		defer cancel()

		p, err := svc.GetByID(r.Context(), p.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade ya respondió con el error HTTP.
			cfg.Log.Warn("plan stream upgrade failed", map[string]any{"plan_id": p.ID, "error": err})
			return
		}
		defer conn.Close()

		log := cfg.Log.With(map[string]any{"plan_id": p.ID})
		log.Debug("plan stream opened", nil)

		// El cliente no manda nada útil; leemos solo para pongs y para detectar cierre.
		closed := make(chan struct{})
		go func() {
			defer close(closed)
			conn.SetReadLimit(maxMessageSize)
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(pongWait))
			})
			for {
				if _, _, err := conn.NextReader(); err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
						log.Debug("plan stream read error", map[string]any{"error": err})
					}
					return
				}
			}
		}()

		if err := writeSnapshot(conn, p); err != nil {
			return
		}

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-closed:
				log.Debug("plan stream closed by client", nil)
				return

			case snapshot, ok := <-updates:
				if !ok {
					// plan borrado o shutdown
					_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "plan closed"))
					return
				}
				if err := writeSnapshot(conn, snapshot); err != nil {
					log.Debug("plan stream write failed", map[string]any{"error": err})
					return
				}

			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

func writeSnapshot(conn *websocket.Conn, p Plan) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(streamMessage{Type: "snapshot", Plan: toPlanResponse(p)})
}

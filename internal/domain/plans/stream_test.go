package plans

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"nightspark/internal/middleware"
	"nightspark/internal/platform/logger"
)

// lateWriteRepo simula una escritura que cae justo después de la primera
// lectura del plan (antes de que el stream se suscriba al broker).
type lateWriteRepo struct {
	*testRepo
	afterFirstGet func()
}

func (r *lateWriteRepo) GetByID(ctx context.Context, id string) (Plan, error) {
	p, err := r.testRepo.GetByID(ctx, id)
	if hook := r.afterFirstGet; hook != nil {
		r.afterFirstGet = nil
		hook()
	}
	return p, err
}

func TestStream_InitialSnapshotIncludesWriteBeforeSubscribe(t *testing.T) {
	base := newTestRepo()
	repo := &lateWriteRepo{testRepo: base}
	svc := NewService(repo, NewBroker())

	p, err := svc.Create(context.Background(), "owner", CreateInput{Name: "Friday"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	repo.afterFirstGet = func() {
		stored := base.byID[p.ID]
		stored.Items = append(stored.Items, Item{Event: testEvent("e1", "21:00"), AddedAt: time.Now()})
		base.byID[p.ID] = stored
	}

	r := chi.NewRouter()
	r.Use(middleware.AuthContext(nil))
	r.Get("/api/plans/{planID}/stream", streamPlanHandler(svc, nil, StreamConfig{Log: logger.Nop()}))
	ts := httptest.NewServer(r)
	defer ts.Close()

	hdr := http.Header{}
	hdr.Set("X-Debug-User-ID", "owner")
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/plans/" + p.ID + "/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, hdr)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer resp.Body.Close()
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg streamMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if msg.Type != "snapshot" || len(msg.Plan.Items) != 1 {
		t.Fatalf("expected snapshot with the late item, got %q with %d items", msg.Type, len(msg.Plan.Items))
	}
}

package plans

import (
	"sync"

	"nightspark/internal/platform/metrics"
)

// Broker reparte snapshots de un plan a quien esté mirando (websocket).
// Cada subscriber tiene buffer de 1: si no consume a tiempo, el snapshot
// viejo se reemplaza por el nuevo (siempre recibe el último estado).
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan Plan
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[int]chan Plan)}
}

// Subscribe devuelve un canal de snapshots de planID y la función para cortar.
// cancel cierra el canal; llamarla más de una vez no hace nada.
func (b *Broker) Subscribe(planID string) (<-chan Plan, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan Plan, 1)

	if b.subs[planID] == nil {
		b.subs[planID] = make(map[int]chan Plan)
	}
	b.subs[planID][id] = ch
	metrics.PlanSubscribers.Inc()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		// Close() puede haberlo cerrado ya.
		if _, ok := b.subs[planID][id]; !ok {
			return
		}
		delete(b.subs[planID], id)
		if len(b.subs[planID]) == 0 {
			delete(b.subs, planID)
		}
		close(ch)
		metrics.PlanSubscribers.Dec()
	}
	return ch, cancel
}

// Publish no bloquea nunca.
func (b *Broker) Publish(p Plan) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[p.ID] {
		snapshot := p.Clone()
		select {
		case ch <- snapshot:
			continue
		default:
		}
		// lleno: descartar el viejo y dejar el último
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Drop cierra los subscribers de un plan (plan borrado).
func (b *Broker) Drop(planID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs[planID] {
		close(ch)
		delete(b.subs[planID], id)
		metrics.PlanSubscribers.Dec()
	}
	delete(b.subs, planID)
}

// Close cierra todos los canales (shutdown).
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for planID, m := range b.subs {
		for id, ch := range m {
			close(ch)
			delete(m, id)
			metrics.PlanSubscribers.Dec()
		}
		delete(b.subs, planID)
	}
}

// Subscribers cuenta los subscribers de planID.
func (b *Broker) Subscribers(planID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[planID])
}

package normalize

import (
	"hash/fnv"
	"math/rand/v2"
)

// Seeded devuelve un generador determinístico para un id estable de la fuente:
// el mismo registro crudo produce siempre el mismo precio/links/capacidad.
func Seeded(key string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	sum := h.Sum64()
	return rand.New(rand.NewPCG(sum, sum^0x9e3779b97f4a7c15))
}

// Attendance: capacidad sembrada (múltiplos de 10, 50-500); asistentes actuales
// sin sembrar, son solo decorativos.
func Attendance(rng *rand.Rand) (current, capacity int) {
	capacity = 50 + rng.IntN(46)*10
	current = rand.IntN(capacity + 1)
	return current, capacity
}

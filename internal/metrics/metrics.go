package metrics

import "time"

// Sink получает счётчики и латентность всего расчёта. Бизнес-логики тут
// нет — только операционная видимость горячего пути.
type Sink interface {
	IncRequests()
	ObserveLatency(d time.Duration)
}

// Nop is for tests and wiring where metrics are not configured.
type Nop struct{}

func (Nop) IncRequests()                  {}
func (Nop) ObserveLatency(time.Duration) {}

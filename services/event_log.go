package services

import (
	"log"
	"sync"

	"github.com/ferreirogomes/quitanda/models"
)

// EventSink recebe eventos de domínio emitidos pelo engine após cada
// operação confirmada. O engine não depende de quem consome os eventos.
type EventSink interface {
	Publish(event models.MarketEvent)
}

// EventLog é um diário em memória, append-only, de eventos de domínio.
// Implementa EventSink e serve de superfície de polling para o indexador:
// consumidores pedem EventsSince(seq) periodicamente em vez de assinar.
type EventLog struct {
	mu     sync.RWMutex
	events []models.MarketEvent
}

// NewEventLog cria um diário vazio.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Publish anexa o evento ao diário.
func (l *EventLog) Publish(event models.MarketEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

// EventsSince devolve, em ordem de commit, todos os eventos com sequência
// estritamente maior que afterSeq.
func (l *EventLog) EventsSince(afterSeq uint64) []models.MarketEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.MarketEvent, 0)
	for _, ev := range l.events {
		if ev.Sequence > afterSeq {
			out = append(out, ev)
		}
	}
	return out
}

// Len devolve a quantidade de eventos registrados.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}

// MultiSink repassa cada evento para vários sinks, na ordem dada.
// Um sink que entre em pânico não derruba o engine.
type MultiSink struct {
	sinks []EventSink
}

// NewMultiSink cria um fan-out sobre os sinks informados.
func NewMultiSink(sinks ...EventSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Add registra mais um sink. Só deve ser chamado durante a montagem da
// aplicação, antes de o engine começar a emitir.
func (m *MultiSink) Add(sink EventSink) {
	m.sinks = append(m.sinks, sink)
}

// Publish entrega o evento a cada sink registrado.
func (m *MultiSink) Publish(event models.MarketEvent) {
	for _, sink := range m.sinks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Sink de eventos entrou em pânico para seq %d: %v", event.Sequence, r)
				}
			}()
			sink.Publish(event)
		}()
	}
}

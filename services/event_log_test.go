package services_test

import (
	"testing"

	"github.com/ferreirogomes/quitanda/models"
	"github.com/ferreirogomes/quitanda/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEventLogEventsSince verifica o recorte por sequência.
func TestEventLogEventsSince(t *testing.T) {
	eventLog := services.NewEventLog()
	for seq := uint64(1); seq <= 5; seq++ {
		eventLog.Publish(models.MarketEvent{Sequence: seq, Kind: models.EventMinted, AssetID: "a1"})
	}

	assert.Equal(t, 5, eventLog.Len())

	events := eventLog.EventsSince(0)
	require.Len(t, events, 5)
	assert.Equal(t, uint64(1), events[0].Sequence)

	events = eventLog.EventsSince(3)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(4), events[0].Sequence)
	assert.Equal(t, uint64(5), events[1].Sequence)

	assert.Empty(t, eventLog.EventsSince(5))
}

// sinkFunc adapta uma função a EventSink para os testes.
type sinkFunc func(models.MarketEvent)

func (f sinkFunc) Publish(event models.MarketEvent) { f(event) }

// TestMultiSinkFanOut verifica a entrega a todos os sinks, mesmo quando
// um deles entra em pânico.
func TestMultiSinkFanOut(t *testing.T) {
	var first, second []uint64
	panicking := sinkFunc(func(models.MarketEvent) { panic("sink quebrado") })

	multi := services.NewMultiSink(
		sinkFunc(func(ev models.MarketEvent) { first = append(first, ev.Sequence) }),
		panicking,
	)
	multi.Add(sinkFunc(func(ev models.MarketEvent) { second = append(second, ev.Sequence) }))

	multi.Publish(models.MarketEvent{Sequence: 1})
	multi.Publish(models.MarketEvent{Sequence: 2})

	assert.Equal(t, []uint64{1, 2}, first)
	assert.Equal(t, []uint64{1, 2}, second)
}

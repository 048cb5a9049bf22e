package simulation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisheim/Sleeping-Barber-Problem/pkg/simulation"
)

func TestRecorderAssignsSequence(t *testing.T) {
	recorder := simulation.NewRecorder()

	recorder.Record(simulation.Event{Type: simulation.EventCustomerArrived, CustomerID: 1})
	recorder.Record(simulation.Event{Type: simulation.EventCustomerAdmitted, CustomerID: 1})
	recorder.Record(simulation.Event{Type: simulation.EventServiceStarted, CustomerID: 1})

	events := recorder.Events()
	require.Len(t, events, 3)
	for i, event := range events {
		assert.Equal(t, uint64(i+1), event.Seq)
	}
}

func TestRecorderAggregatesAreAFoldOfTheLog(t *testing.T) {
	recorder := simulation.NewRecorder()

	recorder.Record(simulation.Event{Type: simulation.EventServiceStarted, CustomerID: 1, Wait: 40 * time.Millisecond})
	recorder.Record(simulation.Event{Type: simulation.EventServiceEnded, CustomerID: 1, Service: 100 * time.Millisecond})
	recorder.Record(simulation.Event{Type: simulation.EventServiceStarted, CustomerID: 2, Wait: 20 * time.Millisecond})
	recorder.Record(simulation.Event{Type: simulation.EventServiceEnded, CustomerID: 2, Service: 200 * time.Millisecond})
	recorder.Record(simulation.Event{Type: simulation.EventCustomerBalked, CustomerID: 3})

	agg := recorder.Aggregates()
	assert.Equal(t, 2, agg.Served)
	assert.Equal(t, 1, agg.Balked)
	assert.Equal(t, 3, agg.Finalized())
	assert.Equal(t, 30*time.Millisecond, agg.AvgWait)
	assert.Equal(t, 150*time.Millisecond, agg.AvgService)

	// Replaying the log through a fresh recorder yields the same numbers.
	replay := simulation.NewRecorder()
	for _, event := range recorder.Events() {
		replay.Record(simulation.Event{Type: event.Type, Wait: event.Wait, Service: event.Service})
	}
	assert.Equal(t, agg, replay.Aggregates())
}

func TestRecorderTail(t *testing.T) {
	recorder := simulation.NewRecorder()
	for i := 1; i <= 10; i++ {
		recorder.Record(simulation.Event{Type: simulation.EventCustomerArrived, CustomerID: i})
	}

	tail := recorder.Tail(3)
	require.Len(t, tail, 3)
	assert.Equal(t, 8, tail[0].CustomerID)
	assert.Equal(t, 10, tail[2].CustomerID)

	assert.Len(t, recorder.Tail(0), 10)
	assert.Len(t, recorder.Tail(100), 10)
}

func TestRecorderSubscribe(t *testing.T) {
	recorder := simulation.NewRecorder()
	events := recorder.Subscribe(8)

	recorder.Record(simulation.Event{Type: simulation.EventCustomerArrived, CustomerID: 1})
	recorder.Record(simulation.Event{Type: simulation.EventCustomerBalked, CustomerID: 1})
	recorder.Close()

	var received []simulation.EventType
	for event := range events {
		received = append(received, event.Type)
	}
	assert.Equal(t, []simulation.EventType{simulation.EventCustomerArrived, simulation.EventCustomerBalked}, received)
}

func TestRecorderCountsDroppedDeliveries(t *testing.T) {
	recorder := simulation.NewRecorder()
	events := recorder.Subscribe(1)

	for i := 1; i <= 3; i++ {
		recorder.Record(simulation.Event{Type: simulation.EventCustomerArrived, CustomerID: i})
	}

	// Only the first event fit the buffer; the log itself stays complete.
	assert.Equal(t, uint64(2), recorder.Dropped())
	assert.Len(t, recorder.Events(), 3)

	first := <-events
	assert.Equal(t, 1, first.CustomerID)
}

func TestRecorderClosedIsInert(t *testing.T) {
	recorder := simulation.NewRecorder()
	recorder.Close()
	recorder.Close()

	recorder.Record(simulation.Event{Type: simulation.EventCustomerArrived, CustomerID: 1})
	assert.Empty(t, recorder.Events())

	events := recorder.Subscribe(1)
	_, open := <-events
	assert.False(t, open)
}

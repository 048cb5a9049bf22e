package simulation_test

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denisheim/Sleeping-Barber-Problem/pkg/simulation"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestWaitingRoomFIFO(t *testing.T) {
	room := simulation.NewWaitingRoom(3, simulation.NewRecorder(), testLogger())

	for id := 1; id <= 3; id++ {
		require.True(t, room.TryAdmit(simulation.NewCustomer(id, time.Now())))
	}
	assert.Equal(t, 3, room.Occupancy())

	for id := 1; id <= 3; id++ {
		customer, ok := room.TakeNext()
		require.True(t, ok)
		assert.Equal(t, id, customer.ID)
	}

	_, ok := room.TakeNext()
	assert.False(t, ok)
	assert.Equal(t, 0, room.Occupancy())
}

func TestWaitingRoomFull(t *testing.T) {
	room := simulation.NewWaitingRoom(1, simulation.NewRecorder(), testLogger())

	assert.True(t, room.TryAdmit(simulation.NewCustomer(1, time.Now())))
	assert.False(t, room.TryAdmit(simulation.NewCustomer(2, time.Now())))
	assert.Equal(t, 1, room.Occupancy())
}

func TestWaitingRoomZeroCapacity(t *testing.T) {
	room := simulation.NewWaitingRoom(0, simulation.NewRecorder(), testLogger())

	assert.False(t, room.TryAdmit(simulation.NewCustomer(1, time.Now())))
	assert.Equal(t, 0, room.Occupancy())
}

func TestWaitingRoomConcurrentAdmission(t *testing.T) {
	const capacity = 4
	const contenders = 32

	room := simulation.NewWaitingRoom(capacity, simulation.NewRecorder(), testLogger())

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for id := 1; id <= contenders; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if room.TryAdmit(simulation.NewCustomer(id, time.Now())) {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, capacity, admitted)
	assert.Equal(t, capacity, room.Occupancy())
}

func TestWaitingRoomAdmissionStampsWaitStart(t *testing.T) {
	room := simulation.NewWaitingRoom(1, simulation.NewRecorder(), testLogger())

	customer := simulation.NewCustomer(1, time.Now())
	require.True(t, room.TryAdmit(customer))
	assert.False(t, customer.WaitStartedAt.IsZero())
}

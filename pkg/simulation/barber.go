package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// BarberState is the barber's position in its state machine
type BarberState string

const (
	StateSleeping BarberState = "sleeping"
	StateCutting  BarberState = "cutting"
	StateStopped  BarberState = "stopped"
)

// Barber consumes customers from the waiting room, one at a time. While
// the shop is empty it sleeps on a single-slot wake channel: repeated wake
// requests coalesce into one token, and a token sent before the barber
// starts waiting is buffered rather than lost, which closes the classic
// missed-wakeup window. A spurious leftover token is harmless because the
// loop re-checks the room before sleeping again.
//
// Claiming a customer and entering the cutting state happen in one
// critical section, so the advertised state never lags the loop: a
// concurrent Offer can never observe a sleeping barber that is already
// committed to a customer.
type Barber struct {
	mu      sync.Mutex
	state   BarberState
	current *Customer
	pending *Customer

	wake         chan struct{}
	room         *WaitingRoom
	intervals    IntervalSource
	events       Sink
	log          logrus.FieldLogger
	arrivalsDone <-chan struct{}
}

// NewBarber creates a sleeping barber serving the given room. arrivalsDone
// must be closed once the arrival process has generated its full quota; it
// is how the barber tells an empty lull from the end of the run.
func NewBarber(room *WaitingRoom, intervals IntervalSource, events Sink, log logrus.FieldLogger, arrivalsDone <-chan struct{}) *Barber {
	return &Barber{
		state:        StateSleeping,
		wake:         make(chan struct{}, 1),
		room:         room,
		intervals:    intervals,
		events:       events,
		log:          log,
		arrivalsDone: arrivalsDone,
	}
}

// Wake signals the barber that a customer became available. Safe to call
// at any time from any goroutine; a no-op while the barber is cutting.
func (b *Barber) Wake() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Offer hands a customer directly to a sleeping barber. This is the
// "served immediately" path: with zero waiting chairs a customer can still
// be served if it finds the barber free. Returns false if the barber is
// busy, stopped, already has a customer claimed or a handoff pending, or
// customers are still seated ahead of this one; the customer balks in
// that case.
func (b *Barber) Offer(customer *Customer) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateSleeping || b.current != nil || b.pending != nil || b.room.Occupancy() > 0 {
		return false
	}

	now := time.Now()
	customer.WaitStartedAt = now
	b.pending = customer
	b.events.Record(Event{
		Time:       now,
		Type:       EventCustomerAdmitted,
		CustomerID: customer.ID,
		Message:    fmt.Sprintf("customer %d goes straight to the chair", customer.ID),
	})

	select {
	case b.wake <- struct{}{}:
	default:
	}
	return true
}

// State returns the current state for observers
func (b *Barber) State() BarberState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Run is the barber loop. It returns nil on cancellation or once all
// arrivals are finalized and the shop is empty, and an error only for an
// invariant violation. An in-progress haircut always completes, even when
// the context is cancelled mid-cut. The stopped state is entered before
// Run returns, never after, so no customer can be admitted to a barber
// whose loop has already exited.
func (b *Barber) Run(ctx context.Context) error {
	for {
		customer, err := b.claim()
		if err != nil {
			b.setState(StateStopped)
			return err
		}
		if customer == nil {
			b.setState(StateSleeping)
			select {
			case <-b.wake:
				continue
			case <-ctx.Done():
				b.setState(StateStopped)
				return nil
			case <-b.arrivalsDone:
				if b.shopEmpty() {
					b.log.Info("all customers have been handled")
					b.setState(StateStopped)
					return nil
				}
				continue
			}
		}

		b.cut(customer)

		select {
		case <-ctx.Done():
			b.setState(StateStopped)
			return nil
		default:
		}
	}
}

// claim atomically takes the next customer and enters the cutting state.
// The waiting room queue is consulted first to preserve arrival order,
// then the direct handoff slot. Service-start bookkeeping happens in the
// same critical section as the removal, so there is no window in which
// the customer has left the room but the barber still looks idle.
func (b *Barber) claim() (*Customer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	customer, ok := b.room.TakeNext()
	if !ok {
		customer = b.pending
		b.pending = nil
	}
	if customer == nil {
		return nil, nil
	}

	if b.current != nil {
		return nil, errors.Errorf("invariant violated: barber claimed customer %d while still serving customer %d", customer.ID, b.current.ID)
	}

	start := time.Now()
	b.current = customer
	customer.ServiceStartedAt = start
	if b.state != StateCutting {
		b.state = StateCutting
		b.events.Record(Event{
			Time:    start,
			Type:    EventBarberStateChange,
			State:   StateCutting,
			Message: "barber is awakened",
		})
	}
	b.events.Record(Event{
		Time:       start,
		Type:       EventServiceStarted,
		CustomerID: customer.ID,
		Wait:       start.Sub(customer.WaitStartedAt),
		Message:    fmt.Sprintf("barber starts cutting customer %d's hair", customer.ID),
	})

	return customer, nil
}

func (b *Barber) shopEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending == nil && b.room.Occupancy() == 0
}

func (b *Barber) cut(customer *Customer) {
	cutTime := b.intervals.HaircutTime()
	b.log.WithFields(logrus.Fields{
		"customer": customer.ID,
		"duration": cutTime,
	}).Info("barber is cutting hair")

	// Simulate cutting. Deliberately not interruptible: a stop request
	// lets the current customer finish.
	time.Sleep(cutTime)

	end := time.Now()
	b.mu.Lock()
	customer.ServiceEndedAt = end
	customer.Outcome = OutcomeServed
	b.current = nil
	b.events.Record(Event{
		Time:       end,
		Type:       EventServiceEnded,
		CustomerID: customer.ID,
		Service:    end.Sub(customer.ServiceStartedAt),
		Message:    fmt.Sprintf("barber finished cutting customer %d's hair", customer.ID),
	})
	b.mu.Unlock()

	b.log.WithField("customer", customer.ID).Info("barber finished cutting hair")
}

func (b *Barber) setState(state BarberState) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == state {
		return
	}
	b.state = state

	message := "barber goes to sleep"
	if state == StateStopped {
		message = "barber has stopped"
	}
	b.events.Record(Event{
		Time:    time.Now(),
		Type:    EventBarberStateChange,
		State:   state,
		Message: message,
	})
	b.log.WithField("state", string(state)).Info(message)
}

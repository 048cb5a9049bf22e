package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/denisheim/Sleeping-Barber-Problem/pkg/config"
)

// Snapshot is a consistent point-in-time view of a run for external
// observers: the aggregates, the recent tail of the event log, and the
// live state of the shop.
type Snapshot struct {
	RunID      uuid.UUID
	Aggregates Aggregates
	Barber     BarberState
	Waiting    int
	Events     []Event
}

// Option customizes a simulator
type Option func(*Simulator)

// WithIntervalSource substitutes the timing source, typically a Scripted
// one for deterministic reproductions
func WithIntervalSource(src IntervalSource) Option {
	return func(s *Simulator) {
		s.intervals = src
	}
}

// WithLogger substitutes the logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Simulator) {
		s.baseLog = log
	}
}

// Simulator owns the shared simulation state and runs the two loops: the
// barber and the customer arrival process. The waiting room, the barber
// and the recorder each guard their own state with their own mutex; the
// loops coordinate through the wake signal and the event stream, never by
// holding two peer locks at once.
type Simulator struct {
	cfg       *config.Config
	runID     uuid.UUID
	baseLog   logrus.FieldLogger
	log       logrus.FieldLogger
	intervals IntervalSource

	room     *WaitingRoom
	barber   *Barber
	recorder *Recorder

	arrivalsDone chan struct{}
	cancel       context.CancelFunc
	startOnce    sync.Once
	done         chan struct{}
	runErr       error
}

// NewSimulator creates a simulator for the given configuration. The
// configuration is validated in Start, not here, so callers get the error
// synchronously from the call that would begin the run.
func NewSimulator(cfg *config.Config, opts ...Option) *Simulator {
	s := &Simulator{
		cfg:          cfg,
		runID:        uuid.New(),
		baseLog:      logrus.StandardLogger(),
		arrivalsDone: make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log = s.baseLog.WithField("run_id", s.runID)
	if s.intervals == nil {
		s.intervals = NewRandomIntervals(cfg.BarberShop, cfg.BarberShop.Seed)
	}

	s.recorder = NewRecorder()
	s.room = NewWaitingRoom(cfg.BarberShop.WaitingChairs, s.recorder, s.log)
	s.barber = NewBarber(s.room, s.intervals, s.recorder, s.log, s.arrivalsDone)

	return s
}

// Start validates the configuration and launches the run. Configuration
// errors are returned synchronously and the simulation never starts.
// Start is not restartable; a second call returns an error.
func (s *Simulator) Start() error {
	if err := s.cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	started := false
	s.startOnce.Do(func() {
		started = true

		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel

		s.log.WithFields(logrus.Fields{
			"waiting_chairs":  s.cfg.BarberShop.WaitingChairs,
			"total_customers": s.cfg.BarberShop.TotalCustomers,
		}).Info("the barber shop is now open")

		group, groupCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			return s.barber.Run(groupCtx)
		})
		group.Go(func() error {
			return s.generateCustomers(groupCtx)
		})

		go func() {
			s.runErr = group.Wait()
			cancel()
			s.finish()
			close(s.done)
		}()
	})

	if !started {
		return errors.New("simulation already started or stopped")
	}
	return nil
}

// Stop requests a graceful shutdown. Idempotent and safe to call from any
// goroutine, including before Start and after the run has ended. The
// barber finishes its current customer; no new customers are generated or
// admitted afterwards.
func (s *Simulator) Stop() {
	s.startOnce.Do(func() {
		// Never started; mark the run as finished so Wait returns.
		s.finish()
		close(s.done)
	})
	if s.cancel != nil {
		s.cancel()
	}
}

// Wait blocks until the run has fully ended and returns the run error, if
// any. A non-nil error means an invariant violation aborted the run.
func (s *Simulator) Wait() error {
	<-s.done
	return s.runErr
}

// Done returns a channel closed once the run has fully ended
func (s *Simulator) Done() <-chan struct{} {
	return s.done
}

// Snapshot returns a consistent view of the aggregates, the shop state and
// at most limit recent events (non-positive limit means all).
func (s *Simulator) Snapshot(limit int) Snapshot {
	return Snapshot{
		RunID:      s.runID,
		Aggregates: s.recorder.Aggregates(),
		Barber:     s.barber.State(),
		Waiting:    s.room.Occupancy(),
		Events:     s.recorder.Tail(limit),
	}
}

// Events returns a copy of the full event log so far
func (s *Simulator) Events() []Event {
	return s.recorder.Events()
}

// Subscribe returns a channel of events as they are recorded. The channel
// is closed when the run ends. Subscribe before Start to observe the whole
// stream.
func (s *Simulator) Subscribe(buffer int) <-chan Event {
	return s.recorder.Subscribe(buffer)
}

// EventsDropped reports how many event deliveries were skipped because a
// subscriber could not keep up. The event log itself is never trimmed.
func (s *Simulator) EventsDropped() uint64 {
	return s.recorder.Dropped()
}

// generateCustomers is the arrival process: it produces up to the
// configured quota of customers with a randomized gap between arrivals.
// A stop request abandons any pending gap and generates nothing further.
func (s *Simulator) generateCustomers(ctx context.Context) error {
	total := s.cfg.BarberShop.TotalCustomers

	for i := 1; i <= total; i++ {
		delay := s.intervals.ArrivalDelay()
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil
		}

		now := time.Now()
		customer := NewCustomer(i, now)
		s.recorder.Record(Event{
			Time:       now,
			Type:       EventCustomerArrived,
			CustomerID: customer.ID,
			Message:    fmt.Sprintf("customer %d arrived", customer.ID),
		})

		switch {
		case s.room.TryAdmit(customer):
			s.barber.Wake()
		case s.barber.Offer(customer):
			// Straight to the chair.
		default:
			balkedAt := time.Now()
			customer.WaitStartedAt = balkedAt
			customer.ServiceEndedAt = balkedAt
			customer.Outcome = OutcomeBalked
			s.recorder.Record(Event{
				Time:       balkedAt,
				Type:       EventCustomerBalked,
				CustomerID: customer.ID,
				Message:    fmt.Sprintf("waiting room is full, customer %d leaves", customer.ID),
			})
			s.log.WithField("customer", customer.ID).Info("waiting room is full, customer leaves")
		}
	}

	close(s.arrivalsDone)
	return nil
}

// finish seals the run: it records the closing event with the final
// statistics and closes the event stream.
func (s *Simulator) finish() {
	agg := s.recorder.Aggregates()
	s.recorder.Record(Event{
		Time:       time.Now(),
		Type:       EventSimulationEnded,
		Served:     agg.Served,
		Balked:     agg.Balked,
		AvgWait:    agg.AvgWait,
		AvgService: agg.AvgService,
		Message:    fmt.Sprintf("simulation ended: %d served, %d balked", agg.Served, agg.Balked),
	})
	s.recorder.Close()

	if s.runErr != nil {
		s.log.WithError(s.runErr).Error("simulation aborted")
		return
	}
	s.log.WithFields(logrus.Fields{
		"served":      agg.Served,
		"balked":      agg.Balked,
		"avg_wait":    agg.AvgWait,
		"avg_service": agg.AvgService,
	}).Info("simulation ended")
}

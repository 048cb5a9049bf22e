package simulation

import (
	"sync"
	"time"
)

// Aggregates are the running statistics of a run. They are a cache over
// the event log: replaying the log through a fresh recorder yields the
// same numbers.
type Aggregates struct {
	Served       int
	Balked       int
	TotalWait    time.Duration
	TotalService time.Duration
	AvgWait      time.Duration
	AvgService   time.Duration
}

// Finalized is the number of customers that reached a terminal outcome
func (a Aggregates) Finalized() int {
	return a.Served + a.Balked
}

// Recorder ingests the event stream from the barber, the waiting room and
// the arrival process. Its mutex is the serialization point that gives the
// log a total order; callers invoke Record while still inside their own
// critical section, and the recorder never calls back out, so the lock
// hierarchy stays acyclic.
type Recorder struct {
	mu           sync.Mutex
	seq          uint64
	events       []Event
	served       int
	balked       int
	totalWait    time.Duration
	totalService time.Duration
	subscribers  []chan Event
	dropped      uint64
	closed       bool
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends the event to the log, folds it into the aggregates and
// fans it out to subscribers. Slow subscribers are skipped rather than
// blocking the simulation; skipped deliveries are counted in Dropped.
func (r *Recorder) Record(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.seq++
	event.Seq = r.seq
	r.events = append(r.events, event)
	r.apply(event)

	for _, sub := range r.subscribers {
		select {
		case sub <- event:
		default:
			r.dropped++
		}
	}
}

// Dropped reports how many event deliveries were skipped because a
// subscriber's buffer was full. The recorded log itself is always
// complete, so a non-zero count means a live stream missed events that
// are still available through Events and Tail.
func (r *Recorder) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

func (r *Recorder) apply(event Event) {
	switch event.Type {
	case EventServiceStarted:
		r.totalWait += event.Wait
	case EventServiceEnded:
		r.served++
		r.totalService += event.Service
	case EventCustomerBalked:
		r.balked++
	}
}

// Aggregates returns a copy of the running statistics
func (r *Recorder) Aggregates() Aggregates {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aggregatesLocked()
}

func (r *Recorder) aggregatesLocked() Aggregates {
	agg := Aggregates{
		Served:       r.served,
		Balked:       r.balked,
		TotalWait:    r.totalWait,
		TotalService: r.totalService,
	}
	if r.served > 0 {
		agg.AvgWait = r.totalWait / time.Duration(r.served)
		agg.AvgService = r.totalService / time.Duration(r.served)
	}
	return agg
}

// Events returns a copy of the full event log
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := make([]Event, len(r.events))
	copy(events, r.events)
	return events
}

// Tail returns a copy of the most recent events, at most limit of them.
// A non-positive limit returns the whole log.
func (r *Recorder) Tail(limit int) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := 0
	if limit > 0 && len(r.events) > limit {
		start = len(r.events) - limit
	}
	tail := make([]Event, len(r.events)-start)
	copy(tail, r.events[start:])
	return tail
}

// Subscribe registers a new subscriber channel with the given buffer size.
// The channel is closed when the simulation ends. Events that arrive while
// the buffer is full are dropped for that subscriber; the log itself is
// always complete.
func (r *Recorder) Subscribe(buffer int) <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Event, buffer)
	if r.closed {
		close(ch)
		return ch
	}
	r.subscribers = append(r.subscribers, ch)
	return ch
}

// Close stops ingestion and closes all subscriber channels
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for _, sub := range r.subscribers {
		close(sub)
	}
	r.subscribers = nil
}

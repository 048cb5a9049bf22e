package simulation

import (
	"time"
)

// EventType defines the type of event in the simulation
type EventType string

const (
	EventCustomerArrived   EventType = "customer-arrived"
	EventCustomerAdmitted  EventType = "customer-admitted"
	EventCustomerBalked    EventType = "customer-balked"
	EventServiceStarted    EventType = "service-started"
	EventServiceEnded      EventType = "service-ended"
	EventBarberStateChange EventType = "barber-state-changed"
	EventSimulationEnded   EventType = "simulation-ended"
)

// Event is one entry in the append-only simulation log. Seq is assigned by
// the recorder and reflects the true order of the underlying state
// transitions. Duration-valued fields make the running aggregates a pure
// fold over the log: a service-started event carries the wait the customer
// endured, a service-ended event carries the length of the cut, and the
// final simulation-ended event carries the totals.
type Event struct {
	Seq        uint64
	Time       time.Time
	Type       EventType
	CustomerID int
	State      BarberState
	Wait       time.Duration
	Service    time.Duration
	Served     int
	Balked     int
	AvgWait    time.Duration
	AvgService time.Duration
	Message    string
}

// Sink receives events at the moment the corresponding state transition
// happens. Components call it from inside their own critical section; a
// Sink implementation must therefore never call back into the simulation.
type Sink interface {
	Record(Event)
}

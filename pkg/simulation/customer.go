package simulation

import (
	"fmt"
	"time"
)

// Outcome is the terminal disposition of a customer
type Outcome string

const (
	OutcomePending Outcome = "pending"
	OutcomeServed  Outcome = "served"
	OutcomeBalked  Outcome = "balked"
)

// Customer represents a single visitor to the shop. It is created by the
// arrival process, owned by the waiting room while queued, and handed to
// the barber at claim time. Timestamps are filled in as the customer moves
// through its lifecycle and are immutable once the outcome is terminal.
type Customer struct {
	ID               int
	ArrivedAt        time.Time
	WaitStartedAt    time.Time
	ServiceStartedAt time.Time
	ServiceEndedAt   time.Time
	Outcome          Outcome
}

// NewCustomer creates a pending customer with the given sequence number
func NewCustomer(id int, arrivedAt time.Time) *Customer {
	return &Customer{
		ID:        id,
		ArrivedAt: arrivedAt,
		Outcome:   OutcomePending,
	}
}

func (c *Customer) String() string {
	return fmt.Sprintf("customer %d", c.ID)
}

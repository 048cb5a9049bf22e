package simulation

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// WaitingRoom is the bounded FIFO of customers between arrival and service.
// Admission and removal are serialized by a single mutex, so occupancy can
// never tear past the capacity or below zero, and insertion order is
// service order. Only the arrival process admits and only the barber
// removes; nobody else mutates the room.
type WaitingRoom struct {
	mu        sync.Mutex
	capacity  int
	customers []*Customer
	events    Sink
	log       logrus.FieldLogger
}

// NewWaitingRoom creates an empty room with the given number of chairs
func NewWaitingRoom(capacity int, events Sink, log logrus.FieldLogger) *WaitingRoom {
	return &WaitingRoom{
		capacity: capacity,
		events:   events,
		log:      log,
	}
}

// TryAdmit seats the customer if a chair is free and reports whether it
// did. The admitted event is recorded inside the critical section, so the
// log order cannot contradict the order in which customers became visible
// to the barber.
func (w *WaitingRoom) TryAdmit(customer *Customer) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.customers) >= w.capacity {
		return false
	}

	now := time.Now()
	customer.WaitStartedAt = now
	w.customers = append(w.customers, customer)

	w.events.Record(Event{
		Time:       now,
		Type:       EventCustomerAdmitted,
		CustomerID: customer.ID,
		Message:    fmt.Sprintf("customer %d is waiting in the queue", customer.ID),
	})
	w.log.WithFields(logrus.Fields{
		"customer":  customer.ID,
		"occupancy": len(w.customers),
	}).Info("customer is waiting in the queue")

	return true
}

// TakeNext removes and returns the earliest admitted customer, if any
func (w *WaitingRoom) TakeNext() (*Customer, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.customers) == 0 {
		return nil, false
	}

	customer := w.customers[0]
	w.customers = w.customers[1:]

	w.log.WithField("customer", customer.ID).Debug("customer is taken for a haircut")
	return customer, true
}

// Occupancy returns the current number of seated customers. It is a
// snapshot for observers; admission decisions rely on TryAdmit alone.
func (w *WaitingRoom) Occupancy() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.customers)
}

// Capacity returns the configured number of chairs
func (w *WaitingRoom) Capacity() int {
	return w.capacity
}

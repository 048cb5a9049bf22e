package simulation

import (
	"math/rand"
	"sync"
	"time"

	"github.com/denisheim/Sleeping-Barber-Problem/pkg/config"
)

// IntervalSource supplies the randomized durations the simulation runs on:
// the gap between two customer arrivals and the length of a haircut.
// Injecting it keeps timing decisions out of the core loops, so tests can
// substitute a scripted sequence and reproduce a run exactly.
type IntervalSource interface {
	ArrivalDelay() time.Duration
	HaircutTime() time.Duration
}

// RandomIntervals draws durations uniformly within the configured bounds.
// It is safe for use from both simulation loops.
type RandomIntervals struct {
	mu         sync.Mutex
	rng        *rand.Rand
	minArrival time.Duration
	maxArrival time.Duration
	minHaircut time.Duration
	maxHaircut time.Duration
}

// NewRandomIntervals creates a source from the shop configuration.
// A zero seed falls back to the current time.
func NewRandomIntervals(cfg config.BarberShopConfig, seed int64) *RandomIntervals {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomIntervals{
		rng:        rand.New(rand.NewSource(seed)),
		minArrival: cfg.MinArrivalInterval.Duration(),
		maxArrival: cfg.MaxArrivalInterval.Duration(),
		minHaircut: cfg.MinHaircutTime.Duration(),
		maxHaircut: cfg.MaxHaircutTime.Duration(),
	}
}

func (r *RandomIntervals) ArrivalDelay() time.Duration {
	return r.draw(r.minArrival, r.maxArrival)
}

func (r *RandomIntervals) HaircutTime() time.Duration {
	return r.draw(r.minHaircut, r.maxHaircut)
}

func (r *RandomIntervals) draw(min, max time.Duration) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	if max <= min {
		return min
	}
	return min + time.Duration(r.rng.Int63n(int64(max-min)+1))
}

// Scripted replays fixed sequences of durations. Once a sequence is
// exhausted its last value repeats, so short scripts stay valid for
// longer runs.
type Scripted struct {
	mu           sync.Mutex
	arrivals     []time.Duration
	haircuts     []time.Duration
	arrivalIndex int
	haircutIndex int
}

// NewScripted creates a scripted source. An empty sequence yields zero
// durations for that kind, which collapses the corresponding delay.
func NewScripted(arrivals, haircuts []time.Duration) *Scripted {
	return &Scripted{arrivals: arrivals, haircuts: haircuts}
}

func (s *Scripted) ArrivalDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return next(s.arrivals, &s.arrivalIndex)
}

func (s *Scripted) HaircutTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return next(s.haircuts, &s.haircutIndex)
}

func next(seq []time.Duration, index *int) time.Duration {
	if len(seq) == 0 {
		return 0
	}
	d := seq[*index]
	if *index < len(seq)-1 {
		*index++
	}
	return d
}

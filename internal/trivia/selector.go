package trivia

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Selector picks quiz questions uniformly at random. A *rand.Rand is not safe
// for concurrent use, so draws are serialized.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSelector seeds a PCG source; seed 0 means seed from the clock.
func NewSelector(seed uint64) *Selector {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return NewSelectorWithSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func NewSelectorWithSource(src rand.Source) *Selector {
	return &Selector{rng: rand.New(src)}
}

// Candidates drops every question whose id is in previous, keeping order.
func Candidates(questions []Question, previous []int64) []Question {
	if len(previous) == 0 {
		return questions
	}
	asked := make(map[int64]struct{}, len(previous))
	for _, id := range previous {
		asked[id] = struct{}{}
	}
	out := make([]Question, 0, len(questions))
	for _, q := range questions {
		if _, seen := asked[q.ID]; !seen {
			out = append(out, q)
		}
	}
	return out
}

// Pick returns a random unasked question, or false when none is left.
func (s *Selector) Pick(questions []Question, previous []int64) (Question, bool) {
	candidates := Candidates(questions, previous)
	if len(candidates) == 0 {
		return Question{}, false
	}
	s.mu.Lock()
	i := s.rng.IntN(len(candidates))
	s.mu.Unlock()
	return candidates[i], true
}

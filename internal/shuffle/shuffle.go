package shuffle

import (
	"math/rand"
	"sync"
	"time"

	"quiz-client/internal/domain"
)

// Shuffle returns a Fisher-Yates permutation of a copy of src. src is never mutated.
func Shuffle[T any](rnd *rand.Rand, src []T) []T {
	out := make([]T, len(src))
	copy(out, src)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Randomizer owns the random source of one session.
type Randomizer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomizer seeds a session randomizer. A fixed seed gives a reproducible session.
func NewRandomizer(seed int64) *Randomizer {
	return &Randomizer{rnd: rand.New(rand.NewSource(seed))}
}

// NewSessionRandomizer seeds from the clock.
func NewSessionRandomizer() *Randomizer {
	return NewRandomizer(time.Now().UnixNano())
}

// QuestionOrder permutes the bank once for a session.
func (r *Randomizer) QuestionOrder(bank []domain.QuestionBankEntry) []domain.QuestionBankEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Shuffle(r.rnd, bank)
}

// OptionOrder permutes the four options of a question; called on every display.
func (r *Randomizer) OptionOrder(q domain.QuestionBankEntry) []domain.Option {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Shuffle(r.rnd, q.Options())
}

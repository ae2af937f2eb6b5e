package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"quiz-client/internal/domain"
)

// BankLoader fetches the question bank from the remote service.
type BankLoader interface {
	LoadBank(ctx context.Context) ([]domain.QuestionBankEntry, error)
}

const bankKey = "bank"

// BankRepository caches the question bank for the lifetime of a session.
// Concurrent loads collapse into one remote call.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu     sync.RWMutex
	cached *cachedBank
}

type cachedBank struct {
	questions []domain.QuestionBankEntry
	expiresAt time.Time
}

// NewBankRepository caches for ttl; a zero ttl caches until Invalidate.
func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) Questions(ctx context.Context) ([]domain.QuestionBankEntry, error) {
	if questions, ok := r.lookup(r.clock()); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(bankKey, func() (interface{}, error) {
		now := r.clock()
		if questions, ok := r.lookup(now); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}

		entry := &cachedBank{questions: questions}
		if r.ttl > 0 {
			entry.expiresAt = now.Add(r.ttlWithJitter())
		}
		r.mu.Lock()
		r.cached = entry
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return copyBank(result.([]domain.QuestionBankEntry)), nil
}

// Invalidate drops the cached bank so the next session fetches a fresh one.
func (r *BankRepository) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
	r.sf.Forget(bankKey)
}

func (r *BankRepository) lookup(now time.Time) ([]domain.QuestionBankEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cached == nil {
		return nil, false
	}
	if !r.cached.expiresAt.IsZero() && !r.cached.expiresAt.After(now) {
		return nil, false
	}
	return copyBank(r.cached.questions), true
}

func copyBank(questions []domain.QuestionBankEntry) []domain.QuestionBankEntry {
	return append([]domain.QuestionBankEntry(nil), questions...)
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader serves a fixed bank (useful for tests/demos).
type StaticBankLoader struct {
	questions []domain.QuestionBankEntry
}

func NewStaticBankLoader(questions []domain.QuestionBankEntry) *StaticBankLoader {
	return &StaticBankLoader{questions: questions}
}

func (l *StaticBankLoader) LoadBank(_ context.Context) ([]domain.QuestionBankEntry, error) {
	if len(l.questions) == 0 {
		return nil, domain.ErrQuestionsUnavailable
	}
	return copyBank(l.questions), nil
}

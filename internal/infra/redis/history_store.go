package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-client/internal/domain"
)

// DefaultKey is the storage key the web client used for its local history.
const DefaultKey = "examHistory"

const maxTxRetries = 5

// HistoryStore keeps the eligibility collection as one JSON array under a single key:
//
//	SET examHistory '[{"email":...}, ...]'
//
// Upserts run in a WATCH transaction so two writers never drop each other's record.
type HistoryStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewHistoryStore stores under key; a zero ttl keeps the collection forever.
func NewHistoryStore(client *redis.Client, key string, ttl time.Duration) *HistoryStore {
	if key == "" {
		key = DefaultKey
	}
	return &HistoryStore{client: client, key: key, ttl: ttl}
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *HistoryStore) read(ctx context.Context, c getter) ([]domain.EligibilityRecord, error) {
	raw, err := c.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.key, err)
	}
	var records []domain.EligibilityRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return records, nil
}

func (s *HistoryStore) List(ctx context.Context) ([]domain.EligibilityRecord, error) {
	records, err := s.read(ctx, s.client)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}

func (s *HistoryStore) Find(ctx context.Context, email string) (domain.EligibilityRecord, bool, error) {
	records, err := s.read(ctx, s.client)
	if err != nil {
		return domain.EligibilityRecord{}, false, err
	}
	email = domain.NormalizeEmail(email)
	for _, rec := range records {
		if domain.NormalizeEmail(rec.Email) == email {
			return rec, true, nil
		}
	}
	return domain.EligibilityRecord{}, false, nil
}

func (s *HistoryStore) Upsert(ctx context.Context, rec domain.EligibilityRecord) error {
	rec.Email = domain.NormalizeEmail(rec.Email)

	txf := func(tx *redis.Tx) error {
		records, err := s.read(ctx, tx)
		if err != nil {
			return err
		}
		replaced := false
		for i := range records {
			if domain.NormalizeEmail(records[i].Email) == rec.Email {
				records[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			records = append(records, rec)
		}
		data, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("encode %s: %w", s.key, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("upsert %s: too much contention", s.key)
}

func (s *HistoryStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clinical-eval-be/internal/repository/contract"
	"clinical-eval-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "eval:session:"

// expiredGrace keeps the value alive in Redis past its logical expiry so a
// lookup inside the window can still distinguish "expired" from "never
// existed". After the grace window Redis reclaims the key and lookups report
// not found, matching the memory store's purge behavior.
const expiredGrace = 10 * time.Minute

// SessionStore is the Redis-backed alternative session store. Logical expiry
// lives in the stored value; the Redis TTL only bounds physical retention.
type SessionStore struct {
	client *redis.Client
	now    func() time.Time
}

var _ contract.SessionStore = &SessionStore{}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{
		client: client,
		now:    time.Now,
	}
}

// NewSessionStoreWithClock injects the clock, for expiry tests
func NewSessionStoreWithClock(client *redis.Client, now func() time.Time) *SessionStore {
	return &SessionStore{
		client: client,
		now:    now,
	}
}

func key(id string) string {
	return keyPrefix + id
}

func (r *SessionStore) Create(ctx context.Context, session *store.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	retention := session.ExpiresAt.Sub(r.now()) + expiredGrace
	ok, err := r.client.SetNX(ctx, key(session.ID), payload, retention).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return contract.ErrDuplicateSession
	}
	return nil
}

func (r *SessionStore) Get(ctx context.Context, id string) (*store.Session, error) {
	raw, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, contract.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var session store.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	if session.Expired(r.now()) {
		// Purge on the lookup that discovers expiry, as the memory store does
		r.client.Del(ctx, key(id))
		return nil, contract.ErrSessionExpired
	}
	return &session, nil
}

// maxUpdateRetries bounds the optimistic-transaction retry loop in Update.
// Contention on a single session is a handful of writers at most, so the
// loop terminates long before this in practice.
const maxUpdateRetries = 100

// Update applies the mutation under WATCH so two concurrent appends to the
// same session serialize instead of one overwriting the other. A write that
// races loses the transaction and retries against the fresh value.
func (r *SessionStore) Update(ctx context.Context, id string, mutate func(*store.Session) error) error {
	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return contract.ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("redis get: %w", err)
		}

		var session store.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		if session.Expired(r.now()) {
			tx.Del(ctx, key(id))
			return contract.ErrSessionExpired
		}

		if err := mutate(&session); err != nil {
			return err
		}
		payload, err := json.Marshal(&session)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}

		// KeepTTL preserves the retention window set at create
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key(id), payload, redis.KeepTTL)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txn, key(id))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redis update contention on %s: %w", id, redis.TxFailedErr)
}

func (r *SessionStore) Delete(ctx context.Context, id string) (bool, error) {
	removed, err := r.client.Del(ctx, key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("redis del: %w", err)
	}
	return removed > 0, nil
}

// SweepExpired walks current keys and purges logically expired values whose
// grace window has not yet let Redis reclaim them.
func (r *SessionStore) SweepExpired(ctx context.Context) (int, error) {
	removed := 0
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		raw, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}
		var session store.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			continue
		}
		if session.Expired(r.now()) {
			if r.client.Del(ctx, iter.Val()).Val() > 0 {
				removed++
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan: %w", err)
	}
	return removed, nil
}

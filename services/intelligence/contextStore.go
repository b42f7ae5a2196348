package ai

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"lefri/models"

	"github.com/go-redis/redis/v8"
)

const (
	aiContextPrefix = "ai:ctx:"
	maxTurns        = 10
)

// ConversationStore keeps the last few turns of each user's conversation.
type ConversationStore interface {
	History(ctx context.Context, userID string) ([]models.ConversationTurn, error)
	Append(ctx context.Context, userID string, turns ...models.ConversationTurn) error
	Clear(ctx context.Context, userID string) error
}

type RedisContextStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisContextStore(client *redis.Client, ttl time.Duration) *RedisContextStore {
	return &RedisContextStore{client: client, ttl: ttl}
}

func (s *RedisContextStore) History(ctx context.Context, userID string) ([]models.ConversationTurn, error) {
	key := aiContextPrefix + userID
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var turns []models.ConversationTurn
	if err := json.Unmarshal([]byte(data), &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

func (s *RedisContextStore) Append(ctx context.Context, userID string, turns ...models.ConversationTurn) error {
	history, err := s.History(ctx, userID)
	if err != nil {
		return err
	}
	b, err := json.Marshal(trimTurns(append(history, turns...)))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, aiContextPrefix+userID, b, s.ttl).Err()
}

func (s *RedisContextStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, aiContextPrefix+userID).Err()
}

// MemoryContextStore is used when Redis is not configured.
type MemoryContextStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	turns   []models.ConversationTurn
	expires time.Time
}

func NewMemoryContextStore(ttl time.Duration) *MemoryContextStore {
	return &MemoryContextStore{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryContextStore) History(_ context.Context, userID string) ([]models.ConversationTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok || s.now().After(e.expires) {
		delete(s.entries, userID)
		return nil, nil
	}
	return append([]models.ConversationTurn(nil), e.turns...), nil
}

func (s *MemoryContextStore) Append(_ context.Context, userID string, turns ...models.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[userID]
	if s.now().After(e.expires) {
		e.turns = nil
	}
	e.turns = trimTurns(append(e.turns, turns...))
	e.expires = s.now().Add(s.ttl)
	s.entries[userID] = e
	return nil
}

func (s *MemoryContextStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}

func trimTurns(turns []models.ConversationTurn) []models.ConversationTurn {
	if len(turns) > maxTurns {
		return turns[len(turns)-maxTurns:]
	}
	return turns
}

// File: database/repository/session/session_redis.go
package sessionRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"carbook/database"
	"carbook/models"

	"github.com/go-redis/redis/v8"
)

const (
	sessionKeyPrefix = "agent:sess:"
	sessionKeySuffix = ":data"
)

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID + sessionKeySuffix
}

// RedisSessionStore keeps each session as a JSON blob with a key TTL.
type RedisSessionStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, now: time.Now}
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *models.Session, retain time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := keyTTL(sess, retain, s.now())
	if err := s.client.Set(ctx, sessionKey(sess.SessionID), b, ttl).Err(); err != nil {
		return database.ClassifyNetError("save session", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, database.ClassifyNetError("load session", err)
	}
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", sessionID, err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return database.ClassifyNetError("delete session", err)
	}
	return nil
}

func (s *RedisSessionStore) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*"+sessionKeySuffix, 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(key, sessionKeyPrefix), sessionKeySuffix))
	}
	if err := iter.Err(); err != nil {
		return nil, database.ClassifyNetError("list sessions", err)
	}
	return ids, nil
}

func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

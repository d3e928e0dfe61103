// Copyright 2023 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package webhook

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultReplayCacheSize = 10000

	// ReplayKeyPrefix namespaces used tokens in redis
	ReplayKeyPrefix = "webhook_token:"
)

// ReplayStore remembers tokens until they expire so each can be accepted once.
type ReplayStore interface {
	// MarkUsed records key and returns ErrReplayed if it was already recorded.
	MarkUsed(ctx context.Context, key string, expiresAt time.Time) error
}

type LocalReplayStore struct {
	lock sync.Mutex
	used *lru.Cache[string, time.Time]
}

// NewLocalReplayStore keeps up to size tokens in memory. When full, the least
// recently seen token is forgotten even if it has not expired yet.
func NewLocalReplayStore(size int) (*LocalReplayStore, error) {
	if size <= 0 {
		size = DefaultReplayCacheSize
	}
	used, err := lru.New[string, time.Time](size)
	if err != nil {
		return nil, err
	}
	return &LocalReplayStore{used: used}, nil
}

func (s *LocalReplayStore) MarkUsed(_ context.Context, key string, expiresAt time.Time) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if exp, ok := s.used.Get(key); ok && time.Now().Before(exp) {
		return ErrReplayed
	}
	s.used.Add(key, expiresAt)
	return nil
}

func (s *LocalReplayStore) Len() int {
	return s.used.Len()
}

type RedisReplayStore struct {
	rc redis.UniversalClient
}

func NewRedisReplayStore(rc redis.UniversalClient) *RedisReplayStore {
	return &RedisReplayStore{rc: rc}
}

func (s *RedisReplayStore) MarkUsed(ctx context.Context, key string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl < time.Second {
		ttl = time.Second
	}
	ok, err := s.rc.SetNX(ctx, ReplayKeyPrefix+key, expiresAt.Unix(), ttl).Result()
	if err != nil {
		return errors.Wrap(err, "could not record webhook token")
	}
	if !ok {
		return ErrReplayed
	}
	return nil
}

// NoopReplayStore accepts every token.
type NoopReplayStore struct{}

func (NoopReplayStore) MarkUsed(context.Context, string, time.Time) error {
	return nil
}

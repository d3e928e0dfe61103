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

package service

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/google/wire"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/livekit/protocol/logger"

	"github.com/livekit/livekit-server-sdk/pkg/auth"
	"github.com/livekit/livekit-server-sdk/pkg/config"
	"github.com/livekit/livekit-server-sdk/pkg/webhook"
)

var ProviderSet = wire.NewSet(
	CreateKeyProvider,
	CreateRedisClient,
	CreateReplayStore,
	CreateWebhookReceiver,
	NewWebhookServer,
)

func CreateKeyProvider(conf *config.Config) (auth.KeyProvider, error) {
	if err := conf.ValidateKeys(); err != nil {
		return nil, err
	}
	return auth.NewFileBasedKeyProviderFromMap(conf.Keys), nil
}

// CreateRedisClient returns nil when redis is not configured.
func CreateRedisClient(conf *config.Config) (redis.UniversalClient, error) {
	if !conf.Redis.IsConfigured() {
		return nil, nil
	}

	var tlsConfig *tls.Config
	if conf.Redis.UseTLS {
		tlsConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	logger.Infow("using redis", "addr", conf.Redis.Address)
	rc := redis.NewClient(&redis.Options{
		Addr:      conf.Redis.Address,
		Username:  conf.Redis.Username,
		Password:  conf.Redis.Password,
		DB:        conf.Redis.DB,
		TLSConfig: tlsConfig,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, errors.Wrap(err, "unable to connect to redis")
	}
	return rc, nil
}

func CreateReplayStore(conf *config.Config, rc redis.UniversalClient) (webhook.ReplayStore, error) {
	switch conf.WebHook.ReplayProtection {
	case config.ReplayProtectionMemory:
		store, err := webhook.NewLocalReplayStore(conf.WebHook.ReplayCacheSize)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.ReplayProtectionRedis:
		if rc == nil {
			return nil, config.ErrRedisNotConfigured
		}
		return webhook.NewRedisReplayStore(rc), nil
	case config.ReplayProtectionNone, "":
		return webhook.NoopReplayStore{}, nil
	default:
		return nil, config.ErrInvalidReplayProtection
	}
}

func CreateWebhookReceiver(conf *config.Config, provider auth.KeyProvider) *webhook.Receiver {
	r := webhook.NewKeyProviderReceiver(provider)
	if conf.WebHook.APIKey != "" {
		r = r.WithAPIKey(conf.WebHook.APIKey)
	}
	return r
}

// CreateURLNotifier signs outgoing events with the first configured key.
func CreateURLNotifier(conf *config.Config) (*webhook.URLNotifier, error) {
	apiKey, apiSecret := conf.FirstKey()
	if apiKey == "" || apiSecret == "" {
		return nil, ErrKeysMissing
	}
	return webhook.NewURLNotifier(webhook.URLNotifierParams{
		URLs:      conf.WebHook.URLs,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Timeout:   conf.Room.Timeout,
	}), nil
}

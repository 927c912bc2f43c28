// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package account

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidora/vidora/internal/platform/constants"
)

// ChannelCacheTTL bounds how stale a cached channel page may get.
const ChannelCacheTTL = 5 * time.Minute

// RedisChannelCache caches [ChannelProfile] projections in Redis.
//
// # Consistency
//
// Mutations that touch the projection (profile edits, subscribe/unsubscribe)
// must invalidate the entry. Within [ChannelCacheTTL] a stale read is accepted.
type RedisChannelCache struct {
	client *redis.Client
}

// NewRedisChannelCache creates a Redis-backed channel profile cache.
func NewRedisChannelCache(client *redis.Client) *RedisChannelCache {
	return &RedisChannelCache{client: client}
}

// Get returns the cached profile, or nil on a cache miss.
func (cache *RedisChannelCache) Get(context context.Context, channelID string) (*ChannelProfile, error) {
	raw, err := cache.client.Get(context, cacheKey(channelID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_channel_cache_get_failed: %w", err)
	}

	profile := &ChannelProfile{}
	if err := json.Unmarshal(raw, profile); err != nil {
		// Corrupt entry: treat as a miss, the caller will overwrite it.
		return nil, nil
	}

	return profile, nil
}

// Set stores the profile with the standard TTL.
func (cache *RedisChannelCache) Set(context context.Context, profile *ChannelProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("redis_channel_cache_marshal_failed: %w", err)
	}

	if err := cache.client.Set(context, cacheKey(profile.ID), raw, ChannelCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_channel_cache_set_failed: %w", err)
	}

	return nil
}

// Invalidate removes the cached profile after a mutation.
func (cache *RedisChannelCache) Invalidate(context context.Context, channelID string) error {
	if err := cache.client.Del(context, cacheKey(channelID)).Err(); err != nil {
		return fmt.Errorf("redis_channel_cache_invalidate_failed: %w", err)
	}
	return nil
}

func cacheKey(channelID string) string {
	return constants.RedisPrefixChannel + channelID
}

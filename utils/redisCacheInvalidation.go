package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

// InvalidateCache removes all cached keys for the given resource type prefix.
// ProcessProject and project deletion call this so drill-down reads never
// serve results from a superseded processing run.
func InvalidateCache(rdb *redis.Client, resourceType string) error {
	// Use SCAN instead of KEYS for better performance in production
	pattern := fmt.Sprintf("%s:*", resourceType)
	iter := rdb.Scan(context.Background(), 0, pattern, 0).Iterator()

	for iter.Next(context.Background()) {
		key := iter.Val()
		err := rdb.Del(context.Background(), key).Err()
		if err != nil {
			return fmt.Errorf("failed to delete key %s: %v", key, err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("error during SCAN iteration: %v", err)
	}

	return nil
}

// InvalidateCacheAsync invalidates the cache for a given resource type asynchronously
func InvalidateCacheAsync(rdb *redis.Client, resourceType string) {
	go func() {
		err := InvalidateCache(rdb, resourceType)
		if err != nil {
			// Log the error, but don't block the process
			log.Printf("Cache invalidation failed for resource type '%s': %v", resourceType, err)
		}
	}()
}

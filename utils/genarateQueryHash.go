package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// GenerateHash generates two hashes: one for searching (without timestamp) and one for storage (with timestamp)
func GenerateHash(resourceType string, filters map[string]string, page, pageSize int) (string, string) {
	// Get the current timestamp in seconds for uniqueness in storage key
	timestamp := Today().Unix()

	// Build the query string with filter keys in sorted order so the same
	// filters always hash to the same search key
	query := fmt.Sprintf("resource=%s&page=%d&page_size=%d", resourceType, page, pageSize)
	keys := make([]string, 0, len(filters))
	for key := range filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		query += fmt.Sprintf("&%s=%s", key, filters[key])
	}

	// Generate search hash (without timestamp)
	searchHash := sha256.New()
	searchHash.Write([]byte(query))
	searchHashStr := hex.EncodeToString(searchHash.Sum(nil))

	// Generate storage hash (with timestamp)
	storageQuery := fmt.Sprintf("%s&timestamp=%d", query, timestamp)
	storageHash := sha256.New()
	storageHash.Write([]byte(storageQuery))
	storageHashStr := hex.EncodeToString(storageHash.Sum(nil))

	// Add resourceType prefix with a colon separator for both search and storage keys
	searchKey := fmt.Sprintf("%s:%s", resourceType, searchHashStr)
	storageKey := fmt.Sprintf("%s:%s", resourceType, storageHashStr)

	return searchKey, storageKey
}

// FindMatchingValue looks up a cached value for the given search hash.
func FindMatchingValue(rdb *redis.Client, searchHash string) (string, error) {
	// Use SCAN instead of KEYS for better performance in production
	iter := rdb.Scan(context.Background(), 0, fmt.Sprintf("*%s*", searchHash), 1).Iterator()
	for iter.Next(context.Background()) {
		value, err := rdb.Get(context.Background(), iter.Val()).Result()
		if err == nil {
			return value, nil
		}
	}
	if err := iter.Err(); err != nil {
		return "", err
	}

	return "", redis.Nil
}

package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"boq-analysis-backend/config"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// NarrativeService turns a rule-engine suggestion into a short human-readable
// note via Gemini. Optional: the rule engine works without it, callers treat a
// nil service or a failed call as "no narrative".
type NarrativeService struct {
	client      *genai.Client
	cache       map[string]*cachedNarrative
	cacheMutex  sync.RWMutex
	rateLimiter *rate.Limiter
}

type cachedNarrative struct {
	Data      string
	ExpiresAt time.Time
}

type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

func NewNarrativeService(apiKey string) (*NarrativeService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	service := &NarrativeService{
		client:      client,
		cache:       make(map[string]*cachedNarrative),
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute), 15), // 15 requests per minute
	}

	service.startCacheCleanup()

	return service, nil
}

// NarrateSuggestion produces a two-sentence value-engineering note for one
// matched item. Identical (item, advice) pairs hit the in-process cache.
func (n *NarrativeService) NarrateSuggestion(ctx context.Context, itemDescription, category, advice string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a construction cost consultant. In at most two sentences, explain this value-engineering opportunity for the bill-of-quantities item %q (category: %s): %s",
		itemDescription, category, advice,
	)
	return n.GenerateContentWithRetry(ctx, prompt, nil)
}

func (n *NarrativeService) GenerateContentWithRetry(ctx context.Context, prompt string, retryConfig *RetryConfig) (string, error) {
	if retryConfig == nil {
		retryConfig = &RetryConfig{
			MaxRetries:    3,
			InitialDelay:  time.Second,
			MaxDelay:      time.Minute,
			BackoffFactor: 2.0,
		}
	}

	if cached := n.getFromCache(prompt); cached != "" {
		return cached, nil
	}

	if err := n.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit exceeded: %w", err)
	}

	var lastErr error
	delay := retryConfig.InitialDelay

	for attempt := 0; attempt <= retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := n.generateContent(ctx, prompt)
		if err == nil {
			n.cacheResponse(prompt, result)
			return result, nil
		}

		lastErr = err

		if !n.isRetryableError(err) {
			break
		}

		delay = time.Duration(float64(delay) * retryConfig.BackoffFactor)
		if delay > retryConfig.MaxDelay {
			delay = retryConfig.MaxDelay
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", retryConfig.MaxRetries+1, lastErr)
}

func (n *NarrativeService) generateContent(ctx context.Context, prompt string) (string, error) {
	parts := []*genai.Part{
		{Text: prompt},
	}
	contents := []*genai.Content{
		{Parts: parts},
	}

	startTime := time.Now()

	resp, err := n.client.Models.GenerateContent(ctx, "gemini-2.5-flash", contents, nil)
	if err != nil {
		config.Logger.Error("Gemini API request failed",
			zap.String("prompt", prompt),
			zap.Error(err),
			zap.Duration("duration", time.Since(startTime)),
		)
		return "", err
	}

	responseText := resp.Text()

	config.Logger.Info("Received narrative from Gemini 2.5 Flash",
		zap.Duration("duration", time.Since(startTime)),
	)

	return responseText, nil
}

func (n *NarrativeService) isRetryableError(err error) bool {
	errStr := err.Error()
	retryableErrors := []string{
		"rate limit",
		"quota exceeded",
		"temporary",
		"timeout",
		"connection",
		"503",
		"429",
		"internal error",
		"service unavailable",
	}

	for _, retryable := range retryableErrors {
		if strings.Contains(strings.ToLower(errStr), retryable) {
			return true
		}
	}
	return false
}

func (n *NarrativeService) getFromCache(prompt string) string {
	key := n.generateCacheKey(prompt)

	n.cacheMutex.RLock()
	defer n.cacheMutex.RUnlock()

	if cached, exists := n.cache[key]; exists {
		if time.Now().Before(cached.ExpiresAt) {
			return cached.Data
		}
	}
	return ""
}

func (n *NarrativeService) cacheResponse(prompt, response string) {
	key := n.generateCacheKey(prompt)

	n.cacheMutex.Lock()
	defer n.cacheMutex.Unlock()

	n.cache[key] = &cachedNarrative{
		Data:      response,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

func (n *NarrativeService) generateCacheKey(prompt string) string {
	hash := md5.Sum([]byte(prompt))
	return hex.EncodeToString(hash[:])
}

func (n *NarrativeService) startCacheCleanup() {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			n.cleanupExpiredCache()
		}
	}()
}

func (n *NarrativeService) cleanupExpiredCache() {
	n.cacheMutex.Lock()
	defer n.cacheMutex.Unlock()

	now := time.Now()
	for key, cached := range n.cache {
		if now.After(cached.ExpiresAt) {
			delete(n.cache, key)
		}
	}
}

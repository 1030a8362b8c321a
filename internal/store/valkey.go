package store

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/econsult-tools/econsult/internal/models"
)

const (
	cacheKeyPrefix  = "econsult:analysis:"
	cacheTTLSeconds = 86400
	cacheRetries    = 3
)

// Cache is an optional Valkey-backed result cache keyed by a hash of
// the cleaned comment text. Outages are silent: a failing cache behaves
// like a miss so the pipeline just re-runs the models.
type Cache struct {
	client valkey.Client
}

// NewCacheFromEnv connects using VALKEY_INIT_ADDRESS, VALKEY_PASSWORD
// and VALKEY_TLS. Returns (nil, nil) when no address is configured; the
// cache is strictly opt-in.
func NewCacheFromEnv() (*Cache, error) {
	addr := os.Getenv("VALKEY_INIT_ADDRESS")
	if addr == "" {
		return nil, nil
	}

	opts := valkey.ClientOption{
		InitAddress:      []string{addr},
		Password:         os.Getenv("VALKEY_PASSWORD"),
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if os.Getenv("VALKEY_TLS") == "true" {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}

	slog.Info("[Cache] Connected to valkey", slog.String("address", addr))
	return &Cache{client: client}, nil
}

// Get returns a previously cached result for the cleaned text.
func (c *Cache) Get(ctx context.Context, text string) (models.AnalysisResult, bool) {
	var result models.AnalysisResult

	res := c.doWithRetry(ctx, c.client.B().Get().Key(cacheKey(text)).Build())
	if res.Error() != nil {
		return result, false
	}

	payload, err := res.AsBytes()
	if err != nil {
		return result, false
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		slog.Warn("[Cache] Corrupt cache entry, ignoring",
			slog.String("error", err.Error()))
		return result, false
	}
	return result, true
}

// Put stores a result under the cleaned-text key with a one-day TTL.
// Failed results are not cached so a transient model outage does not
// stick.
func (c *Cache) Put(ctx context.Context, result models.AnalysisResult) {
	if result.Failed() {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		slog.Warn("[Cache] Failed to marshal result", slog.String("error", err.Error()))
		return
	}

	key := cacheKey(result.CleanedText)
	commands := []valkey.Completed{
		c.client.B().Set().Key(key).Value(string(payload)).Build(),
		c.client.B().Expire().Key(key).Seconds(cacheTTLSeconds).Build(),
	}

	for _, res := range c.client.DoMulti(ctx, commands...) {
		if err := res.Error(); err != nil {
			slog.Warn("[Cache] Failed to store result", slog.String("error", err.Error()))
			return
		}
	}
}

// Close releases the client.
func (c *Cache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

func (c *Cache) doWithRetry(ctx context.Context, cmd valkey.Completed) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for attempt := 0; attempt < cacheRetries; attempt++ {
		result = c.client.Do(ctx, cmd)
		err := result.Error()
		if err == nil || !isConnectionError(err) {
			break
		}
		slog.Warn("[Cache] Command failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))
		time.Sleep(250 * time.Millisecond)
	}
	return result
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}

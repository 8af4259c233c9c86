// Package cache stores prediction records in Redis.
//
// It backs two independent key spaces with independent expiry:
//
//   - prediction:<fingerprint> - short-lived cache entries, one per
//     distinct feature set, expiring after the configured cache TTL
//   - log:<prediction_id> - audit records, expiring after 24x the
//     cache TTL
//
// Both hold independent JSON copies of the same record; deleting or
// expiring one does not affect the other. Entries expire silently via
// Redis TTLs, there is no explicit deletion path.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient, 300*time.Second)
//
//	rec, found, err := manager.Get(ctx, fingerprint)
//	if err != nil || !found {
//		// Miss - run inference, then write back
//	}
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - cache_errors_total{operation} - Store operation errors by
//     operation ("get", "set", "put_log", "get_log")
package cache

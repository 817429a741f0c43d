package payments

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crewlink-dev/crewlink/internal/config"
)

var rdb *redis.Client

// eventClaimTTL bounds how long a processor event id is remembered. PayVault
// retries deliveries for at most 72h, so anything older is a fresh event.
const eventClaimTTL = 96 * time.Hour

func ensureRedis() *redis.Client {
	if rdb == nil {
		rdb = redis.NewClient(&redis.Options{Addr: config.RedisAddr()})
	}
	return rdb
}

// claimEvent atomically claims a processor event id. It returns true when
// this delivery is the first one seen, false on a replay.
func claimEvent(ctx context.Context, eventID string) (bool, error) {
	return ensureRedis().SetNX(ctx, "payvault:event:"+eventID, 1, eventClaimTTL).Result()
}

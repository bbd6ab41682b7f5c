package seats

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"boxoffice/internal/shared/constants"
)

// holdStore owns the Redis side of seat selection: short-lived advisory
// holds keyed per event and label. Holds expire on their own, so an
// abandoned cart frees its seats without any cleanup job.
type holdStore struct {
	redis *redis.Client
}

func newHoldStore(redisClient *redis.Client) *holdStore {
	return &holdStore{redis: redisClient}
}

// Selection holds are all-or-nothing: if any requested seat is already
// held by another session, nothing is written and the conflicting label
// is returned.
var selectSeatsScript = redis.NewScript(`
-- KEYS[1] = selection key
-- KEYS[2] = selection seats set key
-- ARGV[1] = session_id
-- ARGV[2] = event_id
-- ARGV[3] = ttl_seconds
-- ARGV[4] = seat hold key prefix (event scoped)
-- ARGV[5..N] = labels

local session_id = ARGV[1]
local event_id = ARGV[2]
local ttl = tonumber(ARGV[3])
local prefix = ARGV[4]

for i = 5, #ARGV do
    local hold_key = prefix .. ARGV[i]
    local holder = redis.call("GET", hold_key)
    if holder and holder ~= session_id then
        return {0, ARGV[i]}
    end
end

redis.call("HSET", KEYS[1],
    "session_id", session_id,
    "event_id", event_id,
    "seat_count", #ARGV - 4
)
redis.call("EXPIRE", KEYS[1], ttl)

for i = 5, #ARGV do
    redis.call("SET", prefix .. ARGV[i], session_id, "EX", ttl)
    redis.call("SADD", KEYS[2], ARGV[i])
end
redis.call("EXPIRE", KEYS[2], ttl)

return {1, "ok"}
`)

var releaseSelectionScript = redis.NewScript(`
-- KEYS[1] = selection key
-- KEYS[2] = selection seats set key
-- ARGV[1] = session_id
-- ARGV[2] = seat hold key prefix (event scoped)

local session_id = redis.call("HGET", KEYS[1], "session_id")
if not session_id then
    return {0, "selection_not_found"}
end
if session_id ~= ARGV[1] then
    return {0, "not_owner"}
end

local labels = redis.call("SMEMBERS", KEYS[2])
for i = 1, #labels do
    local hold_key = ARGV[2] .. labels[i]
    local holder = redis.call("GET", hold_key)
    if holder == session_id then
        redis.call("DEL", hold_key)
    end
end

redis.call("DEL", KEYS[1])
redis.call("DEL", KEYS[2])

return {1, #labels}
`)

func seatHoldPrefix(eventID string) string {
	return constants.KEY_SEAT_HOLD_PREFIX + eventID + ":"
}

func selectionKey(selectionID string) string {
	return constants.KEY_SELECTION_PREFIX + selectionID
}

func selectionSeatsKey(selectionID string) string {
	return constants.KEY_SELECTION_SEATS_PREFX + selectionID
}

// HoldSeats atomically places advisory holds for one session. Returns the
// conflicting label when another session already holds one of the seats.
func (h *holdStore) HoldSeats(ctx context.Context, eventID, sessionID, selectionID string, labels []string, ttl time.Duration) (string, error) {
	if h.redis == nil {
		return "", fmt.Errorf("redis client not available")
	}

	keys := []string{selectionKey(selectionID), selectionSeatsKey(selectionID)}
	args := []interface{}{sessionID, eventID, int(ttl.Seconds()), seatHoldPrefix(eventID)}
	for _, label := range labels {
		args = append(args, label)
	}

	result, err := selectSeatsScript.Run(ctx, h.redis, keys, args...).Result()
	if err != nil {
		return "", fmt.Errorf("failed to execute seat hold script: %w", err)
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return "", fmt.Errorf("unexpected result format from seat hold script")
	}
	if success, _ := resultArray[0].(int64); success == 0 {
		conflictLabel, _ := resultArray[1].(string)
		return conflictLabel, nil
	}
	return "", nil
}

// ReleaseSelection drops a session's holds. Releasing an expired or
// foreign selection is not an error worth surfacing; holds self-expire.
func (h *holdStore) ReleaseSelection(ctx context.Context, eventID, sessionID, selectionID string) (int, error) {
	if h.redis == nil {
		return 0, fmt.Errorf("redis client not available")
	}

	keys := []string{selectionKey(selectionID), selectionSeatsKey(selectionID)}
	result, err := releaseSelectionScript.Run(ctx, h.redis, keys, sessionID, seatHoldPrefix(eventID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to execute seat release script: %w", err)
	}

	resultArray, ok := result.([]interface{})
	if !ok || len(resultArray) != 2 {
		return 0, fmt.Errorf("unexpected result format from seat release script")
	}
	if success, _ := resultArray[0].(int64); success == 0 {
		return 0, nil
	}
	released, _ := resultArray[1].(int64)
	return int(released), nil
}

// Holders returns label -> session for the subset of labels currently held.
func (h *holdStore) Holders(ctx context.Context, eventID string, labels []string) (map[string]string, error) {
	if h.redis == nil || len(labels) == 0 {
		return map[string]string{}, nil
	}

	keys := make([]string, len(labels))
	for i, label := range labels {
		keys[i] = seatHoldPrefix(eventID) + label
	}

	values, err := h.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read seat holds: %w", err)
	}

	holders := make(map[string]string)
	for i, value := range values {
		if value == nil {
			continue
		}
		if session, ok := value.(string); ok {
			holders[labels[i]] = session
		}
	}
	return holders, nil
}

// ReleaseLabels drops individual seat holds regardless of selection, used
// after a successful booking commit.
func (h *holdStore) ReleaseLabels(ctx context.Context, eventID string, labels []string) error {
	if h.redis == nil || len(labels) == 0 {
		return nil
	}
	keys := make([]string, len(labels))
	for i, label := range labels {
		keys[i] = seatHoldPrefix(eventID) + label
	}
	if err := h.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to release seat holds: %w", err)
	}
	return nil
}

// PreloadScripts loads the Lua scripts so later calls hit EVALSHA.
// Run.Script falls back to EVAL on a cold cache, so failure here only
// costs the first call an extra round trip.
func PreloadScripts(ctx context.Context, redisClient *redis.Client) error {
	return newHoldStore(redisClient).PreloadScripts(ctx)
}

func (h *holdStore) PreloadScripts(ctx context.Context) error {
	if h.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	if err := selectSeatsScript.Load(ctx, h.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat hold script: %w", err)
	}
	if err := releaseSelectionScript.Load(ctx, h.redis).Err(); err != nil {
		return fmt.Errorf("failed to load seat release script: %w", err)
	}
	return nil
}

package constants

import (
	"fmt"
	"time"
)

// Redis cache configuration.
// Pattern: boxoffice:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG    = 24 * time.Hour   // very stable data (chart layouts)
	TTL_SEMI_STATIC    = 1 * time.Hour    // event listings, ticket types
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // seat availability maps
	TTL_REALTIME_SHORT = 30 * time.Second // live seat counts
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "boxoffice"
)

// ================== EVENTS / TICKET TYPES ==================

const (
	CACHE_KEY_EVENT_DETAIL       = CACHE_PREFIX + ":events:detail:uuid:"        // + event-id
	CACHE_KEY_EVENT_LIST         = CACHE_PREFIX + ":events:list:"               // + page:N:limit:N:status:S
	CACHE_KEY_TICKET_TYPES_EVENT = CACHE_PREFIX + ":tickettypes:by_event:uuid:" // + event-id

	TTL_EVENT_DETAIL = TTL_SEMI_STATIC
	TTL_EVENT_LIST   = TTL_DYNAMIC_SHORT

	PATTERN_INVALIDATE_EVENT_ALL    = CACHE_PREFIX + ":events:*"
	PATTERN_INVALIDATE_EVENT_DETAIL = CACHE_KEY_EVENT_DETAIL
)

// ================== CHARTS / SEATS ==================

const (
	CACHE_KEY_CHART_DETAIL      = CACHE_PREFIX + ":charts:detail:uuid:"     // + chart-id
	CACHE_KEY_SEAT_AVAILABILITY = CACHE_PREFIX + ":seats:availability:uuid" // + :event:X:chart:Y
)

// Seat selection hold keys (written by the Lua scripts, never by Go directly)
const (
	KEY_SEAT_HOLD_PREFIX      = CACHE_PREFIX + ":seat_hold:"      // + event-id:label
	KEY_SELECTION_PREFIX      = CACHE_PREFIX + ":selection:"      // + selection-id
	KEY_SELECTION_SEATS_PREFX = CACHE_PREFIX + ":selection_seats:" // + selection-id
	KEY_SESSION_SELECTIONS    = CACHE_PREFIX + ":session_selections:" // + session-id
)

// Shopper cart sessions
const (
	CACHE_KEY_CART = CACHE_PREFIX + ":cart:session:" // + session-id
	TTL_CART       = 2 * time.Hour
)

// BuildCartKey builds the cart session key.
func BuildCartKey(sessionID string) string {
	return CACHE_KEY_CART + sessionID
}

// BuildSeatAvailabilityKey builds the availability cache key for an
// event/chart pair.
func BuildSeatAvailabilityKey(eventID, chartID string) string {
	return fmt.Sprintf("%s:event:%s:chart:%s", CACHE_KEY_SEAT_AVAILABILITY, eventID, chartID)
}

// BuildTicketTypesKey builds the ticket-type listing cache key for an event.
func BuildTicketTypesKey(eventID string) string {
	return CACHE_KEY_TICKET_TYPES_EVENT + eventID
}

// BuildChartDetailKey builds the chart detail cache key.
func BuildChartDetailKey(chartID string) string {
	return CACHE_KEY_CHART_DETAIL + chartID
}

// BuildEventDetailKey builds the event detail cache key.
func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

// BuildEventListKey builds the paginated event listing cache key.
func BuildEventListKey(page, limit int, status string) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("%spage:%d:limit:%d:status:%s", CACHE_KEY_EVENT_LIST, page, limit, status)
}

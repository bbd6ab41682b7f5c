package events

type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
	StatusCompleted EventStatus = "completed"
)

// CanSell reports whether orders may be placed against the event.
func (s EventStatus) CanSell() bool {
	return s == StatusPublished
}

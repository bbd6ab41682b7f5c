package seats

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/events"
	"boxoffice/internal/shared/apperrors"
)

// fakeRepo keeps seats in memory and mirrors the repository's transactional
// guarantees: blocking and committing are all-or-nothing.
type fakeRepo struct {
	Repository
	seats  map[string]*Seat
	blocks []SeatBlock
}

func newFakeRepo(eventID, chartID uuid.UUID, labels map[string]SeatStatus) *fakeRepo {
	repo := &fakeRepo{seats: make(map[string]*Seat, len(labels))}
	for label, status := range labels {
		repo.seats[label] = &Seat{
			ID:          uuid.New(),
			EventID:     eventID,
			ChartID:     chartID,
			Label:       label,
			CategoryKey: "standard",
			Status:      status,
		}
	}
	return repo
}

func (f *fakeRepo) GetByEvent(eventID uuid.UUID) ([]Seat, error) {
	out := make([]Seat, 0, len(f.seats))
	for _, seat := range f.seats {
		out = append(out, *seat)
	}
	return out, nil
}

func (f *fakeRepo) GetByEventAndLabels(eventID uuid.UUID, labels []string) ([]Seat, error) {
	var out []Seat
	for _, label := range labels {
		if seat, ok := f.seats[label]; ok {
			out = append(out, *seat)
		}
	}
	return out, nil
}

func (f *fakeRepo) BlockSeats(block *SeatBlock) error {
	superseded := make(map[uuid.UUID]bool)
	for _, label := range block.Labels {
		seat, ok := f.seats[label]
		if !ok {
			return apperrors.NewNotFound("seat", label)
		}
		if seat.Status == StatusBooked {
			return apperrors.NewConflict(apperrors.CodeAlreadyBooked, "seat is already booked", label)
		}
		if seat.Status == StatusBlocked && seat.BlockID != nil {
			superseded[*seat.BlockID] = true
		}
	}
	block.ID = uuid.New()
	f.blocks = append(f.blocks, *block)
	for _, label := range block.Labels {
		f.seats[label].Status = StatusBlocked
		f.seats[label].BlockID = &block.ID
	}
	// Close superseded blocks with no seats left, like the SQL repository.
	now := time.Now()
	for i := range f.blocks {
		if !superseded[f.blocks[i].ID] {
			continue
		}
		remaining := 0
		for _, seat := range f.seats {
			if seat.BlockID != nil && *seat.BlockID == f.blocks[i].ID {
				remaining++
			}
		}
		if remaining == 0 {
			f.blocks[i].ReleasedAt = &now
		}
	}
	return nil
}

func (f *fakeRepo) UnblockSeats(eventID uuid.UUID, labels []string) (int, error) {
	released := 0
	for _, label := range labels {
		seat, ok := f.seats[label]
		if !ok || seat.Status != StatusBlocked {
			continue
		}
		seat.Status = StatusAvailable
		seat.BlockID = nil
		released++
	}
	return released, nil
}

func (f *fakeRepo) CommitSeats(eventID uuid.UUID, labels []string, sessionID string) ([]string, error) {
	var lost []string
	for _, label := range labels {
		seat, ok := f.seats[label]
		if !ok || seat.Status != StatusAvailable {
			lost = append(lost, label)
		}
	}
	if len(lost) > 0 {
		return lost, apperrors.NewConflict(apperrors.CodeSeatNoLongerAvailable, "seat is no longer available", lost...)
	}
	for _, label := range labels {
		f.seats[label].Status = StatusBooked
		f.seats[label].BookedBy = sessionID
	}
	return nil, nil
}

func (f *fakeRepo) ReleaseSeats(eventID uuid.UUID, labels []string, sessionID string) error {
	for _, label := range labels {
		seat, ok := f.seats[label]
		if !ok || seat.Status != StatusBooked || seat.BookedBy != sessionID {
			continue
		}
		seat.Status = StatusAvailable
		seat.BookedBy = ""
	}
	return nil
}

type fakeEventService struct {
	events.Service
	event *events.Event
}

func (f *fakeEventService) GetEvent(id uuid.UUID) (*events.Event, error) {
	return f.event, nil
}

type seatFixture struct {
	eventID uuid.UUID
	userID  uuid.UUID
	repo    *fakeRepo
	service Service
}

func newSeatFixture(t *testing.T, seatingType events.SeatingType, labels map[string]SeatStatus) *seatFixture {
	t.Helper()

	f := &seatFixture{
		eventID: uuid.New(),
		userID:  uuid.New(),
	}
	f.repo = newFakeRepo(f.eventID, uuid.New(), labels)

	eventService := &fakeEventService{event: &events.Event{
		ID:          f.eventID,
		SeatingType: seatingType,
	}}

	// nil Redis client: the hold overlay degrades to empty, which exercises
	// the durable transitions on their own.
	f.service = NewService(f.repo, nil, eventService, nil, 4, 10*time.Minute)
	return f
}

func TestSelectSeatsValidation(t *testing.T) {
	f := newSeatFixture(t, events.SeatingSeated, map[string]SeatStatus{
		"A-1": StatusAvailable,
	})

	_, err := f.service.SelectSeats(context.Background(), "sess-1", SelectSeatsRequest{EventID: f.eventID.String()})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.service.SelectSeats(context.Background(), "sess-1", SelectSeatsRequest{
		EventID: f.eventID.String(),
		Labels:  []string{"A-1", "A-2", "A-3", "A-4", "A-5"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "more than 4")

	_, err = f.service.SelectSeats(context.Background(), "sess-1", SelectSeatsRequest{
		EventID: "not-a-uuid",
		Labels:  []string{"A-1"},
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestSelectSeatsRejectsGeneralAdmissionEvent(t *testing.T) {
	f := newSeatFixture(t, events.SeatingGeneralAdmission, nil)

	_, err := f.service.SelectSeats(context.Background(), "sess-1", SelectSeatsRequest{
		EventID: f.eventID.String(),
		Labels:  []string{"A-1"},
	})
	assert.True(t, apperrors.IsState(err))
}

func TestSelectSeatsRejectsUnavailableSeats(t *testing.T) {
	f := newSeatFixture(t, events.SeatingSeated, map[string]SeatStatus{
		"A-1": StatusAvailable,
		"A-2": StatusBooked,
		"A-3": StatusBlocked,
	})

	_, err := f.service.SelectSeats(context.Background(), "sess-1", SelectSeatsRequest{
		EventID: f.eventID.String(),
		Labels:  []string{"A-1", "A-2"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err, apperrors.CodeAlreadyBooked))
	assert.Contains(t, err.Error(), "A-2")

	_, err = f.service.SelectSeats(context.Background(), "sess-1", SelectSeatsRequest{
		EventID: f.eventID.String(),
		Labels:  []string{"A-3"},
	})
	assert.True(t, apperrors.IsConflict(err, apperrors.CodeAlreadyBooked))

	_, err = f.service.SelectSeats(context.Background(), "sess-1", SelectSeatsRequest{
		EventID: f.eventID.String(),
		Labels:  []string{"Z-99"},
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBlockSeatsValidation(t *testing.T) {
	f := newSeatFixture(t, events.SeatingSeated, map[string]SeatStatus{
		"A-1": StatusAvailable,
	})

	_, err := f.service.BlockSeats(context.Background(), f.eventID, f.userID, BlockSeatsRequest{Reason: "VIP"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.service.BlockSeats(context.Background(), f.eventID, f.userID, BlockSeatsRequest{
		Labels: []string{"A-1"},
		Reason: "BECAUSE",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "BECAUSE")

	_, err = f.service.BlockSeats(context.Background(), f.eventID, f.userID, BlockSeatsRequest{
		Labels: []string{"A-1"},
		Reason: "VIP",
		Notes:  strings.Repeat("x", 501),
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestBlockSeatsFailsWholeBatchWhenSeatBooked(t *testing.T) {
	f := newSeatFixture(t, events.SeatingSeated, map[string]SeatStatus{
		"A-1": StatusAvailable,
		"A-2": StatusBooked,
	})

	_, err := f.service.BlockSeats(context.Background(), f.eventID, f.userID, BlockSeatsRequest{
		Labels: []string{"A-1", "A-2"},
		Reason: "VIP",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err, apperrors.CodeAlreadyBooked))
	assert.Contains(t, err.Error(), "A-2")

	// The available seat in the failed batch must remain untouched.
	assert.Equal(t, StatusAvailable, f.repo.seats["A-1"].Status)
	assert.Empty(t, f.repo.blocks)
}

func TestBlockSeatsAcceptsFreeTextLabels(t *testing.T) {
	f := newSeatFixture(t, events.SeatingSeated, map[string]SeatStatus{
		"A-1": StatusAvailable,
		"A-2": StatusAvailable,
		"B-1": StatusAvailable,
	})

	result, err := f.service.BlockSeats(context.Background(), f.eventID, f.userID, BlockSeatsRequest{
		LabelText: "A-1, A-2\nB-1",
		Reason:    "MAINTENANCE",
		Notes:     "broken row",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.BlockedCount)
	assert.Equal(t, ReasonMaintenance, result.Reason)
	for _, label := range []string{"A-1", "A-2", "B-1"} {
		assert.Equal(t, StatusBlocked, f.repo.seats[label].Status)
	}
	require.Len(t, f.repo.blocks, 1)
	assert.Nil(t, f.repo.blocks[0].ReleasedAt)
}

func TestBlockSeatsClosesSupersededBlock(t *testing.T) {
	f := newSeatFixture(t, events.SeatingSeated, map[string]SeatStatus{
		"A-1": StatusAvailable,
		"A-2": StatusAvailable,
	})

	_, err := f.service.BlockSeats(context.Background(), f.eventID, f.userID, BlockSeatsRequest{
		Labels: []string{"A-1", "A-2"},
		Reason: "VIP",
	})
	require.NoError(t, err)
	require.Len(t, f.repo.blocks, 1)
	oldID := f.repo.blocks[0].ID

	// Re-blocking both seats moves them to the new block and closes the
	// old record instead of leaving it open with no seats.
	_, err = f.service.BlockSeats(context.Background(), f.eventID, f.userID, BlockSeatsRequest{
		Labels: []string{"A-1", "A-2"},
		Reason: "MAINTENANCE",
	})
	require.NoError(t, err)
	require.Len(t, f.repo.blocks, 2)

	assert.NotNil(t, f.repo.blocks[0].ReleasedAt)
	assert.Nil(t, f.repo.blocks[1].ReleasedAt)
	for _, label := range []string{"A-1", "A-2"} {
		require.NotNil(t, f.repo.seats[label].BlockID)
		assert.NotEqual(t, oldID, *f.repo.seats[label].BlockID)
	}
}

func TestBlockSeatsKeepsPartiallySupersededBlockOpen(t *testing.T) {
	f := newSeatFixture(t, events.SeatingSeated, map[string]SeatStatus{
		"A-1": StatusAvailable,
		"A-2": StatusAvailable,
	})

	_, err := f.service.BlockSeats(context.Background(), f.eventID, f.userID, BlockSeatsRequest{
		Labels: []string{"A-1", "A-2"},
		Reason: "VIP",
	})
	require.NoError(t, err)

	_, err = f.service.BlockSeats(context.Background(), f.eventID, f.userID, BlockSeatsRequest{
		Labels: []string{"A-1"},
		Reason: "MAINTENANCE",
	})
	require.NoError(t, err)

	// A-2 still belongs to the first block, so it stays open.
	require.Len(t, f.repo.blocks, 2)
	assert.Nil(t, f.repo.blocks[0].ReleasedAt)
}

func TestUnblockSeatsReleasesOnlyBlocked(t *testing.T) {
	f := newSeatFixture(t, events.SeatingSeated, map[string]SeatStatus{
		"A-1": StatusBlocked,
		"A-2": StatusBlocked,
		"A-3": StatusBooked,
	})

	released, err := f.service.UnblockSeats(context.Background(), f.eventID, UnblockSeatsRequest{
		Labels: []string{"A-1", "A-2", "A-3"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, released)
	assert.Equal(t, StatusAvailable, f.repo.seats["A-1"].Status)
	assert.Equal(t, StatusBooked, f.repo.seats["A-3"].Status)
}

func TestCommitSeatsIsAllOrNothing(t *testing.T) {
	f := newSeatFixture(t, events.SeatingSeated, map[string]SeatStatus{
		"A-1": StatusAvailable,
		"A-2": StatusBooked,
	})

	err := f.service.CommitSeats(context.Background(), f.eventID, "sess-1", []string{"A-1", "A-2"})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err, apperrors.CodeSeatNoLongerAvailable))
	assert.Contains(t, err.Error(), "A-2")
	assert.Equal(t, StatusAvailable, f.repo.seats["A-1"].Status)

	err = f.service.CommitSeats(context.Background(), f.eventID, "sess-1", []string{"A-1"})
	require.NoError(t, err)
	assert.Equal(t, StatusBooked, f.repo.seats["A-1"].Status)
	assert.Equal(t, "sess-1", f.repo.seats["A-1"].BookedBy)
}

func TestUncommitSeatsReleasesOwnBookingOnly(t *testing.T) {
	f := newSeatFixture(t, events.SeatingSeated, map[string]SeatStatus{
		"A-1": StatusAvailable,
		"A-2": StatusAvailable,
	})

	require.NoError(t, f.service.CommitSeats(context.Background(), f.eventID, "sess-1", []string{"A-1"}))
	require.NoError(t, f.service.CommitSeats(context.Background(), f.eventID, "sess-2", []string{"A-2"}))

	// Compensation is scoped to the session that committed.
	require.NoError(t, f.service.UncommitSeats(context.Background(), f.eventID, "sess-1", []string{"A-1", "A-2"}))
	assert.Equal(t, StatusAvailable, f.repo.seats["A-1"].Status)
	assert.Equal(t, StatusBooked, f.repo.seats["A-2"].Status)
}

func TestGetSeatMapReportsDurableStatuses(t *testing.T) {
	f := newSeatFixture(t, events.SeatingSeated, map[string]SeatStatus{
		"A-1": StatusAvailable,
		"A-2": StatusBooked,
		"A-3": StatusBlocked,
	})

	views, err := f.service.GetSeatMap(context.Background(), f.eventID)
	require.NoError(t, err)
	require.Len(t, views, 3)

	byLabel := make(map[string]SeatStatus, len(views))
	for _, view := range views {
		byLabel[view.Label] = view.Status
	}
	assert.Equal(t, StatusAvailable, byLabel["A-1"])
	assert.Equal(t, StatusBooked, byLabel["A-2"])
	assert.Equal(t, StatusBlocked, byLabel["A-3"])
}

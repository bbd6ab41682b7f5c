package seats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"boxoffice/internal/charts"
	"boxoffice/internal/events"
	"boxoffice/internal/notifications"
	"boxoffice/internal/pricing"
	"boxoffice/internal/shared/apperrors"
	"boxoffice/internal/shared/middleware"
	"boxoffice/pkg/logger"
)

const maxNotesLength = 500

// MappingSource resolves a chart category to its sellable ticket type and
// effective price for one event. Implemented by the seating configuration
// service; injected as an interface to avoid a package cycle.
type MappingSource interface {
	ResolveCategory(eventID uuid.UUID, categoryKey string) (ticketTypeID string, priceMinor int64, err error)
}

type Service interface {
	SetMappingSource(source MappingSource)
	SetProducer(producer notifications.Producer)

	// PreloadScripts loads the seat hold Lua scripts into Redis.
	PreloadScripts(ctx context.Context) error

	// SelectSeats places an advisory hold for the session and mirrors the
	// selection into the session cart. The hold expires on its own and
	// guarantees nothing at checkout; CommitSeats re-validates.
	SelectSeats(ctx context.Context, sessionID string, req SelectSeatsRequest) (*SelectionResult, error)
	ReleaseSelection(ctx context.Context, sessionID, eventID, selectionID string) error
	GetSeatMap(ctx context.Context, eventID uuid.UUID) ([]SeatView, error)

	BlockSeats(ctx context.Context, eventID, userID uuid.UUID, req BlockSeatsRequest) (*BlockResult, error)
	UnblockSeats(ctx context.Context, eventID uuid.UUID, req UnblockSeatsRequest) (int, error)
	ListBlocks(eventID uuid.UUID, includeReleased bool) ([]SeatBlock, error)

	// CommitSeats performs the authoritative booked transition for a
	// session's held seats at purchase time.
	CommitSeats(ctx context.Context, eventID uuid.UUID, sessionID string, labels []string) error
	// UncommitSeats compensates a failed finalization after commit.
	UncommitSeats(ctx context.Context, eventID uuid.UUID, sessionID string, labels []string) error

	MaterializeFromChart(eventID uuid.UUID, chartID uuid.UUID, chartSeats []charts.ChartSeat) error
	CategoryCounts(eventID uuid.UUID) (total, available map[string]int, err error)
}

type service struct {
	repo          Repository
	holds         *holdStore
	eventService  events.Service
	cartService   pricing.Service
	mappingSource MappingSource
	producer      notifications.Producer

	maxSelection int
	holdTTL      time.Duration
}

func NewService(repo Repository, redisClient *redis.Client, eventService events.Service, cartService pricing.Service, maxSelection int, holdTTL time.Duration) Service {
	return &service{
		repo:         repo,
		holds:        newHoldStore(redisClient),
		eventService: eventService,
		cartService:  cartService,
		maxSelection: maxSelection,
		holdTTL:      holdTTL,
	}
}

func (s *service) SetMappingSource(source MappingSource) {
	s.mappingSource = source
}

func (s *service) SetProducer(producer notifications.Producer) {
	s.producer = producer
}

// publishAudit emits a seat audit event; blocking operations never fail
// on publish errors.
func (s *service) publishAudit(ctx context.Context, eventType notifications.EventType, eventID string, payload map[string]interface{}) {
	if s.producer == nil {
		return
	}
	event := notifications.NewDomainEvent(eventType, eventID, payload)
	if err := s.producer.Publish(ctx, event); err != nil {
		logger.GetDefault().WithError(err).Warn("failed to publish seat audit event", "type", string(eventType))
	}
}

func (s *service) PreloadScripts(ctx context.Context) error {
	return s.holds.PreloadScripts(ctx)
}

func (s *service) SelectSeats(ctx context.Context, sessionID string, req SelectSeatsRequest) (*SelectionResult, error) {
	labels := mergeLabels(req.Labels, req.LabelText)
	if len(labels) == 0 {
		return nil, apperrors.NewValidation("no seat labels provided")
	}
	if len(labels) > s.maxSelection {
		return nil, apperrors.NewValidation(fmt.Sprintf("cannot select more than %d seats", s.maxSelection))
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, apperrors.NewValidation("invalid event ID", "event_id")
	}
	event, err := s.eventService.GetEvent(eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsSeated() {
		return nil, apperrors.NewState("event does not have assigned seating", string(event.SeatingType))
	}

	seats, err := s.repo.GetByEventAndLabels(eventID, labels)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}
	byLabel := make(map[string]*Seat, len(seats))
	for i := range seats {
		byLabel[seats[i].Label] = &seats[i]
	}
	for _, label := range labels {
		seat, ok := byLabel[label]
		if !ok {
			return nil, apperrors.NewNotFound("seat", label)
		}
		switch seat.Status {
		case StatusBooked:
			return nil, apperrors.NewConflict(apperrors.CodeAlreadyBooked, "seat is already booked", label)
		case StatusBlocked:
			return nil, apperrors.NewConflict(apperrors.CodeAlreadyBooked, "seat is blocked", label)
		}
	}

	selectionID := uuid.New().String()
	conflictLabel, err := s.holds.HoldSeats(ctx, req.EventID, sessionID, selectionID, labels, s.holdTTL)
	if err != nil {
		return nil, err
	}
	if conflictLabel != "" {
		middleware.CountSeatConflict()
		return nil, apperrors.NewConflict(apperrors.CodeAlreadySelected, "seat is selected by another session", conflictLabel)
	}

	// Mirror the selection into the cart with mapped prices so pricing
	// can project it immediately.
	if s.mappingSource != nil {
		selections := make([]pricing.SeatSelection, len(labels))
		for i, label := range labels {
			seat := byLabel[label]
			ticketTypeID, priceMinor, err := s.mappingSource.ResolveCategory(eventID, seat.CategoryKey)
			if err != nil {
				if _, relErr := s.holds.ReleaseSelection(ctx, req.EventID, sessionID, selectionID); relErr != nil {
					logger.GetDefault().WithError(relErr).Warn("failed to release holds after mapping failure")
				}
				return nil, err
			}
			selections[i] = pricing.SeatSelection{
				Label:        label,
				CategoryKey:  seat.CategoryKey,
				TicketTypeID: ticketTypeID,
				PriceMinor:   priceMinor,
			}
		}
		if _, err := s.cartService.SetSeats(ctx, sessionID, req.EventID, selections); err != nil {
			if _, relErr := s.holds.ReleaseSelection(ctx, req.EventID, sessionID, selectionID); relErr != nil {
				logger.GetDefault().WithError(relErr).Warn("failed to release holds after cart failure")
			}
			return nil, err
		}
	}

	return &SelectionResult{
		SelectionID: selectionID,
		EventID:     req.EventID,
		Labels:      labels,
		ExpiresAt:   time.Now().Add(s.holdTTL),
	}, nil
}

func (s *service) ReleaseSelection(ctx context.Context, sessionID, eventID, selectionID string) error {
	if _, err := s.holds.ReleaseSelection(ctx, eventID, sessionID, selectionID); err != nil {
		return err
	}
	if _, err := s.cartService.SetSeats(ctx, sessionID, eventID, nil); err != nil {
		return err
	}
	return nil
}

func (s *service) GetSeatMap(ctx context.Context, eventID uuid.UUID) ([]SeatView, error) {
	seats, err := s.repo.GetByEvent(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seats: %w", err)
	}

	labels := make([]string, 0, len(seats))
	for _, seat := range seats {
		if seat.Status == StatusAvailable {
			labels = append(labels, seat.Label)
		}
	}
	holders, err := s.holds.Holders(ctx, eventID.String(), labels)
	if err != nil {
		// The selection overlay is advisory; the map still serves without it.
		logger.GetDefault().WithError(err).Warn("failed to read seat holds for seat map")
		holders = map[string]string{}
	}

	views := make([]SeatView, len(seats))
	for i, seat := range seats {
		status := seat.Status
		if status == StatusAvailable {
			if _, held := holders[seat.Label]; held {
				status = StatusSelected
			}
		}
		views[i] = SeatView{Label: seat.Label, CategoryKey: seat.CategoryKey, Status: status}
	}
	return views, nil
}

func (s *service) BlockSeats(ctx context.Context, eventID, userID uuid.UUID, req BlockSeatsRequest) (*BlockResult, error) {
	labels := mergeLabels(req.Labels, req.LabelText)
	if len(labels) == 0 {
		return nil, apperrors.NewValidation("no seat labels provided")
	}
	reason := BlockReason(req.Reason)
	if !reason.IsValid() {
		return nil, apperrors.NewValidation("invalid block reason", req.Reason)
	}
	if len(req.Notes) > maxNotesLength {
		return nil, apperrors.NewValidation("notes cannot exceed 500 characters", "notes")
	}

	// A live shopper hold beats the block; whoever commits first wins.
	holders, err := s.holds.Holders(ctx, eventID.String(), labels)
	if err != nil {
		return nil, err
	}
	for _, label := range labels {
		if _, held := holders[label]; held {
			return nil, apperrors.NewConflict(apperrors.CodeAlreadySelected, "seat is selected by a shopper", label)
		}
	}

	block := &SeatBlock{
		EventID:   eventID,
		Labels:    labels,
		Reason:    reason,
		Notes:     req.Notes,
		CreatedBy: userID,
	}
	if err := s.repo.BlockSeats(block); err != nil {
		return nil, err
	}

	logger.GetDefault().LogSeatsBlocked(ctx, eventID.String(), string(reason), len(labels))
	s.publishAudit(ctx, notifications.EventSeatsBlocked, eventID.String(), map[string]interface{}{
		"block_id": block.ID.String(),
		"labels":   labels,
		"reason":   string(reason),
	})

	return &BlockResult{
		BlockID:      block.ID.String(),
		BlockedCount: len(labels),
		Reason:       reason,
	}, nil
}

func (s *service) UnblockSeats(ctx context.Context, eventID uuid.UUID, req UnblockSeatsRequest) (int, error) {
	labels := mergeLabels(req.Labels, req.LabelText)
	if len(labels) == 0 {
		return 0, apperrors.NewValidation("no seat labels provided")
	}

	released, err := s.repo.UnblockSeats(eventID, labels)
	if err != nil {
		return 0, err
	}
	if released > 0 {
		s.publishAudit(ctx, notifications.EventSeatsUnblocked, eventID.String(), map[string]interface{}{
			"labels":   labels,
			"released": released,
		})
	}
	return released, nil
}

func (s *service) ListBlocks(eventID uuid.UUID, includeReleased bool) ([]SeatBlock, error) {
	blocks, err := s.repo.GetBlocks(eventID, includeReleased)
	if err != nil {
		return nil, fmt.Errorf("failed to list seat blocks: %w", err)
	}
	return blocks, nil
}

func (s *service) CommitSeats(ctx context.Context, eventID uuid.UUID, sessionID string, labels []string) error {
	if len(labels) == 0 {
		return apperrors.NewValidation("no seat labels provided")
	}

	// Holds owned by a different session mean this cart already lost the
	// race; fail before touching durable state.
	holders, err := s.holds.Holders(ctx, eventID.String(), labels)
	if err != nil {
		return err
	}
	for label, holder := range holders {
		if holder != sessionID {
			middleware.CountSeatConflict()
			return apperrors.NewConflict(apperrors.CodeSeatNoLongerAvailable, "seat is held by another session", label)
		}
	}

	if _, err := s.repo.CommitSeats(eventID, labels, sessionID); err != nil {
		if apperrors.IsConflict(err) {
			middleware.CountSeatConflict()
		}
		return err
	}

	if err := s.holds.ReleaseLabels(ctx, eventID.String(), labels); err != nil {
		logger.GetDefault().WithError(err).Warn("failed to release holds after commit")
	}
	return nil
}

func (s *service) UncommitSeats(ctx context.Context, eventID uuid.UUID, sessionID string, labels []string) error {
	return s.repo.ReleaseSeats(eventID, labels, sessionID)
}

func (s *service) MaterializeFromChart(eventID uuid.UUID, chartID uuid.UUID, chartSeats []charts.ChartSeat) error {
	seats := make([]Seat, len(chartSeats))
	for i, cs := range chartSeats {
		seats[i] = Seat{
			EventID:     eventID,
			ChartID:     chartID,
			Label:       cs.Label,
			CategoryKey: cs.CategoryKey,
			Status:      StatusAvailable,
		}
	}
	if err := s.repo.ReplaceForEvent(eventID, chartID, seats); err != nil {
		return err
	}
	return nil
}

func (s *service) CategoryCounts(eventID uuid.UUID) (map[string]int, map[string]int, error) {
	return s.repo.CountByEventAndCategory(eventID)
}

package seats

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"boxoffice/internal/shared/apperrors"
)

type Repository interface {
	// ReplaceForEvent swaps the event's live seats for a fresh
	// materialization from a chart. Fails if any current seat is booked.
	ReplaceForEvent(eventID, chartID uuid.UUID, seats []Seat) error
	GetByEvent(eventID uuid.UUID) ([]Seat, error)
	GetByEventAndLabels(eventID uuid.UUID, labels []string) ([]Seat, error)
	CountByEventAndCategory(eventID uuid.UUID) (map[string]int, map[string]int, error)

	// BlockSeats transitions the batch to blocked inside one transaction.
	// Any booked label fails the whole batch. Already-blocked seats move
	// to the new block; a superseded block left with no seats is closed.
	BlockSeats(block *SeatBlock) error
	UnblockSeats(eventID uuid.UUID, labels []string) (int, error)
	GetBlocks(eventID uuid.UUID, includeReleased bool) ([]SeatBlock, error)

	// CommitSeats is the authoritative booked transition: a guarded UPDATE
	// that only fires while every seat is still available. Returns the
	// labels that could not be committed.
	CommitSeats(eventID uuid.UUID, labels []string, sessionID string) ([]string, error)
	ReleaseSeats(eventID uuid.UUID, labels []string, sessionID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ReplaceForEvent(eventID, chartID uuid.UUID, seats []Seat) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var bookedCount int64
		if err := tx.Model(&Seat{}).
			Where("event_id = ? AND status = ?", eventID, StatusBooked).
			Count(&bookedCount).Error; err != nil {
			return err
		}
		if bookedCount > 0 {
			return apperrors.NewState("cannot replace seats while booked seats exist", string(StatusBooked))
		}

		if err := tx.Where("event_id = ?", eventID).Delete(&Seat{}).Error; err != nil {
			return err
		}
		if len(seats) == 0 {
			return nil
		}
		return tx.Create(&seats).Error
	})
}

func (r *repository) GetByEvent(eventID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.Where("event_id = ?", eventID).Order("label ASC").Find(&seats).Error
	return seats, err
}

func (r *repository) GetByEventAndLabels(eventID uuid.UUID, labels []string) ([]Seat, error) {
	var seats []Seat
	err := r.db.Where("event_id = ? AND label IN ?", eventID, labels).Find(&seats).Error
	return seats, err
}

// CountByEventAndCategory returns total and available seat counts per
// category key.
func (r *repository) CountByEventAndCategory(eventID uuid.UUID) (map[string]int, map[string]int, error) {
	type row struct {
		CategoryKey string
		Status      SeatStatus
		Count       int
	}
	var rows []row
	err := r.db.Model(&Seat{}).
		Select("category_key, status, COUNT(*) as count").
		Where("event_id = ?", eventID).
		Group("category_key, status").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	total := make(map[string]int)
	available := make(map[string]int)
	for _, r := range rows {
		total[r.CategoryKey] += r.Count
		if r.Status == StatusAvailable {
			available[r.CategoryKey] += r.Count
		}
	}
	return total, available, nil
}

func (r *repository) BlockSeats(block *SeatBlock) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var seats []Seat
		if err := tx.Where("event_id = ? AND label IN ?", block.EventID, block.Labels).
			Find(&seats).Error; err != nil {
			return err
		}

		found := make(map[string]*Seat, len(seats))
		superseded := make(map[uuid.UUID]bool)
		for i := range seats {
			found[seats[i].Label] = &seats[i]
		}
		for _, label := range block.Labels {
			seat, ok := found[label]
			if !ok {
				return apperrors.NewNotFound("seat", label)
			}
			if seat.Status == StatusBooked {
				return apperrors.NewConflict(apperrors.CodeAlreadyBooked, "seat is already booked", label)
			}
			// Re-blocking an already-blocked seat moves it to the new block;
			// remember the old one so it can be closed below.
			if seat.Status == StatusBlocked && seat.BlockID != nil {
				superseded[*seat.BlockID] = true
			}
		}

		if err := tx.Create(block).Error; err != nil {
			return fmt.Errorf("failed to create seat block record: %w", err)
		}

		result := tx.Model(&Seat{}).
			Where("event_id = ? AND label IN ? AND status <> ?", block.EventID, block.Labels, StatusBooked).
			Updates(map[string]interface{}{"status": StatusBlocked, "block_id": block.ID})
		if result.Error != nil {
			return result.Error
		}
		// A booking that slipped in between the read and the update fails
		// the batch; partial blocking is never persisted.
		if result.RowsAffected != int64(len(block.Labels)) {
			return apperrors.NewConflict(apperrors.CodeAlreadyBooked, "seat was booked concurrently")
		}

		// Close superseded blocks whose seats were all reassigned so they
		// do not linger as open records.
		now := time.Now()
		for blockID := range superseded {
			var remaining int64
			if err := tx.Model(&Seat{}).
				Where("block_id = ?", blockID).
				Count(&remaining).Error; err != nil {
				return err
			}
			if remaining == 0 {
				if err := tx.Model(&SeatBlock{}).
					Where("id = ?", blockID).
					Update("released_at", now).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *repository) UnblockSeats(eventID uuid.UUID, labels []string) (int, error) {
	var released int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var seats []Seat
		if err := tx.Where("event_id = ? AND label IN ? AND status = ?", eventID, labels, StatusBlocked).
			Find(&seats).Error; err != nil {
			return err
		}

		blockIDs := make(map[uuid.UUID]bool)
		for _, seat := range seats {
			if seat.BlockID != nil {
				blockIDs[*seat.BlockID] = true
			}
		}

		result := tx.Model(&Seat{}).
			Where("event_id = ? AND label IN ? AND status = ?", eventID, labels, StatusBlocked).
			Updates(map[string]interface{}{"status": StatusAvailable, "block_id": nil})
		if result.Error != nil {
			return result.Error
		}
		released = int(result.RowsAffected)

		// Close block records whose seats are all released.
		now := time.Now()
		for blockID := range blockIDs {
			var remaining int64
			if err := tx.Model(&Seat{}).
				Where("block_id = ?", blockID).
				Count(&remaining).Error; err != nil {
				return err
			}
			if remaining == 0 {
				if err := tx.Model(&SeatBlock{}).
					Where("id = ?", blockID).
					Update("released_at", now).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	return released, err
}

func (r *repository) GetBlocks(eventID uuid.UUID, includeReleased bool) ([]SeatBlock, error) {
	var blocks []SeatBlock
	db := r.db.Where("event_id = ?", eventID)
	if !includeReleased {
		db = db.Where("released_at IS NULL")
	}
	err := db.Order("created_at DESC").Find(&blocks).Error
	return blocks, err
}

func (r *repository) CommitSeats(eventID uuid.UUID, labels []string, sessionID string) ([]string, error) {
	var lost []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Seat{}).
			Where("event_id = ? AND label IN ? AND status = ?", eventID, labels, StatusAvailable).
			Updates(map[string]interface{}{"status": StatusBooked, "booked_by": sessionID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == int64(len(labels)) {
			return nil
		}

		// Identify which labels were lost so the caller can report them,
		// then roll back; the booked transition is all-or-nothing.
		var committed []Seat
		if err := tx.Where("event_id = ? AND label IN ? AND booked_by = ?", eventID, labels, sessionID).
			Find(&committed).Error; err != nil {
			return err
		}
		won := make(map[string]bool, len(committed))
		for _, seat := range committed {
			won[seat.Label] = true
		}
		for _, label := range labels {
			if !won[label] {
				lost = append(lost, label)
			}
		}
		return apperrors.NewConflict(apperrors.CodeSeatNoLongerAvailable, "seat is no longer available", lost...)
	})
	return lost, err
}

func (r *repository) ReleaseSeats(eventID uuid.UUID, labels []string, sessionID string) error {
	return r.db.Model(&Seat{}).
		Where("event_id = ? AND label IN ? AND status = ? AND booked_by = ?", eventID, labels, StatusBooked, sessionID).
		Updates(map[string]interface{}{"status": StatusAvailable, "booked_by": ""}).Error
}

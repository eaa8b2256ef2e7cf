package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ticket-storefront/internal/status"
	"ticket-storefront/models"

	"github.com/redis/go-redis/v9"
)

type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatSold      SeatState = "sold"
	SeatHeld      SeatState = "held"
)

// SeatInventory is what checkout and refunds need from inventory.
type SeatInventory interface {
	MarkSeatsSold(ctx context.Context, eventID, userID string, seatIDs []string) error
	ReleaseSeats(ctx context.Context, eventID string, seatIDs []string) error
	RecordAdmissions(ctx context.Context, eventID string, n int) error
	ReleaseAdmissions(ctx context.Context, eventID string, n int) error
}

// InventoryService tracks sold seats, short-lived seat holds and
// general-admission sales in Redis:
//
//	inventory:{event}             hash seat id -> buyer id
//	inventory:{event}:admissions  GA tickets sold
//	hold:{event}:{seat}           session id, expires after the hold TTL
type InventoryService struct {
	Redis   *redis.Client
	HoldTTL time.Duration
}

func NewInventoryService(redisClient *redis.Client, holdTTL time.Duration) *InventoryService {
	return &InventoryService{Redis: redisClient, HoldTTL: holdTTL}
}

func soldKey(eventID string) string {
	return fmt.Sprintf("inventory:%s", eventID)
}

func admissionsKey(eventID string) string {
	return fmt.Sprintf("inventory:%s:admissions", eventID)
}

func holdKey(eventID, seatID string) string {
	return fmt.Sprintf("hold:%s:%s", eventID, seatID)
}

// GetSeatAvailability reports each seat's state as seen by sessionID; the
// session's own holds count as available.
func (s *InventoryService) GetSeatAvailability(ctx context.Context, eventID, sessionID string, seatIDs []string) (map[string]SeatState, error) {
	availability := make(map[string]SeatState, len(seatIDs))
	if len(seatIDs) == 0 {
		return availability, nil
	}

	sold, err := s.Redis.HMGet(ctx, soldKey(eventID), seatIDs...).Result()
	if err != nil {
		return nil, fmt.Errorf("read sold seats: %w", err)
	}

	holdKeys := make([]string, len(seatIDs))
	for i, id := range seatIDs {
		holdKeys[i] = holdKey(eventID, id)
	}
	holds, err := s.Redis.MGet(ctx, holdKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read seat holds: %w", err)
	}

	for i, id := range seatIDs {
		switch {
		case sold[i] != nil:
			availability[id] = SeatSold
		case holds[i] != nil && holds[i] != sessionID:
			availability[id] = SeatHeld
		default:
			availability[id] = SeatAvailable
		}
	}
	return availability, nil
}

// ApplyAvailability returns a copy of layout with sold and held seats marked
// unavailable. Seats already unavailable stay that way.
func (s *InventoryService) ApplyAvailability(ctx context.Context, eventID, sessionID string, layout models.Layout) (models.Layout, error) {
	availability, err := s.GetSeatAvailability(ctx, eventID, sessionID, layout.SeatIDs())
	if err != nil {
		return models.Layout{}, err
	}

	out := layout
	out.Sections = make([]models.Section, len(layout.Sections))
	for i, section := range layout.Sections {
		seats := make([]models.Seat, len(section.Seats))
		for j, seat := range section.Seats {
			if availability[seat.ID] != SeatAvailable {
				seat.IsAvailable = false
			}
			seats[j] = seat
		}
		section.Seats = seats
		out.Sections[i] = section
	}
	return out, nil
}

// HoldSeat reserves a seat for a session until the hold TTL passes. Holding a
// seat the session already holds refreshes the TTL.
func (s *InventoryService) HoldSeat(ctx context.Context, eventID, seatID, sessionID string) error {
	sold, err := s.Redis.HExists(ctx, soldKey(eventID), seatID).Result()
	if err != nil {
		return err
	}
	if sold {
		return status.ErrSeatUnavailable
	}

	key := holdKey(eventID, seatID)
	ok, err := s.Redis.SetNX(ctx, key, sessionID, s.HoldTTL).Result()
	if err != nil {
		slog.Error("Failed to hold seat", "error", err, "event_id", eventID, "seat_id", seatID)
		return err
	}
	if ok {
		return nil
	}

	owner, err := s.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET
		return s.HoldSeat(ctx, eventID, seatID, sessionID)
	}
	if err != nil {
		return err
	}
	if owner != sessionID {
		return status.ErrSeatHeld
	}
	return s.Redis.Expire(ctx, key, s.HoldTTL).Err()
}

// ReleaseHold drops a hold, but only the holding session may release it.
func (s *InventoryService) ReleaseHold(ctx context.Context, eventID, seatID, sessionID string) error {
	key := holdKey(eventID, seatID)

	owner, err := s.Redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	if owner != sessionID {
		return status.ErrSeatHeld
	}
	return s.Redis.Del(ctx, key).Err()
}

func (s *InventoryService) MarkSeatsSold(ctx context.Context, eventID, userID string, seatIDs []string) error {
	if len(seatIDs) == 0 {
		return nil
	}

	fields := make([]any, 0, len(seatIDs)*2)
	holds := make([]string, 0, len(seatIDs))
	for _, id := range seatIDs {
		fields = append(fields, id, userID)
		holds = append(holds, holdKey(eventID, id))
	}

	_, err := s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, soldKey(eventID), fields...)
		pipe.Del(ctx, holds...)
		return nil
	})
	if err != nil {
		slog.Error("Failed to mark seats sold", "error", err, "event_id", eventID, "user_id", userID)
		return err
	}
	return nil
}

func (s *InventoryService) ReleaseSeats(ctx context.Context, eventID string, seatIDs []string) error {
	if len(seatIDs) == 0 {
		return nil
	}
	return s.Redis.HDel(ctx, soldKey(eventID), seatIDs...).Err()
}

func (s *InventoryService) RecordAdmissions(ctx context.Context, eventID string, n int) error {
	return s.Redis.IncrBy(ctx, admissionsKey(eventID), int64(n)).Err()
}

func (s *InventoryService) ReleaseAdmissions(ctx context.Context, eventID string, n int) error {
	return s.Redis.DecrBy(ctx, admissionsKey(eventID), int64(n)).Err()
}

// Admissions is the number of GA tickets sold through this storefront.
func (s *InventoryService) Admissions(ctx context.Context, eventID string) (int, error) {
	n, err := s.Redis.Get(ctx, admissionsKey(eventID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return max(n, 0), nil
}

// SoldFor adds storefront GA sales to the catalog's sold count.
func (s *InventoryService) SoldFor(ctx context.Context, event models.Event) (int, error) {
	n, err := s.Admissions(ctx, event.ID)
	if err != nil {
		return 0, err
	}
	return event.TicketsSold + n, nil
}

// ClearEvent drops sold seats and GA counts for an event removed from the catalog.
func (s *InventoryService) ClearEvent(ctx context.Context, eventID string) error {
	return s.Redis.Del(ctx, soldKey(eventID), admissionsKey(eventID)).Err()
}

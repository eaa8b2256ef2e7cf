package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticket-storefront/internal/status"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const holdTTL = 5 * time.Minute

func TestInventory_GetSeatAvailability(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewInventoryService(db, holdTTL)
	ctx := context.Background()

	ids := []string{"orch-1", "orch-2", "orch-3", "orch-4"}
	mock.ExpectHMGet("inventory:7", ids...).SetVal([]any{"buyer-9", nil, nil, nil})
	mock.ExpectMGet("hold:7:orch-1", "hold:7:orch-2", "hold:7:orch-3", "hold:7:orch-4").
		SetVal([]any{nil, "session-other", "session-me", nil})

	got, err := svc.GetSeatAvailability(ctx, "7", "session-me", ids)
	require.NoError(t, err)
	assert.Equal(t, map[string]SeatState{
		"orch-1": SeatSold,
		"orch-2": SeatHeld,
		"orch-3": SeatAvailable,
		"orch-4": SeatAvailable,
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventory_ApplyAvailability(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewInventoryService(db, holdTTL)
	layout := testLayout()

	mock.ExpectHMGet("inventory:7", "orch-1", "orch-2", "orch-3").SetVal([]any{nil, "buyer-9", nil})
	mock.ExpectMGet("hold:7:orch-1", "hold:7:orch-2", "hold:7:orch-3").SetVal([]any{nil, nil, nil})

	out, err := svc.ApplyAvailability(context.Background(), "7", "session-me", layout)
	require.NoError(t, err)

	seats := out.Sections[0].Seats
	assert.True(t, seats[0].IsAvailable)
	assert.False(t, seats[1].IsAvailable, "sold in inventory")
	assert.False(t, seats[2].IsAvailable, "already unavailable in layout")
	assert.True(t, layout.Sections[0].Seats[1].IsAvailable, "input layout is not modified")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventory_ReadError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewInventoryService(db, holdTTL)

	mock.ExpectHMGet("inventory:7", "orch-1").SetErr(errors.New("connection refused"))

	_, err := svc.GetSeatAvailability(context.Background(), "7", "s", []string{"orch-1"})
	assert.Error(t, err)
}

func TestInventory_HoldSeat(t *testing.T) {
	ctx := context.Background()

	t.Run("free seat", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		svc := NewInventoryService(db, holdTTL)

		mock.ExpectHExists("inventory:7", "orch-1").SetVal(false)
		mock.ExpectSetNX("hold:7:orch-1", "session-me", holdTTL).SetVal(true)

		assert.NoError(t, svc.HoldSeat(ctx, "7", "orch-1", "session-me"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sold seat", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		svc := NewInventoryService(db, holdTTL)

		mock.ExpectHExists("inventory:7", "orch-1").SetVal(true)

		assert.ErrorIs(t, svc.HoldSeat(ctx, "7", "orch-1", "session-me"), status.ErrSeatUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("held by another session", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		svc := NewInventoryService(db, holdTTL)

		mock.ExpectHExists("inventory:7", "orch-1").SetVal(false)
		mock.ExpectSetNX("hold:7:orch-1", "session-me", holdTTL).SetVal(false)
		mock.ExpectGet("hold:7:orch-1").SetVal("session-other")

		assert.ErrorIs(t, svc.HoldSeat(ctx, "7", "orch-1", "session-me"), status.ErrSeatHeld)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("own hold is refreshed", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		svc := NewInventoryService(db, holdTTL)

		mock.ExpectHExists("inventory:7", "orch-1").SetVal(false)
		mock.ExpectSetNX("hold:7:orch-1", "session-me", holdTTL).SetVal(false)
		mock.ExpectGet("hold:7:orch-1").SetVal("session-me")
		mock.ExpectExpire("hold:7:orch-1", holdTTL).SetVal(true)

		assert.NoError(t, svc.HoldSeat(ctx, "7", "orch-1", "session-me"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInventory_ReleaseHold(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	svc := NewInventoryService(db, holdTTL)

	mock.ExpectGet("hold:7:orch-1").SetVal("session-other")
	assert.ErrorIs(t, svc.ReleaseHold(ctx, "7", "orch-1", "session-me"), status.ErrSeatHeld)

	mock.ExpectGet("hold:7:orch-1").SetVal("session-me")
	mock.ExpectDel("hold:7:orch-1").SetVal(1)
	assert.NoError(t, svc.ReleaseHold(ctx, "7", "orch-1", "session-me"))

	mock.ExpectGet("hold:7:orch-2").RedisNil()
	assert.NoError(t, svc.ReleaseHold(ctx, "7", "orch-2", "session-me"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventory_MarkSeatsSold(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewInventoryService(db, holdTTL)

	mock.ExpectTxPipeline()
	mock.ExpectHSet("inventory:7", "orch-1", "user-1", "orch-2", "user-1").SetVal(2)
	mock.ExpectDel("hold:7:orch-1", "hold:7:orch-2").SetVal(1)
	mock.ExpectTxPipelineExec()

	err := svc.MarkSeatsSold(context.Background(), "7", "user-1", []string{"orch-1", "orch-2"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.NoError(t, svc.MarkSeatsSold(context.Background(), "7", "user-1", nil))
}

func TestInventory_ReleaseSeats(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewInventoryService(db, holdTTL)

	mock.ExpectHDel("inventory:7", "orch-1").SetVal(1)

	assert.NoError(t, svc.ReleaseSeats(context.Background(), "7", []string{"orch-1"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventory_Admissions(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	svc := NewInventoryService(db, holdTTL)

	mock.ExpectGet("inventory:1:admissions").RedisNil()
	n, err := svc.Admissions(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	mock.ExpectIncrBy("inventory:1:admissions", 4).SetVal(4)
	require.NoError(t, svc.RecordAdmissions(ctx, "1", 4))

	mock.ExpectDecrBy("inventory:1:admissions", 1).SetVal(3)
	require.NoError(t, svc.ReleaseAdmissions(ctx, "1", 1))

	event := gaEvent()
	event.TicketsSold = 40
	mock.ExpectGet("inventory:1:admissions").SetVal("3")
	sold, err := svc.SoldFor(ctx, event)
	require.NoError(t, err)
	assert.Equal(t, 43, sold)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventory_ClearEvent(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewInventoryService(db, holdTTL)

	mock.ExpectDel("inventory:7", "inventory:7:admissions").SetVal(2)

	assert.NoError(t, svc.ClearEvent(context.Background(), "7"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

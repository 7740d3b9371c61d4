//go:build integration

package main_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShareIt-Rental/service-shareit/internal/application"
	"github.com/ShareIt-Rental/service-shareit/internal/events"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// TestBookingLifecycle_PublishesEvents creates and approves a booking against
// PostgreSQL and checks both lifecycle events land on booking.events.
func TestBookingLifecycle_PublishesEvents(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupShareitStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()
	owner, booker, item := seedOwnerAndItem(t, stack)

	start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	created, err := stack.Bookings.CreateBooking(ctx, booker.ID, application.CreateBookingRequest{
		ItemID: item.ID,
		Start:  start,
		End:    start.Add(48 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "WAITING", created.Status)

	key := strconv.FormatInt(created.ID, 10)
	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents, events.BookingRequested, key, 15*time.Second)
	var requested events.BookingRequestedEvent
	require.NoError(t, ce.ParseData(&requested))
	assert.Equal(t, created.ID, requested.BookingID)
	assert.Equal(t, owner.ID, requested.OwnerID)
	assert.Equal(t, booker.ID, requested.BookerID)

	approved, err := stack.Bookings.DecideBooking(ctx, created.ID, owner.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)

	ce = consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents, events.BookingApproved, key, 15*time.Second)
	var decided events.BookingDecidedEvent
	require.NoError(t, ce.ParseData(&decided))
	assert.Equal(t, "APPROVED", decided.Status)
	assert.Equal(t, owner.ID, decided.DecidedBy)

	_, err = stack.Bookings.DecideBooking(ctx, created.ID, owner.ID, false)
	assert.True(t, domain.IsKind(err, domain.KindInvalidState))

	future, err := stack.Bookings.ListOwnerBookings(ctx, owner.ID, "FUTURE", 0, 20)
	require.NoError(t, err)
	require.Len(t, future, 1)
	assert.Equal(t, created.ID, future[0].ID)

	view, err := stack.Items.GetItem(ctx, owner.ID, item.ID)
	require.NoError(t, err)
	require.NotNil(t, view.NextBooking)
	assert.Equal(t, created.ID, view.NextBooking.ID)
	assert.Nil(t, view.LastBooking)
}

// TestDecideBooking_ConcurrentDecisionsHaveOneWinner races the owner's
// approval against the booker's cancellation on the same waiting booking.
func TestDecideBooking_ConcurrentDecisionsHaveOneWinner(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupShareitStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()

	ctx := context.Background()
	owner, booker, item := seedOwnerAndItem(t, stack)

	start := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	created, err := stack.Bookings.CreateBooking(ctx, booker.ID, application.CreateBookingRequest{
		ItemID: item.ID,
		Start:  start,
		End:    start.Add(time.Hour),
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, actor := range []int64{owner.ID, booker.ID} {
		wg.Add(1)
		go func(i int, actor int64) {
			defer wg.Done()
			_, errs[i] = stack.Bookings.DecideBooking(ctx, created.ID, actor, actor == owner.ID)
		}(i, actor)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, domain.IsKind(err, domain.KindInvalidState), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, wins)

	final, err := stack.Bookings.GetBooking(ctx, created.ID, owner.ID)
	require.NoError(t, err)
	assert.Contains(t, []string{"APPROVED", "CANCELED"}, final.Status)
}

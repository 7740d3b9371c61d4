package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/booking"
	userDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/user"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
	"github.com/ShareIt-Rental/service-shareit/internal/repository/memory"
)

type itemFixture struct {
	svc      *ItemService
	items    *memory.ItemStore
	bookings *memory.BookingStore
	owner    *userDomain.User
	renter   *userDomain.User
	now      time.Time
}

func newItemFixture(t *testing.T) *itemFixture {
	t.Helper()
	users := memory.NewUserStore()
	f := &itemFixture{
		items:    memory.NewItemStore(),
		bookings: memory.NewBookingStore(),
		now:      time.Now().UTC().Truncate(time.Second),
	}
	f.svc = NewItemService(f.items, users, f.bookings, memory.NewCommentStore(), memory.NewRequestStore(), zap.NewNop())
	f.svc.now = func() time.Time { return f.now }
	f.owner = saveUser(t, users, "Owner", "owner@example.com")
	f.renter = saveUser(t, users, "Renter", "renter@example.com")
	return f
}

func (f *itemFixture) book(t *testing.T, it *ItemDTO, start, end time.Duration, status bookingDomain.BookingStatus) *bookingDomain.Booking {
	t.Helper()
	ctx := context.Background()
	b, err := bookingDomain.NewBooking(
		bookingDomain.ItemRef{ID: it.ID, Name: it.Name, OwnerID: f.owner.ID()},
		bookingDomain.BookerRef{ID: f.renter.ID(), Name: f.renter.Name()},
		f.now.Add(start), f.now.Add(end),
	)
	require.NoError(t, err)
	require.NoError(t, f.bookings.Save(ctx, b))
	if status != bookingDomain.StatusWaiting {
		require.NoError(t, b.Decide(f.owner.ID(), status == bookingDomain.StatusApproved))
		b.IncrementVersion()
		require.NoError(t, f.bookings.UpdateStatus(ctx, b))
	}
	return b
}

func boolPtr(b bool) *bool { return &b }

func (f *itemFixture) createItem(t *testing.T, name string, available bool) *ItemDTO {
	t.Helper()
	dto, err := f.svc.CreateItem(context.Background(), f.owner.ID(), CreateItemRequest{
		Name: name, Description: name + " in good condition", Available: boolPtr(available),
	})
	require.NoError(t, err)
	return dto
}

func TestItemService_CreateAndUpdate(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	drill := f.createItem(t, "Drill", true)
	assert.True(t, drill.Available)

	_, err := f.svc.CreateItem(ctx, 999, CreateItemRequest{Name: "x", Description: "y", Available: boolPtr(true)})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	missingRequest := int64(42)
	_, err = f.svc.CreateItem(ctx, f.owner.ID(), CreateItemRequest{Name: "x", Description: "y", Available: boolPtr(true), RequestID: &missingRequest})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = f.svc.UpdateItem(ctx, f.renter.ID(), drill.ID, UpdateItemRequest{Available: boolPtr(false)})
	assert.True(t, domain.IsKind(err, domain.KindForbidden))

	name := "Hammer drill"
	updated, err := f.svc.UpdateItem(ctx, f.owner.ID(), drill.ID, UpdateItemRequest{Name: &name, Available: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Hammer drill", updated.Name)
	assert.Equal(t, "Drill in good condition", updated.Description)
	assert.False(t, updated.Available)
}

func TestItemService_GetItemShowsBookingsOnlyToOwner(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	drill := f.createItem(t, "Drill", true)

	last := f.book(t, drill, -48*time.Hour, -24*time.Hour, bookingDomain.StatusApproved)
	f.book(t, drill, 2*time.Hour, 3*time.Hour, bookingDomain.StatusWaiting)
	next := f.book(t, drill, 5*time.Hour, 6*time.Hour, bookingDomain.StatusApproved)

	asOwner, err := f.svc.GetItem(ctx, f.owner.ID(), drill.ID)
	require.NoError(t, err)
	require.NotNil(t, asOwner.LastBooking)
	require.NotNil(t, asOwner.NextBooking)
	assert.Equal(t, last.ID(), asOwner.LastBooking.ID)
	assert.Equal(t, next.ID(), asOwner.NextBooking.ID)
	assert.Equal(t, f.renter.ID(), asOwner.NextBooking.BookerID)
	assert.NotNil(t, asOwner.Comments)

	asRenter, err := f.svc.GetItem(ctx, f.renter.ID(), drill.ID)
	require.NoError(t, err)
	assert.Nil(t, asRenter.LastBooking)
	assert.Nil(t, asRenter.NextBooking)

	owned, err := f.svc.ListOwnerItems(ctx, f.owner.ID())
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, next.ID(), owned[0].NextBooking.ID)
}

func TestItemService_SearchItems(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	f.createItem(t, "Drill", true)
	f.createItem(t, "Broken drill", false)
	f.createItem(t, "Saw", true)

	found, err := f.svc.SearchItems(ctx, "DRILL", 0, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Drill", found[0].Name)

	blank, err := f.svc.SearchItems(ctx, "   ", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, blank)

	_, err = f.svc.SearchItems(ctx, "drill", -1, 10)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestItemService_AddComment(t *testing.T) {
	f := newItemFixture(t)
	ctx := context.Background()
	drill := f.createItem(t, "Drill", true)

	_, err := f.svc.AddComment(ctx, f.renter.ID(), drill.ID, CreateCommentRequest{Text: "Nice"})
	assert.True(t, domain.IsKind(err, domain.KindValidation), "no rental yet")

	f.book(t, drill, -2*time.Hour, time.Hour, bookingDomain.StatusApproved)
	_, err = f.svc.AddComment(ctx, f.renter.ID(), drill.ID, CreateCommentRequest{Text: "Nice"})
	assert.True(t, domain.IsKind(err, domain.KindValidation), "rental still running")

	f.book(t, drill, -48*time.Hour, -24*time.Hour, bookingDomain.StatusApproved)
	c, err := f.svc.AddComment(ctx, f.renter.ID(), drill.ID, CreateCommentRequest{Text: "Nice"})
	require.NoError(t, err)
	assert.Equal(t, "Renter", c.AuthorName)
	assert.Equal(t, "Nice", c.Text)

	got, err := f.svc.GetItem(ctx, f.renter.ID(), drill.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, c.ID, got.Comments[0].ID)

	_, err = f.svc.AddComment(ctx, f.renter.ID(), 999, CreateCommentRequest{Text: "Nice"})
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestItemService_RejectedRentalDoesNotAllowComment(t *testing.T) {
	f := newItemFixture(t)
	drill := f.createItem(t, "Drill", true)
	f.book(t, drill, -48*time.Hour, -24*time.Hour, bookingDomain.StatusRejected)

	_, err := f.svc.AddComment(context.Background(), f.renter.ID(), drill.ID, CreateCommentRequest{Text: "Nice"})
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

package booking

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

func TestParseState(t *testing.T) {
	for _, raw := range []string{"ALL", "all", "Current", "future", "PAST", "waiting", "rejected"} {
		_, err := ParseState(raw)
		assert.NoError(t, err, raw)
	}

	_, err := ParseState("BOGUS")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindUnknownState))
	assert.Equal(t, "Unknown state: BOGUS", err.Error())
}

func TestResolveFilter(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return now.Add(time.Duration(h) * time.Hour) }
	mk := func(id int64, start, end time.Time, status BookingStatus) *Booking {
		return ReconstructBooking(id, start, end,
			ItemRef{ID: 100, OwnerID: ownerID}, BookerRef{ID: bookerID},
			status, 1, now, now)
	}

	past := mk(1, at(-48), at(-24), StatusApproved)
	current := mk(2, at(-1), at(1), StatusApproved)
	future := mk(3, at(24), at(48), StatusWaiting)
	rejected := mk(4, at(72), at(96), StatusRejected)
	all := []*Booking{past, current, future, rejected}

	tests := []struct {
		state State
		want  []*Booking
	}{
		{StateAll, all},
		{StateCurrent, []*Booking{current}},
		{StateFuture, []*Booking{future, rejected}},
		{StatePast, []*Booking{past}},
		{StateWaiting, []*Booking{future}},
		{StateRejected, []*Booking{rejected}},
	}

	for _, role := range []struct {
		role  Role
		actor int64
	}{{RoleBooker, bookerID}, {RoleOwner, ownerID}} {
		for _, tt := range tests {
			t.Run(role.role.String()+"/"+string(tt.state), func(t *testing.T) {
				f, err := ResolveFilter(role.role, tt.state, role.actor, now)
				require.NoError(t, err)

				var got []*Booking
				for _, b := range all {
					if f.Matches(b) {
						got = append(got, b)
					}
				}
				assert.Equal(t, tt.want, got)
			})
		}
	}
}

func TestResolveFilter_ScopesByRole(t *testing.T) {
	now := time.Now().UTC()
	b := ReconstructBooking(1, now.Add(-time.Hour), now.Add(time.Hour),
		ItemRef{ID: 1, OwnerID: ownerID}, BookerRef{ID: bookerID}, StatusWaiting, 1, now, now)

	asBooker, _ := ResolveFilter(RoleBooker, StateAll, ownerID, now)
	assert.False(t, asBooker.Matches(b), "owner id must not match on booker side")

	asOwner, _ := ResolveFilter(RoleOwner, StateAll, bookerID, now)
	assert.False(t, asOwner.Matches(b), "booker id must not match on owner side")
}

func TestResolveFilter_CurrentBoundsAreStrict(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	startsNow := ReconstructBooking(1, now, now.Add(time.Hour),
		ItemRef{ID: 1, OwnerID: ownerID}, BookerRef{ID: bookerID}, StatusApproved, 1, now, now)

	f, err := ResolveFilter(RoleBooker, StateCurrent, bookerID, now)
	require.NoError(t, err)
	assert.False(t, f.Matches(startsNow))
}

func TestResolveFilter_UnknownState(t *testing.T) {
	_, err := ResolveFilter(RoleOwner, State("BOGUS"), ownerID, time.Now())
	assert.True(t, domain.IsKind(err, domain.KindUnknownState))
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		from, size   int
		number, skip int
	}{
		{0, 20, 0, 0},
		{5, 20, 0, 0},
		{20, 20, 1, 20},
		{45, 20, 2, 40},
		{3, 1, 3, 3},
	}
	for _, tt := range tests {
		p, err := NewPage(tt.from, tt.size)
		require.NoError(t, err)
		assert.Equal(t, tt.number, p.Number)
		assert.Equal(t, tt.skip, p.Offset())
	}

	_, err := NewPage(-1, 10)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	_, err = NewPage(0, 0)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestLess(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	mk := func(id int64, start time.Time) *Booking {
		return ReconstructBooking(id, start, start.Add(time.Hour),
			ItemRef{ID: 1, OwnerID: ownerID}, BookerRef{ID: bookerID}, StatusWaiting, 1, now, now)
	}
	list := []*Booking{mk(1, now), mk(2, now.Add(time.Hour)), mk(3, now)}
	sort.SliceStable(list, func(i, j int) bool { return Less(list[i], list[j]) })

	assert.Equal(t, []int64{2, 3, 1}, []int64{list[0].ID(), list[1].ID(), list[2].ID()})
}

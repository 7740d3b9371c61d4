package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// State selects a temporal or status view over a user's bookings.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StateFuture   State = "FUTURE"
	StatePast     State = "PAST"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var knownStates = map[State]struct{}{
	StateAll: {}, StateCurrent: {}, StateFuture: {}, StatePast: {}, StateWaiting: {}, StateRejected: {},
}

// ParseState accepts a state token in any letter case.
func ParseState(raw string) (State, error) {
	s := State(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := knownStates[s]; !ok {
		return "", domain.NewUnknownStateError(raw)
	}
	return s, nil
}

// Role says which side of a booking the actor is listing from.
type Role int

const (
	RoleBooker Role = iota
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleBooker:
		return "booker"
	case RoleOwner:
		return "owner"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Filter is a booking predicate: scoped to one actor on one side, optionally bounded in time or status.
// Time bounds are strict.
type Filter struct {
	Role    Role
	ActorID int64

	StartBefore *time.Time
	StartAfter  *time.Time
	EndAfter    *time.Time
	EndBefore   *time.Time
	Status      *BookingStatus
}

// ResolveFilter turns a state token into a Filter for actorID on the given side, evaluated at now.
func ResolveFilter(role Role, state State, actorID int64, now time.Time) (Filter, error) {
	f := Filter{Role: role, ActorID: actorID}
	now = now.UTC()

	switch state {
	case StateAll:
	case StateCurrent:
		f.StartBefore = &now
		f.EndAfter = &now
	case StateFuture:
		f.StartAfter = &now
	case StatePast:
		f.EndBefore = &now
	case StateWaiting:
		f.Status = statusPtr(StatusWaiting)
	case StateRejected:
		f.Status = statusPtr(StatusRejected)
	default:
		return Filter{}, domain.NewUnknownStateError(string(state))
	}
	return f, nil
}

func statusPtr(s BookingStatus) *BookingStatus { return &s }

// Matches evaluates the filter against a single booking.
func (f Filter) Matches(b *Booking) bool {
	switch f.Role {
	case RoleBooker:
		if b.Booker().ID != f.ActorID {
			return false
		}
	case RoleOwner:
		if b.Item().OwnerID != f.ActorID {
			return false
		}
	default:
		return false
	}

	if f.StartBefore != nil && !b.Start().Before(*f.StartBefore) {
		return false
	}
	if f.StartAfter != nil && !b.Start().After(*f.StartAfter) {
		return false
	}
	if f.EndAfter != nil && !b.End().After(*f.EndAfter) {
		return false
	}
	if f.EndBefore != nil && !b.End().Before(*f.EndBefore) {
		return false
	}
	if f.Status != nil && b.Status() != *f.Status {
		return false
	}
	return true
}

// Page is a page-indexed window over an ordered result set.
type Page struct {
	Number int
	Size   int
}

// NewPage converts an offset-style from/size pair into a page index.
// The index is from/size, so from values that are not multiples of size round down to the enclosing page.
func NewPage(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, domain.NewValidationError("from must not be negative")
	}
	if size < 1 {
		return Page{}, domain.NewValidationError("size must be positive")
	}
	return Page{Number: from / size, Size: size}, nil
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// Less orders bookings by start descending, then by id descending.
func Less(a, b *Booking) bool {
	if !a.Start().Equal(b.Start()) {
		return a.Start().After(b.Start())
	}
	return a.ID() > b.ID()
}

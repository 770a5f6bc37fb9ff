package availability

// Status is the derived availability of one property on one day.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusBooked    Status = "booked"
	StatusBlocked   Status = "blocked"
)

// Hold describes how strongly a reservation occupies the calendar.
type Hold int

const (
	HoldNone      Hold = iota // cancelled, never occupies
	HoldTentative             // awaiting host confirmation
	HoldFirm                  // confirmed or later
)

// Role of the caller selecting a range.
type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
)

// Reason explains why a range was rejected. The empty Reason means accepted.
type Reason string

const (
	ReasonNone                   Reason = ""
	ReasonPastDate               Reason = "past_date"
	ReasonZeroLength             Reason = "zero_length"
	ReasonUnavailableDateInRange Reason = "unavailable_date_in_range"
)

// MaxStayNights bounds the ranges a guest can select.
const MaxStayNights = 365

// Reservation is a booking projected onto the calendar: it occupies [CheckIn, CheckOut).
type Reservation struct {
	ID       string
	CheckIn  Date
	CheckOut Date
	Hold     Hold
}

// end returns the exclusive end of the occupied range. A reservation whose
// checkout is not after its check-in still occupies its check-in day.
func (r Reservation) end() Date {
	if !r.CheckOut.After(r.CheckIn) {
		return r.CheckIn.AddDays(1)
	}
	return r.CheckOut
}

func (r Reservation) covers(d Date) bool {
	return !d.Before(r.CheckIn) && d.Before(r.end())
}

// Snapshot is the reservations and blocked days of a single property.
// It is immutable after construction and safe for concurrent reads.
type Snapshot struct {
	reservations []Reservation
	blocked      map[int64]struct{}
}

// NewSnapshot copies its inputs. Cancelled reservations are dropped.
func NewSnapshot(reservations []Reservation, blocked []Date) *Snapshot {
	s := &Snapshot{
		reservations: make([]Reservation, 0, len(reservations)),
		blocked:      make(map[int64]struct{}, len(blocked)),
	}
	for _, r := range reservations {
		if r.Hold == HoldNone {
			continue
		}
		s.reservations = append(s.reservations, r)
	}
	for _, d := range blocked {
		s.blocked[d.key()] = struct{}{}
	}
	return s
}

// StatusFor classifies a single day. Precedence: blocked > booked > pending > available.
func (s *Snapshot) StatusFor(d Date) Status {
	if _, ok := s.blocked[d.key()]; ok {
		return StatusBlocked
	}
	status := StatusAvailable
	for _, r := range s.reservations {
		if !r.covers(d) {
			continue
		}
		if r.Hold == HoldTentative {
			status = StatusPending
			continue
		}
		// Unknown holds count as firm.
		return StatusBooked
	}
	return status
}

// IsRangeSelectable reports whether a stay [start, end) may be selected by role.
// today is the caller's current day.
func (s *Snapshot) IsRangeSelectable(start, end Date, role Role, today Date) (bool, Reason) {
	if !end.After(start) {
		return false, ReasonZeroLength
	}
	if start.Before(today) {
		return false, ReasonPastDate
	}
	if role == RoleHost {
		return true, ReasonNone
	}
	if start.DaysUntil(end) > MaxStayNights {
		return false, ReasonUnavailableDateInRange
	}
	for d := start; d.Before(end); d = d.AddDays(1) {
		if s.StatusFor(d) != StatusAvailable {
			return false, ReasonUnavailableDateInRange
		}
	}
	return true, ReasonNone
}

// Day is one cell of a rendered calendar.
type Day struct {
	Date   Date   `json:"date"`
	Status Status `json:"status"`
}

// Calendar returns the status of every day in [from, to).
func (s *Snapshot) Calendar(from, to Date) []Day {
	if !to.After(from) {
		return nil
	}
	days := make([]Day, 0, from.DaysUntil(to))
	for d := from; d.Before(to); d = d.AddDays(1) {
		days = append(days, Day{Date: d, Status: s.StatusFor(d)})
	}
	return days
}

// Conflicts returns the reservations overlapping [start, end).
func (s *Snapshot) Conflicts(start, end Date) []Reservation {
	var out []Reservation
	for _, r := range s.reservations {
		if Overlaps(r.CheckIn, r.end(), start, end) {
			out = append(out, r)
		}
	}
	return out
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and [bStart, bEnd)
// share at least one day. A range with end <= start is treated as its start day.
func Overlaps(aStart, aEnd, bStart, bEnd Date) bool {
	if !aEnd.After(aStart) {
		aEnd = aStart.AddDays(1)
	}
	if !bEnd.After(bStart) {
		bEnd = bStart.AddDays(1)
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

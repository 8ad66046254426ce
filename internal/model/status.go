package model

import (
	"encoding/json"
	"fmt"
)

// Status is the workflow stage of a listing. It is the in-process
// representation; the sold/paid/finished booleans exist only at the
// storage boundary.
type Status int

const (
	StatusUnsold Status = iota
	StatusSoldUnpaid
	StatusSoldPaid
	StatusFinished
)

// String returns the wire name of the status, also used as the
// filter-tab value in list requests.
func (s Status) String() string {
	switch s {
	case StatusUnsold:
		return "unsold"
	case StatusSoldUnpaid:
		return "sold_unpaid"
	case StatusSoldPaid:
		return "sold_paid"
	case StatusFinished:
		return "finished"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalJSON serializes the status under its wire name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Advance moves the status one step along the fixed cycle
// unsold -> sold_unpaid -> sold_paid -> finished -> unsold.
// There are no skip transitions; four applications return the input.
func (s Status) Advance() Status {
	switch s {
	case StatusUnsold:
		return StatusSoldUnpaid
	case StatusSoldUnpaid:
		return StatusSoldPaid
	case StatusSoldPaid:
		return StatusFinished
	default:
		return StatusUnsold
	}
}

// Flags derives the stored boolean representation of the status.
func (s Status) Flags() (sold, paid, finished bool) {
	switch s {
	case StatusSoldUnpaid:
		return true, false, false
	case StatusSoldPaid:
		return true, true, false
	case StatusFinished:
		return true, true, true
	default:
		return false, false, false
	}
}

// StatusFromFlags maps stored booleans back to a Status. Finished
// dominates: legacy rows with finished=true but sold/paid unset are
// still treated as finished rather than rejected.
func StatusFromFlags(sold, paid, finished bool) Status {
	switch {
	case finished:
		return StatusFinished
	case sold && paid:
		return StatusSoldPaid
	case sold:
		return StatusSoldUnpaid
	default:
		return StatusUnsold
	}
}

// Tab is a status filter selector for list views.
type Tab string

const (
	TabAll        Tab = "all"
	TabUnsold     Tab = "unsold"
	TabSoldUnpaid Tab = "sold_unpaid"
	TabSoldPaid   Tab = "sold_paid"
	TabFinished   Tab = "finished"
)

// ParseTab validates a tab value from a request. An empty value means
// no status filtering.
func ParseTab(v string) (Tab, error) {
	switch Tab(v) {
	case "", TabAll:
		return TabAll, nil
	case TabUnsold, TabSoldUnpaid, TabSoldPaid, TabFinished:
		return Tab(v), nil
	}
	return "", fmt.Errorf("unknown status tab %q", v)
}

// Matches reports whether a status belongs under the tab.
func (t Tab) Matches(s Status) bool {
	if t == TabAll {
		return true
	}
	return string(t) == s.String()
}

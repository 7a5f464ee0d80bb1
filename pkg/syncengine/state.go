package syncengine

import (
	"sort"

	"github.com/dmitrymomot/notifyhub/pkg/notifications"
)

// State is the client's reconciled view: accumulated delivery records
// (strictly descending by notification ID, unique), the set of page markers
// already merged, and the unread counter.
//
// State values are treated as immutable; the transition functions below
// return a new State and never mutate their input.
type State struct {
	Records []notifications.DeliveryRecord
	Markers map[Marker]struct{}
	Unread  int
}

// NewState returns an empty client state.
func NewState() State {
	return State{Markers: make(map[Marker]struct{})}
}

// Has reports whether a notification ID is already accumulated.
func (s State) Has(id int64) bool {
	for _, rec := range s.Records {
		if rec.Notification.ID == id {
			return true
		}
	}
	return false
}

// HasMarker reports whether a page marker was already merged.
func (s State) HasMarker(marker Marker) bool {
	_, ok := s.Markers[marker]
	return ok
}

func (s State) clone() State {
	next := State{
		Records: make([]notifications.DeliveryRecord, len(s.Records)),
		Markers: make(map[Marker]struct{}, len(s.Markers)),
		Unread:  s.Unread,
	}
	copy(next.Records, s.Records)
	for m := range s.Markers {
		next.Markers[m] = struct{}{}
	}
	return next
}

func sortDesc(records []notifications.DeliveryRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Notification.ID > records[j].Notification.ID
	})
}

// MergePage merges one fetched page into the state.
//
// A first-page marker arriving while more than one marker is loaded signals
// the consumer restarted pagination from the beginning (for example a panel
// was closed and reopened): the state is rebuilt from the incoming page
// alone, which is what keeps repeated open/close cycles from accumulating
// without bound. This takes precedence over the refetch overlay below, so a
// restart always collapses the marker set back to the first page.
//
// A marker seen before (with at most one marker loaded) means the page was
// refetched: incoming read/archive state is overlaid onto the matching
// accumulated records (a refetch can reveal changes made on another device)
// and records first seen on the refetch are merged in, without duplicating
// anything or touching counts.
//
// Otherwise records not yet accumulated are merged in and the whole sequence
// is re-sorted; an incoming page is never assumed to be positioned correctly
// relative to concurrently arrived pushes. The server's unread total is
// adopted only when this is the first page merged into an empty state;
// afterwards the counter evolves through pushes and local mark-reads.
func MergePage(s State, records []notifications.DeliveryRecord, marker Marker, unreadTotal int) State {
	if marker.IsStart() && len(s.Markers) > 1 {
		next := NewState()
		next.Records = make([]notifications.DeliveryRecord, len(records))
		copy(next.Records, records)
		sortDesc(next.Records)
		next.Markers[marker] = struct{}{}
		next.Unread = unreadTotal
		return next
	}

	if s.HasMarker(marker) {
		return overlayPage(s, records)
	}

	next := s.clone()
	existing := make(map[int64]struct{}, len(next.Records))
	for _, rec := range next.Records {
		existing[rec.Notification.ID] = struct{}{}
	}
	for _, rec := range records {
		if _, ok := existing[rec.Notification.ID]; ok {
			continue
		}
		existing[rec.Notification.ID] = struct{}{}
		next.Records = append(next.Records, rec)
	}
	sortDesc(next.Records)

	adopt := len(next.Markers) == 0
	next.Markers[marker] = struct{}{}
	if adopt {
		next.Unread = unreadTotal
	}
	return next
}

// overlayPage reconciles a refetched page: matching records take the
// incoming read/archive state, records not seen before are merged in (a
// reconnect refetch is how pushes missed while offline get healed), nothing
// is duplicated and the unread counter is left alone.
func overlayPage(s State, records []notifications.DeliveryRecord) State {
	incoming := make(map[int64]notifications.DeliveryRecord, len(records))
	for _, rec := range records {
		incoming[rec.Notification.ID] = rec
	}

	next := s.clone()
	for i := range next.Records {
		in, ok := incoming[next.Records[i].Notification.ID]
		if !ok {
			continue
		}
		next.Records[i].IsRead = in.IsRead
		next.Records[i].Notification.IsArchived = in.Notification.IsArchived
		delete(incoming, in.Notification.ID)
	}
	for _, rec := range incoming {
		next.Records = append(next.Records, rec)
	}
	sortDesc(next.Records)
	return next
}

// MergePush merges one pushed record. Records already accumulated are
// dropped silently: the transport is at-least-once and reconnects may
// redeliver. New records are prepended (a push is always newer than anything
// paginated) and counted when unread; the sequence is still re-sorted in case
// pushes themselves arrive out of order.
func MergePush(s State, rec notifications.DeliveryRecord) State {
	if s.Has(rec.Notification.ID) {
		return s
	}

	next := s.clone()
	next.Records = append([]notifications.DeliveryRecord{rec}, next.Records...)
	sortDesc(next.Records)
	if !rec.IsRead {
		next.Unread++
	}
	return next
}

// MarkRead marks one accumulated record as read, decrementing the unread
// counter with a floor at zero. Returns the unchanged state and false when
// the record is unknown or already read.
func MarkRead(s State, id int64) (State, bool) {
	for i, rec := range s.Records {
		if rec.Notification.ID != id {
			continue
		}
		if rec.IsRead {
			return s, false
		}
		next := s.clone()
		next.Records[i].IsRead = true
		if next.Unread > 0 {
			next.Unread--
		}
		return next, true
	}
	return s, false
}

// MarkAllRead marks every accumulated record as read and zeroes the counter.
// Returns the unchanged state and false when nothing is unread.
func MarkAllRead(s State) (State, bool) {
	if s.Unread == 0 {
		return s, false
	}

	next := s.clone()
	for i := range next.Records {
		next.Records[i].IsRead = true
	}
	next.Unread = 0
	return next, true
}

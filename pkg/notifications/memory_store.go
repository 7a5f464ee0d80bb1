package notifications

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Suitable for development and testing.
type MemoryStore struct {
	records map[string][]DeliveryRecord // receiverID -> records, append order
	groups  map[string][]string         // receiverID -> group channels
	lastID  int64
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory notification store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string][]DeliveryRecord),
		groups:  make(map[string][]string),
	}
}

func (s *MemoryStore) Create(ctx context.Context, receiverID string, sender Sender, notif Notification) (DeliveryRecord, error) {
	if receiverID == "" {
		return DeliveryRecord{}, ErrMissingReceiver
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	notif.ID = s.lastID
	if notif.CreatedAt.IsZero() {
		notif.CreatedAt = time.Now()
	}

	rec := DeliveryRecord{
		Notification: notif,
		ReceiverID:   receiverID,
		Sender:       sender,
	}
	s.records[receiverID] = append(s.records[receiverID], rec)
	return rec, nil
}

func (s *MemoryStore) ListPage(ctx context.Context, receiverID string, page, pageSize int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := s.sortedDesc(receiverID)

	start := (page - 1) * pageSize
	if start > len(sorted) {
		start = len(sorted)
	}
	end := min(start+pageSize, len(sorted))

	return Page{
		Records:     sorted[start:end],
		Page:        page,
		PageSize:    pageSize,
		HasMore:     end < len(sorted),
		UnreadTotal: s.countUnread(receiverID),
	}, nil
}

func (s *MemoryStore) ListAfterCursor(ctx context.Context, receiverID string, cursor int64, limit int) (Page, error) {
	if limit < 1 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := s.sortedDesc(receiverID)

	// Skip everything at or above the cursor; zero cursor starts at the top.
	if cursor > 0 {
		idx := sort.Search(len(sorted), func(i int) bool {
			return sorted[i].Notification.ID < cursor
		})
		sorted = sorted[idx:]
	}

	end := min(limit, len(sorted))
	result := Page{
		Records:     sorted[:end],
		HasMore:     end < len(sorted),
		UnreadTotal: s.countUnread(receiverID),
	}
	if end > 0 {
		result.NextCursor = sorted[end-1].Notification.ID
	}
	return result, nil
}

func (s *MemoryStore) MarkRead(ctx context.Context, receiverID string, notificationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.records[receiverID]
	for i := range records {
		if records[i].Notification.ID == notificationID {
			records[i].MarkAsRead()
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) MarkAllRead(ctx context.Context, receiverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.records[receiverID]
	for i := range records {
		records[i].MarkAsRead()
	}
	return nil
}

func (s *MemoryStore) CountUnread(ctx context.Context, receiverID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.countUnread(receiverID), nil
}

func (s *MemoryStore) Archive(ctx context.Context, notificationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for receiverID, records := range s.records {
		for i := range records {
			if records[i].Notification.ID == notificationID {
				records[i].Notification.IsArchived = true
				found = true
			}
		}
		s.records[receiverID] = records
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *MemoryStore) Groups(ctx context.Context, receiverID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := s.groups[receiverID]
	out := make([]string, len(groups))
	copy(out, groups)
	return out, nil
}

// JoinGroup subscribes receiverID to a named group channel. Membership is
// picked up by streaming connections opened after this call.
func (s *MemoryStore) JoinGroup(receiverID, group string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.groups[receiverID] {
		if g == group {
			return
		}
	}
	s.groups[receiverID] = append(s.groups[receiverID], group)
}

// sortedDesc returns a copy of the receiver's records ordered newest first.
// Callers must hold at least a read lock.
func (s *MemoryStore) sortedDesc(receiverID string) []DeliveryRecord {
	records := s.records[receiverID]
	sorted := make([]DeliveryRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Notification.ID > sorted[j].Notification.ID
	})
	return sorted
}

// countUnread counts unread records. Callers must hold at least a read lock.
func (s *MemoryStore) countUnread(receiverID string) int {
	count := 0
	for _, r := range s.records[receiverID] {
		if !r.IsRead {
			count++
		}
	}
	return count
}

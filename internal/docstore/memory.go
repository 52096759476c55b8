package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"giftlist/internal/models"
)

const (
	itemKeyPrefix    = "item/"
	profileKeyPrefix = "profile/"
)

// MemoryStore is the in-memory driver: committed documents guarded by a
// RWMutex, per-document versions for optimistic commit validation, and an
// in-process hub for change fan-out. It backs tests and the memory
// STORE_DRIVER.
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[string]*models.Item
	profiles  map[string]*models.Profile
	versions  map[string]uint64
	commitSeq uint64
	hub       *hub
	nowFn     func() time.Time
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:    make(map[string]*models.Item),
		profiles: make(map[string]*models.Profile),
		versions: make(map[string]uint64),
		hub:      newHub(),
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the clock used for created-at stamps. Test helper.
func (s *MemoryStore) SetNowFunc(fn func() time.Time) {
	s.nowFn = fn
}

// GetItem retrieves a committed item by ID.
func (s *MemoryStore) GetItem(_ context.Context, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return item.Clone(), nil
}

// ListItems returns all committed items owned by ownerID, sorted by
// creation time for deterministic iteration.
func (s *MemoryStore) ListItems(_ context.Context, ownerID string) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listOwnerLocked(ownerID), nil
}

// ListReservedBy returns all committed items reserved by personID.
func (s *MemoryStore) ListReservedBy(_ context.Context, personID string) ([]*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listReserverLocked(personID), nil
}

// GetProfile retrieves a committed profile by ID.
func (s *MemoryStore) GetProfile(_ context.Context, id string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// ListProfiles returns all profiles sorted by display name.
func (s *MemoryStore) ListProfiles(_ context.Context) ([]*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}

func (s *MemoryStore) listOwnerLocked(ownerID string) []*models.Item {
	var out []*models.Item
	for _, item := range s.items {
		if item.OwnerID == ownerID {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *MemoryStore) listReserverLocked(personID string) []*models.Item {
	var out []*models.Item
	for _, item := range s.items {
		if item.ReservedByActor(personID) {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// memTx buffers reads and writes for one transaction. Reads record the
// version of the first access per document; commit validates that none of
// them changed underneath and applies the write set atomically, or aborts
// with ErrTxAborted.
type memTx struct {
	store *MemoryStore
	now   time.Time

	reads        map[string]uint64
	itemSnaps    map[string]*models.Item
	profileSnaps map[string]*models.Profile

	itemWrites    map[string]*models.Item
	itemDeletes   map[string]bool
	profileWrites map[string]*models.Profile
}

func (tx *memTx) GetItem(id string) (*models.Item, error) {
	if tx.itemDeletes[id] {
		return nil, ErrNotFound
	}
	if item, ok := tx.itemWrites[id]; ok {
		return item.Clone(), nil
	}
	if item, ok := tx.itemSnaps[id]; ok {
		if item == nil {
			return nil, ErrNotFound
		}
		return item.Clone(), nil
	}

	key := itemKeyPrefix + id
	tx.store.mu.RLock()
	item, ok := tx.store.items[id]
	tx.reads[key] = tx.store.versions[key]
	if ok {
		tx.itemSnaps[id] = item.Clone()
	} else {
		tx.itemSnaps[id] = nil
	}
	tx.store.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return item.Clone(), nil
}

func (tx *memTx) PutItem(item *models.Item) error {
	if item.ID == "" {
		return ErrNotFound
	}
	cp := item.Clone()
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = tx.now
	}
	tx.itemWrites[item.ID] = cp
	delete(tx.itemDeletes, item.ID)
	return nil
}

func (tx *memTx) DeleteItem(id string) error {
	tx.itemDeletes[id] = true
	delete(tx.itemWrites, id)
	return nil
}

func (tx *memTx) GetProfile(id string) (*models.Profile, error) {
	if p, ok := tx.profileWrites[id]; ok {
		cp := *p
		return &cp, nil
	}
	if p, ok := tx.profileSnaps[id]; ok {
		if p == nil {
			return nil, ErrNotFound
		}
		cp := *p
		return &cp, nil
	}

	key := profileKeyPrefix + id
	tx.store.mu.RLock()
	p, ok := tx.store.profiles[id]
	tx.reads[key] = tx.store.versions[key]
	if ok {
		cp := *p
		tx.profileSnaps[id] = &cp
	} else {
		tx.profileSnaps[id] = nil
	}
	tx.store.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (tx *memTx) PutProfile(profile *models.Profile) error {
	if profile.ID == "" {
		return ErrNotFound
	}
	cp := *profile
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = tx.now
	}
	tx.profileWrites[profile.ID] = &cp
	return nil
}

// RunTx executes fn against a transactional handle and commits its buffered
// writes atomically. A version mismatch on any document read by fn aborts
// the commit with ErrTxAborted; nothing is applied and the caller may retry
// the whole transaction.
func (s *MemoryStore) RunTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memTx{
		store:         s,
		now:           s.nowFn(),
		reads:         make(map[string]uint64),
		itemSnaps:     make(map[string]*models.Item),
		profileSnaps:  make(map[string]*models.Profile),
		itemWrites:    make(map[string]*models.Item),
		itemDeletes:   make(map[string]bool),
		profileWrites: make(map[string]*models.Profile),
	}

	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()

	for key, ver := range tx.reads {
		if s.versions[key] != ver {
			s.mu.Unlock()
			return ErrTxAborted
		}
	}

	// Collect the owners and reservers whose views this commit touches,
	// including pre-images so a reservation handover notifies both sides.
	owners := make(map[string]bool)
	reservers := make(map[string]bool)
	touch := func(item *models.Item) {
		if item == nil {
			return
		}
		owners[item.OwnerID] = true
		if item.Reserved() {
			reservers[*item.ReservedBy] = true
		}
	}

	for id, item := range tx.itemWrites {
		touch(s.items[id])
		touch(item)
		s.items[id] = item
		s.versions[itemKeyPrefix+id]++
	}
	for id := range tx.itemDeletes {
		if _, ok := s.items[id]; !ok {
			continue
		}
		touch(s.items[id])
		delete(s.items, id)
		s.versions[itemKeyPrefix+id]++
	}
	for id, p := range tx.profileWrites {
		s.profiles[id] = p
		s.versions[profileKeyPrefix+id]++
	}

	s.commitSeq++
	seq := s.commitSeq

	type payload struct {
		topic string
		items []*models.Item
	}
	var payloads []payload
	for owner := range owners {
		payloads = append(payloads, payload{topicOwner + owner, s.listOwnerLocked(owner)})
	}
	for person := range reservers {
		payloads = append(payloads, payload{topicReserver + person, s.listReserverLocked(person)})
	}

	s.mu.Unlock()

	for _, p := range payloads {
		s.hub.publish(p.topic, seq, p.items)
	}
	return nil
}

// Subscribe registers fn for the full item set of ownerID after every
// commit touching it.
func (s *MemoryStore) Subscribe(ownerID string, fn func(items []*models.Item)) func() {
	return s.hub.subscribe(topicOwner+ownerID, fn)
}

// SubscribeReservations registers fn for the full set of items reserved by
// personID after every commit touching it.
func (s *MemoryStore) SubscribeReservations(personID string, fn func(items []*models.Item)) func() {
	return s.hub.subscribe(topicReserver+personID, fn)
}

// Close releases resources. The memory driver has none.
func (s *MemoryStore) Close() {}

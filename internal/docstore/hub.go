package docstore

import (
	"sync"

	"giftlist/internal/models"
)

// Topic prefixes. Item changes fan out to the owner's list topic and, when a
// reservation appears or disappears, to the affected reservers' topics.
const (
	topicOwner    = "owner/"
	topicReserver = "reserver/"
)

// hub fans committed changes out to subscribers. Payloads carry the commit
// sequence they were snapshotted at; a payload older than the last one
// delivered for its topic is dropped, so subscribers always converge on the
// newest committed set even when goroutines race to publish. Deliveries run
// under the hub lock: callbacks must not call subscribe or cancel
// synchronously.
type hub struct {
	mu      sync.Mutex
	nextID  int
	subs    map[string]map[int]func(items []*models.Item)
	lastSeq map[string]uint64
}

func newHub() *hub {
	return &hub{
		subs:    make(map[string]map[int]func(items []*models.Item)),
		lastSeq: make(map[string]uint64),
	}
}

func (h *hub) subscribe(topic string, fn func(items []*models.Item)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]func(items []*models.Item))
	}
	h.subs[topic][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[topic], id)
		if len(h.subs[topic]) == 0 {
			delete(h.subs, topic)
		}
	}
}

func (h *hub) publish(topic string, seq uint64, items []*models.Item) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if seq <= h.lastSeq[topic] {
		return
	}
	h.lastSeq[topic] = seq
	for _, fn := range h.subs[topic] {
		fn(items)
	}
}

package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"

	"giftlist/internal/models"
	"giftlist/internal/wishlist"
)

// heartbeatInterval keeps idle SSE connections alive through proxies and
// doubles as the disconnect detector.
const heartbeatInterval = 15 * time.Second

// EventsHandler streams live projected views over server-sent events.
type EventsHandler struct {
	service *wishlist.Service
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(service *wishlist.Service) *EventsHandler {
	return &EventsHandler{service: service}
}

// mailbox coalesces published item sets for one slow consumer. A client
// that falls behind skips intermediate states but always gets the latest.
type mailbox struct {
	mu     sync.Mutex
	latest []*models.Item
	ready  chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

func (m *mailbox) put(items []*models.Item) {
	m.mu.Lock()
	m.latest = items
	m.mu.Unlock()
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

func (m *mailbox) take() []*models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

// List streams the viewer's projected view of one owner's list: the full
// current set on connect and again after every committed change.
func (h *EventsHandler) List(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}
	owner, ok := h.service.ResolveName(c.Params("owner"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown list")
	}

	isOwner := profile.ID == owner
	if isOwner {
		if err := h.service.BootstrapPositions(c.Context(), owner); err != nil {
			return respondError(c, err)
		}
	}

	initial, err := h.service.ListVisible(c.Context(), owner, profile.ID, isOwner)
	if err != nil {
		return respondError(c, err)
	}

	box := newMailbox()
	box.put(initial)
	cancel := h.service.SubscribeList(owner, profile.ID, isOwner, box.put)

	return h.stream(c, box, cancel)
}

// MyGifts streams the caller's reserved set after every change touching it.
func (h *EventsHandler) MyGifts(c fiber.Ctx) error {
	profile, ok := currentProfile(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}

	initial, err := h.service.Reservations(c.Context(), profile.ID)
	if err != nil {
		return respondError(c, err)
	}

	box := newMailbox()
	box.put(initial)
	cancel := h.service.SubscribeReservations(profile.ID, box.put)

	return h.stream(c, box, cancel)
}

func (h *EventsHandler) stream(c fiber.Ctx, box *mailbox, cancel func()) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		heartbeat := time.NewTicker(heartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-box.ready:
				if err := writeEvent(w, box.take()); err != nil {
					return
				}
			case <-heartbeat.C:
				// Write failure is the only signal that the client is gone.
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
}

func writeEvent(w *bufio.Writer, items []*models.Item) error {
	if items == nil {
		items = []*models.Item{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: items\ndata: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

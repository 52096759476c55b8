// Package jobs runs background maintenance loops.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"giftlist/internal/docstore"
	"giftlist/internal/metrics"
	"giftlist/internal/validation"
)

// LinkChecker periodically verifies that wishlist item links still resolve,
// so dead shop links surface in the logs before someone tries to buy from
// them. It never mutates items.
type LinkChecker struct {
	store    docstore.Store
	interval time.Duration
	log      *slog.Logger
	client   *http.Client
}

// NewLinkChecker creates a new link checker.
func NewLinkChecker(store docstore.Store, interval time.Duration, logger *slog.Logger) *LinkChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &LinkChecker{
		store:    store,
		interval: interval,
		log:      logger,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// Start begins the background check loop and blocks until ctx is done.
func (c *LinkChecker) Start(ctx context.Context) {
	c.log.Info("link checker started", "interval", c.interval)

	// Run immediately on start
	c.checkAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("link checker stopped")
			return
		case <-ticker.C:
			c.checkAll(ctx)
		}
	}
}

// checkAll walks every list and checks each item link once.
func (c *LinkChecker) checkAll(ctx context.Context) {
	profiles, err := c.store.ListProfiles(ctx)
	if err != nil {
		c.log.Error("link checker: listing profiles failed", "error", err)
		return
	}

	for _, profile := range profiles {
		items, err := c.store.ListItems(ctx, profile.ID)
		if err != nil {
			c.log.Error("link checker: listing items failed", "owner", profile.ID, "error", err)
			continue
		}
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if item.Link == nil || !item.Active() {
				continue
			}
			c.checkLink(ctx, item.ID, *item.Link)
		}
	}
}

func (c *LinkChecker) checkLink(ctx context.Context, itemID, rawURL string) {
	target, err := url.Parse(rawURL)
	if err != nil || !validation.IsSafeRemoteHost(target.Hostname()) {
		metrics.RecordLinkCheck(metrics.LinkCheckSkipped)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.String(), nil)
	if err != nil {
		metrics.RecordLinkCheck(metrics.LinkCheckSkipped)
		return
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("item link unreachable", "item", itemID, "url", rawURL, "error", err)
		metrics.RecordLinkCheck(metrics.LinkCheckDead)
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusMethodNotAllowed {
		c.log.Warn("item link returned error status", "item", itemID, "url", rawURL, "status", resp.StatusCode)
		metrics.RecordLinkCheck(metrics.LinkCheckDead)
		return
	}
	metrics.RecordLinkCheck(metrics.LinkCheckOK)
}

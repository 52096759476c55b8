// Package preview fetches a representative image for a product link by
// scraping Open Graph / Twitter meta tags. Used to decorate wishlist items;
// a page without a usable image is a normal outcome, not an error.
package preview

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"giftlist/internal/validation"
)

// maxHTMLBytes bounds how much of the page body is scanned for meta tags.
const maxHTMLBytes = 200_000

const userAgent = "Mozilla/5.0 (compatible; GiftlistBot/1.0)"

// metaKeys are checked in preference order.
var metaKeys = []string{
	"og:image",
	"og:image:url",
	"og:image:secure_url",
	"twitter:image",
	"twitter:image:src",
}

var (
	metaTagPattern = regexp.MustCompile(`(?i)<meta\s+[^>]*?(?:property|name)=["']([^"']+)["'][^>]*content=["']([^"']+)["'][^>]*>`)
	imgTagPattern  = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["'][^>]*>`)
)

// ErrUnsafeURL rejects preview targets that are not plain public http(s)
// hosts, so the fetcher cannot be pointed at internal networks.
var ErrUnsafeURL = errors.New("url is not a safe preview target")

// Fetcher retrieves link previews with a bounded timeout and redirect chain.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a preview fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 8 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return errors.New("too many redirects")
				}
				if !validation.IsSafeRemoteHost(req.URL.Hostname()) {
					return ErrUnsafeURL
				}
				return nil
			},
		},
	}
}

// ImageURL fetches rawURL and returns the best candidate image URL, or ""
// when the page has none. Only invalid or unsafe input is an error; fetch
// and parse failures degrade to "no image".
func (f *Fetcher) ImageURL(ctx context.Context, rawURL string) (string, error) {
	if ok, _ := validation.ValidateURL(rawURL); !ok {
		return "", ErrUnsafeURL
	}
	target, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrUnsafeURL
	}
	if !validation.IsSafeRemoteHost(target.Hostname()) {
		return "", ErrUnsafeURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHTMLBytes))
	if err != nil {
		return "", nil
	}

	found := parseMetaImage(string(body))
	if found == "" {
		return "", nil
	}
	return absolutize(found, target), nil
}

// parseMetaImage scans the document for the preferred meta tags and falls
// back to the first <img> tag.
func parseMetaImage(html string) string {
	metaMap := make(map[string]string)
	for _, match := range metaTagPattern.FindAllStringSubmatch(html, -1) {
		key := strings.ToLower(match[1])
		if _, ok := metaMap[key]; !ok && match[2] != "" {
			metaMap[key] = match[2]
		}
	}
	for _, key := range metaKeys {
		if v, ok := metaMap[key]; ok {
			return v
		}
	}
	if match := imgTagPattern.FindStringSubmatch(html); match != nil {
		return match[1]
	}
	return ""
}

func absolutize(src string, base *url.URL) string {
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

package preview

import (
	"context"
	"errors"
	"net/url"
	"testing"
)

func TestParseMetaImage(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"og:image wins",
			`<meta property="og:image" content="https://cdn.example.com/a.jpg">
			 <meta name="twitter:image" content="https://cdn.example.com/b.jpg">`,
			"https://cdn.example.com/a.jpg",
		},
		{
			"twitter fallback",
			`<meta name="twitter:image" content="https://cdn.example.com/b.jpg">`,
			"https://cdn.example.com/b.jpg",
		},
		{
			"content before property",
			`<meta content="https://cdn.example.com/c.jpg" property="og:image">`,
			"",
		},
		{
			"img tag fallback",
			`<p>hi</p><img src="/pics/d.png" alt="">`,
			"/pics/d.png",
		},
		{
			"case-insensitive key",
			`<meta property="OG:IMAGE" content="https://cdn.example.com/e.jpg">`,
			"https://cdn.example.com/e.jpg",
		},
		{"nothing", `<p>plain page</p>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseMetaImage(tt.html); got != tt.want {
				t.Errorf("parseMetaImage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAbsolutize(t *testing.T) {
	base, _ := url.Parse("https://shop.example.com/products/42")

	tests := []struct {
		src  string
		want string
	}{
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"/pics/a.jpg", "https://shop.example.com/pics/a.jpg"},
		{"a.jpg", "https://shop.example.com/products/a.jpg"},
		{"//cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
	}
	for _, tt := range tests {
		if got := absolutize(tt.src, base); got != tt.want {
			t.Errorf("absolutize(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestImageURLRejectsUnsafeTargets(t *testing.T) {
	f := NewFetcher()
	ctx := context.Background()

	for _, raw := range []string{
		"javascript:alert(1)",
		"ftp://example.com/x",
		"http://127.0.0.1/admin",
		"http://10.0.0.8/internal",
		"",
	} {
		if _, err := f.ImageURL(ctx, raw); !errors.Is(err, ErrUnsafeURL) {
			t.Errorf("ImageURL(%q): expected ErrUnsafeURL, got %v", raw, err)
		}
	}
}

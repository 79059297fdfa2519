package staging

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"https://staging-redwood.example.com/", "redwood"},
		{"https://staging-pine.docs.example.com/en/get-started", "pine"},
		{"staging-spruce.", "spruce"},
		{"https://staging-unknown.example.com/", ""},
		{"https://staging-redwood", ""},
		{"https://docs.example.com/", ""},
		{"https://staging-.example.com/", ""},
		{"https://staging-red-wood.example.com/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Resolve(tt.header); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestResolveEveryKnownName(t *testing.T) {
	for _, name := range Names() {
		header := "https://staging-" + name + ".example.com/"
		if got := Resolve(header); got != name {
			t.Errorf("Resolve(%q) = %q, want %q", header, got, name)
		}
	}
	if len(Names()) != 12 {
		t.Errorf("expected 12 staging names, got %d", len(Names()))
	}
}

func TestFromRequest(t *testing.T) {
	if got := FromRequest(nil, ""); got != "" {
		t.Errorf("FromRequest(nil) = %q, want empty", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := FromRequest(req, ""); got != "" {
		t.Errorf("FromRequest without header = %q, want empty", got)
	}

	req.Header.Set(DefaultHeader, "https://staging-cedar.example.com/")
	if got := FromRequest(req, ""); got != "cedar" {
		t.Errorf("FromRequest = %q, want cedar", got)
	}

	req.Header.Set("X-Forwarded-Host", "staging-holly.example.com")
	if got := FromRequest(req, "X-Forwarded-Host"); got != "holly" {
		t.Errorf("FromRequest custom header = %q, want holly", got)
	}
}

func TestFaviconHref(t *testing.T) {
	if got := FaviconHref(""); got != "/assets/cb-345/images/site/favicon.png" {
		t.Errorf("FaviconHref(\"\") = %q", got)
	}
	if got := FaviconHref("pine"); got != "/assets/cb-345/images/site/evergreens/pine.png" {
		t.Errorf("FaviconHref(pine) = %q", got)
	}
	if got := FaviconHref("../../etc/passwd"); got != DefaultFavicon {
		t.Errorf("FaviconHref with unknown name = %q, want default", got)
	}
}

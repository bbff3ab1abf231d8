package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/jonesrussell/north-cloud/thumbnailer/internal/domain"
)

func TestSearchHit_ImageURL(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantURL string
		wantOK  bool
	}{
		{
			name:    "single string",
			doc:     `{"_source":{"object":"https://example.com/img.jpg"}}`,
			wantURL: "https://example.com/img.jpg",
			wantOK:  true,
		},
		{
			name:    "list takes first element",
			doc:     `{"_source":{"object":["https://example.com/a.jpg","https://example.com/b.jpg"]}}`,
			wantURL: "https://example.com/a.jpg",
			wantOK:  true,
		},
		{
			name: "invalid URL in list",
			doc:  `{"_source":{"object":["blah:hole"]}}`,
		},
		{
			name: "invalid URL as string",
			doc:  `{"_source":{"object":"blah:hole"}}`,
		},
		{
			name: "empty document",
			doc:  `{}`,
		},
		{
			name: "source without object field",
			doc:  `{"_source":{"foo":["bar"]}}`,
		},
		{
			name: "object explicitly null",
			doc:  `{"_source":{"object":null}}`,
		},
		{
			name: "object is empty list",
			doc:  `{"_source":{"object":[]}}`,
		},
		{
			name: "object is a number",
			doc:  `{"_source":{"object":42}}`,
		},
		{
			name: "object is a nested structure",
			doc:  `{"_source":{"object":{"url":"https://example.com"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hit domain.SearchHit
			if err := json.Unmarshal([]byte(tt.doc), &hit); err != nil {
				t.Fatalf("unmarshal test document: %v", err)
			}

			url, ok := hit.ImageURL()
			if ok != tt.wantOK {
				t.Fatalf("ImageURL() ok = %v, want %v", ok, tt.wantOK)
			}
			if url != tt.wantURL {
				t.Errorf("ImageURL() = %q, want %q", url, tt.wantURL)
			}
		})
	}
}

func TestSearchHit_ImageURL_NilReceiver(t *testing.T) {
	var hit *domain.SearchHit
	if _, ok := hit.ImageURL(); ok {
		t.Error("ImageURL() on nil hit should be a negative result")
	}
}

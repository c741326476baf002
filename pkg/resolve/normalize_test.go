package resolve

import (
	"errors"
	"testing"

	"github.com/clipx/clipx-resolver/pkg/ytdlp"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		doc  *ytdlp.Document
		want Kind
	}{
		{
			name: "playlist with entries",
			doc: &ytdlp.Document{
				Type:    "playlist",
				Entries: []*ytdlp.Document{{URL: "https://x/a.mp4"}},
			},
			want: KindPlaylist,
		},
		{
			name: "playlist marker but no entries",
			doc:  &ytdlp.Document{Type: "playlist"},
			want: KindFormatList,
		},
		{
			name: "single item with direct URL",
			doc:  &ytdlp.Document{URL: "https://x/a.mp4"},
			want: KindSingle,
		},
		{
			name: "format list",
			doc: &ytdlp.Document{
				Formats: []ytdlp.Format{{URL: "https://x/f.mp4"}},
			},
			want: KindFormatList,
		},
		{
			name: "empty document",
			doc:  &ytdlp.Document{},
			want: KindFormatList,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.doc); got != tt.want {
				t.Errorf("classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize_PlaylistFirstNonNullEntry(t *testing.T) {
	doc := &ytdlp.Document{
		Type: "playlist",
		Entries: []*ytdlp.Document{
			nil,
			{URL: "https://x/a.mp4", Title: "A"},
			{URL: "https://x/b.mp4"},
		},
	}

	item, err := Normalize(doc)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if item.Title != "A" {
		t.Errorf("Title = %q, want %q (first non-null entry)", item.Title, "A")
	}
	if item.DirectURL != "https://x/a.mp4" {
		t.Errorf("DirectURL = %q, want %q", item.DirectURL, "https://x/a.mp4")
	}
}

func TestNormalize_EmptyResult(t *testing.T) {
	tests := []struct {
		name string
		doc  *ytdlp.Document
	}{
		{
			name: "nil document",
			doc:  nil,
		},
		{
			name: "empty playlist and no formats",
			doc: &ytdlp.Document{
				Entries: []*ytdlp.Document{},
				Formats: []ytdlp.Format{},
			},
		},
		{
			name: "playlist of only null entries",
			doc: &ytdlp.Document{
				Type:    "playlist",
				Entries: []*ytdlp.Document{nil, nil},
			},
		},
		{
			name: "no URL and no formats",
			doc:  &ytdlp.Document{Title: "metadata only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.doc)
			if err == nil {
				t.Fatal("Expected error")
			}

			var rerr *Error
			if !errors.As(err, &rerr) {
				t.Fatalf("Expected *Error, got %T: %v", err, err)
			}
			if rerr.Category != CategoryEmptyResult {
				t.Errorf("Category = %s, want %s", rerr.Category, CategoryEmptyResult)
			}
		})
	}
}

func TestNormalize_FormatListPassthrough(t *testing.T) {
	doc := &ytdlp.Document{
		Title: "Clip",
		Formats: []ytdlp.Format{
			{FormatID: "18", URL: "https://x/18.mp4"},
			{FormatID: "22", URL: "https://x/22.mp4"},
		},
	}

	item, err := Normalize(doc)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if item.DirectURL != "" {
		t.Errorf("DirectURL = %q, want empty", item.DirectURL)
	}
	if len(item.Formats) != 2 {
		t.Errorf("len(Formats) = %d, want 2", len(item.Formats))
	}
}

func TestNormalize_OptionalFieldsNotFabricated(t *testing.T) {
	doc := &ytdlp.Document{URL: "https://x/a.mp4"}

	item, err := Normalize(doc)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if item.Title != "" || item.Thumbnail != "" || item.Ext != "" {
		t.Error("Expected absent descriptive fields to stay empty")
	}
	if item.Duration != nil {
		t.Errorf("Duration = %v, want nil", item.Duration)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSingle, "single"},
		{KindPlaylist, "playlist"},
		{KindFormatList, "format_list"},
		{Kind(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

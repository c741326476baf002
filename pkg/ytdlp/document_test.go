package ytdlp

import (
	"encoding/json"
	"testing"
)

func TestDocument_UnmarshalPlaylist(t *testing.T) {
	raw := `{
		"_type": "playlist",
		"title": "Mixed Playlist",
		"entries": [
			null,
			{"url": "https://x/a.mp4", "title": "A"},
			{"url": "https://x/b.mp4"}
		]
	}`

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if doc.Type != "playlist" {
		t.Errorf("Type = %q, want %q", doc.Type, "playlist")
	}
	if len(doc.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(doc.Entries))
	}
	if doc.Entries[0] != nil {
		t.Error("Expected first entry to decode as nil")
	}
	if doc.Entries[1] == nil || doc.Entries[1].Title != "A" {
		t.Error("Expected second entry with title A")
	}
}

func TestFormat_Codecs(t *testing.T) {
	tests := []struct {
		name      string
		format    Format
		wantVideo bool
		wantAudio bool
	}{
		{
			name:      "progressive",
			format:    Format{VCodec: "avc1.64001F", ACodec: "mp4a.40.2"},
			wantVideo: true,
			wantAudio: true,
		},
		{
			name:      "video only",
			format:    Format{VCodec: "vp9", ACodec: "none"},
			wantVideo: true,
			wantAudio: false,
		},
		{
			name:      "audio only",
			format:    Format{VCodec: "none", ACodec: "opus"},
			wantVideo: false,
			wantAudio: true,
		},
		{
			name:      "codecs absent",
			format:    Format{},
			wantVideo: false,
			wantAudio: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.HasVideo(); got != tt.wantVideo {
				t.Errorf("HasVideo() = %v, want %v", got, tt.wantVideo)
			}
			if got := tt.format.HasAudio(); got != tt.wantAudio {
				t.Errorf("HasAudio() = %v, want %v", got, tt.wantAudio)
			}
		})
	}
}

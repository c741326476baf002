package resolve

import (
	"github.com/clipx/clipx-resolver/pkg/ytdlp"
)

// Kind tags the shape of a raw extractor document.
type Kind int

const (
	// KindSingle is an item that already names one direct URL.
	KindSingle Kind = iota

	// KindPlaylist is a multi-entry wrapper.
	KindPlaylist

	// KindFormatList is an item whose streams live in its format list.
	KindFormatList
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindPlaylist:
		return "playlist"
	case KindFormatList:
		return "format_list"
	default:
		return "unknown"
	}
}

// classify tags a document once, up front, so later steps never probe
// field presence ad hoc.
func classify(doc *ytdlp.Document) Kind {
	switch {
	case doc.Type == "playlist" && len(doc.Entries) > 0:
		return KindPlaylist
	case doc.URL != "":
		return KindSingle
	default:
		return KindFormatList
	}
}

// Item is the normalized single-item metadata. After normalization this
// never represents a playlist: it is always exactly one resolvable item.
// Descriptive fields are optional; empty means the extractor omitted them.
type Item struct {
	// DirectURL is set when the item itself names a playable URL.
	DirectURL string

	Title      string
	Thumbnail  string
	Duration   *float64
	WebpageURL string
	Ext        string

	// HTTPHeaders to replay when fetching the stream.
	HTTPHeaders map[string]string

	// Formats are the candidate streams when DirectURL is empty.
	Formats []ytdlp.Format
}

// Normalize unwraps playlist shapes into a single representative item.
// Playlists collapse to their first non-null entry; a document with
// neither a direct URL nor any formats fails with CategoryEmptyResult.
// Missing descriptive fields are passed through, never fabricated.
func Normalize(doc *ytdlp.Document) (*Item, error) {
	if doc == nil {
		return nil, newError(CategoryEmptyResult, "extractor returned no document", nil)
	}

	if classify(doc) == KindPlaylist {
		var picked *ytdlp.Document
		for _, entry := range doc.Entries {
			if entry != nil {
				picked = entry
				break
			}
		}
		if picked == nil {
			return nil, newError(CategoryEmptyResult, "playlist has no usable entries", nil)
		}
		doc = picked
	}

	if doc.URL == "" && len(doc.Formats) == 0 {
		return nil, newError(CategoryEmptyResult, "document has no direct URL and no formats", nil)
	}

	return &Item{
		DirectURL:   doc.URL,
		Title:       doc.Title,
		Thumbnail:   doc.Thumbnail,
		Duration:    doc.Duration,
		WebpageURL:  doc.WebpageURL,
		Ext:         doc.Ext,
		HTTPHeaders: doc.HTTPHeaders,
		Formats:     doc.Formats,
	}, nil
}

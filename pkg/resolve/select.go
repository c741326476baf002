package resolve

import (
	"sort"
	"strings"

	"github.com/clipx/clipx-resolver/pkg/ytdlp"
)

// Choice is the selected playable stream for an item.
type Choice struct {
	// URL is the direct media URL.
	URL string

	// Format is the winning candidate, nil on the single-URL fast path.
	Format *ytdlp.Format
}

// SelectFormat deterministically picks the best playable stream.
//
// Policy, first matching rule wins:
//  1. An item-level direct URL is used as-is.
//  2. Candidates without a direct URL are dropped; nothing left fails
//     with CategoryNoPlayableFormat.
//  3. Remaining candidates are ranked: apparent non-watermarked streams
//     first, then mp4 containers, then progressive (video+audio)
//     streams, then higher bitrate. Ties keep original list order.
//
// Pure function: same input always yields the same choice.
func SelectFormat(item *Item) (Choice, error) {
	if item.DirectURL != "" {
		return Choice{URL: item.DirectURL}, nil
	}

	candidates := make([]ytdlp.Format, 0, len(item.Formats))
	for _, f := range item.Formats {
		if f.URL != "" {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return Choice{}, newError(CategoryNoPlayableFormat, "no candidate stream has a direct URL", nil)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return rankLess(candidates[i], candidates[j])
	})

	best := candidates[0]
	return Choice{URL: best.URL, Format: &best}, nil
}

// rankLess orders candidates by the composite ranking key, best first.
func rankLess(a, b ytdlp.Format) bool {
	if wa, wb := watermarkRank(a.URL), watermarkRank(b.URL); wa != wb {
		return wa < wb
	}
	if ca, cb := containerRank(a.Ext), containerRank(b.Ext); ca != cb {
		return ca < cb
	}
	if pa, pb := progressiveRank(a), progressiveRank(b); pa != pb {
		return pa < pb
	}
	return a.TBR > b.TBR
}

// Watermark tokens seen in stream URLs. A clean token wins over a
// watermark token when both appear.
var (
	watermarkTokens   = []string{"watermark", "playwm"}
	noWatermarkTokens = []string{"no-watermark", "no_watermark", "nowatermark", "nwm"}
)

// watermarkRank is 0 for apparently clean streams, 1 for watermarked.
func watermarkRank(rawURL string) int {
	u := strings.ToLower(rawURL)
	for _, token := range noWatermarkTokens {
		if strings.Contains(u, token) {
			return 0
		}
	}
	for _, token := range watermarkTokens {
		if strings.Contains(u, token) {
			return 1
		}
	}
	return 0
}

// containerRank prefers mp4 containers.
func containerRank(ext string) int {
	if strings.EqualFold(ext, "mp4") {
		return 0
	}
	return 1
}

// progressiveRank prefers single-file streams carrying both codecs.
func progressiveRank(f ytdlp.Format) int {
	if f.HasVideo() && f.HasAudio() {
		return 0
	}
	return 1
}

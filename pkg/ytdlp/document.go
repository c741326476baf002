package ytdlp

// Document is the raw metadata document emitted by yt-dlp for one
// extraction. The same shape covers single items, playlist wrappers and
// playlist entries; no shape validation happens at this layer.
type Document struct {
	// Type is yt-dlp's result type marker ("video", "playlist", ...).
	Type string `json:"_type,omitempty"`

	// URL is the top-level direct media URL, when the item itself
	// already names one playable stream.
	URL string `json:"url,omitempty"`

	Title      string   `json:"title,omitempty"`
	Thumbnail  string   `json:"thumbnail,omitempty"`
	Duration   *float64 `json:"duration,omitempty"`
	WebpageURL string   `json:"webpage_url,omitempty"`
	Ext        string   `json:"ext,omitempty"`

	// HTTPHeaders must be replayed by the caller when fetching URL.
	HTTPHeaders map[string]string `json:"http_headers,omitempty"`

	// Entries is the ordered playlist content. Individual entries can
	// be null when extraction of that entry failed.
	Entries []*Document `json:"entries,omitempty"`

	// Formats are the alternative streams for this item.
	Formats []Format `json:"formats,omitempty"`
}

// Format is one candidate stream for an item.
type Format struct {
	FormatID    string            `json:"format_id,omitempty"`
	URL         string            `json:"url,omitempty"`
	Ext         string            `json:"ext,omitempty"`
	VCodec      string            `json:"vcodec,omitempty"`
	ACodec      string            `json:"acodec,omitempty"`
	TBR         float64           `json:"tbr,omitempty"`
	HTTPHeaders map[string]string `json:"http_headers,omitempty"`
}

// HasVideo reports whether the format carries a video stream.
// yt-dlp uses the literal string "none" for codec-less tracks.
func (f Format) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

// HasAudio reports whether the format carries an audio stream.
func (f Format) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

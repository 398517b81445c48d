package domain

// SlideshowMode selects the playback order of a slideshow.
type SlideshowMode string

const (
	Chronological        SlideshowMode = "chronological"
	Random               SlideshowMode = "random"
	ReverseChronological SlideshowMode = "reverse-chronological"
)

// ParseSlideshowMode maps a raw mode string onto a SlideshowMode. Unknown
// values fall back to Chronological rather than failing; an unrecognized
// order is harmless and ascending is the natural default.
func ParseSlideshowMode(raw string) SlideshowMode {
	switch SlideshowMode(raw) {
	case Chronological, Random, ReverseChronological:
		return SlideshowMode(raw)
	default:
		return Chronological
	}
}

package domain

// StarSlots is the number of glyphs in a star display.
const StarSlots = 5

// Star is the state of a single glyph slot.
type Star int

const (
	StarEmpty Star = iota
	StarHalf
	StarFull
)

// Glyph returns the Material Symbols ligature for the slot.
func (s Star) Glyph() string {
	if s == StarHalf {
		return "star_half"
	}
	return "star"
}

// Filled reports whether the glyph is drawn with the filled style.
func (s Star) Filled() bool {
	return s != StarEmpty
}

func (s Star) String() string {
	switch s {
	case StarHalf:
		return "half"
	case StarFull:
		return "full"
	default:
		return "empty"
	}
}

// StarDisplay is the rendered form of a rating. Rating keeps the numeric value
// the display was derived from so edits can pre-fill it.
type StarDisplay struct {
	Rating int
	Slots  [StarSlots]Star
}

// RenderStars converts a rating into five slots: floor(r/2) full stars, a half
// star when r is odd, and empty slots for the rest. Negative ratings render all
// empty and ratings above MaxRating render all full.
func RenderStars(rating int) StarDisplay {
	display := StarDisplay{Rating: rating}
	remaining := rating
	for i := 0; i < StarSlots; i++ {
		switch {
		case remaining <= 0:
			display.Slots[i] = StarEmpty
		case remaining == 1:
			display.Slots[i] = StarHalf
		default:
			display.Slots[i] = StarFull
		}
		if remaining >= 1 {
			remaining -= 2
		}
	}
	return display
}

// Counts tallies the slots by kind.
func (d StarDisplay) Counts() (full, half, empty int) {
	for _, s := range d.Slots {
		switch s {
		case StarFull:
			full++
		case StarHalf:
			half++
		default:
			empty++
		}
	}
	return full, half, empty
}

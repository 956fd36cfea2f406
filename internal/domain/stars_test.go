package domain

import "testing"

func TestRenderStars(t *testing.T) {
	tests := []struct {
		rating int
		want   [StarSlots]Star
	}{
		{0, [StarSlots]Star{StarEmpty, StarEmpty, StarEmpty, StarEmpty, StarEmpty}},
		{1, [StarSlots]Star{StarHalf, StarEmpty, StarEmpty, StarEmpty, StarEmpty}},
		{2, [StarSlots]Star{StarFull, StarEmpty, StarEmpty, StarEmpty, StarEmpty}},
		{7, [StarSlots]Star{StarFull, StarFull, StarFull, StarHalf, StarEmpty}},
		{9, [StarSlots]Star{StarFull, StarFull, StarFull, StarFull, StarHalf}},
		{10, [StarSlots]Star{StarFull, StarFull, StarFull, StarFull, StarFull}},
		{-1, [StarSlots]Star{StarEmpty, StarEmpty, StarEmpty, StarEmpty, StarEmpty}},
		{-30, [StarSlots]Star{StarEmpty, StarEmpty, StarEmpty, StarEmpty, StarEmpty}},
		{11, [StarSlots]Star{StarFull, StarFull, StarFull, StarFull, StarFull}},
		{1000, [StarSlots]Star{StarFull, StarFull, StarFull, StarFull, StarFull}},
	}
	for _, tt := range tests {
		got := RenderStars(tt.rating)
		if got.Slots != tt.want {
			t.Fatalf("RenderStars(%d) = %v, want %v", tt.rating, got.Slots, tt.want)
		}
		if got.Rating != tt.rating {
			t.Fatalf("RenderStars(%d).Rating = %d", tt.rating, got.Rating)
		}
	}
}

func TestRenderStarsCountsInRange(t *testing.T) {
	for r := MinRating; r <= MaxRating; r++ {
		full, half, empty := RenderStars(r).Counts()
		wantHalf := r % 2
		if full != r/2 || half != wantHalf || empty != StarSlots-r/2-wantHalf {
			t.Fatalf("rating %d: full=%d half=%d empty=%d", r, full, half, empty)
		}
		if RenderStars(r) != RenderStars(r) {
			t.Fatalf("rating %d: rendering not deterministic", r)
		}
	}
}

func TestStarGlyph(t *testing.T) {
	if StarHalf.Glyph() != "star_half" || StarFull.Glyph() != "star" || StarEmpty.Glyph() != "star" {
		t.Fatalf("unexpected glyphs")
	}
	if StarEmpty.Filled() || !StarHalf.Filled() || !StarFull.Filled() {
		t.Fatalf("unexpected fill styles")
	}
}

func FuzzRenderStars(f *testing.F) {
	for _, seed := range []int{-1, 0, 1, 7, 10, 11} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, rating int) {
		full, half, empty := RenderStars(rating).Counts()
		if full+half+empty != StarSlots {
			t.Fatalf("rating %d produced %d slots", rating, full+half+empty)
		}
		if half > 1 {
			t.Fatalf("rating %d produced %d half stars", rating, half)
		}
	})
}

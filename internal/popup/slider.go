package popup

import "time"

// Carousel behavior shared with the client script.
const (
	AutoplayInterval = 5 * time.Second
	SwipeThreshold   = 50 // px
)

// Slider tracks the visible slide of a carousel popup. Navigation wraps.
type Slider struct {
	Count int
	Index int
}

// NewSlider starts at the first of n slides.
func NewSlider(n int) Slider { return Slider{Count: n} }

// GoTo moves to slide i, wrapping below zero to the last slide and past the
// end to the first.
func (s *Slider) GoTo(i int) {
	if s.Count <= 0 {
		s.Index = 0
		return
	}
	switch {
	case i < 0:
		i = s.Count - 1
	case i >= s.Count:
		i = 0
	}
	s.Index = i
}

// Next advances one slide.
func (s *Slider) Next() { s.GoTo(s.Index + 1) }

// Prev goes back one slide.
func (s *Slider) Prev() { s.GoTo(s.Index - 1) }

// Swipe applies a horizontal drag of dx pixels (start minus end). Drags at
// or under the threshold are ignored.
func (s *Slider) Swipe(dx int) {
	switch {
	case dx > SwipeThreshold:
		s.Next()
	case dx < -SwipeThreshold:
		s.Prev()
	}
}

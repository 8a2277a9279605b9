package popup

import "time"

// State is the queue's position in the popup lifecycle.
type State int

const (
	Idle State = iota
	Showing
	Hidden
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Showing:
		return "showing"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Queue walks the eligible popups one at a time.
type Queue struct {
	popups []Popup
	index  int
	state  State

	// order is every popup live today before dismissals, used to locate the
	// successor of a popup that is no longer queued.
	order []Popup
}

// Load replaces the queue contents and shows the first popup, if any.
func (q *Queue) Load(popups []Popup) {
	q.popups = append([]Popup(nil), popups...)
	q.index = 0
	q.state = Showing
	if len(q.popups) == 0 {
		q.state = Hidden
	}
}

// State returns the current lifecycle state.
func (q *Queue) State() State { return q.state }

// Index is the position of the popup on screen.
func (q *Queue) Index() int { return q.index }

// Len is the number of queued popups.
func (q *Queue) Len() int { return len(q.popups) }

// Current returns the popup on screen.
func (q *Queue) Current() (Popup, bool) {
	if q.state != Showing {
		return Popup{}, false
	}
	return q.popups[q.index], true
}

// Seek jumps to index i. An out-of-range index hides the queue.
func (q *Queue) Seek(i int) {
	if q.state == Idle {
		return
	}
	if i < 0 || i >= len(q.popups) {
		q.index = len(q.popups)
		q.state = Hidden
		return
	}
	q.index = i
	q.state = Showing
}

// Close dismisses the current popup and advances.
func (q *Queue) Close() {
	if q.state != Showing {
		return
	}
	q.Seek(q.index + 1)
}

// HideToday records a dismissal for the current popup, then advances.
func (q *Queue) HideToday(store DismissalStore, at time.Time) {
	p, ok := q.Current()
	if !ok {
		return
	}
	if store != nil {
		store.Hide(p.ID, at)
	}
	q.Close()
}

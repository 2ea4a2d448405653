// state.go
package frame

type State int

const (
	Idle State = iota
	Acquiring
	Recording
	Submitted
	Presented
	Stale
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Acquiring:
		return "acquiring"
	case Recording:
		return "recording"
	case Submitted:
		return "submitted"
	case Presented:
		return "presented"
	case Stale:
		return "stale"
	}
	return "unknown"
}

// resting reports whether a new frame may begin from s.
func (s State) resting() bool {
	return s == Idle || s == Presented || s == Stale
}

package autodiff

// Pass identifies one of the three graph passes.
type Pass uint8

const (
	PassValue Pass = iota
	PassForward
	PassBackward
)

// String implements fmt.Stringer.
func (p Pass) String() string {
	switch p {
	case PassValue:
		return "value"
	case PassForward:
		return "forward"
	case PassBackward:
		return "backward"
	}
	return "unknown"
}

// Visit is one node visit recorded by a Trace.
type Visit struct {
	Pass Pass
	Node NodeID
}

// Trace records the order in which passes visit nodes.
//
// Usage:
//
//	trace := g.Trace()
//	trace.StartRecording()
//	f.Backward()
//	order := trace.Order(autodiff.PassBackward)
type Trace struct {
	visits    []Visit // Recorded visits, in visit order.
	recording bool    // Whether the trace is currently recording.
}

// NewTrace creates a new, stopped trace.
func NewTrace() *Trace {
	return &Trace{}
}

// StartRecording enables visit recording.
func (t *Trace) StartRecording() {
	t.recording = true
}

// StopRecording disables visit recording.
func (t *Trace) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the trace is currently recording visits.
func (t *Trace) IsRecording() bool {
	return t.recording
}

// Record adds a visit. Only records if the trace is currently recording.
func (t *Trace) Record(pass Pass, id NodeID) {
	if t.recording {
		t.visits = append(t.visits, Visit{Pass: pass, Node: id})
	}
}

// Clear removes all recorded visits. Recording state is preserved.
func (t *Trace) Clear() {
	t.visits = t.visits[:0]
}

// NumVisits returns the number of recorded visits.
func (t *Trace) NumVisits() int {
	return len(t.visits)
}

// Visits returns a copy of all recorded visits.
func (t *Trace) Visits() []Visit {
	out := make([]Visit, len(t.visits))
	copy(out, t.visits)
	return out
}

// Order returns the nodes visited by the given pass, in visit order. Repeated
// passes are concatenated.
func (t *Trace) Order(pass Pass) []NodeID {
	var order []NodeID
	for _, v := range t.visits {
		if v.Pass == pass {
			order = append(order, v.Node)
		}
	}
	return order
}

package scanline

// SequenceFrame is one picture frame: a tile or sprite index shown for Delay
// time units.
type SequenceFrame struct {
	Index int
	Delay int
}

// ColorStrip rotates Count palette entries starting at First by one step
// every Delay time units. Reverse rotates towards lower indices.
type ColorStrip struct {
	First, Count int
	Delay        int
	Reverse      bool
}

type sequenceData struct {
	name   string
	target int
	frames []SequenceFrame
	strips []ColorStrip
}

func (s *sequenceData) isCycle() bool { return s.strips != nil }

// length is the number of positions the sequence steps through: frames for
// picture sequences, the first strip's color count for cycles.
func (s *sequenceData) length() int {
	if s.isCycle() {
		return s.strips[0].Count
	}
	return len(s.frames)
}

// CreateSequence builds a picture sequence. target is the tileset entry that
// a tileset animation replaces; it is ignored for tilemap and sprite
// animations.
func (e *Engine) CreateSequence(name string, target int, frames []SequenceFrame) (Sequence, error) {
	const op = "CreateSequence"
	if len(frames) == 0 {
		return 0, e.fail(op, ErrNullPointer)
	}
	for _, f := range frames {
		if f.Delay <= 0 || f.Index < 0 {
			return 0, e.fail(op, ErrWrongFormat)
		}
	}
	return e.addSequence(op, &sequenceData{
		name:   name,
		target: target,
		frames: append([]SequenceFrame(nil), frames...),
	})
}

// CreateCycle builds a palette color-cycle sequence from one or more strips.
func (e *Engine) CreateCycle(name string, strips []ColorStrip) (Sequence, error) {
	const op = "CreateCycle"
	if len(strips) == 0 {
		return 0, e.fail(op, ErrNullPointer)
	}
	for _, s := range strips {
		if s.Delay <= 0 || s.Count <= 0 || s.First < 0 {
			return 0, e.fail(op, ErrWrongFormat)
		}
	}
	return e.addSequence(op, &sequenceData{
		name:   name,
		strips: append([]ColorStrip(nil), strips...),
	})
}

func (e *Engine) addSequence(op string, sd *sequenceData) (Sequence, error) {
	h := e.sequences.add(sd)
	if h == 0 {
		return 0, e.fail(op, ErrOutOfMemory)
	}
	return Sequence(h), e.ok()
}

func (e *Engine) sequence(op string, s Sequence) (*sequenceData, error) {
	sd := e.sequences.get(uint32(s))
	if sd == nil {
		return nil, e.fail(op, ErrRefSequence)
	}
	return sd, nil
}

// SequenceInfo describes a sequence.
type SequenceInfo struct {
	Name   string
	Target int
	Frames int // picture frames, or color strips for a cycle
	Cycle  bool
}

// SequenceInfo returns the name and shape of s.
func (e *Engine) SequenceInfo(s Sequence) (SequenceInfo, error) {
	sd, err := e.sequence("SequenceInfo", s)
	if err != nil {
		return SequenceInfo{}, err
	}
	n := len(sd.frames)
	if sd.isCycle() {
		n = len(sd.strips)
	}
	return SequenceInfo{Name: sd.name, Target: sd.target, Frames: n, Cycle: sd.isCycle()}, e.ok()
}

// CloneSequence returns an independent copy of s under the same name.
func (e *Engine) CloneSequence(s Sequence) (Sequence, error) {
	sd, err := e.sequence("CloneSequence", s)
	if err != nil {
		return 0, err
	}
	c := &sequenceData{name: sd.name, target: sd.target}
	if sd.frames != nil {
		c.frames = append([]SequenceFrame(nil), sd.frames...)
	}
	if sd.strips != nil {
		c.strips = append([]ColorStrip(nil), sd.strips...)
	}
	return e.addSequence("CloneSequence", c)
}

// DeleteSequence frees s. It fails with ErrResourceInUse while an animation
// slot or a sequence pack references it.
func (e *Engine) DeleteSequence(s Sequence) error {
	const op = "DeleteSequence"
	if _, err := e.sequence(op, s); err != nil {
		return err
	}
	if e.sequences.refs(uint32(s)) > 0 {
		return e.fail(op, ErrResourceInUse)
	}
	e.sequences.remove(uint32(s))
	return e.ok()
}

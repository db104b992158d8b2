package scanline

type packData struct {
	seqs  []Sequence
	owned []bool // created by LoadSequencePack; freed with the pack
}

// CreateSequencePack allocates an empty sequence pack.
func (e *Engine) CreateSequencePack() (SequencePack, error) {
	return e.addPack("CreateSequencePack", &packData{})
}

func (e *Engine) addPack(op string, pd *packData) (SequencePack, error) {
	h := e.packs.add(pd)
	if h == 0 {
		return 0, e.fail(op, ErrOutOfMemory)
	}
	return SequencePack(h), e.ok()
}

func (e *Engine) pack(op string, sp SequencePack) (*packData, error) {
	pd := e.packs.get(uint32(sp))
	if pd == nil {
		return nil, e.fail(op, ErrRefSequencePack)
	}
	return pd, nil
}

// AddSequenceToPack appends s to sp. The pack keeps a reference, so s cannot
// be deleted while it is a member.
func (e *Engine) AddSequenceToPack(sp SequencePack, s Sequence) error {
	return e.addToPack("AddSequenceToPack", sp, s, false)
}

func (e *Engine) addToPack(op string, sp SequencePack, s Sequence, owned bool) error {
	pd, err := e.pack(op, sp)
	if err != nil {
		return err
	}
	if _, err := e.sequence(op, s); err != nil {
		return err
	}
	e.sequences.retain(uint32(s))
	pd.seqs = append(pd.seqs, s)
	pd.owned = append(pd.owned, owned)
	return e.ok()
}

// FindSequence returns the first member of sp named name.
func (e *Engine) FindSequence(sp SequencePack, name string) (Sequence, error) {
	const op = "FindSequence"
	pd, err := e.pack(op, sp)
	if err != nil {
		return 0, err
	}
	for _, s := range pd.seqs {
		if sd := e.sequences.get(uint32(s)); sd != nil && sd.name == name {
			return s, e.ok()
		}
	}
	return 0, e.fail(op, ErrFileNotFound)
}

// SequencePackCount returns the number of sequences in sp.
func (e *Engine) SequencePackCount(sp SequencePack) int {
	pd, err := e.pack("SequencePackCount", sp)
	if err != nil {
		return 0
	}
	e.ok()
	return len(pd.seqs)
}

// SequenceAt returns the member of sp at index.
func (e *Engine) SequenceAt(sp SequencePack, index int) (Sequence, error) {
	const op = "SequenceAt"
	pd, err := e.pack(op, sp)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(pd.seqs) {
		return 0, e.fail(op, ErrIdxPicture)
	}
	return pd.seqs[index], e.ok()
}

// DeleteSequencePack frees sp and releases its members. Members loaded with
// the pack are deleted too unless an animation slot still uses them.
func (e *Engine) DeleteSequencePack(sp SequencePack) error {
	const op = "DeleteSequencePack"
	pd, err := e.pack(op, sp)
	if err != nil {
		return err
	}
	for i, s := range pd.seqs {
		e.sequences.release(uint32(s))
		if pd.owned[i] && e.sequences.refs(uint32(s)) == 0 {
			e.sequences.remove(uint32(s))
		}
	}
	e.packs.remove(uint32(sp))
	return e.ok()
}

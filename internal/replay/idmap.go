package replay

import "fmt"

// IDMap is the bidirectional association between LOBSTER order ids and the
// engine's own ids. Both directions live behind one type so they cannot
// drift apart; Validate proves they still mirror each other exactly.
type IDMap struct {
	toInternal map[int64]uint64
	toExternal map[uint64]int64
}

func NewIDMap() *IDMap {
	return &IDMap{
		toInternal: make(map[int64]uint64),
		toExternal: make(map[uint64]int64),
	}
}

// Bind associates an external id with an internal one, replacing any
// earlier binding of either id.
func (m *IDMap) Bind(external int64, internal uint64) {
	if old, ok := m.toInternal[external]; ok {
		delete(m.toExternal, old)
	}
	if old, ok := m.toExternal[internal]; ok {
		delete(m.toInternal, old)
	}
	m.toInternal[external] = internal
	m.toExternal[internal] = external
}

// Internal resolves an external id.
func (m *IDMap) Internal(external int64) (uint64, bool) {
	id, ok := m.toInternal[external]
	return id, ok
}

// External resolves an internal id.
func (m *IDMap) External(internal uint64) (int64, bool) {
	id, ok := m.toExternal[internal]
	return id, ok
}

// Unbind removes the association for an external id, if any.
func (m *IDMap) Unbind(external int64) {
	internal, ok := m.toInternal[external]
	if !ok {
		return
	}
	delete(m.toInternal, external)
	delete(m.toExternal, internal)
}

// UnbindInternal removes the association for an internal id, if any.
func (m *IDMap) UnbindInternal(internal uint64) {
	external, ok := m.toExternal[internal]
	if !ok {
		return
	}
	delete(m.toExternal, internal)
	delete(m.toInternal, external)
}

func (m *IDMap) Len() int {
	return len(m.toInternal)
}

// Validate checks that the two directions are exact mirrors. A failure is
// a programming error in the replay layer.
func (m *IDMap) Validate() error {
	if len(m.toInternal) != len(m.toExternal) {
		return fmt.Errorf("id map skew: %d external vs %d internal entries",
			len(m.toInternal), len(m.toExternal))
	}
	for external, internal := range m.toInternal {
		back, ok := m.toExternal[internal]
		if !ok || back != external {
			return fmt.Errorf("id map entry %d->%d has no mirror", external, internal)
		}
	}
	return nil
}

package cpu

// MAX_LABELS is the number of distinct labels a program may use; IDs must
// fit in one byte.
const MAX_LABELS = 256

// LabelTable assigns label IDs in first reference order.
type LabelTable struct {
	names []string
	ids   map[string]uint8
}

// FindOrCreate returns the ID of a label, assigning the next free ID on
// first reference. Once assigned, an ID never changes.
func (lt *LabelTable) FindOrCreate(name string) (id uint8, err error) {
	id, ok := lt.lookup(name)
	if ok {
		return
	}

	if len(lt.names) >= MAX_LABELS {
		err = ErrLabelOverflow
		return
	}

	if lt.ids == nil {
		lt.ids = make(map[string]uint8, 16)
	}

	id = uint8(len(lt.names))
	lt.ids[name] = id
	lt.names = append(lt.names, name)

	return
}

// lookup returns the ID of an already referenced label.
func (lt *LabelTable) lookup(name string) (id uint8, ok bool) {
	id, ok = lt.ids[name]
	return
}

// Names returns the label names, indexed by ID.
func (lt *LabelTable) Names() []string {
	return append([]string(nil), lt.names...)
}

package routing

// Table is a view over an array of call signs stored in an image. Slot i of
// the table is referenced from channels as index i+1; index 0 means the
// table's default call.
type Table struct {
	data   []byte
	offset int
	count  int
}

// NewTable returns a view of count call signs starting at offset.
func NewTable(data []byte, offset, count int) *Table {
	return &Table{data: data, offset: offset, count: count}
}

// Len returns the number of slots.
func (t *Table) Len() int {
	return t.count
}

func (t *Table) slot(i int) []byte {
	start := t.offset + i*Size
	return t.data[start : start+Size]
}

// Get returns slot i.
func (t *Table) Get(i int) Routing {
	return FromBytes(t.slot(i))
}

// Set overwrites slot i.
func (t *Table) Set(i int, r Routing) {
	r.Put(t.slot(i))
}

// Used returns the number of slots that hold a call sign.
func (t *Table) Used() int {
	n := 0
	for i := 0; i < t.count; i++ {
		if t.Get(i) != NotUse {
			n++
		}
	}
	return n
}

// Resolve maps a channel reference back to a call sign.
func (t *Table) Resolve(index int, def Routing) Routing {
	if index <= 0 || index > t.count {
		return def
	}
	return t.Get(index - 1)
}

// Lookup returns the reference for cand, claiming the first free slot when
// the table does not hold it yet. The default call always maps to 0. ok is
// false when the table is full.
func (t *Table) Lookup(cand, def Routing) (index int, ok bool) {
	if cand == def {
		return 0, true
	}
	free := -1
	for i := 0; i < t.count; i++ {
		r := t.Get(i)
		if r == cand {
			return i + 1, true
		}
		if free < 0 && r == NotUse {
			free = i
		}
	}
	if free < 0 {
		return 0, false
	}
	t.Set(free, cand)
	return free + 1, true
}

package matrix

// Record is an insertion-ordered field map for one subject. The order fields
// are first written in determines the output column order, which is fixed by
// the first subject processed.
type Record struct {
	keys []string
	vals map[string]string
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{vals: make(map[string]string)}
}

// Set writes a field, preserving first-write ordering. Later writes to the
// same field overwrite the value without moving it.
func (r *Record) Set(key, value string) {
	if _, ok := r.vals[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.vals[key] = value
}

// Get returns a field value.
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.vals[key]
	return v, ok
}

// Keys returns the field names in first-write order.
func (r *Record) Keys() []string {
	return r.keys
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}

// SubjectTable accumulates the binary and quantitative records of every
// subject in a worksheet, in first-seen Sample_ID order.
type SubjectTable struct {
	order  []string
	binary map[string]*Record
	quant  map[string]*Record
}

// NewSubjectTable creates an empty table.
func NewSubjectTable() *SubjectTable {
	return &SubjectTable{
		binary: make(map[string]*Record),
		quant:  make(map[string]*Record),
	}
}

// Ensure lazily creates the records for a subject. The ordered subject list
// gains the ID exactly once, on first encounter; re-encounters keep the
// existing records so later rows can amend earlier fields.
func (t *SubjectTable) Ensure(sampleID string) {
	if _, ok := t.binary[sampleID]; !ok {
		t.binary[sampleID] = NewRecord()
		t.quant[sampleID] = NewRecord()
		t.order = append(t.order, sampleID)
	}
}

// Binary returns the binary record for a subject.
func (t *SubjectTable) Binary(sampleID string) *Record {
	return t.binary[sampleID]
}

// Quantitative returns the quantitative record for a subject.
func (t *SubjectTable) Quantitative(sampleID string) *Record {
	return t.quant[sampleID]
}

// Order returns subject IDs in first-seen order.
func (t *SubjectTable) Order() []string {
	return t.order
}

// Subjects returns the number of distinct subjects.
func (t *SubjectTable) Subjects() int {
	return len(t.order)
}

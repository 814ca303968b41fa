package headers

import (
	"net/textproto"
	"sort"
	"strings"
)

// Field is one header name together with every value received for it.
// A field with Absent set has no name: HTTP/1.x clients use it to carry
// the status line.
type Field struct {
	Name   string
	Absent bool
	Values []string
}

// Joined returns all value fragments concatenated without a separator
func (f Field) Joined() string {
	return strings.Join(f.Values, "")
}

func (f Field) clone() Field {
	values := make([]string, len(f.Values))
	copy(values, f.Values)
	return Field{Name: f.Name, Absent: f.Absent, Values: values}
}

// Snapshot is a read-only capture of response header fields.
// It preserves field order and is safe for concurrent readers; all
// accessors return copies.
type Snapshot struct {
	fields []Field
	index  map[string]int // lowercase name -> first position
}

// NewSnapshot creates a Snapshot from fields, keeping their order.
// The input slice is copied.
func NewSnapshot(fields []Field) *Snapshot {
	s := &Snapshot{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if !f.Absent {
			lowerName := strings.ToLower(f.Name)
			if _, exists := s.index[lowerName]; !exists {
				s.index[lowerName] = len(s.fields)
			}
		}
		s.fields = append(s.fields, f.clone())
	}
	return s
}

// FromMap creates a Snapshot from a header map.
// The empty key stands for the absent (status line) key and is placed
// first; the remaining names are sorted so the order is deterministic.
func FromMap(m map[string][]string) *Snapshot {
	names := make([]string, 0, len(m))
	for name := range m {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	fields := make([]Field, 0, len(m))
	if values, ok := m[""]; ok {
		fields = append(fields, Field{Absent: true, Values: values})
	}
	for _, name := range names {
		fields = append(fields, Field{Name: name, Values: m[name]})
	}
	return NewSnapshot(fields)
}

// Len returns the number of fields
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Fields returns a copy of all fields in order
func (s *Snapshot) Fields() []Field {
	if s == nil {
		return nil
	}
	fields := make([]Field, len(s.fields))
	for i, f := range s.fields {
		fields[i] = f.clone()
	}
	return fields
}

// Get returns the first value of the named field (case-insensitive)
func (s *Snapshot) Get(name string) string {
	values := s.Values(name)
	if len(values) > 0 {
		return values[0]
	}
	return ""
}

// Values returns all values of the named field (case-insensitive)
func (s *Snapshot) Values(name string) []string {
	if s == nil {
		return nil
	}
	i, ok := s.index[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return s.fields[i].clone().Values
}

// Has checks if a named field exists (case-insensitive)
func (s *Snapshot) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[strings.ToLower(name)]
	return ok
}

// StatusLine returns the joined value of the first absent-key field
func (s *Snapshot) StatusLine() (string, bool) {
	if s == nil {
		return "", false
	}
	for _, f := range s.fields {
		if f.Absent {
			return f.Joined(), true
		}
	}
	return "", false
}

// Map returns the fields as a header map, using "" for the absent key
func (s *Snapshot) Map() map[string][]string {
	m := make(map[string][]string, s.Len())
	for _, f := range s.Fields() {
		key := f.Name
		if f.Absent {
			key = ""
		}
		m[key] = append(m[key], f.Values...)
	}
	return m
}

// String renders the snapshot as {name=[v1, v2], ...}
func (s *Snapshot) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range s.Fields() {
		if i > 0 {
			b.WriteString(", ")
		}
		if f.Absent {
			b.WriteString("<absent>")
		} else {
			b.WriteString(f.Name)
		}
		b.WriteString("=[")
		b.WriteString(strings.Join(f.Values, ", "))
		b.WriteByte(']')
	}
	b.WriteByte('}')
	return b.String()
}

// Builder accumulates fields for a Snapshot.
// Repeated names are grouped under the spelling seen first.
type Builder struct {
	// CanonicalKeys rewrites names to canonical MIME form (set-cookie -> Set-Cookie)
	CanonicalKeys bool

	fields []Field
	index  map[string]int
}

// NewBuilder creates an empty Builder
func NewBuilder() *Builder {
	return &Builder{
		index: make(map[string]int),
	}
}

// AddStatusLine adds an absent-key field holding line
func (b *Builder) AddStatusLine(line string) *Builder {
	b.fields = append(b.fields, Field{Absent: true, Values: []string{line}})
	return b
}

// Add appends a value to the named field, creating it if needed
func (b *Builder) Add(name, value string) *Builder {
	if b.CanonicalKeys {
		name = textproto.CanonicalMIMEHeaderKey(name)
	}

	lowerName := strings.ToLower(name)
	if i, exists := b.index[lowerName]; exists {
		b.fields[i].Values = append(b.fields[i].Values, value)
		return b
	}

	b.index[lowerName] = len(b.fields)
	b.fields = append(b.fields, Field{Name: name, Values: []string{value}})
	return b
}

// appendToLast extends the most recent value (obsolete line folding)
func (b *Builder) appendToLast(text string) bool {
	if len(b.fields) == 0 {
		return false
	}
	last := &b.fields[len(b.fields)-1]
	if last.Absent || len(last.Values) == 0 {
		return false
	}
	last.Values[len(last.Values)-1] += " " + text
	return true
}

// Build returns the Snapshot. The Builder may keep being used afterwards.
func (b *Builder) Build() *Snapshot {
	return NewSnapshot(b.fields)
}

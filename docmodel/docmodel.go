// Package docmodel defines the engine's document data model: typed
// field values, fields with storage/indexing flags, and documents built
// from them (spec.md §3).
package docmodel

// Kind is the persistent 1-byte type code for a DocValue. Codes persist
// on disk (catalog.FieldInfo.Kind); a field can never be redefined with
// a different kind (spec.md §3, §4.6 ConflictingFieldKind).
type Kind uint8

// KindText is the only currently-defined value kind. The code space
// reserves 1.. for future scalar kinds, mirroring the original source's
// ValueType enum layout (original_source/src/core/doc.rs).
const KindText Kind = 0

// DocValue is a tagged field value. Text is the only variant today.
type DocValue struct {
	kind Kind
	text string
}

// Text constructs a text DocValue.
func Text(s string) DocValue {
	return DocValue{kind: KindText, text: s}
}

// Kind returns the value's type code.
func (v DocValue) Kind() Kind { return v.kind }

// Bytes returns the raw UTF-8 payload for a text value.
func (v DocValue) Bytes() []byte {
	return []byte(v.text)
}

// String returns the raw text payload.
func (v DocValue) String() string {
	return v.text
}

// FieldFlags is a bitmask of indexing/storage behaviors for a Field.
type FieldFlags uint8

const (
	// NotStored skips stored-value persistence for this field.
	NotStored FieldFlags = 1 << iota
	// Tokenized runs the tokenizer over the value before indexing;
	// without it, the full value is indexed as a single term.
	Tokenized
)

// Has reports whether flags contains all bits of mask.
func (f FieldFlags) Has(mask FieldFlags) bool {
	return f&mask == mask
}

// Field is a named, typed, flagged value within a Document.
type Field struct {
	Name  string
	Value DocValue
	Flags FieldFlags
}

// NewField constructs a Field. Name must be non-empty UTF-8 (spec.md §3);
// callers are expected to uphold this (the writer validates it at push time).
func NewField(name string, value DocValue, flags FieldFlags) Field {
	return Field{Name: name, Value: value, Flags: flags}
}

// Document is an ordered, immutable list of fields. Its id is assigned
// by the writer, not by the Document itself.
type Document struct {
	fields []Field
}

// NewBuilder returns an empty document builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Builder appends fields in insertion order to build an immutable Document.
type Builder struct {
	fields []Field
}

// AddField appends a field to the document under construction.
func (b *Builder) AddField(name string, value DocValue, flags FieldFlags) *Builder {
	b.fields = append(b.fields, NewField(name, value, flags))
	return b
}

// Build returns the immutable Document. The builder must not be reused
// to mutate a document after Build (a fresh slice is copied in).
func (b *Builder) Build() Document {
	fields := make([]Field, len(b.fields))
	copy(fields, b.fields)
	return Document{fields: fields}
}

// Fields returns the document's fields in insertion order.
func (d Document) Fields() []Field {
	return d.fields
}

// Get returns the first field with the given name, if any.
func (d Document) Get(name string) (Field, bool) {
	for _, f := range d.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

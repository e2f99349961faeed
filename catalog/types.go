package catalog

// Kind is the value kind of a field. It selects how filter text is
// interpreted for the field.
type Kind int

const (
	// KindOther fields accept only NULL checks.
	KindOther Kind = iota
	KindString
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindBool
	KindTime
	KindEnum
)

var kindNames = [...]string{
	KindOther:   "other",
	KindString:  "string",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindBool:    "bool",
	KindTime:    "time",
	KindEnum:    "enum",
}

// String returns the kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "other"
	}
	return kindNames[k]
}

// IsInteger reports whether k is one of the integer kinds.
func (k Kind) IsInteger() bool {
	return k == KindInt16 || k == KindInt32 || k == KindInt64
}

// IsFloat reports whether k is one of the floating point kinds.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// IsNumeric reports whether k is an integer or floating point kind.
func (k Kind) IsNumeric() bool {
	return k.IsInteger() || k.IsFloat()
}

// Field describes one filterable field of an entity.
type Field struct {
	// Name is the attribute name used in filter parameters and sort expressions.
	// REQUIRED: MUST be non-empty and unique within an entity.
	Name string

	// Column is the backend column the field maps to.
	// OPTIONAL: Name is used if empty.
	Column string

	// Kind is the value kind used to interpret filter text.
	Kind Kind

	// Global marks the field as eligible for the global filter.
	// Identifier and ignored fields are not eligible but can still be
	// filtered by attribute.
	Global bool

	// LikeOnNumber makes numeric equality filters match the textual form of
	// the number instead ("12" matches 112, 1200, ...).
	LikeOnNumber bool

	// EnumValues lists the constant names of an enum field.
	// Only meaningful for KindEnum.
	EnumValues []string
}

// ColumnName returns the backend column of the field.
func (f Field) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

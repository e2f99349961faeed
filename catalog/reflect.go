package catalog

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// TagName is the struct tag read by FromStruct.
const TagName = "listing"

// Enum is implemented by named types with a closed set of constants.
// Fields of such types are catalogued as KindEnum.
//
// Example:
//
//	type Status string
//
//	func (Status) EnumValues() []string { return []string{"ACTIVE", "BLOCKED"} }
type Enum interface {
	EnumValues() []string
}

var (
	enumType = reflect.TypeOf((*Enum)(nil)).Elem()
	timeType = reflect.TypeOf(time.Time{})
)

// StructOption configures FromStruct.
type StructOption func(*structOptions)

type structOptions struct {
	ignore     map[string]bool
	allColumns bool
}

// IgnoreFields makes the named fields ineligible for the global filter.
// They can still be filtered by attribute.
func IgnoreFields(names ...string) StructOption {
	return func(o *structOptions) {
		for _, n := range names {
			o.ignore[n] = true
		}
	}
}

// AllColumns makes identifier fields eligible for the global filter too.
func AllColumns() StructOption {
	return func(o *structOptions) {
		o.allColumns = true
	}
}

// FromStruct derives field descriptors from the exported fields of a struct
// (or pointer to struct). Embedded structs are flattened.
//
// The `listing` tag controls the result:
//
//	Name   string    `listing:"name"`           // attribute name (default: json name or lowerCamel field name)
//	ID     int64     `listing:",id"`            // identifier, not searched by the global filter
//	Secret string    `listing:"-"`              // not filterable at all
//	Notes  string    `listing:",ignore"`        // not searched by the global filter
//	Zip    int32     `listing:",like"`          // numeric equality becomes a contains match
//	Tags   []string  `listing:",string"`        // collection filtered by its textual form
//	Email  string    `listing:",column=e_mail"` // backend column name
//
// Collections (slices, arrays, maps) are skipped unless tagged "string".
func FromStruct(v any, opts ...StructOption) ([]Field, error) {
	o := &structOptions{ignore: make(map[string]bool)}
	for _, opt := range opts {
		opt(o)
	}

	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("catalog: %v is not a struct type", reflect.TypeOf(v))
	}

	var fields []Field
	collectFields(t, o, &fields)
	return fields, nil
}

func collectFields(t reflect.Type, o *structOptions, fields *[]Field) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := parseTag(sf.Tag.Get(TagName))
		if tag.skip {
			continue
		}

		ft := sf.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		if sf.Anonymous && ft.Kind() == reflect.Struct && ft != timeType && tag.name == "" {
			collectFields(ft, o, fields)
			continue
		}

		name := tag.name
		if name == "" {
			name = jsonName(sf)
		}

		var kind Kind
		var enumValues []string
		switch {
		case tag.asString:
			kind = KindString
		case isCollection(ft):
			continue
		default:
			kind, enumValues = kindOf(ft)
		}

		*fields = append(*fields, Field{
			Name:         name,
			Column:       tag.column,
			Kind:         kind,
			Global:       !o.ignore[name] && !tag.ignore && (!tag.id || o.allColumns),
			LikeOnNumber: tag.like,
			EnumValues:   enumValues,
		})
	}
}

func kindOf(t reflect.Type) (Kind, []string) {
	// an interface type has no constants to list
	if t.Kind() == reflect.Interface {
		return KindOther, nil
	}
	if t.Implements(enumType) {
		return KindEnum, reflect.Zero(t).Interface().(Enum).EnumValues()
	}
	if reflect.PointerTo(t).Implements(enumType) {
		return KindEnum, reflect.New(t).Interface().(Enum).EnumValues()
	}
	if t == timeType {
		return KindTime, nil
	}

	switch t.Kind() {
	case reflect.String:
		return KindString, nil
	case reflect.Int8, reflect.Int16, reflect.Uint8:
		return KindInt16, nil
	case reflect.Int32, reflect.Uint16:
		return KindInt32, nil
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return KindInt64, nil
	case reflect.Float32:
		return KindFloat32, nil
	case reflect.Float64:
		return KindFloat64, nil
	case reflect.Bool:
		return KindBool, nil
	}
	return KindOther, nil
}

func isCollection(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

type fieldTag struct {
	name     string
	column   string
	skip     bool
	id       bool
	ignore   bool
	like     bool
	asString bool
}

func parseTag(tag string) fieldTag {
	if tag == "-" {
		return fieldTag{skip: true}
	}
	parts := strings.Split(tag, ",")
	ft := fieldTag{name: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		switch {
		case p == "id":
			ft.id = true
		case p == "ignore":
			ft.ignore = true
		case p == "like":
			ft.like = true
		case p == "string":
			ft.asString = true
		case strings.HasPrefix(p, "column="):
			ft.column = strings.TrimPrefix(p, "column=")
		}
	}
	return ft
}

// jsonName returns the json tag name of a struct field, or its Go name with
// the first letter lowercased (all-caps names like ID are lowercased entirely).
func jsonName(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("json"); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
			return name
		}
	}
	if strings.ToUpper(sf.Name) == sf.Name {
		return strings.ToLower(sf.Name)
	}
	r, size := utf8.DecodeRuneInString(sf.Name)
	return string(unicode.ToLower(r)) + sf.Name[size:]
}

package toml

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Marshal returns the TOML encoding of a struct (or pointer to one).
//
//   - Unexported fields are skipped
//   - Fields tagged `toml:"-"` are skipped
//   - Fields with `omitempty` are skipped when zero
//   - Keys are sorted alphabetically for deterministic output
//   - Nested structs become [tables], slices of structs become
//     [[arrays of tables]]
func Marshal(v any) ([]byte, error) {
	val := reflect.ValueOf(v)

	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, fmt.Errorf("marshal: cannot marshal nil pointer")
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("marshal: root must be a struct, got %v", val.Kind())
	}

	buf := new(bytes.Buffer)
	enc := &encoder{w: buf}

	if err := enc.encodeTable(val, ""); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

type encoder struct {
	w *bytes.Buffer
}

// encodeTable writes a struct in two passes, scalars before nested
// tables, so every key lands in the table it belongs to
func (e *encoder) encodeTable(rv reflect.Value, prefix string) error {
	keys := e.sortedFieldNames(rv)

	var scalars []string
	var tables []string

	for _, k := range keys {
		fieldVal := e.fieldValue(rv, k)
		if !fieldVal.IsValid() {
			continue
		}
		if e.shouldSkip(rv, k, fieldVal) {
			continue
		}

		if e.isTable(fieldVal) {
			tables = append(tables, k)
		} else {
			scalars = append(scalars, k)
		}
	}

	for _, k := range scalars {
		val := e.fieldValue(rv, k)
		keyName := e.keyName(rv, k)

		if err := e.writeKey(keyName); err != nil {
			return err
		}
		if _, err := e.w.WriteString(" = "); err != nil {
			return err
		}
		if err := e.encodeValue(val); err != nil {
			return fmt.Errorf("key %q: %w", keyName, err)
		}
		e.w.WriteString("\n")
	}

	for _, k := range tables {
		val := e.fieldValue(rv, k)
		keyName := e.keyName(rv, k)

		fullKey := keyName
		if prefix != "" {
			fullKey = prefix + "." + keyName
		}

		switch val.Kind() {
		case reflect.Struct:
			e.w.WriteString("\n")
			e.w.WriteString("[" + fullKey + "]\n")
			if err := e.encodeTable(val, fullKey); err != nil {
				return err
			}

		case reflect.Slice, reflect.Array:
			for i := 0; i < val.Len(); i++ {
				elem := val.Index(i)
				if elem.Kind() == reflect.Ptr {
					if elem.IsNil() {
						continue
					}
					elem = elem.Elem()
				}

				e.w.WriteString("\n")
				e.w.WriteString("[[" + fullKey + "]]\n")
				if err := e.encodeTable(elem, fullKey); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// encodeValue writes a single scalar or inline array
func (e *encoder) encodeValue(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			e.w.WriteString("true")
		} else {
			e.w.WriteString("false")
		}

	case reflect.String:
		e.encodeString(v.String())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.w.WriteString(strconv.FormatInt(v.Int(), 10))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		e.w.WriteString(strconv.FormatUint(v.Uint(), 10))

	case reflect.Float32, reflect.Float64:
		str := strconv.FormatFloat(v.Float(), 'f', -1, 64)
		if !strings.ContainsAny(str, ".eE") {
			str += ".0"
		}
		e.w.WriteString(str)

	case reflect.Slice, reflect.Array:
		e.w.WriteString("[")
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				e.w.WriteString(", ")
			}
			if err := e.encodeValue(v.Index(i)); err != nil {
				return err
			}
		}
		e.w.WriteString("]")

	default:
		return fmt.Errorf("unsupported type: %v", v.Kind())
	}
	return nil
}

// sortedFieldNames returns exported, non-skipped field names sorted
func (e *encoder) sortedFieldNames(rv reflect.Value) []string {
	var keys []string
	typ := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		if field.Tag.Get("toml") == "-" {
			continue
		}
		keys = append(keys, field.Name)
	}
	sort.Strings(keys)
	return keys
}

func (e *encoder) fieldValue(container reflect.Value, name string) reflect.Value {
	val := container.FieldByName(name)
	if val.Kind() == reflect.Ptr && !val.IsNil() {
		val = val.Elem()
	}
	return val
}

// keyName resolves the TOML key for a field, honoring the tag
func (e *encoder) keyName(container reflect.Value, realName string) string {
	field, _ := container.Type().FieldByName(realName)
	tag := field.Tag.Get("toml")
	if tag != "" {
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			return parts[0]
		}
	}
	return realName
}

func (e *encoder) shouldSkip(container reflect.Value, realName string, val reflect.Value) bool {
	if val.Kind() == reflect.Ptr && val.IsNil() {
		return true
	}

	field, _ := container.Type().FieldByName(realName)
	tag := field.Tag.Get("toml")
	if strings.Contains(tag, "omitempty") && isEmptyValue(val) {
		return true
	}

	return false
}

// isTable reports whether a value renders as a [table] or [[array of
// tables]] rather than an inline value
func (e *encoder) isTable(v reflect.Value) bool {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return true
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return false
		}
		elem := v.Index(0)
		if elem.Kind() == reflect.Ptr {
			elem = elem.Elem()
		}
		return elem.Kind() == reflect.Struct
	}
	return false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Ptr:
		return v.IsNil()
	}
	return false
}

func (e *encoder) writeKey(s string) error {
	if isBareKey(s) {
		_, err := e.w.WriteString(s)
		return err
	}
	e.encodeString(s)
	return nil
}

func (e *encoder) encodeString(s string) {
	e.w.WriteString("\"")
	for _, r := range s {
		switch r {
		case '"':
			e.w.WriteString(`\"`)
		case '\\':
			e.w.WriteString(`\\`)
		case '\n':
			e.w.WriteString(`\n`)
		case '\r':
			e.w.WriteString(`\r`)
		case '\t':
			e.w.WriteString(`\t`)
		case '\b':
			e.w.WriteString(`\b`)
		case '\f':
			e.w.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7F {
				e.w.WriteString(fmt.Sprintf(`\u%04X`, r))
			} else {
				e.w.WriteRune(r)
			}
		}
	}
	e.w.WriteString("\"")
}

// isBareKey reports whether a key can be written unquoted. Keys the
// lexer would read back as numbers or booleans must be quoted, since
// the parser rejects those token types as keys.
func isBareKey(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return false
		}
	}

	if s == "true" || s == "false" {
		return false
	}

	c0 := s[0]
	if c0 >= '0' && c0 <= '9' {
		return false
	}
	if c0 == '-' && len(s) > 1 {
		c1 := s[1]
		if c1 >= '0' && c1 <= '9' {
			return false
		}
	}

	return true
}

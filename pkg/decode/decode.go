// Package decode reads API resources field by field, telling apart
// required fields from optional ones.
//
// An Object keeps the first failure it runs into; every read after that
// returns a zero value, so a resource decoder can be written as a plain
// struct literal and checked once with Err.
package decode

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"
)

// Error describes a field that is missing or holds an unexpected value.
type Error struct {
	Field  string
	Value  string
	Reason string
}

func (e *Error) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type state struct {
	err error
}

type Object struct {
	data  []byte
	path  string
	state *state
}

// Parse wraps a raw JSON object. path prefixes field names in errors.
func Parse(data []byte, path string) (*Object, error) {
	_, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, &Error{Field: path, Reason: err.Error()}
	}
	if typ != jsonparser.Object {
		return nil, &Error{Field: path, Reason: "expected an object, got " + typ.String()}
	}
	return &Object{data: data, path: path, state: &state{}}, nil
}

func (o *Object) Err() error { return o.state.err }

func (o *Object) Path() string { return o.path }

// Bytes returns the raw JSON of the object.
func (o *Object) Bytes() []byte { return o.data }

func (o *Object) failed() bool { return o.state.err != nil }

func (o *Object) field(key string) string {
	if o.path == "" {
		return key
	}
	return o.path + "." + key
}

func (o *Object) fail(key, value, reason string) {
	if o.state.err == nil {
		o.state.err = &Error{Field: o.field(key), Value: value, Reason: reason}
	}
}

// lookup returns ok=false when the field is absent, null, or the object
// already failed.
func (o *Object) lookup(key string) ([]byte, jsonparser.ValueType, bool) {
	if o.failed() {
		return nil, jsonparser.NotExist, false
	}
	v, typ, _, err := jsonparser.Get(o.data, key)
	if typ == jsonparser.NotExist || typ == jsonparser.Null {
		return nil, typ, false
	}
	if err != nil {
		o.fail(key, "", err.Error())
		return nil, typ, false
	}
	return v, typ, true
}

func (o *Object) required(key string) ([]byte, jsonparser.ValueType, bool) {
	v, typ, ok := o.lookup(key)
	if !ok && !o.failed() {
		o.fail(key, "", "required field is missing")
	}
	return v, typ, ok
}

func (o *Object) expect(key string, v []byte, got, want jsonparser.ValueType) bool {
	if got != want {
		o.fail(key, string(v), "expected "+want.String()+", got "+got.String())
		return false
	}
	return true
}

func (o *Object) str(key string, v []byte, typ jsonparser.ValueType) (string, bool) {
	if !o.expect(key, v, typ, jsonparser.String) {
		return "", false
	}
	s, err := jsonparser.ParseString(v)
	if err != nil {
		o.fail(key, string(v), err.Error())
		return "", false
	}
	return s, true
}

func (o *Object) String(key string) string {
	v, typ, ok := o.required(key)
	if !ok {
		return ""
	}
	s, _ := o.str(key, v, typ)
	return s
}

func (o *Object) OptString(key string) *string {
	v, typ, ok := o.lookup(key)
	if !ok {
		return nil
	}
	s, ok := o.str(key, v, typ)
	if !ok {
		return nil
	}
	return &s
}

func (o *Object) boolean(key string, v []byte, typ jsonparser.ValueType) (bool, bool) {
	if !o.expect(key, v, typ, jsonparser.Boolean) {
		return false, false
	}
	b, err := jsonparser.ParseBoolean(v)
	if err != nil {
		o.fail(key, string(v), err.Error())
		return false, false
	}
	return b, true
}

func (o *Object) Bool(key string) bool {
	v, typ, ok := o.required(key)
	if !ok {
		return false
	}
	b, _ := o.boolean(key, v, typ)
	return b
}

func (o *Object) OptBool(key string) *bool {
	v, typ, ok := o.lookup(key)
	if !ok {
		return nil
	}
	b, ok := o.boolean(key, v, typ)
	if !ok {
		return nil
	}
	return &b
}

func (o *Object) integer(key string, v []byte, typ jsonparser.ValueType) (int, bool) {
	if !o.expect(key, v, typ, jsonparser.Number) {
		return 0, false
	}
	n, err := jsonparser.ParseInt(v)
	if err != nil {
		o.fail(key, string(v), "expected an integer")
		return 0, false
	}
	return int(n), true
}

func (o *Object) Int(key string) int {
	v, typ, ok := o.required(key)
	if !ok {
		return 0
	}
	n, _ := o.integer(key, v, typ)
	return n
}

func (o *Object) OptInt(key string) *int {
	v, typ, ok := o.lookup(key)
	if !ok {
		return nil
	}
	n, ok := o.integer(key, v, typ)
	if !ok {
		return nil
	}
	return &n
}

func (o *Object) OptFloat(key string) *float64 {
	v, typ, ok := o.lookup(key)
	if !ok {
		return nil
	}
	if !o.expect(key, v, typ, jsonparser.Number) {
		return nil
	}
	f, err := jsonparser.ParseFloat(v)
	if err != nil {
		o.fail(key, string(v), err.Error())
		return nil
	}
	return &f
}

func (o *Object) child(key string, v []byte, typ jsonparser.ValueType) *Object {
	if !o.expect(key, v, typ, jsonparser.Object) {
		return &Object{path: o.field(key), state: o.state}
	}
	return &Object{data: v, path: o.field(key), state: o.state}
}

// Object returns the nested object at key. It never returns nil; on
// failure the returned Object reads zero values.
func (o *Object) Object(key string) *Object {
	v, typ, ok := o.required(key)
	if !ok {
		return &Object{path: o.field(key), state: o.state}
	}
	return o.child(key, v, typ)
}

// OptObject returns nil when the field is absent or null.
func (o *Object) OptObject(key string) *Object {
	v, typ, ok := o.lookup(key)
	if !ok {
		return nil
	}
	return o.child(key, v, typ)
}

// Each calls fn for every object in the array at key. An absent or null
// array is treated as empty.
func (o *Object) Each(key string, fn func(*Object)) {
	v, typ, ok := o.lookup(key)
	if !ok || !o.expect(key, v, typ, jsonparser.Array) {
		return
	}

	i := 0
	_, err := jsonparser.ArrayEach(v, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		path := key + "[" + strconv.Itoa(i) + "]"
		i++
		if o.failed() {
			return
		}
		if dataType != jsonparser.Object {
			o.fail(path, string(value), "expected object, got "+dataType.String())
			return
		}
		fn(&Object{data: value, path: o.field(path), state: o.state})
	})
	if err != nil {
		o.fail(key, "", err.Error())
	}
}

// Strings reads an array of strings; absent or null yields an empty slice.
func (o *Object) Strings(key string) []string {
	out := []string{}
	v, typ, ok := o.lookup(key)
	if !ok || !o.expect(key, v, typ, jsonparser.Array) {
		return out
	}

	i := 0
	_, err := jsonparser.ArrayEach(v, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		path := key + "[" + strconv.Itoa(i) + "]"
		i++
		if o.failed() {
			return
		}
		s, ok := o.str(path, value, dataType)
		if ok {
			out = append(out, s)
		}
	})
	if err != nil {
		o.fail(key, "", err.Error())
	}
	return out
}

// StringMap reads an object of string values. It returns nil when the
// field is absent or null.
func (o *Object) StringMap(key string) map[string]string {
	v, typ, ok := o.lookup(key)
	if !ok || !o.expect(key, v, typ, jsonparser.Object) {
		return nil
	}

	out := map[string]string{}
	err := jsonparser.ObjectEach(v, func(k, value []byte, dataType jsonparser.ValueType, _ int) error {
		name := key + "." + string(k)
		s, ok := o.str(name, value, dataType)
		if !ok {
			return o.state.err
		}
		out[string(k)] = s
		return nil
	})
	if err != nil {
		o.fail(key, "", err.Error())
	}
	return out
}

// Raw returns the undecoded value at key, or nil when absent or null.
func (o *Object) Raw(key string) json.RawMessage {
	v, typ, ok := o.lookup(key)
	if !ok {
		return nil
	}
	if typ == jsonparser.String {
		b, err := json.Marshal(mustUnescape(v))
		if err != nil {
			return nil
		}
		return json.RawMessage(b)
	}
	return json.RawMessage(append([]byte(nil), v...))
}

func mustUnescape(v []byte) string {
	s, err := jsonparser.ParseString(v)
	if err != nil {
		return string(v)
	}
	return s
}

// Value reads a required string field and converts it with parse. Parse
// errors are reported against the field and carry the raw value.
func Value[T any](o *Object, key string, parse func(string) (T, error)) T {
	var zero T
	s := o.String(key)
	if o.failed() {
		return zero
	}
	v, err := parse(s)
	if err != nil {
		o.fail(key, s, err.Error())
		return zero
	}
	return v
}

// OptValue is Value for optional fields.
func OptValue[T any](o *Object, key string, parse func(string) (T, error)) *T {
	s := o.OptString(key)
	if s == nil {
		return nil
	}
	v, err := parse(*s)
	if err != nil {
		o.fail(key, *s, err.Error())
		return nil
	}
	return &v
}

// List decodes the array of objects at key with fn. It never returns nil.
func List[T any](o *Object, key string, fn func(*Object) T) []T {
	out := []T{}
	o.Each(key, func(item *Object) {
		v := fn(item)
		if !item.failed() {
			out = append(out, v)
		}
	})
	return out
}

// Values reads an array of strings converted with parse.
func Values[T any](o *Object, key string, parse func(string) (T, error)) []T {
	out := []T{}
	for i, s := range o.Strings(key) {
		v, err := parse(s)
		if err != nil {
			o.fail(key+"["+strconv.Itoa(i)+"]", s, err.Error())
			return out
		}
		out = append(out, v)
	}
	return out
}

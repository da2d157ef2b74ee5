package http

import (
	"fmt"
	"iter"
	"net/url"
	"reflect"
	"sort"
)

// Element is one member of a sequence Value. Valid is false for a null element.
type Element struct {
	Text  string
	Valid bool
}

// Value is a parameter value: either a scalar or an ordered sequence.
// A null scalar is represented by Null().
type Value struct {
	sequence bool
	text     string
	valid    bool
	elements []Element
}

// Scalar returns a single text value.
func Scalar(text string) Value {
	return Value{text: text, valid: true}
}

// Null returns a scalar with no value. It renders as an empty value.
func Null() Value {
	return Value{}
}

// Sequence returns a multi-valued parameter.
func Sequence(texts ...string) Value {
	elements := make([]Element, len(texts))
	for i, text := range texts {
		elements[i] = Element{Text: text, Valid: true}
	}
	return Value{sequence: true, elements: elements}
}

// IsSequence reports whether v holds multiple values.
func (v Value) IsSequence() bool {
	return v.sequence
}

// Text returns the scalar text. ok is false for null scalars and sequences.
func (v Value) Text() (text string, ok bool) {
	if v.sequence {
		return "", false
	}
	return v.text, v.valid
}

// Elements returns the members of a sequence, or nil for a scalar.
func (v Value) Elements() []Element {
	return v.elements
}

func (v Value) append(e Element) Value {
	if !v.sequence {
		v = Value{sequence: true, elements: []Element{{Text: v.text, Valid: v.valid}}}
	}
	v.elements = append(v.elements[:len(v.elements):len(v.elements)], e)
	return v
}

// ValueOf converts an arbitrary Go value into a Value.
//
// Slices, arrays, iter.Seq[string] and iter.Seq[any] become sequences; nil
// and nil pointers become null; []byte is treated as text; everything else
// is rendered with fmt.Sprint (or String, for fmt.Stringer).
func ValueOf(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return Scalar(t)
	case []byte:
		return Scalar(string(t))
	case []string:
		return Sequence(t...)
	case iter.Seq[string]:
		return sequenceOf(func(yield func(interface{}) bool) {
			for s := range t {
				if !yield(s) {
					return
				}
			}
		})
	case iter.Seq[interface{}]:
		return sequenceOf(t)
	case fmt.Stringer:
		if isNilPointer(v) {
			return Null()
		}
		return Scalar(t.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Value{sequence: true}
		}
		return sequenceOf(func(yield func(interface{}) bool) {
			for i := 0; i < rv.Len(); i++ {
				if !yield(rv.Index(i).Interface()) {
					return
				}
			}
		})
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return ValueOf(rv.Elem().Interface())
	}
	return Scalar(fmt.Sprint(v))
}

func sequenceOf(seq iter.Seq[interface{}]) Value {
	out := Value{sequence: true}
	for item := range seq {
		out.elements = append(out.elements, elementOf(item))
	}
	return out
}

func elementOf(item interface{}) Element {
	if item == nil || isNilPointer(item) {
		return Element{}
	}
	switch t := item.(type) {
	case string:
		return Element{Text: t, Valid: true}
	case fmt.Stringer:
		return Element{Text: t.String(), Valid: true}
	}
	rv := reflect.ValueOf(item)
	if rv.Kind() == reflect.Ptr {
		return elementOf(rv.Elem().Interface())
	}
	return Element{Text: fmt.Sprint(item), Valid: true}
}

func isNilPointer(v interface{}) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Params is an ordered parameter set. Keys iterate in insertion order.
// The zero value is ready to use.
type Params struct {
	keys   []string
	values map[string]Value
}

// NewParams returns an empty parameter set.
func NewParams() *Params {
	return &Params{values: make(map[string]Value)}
}

// ParamsOf builds a parameter set from alternating keys and values.
// It panics if given an odd number of arguments or a non-string key.
func ParamsOf(keyValues ...interface{}) *Params {
	if len(keyValues)%2 == 1 {
		panic("http.ParamsOf: odd argument count")
	}
	p := NewParams()
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("http.ParamsOf: key %v is not a string", keyValues[i]))
		}
		p.Set(key, keyValues[i+1])
	}
	return p
}

// ParamsFromMap converts a map into a parameter set with keys in sorted order,
// since Go maps carry no order of their own.
func ParamsFromMap(m map[string]interface{}) *Params {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := NewParams()
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

// ParamsFromValues converts url.Values into a parameter set with keys in
// sorted order. Keys with more than one value become sequences.
func ParamsFromValues(values url.Values) *Params {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := NewParams()
	for _, k := range keys {
		vs := values[k]
		if len(vs) == 1 {
			p.Set(k, Scalar(vs[0]))
		} else {
			p.Set(k, Sequence(vs...))
		}
	}
	return p
}

// Set stores value under key. An existing key keeps its position.
// Returns the Params to allow method chaining.
func (p *Params) Set(key string, value interface{}) *Params {
	if p.values == nil {
		p.values = make(map[string]Value)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = ValueOf(value)
	return p
}

// Add appends value under key, turning an existing entry into a sequence.
// Returns the Params to allow method chaining.
func (p *Params) Add(key string, value string) *Params {
	existing, ok := p.Get(key)
	if !ok {
		return p.Set(key, Scalar(value))
	}
	p.values[key] = existing.append(Element{Text: value, Valid: true})
	return p
}

// Get returns the value stored under key.
func (p *Params) Get(key string) (Value, bool) {
	if p == nil || p.values == nil {
		return Value{}, false
	}
	v, ok := p.values[key]
	return v, ok
}

// Len returns the number of keys.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in iteration order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// All iterates over the entries in order.
func (p *Params) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if p == nil {
			return
		}
		for _, k := range p.keys {
			if !yield(k, p.values[k]) {
				return
			}
		}
	}
}

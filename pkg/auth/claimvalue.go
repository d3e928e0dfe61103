// Copyright 2023 LiveKit, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/elliotchance/orderedmap/v2"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("%d", int(k))
	}
}

// ClaimValue is a primitive value that can be embedded in a token claim.
// Maps keep insertion order.
type ClaimValue struct {
	kind ValueKind
	b    bool
	n    float64
	s    string
	list []ClaimValue
	m    *orderedmap.OrderedMap[string, ClaimValue]
}

func Bool(b bool) ClaimValue {
	return ClaimValue{kind: KindBool, b: b}
}

func Number(n float64) ClaimValue {
	return ClaimValue{kind: KindNumber, n: n}
}

func String(s string) ClaimValue {
	return ClaimValue{kind: KindString, s: s}
}

func List(items ...ClaimValue) ClaimValue {
	return ClaimValue{kind: KindList, list: items}
}

func StringList(items []string) ClaimValue {
	list := make([]ClaimValue, 0, len(items))
	for _, s := range items {
		list = append(list, String(s))
	}
	return List(list...)
}

// ClaimMap builds map values while preserving the order fields are set in.
type ClaimMap struct {
	m *orderedmap.OrderedMap[string, ClaimValue]
}

func NewClaimMap() *ClaimMap {
	return &ClaimMap{m: orderedmap.NewOrderedMap[string, ClaimValue]()}
}

func (c *ClaimMap) Set(key string, value ClaimValue) *ClaimMap {
	c.m.Set(key, value)
	return c
}

func (c *ClaimMap) Get(key string) (ClaimValue, bool) {
	return c.m.Get(key)
}

func (c *ClaimMap) Delete(key string) {
	c.m.Delete(key)
}

func (c *ClaimMap) Keys() []string {
	return c.m.Keys()
}

func (c *ClaimMap) Len() int {
	return c.m.Len()
}

func (c *ClaimMap) Value() ClaimValue {
	return ClaimValue{kind: KindMap, m: c.m}
}

func (v ClaimValue) Kind() ValueKind {
	return v.kind
}

func (v ClaimValue) IsNull() bool {
	return v.kind == KindNull
}

func (v ClaimValue) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v ClaimValue) AsNumber() (float64, bool) {
	return v.n, v.kind == KindNumber
}

func (v ClaimValue) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

func (v ClaimValue) AsList() ([]ClaimValue, bool) {
	return v.list, v.kind == KindList
}

// Field looks up a key on a map value.
func (v ClaimValue) Field(key string) (ClaimValue, bool) {
	if v.kind != KindMap || v.m == nil {
		return ClaimValue{}, false
	}
	return v.m.Get(key)
}

// Keys returns map keys in insertion order.
func (v ClaimValue) Keys() []string {
	if v.kind != KindMap || v.m == nil {
		return nil
	}
	return v.m.Keys()
}

// Interface converts the value back to plain Go values: bool, float64, string,
// []interface{} and map[string]interface{}.
func (v ClaimValue) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindList:
		out := make([]interface{}, 0, len(v.list))
		for _, item := range v.list {
			out = append(out, item.Interface())
		}
		return out
	case KindMap:
		out := make(map[string]interface{})
		if v.m != nil {
			for el := v.m.Front(); el != nil; el = el.Next() {
				out[el.Key] = el.Value.Interface()
			}
		}
		return out
	default:
		return nil
	}
}

func (v ClaimValue) Equal(other ClaimValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		keys, otherKeys := v.Keys(), other.Keys()
		if len(keys) != len(otherKeys) {
			return false
		}
		for i, key := range keys {
			if otherKeys[i] != key {
				return false
			}
			a, _ := v.m.Get(key)
			b, _ := other.m.Get(key)
			if !a.Equal(b) {
				return false
			}
		}
		return true
	}
	return false
}

func (v ClaimValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		return json.Marshal(v.n)
	case KindString:
		return json.Marshal(v.s)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindMap:
		buf := bytes.NewBufferString("{")
		if v.m != nil {
			first := true
			for el := v.m.Front(); el != nil; el = el.Next() {
				if !first {
					buf.WriteByte(',')
				}
				first = false
				key, err := json.Marshal(el.Key)
				if err != nil {
					return nil, err
				}
				val, err := el.Value.MarshalJSON()
				if err != nil {
					return nil, err
				}
				buf.Write(key)
				buf.WriteByte(':')
				buf.Write(val)
			}
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return []byte("null"), nil
	}
}

// Canonicalizer is implemented by structured values that know how to reduce
// themselves to claim values.
type Canonicalizer interface {
	ClaimValue() ClaimValue
}

// Canonicalize reduces v to primitive claim values. Maps without an inherent order
// are emitted with sorted keys; values of unsupported types are stringified.
func Canonicalize(v interface{}) ClaimValue {
	switch val := v.(type) {
	case nil:
		return ClaimValue{}
	case ClaimValue:
		return val
	case *ClaimMap:
		return val.Value()
	case Canonicalizer:
		if rv := reflect.ValueOf(val); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return ClaimValue{}
		}
		return val.ClaimValue()
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case float64:
		return Number(val)
	case float32:
		return Number(float64(val))
	case int:
		return Number(float64(val))
	case int32:
		return Number(float64(val))
	case int64:
		return Number(float64(val))
	case uint32:
		return Number(float64(val))
	case uint64:
		return Number(float64(val))
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return Number(f)
		}
		return String(val.String())
	case []string:
		return StringList(val)
	case []interface{}:
		items := make([]ClaimValue, 0, len(val))
		for _, item := range val {
			items = append(items, Canonicalize(item))
		}
		return List(items...)
	case map[string]string:
		cm := NewClaimMap()
		for _, key := range sortedKeys(val) {
			cm.Set(key, String(val[key]))
		}
		return cm.Value()
	case map[string]interface{}:
		cm := NewClaimMap()
		for _, key := range sortedKeys(val) {
			cm.Set(key, Canonicalize(val[key]))
		}
		return cm.Value()
	case fmt.Stringer:
		return String(val.String())
	default:
		return canonicalizeReflect(reflect.ValueOf(val))
	}
}

// canonicalizeReflect handles typed slices and maps element by element.
func canonicalizeReflect(rv reflect.Value) ClaimValue {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ClaimValue{}
		}
		return Canonicalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return String(string(rv.Bytes()))
		}
		items := make([]ClaimValue, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, canonicalizeElem(rv.Index(i)))
		}
		return List(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		cm := NewClaimMap()
		for _, key := range keys {
			cm.Set(key, canonicalizeElem(rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))))
		}
		return cm.Value()
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.String:
		return String(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	}
	return String(fmt.Sprint(rv.Interface()))
}

func canonicalizeElem(rv reflect.Value) ClaimValue {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return ClaimValue{}
		}
	}
	return Canonicalize(rv.Interface())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

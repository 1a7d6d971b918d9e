package fastjson

import (
	"math"
	"math/big"
)

// Kind tags the single active representation of a Value. The tag is fixed
// during parsing; tier escalation never happens after the fact.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindDouble
	KindInt128
	KindFloat128
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "boolean",
	KindInt64:    "integer64",
	KindDouble:   "double",
	KindInt128:   "integer128",
	KindFloat128: "float128",
	KindString:   "string",
	KindArray:    "array",
	KindObject:   "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Value is one node of a parsed document. Nodes are created only by the
// parser, live in their document's arenas, and are immutable afterwards.
// Children of arrays and objects are owned exclusively by their parent.
type Value struct {
	kind Kind
	b    bool
	// Integer64 tier. Literals in (MaxInt64, MaxUint64] keep their exact
	// magnitude in u64 with unsigned set.
	i64      int64
	u64      uint64
	unsigned bool
	f64      float64
	big      *big.Int
	bigf     *big.Float
	str      string
	arr      []*Value
	obj      *Object
}

// Kind reports the active tag.
func (v *Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload; ok is false for other kinds.
func (v *Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Int64 returns the Integer64 payload as a signed value; ok is false for
// other kinds and for unsigned magnitudes above MaxInt64.
func (v *Value) Int64() (int64, bool) {
	if v.kind != KindInt64 {
		return 0, false
	}
	if v.unsigned {
		if v.u64 > math.MaxInt64 {
			return 0, false
		}
		return int64(v.u64), true
	}
	return v.i64, true
}

// Uint64 returns the Integer64 payload as an unsigned value; ok is false
// for other kinds and for negative values.
func (v *Value) Uint64() (uint64, bool) {
	if v.kind != KindInt64 {
		return 0, false
	}
	if v.unsigned {
		return v.u64, true
	}
	if v.i64 < 0 {
		return 0, false
	}
	return uint64(v.i64), true
}

// Float64 returns the Double payload; ok is false for other kinds.
func (v *Value) Float64() (float64, bool) {
	return v.f64, v.kind == KindDouble
}

// BigInt returns the Integer128 payload; ok is false for other kinds. The
// returned value is shared, callers must not mutate it.
func (v *Value) BigInt() (*big.Int, bool) {
	return v.big, v.kind == KindInt128
}

// BigFloat returns the Float128 payload; ok is false for other kinds. The
// returned value is shared, callers must not mutate it.
func (v *Value) BigFloat() (*big.Float, bool) {
	return v.bigf, v.kind == KindFloat128
}

// Str returns the string payload; ok is false for other kinds. The string
// aliases document-owned storage.
func (v *Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Len reports element count for arrays, member count for objects and 0
// otherwise.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj.members)
	default:
		return 0
	}
}

// Index returns the i-th array element. Out-of-range indexes and
// non-array values yield a NotFound error, never a panic.
func (v *Value) Index(i int) (*Value, error) {
	if v.kind != KindArray {
		return nil, &Error{Code: NotFound, Message: "value is not an array", Offset: -1}
	}
	if i < 0 || i >= len(v.arr) {
		return nil, &Error{Code: NotFound, Message: "array index out of range", Offset: -1}
	}
	return v.arr[i], nil
}

// Get returns the member stored under key. Missing keys and non-object
// values yield a NotFound error.
func (v *Value) Get(key string) (*Value, error) {
	if v.kind != KindObject {
		return nil, &Error{Code: NotFound, Message: "value is not an object", Offset: -1}
	}
	if m := v.obj.get(key); m != nil {
		return m, nil
	}
	return nil, &Error{Code: NotFound, Message: "key not found: " + key, Offset: -1}
}

// Member returns the i-th object member in insertion order.
func (v *Value) Member(i int) (string, *Value, error) {
	if v.kind != KindObject {
		return "", nil, &Error{Code: NotFound, Message: "value is not an object", Offset: -1}
	}
	if i < 0 || i >= len(v.obj.members) {
		return "", nil, &Error{Code: NotFound, Message: "member index out of range", Offset: -1}
	}
	m := v.obj.members[i]
	return m.Key, m.Value, nil
}

// Interface materializes the subtree as native Go values: nil, bool,
// int64, uint64, float64, *big.Int, *big.Float, string, []any and
// map[string]any. Object insertion order is not preserved by Go maps;
// callers that need it should walk Member instead.
func (v *Value) Interface() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt64:
		if v.unsigned {
			return v.u64
		}
		return v.i64
	case KindDouble:
		return v.f64
	case KindInt128:
		return new(big.Int).Set(v.big)
	case KindFloat128:
		return new(big.Float).Copy(v.bigf)
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	default:
		out := make(map[string]any, len(v.obj.members))
		for _, m := range v.obj.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	}
}

// Equals reports deep structural equality: same kinds, same numeric
// values within a tier, same element order, same member order and keys.
func (v *Value) Equals(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	// The floating tiers compare by numeric value: a wide value whose
	// shortest decimal text happens to fit a double reparses into the
	// narrow tier without losing anything.
	if isFloating(v.kind) && isFloating(o.kind) {
		return floatEqual(v, o)
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt64:
		if v.unsigned || o.unsigned {
			a, aok := v.Uint64()
			b, bok := o.Uint64()
			return aok && bok && a == b
		}
		return v.i64 == o.i64
	case KindInt128:
		return v.big.Cmp(o.big) == 0
	case KindString:
		return v.str == o.str
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equals(o.arr[i]) {
				return false
			}
		}
		return true
	default:
		if len(v.obj.members) != len(o.obj.members) {
			return false
		}
		for i := range v.obj.members {
			a, b := v.obj.members[i], o.obj.members[i]
			if a.Key != b.Key || !a.Value.Equals(b.Value) {
				return false
			}
		}
		return true
	}
}

func isFloating(k Kind) bool {
	return k == KindDouble || k == KindFloat128
}

func floatEqual(v, o *Value) bool {
	if v.kind == KindDouble && o.kind == KindDouble {
		return v.f64 == o.f64 || (math.IsNaN(v.f64) && math.IsNaN(o.f64))
	}
	a, b := v.bigf, o.bigf
	if v.kind == KindDouble {
		a = new(big.Float).SetFloat64(v.f64)
	}
	if o.kind == KindDouble {
		b = new(big.Float).SetFloat64(o.f64)
	}
	return a.Cmp(b) == 0
}

// Member is one object entry.
type Member struct {
	Key   string
	Value *Value
}

// Object keeps members in insertion order for deterministic serialization
// and builds a key index once it grows past a handful of entries.
type Object struct {
	members []Member
	index   map[string]int
}

const objectIndexThreshold = 8

// put inserts or, on a duplicate key, replaces the value in place. Last
// occurrence wins; the member keeps its original position.
func (o *Object) put(key string, v *Value) {
	if o.index == nil {
		for i := range o.members {
			if o.members[i].Key == key {
				o.members[i].Value = v
				return
			}
		}
		o.members = append(o.members, Member{Key: key, Value: v})
		if len(o.members) > objectIndexThreshold {
			o.index = make(map[string]int, len(o.members)*2)
			for i := range o.members {
				o.index[o.members[i].Key] = i
			}
		}
		return
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

func (o *Object) get(key string) *Value {
	if o.index != nil {
		if i, ok := o.index[key]; ok {
			return o.members[i].Value
		}
		return nil
	}
	for i := range o.members {
		if o.members[i].Key == key {
			return o.members[i].Value
		}
	}
	return nil
}

// Package shallow implements the identity-based comparisons and merges used
// to memoize props.
package shallow

import (
	"reflect"
	"unsafe"
)

// Equal reports whether a and b hold the same key set and every value is
// Identical. A nil map equals an empty one.
func Equal(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !Identical(av, bv) {
			return false
		}
	}
	return true
}

// Identical compares two values by reference: pointers, maps, channels,
// slices and funcs must refer to the same object; everything else must be
// ==. Structs and arrays that == cannot compare are matched one level deep,
// each field or element by the same reference rules.
func Identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Func:
		return funcIdentity(a) == funcIdentity(b)
	case reflect.Struct, reflect.Array:
		if va.Type().Comparable() {
			if eq, ok := comparable(a, b); ok {
				return eq
			}
		}
		return membersIdentical(va, vb)
	}

	eq, _ := comparable(a, b)
	return eq
}

// comparable guards == for structs and arrays whose interface fields hold
// uncomparable values. ok is false when == panicked.
func comparable(a, b any) (eq, ok bool) {
	defer func() {
		if recover() != nil {
			eq, ok = false, false
		}
	}()
	return a == b, true
}

// membersIdentical walks the fields or elements of two struct or array
// values of the same type. Copies are made addressable so unexported func
// fields can be read.
func membersIdentical(va, vb reflect.Value) bool {
	pa, pb := reflect.New(va.Type()).Elem(), reflect.New(vb.Type()).Elem()
	pa.Set(va)
	pb.Set(vb)

	if pa.Kind() == reflect.Struct {
		for i := 0; i < pa.NumField(); i++ {
			if !memberIdentical(pa.Field(i), pb.Field(i)) {
				return false
			}
		}
		return true
	}
	for i := 0; i < pa.Len(); i++ {
		if !memberIdentical(pa.Index(i), pb.Index(i)) {
			return false
		}
	}
	return true
}

// memberIdentical compares one addressable field or element. Nested structs
// and arrays fall back to Value.Equal.
func memberIdentical(x, y reflect.Value) bool {
	switch x.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return x.Pointer() == y.Pointer()
	case reflect.Slice:
		return x.Len() == y.Len() && x.Pointer() == y.Pointer()
	case reflect.Func:
		return funcWord(x) == funcWord(y)
	case reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() && y.IsNil()
		}
		ex, ey := x.Elem(), y.Elem()
		if ex.Type() != ey.Type() {
			return false
		}
		switch ex.Kind() {
		case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
			return ex.Pointer() == ey.Pointer()
		case reflect.Slice:
			return ex.Len() == ey.Len() && ex.Pointer() == ey.Pointer()
		case reflect.Func:
			// Both interface layouts keep the data word second.
			return dataWord(x) == dataWord(y)
		}
		return valueEqual(ex, ey)
	}
	return valueEqual(x, y)
}

// funcWord reads the closure pointer of an addressable func value.
func funcWord(v reflect.Value) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(v.UnsafeAddr()))
}

// dataWord reads the data word of an addressable interface value.
func dataWord(v reflect.Value) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(v.UnsafeAddr()))[1]
}

func valueEqual(x, y reflect.Value) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return x.Equal(y)
}

// funcIdentity returns the closure pointer stored in an interface holding a
// func value. reflect only exposes the code pointer, which is shared by all
// closures created from the same literal.
func funcIdentity(fn any) unsafe.Pointer {
	type iface struct {
		typ  unsafe.Pointer
		data unsafe.Pointer
	}
	return (*iface)(unsafe.Pointer(&fn)).data
}

// Merge returns a new map holding the union of maps; later maps win.
func Merge(maps ...map[string]any) map[string]any {
	size := 0
	for _, m := range maps {
		size += len(m)
	}
	out := make(map[string]any, size)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

package sandbox

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	ierr "github.com/cwbudde/go-sandjs/errors"
	"github.com/cwbudde/go-sandjs/internal/runtime"
)

// HostGet reads a property of a proxied host value:
//  1. the property-name gate applies;
//  2. an own enumerable key returns its value wrapped (scalars pass
//     through, functions bind to the host parent, containers proxy with
//     an extended display path);
//  3. an allow-listed inherited method resolves to a bound host callable;
//  4. everything else is an access error.
func (b *Boundary) HostGet(h *runtime.HostValue, name string) (runtime.Value, error) {
	// `length` on host arrays and strings stays reachable despite the
	// gate's general strictness.
	if name == "length" {
		if n, ok := hostLength(h.Native); ok {
			return runtime.Number(float64(n)), nil
		}
	}
	// `size` on host Map/Set containers is a data property, not a method.
	if name == "size" {
		if sized, ok := h.Native.(interface{ Size() int }); ok {
			return runtime.Number(float64(sized.Size())), nil
		}
	}
	if err := CheckProperty(name); err != nil {
		return nil, err
	}

	childPath := h.Path + "." + name
	if h.Path == "" {
		childPath = name
	}

	rv := dereference(reflect.ValueOf(h.Native))
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			entry := rv.MapIndex(reflect.ValueOf(name))
			if entry.IsValid() {
				return b.ToSandbox(entry.Interface(), childPath), nil
			}
		}
	case reflect.Struct:
		field := rv.FieldByName(name)
		if !field.IsValid() {
			// Tolerate idiomatic Go field casing for lowercase JS names.
			field = rv.FieldByName(capitalize(name))
		}
		if field.IsValid() && field.CanInterface() {
			return b.ToSandbox(field.Interface(), childPath), nil
		}
	case reflect.Slice, reflect.Array:
		if idx, err := strconv.Atoi(name); err == nil {
			if idx < 0 || idx >= rv.Len() {
				return runtime.Undefined, nil
			}
			return b.ToSandbox(rv.Index(idx).Interface(), childPath), nil
		}
	}

	// Inherited method allow-list: resolve a method on the host value
	// itself or on its pointer receiver set.
	if method, ok := b.resolveHostMethod(h, name); ok {
		return method, nil
	}

	return nil, ierr.NewSecurityErrorf("Property '%s' does not exist on global '%s'", name, h.Path)
}

// resolveHostMethod looks name up in the inherited-method allow-list for
// the host value's kind and binds the resolved host method.
func (b *Boundary) resolveHostMethod(h *runtime.HostValue, name string) (runtime.Value, bool) {
	if !inheritedMethodAllowed(h.Native, name) {
		return nil, false
	}
	rv := reflect.ValueOf(h.Native)
	m := rv.MethodByName(capitalize(name))
	if !m.IsValid() && rv.Kind() != reflect.Ptr && rv.CanAddr() {
		m = rv.Addr().MethodByName(capitalize(name))
	}
	if !m.IsValid() {
		m = rv.MethodByName(name)
	}
	if !m.IsValid() {
		return nil, false
	}
	return b.WrapHostMethod(name, m), true
}

// HostSet rejects every mutation of a proxied host value.
func (b *Boundary) HostSet(h *runtime.HostValue, name string) error {
	return ierr.NewSecurityErrorf("Cannot modify property '%s' on global '%s'", name, h.Path)
}

// HostDelete rejects property deletion on a proxied host value.
func (b *Boundary) HostDelete(h *runtime.HostValue, name string) error {
	return ierr.NewSecurityErrorf("Cannot delete property '%s' on global '%s'", name, h.Path)
}

// HostKeys lists the own enumerable keys of a host value. It backs the
// explicit allow-listed APIs (Object.keys and friends); `in` and bare
// enumeration on host objects stay denied.
func (b *Boundary) HostKeys(h *runtime.HostValue) []string {
	rv := dereference(reflect.ValueOf(h.Native))
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return keys
	case reflect.Struct:
		t := rv.Type()
		keys := make([]string, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			if t.Field(i).IsExported() {
				keys = append(keys, t.Field(i).Name)
			}
		}
		return keys
	case reflect.Slice, reflect.Array:
		keys := make([]string, rv.Len())
		for i := range keys {
			keys[i] = strconv.Itoa(i)
		}
		return keys
	default:
		return nil
	}
}

// HostElements returns the elements of a host slice or array wrapped for
// the sandbox, for `for...of` and spread at the boundary.
func (b *Boundary) HostElements(h *runtime.HostValue) ([]runtime.Value, bool) {
	rv := dereference(reflect.ValueOf(h.Native))
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]runtime.Value, rv.Len())
	for i := range out {
		out[i] = b.ToSandbox(rv.Index(i).Interface(), h.Path+"["+strconv.Itoa(i)+"]")
	}
	return out, true
}

// hostLength reports the length of host strings, slices and arrays.
func hostLength(native any) (int, bool) {
	rv := dereference(reflect.ValueOf(native))
	switch rv.Kind() {
	case reflect.String:
		return len([]rune(rv.String())), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

func dereference(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return rv
		}
		rv = rv.Elem()
	}
	return rv
}

func capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

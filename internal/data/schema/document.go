package schema

import (
	"reflect"
	"strings"
	"time"
)

// DocumentOf flattens a tagged struct into the field map a store would
// persist, keyed by json name. Nested structs become maps, nil pointers
// become nil and time values are kept as time.Time.
func DocumentOf(v any) map[string]any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return structDoc(rv)
}

func structDoc(rv reflect.Value) map[string]any {
	rt := rv.Type()
	out := make(map[string]any, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out[name] = fieldValue(rv.Field(i))
	}
	return out
}

func fieldValue(fv reflect.Value) any {
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil
		}
		fv = fv.Elem()
	}
	if t, ok := fv.Interface().(time.Time); ok {
		return t
	}
	if fv.Kind() == reflect.Struct {
		return structDoc(fv)
	}
	return fv.Interface()
}

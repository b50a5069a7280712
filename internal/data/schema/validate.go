package schema

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/eduhub-backend/internal/domain"
)

var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

func compiled(pattern string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patternCache[pattern]; ok {
		return re
	}
	re := regexp.MustCompile(pattern)
	patternCache[pattern] = re
	return re
}

// Validate checks doc against the descriptor of collection and returns a
// schema_violation error naming every failing field.
func Validate(collection string, doc map[string]any) error {
	d, ok := Lookup(collection)
	if !ok {
		return domain.NewError(domain.CodeInternal, "schema.Validate", "unknown collection "+collection, nil)
	}
	if fields := d.Check(doc); len(fields) > 0 {
		return domain.FieldsError(domain.CodeSchemaViolation, "insert "+collection, fields)
	}
	return nil
}

// Check returns the field failures of doc. Required means present; values
// of declared properties must match type, enum, bounds and pattern.
// Undeclared fields are allowed.
func (d Descriptor) Check(doc map[string]any) []domain.FieldError {
	var out []domain.FieldError
	for _, name := range d.Required {
		if _, ok := doc[name]; !ok {
			out = append(out, domain.FieldError{Field: name, Error: "is required"})
		}
	}
	out = append(out, checkProperties("", d.Properties, doc)...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func checkProperties(prefix string, props map[string]Property, doc map[string]any) []domain.FieldError {
	var out []domain.FieldError
	for name, prop := range props {
		v, ok := doc[name]
		if !ok {
			continue
		}
		out = append(out, checkValue(prefix+name, prop, v)...)
	}
	return out
}

func checkValue(field string, p Property, v any) []domain.FieldError {
	kind := kindOf(v)
	if !typeAllowed(p.Types, kind) {
		return []domain.FieldError{{Field: field, Error: fmt.Sprintf("must be of type %s", joinTypes(p.Types))}}
	}
	var out []domain.FieldError
	switch kind {
	case TypeString:
		s := reflect.ValueOf(v).String()
		if len(p.Enum) > 0 && !contains(p.Enum, s) {
			out = append(out, domain.FieldError{Field: field, Error: "must be one of " + strings.Join(p.Enum, ", ")})
		}
		if p.Pattern != "" && !compiled(p.Pattern).MatchString(s) {
			out = append(out, domain.FieldError{Field: field, Error: "does not match " + p.Pattern})
		}
	case TypeNumber:
		n := toFloat(v)
		if p.Minimum != nil && n < *p.Minimum {
			out = append(out, domain.FieldError{Field: field, Error: fmt.Sprintf("must be >= %g", *p.Minimum)})
		}
		if p.Maximum != nil && n > *p.Maximum {
			out = append(out, domain.FieldError{Field: field, Error: fmt.Sprintf("must be <= %g", *p.Maximum)})
		}
	case TypeArray:
		if p.Items != "" {
			rv := reflect.ValueOf(v)
			for i := 0; i < rv.Len(); i++ {
				if kindOf(rv.Index(i).Interface()) != p.Items {
					out = append(out, domain.FieldError{Field: fmt.Sprintf("%s[%d]", field, i), Error: "must be of type " + string(p.Items)})
				}
			}
		}
	case TypeObject:
		if len(p.Properties) > 0 {
			if m, ok := v.(map[string]any); ok {
				out = append(out, checkProperties(field+".", p.Properties, m)...)
			}
		}
	}
	return out
}

func kindOf(v any) BSONType {
	if v == nil {
		return TypeNull
	}
	switch t := v.(type) {
	case time.Time:
		return TypeDate
	case *time.Time:
		if t == nil {
			return TypeNull
		}
		return TypeDate
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return TypeNull
		}
		return kindOf(rv.Elem().Interface())
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Map, reflect.Struct:
		return TypeObject
	}
	return ""
}

func typeAllowed(types []BSONType, kind BSONType) bool {
	for _, t := range types {
		if t == kind {
			return true
		}
	}
	return false
}

func joinTypes(types []BSONType) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, "|")
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func toFloat(v any) float64 {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return 0
}

package cqbus

import (
	"reflect"
	"sync"
)

// requestNameCache caches derived names keyed by reflect.Type.
var requestNameCache sync.Map

// typeName derives a request name from its type.
// Pointers are dereferenced. Unnamed types fall back to their string form.
func typeName(t reflect.Type) string {
	if name, ok := requestNameCache.Load(t); ok {
		return name.(string)
	}

	original := t
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	}

	requestNameCache.Store(original, name)
	return name
}

// RequestName returns the name used for req in errors, logs and telemetry.
// For a nil request it returns "<nil>".
func RequestName(req any) string {
	if req == nil {
		return "<nil>"
	}
	return typeName(reflect.TypeOf(req))
}

package sandbox

import (
	"reflect"
	"time"
)

// inheritedMethodTables is the static allow-list of inherited methods the
// sandbox may invoke on host values, keyed by host-value kind. Own keys of
// a host object are always readable; anything inherited must appear here.
var inheritedMethodTables = map[string]map[string]bool{
	"date": {
		"getTime": true, "getFullYear": true, "getMonth": true, "getDate": true,
		"getDay": true, "getHours": true, "getMinutes": true, "getSeconds": true,
		"getMilliseconds": true, "toISOString": true, "unix": true, "year": true,
		"month": true, "day": true, "hour": true, "minute": true, "second": true,
	},
	"map": {
		"get": true, "set": true, "has": true, "delete": true, "clear": true,
		"keys": true, "values": true, "entries": true, "forEach": true, "size": true,
	},
	"set": {
		"add": true, "has": true, "delete": true, "clear": true,
		"keys": true, "values": true, "entries": true, "forEach": true, "size": true,
	},
	"regexp": {
		"test": true, "exec": true, "source": true, "flags": true,
	},
	"error": {
		"message": true, "name": true,
	},
	"object": {
		"hasOwnProperty": true,
	},
}

// Kinder lets host object implementations choose their allow-list table
// ("date", "map", "set") instead of the structural default.
type Kinder interface {
	HostKind() string
}

// kindOfHost classifies a host value for the allow-list tables.
func kindOfHost(native any) string {
	switch v := native.(type) {
	case Kinder:
		return v.HostKind()
	case time.Time, *time.Time:
		return "date"
	case *RegExp:
		return "regexp"
	case error:
		return "error"
	}
	rv := dereference(reflect.ValueOf(native))
	switch rv.Kind() {
	case reflect.Map:
		return "object"
	case reflect.Struct:
		return "object"
	default:
		return "object"
	}
}

// inheritedMethodAllowed consults the allow-list for the host value's kind.
func inheritedMethodAllowed(native any, name string) bool {
	table, ok := inheritedMethodTables[kindOfHost(native)]
	return ok && table[name]
}

// Package sandbox implements the host-boundary security layer: the
// property-name gate, the read-only proxy over host values, the native
// method allow-lists, and value conversion across the boundary.
//
// The single rule: everything the sandbox observes from the host is
// read-only, and only explicitly allow-listed inherited methods may be
// invoked. Everything else is denied.
package sandbox

import (
	ierr "github.com/cwbudde/go-sandjs/errors"
)

// forbiddenNames are property names rejected at the boundary to prevent
// prototype pollution and reflection escape.
var forbiddenNames = map[string]bool{
	"__proto__":        true,
	"constructor":      true,
	"prototype":        true,
	"__defineGetter__": true,
	"__defineSetter__": true,
	"__lookupGetter__": true,
	"__lookupSetter__": true,
	"valueOf":          true,
	"toString":         true,
	"call":             true,
	"apply":            true,
	"bind":             true,
	"toLocaleString":   true,
}

// IsForbidden reports whether name is in the forbidden set.
func IsForbidden(name string) bool {
	return forbiddenNames[name]
}

// CheckProperty applies the property-name gate. It returns a security
// error for forbidden names; `length` and `description` stay reachable
// because the delegation tables serve them explicitly before the gate.
func CheckProperty(name string) error {
	if forbiddenNames[name] {
		return ierr.NewSecurityErrorf("Property name '%s' is not allowed for security reasons", name)
	}
	return nil
}

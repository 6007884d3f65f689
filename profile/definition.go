package profile

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Entry declares one attribute of a definition.
type Entry struct {
	name      string
	conv      Converter
	principal bool
}

// Attr declares an attribute that is only read with the full scope.
func Attr(name string, conv Converter) Entry {
	return Entry{name: name, conv: conv}
}

// Principal declares an attribute that is also read with the minimal scope.
func Principal(name string, conv Converter) Entry {
	return Entry{name: name, conv: conv, principal: true}
}

// AttributesDefinition is the ordered attribute table of one provider type.
// It is built once and shared read-only by every profile of that type.
type AttributesDefinition struct {
	entries   []Entry
	index     map[string]int
	all       []string
	principal []string
}

// NewDefinition builds a definition. It panics on a duplicate or empty name
// or a nil converter, since definitions are package-level tables.
func NewDefinition(entries ...Entry) *AttributesDefinition {
	d := &AttributesDefinition{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.name == "" || e.conv == nil {
			panic("profile: attribute needs a name and a converter")
		}
		if _, dup := d.index[e.name]; dup {
			panic(fmt.Sprintf("profile: duplicate attribute %q", e.name))
		}
		d.index[e.name] = len(d.entries)
		d.entries = append(d.entries, e)
		d.all = append(d.all, e.name)
		if e.principal {
			d.principal = append(d.principal, e.name)
		}
	}
	return d
}

// AllAttributes returns every declared name in declaration order.
func (d *AttributesDefinition) AllAttributes() []string {
	return append([]string(nil), d.all...)
}

// PrincipalAttributes returns the principal subset in declaration order.
func (d *AttributesDefinition) PrincipalAttributes() []string {
	return append([]string(nil), d.principal...)
}

// Contains reports whether name is declared.
func (d *AttributesDefinition) Contains(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Convert runs the converter declared for name.
func (d *AttributesDefinition) Convert(name string, v gjson.Result) (any, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("profile: attribute %q is not declared", name)
	}
	return d.entries[i].conv(v)
}

package profile

import (
	"encoding/json"
	"maps"
	"net/url"
	"time"

	"golang.org/x/text/language"
)

// UserProfile is the typed result of one successful authentication. It is
// populated once by Extract and never mutated afterwards.
type UserProfile struct {
	id         string
	typ        string
	credential any
	attrs      map[string]any
	def        *AttributesDefinition
	common     CommonFields
}

// ID returns the provider's identifier for the user.
func (p *UserProfile) ID() string { return p.id }

// Type returns the provider type that produced the profile.
func (p *UserProfile) Type() string { return p.typ }

// TypedID returns "type#id", unique across providers.
func (p *UserProfile) TypedID() string { return p.typ + "#" + p.id }

// Credential returns the access credential the profile was fetched with.
func (p *UserProfile) Credential() any { return p.credential }

// Definition returns the attribute table the profile was built from.
func (p *UserProfile) Definition() *AttributesDefinition { return p.def }

// Get returns the converted value of name.
func (p *UserProfile) Get(name string) (any, bool) {
	v, ok := p.attrs[name]
	return v, ok
}

// Attributes returns a copy of every present attribute.
func (p *UserProfile) Attributes() map[string]any {
	return maps.Clone(p.attrs)
}

// Attribute returns the value of name if it is present and of type T.
func Attribute[T any](p *UserProfile, name string) (T, bool) {
	t, ok := p.attrs[name].(T)
	return t, ok
}

// String returns a string attribute, or the text of a URL or other
// Stringer attribute.
func (p *UserProfile) String(name string) string {
	return stringify(p.attrs[name])
}

func (p *UserProfile) Bool(name string) bool {
	b, _ := p.attrs[name].(bool)
	return b
}

func (p *UserProfile) Int(name string) int {
	n, _ := p.attrs[name].(int)
	return n
}

func (p *UserProfile) Int64(name string) int64 {
	n, _ := p.attrs[name].(int64)
	return n
}

func (p *UserProfile) Float(name string) float64 {
	n, _ := p.attrs[name].(float64)
	return n
}

func (p *UserProfile) Time(name string) time.Time {
	t, _ := p.attrs[name].(time.Time)
	return t
}

func (p *UserProfile) URL(name string) *url.URL {
	u, _ := p.attrs[name].(*url.URL)
	return u
}

// Locale returns a locale attribute or language.Und.
func (p *UserProfile) Locale(name string) language.Tag {
	if t, ok := p.attrs[name].(language.Tag); ok {
		return t
	}
	return language.Und
}

// Gender returns a gender attribute or GenderUnspecified.
func (p *UserProfile) Gender(name string) Gender {
	if g, ok := p.attrs[name].(Gender); ok {
		return g
	}
	return GenderUnspecified
}

// MarshalJSON renders the id, type, attributes and common view. The
// credential is left out.
func (p *UserProfile) MarshalJSON() ([]byte, error) {
	attrs := make(map[string]any, len(p.attrs))
	for k, v := range p.attrs {
		if u, ok := v.(*url.URL); ok {
			v = u.String()
		}
		attrs[k] = v
	}
	return json.Marshal(struct {
		ID         string         `json:"id"`
		Type       string         `json:"type"`
		Attributes map[string]any `json:"attributes"`
		Common     Common         `json:"common"`
	}{p.id, p.typ, attrs, p.Common()})
}

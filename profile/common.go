package profile

import (
	"net/url"

	"golang.org/x/text/language"
)

// Gender is the normalized gender of a user.
type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderUnspecified Gender = "unspecified"
)

// CommonFields names, per provider, the attributes that feed the common
// view. An empty name means the provider has no such attribute.
type CommonFields struct {
	Email       string
	FirstName   string
	FamilyName  string
	DisplayName string
	Username    string
	Gender      string
	Locale      string
	PictureURL  string
	ProfileURL  string
	Location    string
}

// Common is the provider-independent view of a profile.
type Common struct {
	Email       string       `json:"email,omitempty"`
	FirstName   string       `json:"first_name,omitempty"`
	FamilyName  string       `json:"family_name,omitempty"`
	DisplayName string       `json:"display_name,omitempty"`
	Username    string       `json:"username,omitempty"`
	Gender      Gender       `json:"gender"`
	Locale      language.Tag `json:"locale"`
	PictureURL  string       `json:"picture_url,omitempty"`
	ProfileURL  string       `json:"profile_url,omitempty"`
	Location    string       `json:"location,omitempty"`
}

// Common returns the normalized view. Missing values are empty, the gender
// defaults to GenderUnspecified and the locale to language.Und.
func (p *UserProfile) Common() Common {
	f := p.common
	return Common{
		Email:       p.String(f.Email),
		FirstName:   p.String(f.FirstName),
		FamilyName:  p.String(f.FamilyName),
		DisplayName: p.String(f.DisplayName),
		Username:    p.String(f.Username),
		Gender:      p.Gender(f.Gender),
		Locale:      p.Locale(f.Locale),
		PictureURL:  p.String(f.PictureURL),
		ProfileURL:  p.String(f.ProfileURL),
		Location:    p.String(f.Location),
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case *url.URL:
		return x.String()
	case interface{ String() string }:
		return x.String()
	}
	return ""
}

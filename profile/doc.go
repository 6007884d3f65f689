// Package profile turns provider profile responses into typed user profiles.
//
// Each provider type declares an AttributesDefinition: an ordered table of
// attribute names and converters, some flagged as principal for minimal
// scopes. Extract walks that table over a parsed response:
//
//	def := profile.NewDefinition(
//	    profile.Principal("email", profile.String),
//	    profile.Attr("locale", profile.Locale),
//	    profile.Attr("gender", profile.DefaultGender),
//	)
//	node, ok := profile.Parse(body)
//	if ok {
//	    p := profile.Extract(def, node, profile.Options{Type: "google2", IDPath: "id"})
//	    fmt.Println(p.ID(), p.String("email"), p.Locale("locale"))
//	}
//
// A missing or malformed field never fails an extraction. The attribute is
// simply absent from the profile.
package profile

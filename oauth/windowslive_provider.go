package oauth

import (
	"golang.org/x/oauth2"

	"github.com/gobeaver/beaver-social/profile"
)

var windowsLiveAttributes = profile.NewDefinition(
	profile.Principal("name", profile.String),
	profile.Attr("first_name", profile.String),
	profile.Attr("last_name", profile.String),
	profile.Attr("link", profile.URL),
	profile.Attr("gender", profile.DefaultGender),
	profile.Attr("locale", profile.Locale),
	profile.Attr("updated_time", profile.Date("2006-01-02T15:04:05-0700")),
)

// The Live API reads the access token from the query string.
func windowsLiveDefinition() Definition {
	return Definition{
		Type:     "windowslive",
		Protocol: OAuth2,
		Endpoints: Endpoints{
			AuthURL:    "https://login.live.com/oauth20_authorize.srf",
			TokenURL:   "https://login.live.com/oauth20_token.srf",
			ProfileURL: "https://apis.live.net/v5.0/me",
			AuthStyle:  oauth2.AuthStyleInParams,
		},
		Scope:      "wl.basic",
		Signature:  SignatureQuery,
		Attributes: windowsLiveAttributes,
		IDPath:     "id",
		Common: profile.CommonFields{
			FirstName:   "first_name",
			FamilyName:  "last_name",
			DisplayName: "name",
			Gender:      "gender",
			Locale:      "locale",
			ProfileURL:  "link",
		},
	}
}

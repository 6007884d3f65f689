package oauth

import (
	"fmt"

	"golang.org/x/oauth2"

	"github.com/gobeaver/beaver-social/profile"
)

// Google scope presets selected with ProviderConfig.ScopeMode.
const (
	GoogleScopeEmail           = "email"
	GoogleScopeProfile         = "profile"
	GoogleScopeEmailAndProfile = "email_and_profile"

	googleProfileScope = "https://www.googleapis.com/auth/userinfo.profile"
	googleEmailScope   = "https://www.googleapis.com/auth/userinfo.email"
)

var google2Attributes = profile.NewDefinition(
	profile.Principal("email", profile.String),
	profile.Principal("verified_email", profile.Boolean),
	profile.Attr("name", profile.String),
	profile.Attr("given_name", profile.String),
	profile.Attr("family_name", profile.String),
	profile.Attr("link", profile.URL),
	profile.Attr("picture", profile.URL),
	profile.Attr("gender", profile.DefaultGender),
	profile.Attr("locale", profile.Locale),
	profile.Attr("birthday", profile.Date("2006-01-02")),
)

// googleScopes maps a scope mode to the scope string. Only the email scope
// limits extraction to the principal attributes.
func googleScopes(mode string) (string, bool, error) {
	switch mode {
	case GoogleScopeEmail:
		return googleEmailScope, true, nil
	case GoogleScopeProfile:
		return googleProfileScope, false, nil
	case GoogleScopeEmailAndProfile, "":
		return googleProfileScope + " " + googleEmailScope, false, nil
	}
	return "", false, fmt.Errorf("%w: google2 has no scope mode %q", ErrInvalidConfig, mode)
}

func google2Definition() Definition {
	return Definition{
		Type:     "google2",
		Protocol: OAuth2,
		Endpoints: Endpoints{
			AuthURL:    "https://accounts.google.com/o/oauth2/auth",
			TokenURL:   "https://accounts.google.com/o/oauth2/token",
			ProfileURL: "https://www.googleapis.com/oauth2/v2/userinfo",
			AuthStyle:  oauth2.AuthStyleInParams,
		},
		Scopes:     googleScopes,
		Attributes: google2Attributes,
		IDPath:     "id",
		Common: profile.CommonFields{
			Email:       "email",
			FirstName:   "given_name",
			FamilyName:  "family_name",
			DisplayName: "name",
			Gender:      "gender",
			Locale:      "locale",
			PictureURL:  "picture",
			ProfileURL:  "link",
		},
	}
}

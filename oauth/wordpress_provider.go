package oauth

import (
	"net/url"

	"golang.org/x/oauth2"

	"github.com/gobeaver/beaver-social/profile"
)

// WordPressLinks is the links object of a WordPress.com user.
type WordPressLinks struct {
	Self *url.URL
	Help *url.URL
	Site *url.URL
}

var wordPressLinks = profile.ObjectOf(func(f profile.Fields) WordPressLinks {
	return WordPressLinks{Self: f.URL("self"), Help: f.URL("help"), Site: f.URL("site")}
})

var wordPressAttributes = profile.NewDefinition(
	profile.Principal("username", profile.String),
	profile.Principal("display_name", profile.String),
	profile.Attr("email", profile.String),
	profile.Attr("primary_blog", profile.Integer),
	profile.Attr("avatar_URL", profile.URL),
	profile.Attr("profile_URL", profile.URL),
	profile.Attr("links", wordPressLinks),
)

func wordPressDefinition() Definition {
	return Definition{
		Type:     "wordpress",
		Protocol: OAuth2,
		Endpoints: Endpoints{
			AuthURL:    "https://public-api.wordpress.com/oauth2/authorize",
			TokenURL:   "https://public-api.wordpress.com/oauth2/token",
			ProfileURL: "https://public-api.wordpress.com/rest/v1/me/",
			AuthStyle:  oauth2.AuthStyleInParams,
		},
		Attributes: wordPressAttributes,
		IDPath:     "ID",
		Common: profile.CommonFields{
			Email:       "email",
			DisplayName: "display_name",
			Username:    "username",
			PictureURL:  "avatar_URL",
			ProfileURL:  "profile_URL",
		},
	}
}

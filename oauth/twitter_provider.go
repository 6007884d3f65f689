package oauth

import (
	"time"

	"github.com/gobeaver/beaver-social/profile"
)

var twitterAttributes = profile.NewDefinition(
	profile.Principal("screen_name", profile.String),
	profile.Principal("name", profile.String),
	profile.Attr("description", profile.String),
	profile.Attr("location", profile.String),
	profile.Attr("lang", profile.Locale),
	profile.Attr("time_zone", profile.String),
	profile.Attr("utc_offset", profile.Integer),
	profile.Attr("url", profile.URL),
	profile.Attr("profile_image_url", profile.URL),
	profile.Attr("profile_image_url_https", profile.URL),
	profile.Attr("profile_background_color", profile.String),
	profile.Attr("profile_background_image_url", profile.URL),
	profile.Attr("profile_link_color", profile.String),
	profile.Attr("profile_text_color", profile.String),
	profile.Attr("created_at", profile.Date(time.RubyDate)),
	profile.Attr("contributors_enabled", profile.Boolean),
	profile.Attr("default_profile", profile.Boolean),
	profile.Attr("default_profile_image", profile.Boolean),
	profile.Attr("geo_enabled", profile.Boolean),
	profile.Attr("is_translator", profile.Boolean),
	profile.Attr("protected", profile.Boolean),
	profile.Attr("verified", profile.Boolean),
	profile.Attr("notifications", profile.Boolean),
	profile.Attr("following", profile.Boolean),
	profile.Attr("follow_request_sent", profile.Boolean),
	profile.Attr("favourites_count", profile.Integer),
	profile.Attr("followers_count", profile.Integer),
	profile.Attr("friends_count", profile.Integer),
	profile.Attr("listed_count", profile.Integer),
	profile.Attr("statuses_count", profile.Integer),
)

// Twitter reports a refused authorization with a "denied" parameter instead
// of the error family.
func twitterDefinition() Definition {
	return Definition{
		Type:     "twitter",
		Protocol: OAuth1,
		Endpoints: Endpoints{
			RequestTokenURL: "https://api.twitter.com/oauth/request_token",
			AuthURL:         "https://api.twitter.com/oauth/authenticate",
			AccessTokenURL:  "https://api.twitter.com/oauth/access_token",
			ProfileURL:      "https://api.twitter.com/1.1/account/verify_credentials.json",
		},
		Attributes:  twitterAttributes,
		IDPath:      "id_str",
		DeniedParam: "denied",
		Common: profile.CommonFields{
			DisplayName: "name",
			Username:    "screen_name",
			Locale:      "lang",
			PictureURL:  "profile_image_url_https",
			ProfileURL:  "url",
			Location:    "location",
		},
	}
}

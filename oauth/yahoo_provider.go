package oauth

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gobeaver/beaver-social/profile"
)

// YahooDisclosure is one entry of the disclosures list.
type YahooDisclosure struct {
	Acceptance string
	Name       string
	Seen       time.Time
	Version    string
}

// YahooEmail is one entry of the emails list.
type YahooEmail struct {
	ID      int
	Primary bool
	Handle  string
	Type    string
}

// YahooImage is the profile picture object.
type YahooImage struct {
	URL    *url.URL
	Width  int
	Height int
	Size   string
}

var yahooDate = profile.Date(time.RFC3339)

var yahooDisclosure = profile.ObjectOf(func(f profile.Fields) YahooDisclosure {
	return YahooDisclosure{
		Acceptance: f.String("acceptance"),
		Name:       f.String("name"),
		Seen:       f.Time("seen", yahooDate),
		Version:    f.String("version"),
	}
})

var yahooEmail = profile.ObjectOf(func(f profile.Fields) YahooEmail {
	return YahooEmail{
		ID:      f.Int("id"),
		Primary: f.Bool("primary"),
		Handle:  f.String("handle"),
		Type:    f.String("type"),
	}
})

var yahooImage = profile.ObjectOf(func(f profile.Fields) YahooImage {
	return YahooImage{
		URL:    f.URL("imageUrl"),
		Width:  f.Int("width"),
		Height: f.Int("height"),
		Size:   f.String("size"),
	}
})

var yahooAttributes = profile.NewDefinition(
	profile.Principal("nickname", profile.String),
	profile.Principal("emails", profile.ListOf[YahooEmail](yahooEmail)),
	profile.Attr("aboutMe", profile.String),
	profile.Attr("ageCategory", profile.String),
	profile.Attr("birthYear", profile.Integer),
	profile.Attr("birthdate", profile.Date("01/02")),
	profile.Attr("created", yahooDate),
	profile.Attr("displayAge", profile.Integer),
	profile.Attr("disclosures", profile.ListOf[YahooDisclosure](yahooDisclosure)),
	profile.Attr("familyName", profile.String),
	profile.Attr("givenName", profile.String),
	profile.Attr("gender", profile.GenderOf(map[string]profile.Gender{
		"M": profile.GenderMale,
		"F": profile.GenderFemale,
	})),
	profile.Attr("image", yahooImage),
	profile.Attr("lang", profile.Locale),
	profile.Attr("location", profile.String),
	profile.Attr("memberSince", yahooDate),
	profile.Attr("profileUrl", profile.URL),
	profile.Attr("timeZone", profile.String),
	profile.Attr("updated", yahooDate),
	profile.Attr("uri", profile.URL),
)

// yahooGUID is the introspective guid resource.
type yahooGUID struct {
	Value string `xml:"value"`
}

// fetchYahooProfile reads the user's guid as XML from profileURL, then the
// JSON profile of that guid. Without a guid the first body is returned and
// fails to parse, which makes the profile absent.
func fetchYahooProfile(ctx context.Context, f Fetcher, profileURL string) ([]byte, error) {
	body, err := f.Get(ctx, profileURL)
	if err != nil {
		return nil, err
	}

	var guid yahooGUID
	if err := xml.Unmarshal(body, &guid); err != nil || strings.TrimSpace(guid.Value) == "" {
		return body, nil
	}

	next, err := resolveURL(profileURL, "../user/"+url.PathEscape(strings.TrimSpace(guid.Value))+"/profile?format=json")
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo profile url: %v", ErrInvalidConfig, err)
	}
	return f.Get(ctx, next)
}

func yahooDefinition() Definition {
	return Definition{
		Type:     "yahoo",
		Protocol: OAuth1,
		Endpoints: Endpoints{
			RequestTokenURL: "https://api.login.yahoo.com/oauth/v2/get_request_token",
			AuthURL:         "https://api.login.yahoo.com/oauth/v2/request_auth",
			AccessTokenURL:  "https://api.login.yahoo.com/oauth/v2/get_token",
			ProfileURL:      "https://social.yahooapis.com/v1/me/guid?format=xml",
		},
		Attributes:   yahooAttributes,
		IDPath:       "guid",
		RootPath:     "profile",
		FetchProfile: fetchYahooProfile,
		Common: profile.CommonFields{
			FirstName:   "givenName",
			FamilyName:  "familyName",
			DisplayName: "nickname",
			Gender:      "gender",
			Locale:      "lang",
			ProfileURL:  "profileUrl",
			Location:    "location",
		},
	}
}

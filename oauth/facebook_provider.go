package oauth

import (
	"time"

	"golang.org/x/oauth2"

	"github.com/gobeaver/beaver-social/profile"
)

// FacebookObject is the {id, name} reference Facebook uses for pages,
// places and people.
type FacebookObject struct {
	ID   string
	Name string
}

// FacebookEducation is one entry of the education list.
type FacebookEducation struct {
	School FacebookObject
	Year   FacebookObject
	Type   string
}

// FacebookWork is one entry of the work list.
type FacebookWork struct {
	Employer  FacebookObject
	Location  FacebookObject
	Position  FacebookObject
	StartDate time.Time
	EndDate   time.Time
}

var facebookObject = profile.ObjectOf(func(f profile.Fields) FacebookObject {
	return FacebookObject{ID: f.String("id"), Name: f.String("name")}
})

func fbObject(f profile.Fields, name string) FacebookObject {
	o, _ := f.Value(name, facebookObject).(FacebookObject)
	return o
}

var facebookMonth = profile.Date("2006-01", "2006-01-02")

var facebookEducation = profile.ObjectOf(func(f profile.Fields) FacebookEducation {
	return FacebookEducation{
		School: fbObject(f, "school"),
		Year:   fbObject(f, "year"),
		Type:   f.String("type"),
	}
})

var facebookWork = profile.ObjectOf(func(f profile.Fields) FacebookWork {
	return FacebookWork{
		Employer:  fbObject(f, "employer"),
		Location:  fbObject(f, "location"),
		Position:  fbObject(f, "position"),
		StartDate: f.Time("start_date", facebookMonth),
		EndDate:   f.Time("end_date", facebookMonth),
	}
})

var facebookAttributes = profile.NewDefinition(
	profile.Principal("name", profile.String),
	profile.Principal("first_name", profile.String),
	profile.Principal("last_name", profile.String),
	profile.Principal("email", profile.String),
	profile.Attr("middle_name", profile.String),
	profile.Attr("username", profile.String),
	profile.Attr("gender", profile.DefaultGender),
	profile.Attr("locale", profile.Locale),
	profile.Attr("languages", profile.ListOf[FacebookObject](facebookObject)),
	profile.Attr("link", profile.URL),
	profile.Attr("third_party_id", profile.String),
	profile.Attr("timezone", profile.Integer),
	profile.Attr("updated_time", profile.Date("2006-01-02T15:04:05-0700")),
	profile.Attr("verified", profile.Boolean),
	profile.Attr("bio", profile.String),
	profile.Attr("birthday", profile.Date("01/02/2006", "01/02")),
	profile.Attr("education", profile.ListOf[FacebookEducation](facebookEducation)),
	profile.Attr("hometown", facebookObject),
	profile.Attr("interested_in", profile.ListOf[string](profile.String)),
	profile.Attr("location", facebookObject),
	profile.Attr("political", profile.String),
	profile.Attr("favorite_athletes", profile.ListOf[FacebookObject](facebookObject)),
	profile.Attr("favorite_teams", profile.ListOf[FacebookObject](facebookObject)),
	profile.Attr("quotes", profile.String),
	profile.Attr("relationship_status", profile.String),
	profile.Attr("religion", profile.String),
	profile.Attr("significant_other", facebookObject),
	profile.Attr("website", profile.String),
	profile.Attr("work", profile.ListOf[FacebookWork](facebookWork)),
)

func facebookDefinition() Definition {
	return Definition{
		Type:     "facebook",
		Protocol: OAuth2,
		Endpoints: Endpoints{
			AuthURL:    "https://www.facebook.com/dialog/oauth",
			TokenURL:   "https://graph.facebook.com/oauth/access_token",
			ProfileURL: "https://graph.facebook.com/me",
			AuthStyle:  oauth2.AuthStyleInParams,
		},
		Scope:      "email",
		Attributes: facebookAttributes,
		IDPath:     "id",
		Common: profile.CommonFields{
			Email:       "email",
			FirstName:   "first_name",
			FamilyName:  "last_name",
			DisplayName: "name",
			Username:    "username",
			Gender:      "gender",
			Locale:      "locale",
			ProfileURL:  "link",
		},
	}
}

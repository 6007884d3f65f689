package oauth

import (
	"time"

	"golang.org/x/oauth2"

	"github.com/gobeaver/beaver-social/profile"
)

// GitHubPlan is the plan object of a GitHub user.
type GitHubPlan struct {
	Name          string
	Collaborators int
	Space         int64
	PrivateRepos  int
}

var githubPlan = profile.ObjectOf(func(f profile.Fields) GitHubPlan {
	return GitHubPlan{
		Name:          f.String("name"),
		Collaborators: f.Int("collaborators"),
		Space:         f.Int64("space"),
		PrivateRepos:  f.Int("private_repos"),
	}
})

var githubAttributes = profile.NewDefinition(
	profile.Principal("login", profile.String),
	profile.Principal("name", profile.String),
	profile.Principal("email", profile.String),
	profile.Attr("type", profile.String),
	profile.Attr("blog", profile.String),
	profile.Attr("url", profile.URL),
	profile.Attr("html_url", profile.URL),
	profile.Attr("avatar_url", profile.URL),
	profile.Attr("gravatar_id", profile.String),
	profile.Attr("location", profile.String),
	profile.Attr("company", profile.String),
	profile.Attr("bio", profile.String),
	profile.Attr("hireable", profile.Boolean),
	profile.Attr("public_repos", profile.Integer),
	profile.Attr("public_gists", profile.Integer),
	profile.Attr("private_gists", profile.Integer),
	profile.Attr("followers", profile.Integer),
	profile.Attr("following", profile.Integer),
	profile.Attr("collaborators", profile.Integer),
	profile.Attr("disk_usage", profile.Integer),
	profile.Attr("owned_private_repos", profile.Integer),
	profile.Attr("total_private_repos", profile.Integer),
	profile.Attr("created_at", profile.Date(time.RFC3339)),
	profile.Attr("plan", githubPlan),
)

func githubDefinition() Definition {
	return Definition{
		Type:     "github",
		Protocol: OAuth2,
		Endpoints: Endpoints{
			AuthURL:    "https://github.com/login/oauth/authorize",
			TokenURL:   "https://github.com/login/oauth/access_token",
			ProfileURL: "https://api.github.com/user",
			AuthStyle:  oauth2.AuthStyleInParams,
		},
		Scope:      "user",
		Attributes: githubAttributes,
		IDPath:     "id",
		Common: profile.CommonFields{
			Email:       "email",
			DisplayName: "name",
			Username:    "login",
			PictureURL:  "avatar_url",
			ProfileURL:  "html_url",
			Location:    "location",
		},
	}
}

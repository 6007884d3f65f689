package oauth

import (
	"github.com/gobeaver/beaver-social/profile"
)

// DropboxQuota is the quota_info object of a Dropbox account, in bytes.
type DropboxQuota struct {
	Normal int64
	Shared int64
	Quota  int64
}

var dropboxQuota = profile.ObjectOf(func(f profile.Fields) DropboxQuota {
	return DropboxQuota{
		Normal: f.Int64("normal"),
		Shared: f.Int64("shared"),
		Quota:  f.Int64("quota"),
	}
})

var dropboxAttributes = profile.NewDefinition(
	profile.Principal("display_name", profile.String),
	profile.Principal("email", profile.String),
	profile.Attr("referral_link", profile.URL),
	profile.Attr("country", profile.String),
	profile.Attr("quota_info", dropboxQuota),
)

func dropboxDefinition() Definition {
	return Definition{
		Type:     "dropbox",
		Protocol: OAuth1,
		Endpoints: Endpoints{
			RequestTokenURL: "https://api.dropbox.com/1/oauth/request_token",
			AuthURL:         "https://www.dropbox.com/1/oauth/authorize",
			AccessTokenURL:  "https://api.dropbox.com/1/oauth/access_token",
			ProfileURL:      "https://api.dropbox.com/1/account/info",
		},
		Attributes: dropboxAttributes,
		IDPath:     "uid",
		Common: profile.CommonFields{
			Email:       "email",
			DisplayName: "display_name",
		},
	}
}

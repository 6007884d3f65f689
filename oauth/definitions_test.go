package oauth_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/gobeaver/beaver-social/oauth"
	"github.com/gobeaver/beaver-social/profile"
)

func extract(t *testing.T, typ, body string) *profile.UserProfile {
	t.Helper()
	def, ok := oauth.LookupDefinition(typ)
	if !ok {
		t.Fatalf("%s definition not registered", typ)
	}
	node, ok := profile.Parse([]byte(body))
	if !ok {
		t.Fatalf("Invalid %s sample body", typ)
	}
	return profile.Extract(def.Attributes, node, profile.Options{
		Type:     typ,
		IDPath:   def.IDPath,
		RootPath: def.RootPath,
		Common:   def.Common,
	})
}

func TestFacebookDefinition(t *testing.T) {
	up := extract(t, "facebook", `{
		"id": "100001",
		"name": "Mark Example",
		"first_name": "Mark",
		"last_name": "Example",
		"email": "mark@example.com",
		"locale": "fr_FR",
		"link": "https://www.facebook.com/mark"
	}`)

	if got := up.TypedID(); got != "facebook#100001" {
		t.Errorf("TypedID = %q", got)
	}
	if got := up.Locale("locale").String(); got != "fr-FR" {
		t.Errorf("locale = %q, want fr-FR", got)
	}
	common := up.Common()
	if common.Email != "mark@example.com" || common.FamilyName != "Example" {
		t.Errorf("Common = %+v", common)
	}
}

func TestWordPressDefinition(t *testing.T) {
	up := extract(t, "wordpress", `{
		"ID": 5,
		"username": "wpuser",
		"display_name": "WP User",
		"primary_blog": 123,
		"links": {"self": "https://public-api.wordpress.com/rest/v1/me", "site": "https://public-api.wordpress.com/rest/v1/sites/123"}
	}`)

	if up.ID() != "5" {
		t.Errorf("ID = %q, want 5", up.ID())
	}
	if got := up.Int("primary_blog"); got != 123 {
		t.Errorf("primary_blog = %d", got)
	}
	links, ok := profile.Attribute[oauth.WordPressLinks](up, "links")
	if !ok {
		t.Fatal("Expected a links attribute")
	}
	if links.Self == nil || links.Self.String() != "https://public-api.wordpress.com/rest/v1/me" {
		t.Errorf("links.self = %v", links.Self)
	}
	if links.Help != nil {
		t.Errorf("links.help should be nil, got %v", links.Help)
	}
}

func TestDropboxDefinition(t *testing.T) {
	up := extract(t, "dropbox", `{
		"uid": 12345678,
		"display_name": "Drop Box",
		"email": "drop@example.com",
		"referral_link": "https://www.dropbox.com/referrals/r1a2n3d4m5s6t7",
		"quota_info": {"normal": 680031877871, "shared": 253738410565, "quota": 107374182400000}
	}`)

	if up.ID() != "12345678" {
		t.Errorf("ID = %q", up.ID())
	}
	quota, ok := profile.Attribute[oauth.DropboxQuota](up, "quota_info")
	want := oauth.DropboxQuota{Normal: 680031877871, Shared: 253738410565, Quota: 107374182400000}
	if !ok || quota != want {
		t.Errorf("quota_info = (%+v, %v), want %+v", quota, ok, want)
	}
}

func TestGoogleEmailScopeExtractsPrincipalOnly(t *testing.T) {
	srv := newOAuth2Server(t, `{
		"id": "113",
		"email": "user@example.com",
		"verified_email": true,
		"name": "Some User",
		"locale": "en"
	}`)

	p, err := oauth.NewProvider(oauth.ProviderConfig{
		Type:        "google2",
		Key:         testKey,
		Secret:      testSecret,
		CallbackURL: testBase + "?oauth_provider_type=google2",
		ScopeMode:   oauth.GoogleScopeEmail,
		AuthURL:     srv.AuthURL(),
		TokenURL:    srv.TokenURL(),
		ProfileURL:  srv.ProfileURL(),
		HTTPClient:  srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if err := p.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	req := p.NewRequest()
	params := approve(t, srv, req)

	up, ok, err := req.Authenticate(context.Background(), params)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected a profile")
	}

	if up.ID() != "113" {
		t.Errorf("ID = %q", up.ID())
	}
	if got := up.String("email"); got != "user@example.com" {
		t.Errorf("email = %q", got)
	}
	if !up.Bool("verified_email") {
		t.Error("Expected verified_email to be true")
	}
	for _, name := range []string{"name", "locale"} {
		if _, ok := up.Get(name); ok {
			t.Errorf("%s is outside the email scope and should be absent", name)
		}
	}
	if got, want := srv.Scopes(), []string{"https://www.googleapis.com/auth/userinfo.email"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Requested scopes = %v, want %v", got, want)
	}
}

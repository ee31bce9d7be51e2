package oauth_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/smartbuy/auth/pkg/oauth"
)

var testGoogleConfig = oauth.GoogleConfig{
	ClientID:     "client-id",
	ClientSecret: "client-secret",
	RedirectURI:  "https://api.smartbuy.test/auth/google/callback",
}

// fakeIDToken builds an unsigned compact JWT with the given claims, enough
// for the insecure decoder which never checks the signature.
func fakeIDToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

// tokenEndpoint returns a stub provider token endpoint serving the given
// JSON response.
func tokenEndpoint(t *testing.T, status int, body map[string]any) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *oauth.GoogleClient {
	return oauth.NewGoogleClient(testGoogleConfig, oauth.InsecureClaimsDecoder{},
		oauth.WithEndpoint(oauth2.Endpoint{TokenURL: srv.URL + "/token"}))
}

func TestGoogleClientAuthCodeURL(t *testing.T) {
	t.Parallel()

	client := oauth.NewGoogleClient(testGoogleConfig, oauth.InsecureClaimsDecoder{})

	u, err := url.Parse(client.AuthCodeURL("state-123"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, testGoogleConfig.RedirectURI, q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "state-123", q.Get("state"))
}

func TestGoogleClientExchange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("normalizes identity from the id token", func(t *testing.T) {
		t.Parallel()

		idToken := fakeIDToken(t, map[string]any{
			"sub":            "google-uid-1",
			"email":          "User@Example.com",
			"email_verified": true,
			"name":           "User A",
		})
		srv := tokenEndpoint(t, http.StatusOK, map[string]any{
			"access_token": "at",
			"token_type":   "Bearer",
			"id_token":     idToken,
		})

		identity, err := newTestClient(srv).Exchange(ctx, "good-code")
		require.NoError(t, err)

		assert.Equal(t, oauth.ProviderGoogle, identity.Provider)
		assert.Equal(t, "google-uid-1", identity.Subject)
		assert.Equal(t, "user@example.com", identity.Email)
		assert.Equal(t, "User A", identity.Name)
		assert.True(t, identity.EmailVerified)
	})

	t.Run("display name falls back to the email local part", func(t *testing.T) {
		t.Parallel()

		idToken := fakeIDToken(t, map[string]any{
			"sub":   "google-uid-2",
			"email": "someone@example.com",
		})
		srv := tokenEndpoint(t, http.StatusOK, map[string]any{
			"access_token": "at",
			"token_type":   "Bearer",
			"id_token":     idToken,
		})

		identity, err := newTestClient(srv).Exchange(ctx, "good-code")
		require.NoError(t, err)
		assert.Equal(t, "someone", identity.Name)
	})

	t.Run("missing id_token fails the exchange", func(t *testing.T) {
		t.Parallel()

		srv := tokenEndpoint(t, http.StatusOK, map[string]any{
			"access_token": "at",
			"token_type":   "Bearer",
		})

		_, err := newTestClient(srv).Exchange(ctx, "good-code")
		assert.ErrorIs(t, err, oauth.ErrMissingIDToken)
		assert.ErrorIs(t, err, oauth.ErrExchangeFailed)
	})

	t.Run("provider rejection fails the exchange", func(t *testing.T) {
		t.Parallel()

		srv := tokenEndpoint(t, http.StatusBadRequest, map[string]any{
			"error": "invalid_grant",
		})

		_, err := newTestClient(srv).Exchange(ctx, "bad-code")
		assert.ErrorIs(t, err, oauth.ErrExchangeFailed)
	})

	t.Run("id token without email fails the exchange", func(t *testing.T) {
		t.Parallel()

		idToken := fakeIDToken(t, map[string]any{"sub": "google-uid-3"})
		srv := tokenEndpoint(t, http.StatusOK, map[string]any{
			"access_token": "at",
			"token_type":   "Bearer",
			"id_token":     idToken,
		})

		_, err := newTestClient(srv).Exchange(ctx, "good-code")
		assert.ErrorIs(t, err, oauth.ErrExchangeFailed)
	})
}

func TestInsecureClaimsDecoder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	decoder := oauth.InsecureClaimsDecoder{}

	t.Run("decodes payload without signature check", func(t *testing.T) {
		t.Parallel()

		idToken := fakeIDToken(t, map[string]any{"sub": "s", "email": "a@b.co"})
		claims, err := decoder.Verify(ctx, idToken)
		require.NoError(t, err)
		assert.Equal(t, "s", claims.Subject)
		assert.Equal(t, "a@b.co", claims.Email)
	})

	t.Run("rejects non-JWT input", func(t *testing.T) {
		t.Parallel()

		for _, tok := range []string{"", "one", "a.b", "a.b.c.d"} {
			_, err := decoder.Verify(ctx, tok)
			assert.ErrorIs(t, err, oauth.ErrExchangeFailed, tok)
		}
	})

	t.Run("rejects garbage payload", func(t *testing.T) {
		t.Parallel()

		_, err := decoder.Verify(ctx, "h.!!!.s")
		assert.ErrorIs(t, err, oauth.ErrExchangeFailed)
	})
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faceattend/internal/account"
)

type fakeResolver struct {
	accounts map[string]account.Account
}

func (f *fakeResolver) Get(_ context.Context, id string) (account.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

func newGateRouter(t *testing.T, tokens *TokenService, resolver AccountResolver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAccount(tokens, resolver), func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"companyId": caller.CompanyID, "email": caller.Email})
	})
	return r
}

func TestRequireAccountMissingHeader(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	r := newGateRouter(t, tokens, &fakeResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAccountMalformedHeader(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	r := newGateRouter(t, tokens, &fakeResolver{})

	for _, header := range []string{"Bearer", "Bearer ", "token-without-scheme"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code, "header %q", header)
	}
}

func TestRequireAccountInvalidToken(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	r := newGateRouter(t, tokens, &fakeResolver{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAccountDeletedAccount(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	r := newGateRouter(t, tokens, &fakeResolver{})

	token, err := tokens.Issue("gone")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequireAccountAttachesIdentity(t *testing.T) {
	tokens := NewTokenService("secret", time.Hour)
	resolver := &fakeResolver{accounts: map[string]account.Account{
		"acct-1": {
			ID:          "acct-1",
			Name:        "Alice",
			Email:       "a@acme.com",
			Role:        "admin",
			CompanyID:   "acme",
			CompanyName: "Acme",
		},
	}}
	r := newGateRouter(t, tokens, resolver)

	token, err := tokens.Issue("acct-1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"companyId":"acme"`)
	assert.Contains(t, w.Body.String(), `"email":"a@acme.com"`)
}

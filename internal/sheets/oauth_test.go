package sheets

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, SaveToken(path, token))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, token.Expiry.Equal(loaded.Expiry))
}

func TestLoadToken_Errors(t *testing.T) {
	_, err := LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0600))
	_, err = LoadToken(bad)
	assert.Error(t, err)
}

func TestOAuthConfig(t *testing.T) {
	c := oauthConfig("id", "secret", "http://localhost:9999/callback")
	assert.Equal(t, "id", c.ClientID)
	assert.Equal(t, "http://localhost:9999/callback", c.RedirectURL)
	assert.Contains(t, c.Scopes[0], "spreadsheets")
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantErr    string
	}{
		{name: "accepted", query: "state=s1&code=abc", wantStatus: http.StatusOK, wantCode: "abc"},
		{name: "wrong state", query: "state=other&code=abc", wantStatus: http.StatusBadRequest, wantErr: "state mismatch"},
		{name: "denied", query: "state=s1&error=access_denied", wantStatus: http.StatusBadRequest, wantErr: "access_denied"},
		{name: "no code", query: "state=s1", wantStatus: http.StatusBadRequest, wantErr: "no authorization code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make(chan callbackResult, 1)
			rec := httptest.NewRecorder()

			callbackHandler("s1", results).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, callbackPath+"?"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			result := <-results
			assert.Equal(t, tt.wantCode, result.code)
			if tt.wantErr == "" {
				assert.NoError(t, result.err)
			} else {
				assert.ErrorContains(t, result.err, tt.wantErr)
			}
		})
	}
}

func TestCallbackHandler_OnlyFirstResultKept(t *testing.T) {
	results := make(chan callbackResult, 1)
	handler := callbackHandler("s1", results)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, callbackPath+"?state=s1&code=first", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, callbackPath+"?state=s1&code=second", nil))

	assert.Equal(t, "first", (<-results).code)
	assert.Empty(t, results)
}

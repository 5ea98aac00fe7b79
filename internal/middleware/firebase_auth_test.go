package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct{}

func (stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	switch idToken {
	case "valid":
		return &auth.Token{UID: "fb-1", Claims: map[string]interface{}{"email": "sam@example.com", "name": "Sam Doe"}}, nil
	case "no-email":
		return &auth.Token{UID: "fb-2", Claims: map[string]interface{}{}}, nil
	}
	return nil, errors.New("token revoked")
}

func runFirebase(t *testing.T, header string) (string, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := echo.New().NewContext(req, httptest.NewRecorder())

	var uid string
	err := FirebaseIDToken(stubVerifier{})(func(c echo.Context) error {
		identity, ok := FirebaseIdentityFromContext(c)
		require.True(t, ok)
		uid = identity.UID
		return nil
	})(c)
	return uid, err
}

func TestFirebaseIDToken(t *testing.T) {
	uid, err := runFirebase(t, "Bearer valid")
	require.NoError(t, err)
	assert.Equal(t, "fb-1", uid)

	_, err = runFirebase(t, "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = runFirebase(t, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = runFirebase(t, "Bearer no-email")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

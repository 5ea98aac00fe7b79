package middleware

import (
	"net/http"

	"github.com/anonto42/buddyscript/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

const firebaseIdentityKey = "firebaseIdentity"

// FirebaseIDToken verifies the Firebase ID token sent as a Bearer credential and
// stores the resulting identity for the handler.
func FirebaseIDToken(verifier firebase.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
			}

			identity, err := firebase.VerifyIdentity(c.Request().Context(), verifier, idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token").SetInternal(err)
			}
			if identity.Email == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "Firebase account has no email address")
			}

			c.Set(firebaseIdentityKey, identity)
			return next(c)
		}
	}
}

// FirebaseIdentityFromContext returns the identity stored by FirebaseIDToken.
func FirebaseIdentityFromContext(c echo.Context) (firebase.Identity, bool) {
	identity, ok := c.Get(firebaseIdentityKey).(firebase.Identity)
	return identity, ok
}

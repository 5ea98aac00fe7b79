package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anonto42/buddyscript/backend/internal/middleware"
	"github.com/anonto42/buddyscript/backend/internal/models"
	"github.com/anonto42/buddyscript/backend/internal/repositories"
	"github.com/anonto42/buddyscript/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
	tokenTTL       time.Duration
	cookieSecure   bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
		cookieSecure:   cookieSecure,
	}
}

// RegisterAuthRoutes registers authentication-related routes. limit guards the
// credential endpoints.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, limit ...echo.MiddlewareFunc) {
	g.POST("/register", h.Register, limit...)
	g.POST("/login", h.Login, limit...)
	g.POST("/logout", h.Logout)
}

// RegisterFirebaseRoutes enables sign-in with a Firebase ID token.
func (h *AuthHandler) RegisterFirebaseRoutes(g *echo.Group, verifier firebase.TokenVerifier, limit ...echo.MiddlewareFunc) {
	mws := append([]echo.MiddlewareFunc{}, limit...)
	mws = append(mws, middleware.FirebaseIDToken(verifier))
	g.POST("/firebase-login", h.FirebaseLogin, mws...)
}

// Register creates a local account and starts a session
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = normalizeEmail(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already registered")
	} else if !models.IsNotFound(err) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return err
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login checks email and password and starts a session
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Email = normalizeEmail(req.Email)
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if models.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}
	if user.Password == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user":    user,
	})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.cookie("", -1))
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// FirebaseLogin signs in the Firebase account verified by middleware.FirebaseIDToken.
// An unknown UID is linked to the account with the same email only when the
// provider has verified that email; otherwise a new account is created.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	identity, ok := middleware.FirebaseIdentityFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing Firebase identity")
	}
	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, identity.UID)
	if err != nil && !models.IsNotFound(err) {
		return err
	}
	if user == nil {
		user, err = h.userRepository.GetUserByEmail(ctx, identity.Email)
		switch {
		case err == nil:
			if !identity.EmailVerified {
				return echo.NewHTTPError(http.StatusConflict, "An account with this email already exists. Sign in with your password or verify your email first")
			}
			user.FirebaseUID = &identity.UID
			if err := h.userRepository.UpdateUser(ctx, user); err != nil {
				return err
			}
		case models.IsNotFound(err):
			user = &models.User{
				FirstName:   identity.FirstName,
				LastName:    identity.LastName,
				Email:       identity.Email,
				FirebaseUID: &identity.UID,
			}
			if err := h.userRepository.CreateUser(ctx, user); err != nil {
				return err
			}
		default:
			return err
		}
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user":    user,
	})
}

func (h *AuthHandler) startSession(c echo.Context, user *models.User) error {
	token, err := middleware.GenerateToken(h.jwtSecret, user.ID, h.tokenTTL)
	if err != nil {
		return models.NewInternalError(errors.New("failed to generate token"))
	}
	c.SetCookie(h.cookie(token, int(h.tokenTTL.Seconds())))
	return nil
}

// SameSite=None lets the separately hosted client send the cookie; browsers only accept it with Secure.
func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.cookieSecure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: sameSite,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

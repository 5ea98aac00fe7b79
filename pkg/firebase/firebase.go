package firebase

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// TokenVerifier is the part of the Firebase auth client used for sign-in.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Identity is the account information carried by a verified ID token.
type Identity struct {
	UID   string
	Email string
	// EmailVerified is the provider's proof of mailbox ownership. Only a
	// verified email may be linked to an existing account.
	EmailVerified bool
	FirstName     string
	LastName      string
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Println("Firebase app and auth client initialized successfully!")
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

// VerifyIdentity checks the ID token and extracts who it belongs to.
func VerifyIdentity(ctx context.Context, verifier TokenVerifier, idToken string) (Identity, error) {
	token, err := verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return Identity{}, err
	}
	return IdentityFromToken(token), nil
}

// IdentityFromToken reads the email and display name claims. A missing
// display name falls back to the local part of the email.
func IdentityFromToken(token *auth.Token) Identity {
	id := Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = strings.ToLower(strings.TrimSpace(email))
	}
	id.EmailVerified, _ = token.Claims["email_verified"].(bool)

	name, _ := token.Claims["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(id.Email, "@")
	}
	first, last, _ := strings.Cut(name, " ")
	id.FirstName = truncate(first, 50)
	id.LastName = truncate(strings.TrimSpace(last), 50)
	if id.FirstName == "" {
		id.FirstName = "User"
	}
	if id.LastName == "" {
		id.LastName = "-"
	}
	return id
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max])
	}
	return s
}

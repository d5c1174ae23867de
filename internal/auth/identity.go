package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/coursekit/playground/internal/models"
	"github.com/google/uuid"
)

type contextKey string

const identityKey contextKey = "identity"

const (
	// AccessTokenCookie is the cookie the authentication service stores the access token in
	AccessTokenCookie = "access_token"
	// GuestCookie identifies an anonymous visitor's progress
	GuestCookie = "guest_id"
)

// AccessTokenValidator is the interface that wraps the ValidateAccessToken method
type AccessTokenValidator interface {
	// ValidateAccessToken validates an access token and returns the userID.
	//
	// Returns an error when the token is malformed, expired or not an access token.
	ValidateAccessToken(token string) (int, error)
}

// CookieOptions configures the guest cookie
type CookieOptions struct {
	// Secure marks the cookie as HTTPS only
	Secure bool
	// MaxAge in seconds; zero keeps the cookie for the browser session
	MaxAge int
}

// IdentityMiddleware resolves the caller's identity and stores it in the request context.
// A token is optional; a token that is present but invalid is rejected with 401.
// Every caller gets a guest_id cookie so progress made before signing in is kept.
func IdentityMiddleware(validator AccessTokenValidator, opts CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var identity models.Identity

			if token := extractToken(r); token != "" {
				userID, err := validator.ValidateAccessToken(token)
				if err != nil {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					w.Write([]byte(`{"error":"invalid or expired token"}`))
					return
				}
				identity.UserID = userID
			}

			identity.GuestID = guestID(w, r, opts)

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests without a signed-in user.
// It must run after IdentityMiddleware.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentity(r.Context())
		if !ok || !identity.Authenticated() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"authentication required","redirect":"/register"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetIdentity retrieves the identity from context
func GetIdentity(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// extractToken reads the token from the Authorization header, then from the cookie
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// guestID returns the guest id carried by the request, issuing a new cookie when
// it is absent or not a valid uuid
func guestID(w http.ResponseWriter, r *http.Request, opts CookieOptions) string {
	if cookie, err := r.Cookie(GuestCookie); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     GuestCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

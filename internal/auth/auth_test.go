package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coursekit/playground/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "b8a3c2267dc85f855dea9b46b452bf20"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func accessClaims(userID int, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID,
		"role":    1,
		"exp":     exp.Unix(),
		"iat":     time.Now().Unix(),
		"type":    "access",
	}
}

func TestTokenValidator_ValidateAccessToken(t *testing.T) {
	validator := NewTokenValidator(testSecret)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name          string
		token         string
		expectedID    int
		expectedError bool
	}{
		{
			name:       "valid access token",
			token:      signToken(t, jwt.SigningMethodHS256, []byte(testSecret), accessClaims(42, future)),
			expectedID: 42,
		},
		{
			name:          "expired token",
			token:         signToken(t, jwt.SigningMethodHS256, []byte(testSecret), accessClaims(42, time.Now().Add(-time.Minute))),
			expectedError: true,
		},
		{
			name:          "wrong secret",
			token:         signToken(t, jwt.SigningMethodHS256, []byte("other-secret"), accessClaims(42, future)),
			expectedError: true,
		},
		{
			name: "refresh token",
			token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"exp": future.Unix(), "type": "refresh",
			}),
			expectedError: true,
		},
		{
			name: "missing user id",
			token: signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
				"exp": future.Unix(), "type": "access",
			}),
			expectedError: true,
		},
		{
			name:          "unsigned token",
			token:         signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, accessClaims(42, future)),
			expectedError: true,
		},
		{
			name:          "garbage",
			token:         "not-a-token",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := validator.ValidateAccessToken(tt.token)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Zero(t, userID)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, userID)
			}
		})
	}
}

// stubValidator accepts the token "good" as user 7
type stubValidator struct{}

func (stubValidator) ValidateAccessToken(token string) (int, error) {
	if token == "good" {
		return 7, nil
	}
	return 0, errors.New("invalid")
}

const knownGuest = "5f0c6c8e-3d1a-4b7e-9a51-2c4f7f0e8b11"

func TestIdentityMiddleware(t *testing.T) {
	tests := []struct {
		name             string
		header           string
		cookies          []*http.Cookie
		expectedStatus   int
		expectedUserID   int
		expectedGuestID  string
		expectsNewCookie bool
	}{
		{
			name:             "anonymous visitor gets a guest cookie",
			expectedStatus:   http.StatusOK,
			expectsNewCookie: true,
		},
		{
			name:            "returning guest keeps id",
			cookies:         []*http.Cookie{{Name: GuestCookie, Value: knownGuest}},
			expectedStatus:  http.StatusOK,
			expectedGuestID: knownGuest,
		},
		{
			name:             "tampered guest cookie is replaced",
			cookies:          []*http.Cookie{{Name: GuestCookie, Value: "../../etc"}},
			expectedStatus:   http.StatusOK,
			expectsNewCookie: true,
		},
		{
			name:            "bearer token",
			header:          "Bearer good",
			cookies:         []*http.Cookie{{Name: GuestCookie, Value: knownGuest}},
			expectedStatus:  http.StatusOK,
			expectedUserID:  7,
			expectedGuestID: knownGuest,
		},
		{
			name:             "access token cookie",
			cookies:          []*http.Cookie{{Name: AccessTokenCookie, Value: "good"}},
			expectedStatus:   http.StatusOK,
			expectedUserID:   7,
			expectsNewCookie: true,
		},
		{
			name:           "invalid token rejected",
			header:         "Bearer bad",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.Identity
			handler := IdentityMiddleware(stubValidator{}, CookieOptions{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				identity, ok := GetIdentity(r.Context())
				require.True(t, ok)
				got = identity
			}))

			req := httptest.NewRequest(http.MethodGet, "/playground/demo", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			for _, c := range tt.cookies {
				req.AddCookie(c)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				assert.JSONEq(t, `{"error":"invalid or expired token"}`, w.Body.String())
				return
			}

			assert.Equal(t, tt.expectedUserID, got.UserID)
			require.NotEmpty(t, got.GuestID)
			if tt.expectedGuestID != "" {
				assert.Equal(t, tt.expectedGuestID, got.GuestID)
			}

			var issued *http.Cookie
			for _, c := range w.Result().Cookies() {
				if c.Name == GuestCookie {
					issued = c
				}
			}
			if tt.expectsNewCookie {
				require.NotNil(t, issued)
				assert.Equal(t, got.GuestID, issued.Value)
				assert.True(t, issued.HttpOnly)
				assert.Equal(t, "/", issued.Path)
			} else {
				assert.Nil(t, issued)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	tests := []struct {
		name           string
		identity       *models.Identity
		expectedStatus int
	}{
		{name: "user", identity: &models.Identity{UserID: 7}, expectedStatus: http.StatusOK},
		{name: "guest", identity: &models.Identity{GuestID: knownGuest}, expectedStatus: http.StatusUnauthorized},
		{name: "no identity", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/exports", nil)
			if tt.identity != nil {
				req = req.WithContext(WithIdentity(req.Context(), *tt.identity))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"authentication required","redirect":"/register"}`, w.Body.String())
			}
		})
	}
}

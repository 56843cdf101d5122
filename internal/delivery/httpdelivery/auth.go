package httpdelivery

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/application/common"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/audit"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/infrastructure/config"
	"github.com/AnderssonLeandro09/baloncesto-backend/pkg/response"
)

// Token verification errors.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenNoSubject = errors.New("token without user id")
	ErrTokenRevoked   = errors.New("token revoked")
)

var tokenMessages = map[error]string{
	ErrTokenExpired:   "El token ha expirado",
	ErrTokenInvalid:   "Token inválido",
	ErrTokenNoSubject: "Token sin ID de usuario",
	ErrTokenRevoked:   "El token ha sido revocado",
}

// Claims mirrors the tokens issued by the user module. Older tokens carry a
// single role and the user id in sub; newer ones a roles list and user_id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"user_id,omitempty"`
	Email  string   `json:"email,omitempty"`
	Name   string   `json:"name,omitempty"`
	Role   string   `json:"role,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}

// Actor converts the claims into the caller identity used by services.
func (c *Claims) Actor(token string) common.Actor {
	userID := c.UserID
	if userID == "" {
		userID = c.Subject
	}
	roles := append([]string(nil), c.Roles...)
	if c.Role != "" && !containsFold(roles, c.Role) {
		roles = append(roles, c.Role)
	}
	for i := range roles {
		roles[i] = strings.ToUpper(roles[i])
	}
	return common.Actor{UserID: userID, Email: c.Email, Name: c.Name, Roles: roles, Token: token}
}

// TokenBlacklistChecker checks if a token has been revoked.
type TokenBlacklistChecker interface {
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// TokenVerifier validates bearer tokens signed with the shared HMAC secret.
type TokenVerifier struct {
	secret    []byte
	issuer    string
	blacklist TokenBlacklistChecker
}

// NewTokenVerifier creates a verifier. blacklist is optional.
func NewTokenVerifier(cfg *config.AuthConfig, blacklist TokenBlacklistChecker) *TokenVerifier {
	return &TokenVerifier{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer, blacklist: blacklist}
}

// Verify parses and validates a raw token.
func (v *TokenVerifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.UserID == "" && claims.Subject == "" {
		return nil, ErrTokenNoSubject
	}

	if v.blacklist != nil && claims.ID != "" {
		revoked, err := v.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			// Fail open: tokens are short lived.
			log.Warn().Err(err).Msg("Failed to check token blacklist")
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller in the request context.
func Authenticate(verifier *TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				response.Write(w, response.Unauthorized("Las credenciales de autenticación no se proveyeron"))
				return
			}

			claims, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				response.Write(w, response.Unauthorized(tokenMessages[err]))
				return
			}

			actor := claims.Actor(raw)
			ctx := common.WithActor(r.Context(), actor)
			ctx = audit.WithPerformer(ctx, actor.Label())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles lets through callers holding any of roles.
func RequireRoles(roles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := common.ActorFrom(r.Context())
			if !ok {
				response.Write(w, response.Unauthorized("Las credenciales de autenticación no se proveyeron"))
				return
			}
			if !actor.HasAnyRole(roles...) {
				log.Warn().
					Str("user_id", actor.UserID).
					Strs("roles", actor.Roles).
					Strs("required", roles).
					Str("path", r.URL.Path).
					Msg("Permission denied")
				response.Write(w, response.Forbidden("No tiene permiso para realizar esta acción"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

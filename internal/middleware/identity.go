package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pkordes/backpackers/internal/domain"
)

// Development identity headers, trusted only when no token secret is set.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
)

// RoleAdmin is the role claim that grants platform administration.
const RoleAdmin = "admin"

var errInvalidToken = errors.New("invalid token")

type actorKey struct{}

// Claims are the token claims read from the identity provider's tokens.
// The subject is the user id.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IdentityConfig configures the Identity middleware.
type IdentityConfig struct {
	// Secret is the HS256 secret. Empty switches to header mode.
	Secret string
	// AdminIDs are user ids treated as admins whatever their token says.
	AdminIDs []string
}

// Identity resolves the caller of each request and stores it in the request
// context, where ActorFrom finds it. Requests without credentials pass
// through anonymously; RequireIdentity rejects them on the routes that need
// a caller. A Bearer token that fails validation is rejected with 401.
type Identity struct {
	secret []byte
	admins map[string]bool
}

// NewIdentity constructs the identity middleware.
func NewIdentity(cfg IdentityConfig) *Identity {
	admins := make(map[string]bool, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		if id = strings.TrimSpace(id); id != "" {
			admins[id] = true
		}
	}
	var secret []byte
	if cfg.Secret != "" {
		secret = []byte(cfg.Secret)
	}
	return &Identity{secret: secret, admins: admins}
}

// HeaderMode reports whether identities come from unauthenticated headers.
func (i *Identity) HeaderMode() bool { return i.secret == nil }

// Handler is the middleware func.
func (i *Identity) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok, err := i.resolve(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
			return
		}
		if ok {
			r = r.WithContext(WithActor(r.Context(), actor))
		}
		next.ServeHTTP(w, r)
	})
}

func (i *Identity) resolve(r *http.Request) (domain.Actor, bool, error) {
	if i.HeaderMode() {
		id := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if id == "" {
			return domain.Actor{}, false, nil
		}
		return domain.Actor{
			ID:    id,
			Name:  strings.TrimSpace(r.Header.Get(HeaderUserName)),
			Admin: i.admins[id],
		}, true, nil
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		return domain.Actor{}, false, nil
	}
	raw, found := strings.CutPrefix(auth, "Bearer ")
	if !found {
		return domain.Actor{}, false, errInvalidToken
	}
	claims, err := i.parse(strings.TrimSpace(raw))
	if err != nil {
		return domain.Actor{}, false, err
	}
	return domain.Actor{
		ID:    claims.Subject,
		Name:  claims.Name,
		Admin: claims.Role == RoleAdmin || i.admins[claims.Subject],
	}, true, nil
}

func (i *Identity) parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errInvalidToken
	}
	return claims, nil
}

// RequireIdentity rejects requests that carry no caller with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "sign in to continue")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor returns a copy of ctx carrying a.
func WithActor(ctx context.Context, a domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the caller stored by Identity, if any.
func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(domain.Actor)
	return a, ok
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"roxtor-ops/access"
)

const (
	cookieName = "token"
	sessionKey = "session"
)

type Claims struct {
	Tier    string `json:"tier"`
	StaffID string `json:"staffId,omitempty"`
	jwt.RegisteredClaims
}

var errInvalidToken = errors.New("token inválido o expirado")

// Sessions carries the unlock state of each client in a signed token.
// Locked tokens are remembered by id until they expire.
type Sessions struct {
	secret     []byte
	ttl        time.Duration
	production bool

	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiración
}

func NewSessions(secret string, ttl time.Duration, production bool) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, production: production, revoked: map[string]time.Time{}}
}

func (s *Sessions) Issue(sess access.Session, now time.Time) (string, time.Time, error) {
	exp := now.Add(s.ttl)
	claims := Claims{
		Tier:    sess.Tier.String(),
		StaffID: sess.StaffID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, exp, nil
}

func (s *Sessions) claims(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Claims{}, errInvalidToken
	}
	return claims, nil
}

func (s *Sessions) Parse(tokenString string) (access.Session, error) {
	claims, err := s.claims(tokenString)
	if err != nil {
		return access.Session{}, err
	}
	if s.isRevoked(claims.ID) {
		return access.Session{}, errInvalidToken
	}
	tier, err := access.ParseTier(claims.Tier)
	if err != nil {
		return access.Session{}, err
	}
	return access.Session{Tier: tier, StaffID: claims.StaffID}, nil
}

// Revoke invalidates tokenString until it would have expired anyway.
// Invalid tokens are ignored.
func (s *Sessions) Revoke(tokenString string, now time.Time) {
	claims, err := s.claims(tokenString)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Limpiar los ids que ya expiraron por sí solos
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[claims.ID] = claims.ExpiresAt.Time
}

func (s *Sessions) isRevoked(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[id]
	return ok
}

// TokenFrom reads the Bearer header first and falls back to the cookie.
func TokenFrom(c *gin.Context) string {
	// 1. INTENTO PRINCIPAL: header Authorization
	if parts := strings.Split(c.GetHeader("Authorization"), " "); len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	// 2. RESPALDO: cookie del navegador
	token, _ := c.Cookie(cookieName)
	return token
}

// Authenticate resolves the caller's session. Missing or invalid tokens
// yield a locked session; it never aborts.
func (s *Sessions) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := access.Lock()
		if token := TokenFrom(c); token != "" {
			if parsed, err := s.Parse(token); err == nil {
				sess = parsed
			}
		}
		c.Set(sessionKey, sess)
		c.Set("tier", sess.Tier.String())
		c.Next()
	}
}

func SessionFrom(c *gin.Context) access.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(access.Session); ok {
			return sess
		}
	}
	return access.Lock()
}

func RequireTier(tier access.Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		// Sin sesión = 401; sesión con nivel insuficiente = 403
		if sess.Tier == access.Locked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No autorizado: sesión bloqueada"})
			return
		}
		if sess.Tier < tier {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acceso restringido a gerencia"})
			return
		}
		c.Next()
	}
}

func RequireTab(tab access.Tab) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess.Tier == access.Locked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No autorizado: sesión bloqueada"})
			return
		}
		if !sess.Allows(tab) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No tienes acceso a esta sección"})
			return
		}
		c.Next()
	}
}

func (s *Sessions) SetCookie(c *gin.Context, token string) {
	s.writeCookie(c, token, int(s.ttl.Seconds()))
}

func (s *Sessions) ClearCookie(c *gin.Context) {
	s.writeCookie(c, "", -1)
}

func (s *Sessions) writeCookie(c *gin.Context, token string, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if s.production {
		sameSite = http.SameSiteNoneMode // Obligatorio para compartir entre dominios distintos
	}
	c.SetSameSite(sameSite)
	// La firma es: name, value, maxAge, path, domain, secure, httpOnly
	// Domain vacío; secure solo en producción (SameSite=None lo exige)
	c.SetCookie(cookieName, token, maxAge, "/", "", s.production, true)
}

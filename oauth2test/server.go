package oauth2test

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Grant types accepted by the token endpoint.
const (
	GrantAuthorizationCode = "authorization_code"
	GrantRefreshToken      = "refresh_token"
	GrantDeviceCode        = "urn:ietf:params:oauth:grant-type:device_code"
)

// Endpoint paths.
const (
	PathAuthorize = "/authorize"
	PathDevice    = "/device"
	PathToken     = "/token"
	PathRevoke    = "/revoke"
)

// Claims are the claims carried by issued access tokens.
type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
	Grant string `json:"grant"`
}

type codeGrant struct {
	subject   string
	challenge string
}

type deviceGrant struct {
	userCode string
	scope    string
	polls    int
	expires  time.Time
}

// Server is a fake authorization server backed by httptest.Server.
type Server struct {
	ClientID     string
	ClientSecret string

	srv          *httptest.Server
	signingKey   []byte
	tokenTTL     time.Duration
	pendingPolls int

	mu       sync.Mutex
	codes    map[string]codeGrant
	devices  map[string]*deviceGrant
	refresh  map[string]string
	revoked  map[string]bool
	requests []string
}

// Option configures a Server.
type Option func(*Server)

// WithClient sets the accepted client credentials.
func WithClient(id, secret string) Option {
	return func(s *Server) {
		s.ClientID = id
		s.ClientSecret = secret
	}
}

// WithPendingPolls makes the token endpoint answer authorization_pending to
// the first n polls of every device code.
func WithPendingPolls(n int) Option {
	return func(s *Server) { s.pendingPolls = n }
}

// WithTokenTTL sets the access token lifetime.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// WithSigningKey sets the HS256 key for access tokens.
func WithSigningKey(key []byte) Option {
	return func(s *Server) { s.signingKey = key }
}

// NewServer starts a Server. Call Close when done.
func NewServer(opts ...Option) *Server {
	s := &Server{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		signingKey:   []byte("oauth2test-signing-key"),
		tokenTTL:     time.Hour,
		codes:        make(map[string]codeGrant),
		devices:      make(map[string]*deviceGrant),
		refresh:      make(map[string]string),
		revoked:      make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.record)
	engine.POST(PathDevice, s.handleDevice)
	engine.POST(PathToken, s.handleToken)
	engine.POST(PathRevoke, s.handleRevoke)

	s.srv = httptest.NewServer(engine)
	return s
}

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// URL returns the server's base URL.
func (s *Server) URL() string { return s.srv.URL }

// Endpoint returns the x/oauth2 endpoint for this server. Client
// credentials are sent in the form body.
func (s *Server) Endpoint() oauth2.Endpoint {
	return oauth2.Endpoint{
		AuthURL:       s.srv.URL + PathAuthorize,
		DeviceAuthURL: s.srv.URL + PathDevice,
		TokenURL:      s.srv.URL + PathToken,
		AuthStyle:     oauth2.AuthStyleInParams,
	}
}

// RevokeURL returns the RFC 7009 revocation endpoint.
func (s *Server) RevokeURL() string { return s.srv.URL + PathRevoke }

// IssueCode registers an authorization code for subject. challenge is the
// S256 PKCE challenge, or empty when PKCE is not used.
func (s *Server) IssueCode(subject, challenge string) string {
	code := uuid.NewString()
	s.mu.Lock()
	s.codes[code] = codeGrant{subject: subject, challenge: challenge}
	s.mu.Unlock()
	return code
}

// IssueRefreshToken registers a refresh token for subject.
func (s *Server) IssueRefreshToken(subject string) string {
	tok := uuid.NewString()
	s.mu.Lock()
	s.refresh[tok] = subject
	s.mu.Unlock()
	return tok
}

// Revoked reports whether token was revoked through the revocation endpoint.
func (s *Server) Revoked(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[token]
}

// Requests returns "METHOD path" for every request served, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// ParseAccessToken verifies an access token issued by this server.
func (s *Server) ParseAccessToken(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(s.srv.URL))
	if err != nil {
		return nil, fmt.Errorf("oauth2test: parse access token: %w", err)
	}
	return claims, nil
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, c.Request.Method+" "+c.Request.URL.Path)
	s.mu.Unlock()
	c.Next()
}

func (s *Server) issueAccessToken(subject, scope, grant string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.srv.URL,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{s.ClientID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			ID:        uuid.NewString(),
		},
		Scope: scope,
		Grant: grant,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

func userCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return id[:4] + "-" + id[4:8]
}

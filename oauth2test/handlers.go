package oauth2test

import (
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RFC 6749 section 5.2 and RFC 8628 section 3.5 error codes.
const (
	errInvalidRequest       = "invalid_request"
	errInvalidClient        = "invalid_client"
	errInvalidGrant         = "invalid_grant"
	errUnsupportedGrantType = "unsupported_grant_type"
	errAuthorizationPending = "authorization_pending"
	errExpiredToken         = "expired_token"
)

const deviceCodeTTL = 10 * time.Minute

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

type deviceResponse struct {
	DeviceCode              string `json:"device_code"`
	UserCode                string `json:"user_code"`
	VerificationURI         string `json:"verification_uri"`
	VerificationURIComplete string `json:"verification_uri_complete"`
	ExpiresIn               int64  `json:"expires_in"`
	Interval                int64  `json:"interval"`
}

func oauthError(c *gin.Context, status int, code, description string) {
	c.JSON(status, gin.H{"error": code, "error_description": description})
}

func (s *Server) authenticateClient(c *gin.Context) bool {
	id, secret, ok := c.Request.BasicAuth()
	if !ok {
		id, secret = c.PostForm("client_id"), c.PostForm("client_secret")
	}
	if id != s.ClientID || (s.ClientSecret != "" && secret != s.ClientSecret) {
		oauthError(c, http.StatusUnauthorized, errInvalidClient, "unknown client or bad secret")
		return false
	}
	return true
}

func (s *Server) handleDevice(c *gin.Context) {
	if c.PostForm("client_id") != s.ClientID {
		oauthError(c, http.StatusUnauthorized, errInvalidClient, "unknown client")
		return
	}

	deviceCode := uuid.NewString()
	grant := &deviceGrant{
		userCode: userCode(),
		scope:    c.PostForm("scope"),
		expires:  time.Now().Add(deviceCodeTTL),
	}
	s.mu.Lock()
	s.devices[deviceCode] = grant
	s.mu.Unlock()

	verify := s.srv.URL + "/activate"
	c.JSON(http.StatusOK, deviceResponse{
		DeviceCode:              deviceCode,
		UserCode:                grant.userCode,
		VerificationURI:         verify,
		VerificationURIComplete: verify + "?user_code=" + grant.userCode,
		ExpiresIn:               int64(deviceCodeTTL.Seconds()),
		Interval:                1,
	})
}

func (s *Server) handleToken(c *gin.Context) {
	if !s.authenticateClient(c) {
		return
	}

	switch grant := c.PostForm("grant_type"); grant {
	case GrantAuthorizationCode:
		s.grantAuthorizationCode(c)
	case GrantRefreshToken:
		s.grantRefreshToken(c)
	case GrantDeviceCode:
		s.grantDeviceCode(c)
	case "":
		oauthError(c, http.StatusBadRequest, errInvalidRequest, "missing grant_type")
	default:
		oauthError(c, http.StatusBadRequest, errUnsupportedGrantType, grant)
	}
}

func (s *Server) grantAuthorizationCode(c *gin.Context) {
	code := c.PostForm("code")
	s.mu.Lock()
	grant, ok := s.codes[code]
	delete(s.codes, code)
	s.mu.Unlock()
	if !ok {
		oauthError(c, http.StatusBadRequest, errInvalidGrant, "unknown or reused authorization code")
		return
	}
	if grant.challenge != "" && s256(c.PostForm("code_verifier")) != grant.challenge {
		oauthError(c, http.StatusBadRequest, errInvalidGrant, "code_verifier does not match challenge")
		return
	}
	s.respondWithToken(c, grant.subject, "", GrantAuthorizationCode)
}

func (s *Server) grantRefreshToken(c *gin.Context) {
	rt := c.PostForm("refresh_token")
	s.mu.Lock()
	subject, ok := s.refresh[rt]
	if ok {
		delete(s.refresh, rt)
	}
	s.mu.Unlock()
	if !ok {
		oauthError(c, http.StatusBadRequest, errInvalidGrant, "unknown refresh token")
		return
	}
	s.respondWithToken(c, subject, c.PostForm("scope"), GrantRefreshToken)
}

func (s *Server) grantDeviceCode(c *gin.Context) {
	deviceCode := c.PostForm("device_code")

	s.mu.Lock()
	grant, ok := s.devices[deviceCode]
	var pending, expired bool
	if ok {
		grant.polls++
		pending = grant.polls <= s.pendingPolls
		expired = time.Now().After(grant.expires)
		if !pending {
			delete(s.devices, deviceCode)
		}
	}
	s.mu.Unlock()

	switch {
	case !ok:
		oauthError(c, http.StatusBadRequest, errInvalidGrant, "unknown device code")
	case expired:
		oauthError(c, http.StatusBadRequest, errExpiredToken, "device code expired")
	case pending:
		oauthError(c, http.StatusBadRequest, errAuthorizationPending, "user has not approved yet")
	default:
		s.respondWithToken(c, "device:"+grant.userCode, grant.scope, GrantDeviceCode)
	}
}

func (s *Server) respondWithToken(c *gin.Context, subject, scope, grant string) {
	access, err := s.issueAccessToken(subject, scope, grant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": err.Error()})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  access,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokenTTL.Seconds()),
		RefreshToken: s.IssueRefreshToken(subject),
		Scope:        scope,
	})
}

// handleRevoke answers 200 for unknown tokens too, per RFC 7009 section 2.2.
func (s *Server) handleRevoke(c *gin.Context) {
	if !s.authenticateClient(c) {
		return
	}
	token := c.PostForm("token")
	if token == "" {
		oauthError(c, http.StatusBadRequest, errInvalidRequest, "missing token")
		return
	}
	s.mu.Lock()
	s.revoked[token] = true
	delete(s.refresh, token)
	s.mu.Unlock()
	c.Status(http.StatusOK)
}

func s256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

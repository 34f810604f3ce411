// Package oauth2test runs a fake OAuth2 authorization server for tests.
//
// The server implements just enough of RFC 6749 (authorization code and
// refresh token grants, with PKCE), RFC 8628 (device authorization) and
// RFC 7009 (revocation) to drive golang.org/x/oauth2 end to end. Access
// tokens are HS256 JWTs so tests can check what was issued.
//
//	srv := oauth2test.NewServer()
//	defer srv.Close()
//	conf := &oauth2.Config{ClientID: srv.ClientID, ClientSecret: srv.ClientSecret, Endpoint: srv.Endpoint()}
package oauth2test

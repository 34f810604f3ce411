package adapter_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/kbukum/oauth2http/adapter"
	oerrors "github.com/kbukum/oauth2http/errors"
	"github.com/kbukum/oauth2http/exchange"
	"github.com/kbukum/oauth2http/logger"
	"github.com/kbukum/oauth2http/nethttp"
	"github.com/kbukum/oauth2http/oauth2test"
	"github.com/kbukum/oauth2http/transport"
	"github.com/kbukum/oauth2http/transport/transporttest"
)

func oauthConfig(srv *oauth2test.Server) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     srv.ClientID,
		ClientSecret: srv.ClientSecret,
		Endpoint:     srv.Endpoint(),
		Scopes:       []string{"openid", "profile"},
	}
}

func netTransport(t *testing.T) *nethttp.Transport {
	t.Helper()
	tr, err := nethttp.New(nethttp.Config{Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestOAuth2_DeviceFlow(t *testing.T) {
	srv := oauth2test.NewServer(oauth2test.WithPendingPolls(1))
	defer srv.Close()

	var rec *transporttest.Recorder
	tr := transport.Chain(
		transport.WithLogging(logger.Nop()),
		transporttest.Middleware(func(r *transporttest.Recorder) { rec = r }),
	)(netTransport(t))
	client := adapter.New(tr)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = client.Context(ctx)

	conf := oauthConfig(srv)
	da, err := conf.DeviceAuth(ctx)
	if err != nil {
		t.Fatalf("DeviceAuth: %v", err)
	}
	if da.UserCode == "" || da.VerificationURI == "" {
		t.Fatalf("device auth response = %+v", da)
	}

	tok, err := conf.DeviceAccessToken(ctx, da)
	if err != nil {
		t.Fatalf("DeviceAccessToken: %v", err)
	}
	claims, err := srv.ParseAccessToken(tok.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Grant != oauth2test.GrantDeviceCode || claims.Subject != "device:"+da.UserCode {
		t.Errorf("claims = %+v", claims)
	}

	// device authorization, one pending poll, one successful poll
	exchanges := rec.Exchanges()
	if len(exchanges) != 3 {
		t.Fatalf("recorded %d exchanges, want 3", len(exchanges))
	}
	if exchanges[1].Response.StatusCode != 400 || !strings.Contains(exchanges[1].Response.BodyString, "authorization_pending") {
		t.Errorf("second exchange = %+v", exchanges[1].Response)
	}
}

func TestOAuth2_Refresh(t *testing.T) {
	srv := oauth2test.NewServer()
	defer srv.Close()

	client := adapter.New(netTransport(t))
	defer client.Close()

	rt := srv.IssueRefreshToken("alice")
	src := oauthConfig(srv).TokenSource(client.Context(context.Background()), &oauth2.Token{RefreshToken: rt})
	tok, err := src.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	claims, err := srv.ParseAccessToken(tok.AccessToken)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "alice" || claims.Grant != oauth2test.GrantRefreshToken {
		t.Errorf("claims = %+v", claims)
	}
	if tok.Expiry.IsZero() {
		t.Error("expected expiry from expires_in")
	}
}

func TestOAuth2_AuthorizationCodeWithPKCE(t *testing.T) {
	srv := oauth2test.NewServer()
	defer srv.Close()

	client := adapter.New(netTransport(t))
	defer client.Close()

	verifier := oauth2.GenerateVerifier()
	code := srv.IssueCode("bob", oauth2.S256ChallengeFromVerifier(verifier))

	tok, err := oauthConfig(srv).Exchange(client.Context(context.Background()), code, oauth2.VerifierOption(verifier))
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if _, err := srv.ParseAccessToken(tok.AccessToken); err != nil {
		t.Error(err)
	}
}

func TestOAuth2_ErrorResponseIsParsedByLibrary(t *testing.T) {
	srv := oauth2test.NewServer()
	defer srv.Close()

	client := adapter.New(netTransport(t))
	_, err := oauthConfig(srv).Exchange(client.Context(context.Background()), "not-a-code")

	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *oauth2.RetrieveError", err)
	}
	if re.ErrorCode != "invalid_grant" {
		t.Errorf("ErrorCode = %q", re.ErrorCode)
	}
}

func TestOAuth2_TransportErrorReachable(t *testing.T) {
	errDial := errors.New("dial tcp 10.0.0.1:443: connect: no route to host")
	client := adapter.New(transporttest.Failing(errDial))

	conf := &oauth2.Config{
		ClientID: "c",
		Endpoint: oauth2.Endpoint{TokenURL: "https://auth.example/token", AuthStyle: oauth2.AuthStyleInParams},
	}
	_, err := conf.Exchange(client.Context(context.Background()), "code")
	if !errors.Is(err, errDial) {
		t.Fatalf("errors.Is lost the transport error: %v", err)
	}
	if oerrors.IsProtocolMismatch(err) || oerrors.IsInvalidRequest(err) {
		t.Errorf("transport error misclassified as %s", oerrors.CodeOf(err))
	}
}

func TestOAuth2_RedirectNotFollowed(t *testing.T) {
	counter := transporttest.NewCounter(transport.Func(func(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
		return exchange.NewResponse(302, exchange.Headers{{Name: "Location", Value: "https://auth.example/elsewhere"}}, nil), nil
	}))
	client := adapter.New(counter)

	conf := &oauth2.Config{
		ClientID: "c",
		Endpoint: oauth2.Endpoint{TokenURL: "https://auth.example/token", AuthStyle: oauth2.AuthStyleInParams},
	}
	_, err := conf.Exchange(client.Context(context.Background()), "code")
	if counter.Calls() != 1 {
		t.Fatalf("transport called %d times for one token exchange, want 1", counter.Calls())
	}
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *oauth2.RetrieveError", err)
	}
	if re.Response.StatusCode != 302 {
		t.Errorf("StatusCode = %d, want 302", re.Response.StatusCode)
	}
	if loc := re.Response.Header.Get("Location"); loc != "https://auth.example/elsewhere" {
		t.Errorf("Location = %q", loc)
	}
}

func TestOAuth2_ProtocolMismatchReachable(t *testing.T) {
	client := adapter.New(transport.Func(func(ctx context.Context, req *exchange.Request) (*exchange.Response, error) {
		return nil, nil
	}))
	conf := &oauth2.Config{
		ClientID: "c",
		Endpoint: oauth2.Endpoint{TokenURL: "https://auth.example/token", AuthStyle: oauth2.AuthStyleInParams},
	}
	_, err := conf.Exchange(client.Context(context.Background()), "code")
	if !oerrors.IsProtocolMismatch(err) {
		t.Fatalf("err = %v, want PROTOCOL_MISMATCH", err)
	}
}

func TestOAuth2_FixtureRefresh(t *testing.T) {
	body := []byte(`{"access_token":"xyz","token_type":"Bearer","expires_in":3600}`)
	fixture := transporttest.NewFixture().Respond(exchange.MethodPost, "https://auth.example/token",
		[]byte("client_id=c&grant_type=refresh_token&refresh_token=abc"),
		exchange.NewResponse(200, exchange.Headers{{Name: "content-type", Value: "application/json"}}, body))

	conf := &oauth2.Config{
		ClientID: "c",
		Endpoint: oauth2.Endpoint{TokenURL: "https://auth.example/token", AuthStyle: oauth2.AuthStyleInParams},
	}
	client := adapter.New(fixture)
	tok, err := conf.TokenSource(client.Context(context.Background()), &oauth2.Token{RefreshToken: "abc"}).Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok.AccessToken != "xyz" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
	if fixture.Calls() != 1 {
		t.Errorf("transport called %d times, want 1", fixture.Calls())
	}
}

package envoy

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client polls a single gateway. The Token is computed once in NewClient
// and attached unchanged to every request after that.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	token        Token
	reconciler   *Reconciler
	now          func() time.Time
	notification Notification
}

func defaultHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

// Authenticate probes the gateway without credentials, expects a 401
// challenge and answers it. Any other probe status is fatal.
func Authenticate(ctx context.Context, httpClient *http.Client, baseURL string, creds Credentials) (Token, error) {
	probe := *httpClient
	probe.CheckRedirect = func(_ *http.Request, _ []*http.Request) error {
		return http.ErrUseLastResponse
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+EndpointProbe, nil)
	if err != nil {
		return Token{}, &FetchError{Endpoint: EndpointProbe, Err: err}
	}
	resp, err := probe.Do(req)
	if err != nil {
		return Token{}, &FetchError{Endpoint: EndpointProbe, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusUnauthorized {
		return Token{}, fmt.Errorf("%w: %s returned %d, expected %d",
			ErrUnexpectedProbeResponse, EndpointProbe, resp.StatusCode, http.StatusUnauthorized)
	}

	// A gateway may offer several challenges; answer the first usable one.
	headers := resp.Header.Values("WWW-Authenticate")
	if len(headers) == 0 {
		headers = []string{""}
	}
	var firstErr error
	for _, header := range headers {
		ch, err := ParseChallenge(header)
		if err == nil {
			var token Token
			if token, err = Respond(ch, creds, HandshakeMethod, HandshakeURI); err == nil {
				return token, nil
			}
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return Token{}, firstErr
}

func NewClient(ctx context.Context, baseURL, username, password string, opts ...OptionFunc) (*Client, error) {
	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   defaultHTTPClient(),
		now:          time.Now,
		notification: NilNotification,
	}
	for _, o := range opts {
		if err := o(client); err != nil {
			return nil, err
		}
	}
	if client.baseURL == "" {
		return nil, fmt.Errorf("invalid or missing gateway base URL")
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("missing username or password")
	}
	if client.reconciler == nil {
		client.reconciler = NewReconciler()
	}

	token, err := Authenticate(ctx, client.httpClient, client.baseURL, Credentials{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("authenticating with gateway: %w", err)
	}
	client.token = token
	client.notification.TokenIssued(token.Scheme())

	if token.Scheme() == SchemeBearer {
		if exp, err := TokenExpiry(password); err == nil && exp.Before(client.now()) {
			client.notification.TokenExpired(exp)
		}
	}
	return client, nil
}

// Token returns the Authorization value sent with every request.
func (c *Client) Token() Token {
	return c.token
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Authorization", c.token.String())
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	requestResponse, requestError := c.httpClient.Do(req)
	if requestError != nil {
		c.notification.RequestFailed(endpoint, requestError)
		return nil, &FetchError{Endpoint: endpoint, Err: requestError}
	}
	defer func() {
		_ = requestResponse.Body.Close()
	}()

	body, err := io.ReadAll(requestResponse.Body)
	if err != nil {
		c.notification.RequestFailed(endpoint, err)
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	if requestResponse.StatusCode < 200 || requestResponse.StatusCode > 299 {
		err := fmt.Errorf("status %d", requestResponse.StatusCode)
		c.notification.RequestFailed(endpoint, err)
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	c.notification.RequestCompleted(endpoint, requestResponse.StatusCode, time.Since(start))
	return body, nil
}

// Home fetches and normalizes /home.json, resolving the device clock
// against the current collector time.
func (c *Client) Home(ctx context.Context) (*SystemStatus, error) {
	return c.home(ctx, c.now())
}

func (c *Client) home(ctx context.Context, at time.Time) (*SystemStatus, error) {
	body, err := c.get(ctx, EndpointHome)
	if err != nil {
		return nil, err
	}
	return DecodeHome(body, c.reconciler, at)
}

func (c *Client) Inverters(ctx context.Context) ([]InverterReading, error) {
	body, err := c.get(ctx, EndpointInverters)
	if err != nil {
		return nil, err
	}
	return DecodeInverters(body)
}

// Poll runs one cycle. It returns either every record or an error, never a
// partial Cycle.
func (c *Client) Poll(ctx context.Context) (*Cycle, error) {
	cycle := &Cycle{
		ID:          uuid.NewString(),
		CollectedAt: c.now(),
	}
	status, err := c.home(ctx, cycle.CollectedAt)
	if err != nil {
		return nil, err
	}
	inverters, err := c.Inverters(ctx)
	if err != nil {
		return nil, err
	}
	cycle.Status = *status
	cycle.Inverters = inverters
	return cycle, nil
}

// Package svapi implements the session client for the Spectrum Virtualize
// management REST API. One session per run: authenticate, issue list
// commands with the session token, invalidate the token at the end.
package svapi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/SVCheck/internal/exitcode"
	"go.uber.org/zap"
)

const responseLimit = 64 * 1024 * 1024 // event logs on large arrays get big

// Options configures the session client
type Options struct {
	Port        int           // management API port, 7443 on the arrays
	DialTimeout time.Duration // TCP pre-check timeout
	Timeout     time.Duration // per-request HTTP timeout
	InsecureTLS bool          // arrays ship self-signed certificates
}

// Session holds the state of one authenticated run against one target
type Session struct {
	Target  string
	BaseURL string
	Token   string
	Role    string // role of the authenticated user, from lscurrentuser
}

// Client issues authenticated requests against one management API
type Client struct {
	opts       Options
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a session client
func NewClient(opts Options, logger *zap.Logger) *Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: opts.InsecureTLS},
	}
	return &Client{
		opts: opts,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// Authenticate opens a session against target. It distinguishes an
// unreachable endpoint (TCP pre-check) from rejected credentials (auth
// response), and resolves the user's role so later commands can be gated.
func (c *Client) Authenticate(ctx context.Context, target, username, password string) (*Session, error) {
	if err := c.checkReachable(target); err != nil {
		return nil, err
	}

	session := &Session{
		Target:  target,
		BaseURL: fmt.Sprintf("https://%s/rest/", net.JoinHostPort(target, strconv.Itoa(c.opts.Port))),
	}

	c.logger.Debug("Requesting auth token", zap.String("target", target))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, session.BaseURL+"auth", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("X-Auth-Username", username)
	req.Header.Set("X-Auth-Password", password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request to %s failed: %w", target, exitcode.ErrUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth returned %d: %w", resp.StatusCode, exitcode.ErrCredentials)
	}

	var authResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return nil, fmt.Errorf("failed to parse auth response: %w", err)
	}
	if authResp.Token == "" {
		return nil, fmt.Errorf("auth response contained no token: %w", exitcode.ErrCredentials)
	}
	session.Token = authResp.Token
	c.logger.Info("Got valid auth token", zap.String("target", target))

	role, err := c.fetchRole(ctx, session)
	if err != nil {
		return nil, err
	}
	session.Role = role
	c.logger.Debug("Resolved user role",
		zap.String("username", username),
		zap.String("role", role))

	return session, nil
}

// Query runs one list command and returns its records
func (c *Client) Query(ctx context.Context, session *Session, command string) ([]Record, error) {
	raw, err := c.QueryRaw(ctx, session, command)
	if err != nil {
		return nil, err
	}
	records, err := decodeRecords(raw)
	if err != nil {
		return nil, fmt.Errorf("run %s: %v: %w", command, err, exitcode.ErrCommand)
	}
	return records, nil
}

// QueryRaw runs one command and returns the raw response body. The caller
// owns decoding; Query is the common path.
func (c *Client) QueryRaw(ctx context.Context, session *Session, command string) (json.RawMessage, error) {
	if err := checkRights(session.Role, command); err != nil {
		return nil, err
	}

	c.logger.Debug("Running command", zap.String("command", command))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, session.BaseURL+command, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", command, err)
	}
	req.Header.Set("X-Auth-Token", session.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("run %s: %v: %w", command, err, exitcode.ErrCommand)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("run %s returned %d: %w", command, resp.StatusCode, exitcode.ErrCommand)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseLimit))
	if err != nil {
		return nil, fmt.Errorf("run %s: failed to read response: %w", command, exitcode.ErrCommand)
	}

	c.logger.Debug("Command completed",
		zap.String("command", command),
		zap.Int("bytes", len(body)))
	return body, nil
}

// Close invalidates the session token. Best effort: a failure here is
// logged and must never mask the run's actual outcome.
func (c *Client) Close(ctx context.Context, session *Session) {
	if session == nil || session.Token == "" {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, session.BaseURL+"auth", nil)
	if err != nil {
		c.logger.Warn("Failed to create session close request", zap.Error(err))
		return
	}
	req.Header.Set("X-Auth-Token", session.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Failed to close session", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.logger.Debug("Session closed", zap.String("target", session.Target))
	session.Token = ""
}

// fetchRole queries lscurrentuser and extracts the user's role
func (c *Client) fetchRole(ctx context.Context, session *Session) (string, error) {
	records, err := c.Query(ctx, session, "lscurrentuser")
	if err != nil {
		return "", err
	}
	for _, record := range records {
		if role, ok := record.Get("role").(string); ok && role != "" {
			return role, nil
		}
	}
	return "", fmt.Errorf("lscurrentuser reported no role: %w", exitcode.ErrCommand)
}

// checkReachable probes the management API port before any HTTP traffic so
// a closed port surfaces as unreachable rather than a credentials problem
func (c *Client) checkReachable(target string) error {
	address := net.JoinHostPort(target, strconv.Itoa(c.opts.Port))
	c.logger.Debug("Checking API port", zap.String("address", address))

	conn, err := net.DialTimeout("tcp", address, c.opts.DialTimeout)
	if err != nil {
		return fmt.Errorf("API port %s cannot be reached: %w", address, exitcode.ErrUnreachable)
	}
	conn.Close()
	return nil
}

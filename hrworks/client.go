package hrworks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"hrsync/worklog"
)

const (
	DefaultBaseURL = "https://api.hrworks.de/v2"

	StatusActive    = "Active"
	WorkingTimeType = "workingTime"
)

// Client defines the HRworks operations used by the import pipeline.
type Client interface {
	GetProject(ctx context.Context, number int64) (Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	SubmitWorkingTimes(ctx context.Context, batch WorkingTimeBatch) (int, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL   string
	Token     string
	UserAgent string
	// RequestsPerSecond limits outgoing requests; zero disables the limit.
	RequestsPerSecond float64
	HTTPClient        httpDoer
}

type HTTPClient struct {
	baseURL    string
	tokens     oauth2.TokenSource
	userAgent  string
	limiter    *rate.Limiter
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("access token is required")
	}
	if cfg.RequestsPerSecond < 0 {
		return nil, fmt.Errorf("requests per second must not be negative, got %v", cfg.RequestsPerSecond)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &HTTPClient{
		baseURL:    baseURL,
		tokens:     oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		limiter:    limiter,
		httpClient: defaultDoer(cfg.HTTPClient),
	}, nil
}

// Authenticate exchanges an access key pair for a bearer token. Every failure
// is reported as *worklog.AuthenticationError.
func Authenticate(ctx context.Context, baseURL, accessKey, secretAccessKey string, doer httpDoer) (string, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return "", &worklog.AuthenticationError{Err: err}
	}

	payload, err := json.Marshal(authenticationRequest{AccessKey: accessKey, SecretAccessKey: secretAccessKey})
	if err != nil {
		return "", &worklog.AuthenticationError{Err: fmt.Errorf("marshal authentication request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, normalized+"/authentication", bytes.NewReader(payload))
	if err != nil {
		return "", &worklog.AuthenticationError{Err: fmt.Errorf("create authentication request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := defaultDoer(doer).Do(req)
	if err != nil {
		return "", &worklog.AuthenticationError{Err: fmt.Errorf("authentication request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &worklog.AuthenticationError{Err: fmt.Errorf(
			"authentication failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)),
		)}
	}

	var out authenticationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &worklog.AuthenticationError{Err: fmt.Errorf("decode authentication response: %w", err)}
	}
	if strings.TrimSpace(out.Token) == "" {
		return "", &worklog.AuthenticationError{Err: errors.New("authentication response contains no token")}
	}
	return out.Token, nil
}

type authenticationRequest struct {
	AccessKey       string `json:"accessKey"`
	SecretAccessKey string `json:"secretAccessKey"`
}

type authenticationResponse struct {
	Token string `json:"token"`
}

type TeamMember struct {
	PersonnelNumber string `json:"personnelNumber"`
	Status          string `json:"status"`
}

type Project struct {
	Number      ProjectNumber `json:"number"`
	Name        string        `json:"name"`
	Status      string        `json:"status"`
	TeamMembers []TeamMember  `json:"teamMembers"`
}

func (p Project) IsActive() bool {
	return p.Status == StatusActive
}

// HasActiveMember reports whether personnelNumber is listed with status Active.
func (p Project) HasActiveMember(personnelNumber string) bool {
	for _, member := range p.TeamMembers {
		if member.Status == StatusActive && member.PersonnelNumber == personnelNumber {
			return true
		}
	}
	return false
}

type listProjectsResponse struct {
	Projects []Project `json:"projects"`
}

// ProjectNumber accepts project numbers encoded as JSON numbers or numeric strings.
type ProjectNumber int64

func (n *ProjectNumber) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	switch text {
	case "", "null", `""`:
		*n = 0
		return nil
	}

	var number int64
	if err := json.Unmarshal(data, &number); err == nil {
		*n = ProjectNumber(number)
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		parsed, err := strconv.ParseInt(strings.TrimSpace(asString), 10, 64)
		if err != nil {
			return fmt.Errorf("parse project number %q: %w", asString, err)
		}
		*n = ProjectNumber(parsed)
		return nil
	}

	return fmt.Errorf("unsupported project number value %q", text)
}

type WorkingTime struct {
	PersonnelNumber  string `json:"personnelNumber"`
	BeginDateAndTime string `json:"beginDateAndTime"`
	EndDateAndTime   string `json:"endDateAndTime"`
	Type             string `json:"type"`
	ProjectNumber    int64  `json:"projectNumber"`
}

type WorkingTimeBatch struct {
	DeleteOverlappingWorkingTimes bool          `json:"deleteOverlappingWorkingTimes"`
	Data                          []WorkingTime `json:"data"`
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (c *HTTPClient) GetProject(ctx context.Context, number int64) (Project, error) {
	var out Project
	path := "/working-times/projects/" + url.PathEscape(strconv.FormatInt(number, 10))
	if _, err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return Project{}, err
	}
	if out.Number == 0 {
		out.Number = ProjectNumber(number)
	}
	return out, nil
}

func (c *HTTPClient) ListProjects(ctx context.Context) ([]Project, error) {
	var out listProjectsResponse
	if _, err := c.doJSON(ctx, http.MethodGet, "/working-times/projects", nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// SubmitWorkingTimes posts batch and returns the response status code. A
// non-2xx response is returned together with a *StatusError.
func (c *HTTPClient) SubmitWorkingTimes(ctx context.Context, batch WorkingTimeBatch) (int, error) {
	if len(batch.Data) == 0 {
		return 0, errors.New("working time payload must not be empty")
	}

	return c.doJSON(ctx, http.MethodPost, "/working-times", batch, nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpointPath string, body any, out any) (int, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("wait for rate limit %s %s: %w", method, endpointPath, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpointPath, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("create request %s %s: %w", method, endpointPath, err)
	}

	token, err := c.tokens.Token()
	if err != nil {
		return 0, fmt.Errorf("obtain access token: %w", err)
	}
	token.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request %s %s failed: %w", method, endpointPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, &StatusError{
			Method:     method,
			Path:       endpointPath,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(responseBody)),
		}
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return resp.StatusCode, nil
		}
		return resp.StatusCode, fmt.Errorf("decode response %s %s: %w", method, endpointPath, err)
	}
	return resp.StatusCode, nil
}

func normalizeBaseURL(raw string) (string, error) {
	baseURL := strings.TrimSpace(raw)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid base URL %q", raw)
	}
	return baseURL, nil
}

func defaultDoer(doer httpDoer) httpDoer {
	if doer != nil {
		return doer
	}
	return &http.Client{Timeout: 60 * time.Second}
}

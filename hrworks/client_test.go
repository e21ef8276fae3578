package hrworks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"hrsync/worklog"
)

func TestHTTPClient_EndpointsAndHeaders(t *testing.T) {
	t.Parallel()

	seen := make([]string, 0, 3)
	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		seen = append(seen, fmt.Sprintf("%s %s", r.Method, r.URL.Path))
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Fatalf("unexpected Authorization header: %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "hrsync-test" {
			t.Fatalf("unexpected User-Agent: %q", got)
		}

		switch fmt.Sprintf("%s %s", r.Method, r.URL.Path) {
		case "GET /v2/working-times/projects":
			return jsonResponse(http.StatusOK, listProjectsResponse{Projects: []Project{
				{Number: 7, Name: "Website", Status: StatusActive},
			}}), nil
		case "GET /v2/working-times/projects/7":
			return rawResponse(http.StatusOK, `{"number":"7","name":"Website","status":"Active","teamMembers":[{"personnelNumber":"123","status":"Active"},{"personnelNumber":"124","status":"Inactive"}]}`), nil
		case "POST /v2/working-times":
			if got := r.Header.Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
				t.Fatalf("unexpected Content-Type: %q", got)
			}
			var payload WorkingTimeBatch
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			if payload.DeleteOverlappingWorkingTimes || len(payload.Data) != 1 {
				t.Fatalf("unexpected payload: %+v", payload)
			}
			if payload.Data[0].Type != WorkingTimeType || payload.Data[0].BeginDateAndTime != "20240315T080000Z" {
				t.Fatalf("unexpected working time: %+v", payload.Data[0])
			}
			return rawResponse(http.StatusCreated, ""), nil
		default:
			return nil, fmt.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
	}}

	client, err := NewClient(ClientConfig{
		BaseURL:    "https://api.example.test/v2/",
		Token:      "test-token",
		UserAgent:  "hrsync-test",
		HTTPClient: doer,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx := context.Background()
	projects, err := client.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Number != 7 {
		t.Fatalf("unexpected projects: %+v", projects)
	}

	project, err := client.GetProject(ctx, 7)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if !project.IsActive() || !project.HasActiveMember("123") || project.HasActiveMember("124") {
		t.Fatalf("unexpected project membership: %+v", project)
	}

	status, err := client.SubmitWorkingTimes(ctx, WorkingTimeBatch{Data: []WorkingTime{{
		PersonnelNumber:  "123",
		BeginDateAndTime: "20240315T080000Z",
		EndDateAndTime:   "20240315T110000Z",
		Type:             WorkingTimeType,
		ProjectNumber:    7,
	}}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if status != http.StatusCreated {
		t.Fatalf("unexpected status %d", status)
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 requests, got %v", seen)
	}
}

func TestHTTPClient_SubmitReturnsStatusOnFailure(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		return rawResponse(http.StatusUnprocessableEntity, `{"message":"overlap"}`), nil
	}}
	client, err := NewClient(ClientConfig{BaseURL: "https://api.example.test/v2", Token: "t", HTTPClient: doer})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	status, err := client.SubmitWorkingTimes(context.Background(), WorkingTimeBatch{Data: []WorkingTime{{PersonnelNumber: "1"}}})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if status != http.StatusUnprocessableEntity || statusErr.Body != `{"message":"overlap"}` {
		t.Fatalf("unexpected status %d / body %q", status, statusErr.Body)
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fn      func(*http.Request) (*http.Response, error)
		want    string
		wantErr bool
	}{
		{
			name: "success",
			fn: func(r *http.Request) (*http.Response, error) {
				if r.Method != http.MethodPost || r.URL.Path != "/v2/authentication" {
					return nil, fmt.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				var payload authenticationRequest
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					return nil, err
				}
				if payload.AccessKey != "key" || payload.SecretAccessKey != "secret" {
					return rawResponse(http.StatusUnauthorized, ""), nil
				}
				return jsonResponse(http.StatusOK, authenticationResponse{Token: "abc"}), nil
			},
			want: "abc",
		},
		{
			name: "unauthorized",
			fn: func(r *http.Request) (*http.Response, error) {
				return rawResponse(http.StatusUnauthorized, `{"error":"invalid"}`), nil
			},
			wantErr: true,
		},
		{
			name: "missing token",
			fn: func(r *http.Request) (*http.Response, error) {
				return rawResponse(http.StatusOK, `{}`), nil
			},
			wantErr: true,
		},
		{
			name: "network failure",
			fn: func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			token, err := Authenticate(context.Background(), "https://api.example.test/v2", "key", "secret", fakeDoer{fn: tc.fn})
			if !tc.wantErr {
				if err != nil || token != tc.want {
					t.Fatalf("unexpected result %q, %v", token, err)
				}
				return
			}
			var authErr *worklog.AuthenticationError
			if !errors.As(err, &authErr) {
				t.Fatalf("expected AuthenticationError, got %v", err)
			}
			if !strings.Contains(err.Error(), "check your credentials") {
				t.Fatalf("unexpected message %q", err.Error())
			}
			if authErr.Unwrap() == nil {
				t.Fatalf("expected wrapped cause")
			}
		})
	}
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(ClientConfig{Token: ""}); err == nil {
		t.Fatalf("expected error for missing token")
	}
	if _, err := NewClient(ClientConfig{BaseURL: "not a url", Token: "t"}); err == nil {
		t.Fatalf("expected error for invalid base URL")
	}
	if _, err := NewClient(ClientConfig{Token: "t", RequestsPerSecond: -1}); err == nil {
		t.Fatalf("expected error for negative rate")
	}
	client, err := NewClient(ClientConfig{Token: "t", RequestsPerSecond: 5})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.baseURL != DefaultBaseURL || client.limiter == nil {
		t.Fatalf("unexpected defaults: base=%q limiter=%v", client.baseURL, client.limiter)
	}
}

func TestProjectNumber_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]ProjectNumber{`7`: 7, `"42"`: 42, `""`: 0, `null`: 0} {
		var got ProjectNumber
		if err := json.Unmarshal([]byte(input), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", input, err)
		}
		if got != want {
			t.Fatalf("unmarshal %s: want %d, got %d", input, want, got)
		}
	}
	var bad ProjectNumber
	if err := json.Unmarshal([]byte(`"abc"`), &bad); err == nil {
		t.Fatalf("expected error for non-numeric project number")
	}
}

type fakeDoer struct {
	fn func(*http.Request) (*http.Response, error)
}

func (f fakeDoer) Do(req *http.Request) (*http.Response, error) {
	return f.fn(req)
}

func jsonResponse(status int, payload any) *http.Response {
	body, _ := json.Marshal(payload)
	return rawResponse(status, string(body))
}

func rawResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

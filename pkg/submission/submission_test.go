package submission

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"google.golang.org/api/option"

	"github.com/goliatone/go-needle-survey/pkg/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("go.opencensus.io/stats/view.(*worker).start"),
	)
}

func sampleResponse() model.SurveyResponse {
	resp := model.NewSurveyResponse()
	resp.Demographics = model.DemographicsAnswers{
		ParticipantID:        "P-12",
		TrainingLevel:        model.TrainingLevelOther,
		OtherTrainingLevel:   "Sonographer",
		UltrasoundExperience: "1-2 years",
		NeedlePlacements:     "11-50",
	}
	resp.Workload.Freehand.Effort = 15
	resp.PostEval.PreferredTechnique = "inPlaneGuide"
	resp.Timestamp = "2025-03-14T14:26:53.589Z"
	return resp
}

type capturedRequest struct {
	Method      string
	ContentType string
	Body        map[string]any
}

func TestHTTPClient_PostsJSONToEndpoint(t *testing.T) {
	var (
		mu  sync.Mutex
		got capturedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		got.Method = r.Method
		got.ContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got.Body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(WithEndpoint(srv.URL), WithHTTPClient(srv.Client()), WithLogger(zaptest.NewLogger(t)))
	if err := client.Submit(context.Background(), sampleResponse()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if got.Method != http.MethodPost || got.ContentType != "application/json" {
		t.Fatalf("unexpected request %s %q", got.Method, got.ContentType)
	}
	demographics, _ := got.Body["demographics"].(map[string]any)
	if demographics["trainingLevel"] != "Other" || demographics["otherTrainingLevel"] != "Sonographer" {
		t.Fatalf("free-text training level not forwarded: %#v", demographics)
	}
	workload, _ := got.Body["nasaTlx"].(map[string]any)
	freehand, _ := workload["freehand"].(map[string]any)
	if freehand["effort"] != float64(15) || freehand["mentalDemand"] != float64(0) {
		t.Fatalf("unexpected freehand ratings %#v", freehand)
	}
	if got.Body["timestamp"] != "2025-03-14T14:26:53.589Z" {
		t.Fatalf("unexpected timestamp %v", got.Body["timestamp"])
	}
}

func TestHTTPClient_IgnoresRemoteStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		http.Error(w, "script failed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(WithEndpoint(srv.URL), WithHTTPClient(srv.Client()))
	if err := client.Submit(context.Background(), sampleResponse()); err != nil {
		t.Fatalf("opaque dispatch should not surface remote status, got %v", err)
	}
}

func TestHTTPClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	client := NewHTTPClient(WithEndpoint(endpoint))
	err := client.Submit(context.Background(), sampleResponse())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	var transportErr *TransportError
	if !errors.As(err, &transportErr) || transportErr.Op != "dispatch" {
		t.Fatalf("expected dispatch TransportError, got %#v", err)
	}
}

func TestHTTPClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewHTTPClient(WithEndpoint("http://127.0.0.1:1/exec"))
	if err := client.Submit(ctx, sampleResponse()); !errors.Is(err, context.Canceled) || !errors.Is(err, ErrTransport) {
		t.Fatalf("expected canceled transport error, got %v", err)
	}
}

func TestNewHTTPClient_DefaultsToFixedEndpoint(t *testing.T) {
	if got := NewHTTPClient(WithEndpoint("  ")).Endpoint(); got != DefaultEndpoint {
		t.Fatalf("endpoint = %q", got)
	}
	if !strings.HasPrefix(DefaultEndpoint, "https://script.google.com/macros/s/") || !strings.HasSuffix(DefaultEndpoint, "/exec") {
		t.Fatalf("unexpected default endpoint %q", DefaultEndpoint)
	}
}

func TestNew_SelectsTransport(t *testing.T) {
	client, err := New(context.Background(), Config{Endpoint: "http://example.test/exec"}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	httpClient, ok := client.(*HTTPClient)
	if !ok || httpClient.Endpoint() != "http://example.test/exec" {
		t.Fatalf("expected HTTPClient for default transport, got %#v", client)
	}

	if _, err := New(context.Background(), Config{Transport: "carrier-pigeon"}, nil); err == nil {
		t.Fatalf("expected unknown transport error")
	}
}

func TestSheetsClient_AppendsRow(t *testing.T) {
	var (
		mu    sync.Mutex
		path  string
		query string
		rows  [][]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		path = r.URL.Path
		query = r.URL.Query().Get("valueInputOption")
		var payload struct {
			Values [][]string `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		rows = payload.Values
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-123"}`)
	}))
	defer srv.Close()

	client, err := New(context.Background(), Config{
		Transport: TransportSheets,
		Sheets:    SheetsConfig{SpreadsheetID: "sheet-123"},
	}, zaptest.NewLogger(t), option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	resp := sampleResponse()
	if err := client.Submit(context.Background(), resp); err != nil {
		t.Fatalf("submit: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !strings.HasPrefix(path, "/v4/spreadsheets/sheet-123/values/") || !strings.HasSuffix(path, ":append") {
		t.Fatalf("unexpected path %q", path)
	}
	if query != "RAW" {
		t.Fatalf("valueInputOption = %q", query)
	}
	if diff := cmp.Diff([][]string{resp.Row()}, rows); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
}

func TestSheetsClient_RemoteErrorIsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"denied"}}`)
	}))
	defer srv.Close()

	client, err := New(context.Background(), Config{
		Transport: TransportSheets,
		Sheets:    SheetsConfig{SpreadsheetID: "sheet-123", Range: "Sheet1!A1"},
	}, nil, option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := client.Submit(context.Background(), sampleResponse()); !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestNewSheetsClient_RequiresSpreadsheet(t *testing.T) {
	if _, err := NewSheetsClient(nil, "id", "", nil); err == nil {
		t.Fatalf("expected nil service error")
	}
}

func TestClientFunc(t *testing.T) {
	called := false
	var client Client = ClientFunc(func(context.Context, model.SurveyResponse) error {
		called = true
		return nil
	})
	if err := client.Submit(context.Background(), model.NewSurveyResponse()); err != nil || !called {
		t.Fatalf("client func not invoked: called=%v err=%v", called, err)
	}
}

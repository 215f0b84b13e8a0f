package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/asthralabs/asthra/core/docgen"
	"github.com/asthralabs/asthra/providers"
)

type fakeFetcher struct {
	calls int
	raw   map[string]any
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, message string) (map[string]any, error) {
	f.calls++
	return f.raw, f.err
}

func newTestServer(t *testing.T, selection providers.Selection, fetcher *fakeFetcher) *Server {
	t.Helper()
	renderer, err := docgen.NewRenderer(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(selection, fetcher, renderer, logger, "http://localhost:8000")
}

func readySelection() providers.Selection {
	return providers.Selection{
		Kind:   providers.KindGemini,
		Model:  "gemini-1.5-flash",
		Ready:  true,
		Status: "Gemini ready",
	}
}

func disabledSelection() providers.Selection {
	return providers.Selection{
		Kind:   providers.KindNone,
		Ready:  false,
		Status: "No AI credentials found; running in static mode",
	}
}

func postChat(t *testing.T, handler http.Handler, form url.Values) (*httptest.ResponseRecorder, chatResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/chat", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body chatResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
	}
	return rec, body
}

func TestChat_StaticMode(t *testing.T) {
	fetcher := &fakeFetcher{raw: map[string]any{"title": "unused"}}
	srv := newTestServer(t, readySelection(), fetcher)

	rec, body := postChat(t, srv.Handler(), url.Values{"message": {"Build a solar drone"}})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if fetcher.calls != 0 {
		t.Errorf("fetcher called %d times in static mode", fetcher.calls)
	}
	if want := "Generated documentation for: Build a solar drone"; body.Reply != want {
		t.Errorf("reply = %q, want %q", body.Reply, want)
	}
	if body.AI.ModeRequested != "static" || body.AI.ModeUsed != "static" {
		t.Errorf("modes = %q/%q, want static/static", body.AI.ModeRequested, body.AI.ModeUsed)
	}
	if body.AI.Error != nil {
		t.Errorf("ai.error = %q, want null", *body.AI.Error)
	}
	if !body.AI.Enabled || body.AI.Provider != "gemini" {
		t.Errorf("ai status = %+v", body.AI)
	}

	for _, name := range []string{"report", "ppt", "patent", "certificates"} {
		link, ok := body.Files[name]
		if !ok {
			t.Errorf("files missing %q", name)
			continue
		}
		if !strings.HasPrefix(link, "http://localhost:8000/files/") {
			t.Errorf("files[%q] = %q, want base URL prefix", name, link)
		}
	}
}

func TestChat_HybridSuccess(t *testing.T) {
	fetcher := &fakeFetcher{raw: map[string]any{
		"title":   "Solar Drone",
		"summary": "An autonomous solar-powered drone.",
		"sections": []any{
			map[string]any{"heading": "Overview", "bullets": []any{"Flies on sunlight"}},
		},
	}}
	srv := newTestServer(t, readySelection(), fetcher)

	rec, body := postChat(t, srv.Handler(), url.Values{
		"message": {"Build a solar drone"},
		"mode":    {"hybrid"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
	if body.Reply != "An autonomous solar-powered drone." {
		t.Errorf("reply = %q", body.Reply)
	}
	if body.AI.ModeUsed != "hybrid" {
		t.Errorf("mode_used = %q, want hybrid", body.AI.ModeUsed)
	}
	if body.AI.Error != nil {
		t.Errorf("ai.error = %q, want null", *body.AI.Error)
	}
}

func TestChat_HybridFallsBackOnError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("No AI credentials found; running in static mode")}
	srv := newTestServer(t, disabledSelection(), fetcher)

	rec, body := postChat(t, srv.Handler(), url.Values{
		"message": {"Build a solar drone"},
		"mode":    {"hybrid"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	wantReply := "Generated documentation for: Build a solar drone\nAI fallback reason: No AI credentials found; running in static mode"
	if body.Reply != wantReply {
		t.Errorf("reply = %q\nwant   %q", body.Reply, wantReply)
	}
	if body.AI.ModeRequested != "hybrid" || body.AI.ModeUsed != "static" {
		t.Errorf("modes = %q/%q, want hybrid/static", body.AI.ModeRequested, body.AI.ModeUsed)
	}
	if body.AI.Error == nil || !strings.Contains(*body.AI.Error, "No AI credentials") {
		t.Errorf("ai.error = %v, want recorded reason", body.AI.Error)
	}
}

func TestChat_MissingMessage(t *testing.T) {
	srv := newTestServer(t, disabledSelection(), &fakeFetcher{})

	rec, _ := postChat(t, srv.Handler(), url.Values{"mode": {"hybrid"}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "message is required" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestChat_UploadFilenameInReply(t *testing.T) {
	srv := newTestServer(t, disabledSelection(), &fakeFetcher{})

	var buf strings.Builder
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("message", "Build a solar drone"); err != nil {
		t.Fatal(err)
	}
	fw, err := mw.CreateFormFile("file", "requirements.docx")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("ignored contents")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/chat", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// The filename lands in the rendered plan, not the reply; the request
	// succeeding without reading the upload contents is what matters here.
	var body chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Reply == "" {
		t.Error("empty reply")
	}
}

func TestFiles_ServesGeneratedArtifact(t *testing.T) {
	fetcher := &fakeFetcher{}
	srv := newTestServer(t, disabledSelection(), fetcher)

	if _, body := postChat(t, srv.Handler(), url.Values{"message": {"Build a solar drone"}}); body.Reply == "" {
		t.Fatal("chat request failed")
	}

	req := httptest.NewRequest("GET", "/files/report.pdf", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("served file is not a PDF")
	}
}

func TestFiles_NotFound(t *testing.T) {
	srv := newTestServer(t, disabledSelection(), &fakeFetcher{})

	req := httptest.NewRequest("GET", "/files/missing.pdf", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "File not found" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestFiles_RejectsTraversal(t *testing.T) {
	srv := newTestServer(t, disabledSelection(), &fakeFetcher{})

	req := httptest.NewRequest("GET", "/files/"+url.PathEscape("../go.mod"), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStatus(t *testing.T) {
	srv := newTestServer(t, readySelection(), &fakeFetcher{})

	req := httptest.NewRequest("GET", "/status", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["ai_enabled"] != true {
		t.Errorf("ai_enabled = %v", body["ai_enabled"])
	}
	if body["provider"] != "gemini" || body["model"] != "gemini-1.5-flash" {
		t.Errorf("provider/model = %v/%v", body["provider"], body["model"])
	}
	if body["message"] != "Gemini ready" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, disabledSelection(), &fakeFetcher{})

	req := httptest.NewRequest("OPTIONS", "/chat", nil)
	req.Header.Set("Origin", "http://example.test")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

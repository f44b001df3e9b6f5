package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ZaguanLabs/codelai"
	"github.com/ZaguanLabs/codelai/provider"
	"github.com/ZaguanLabs/codelai/session"
)

func newTestServer(response string) (*Server, *session.Controller, *provider.MockProvider) {
	p := provider.NewMockProvider(response)
	ctrl := session.New(codelai.NewTranslator(p))
	return New(ctrl, nil), ctrl, p
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) session.State {
	t.Helper()
	var st session.State
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decoding state: %v (body %q)", err, rec.Body.String())
	}
	return st
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error: %v (body %q)", err, rec.Body.String())
	}
	return body.Error
}

func uploadRequest(t *testing.T, field, name, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	if err != nil {
		t.Fatalf("creating form file: %v", err)
	}
	_, _ = fw.Write([]byte(content))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestIndex(t *testing.T) {
	s, _, _ := newTestServer("")
	rec := do(t, s, http.MethodGet, "/", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), "/api/translate") {
		t.Error("page should drive the translate endpoint")
	}

	if rec := do(t, s, http.MethodGet, "/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestLanguages(t *testing.T) {
	s, _, _ := newTestServer("")
	rec := do(t, s, http.MethodGet, "/api/languages", nil)

	var langs []LanguageInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &langs); err != nil {
		t.Fatalf("decoding languages: %v", err)
	}
	if len(langs) != len(codelai.SupportedLanguages) {
		t.Fatalf("expected %d languages, got %d", len(codelai.SupportedLanguages), len(langs))
	}
	if langs[0].ID != codelai.JavaScript {
		t.Errorf("expected javascript first, got %q", langs[0].ID)
	}
	for _, l := range langs {
		if l.ID == codelai.CPP && l.Name != "C++" {
			t.Errorf("expected C++, got %q", l.Name)
		}
	}
}

func TestState(t *testing.T) {
	s, _, _ := newTestServer("")
	rec := do(t, s, http.MethodGet, "/api/state", nil)

	st := decodeState(t, rec)
	if st.Input != session.ExampleCode || st.Language != codelai.JavaScript {
		t.Errorf("unexpected initial state: %+v", st)
	}
}

func TestSetters(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   any
		status int
		check  func(session.State) bool
	}{
		{"input", "/api/input", map[string]string{"input": "x = 1"}, http.StatusOK,
			func(s session.State) bool { return s.Input == "x = 1" }},
		{"language", "/api/language", map[string]string{"language": "Python"}, http.StatusOK,
			func(s session.State) bool { return s.Language == codelai.Python }},
		{"unsupported language", "/api/language", map[string]string{"language": "cobol"}, http.StatusBadRequest, nil},
		{"mode", "/api/mode", map[string]string{"mode": "comments_only"}, http.StatusOK,
			func(s session.State) bool { return s.Mode == codelai.ModeCommentsOnly }},
		{"mode alias", "/api/mode", map[string]string{"mode": "comments"}, http.StatusOK,
			func(s session.State) bool { return s.Mode == codelai.ModeCommentsOnly }},
		{"unknown mode", "/api/mode", map[string]string{"mode": "partial"}, http.StatusBadRequest, nil},
		{"target", "/api/target", map[string]string{"targetLang": "ja-JP"}, http.StatusOK,
			func(s session.State) bool { return s.TargetLang == "ja_JP" }},
		{"empty target", "/api/target", map[string]string{"targetLang": ""}, http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestServer("")
			rec := do(t, s, http.MethodPut, tt.path, tt.body)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d (%s)", tt.status, rec.Code, rec.Body.String())
			}
			if tt.check == nil {
				if decodeError(t, rec) == "" {
					t.Error("expected an error message")
				}
				return
			}
			if st := decodeState(t, rec); !tt.check(st) {
				t.Errorf("unexpected state: %+v", st)
			}
		})
	}
}

func TestSetters_InvalidJSON(t *testing.T) {
	s, _, _ := newTestServer("")
	req := httptest.NewRequest(http.MethodPut, "/api/input", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _, _ := newTestServer("")
	rec := do(t, s, http.MethodGet, "/api/translate", nil)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestUpload(t *testing.T) {
	s, _, _ := newTestServer("")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "file", "main.rs", "fn main() {}"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	st := decodeState(t, rec)
	if st.Language != codelai.Rust || st.FileName != "main.rs" || st.Input != "fn main() {}" {
		t.Errorf("unexpected state: %+v", st)
	}
}

func TestUpload_MissingField(t *testing.T) {
	s, _, _ := newTestServer("")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, uploadRequest(t, "other", "main.rs", "fn main() {}"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUpload_NotMultipart(t *testing.T) {
	s, _, _ := newTestServer("")
	rec := do(t, s, http.MethodPost, "/api/upload", map[string]string{"file": "x"})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestTranslate(t *testing.T) {
	s, ctrl, p := newTestServer("# bonjour\nprint(1)")
	ctrl.SetInput("# hello\nprint(1)")
	_ = ctrl.SetLanguage(codelai.Python)

	rec := do(t, s, http.MethodPost, "/api/translate", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	st := decodeState(t, rec)
	if st.Output != "# bonjour\nprint(1)" || st.InFlight || st.Error != "" {
		t.Errorf("unexpected state: %+v", st)
	}
	if p.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", p.CallCount())
	}
}

func TestTranslate_Blank(t *testing.T) {
	s, ctrl, p := newTestServer("x")
	ctrl.SetInput("   ")

	rec := do(t, s, http.MethodPost, "/api/translate", nil)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if p.CallCount() != 0 {
		t.Errorf("expected no call, got %d", p.CallCount())
	}
}

func TestTranslate_ServiceFailure(t *testing.T) {
	s, ctrl, p := newTestServer("")
	p.Err = &codelai.ProviderError{Kind: codelai.KindService, StatusCode: 503, Message: "overloaded"}
	ctrl.SetInput("// hi")

	rec := do(t, s, http.MethodPost, "/api/translate", nil)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	st := decodeState(t, rec)
	if st.Error == "" || st.InFlight {
		t.Errorf("expected error state, got %+v", st)
	}
	if strings.Contains(st.Error, "overloaded") {
		t.Error("provider details should not reach the page")
	}

	rec = do(t, s, http.MethodDelete, "/api/error", nil)
	if st := decodeState(t, rec); st.Error != "" {
		t.Errorf("expected error dismissed, got %q", st.Error)
	}
}

func TestTranslate_InFlightConflict(t *testing.T) {
	s, _, p := newTestServer("// done")
	p.Started = make(chan struct{}, 1)
	p.Release = make(chan struct{})

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/translate", nil))
		first <- rec
	}()
	<-p.Started

	rec := do(t, s, http.MethodPost, "/api/translate", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	if st := decodeState(t, do(t, s, http.MethodGet, "/api/state", nil)); !st.InFlight {
		t.Error("state should report in flight")
	}

	close(p.Release)
	if rec := <-first; rec.Code != http.StatusOK {
		t.Errorf("expected first request to succeed, got %d", rec.Code)
	}
	if p.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", p.CallCount())
	}
}

func TestTranslate_DetachedFromClient(t *testing.T) {
	s, _, p := newTestServer("// done")
	p.Started = make(chan struct{}, 1)
	p.Release = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/api/translate", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		s.ServeHTTP(httptest.NewRecorder(), req)
		close(done)
	}()
	<-p.Started

	cancel()
	close(p.Release)
	<-done

	st := decodeState(t, do(t, s, http.MethodGet, "/api/state", nil))
	if st.Output != "// done" {
		t.Errorf("translation should complete after the client went away, got %+v", st)
	}
}

func TestDownload(t *testing.T) {
	s, ctrl, _ := newTestServer("print('bonjour')")

	if rec := do(t, s, http.MethodGet, "/api/download", nil); rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 with no output, got %d", rec.Code)
	}

	_ = ctrl.Upload("foo.py", strings.NewReader("print('hello')"))
	_ = ctrl.Translate(context.Background())

	rec := do(t, s, http.MethodGet, "/api/download", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename=translated_foo.py` {
		t.Errorf("unexpected disposition %q", got)
	}
	if rec.Body.String() != "print('bonjour')" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestTranslate_AfterClose(t *testing.T) {
	s, ctrl, _ := newTestServer("x")
	ctrl.Close()

	if rec := do(t, s, http.MethodPost, "/api/translate", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestRun_Shutdown(t *testing.T) {
	s, _, _ := newTestServer("")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStatusRecorder_ResponseController(t *testing.T) {
	inner := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: inner, status: http.StatusOK}

	rec.WriteHeader(http.StatusAccepted)
	if err := http.NewResponseController(rec).Flush(); err != nil {
		t.Fatalf("Flush through the recorder failed: %v", err)
	}

	if !inner.Flushed {
		t.Error("underlying writer was not flushed")
	}
	if rec.status != http.StatusAccepted || inner.Code != http.StatusAccepted {
		t.Errorf("status not recorded: %d / %d", rec.status, inner.Code)
	}
}

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/sprite-ai/patchlint/internal/lint"
	"github.com/sprite-ai/patchlint/internal/report"
)

const testPatch = `From 1111111111111111 Mon Sep 17 00:00:00 2001
Subject: [PATCH] add helper

---
diff --git a/util.cc b/util.cc
--- a/util.cc
+++ b/util.cc
@@ -1,2 +1,5 @@
 #include "util.h"
+int add(int a, int b) {
+  return a + b;
+}
 // end
`

const brokenPatch = `diff --git a/util.cc b/util.cc
--- a/util.cc
+++ b/util.cc
@@ -1,1 +1,2 @@
 #include "util.h"
+}
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(":0", Options{Lint: lint.DefaultOptions(), Pattern: "*.patch"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func post(t *testing.T, srv *Server, path string, v any) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(v)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %q", resp["status"])
	}
}

func TestLintEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := post(t, srv, "/api/lint", lintRequest{Name: "0001-add.patch", Patch: testPatch})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp report.FileJSON
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if !resp.Valid {
		t.Errorf("expected valid patch, got issues %+v", resp.Issues)
	}
	if resp.Name != "0001-add.patch" {
		t.Errorf("expected name 0001-add.patch, got %q", resp.Name)
	}
	if resp.Files != 1 || resp.Added != 3 {
		t.Errorf("expected 1 file +3, got %d file(s) +%d", resp.Files, resp.Added)
	}
}

func TestLintEndpointReportsIssues(t *testing.T) {
	srv := newTestServer(t)

	w := post(t, srv, "/api/lint", lintRequest{Patch: brokenPatch})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp report.FileJSON
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.Valid {
		t.Fatal("expected invalid patch")
	}
	if resp.Name != defaultPatchName {
		t.Errorf("expected default name, got %q", resp.Name)
	}

	var sawHeader, sawBrace bool
	for _, i := range resp.Issues {
		switch i.Message {
		case "missing proper patch header":
			sawHeader = true
		case "unmatched closing brace":
			sawBrace = true
			if i.Line != 6 {
				t.Errorf("expected brace issue on line 6, got %d", i.Line)
			}
		}
	}
	if !sawHeader || !sawBrace {
		t.Errorf("missing expected issues: %+v", resp.Issues)
	}
}

func TestLintEmptyPatch(t *testing.T) {
	srv := newTestServer(t)

	w := post(t, srv, "/api/lint", lintRequest{Patch: ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestLintInvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/lint", strings.NewReader("{bad json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRunEndpoint(t *testing.T) {
	srv := newTestServer(t)
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.patch"), []byte(testPatch), 0o644)
	os.WriteFile(filepath.Join(dir, "b.patch"), []byte(brokenPatch), 0o644)

	w := post(t, srv, "/api/run", runRequest{Dir: dir})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp report.SummaryJSON
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.Result != "Results: 1/2 patches valid" {
		t.Errorf("unexpected result line %q", resp.Result)
	}
	if resp.OK {
		t.Error("expected ok=false")
	}
	if len(resp.Files) != 2 || resp.Files[0].Name != "a.patch" {
		t.Errorf("expected sorted files, got %+v", resp.Files)
	}
}

func TestRunMissingDir(t *testing.T) {
	srv := newTestServer(t)

	w := post(t, srv, "/api/run", runRequest{Dir: filepath.Join(t.TempDir(), "missing")})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = post(t, srv, "/api/run", runRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without dir, got %d", w.Code)
	}
}

func TestNewRejectsUnknownSkip(t *testing.T) {
	opts := Options{Lint: lint.DefaultOptions()}
	opts.Lint.Skip = []string{"nope"}
	if _, err := New(":0", opts); err == nil {
		t.Error("expected error for unknown check")
	}
}

func wsURL(t *testing.T, srv *Server) string {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
}

func dialWS(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(t, srv), nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketLintSession(t *testing.T) {
	srv := newTestServer(t)
	conn := dialWS(t, srv)

	for _, p := range []lintRequest{
		{Name: "good.patch", Patch: testPatch},
		{Name: "bad.patch", Patch: brokenPatch},
	} {
		data, _ := json.Marshal(p)
		if err := conn.WriteJSON(wsMessage{Type: wsMsgLintPatch, Data: data}); err != nil {
			t.Fatalf("ws write: %v", err)
		}

		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ws read report: %v", err)
		}
		if msg.Type != wsMsgReport {
			t.Fatalf("expected 'report' message, got %q", msg.Type)
		}
		var fr report.FileJSON
		if err := json.Unmarshal(msg.Data, &fr); err != nil {
			t.Fatalf("unmarshal report: %v", err)
		}
		if fr.Name != p.Name {
			t.Errorf("expected report for %s, got %s", p.Name, fr.Name)
		}
	}

	if err := conn.WriteJSON(wsMessage{Type: wsMsgFinish}); err != nil {
		t.Fatalf("ws write finish: %v", err)
	}

	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ws read summary: %v", err)
	}
	if msg.Type != wsMsgSummary {
		t.Fatalf("expected 'summary' message, got %q", msg.Type)
	}
	var summary report.SummaryJSON
	if err := json.Unmarshal(msg.Data, &summary); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if summary.Valid != 1 || summary.Total != 2 {
		t.Errorf("expected 1/2 valid, got %d/%d", summary.Valid, summary.Total)
	}
}

func TestWebSocketRunDir(t *testing.T) {
	srv := newTestServer(t)
	conn := dialWS(t, srv)

	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.patch"), []byte(testPatch), 0o644)

	data, _ := json.Marshal(runRequest{Dir: dir})
	conn.WriteJSON(wsMessage{Type: wsMsgRunDir, Data: data})

	var msg wsMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("ws read: %v", err)
	}
	if msg.Type != wsMsgSummary {
		t.Fatalf("expected 'summary' message, got %q", msg.Type)
	}
	var summary report.SummaryJSON
	json.Unmarshal(msg.Data, &summary)
	if !summary.OK {
		t.Errorf("expected all patches valid, got %s", summary.Result)
	}
}

func TestWebSocketErrors(t *testing.T) {
	srv := newTestServer(t)
	conn := dialWS(t, srv)

	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	conn.WriteJSON(wsMessage{Type: "approve"})
	data, _ := json.Marshal(runRequest{Dir: filepath.Join(t.TempDir(), "missing")})
	conn.WriteJSON(wsMessage{Type: wsMsgRunDir, Data: data})

	for i := 0; i < 3; i++ {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ws read %d: %v", i, err)
		}
		if msg.Type != wsMsgError {
			t.Errorf("message %d: expected 'error', got %q", i, msg.Type)
		}
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	srv := newTestServer(t)
	url := wsURL(t, srv)

	header := http.Header{"Origin": {"http://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		conn.Close()
		t.Fatal("expected handshake from foreign origin to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %v", resp)
	}

	for _, origin := range []string{"http://localhost:3000", "http://127.0.0.1:6142", "http://[::1]:6142"} {
		conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {origin}})
		if err != nil {
			t.Errorf("origin %s: expected handshake to succeed: %v", origin, err)
			continue
		}
		conn.Close()
	}
}

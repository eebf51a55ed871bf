// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const figureBody = `{"success":true,"data":{"id":"spend_box","data":[{"type":"box"}]}}`

func serveCompressed(acceptEncoding string, h http.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/charts/spend_box", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	rec := httptest.NewRecorder()
	Compression(h).ServeHTTP(rec, req)
	return rec
}

func writeFigure(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", "999")
	_, _ = io.WriteString(w, figureBody)
}

func TestCompression_Gzip(t *testing.T) {
	for _, accept := range []string{"gzip", "gzip, deflate, br", "deflate, gzip;q=0.5"} {
		t.Run(accept, func(t *testing.T) {
			rec := serveCompressed(accept, writeFigure)

			if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
				t.Fatalf("Content-Encoding = %q, want gzip", got)
			}
			if rec.Header().Get("Content-Length") != "" {
				t.Error("Content-Length should be removed")
			}
			if !strings.Contains(rec.Header().Get("Vary"), "Accept-Encoding") {
				t.Error("missing Vary: Accept-Encoding")
			}

			gz, err := gzip.NewReader(rec.Body)
			if err != nil {
				t.Fatalf("gzip.NewReader: %v", err)
			}
			body, err := io.ReadAll(gz)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(body) != figureBody {
				t.Errorf("body = %q, want %q", body, figureBody)
			}
		})
	}
}

func TestCompression_NotAccepted(t *testing.T) {
	rec := serveCompressed("", writeFigure)

	if rec.Header().Get("Content-Encoding") != "" {
		t.Error("response should not be compressed")
	}
	if rec.Body.String() != figureBody {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestCompression_BodilessResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not modified", http.StatusNotModified},
		{"no content", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveCompressed("gzip", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if rec.Header().Get("Content-Encoding") != "" {
				t.Error("bodiless response must not be gzip encoded")
			}
			if rec.Body.Len() != 0 {
				t.Errorf("body length = %d, want 0", rec.Body.Len())
			}
		})
	}
}

func TestCompression_HeaderOnlyOK(t *testing.T) {
	rec := serveCompressed("gzip", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if rec.Body.Len() != 0 {
		t.Errorf("body length = %d, want 0 when nothing was written", rec.Body.Len())
	}
}

func TestCompression_PreEncodedPassthrough(t *testing.T) {
	rec := serveCompressed("gzip", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		_, _ = io.WriteString(w, "raw")
	})
	if rec.Header().Get("Content-Encoding") != "br" {
		t.Errorf("Content-Encoding = %q, want br", rec.Header().Get("Content-Encoding"))
	}
	if rec.Body.String() != "raw" {
		t.Errorf("body = %q, want raw", rec.Body.String())
	}
}

func BenchmarkCompression(b *testing.B) {
	handler := Compression(http.HandlerFunc(writeFigure))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/charts/spend_box", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}

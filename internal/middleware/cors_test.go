package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/outstackhq/outstack/internal/middleware"
)

func TestMiddleware_CORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, method string
		wantCode     int
		nextCalled   bool
	}{
		{
			name:       "GET passes through with allow headers",
			method:     http.MethodGet,
			wantCode:   http.StatusOK,
			nextCalled: true,
		},
		{
			name:       "POST passes through with allow headers",
			method:     http.MethodPost,
			wantCode:   http.StatusOK,
			nextCalled: true,
		},
		{
			name:     "OPTIONS preflight is answered directly",
			method:   http.MethodOptions,
			wantCode: http.StatusNoContent,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var nextCalled bool
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tc.method, "/", http.NoBody)
			req.Header.Set("Origin", "http://localhost:3000")
			rec := httptest.NewRecorder()
			middleware.CORS(handler).ServeHTTP(rec, req)

			gotCode := rec.Code
			if gotCode != tc.wantCode {
				t.Errorf("rec.Code = %d, want: %d", gotCode, tc.wantCode)
			}
			if nextCalled != tc.nextCalled {
				t.Errorf("nextCalled = %t, want: %t", nextCalled, tc.nextCalled)
			}

			wantHeaders := map[string]string{
				middleware.HeaderAllowOrigin:  "*",
				middleware.HeaderAllowMethods: middleware.AllowedMethods,
				middleware.HeaderAllowHeaders: middleware.AllowedHeaders,
			}
			for header, want := range wantHeaders {
				if got := rec.Header().Get(header); got != want {
					t.Errorf("rec.Header().Get(%q) = %q, want: %q", header, got, want)
				}
			}
		})
	}
}

package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{
			name:           "exact match",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{"http://localhost:3000"},
			want:           true,
		},
		{
			name:           "wildcard port",
			origin:         "http://localhost:5173",
			allowedOrigins: []string{"http://localhost:*"},
			want:           true,
		},
		{
			name:           "multiple allowed origins - matches second",
			origin:         "https://intake.example.com",
			allowedOrigins: []string{"http://localhost:*", "https://intake.example.com"},
			want:           true,
		},
		{
			name:           "no match",
			origin:         "http://evil.com",
			allowedOrigins: []string{"http://localhost:*"},
			want:           false,
		},
		{
			name:           "empty origin",
			origin:         "",
			allowedOrigins: []string{"*"},
			want:           false,
		},
		{
			name:           "empty allowed list",
			origin:         "http://localhost:3000",
			allowedOrigins: []string{},
			want:           false,
		},
		{
			name:           "scheme must match",
			origin:         "https://localhost:3000",
			allowedOrigins: []string{"http://localhost:*"},
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isAllowedOrigin(tt.origin, tt.allowedOrigins)
			if got != tt.want {
				t.Errorf("isAllowedOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantCORS   bool
	}{
		{
			name:       "allowed origin - GET request",
			origin:     "http://localhost:3000",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
			wantCORS:   true,
		},
		{
			name:       "allowed origin - OPTIONS request",
			origin:     "http://localhost:3000",
			method:     http.MethodOptions,
			wantStatus: http.StatusNoContent,
			wantCORS:   true,
		},
		{
			name:       "disallowed origin",
			origin:     "http://evil.com",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
			wantCORS:   false,
		},
		{
			name:       "no origin header",
			origin:     "",
			method:     http.MethodGet,
			wantStatus: http.StatusOK,
			wantCORS:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware([]string{"http://localhost:*"}))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}

			corsHeader := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantCORS {
				if corsHeader != tt.origin {
					t.Errorf("Access-Control-Allow-Origin = %s, want %s", corsHeader, tt.origin)
				}
				if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
					t.Errorf("Access-Control-Allow-Credentials not set to true")
				}
			} else if corsHeader != "" {
				t.Errorf("Access-Control-Allow-Origin should not be set for disallowed origin, got %s", corsHeader)
			}
		})
	}
}

func TestCORSMiddleware_PreflightRequest(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"http://localhost:*"}))
	router.POST("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:8081" {
		t.Errorf("Access-Control-Allow-Origin not set correctly")
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Errorf("Access-Control-Allow-Methods not set")
	}
	if w.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Errorf("Access-Control-Allow-Headers not set")
	}
	if w.Header().Get("Access-Control-Max-Age") == "" {
		t.Errorf("Access-Control-Max-Age not set")
	}
}

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	router := gin.New()
	router.Use(LoggerMiddleware(logger))
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	line := buf.String()
	for _, want := range []string{"level=ERROR", "method=GET", "path=/boom", "status=500"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	newRouter := func(perMinute int) *gin.Engine {
		router := gin.New()
		router.Use(RateLimitMiddleware(perMinute))
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})
		return router
	}

	request := func(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("allows a burst then rejects", func(t *testing.T) {
		router := newRouter(3)
		for i := 0; i < 3; i++ {
			if w := request(router, "10.0.0.1:1234"); w.Code != http.StatusOK {
				t.Fatalf("request %d status = %d, want %d", i+1, w.Code, http.StatusOK)
			}
		}

		w := request(router, "10.0.0.1:1234")
		if w.Code != http.StatusTooManyRequests {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusTooManyRequests)
		}
		if w.Header().Get("Retry-After") == "" {
			t.Errorf("Retry-After not set")
		}
	})

	t.Run("limits each client separately", func(t *testing.T) {
		router := newRouter(1)
		if w := request(router, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("first client status = %d, want %d", w.Code, http.StatusOK)
		}
		if w := request(router, "10.0.0.2:1234"); w.Code != http.StatusOK {
			t.Errorf("second client status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("zero disables limiting", func(t *testing.T) {
		router := newRouter(0)
		for i := 0; i < 50; i++ {
			if w := request(router, "10.0.0.1:1234"); w.Code != http.StatusOK {
				t.Fatalf("request %d status = %d, want %d", i+1, w.Code, http.StatusOK)
			}
		}
	})
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/article-engagement-api/internal/identity"
	"github.com/article-engagement-api/internal/metrics"
	"github.com/article-engagement-api/internal/middleware"
)

func TestRequestID_GeneratesNewID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())

	var seen string
	router.GET("/test", func(c *gin.Context) {
		seen = middleware.GetRequestID(c)
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	requestID := w.Header().Get(middleware.RequestIDHeader)
	assert.Len(t, requestID, 36)
	assert.Equal(t, requestID, seen)
}

func TestRequestID_UsesClientProvidedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(middleware.RequestIDHeader, "client-provided-id-12345")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "client-provided-id-12345", w.Header().Get(middleware.RequestIDHeader))
}

func TestGetRequestID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, middleware.GetRequestID(c))
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Metrics())
	router.GET("/v1/comments/:id", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/v1/comments/:id", "404")
	before := testutil.ToFloat64(counter)
	inFlight := testutil.ToFloat64(metrics.HTTPRequestsInFlight)

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/comments/"+id, nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter), "ids collapse into the route template")
	assert.Equal(t, inFlight, testutil.ToFloat64(metrics.HTTPRequestsInFlight))
}

func TestMetrics_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Metrics())

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

type fixedGate struct {
	id identity.Identity
}

func (g fixedGate) Resolve(*http.Request) identity.Identity {
	return g.id
}

func TestIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		gate identity.Gate
		want identity.Identity
	}{
		{"authenticated", fixedGate{identity.Identity{UserID: "U1", Name: "One"}}, identity.Identity{UserID: "U1", Name: "One"}},
		{"anonymous", fixedGate{}, identity.Anonymous},
		{"header gate", identity.HeaderGate{}, identity.Identity{UserID: "U9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(middleware.Identity(tt.gate))

			var got identity.Identity
			router.GET("/test", func(c *gin.Context) {
				got = middleware.GetIdentity(c)
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(identity.UserIDHeader, "U9")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusNoContent, w.Code, "identity never rejects")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetIdentity_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, identity.Anonymous, middleware.GetIdentity(c))
}

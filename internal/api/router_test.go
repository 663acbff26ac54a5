package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/learnhub/enrollment-pipeline/internal/api/middleware"
	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
	"github.com/learnhub/enrollment-pipeline/internal/core/ports"
	"github.com/learnhub/enrollment-pipeline/internal/infrastructure/http/handlers"
)

type fixedPurchaseService struct{}

func (fixedPurchaseService) Process(context.Context, ports.PurchaseEventInput) (*ports.PurchaseOutcome, error) {
	return nil, domain.ErrStorage
}

func (fixedPurchaseService) Lookup(context.Context, domain.DedupKey) (*ports.PurchaseOutcome, error) {
	return nil, domain.ErrTransactionNotFound
}

func newTestRouter() http.Handler {
	return NewRouter(RouterDeps{
		Purchases:  fixedPurchaseService{},
		Health:     handlers.NewHealthHandler(),
		JWTSecret:  "secret",
		Log:        zerolog.Nop(),
		Registerer: prometheus.NewRegistry(),
	})
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := middleware.IssueToken("secret", "caller", role, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + tok
}

func TestRouter_Routes(t *testing.T) {
	body := `{"email":"a@x.com","full_name":"A","course_id":"C1"}`
	cases := []struct {
		name     string
		method   string
		path     string
		auth     string
		body     string
		wantCode int
	}{
		{"liveness", http.MethodGet, "/health", "", "", http.StatusOK},
		{"webhook without token", http.MethodPost, "/v1/webhooks/purchases", "", body, http.StatusUnauthorized},
		{"webhook as integration", http.MethodPost, "/v1/webhooks/purchases", middleware.RoleIntegration, body, http.StatusServiceUnavailable},
		{"webhook as administrator", http.MethodPost, "/v1/webhooks/purchases", middleware.RoleAdministrator, body, http.StatusServiceUnavailable},
		{"webhook as unknown role", http.MethodPost, "/v1/webhooks/purchases", "learner", body, http.StatusForbidden},
		{"lookup as integration", http.MethodGet, "/v1/purchases/T1", middleware.RoleIntegration, "", http.StatusForbidden},
		{"lookup as administrator", http.MethodGet, "/v1/purchases/T1", middleware.RoleAdministrator, "", http.StatusNotFound},
	}

	router := newTestRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			if tc.auth != "" {
				req.Header.Set("Authorization", bearer(t, tc.auth))
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouter_StorageFailureAdvertisesRetry(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/purchases",
		strings.NewReader(`{"email":"a@x.com","full_name":"A","course_id":"C1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, middleware.RoleIntegration))
	rec := httptest.NewRecorder()

	newTestRouter().ServeHTTP(rec, req)

	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After on a retryable failure")
	}
}

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aire-labs/aire/internal/account"
	"github.com/aire-labs/aire/internal/model"
	"github.com/aire-labs/aire/internal/store"
	"github.com/aire-labs/aire/internal/underwrite"
)

func newTestMux(t *testing.T, freeAnalyses int) (*http.ServeMux, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	engine := underwrite.NewEngine(underwrite.DefaultConfig())
	accounts := account.NewService(st, freeAnalyses, "")
	return newServeMux(engine, st, accounts), st
}

func TestServeMux_Health(t *testing.T) {
	mux, _ := newTestMux(t, 2)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeMux_Analyze(t *testing.T) {
	mux, _ := newTestMux(t, 2)

	body := `{
		"address": "123 Main St, Springfield",
		"price": 400000,
		"down_payment_pct": 50,
		"interest_rate_pct": 7.25,
		"term_years": 30,
		"monthly_rent": 3000,
		"monthly_expenses": 300,
		"vacancy_rate": 0.08,
		"replacement_cost": 450000,
		"days_on_market": 45,
		"job_diversity_index": 0.74,
		"rate_env": "HIGH"
	}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		RunID    string          `json:"run_id"`
		Analysis *model.Analysis `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.RunID, "no run id without save")
	assert.Equal(t, model.GradeB, resp.Analysis.Result.Grade)
	assert.False(t, resp.Analysis.Result.KillSwitch)
}

func TestServeMux_Analyze_SaveRoundTrip(t *testing.T) {
	mux, _ := newTestMux(t, 2)

	body := `{"address":"123 Main St, Springfield","price":400000,"down_payment_pct":50,"monthly_rent":3000,"monthly_expenses":300,"interest_rate_pct":7.25,"term_years":30,"save":true}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.RunID)

	getRec := httptest.NewRecorder()
	mux.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, "/runs/"+resp.RunID, nil))
	require.Equal(t, http.StatusOK, getRec.Code)
	assert.Contains(t, getRec.Body.String(), "123 Main St")
}

func TestServeMux_Analyze_MissingPrice(t *testing.T) {
	mux, _ := newTestMux(t, 2)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"monthly_rent":2600}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "price is required")
}

func TestServeMux_Analyze_BadBody(t *testing.T) {
	mux, _ := newTestMux(t, 2)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeMux_Analyze_QuotaExhausted(t *testing.T) {
	mux, _ := newTestMux(t, 0)

	body := `{"price":320000,"monthly_rent":2600,"email":"buyer@example.com"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body)))

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), "exhausted")
}

func TestServeMux_RunNotFound(t *testing.T) {
	mux, _ := newTestMux(t, 2)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs/no-such-id", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

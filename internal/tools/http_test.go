package tools

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditflow/auditflow/internal/ledger"
	"github.com/auditflow/auditflow/internal/observability"
	"github.com/auditflow/auditflow/internal/platform/httpx"
)

func newTestRouter(t *testing.T, src ledger.Source, logs io.Writer) http.Handler {
	t.Helper()
	if logs == nil {
		logs = io.Discard
	}
	logger := slog.New(slog.NewTextHandler(logs, nil))
	handler := NewHandler(logger, newTestService(src), observability.NewMetrics())
	r := chi.NewRouter()
	r.Route("/tools", handler.MountRoutes)
	return r
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlerTotalReturnsNumbers(t *testing.T) {
	router := newTestRouter(t, fixtureSource(), nil)

	rr := post(t, router, "/tools/total", `{"period":"current","column":"credit","toolCallId":"abc"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, SchemaTotal, body["schema"])
	assert.Equal(t, "abc", body["tool_call_id"])
	assert.Equal(t, "current", body["period"])
	assert.Equal(t, "credit", body["column"])
	assert.InDelta(t, 99.995, body["total"], 1e-9)
}

func TestHandlerInvalidColumnIsProblem(t *testing.T) {
	router := newTestRouter(t, fixtureSource(), nil)

	rr := post(t, router, "/tools/total", `{"period":"current","column":"foo"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))

	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	require.Len(t, problem.InvalidParams, 1)
	assert.Equal(t, "column", problem.InvalidParams[0].Name)
	assert.Equal(t, "foo", problem.InvalidParams[0].Value)
	assert.Equal(t, []string{"debit", "credit", "balance"}, problem.InvalidParams[0].Allowed)
}

func TestHandlerUnknownTool(t *testing.T) {
	router := newTestRouter(t, fixtureSource(), nil)

	rr := post(t, router, "/tools/deleteAll", `{}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlerDataSourceUnavailableHidesCause(t *testing.T) {
	var logs bytes.Buffer
	src := &trackingSource{err: fmt.Errorf("%w: dial tcp 10.1.2.3:5432", ledger.ErrDataSourceUnavailable)}
	router := newTestRouter(t, src, &logs)

	rr := post(t, router, "/tools/accountNames", `{"period":"previous"}`)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.NotContains(t, rr.Body.String(), "10.1.2.3")
	assert.Contains(t, logs.String(), "tool=accountNames")
	assert.Contains(t, logs.String(), "10.1.2.3")
}

func TestHandlerListsTools(t *testing.T) {
	router := newTestRouter(t, fixtureSource(), nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tools/", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Tools []struct {
			Name   string  `json:"name"`
			Inputs []Input `json:"inputs"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Tools, 5)
	assert.Equal(t, ToolTotal, body.Tools[2].Name)
	assert.Equal(t, []string{"current", "previous"}, body.Tools[2].Inputs[0].Enum)
}

func TestHandlerVarianceEmptyBodyUsesDefault(t *testing.T) {
	router := newTestRouter(t, fixtureSource(), nil)

	rr := post(t, router, "/tools/varianceAnalysis", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body VarianceAnalysisResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 3, body.TotalAccounts)
	assert.Equal(t, 2, body.VarianceCount)
	require.Len(t, body.VariancesExceedingThreshold, 2)
	assert.Equal(t, "C", body.VariancesExceedingThreshold[0].AccountName)
	assert.Equal(t, "B", body.VariancesExceedingThreshold[1].AccountName)
	assert.Equal(t, "33.33", body.VariancesExceedingThreshold[1].VariancePercentage.String())
}

func TestHandlerVarianceExport(t *testing.T) {
	router := newTestRouter(t, fixtureSource(), nil)

	rr := post(t, router, "/tools/varianceAnalysis/export", `{"threshold":50}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))

	records, err := csv.NewReader(rr.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Account", records[0][0])
	assert.Equal(t, []string{"C", "0.00", "80.00", "-80.00", "100.00", "true"}, records[1])
}

func TestHandlerExportRejectsNegativeThreshold(t *testing.T) {
	router := newTestRouter(t, fixtureSource(), nil)

	rr := post(t, router, "/tools/varianceAnalysis/export", `{"threshold":-1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var problem httpx.ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
	require.Len(t, problem.InvalidParams, 1)
	assert.Equal(t, "threshold", problem.InvalidParams[0].Name)
}

func TestObserveSkipsUnknownTools(t *testing.T) {
	h := NewHandler(nil, newTestService(fixtureSource()), nil)
	assert.NotPanics(t, func() {
		h.observe("nope", ErrUnknownTool, 0)
		h.observe(ToolTotal, errors.New("x"), 0)
	})
}

package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	events []string
	err    error
}

func (f *fakeDB) ExecContext(_ context.Context, _ string, args ...any) (sql.Result, error) {
	f.events = append(f.events, args[0].(string))
	return nil, f.err
}

func post(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-plan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.GeneratePlan(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestGeneratePlan_NoCredentialScenario(t *testing.T) {
	db := &fakeDB{}
	h := NewHandler(NewPlanner(nil), db, nil)

	rec, out := post(t, h, `{"goals":[{"text":"Run 5k","progress":"ran 1km"}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, true, out["usedMock"])
	assert.Contains(t, out["plan"], "Run 5k")
	assert.Contains(t, out["plan"], "ran 1km")
	assert.Equal(t, NoticeUnconfigured, out["notice"])
	assert.Equal(t, []string{"plan_generated"}, db.events)
}

func TestGeneratePlan_RealPlan(t *testing.T) {
	h := NewHandler(NewPlanner(respond(`{"text":"Week 1: walk"}`)), nil, nil)

	rec, out := post(t, h, `{"goals":[{"text":"Run 5k"}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Week 1: walk", out["plan"])
	assert.Equal(t, false, out["usedMock"])
	_, hasNotice := out["notice"]
	assert.False(t, hasNotice)
}

func TestGeneratePlan_ProviderFailureIsStill200(t *testing.T) {
	h := NewHandler(NewPlanner(failWith(errors.New("dial tcp: no route to host"))), nil, nil)

	rec, out := post(t, h, `{"goals":[{"text":"Run 5k","progress":"ran 1km"}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["usedMock"])
	assert.Equal(t, NoticeProviderFailed, out["notice"])
}

func TestGeneratePlan_BadRequests(t *testing.T) {
	p := respond(`{"text":"unused"}`)
	h := NewHandler(NewPlanner(p), nil, nil)

	for name, body := range map[string]string{
		"invalid json":    `{"goals":`,
		"missing goals":   `{}`,
		"null goals":      `{"goals":null}`,
		"goals is object": `{"goals":{"text":"Run"}}`,
		"goals is string": `{"goals":"Run 5k"}`,
		"empty array":     `{"goals":[]}`,
		"array of ints":   `{"goals":[1,2]}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec, out := post(t, h, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, out["error"])
		})
	}
	assert.Equal(t, int32(0), p.calls.Load())
}

func TestGeneratePlan_AnalyticsFailureDoesNotBreakResponse(t *testing.T) {
	db := &fakeDB{err: errors.New("relation analytics_events does not exist")}
	h := NewHandler(NewPlanner(nil), db, nil)

	rec, _ := post(t, h, `{"goals":[{"text":"Run 5k"}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, db.events, 1)
}

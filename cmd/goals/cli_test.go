package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goalplan-backend/internal/goals"
	"goalplan-backend/internal/plan"
	"goalplan-backend/internal/server"
)

func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"GOALPLAN_RELAY_URL", "GOALPLAN_STORE", "GOALPLAN_DATA_DIR", "GOALPLAN_REDIS_URL", "GOALPLAN_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return t.TempDir()
}

func runCLI(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func storedGoals(t *testing.T, dataDir string) []goals.Goal {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dataDir, goals.SnapshotKey+".json"))
	require.NoError(t, err)
	var list []goals.Goal
	require.NoError(t, json.Unmarshal(raw, &list))
	return list
}

func TestCLI_AddListDelete(t *testing.T) {
	dir := isolate(t)

	out, err := runCLI(t, dir, "add", "Run", "5k", "--progress", "ran 1km")
	require.NoError(t, err)
	assert.Contains(t, out, "Added goal")

	_, err = runCLI(t, dir, "add", "Read 12 books")
	require.NoError(t, err)

	list := storedGoals(t, dir)
	require.Len(t, list, 2)
	assert.Equal(t, "Read 12 books", list[0].Text)
	assert.Equal(t, "Run 5k", list[1].Text)
	assert.Equal(t, "ran 1km", list[1].Progress)

	out, err = runCLI(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Run 5k")
	assert.Contains(t, out, "No progress")
	assert.Less(t, strings.Index(out, "Read 12 books"), strings.Index(out, "Run 5k"))

	out, err = runCLI(t, dir, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "No goal with id 1")

	_, err = runCLI(t, dir, "rm", strconv.FormatInt(list[1].ID, 10))
	require.NoError(t, err)
	assert.Equal(t, list[:1], storedGoals(t, dir))
}

func TestCLI_AddRejectsBlank(t *testing.T) {
	dir := isolate(t)

	_, err := runCLI(t, dir, "add", "   ")
	require.Error(t, err)
	assert.True(t, goals.IsValidation(err))
}

func TestCLI_ListEmpty(t *testing.T) {
	dir := isolate(t)
	out, err := runCLI(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No goals yet")
}

func TestCLI_PlanAgainstRelayWithoutCredentials(t *testing.T) {
	dir := isolate(t)
	relay := httptest.NewServer(server.NewRouter(plan.NewHandler(plan.NewPlanner(nil), nil, nil), zap.NewNop(), []string{"*"}))
	defer relay.Close()

	_, err := runCLI(t, dir, "add", "Run 5k", "-p", "ran 1km")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "--relay", relay.URL, "plan", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, plan.NoticeUnconfigured)
	assert.Contains(t, out, "1. Goal: Run 5k")
	assert.Contains(t, out, "Starting progress: ran 1km")
}

func TestCLI_PlanNeedsGoals(t *testing.T) {
	dir := isolate(t)
	_, err := runCLI(t, dir, "--relay", "http://127.0.0.1:1", "plan")
	require.Error(t, err)
	assert.True(t, goals.IsValidation(err))
}

func TestCLI_PlanRelayDown(t *testing.T) {
	dir := isolate(t)
	relay := httptest.NewServer(nil)
	url := relay.URL
	relay.Close()

	_, err := runCLI(t, dir, "add", "Run 5k")
	require.NoError(t, err)

	_, err = runCLI(t, dir, "--relay", url, "plan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not generate plan")
}

package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"goalplan-backend/internal/analytics"
	"goalplan-backend/internal/apperr"
	"goalplan-backend/internal/goals"
)

const maxBodyBytes = 1 << 20

// GenerateRequest is the relay request body.
type GenerateRequest struct {
	Goals []goals.Goal `json:"goals"`
}

// GenerateResponse is the relay 200 body, for real and mock plans alike.
type GenerateResponse struct {
	Plan     string `json:"plan"`
	UsedMock bool   `json:"usedMock"`
	Notice   string `json:"notice,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	Planner *Planner
	DB      analytics.Execer
	Logger  *zap.Logger
}

// NewHandler wires the relay endpoint. db may be nil to disable analytics.
func NewHandler(p *Planner, db analytics.Execer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Planner: p, DB: db, Logger: logger}
}

// GeneratePlan serves POST /api/generate-plan. Provider failures still
// answer 200 with usedMock=true.
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	list, err := decodeGoals(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	res, err := h.Planner.RequestPlan(r.Context(), list)
	if err != nil {
		var ve *apperr.ValidationError
		if errors.As(err, &ve) {
			WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "goals required (array): " + ve.Reason})
			return
		}
		h.Logger.Error("generate plan failed", zap.Error(&apperr.InternalError{Err: err}))
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "server error"})
		return
	}

	// analytics: plan_generated (no raw goal text)
	{
		env := analytics.FromRequest(r)
		props := map[string]any{
			"goal_count":  len(list),
			"used_mock":   res.UsedFallback,
			"shape":       string(res.Shape),
			"prompt_len":  res.PromptLen,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if err := analytics.Log(r.Context(), h.DB, env, "plan_generated", props, analytics.SourceEventKeyFromRequest(r)); err != nil {
			h.Logger.Warn("analytics write failed", zap.Error(err))
		}
	}

	WriteJSON(w, http.StatusOK, GenerateResponse{
		Plan:     res.PlanText,
		UsedMock: res.UsedFallback,
		Notice:   res.Notice,
	})
}

func decodeGoals(body io.Reader) ([]goals.Goal, error) {
	var envelope struct {
		Goals json.RawMessage `json:"goals"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, apperr.Validation("", "invalid json")
	}

	raw := bytes.TrimSpace(envelope.Goals)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, apperr.Validation("", "goals required (array)")
	}

	var list []goals.Goal
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, apperr.Validation("goals", "each goal must be an object with a text field")
	}
	return list, nil
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

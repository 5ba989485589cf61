package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/repsphere/internal/common"
	"github.com/dmitrijs2005/repsphere/internal/server/services"
)

const (
	msgRunning       = "Audio Analysis API is running"
	msgQuotaExceeded = "Monthly quota exceeded. Please upgrade your plan."
	msgInternal      = "Internal server error"
	msgAnalyzed      = "Analysis completed"
	maxBodyBytes     = 1 << 20
)

type webhookRequest struct {
	Filename       string      `json:"filename" validate:"required"`
	ConversationID string      `json:"conversation_id"`
	Action         string      `json:"action"`
	Data           webhookData `json:"data"`
}

type webhookData struct {
	MeetingType string `json:"meetingType"`
	Approach    string `json:"approach"`
}

type usageCounter struct {
	Current int `json:"current"`
	Limit   int `json:"limit"`
}

type webhookResponse struct {
	Message  string          `json:"message"`
	UserID   string          `json:"user_id"`
	Usage    usageCounter    `json:"usage"`
	Analysis json.RawMessage `json:"analysis"`
}

type usageResponse struct {
	Tier      string `json:"tier"`
	Usage     int    `json:"usage"`
	Quota     int    `json:"quota"`
	ResetDate string `json:"reset_date"`
}

func (s *HTTPServer) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msgRunning})
}

func (s *HTTPServer) webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserIDFromContext(ctx)

	var req webhookRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	snap, err := s.usage.Consume(ctx, userID, req.Filename)
	if errors.Is(err, common.ErrQuotaExceeded) {
		s.logger.Info(ctx, "quota exceeded", "user_id", userID)
		writeError(w, http.StatusForbidden, msgQuotaExceeded)
		return
	}
	if err != nil {
		s.logger.Error(ctx, "usage check failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	doc, err := s.analyzer.Analyze(ctx, services.AnalyzeRequest{
		UserID:         userID,
		FileURL:        req.Filename,
		ConversationID: req.ConversationID,
		MeetingType:    req.Data.MeetingType,
		Approach:       req.Data.Approach,
	})
	if err != nil {
		s.logger.Error(ctx, "analysis failed", "user_id", userID, "conversation_id", req.ConversationID, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	s.logger.Info(ctx, "analysis served", "user_id", userID, "conversation_id", req.ConversationID, "usage", snap.Usage)
	writeJSON(w, http.StatusOK, webhookResponse{
		Message:  msgAnalyzed,
		UserID:   userID,
		Usage:    usageCounter{Current: snap.Usage, Limit: snap.Quota},
		Analysis: doc,
	})
}

func (s *HTTPServer) userUsage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := UserIDFromContext(ctx)

	snap, err := s.usage.Current(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "usage lookup failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, usageResponse{
		Tier:      snap.Tier,
		Usage:     snap.Usage,
		Quota:     snap.Quota,
		ResetDate: snap.ResetDate.UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

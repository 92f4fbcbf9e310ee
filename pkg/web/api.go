package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/logger"
)

// SessionProvider exposes the call sessions currently in progress,
// satisfied by whichever protocol controller owns the live session
// table. Kept narrow so the web package never imports pkg/trunk or
// pkg/voice directly.
type SessionProvider interface {
	ActiveSessions() []core.CallSession
}

// HistoryProvider exposes persisted call history, satisfied by
// pkg/store.
type HistoryProvider interface {
	RecentSessions(page, perPage int) ([]core.CallSession, int, error)
}

// API handles REST API endpoints for the call/protocol dashboard.
type API struct {
	logger   *logger.Logger
	sessions SessionProvider
	history  HistoryProvider
}

// NewAPI creates a new API instance
func NewAPI(log *logger.Logger) *API {
	return &API{logger: log}
}

// SetDeps provides runtime dependencies to the API after construction
func (a *API) SetDeps(sessions SessionProvider, history HistoryProvider) {
	a.sessions = sessions
	a.history = history
}

// CallSessionDTO is a lightweight response for an active or historical
// call session.
type CallSessionDTO struct {
	ID        uint32  `json:"id"`
	Protocol  string  `json:"protocol"`
	SrcID     uint32  `json:"src_id"`
	DstID     uint32  `json:"dst_id"`
	GroupCall bool    `json:"group_call"`
	StartedAt int64   `json:"started_at"`
	EndedAt   int64   `json:"ended_at,omitempty"`
	Active    bool    `json:"active"`
	BER       float64 `json:"ber"`
}

func toCallSessionDTO(s core.CallSession) CallSessionDTO {
	dto := CallSessionDTO{
		ID:        s.ID,
		Protocol:  s.Protocol.String(),
		SrcID:     s.LC.SrcID,
		DstID:     s.LC.DstID,
		GroupCall: s.LC.GroupCall,
		StartedAt: s.StartedAt.Unix(),
		Active:    s.Active,
		BER:       s.BER,
	}
	if !s.EndedAt.IsZero() {
		dto.EndedAt = s.EndedAt.Unix()
	}
	return dto
}

// HandleStatus handles the /api/status endpoint
func (a *API) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	ver, _, _ := GetVersionInfo()
	response := map[string]interface{}{
		"status":  "running",
		"service": "dvmhost",
		"version": ver,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		a.logger.Error("Failed to encode status response", logger.Error(err))
	}
}

// HandleCalls handles the /api/calls endpoint, returning the sessions
// currently in progress across all protocol processors.
func (a *API) HandleCalls(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	list := make([]CallSessionDTO, 0)
	if a.sessions != nil {
		for _, s := range a.sessions.ActiveSessions() {
			list = append(list, toCallSessionDTO(s))
		}
	}
	if err := json.NewEncoder(w).Encode(list); err != nil {
		a.logger.Error("Failed to encode calls response", logger.Error(err))
	}
}

// HandleHistory handles the /api/history endpoint, returning paginated
// completed call sessions from the persistence layer.
func (a *API) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if a.history == nil {
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(map[string]interface{}{
			"sessions": []CallSessionDTO{},
			"total":    0,
			"page":     1,
			"per_page": 50,
		}); err != nil {
			a.logger.Error("Failed to encode history response", logger.Error(err))
		}
		return
	}

	page := 1
	perPage := 50

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if perPageStr := r.URL.Query().Get("per_page"); perPageStr != "" {
		if pp, err := strconv.Atoi(perPageStr); err == nil && pp > 0 && pp <= 100 {
			perPage = pp
		}
	}

	sessions, total, err := a.history.RecentSessions(page, perPage)
	if err != nil {
		a.logger.Error("Failed to get call history", logger.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	dtos := make([]CallSessionDTO, 0, len(sessions))
	for _, s := range sessions {
		dtos = append(dtos, toCallSessionDTO(s))
	}

	response := map[string]interface{}{
		"sessions": dtos,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		a.logger.Error("Failed to encode history response", logger.Error(err))
	}
}

// HandleActivity handles the /api/activity endpoint
func (a *API) HandleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	activity := []interface{}{}
	if a.sessions != nil {
		now := time.Now()
		for _, s := range a.sessions.ActiveSessions() {
			activity = append(activity, map[string]interface{}{
				"protocol": s.Protocol.String(),
				"src_id":   s.LC.SrcID,
				"dst_id":   s.LC.DstID,
				"age_s":    now.Sub(s.StartedAt).Seconds(),
			})
		}
	}
	if err := json.NewEncoder(w).Encode(activity); err != nil {
		a.logger.Error("Failed to encode activity response", logger.Error(err))
	}
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"convolog/pkg/convo"
	"convolog/pkg/logger"
	"convolog/pkg/models"
	"convolog/pkg/telemetry"
)

type appendMessageRequest struct {
	Sender   string `json:"sender"`
	Content  string `json:"content"`
	Type     string `json:"type"`
	ThreadID *int   `json:"thread_id"`
}

func (s *Server) appendMessage(w http.ResponseWriter, r *http.Request) {
	l, ok := s.conversation(w, r)
	if !ok {
		return
	}
	var req appendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Sender == "" {
		writeError(w, http.StatusBadRequest, "sender is required")
		return
	}
	if req.Type == "" {
		req.Type = string(models.TypeText)
	}
	typ, ok := models.ParseMessageType(req.Type)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid message type: "+req.Type)
		return
	}
	idx, err := l.Append(req.Sender, req.Content, typ, req.ThreadID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	telemetry.MessagesAppended.Inc()
	m, err := l.Get(idx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Info("message_created", "convo", l.ID(), "index", idx, "sender", req.Sender)
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	l, ok := s.conversation(w, r)
	if !ok {
		return
	}
	q := convo.Query{Sender: r.URL.Query().Get("sender")}
	if t := r.URL.Query().Get("type"); t != "" {
		typ, ok := models.ParseMessageType(t)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid message type: "+t)
			return
		}
		q.Type = typ
	}
	var err error
	if q.Since, err = int64Param(r, "since"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid since")
		return
	}
	if q.Until, err = int64Param(r, "until"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid until")
		return
	}

	out := make([]models.Message, 0)
	for m := range l.Filter(q) {
		out = append(out, m)
	}
	// tail-limit, matching the common dashboard use of "last n"
	if limStr := r.URL.Query().Get("limit"); limStr != "" {
		lim, err := strconv.Atoi(limStr)
		if err != nil || lim < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if lim < len(out) {
			out = out[len(out)-lim:]
		}
	}
	writeJSON(w, http.StatusOK, struct {
		Conversation string           `json:"conversation"`
		Messages     []models.Message `json:"messages"`
	}{Conversation: l.ID(), Messages: out})
}

func (s *Server) getMessage(w http.ResponseWriter, r *http.Request) {
	l, ok := s.conversation(w, r)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message index")
		return
	}
	m, err := l.Get(idx)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) listReplies(w http.ResponseWriter, r *http.Request) {
	l, ok := s.conversation(w, r)
	if !ok {
		return
	}
	root, err := strconv.Atoi(mux.Vars(r)["root"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid root index")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Root    int   `json:"root"`
		Replies []int `json:"replies"`
	}{Root: root, Replies: l.RepliesOf(root)})
}

func int64Param(r *http.Request, name string) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"convolog/pkg/logger"
	"convolog/pkg/telemetry"
)

type addReactionRequest struct {
	User     string `json:"user"`
	Reaction string `json:"reaction"`
}

func (s *Server) addReaction(w http.ResponseWriter, r *http.Request) {
	l, ok := s.conversation(w, r)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message index")
		return
	}
	var req addReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.User == "" || req.Reaction == "" {
		writeError(w, http.StatusBadRequest, "user and reaction are required")
		return
	}
	if err := l.AddReaction(idx, req.User, req.Reaction); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	telemetry.ReactionsRecorded.Inc()
	logger.Info("reaction_created", "convo", l.ID(), "index", idx, "user", req.User)
	writeJSON(w, http.StatusCreated, map[string]int{"count": l.ReactionCount(idx)})
}

func (s *Server) listReactions(w http.ResponseWriter, r *http.Request) {
	l, ok := s.conversation(w, r)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message index")
		return
	}
	if _, err := l.Get(idx); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, l.ReactionsOf(idx))
}

package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"convolog/pkg/convo"
	"convolog/pkg/logger"
)

func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}
	// ids become journal key segments; keep them free of separators
	if strings.ContainsAny(req.ID, ":/") {
		writeError(w, http.StatusBadRequest, "conversation id may not contain ':' or '/'")
		return
	}
	l, err := s.reg.Create(req.ID)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": l.ID()})
}

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"conversations": s.reg.IDs()})
}

// conversation resolves the {id} path var; it writes the 404 itself
// when the conversation is unknown.
func (s *Server) conversation(w http.ResponseWriter, r *http.Request) (*convo.Log, bool) {
	id := mux.Vars(r)["id"]
	l, ok := s.reg.Get(id)
	if !ok {
		logger.Debug("conversation_missing", "convo", id)
		writeError(w, http.StatusNotFound, "conversation not found")
		return nil, false
	}
	return l, true
}

// Package api is the HTTP surface over the conversation registry,
// consumed by orchestration and dashboard layers.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"convolog/pkg/analytics"
	"convolog/pkg/config"
	"convolog/pkg/convo"
)

// Server holds the handler dependencies: the conversation registry and
// the analytics aggregator that turns a log into a snapshot.
type Server struct {
	reg *convo.Registry
	agg *analytics.Aggregator
	sec config.SecurityConfig
}

// New wires a Server. sec may be zero-valued for an open, unthrottled
// surface (tests, local use).
func New(reg *convo.Registry, agg *analytics.Aggregator, sec config.SecurityConfig) *Server {
	return &Server{reg: reg, agg: agg, sec: sec}
}

// Router returns the /v1 API router. Auth and rate limiting are only
// installed when configured.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	if len(s.sec.APIKeys) > 0 {
		r.Use(s.requireAPIKey)
	}
	if s.sec.RateLimit.RPS > 0 {
		r.Use(s.rateLimit)
	}

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/conversations", s.createConversation).Methods(http.MethodPost)
	v1.HandleFunc("/conversations", s.listConversations).Methods(http.MethodGet)

	c := v1.PathPrefix("/conversations/{id}").Subrouter()
	c.HandleFunc("/messages", s.appendMessage).Methods(http.MethodPost)
	c.HandleFunc("/messages", s.listMessages).Methods(http.MethodGet)
	c.HandleFunc("/messages/{index}", s.getMessage).Methods(http.MethodGet)
	c.HandleFunc("/messages/{index}/reactions", s.addReaction).Methods(http.MethodPost)
	c.HandleFunc("/messages/{index}/reactions", s.listReactions).Methods(http.MethodGet)
	c.HandleFunc("/threads/{root}/replies", s.listReplies).Methods(http.MethodGet)
	c.HandleFunc("/analytics", s.getSnapshot).Methods(http.MethodGet)
	return r
}

package api

import (
	"net/http"
	"time"

	"convolog/pkg/logger"
	"convolog/pkg/telemetry"
)

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	l, ok := s.conversation(w, r)
	if !ok {
		return
	}
	start := time.Now()
	snap := s.agg.Snapshot(l)
	telemetry.SnapshotDuration.Observe(time.Since(start).Seconds())
	logger.Debug("snapshot_built", "convo", l.ID(), "messages", snap.TotalMessages)
	writeJSON(w, http.StatusOK, snap)
}

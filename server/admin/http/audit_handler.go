package adminserver

import (
	"fmt"
	"net/http"

	"github.com/ipni/pin-provider/audit"
)

func (s *Server) auditHandler(w http.ResponseWriter, r *http.Request) {
	j := s.o.Journal()
	if j == nil {
		respond(w, http.StatusOK, &AuditRes{Entries: []audit.Entry{}})
		return
	}
	entries, err := j.List(r.Context())
	if err != nil {
		msg := fmt.Sprintf("failed to list audit entries: %v", err)
		log.Errorw(msg, "err", err)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, &AuditRes{Entries: entries})
}

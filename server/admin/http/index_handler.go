package adminserver

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ipni/pin-provider/orchestrator"
)

type indexHandler struct {
	o *orchestrator.Orchestrator
}

func (h *indexHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	req, ok := readIndexReq(w, r)
	if !ok {
		return
	}
	changed, err := h.o.Provide(r.Context(), req.Cid, req.PeerID, req.Multiaddr)
	if err != nil {
		msg := fmt.Sprintf("failed to add provider record: %v", err)
		log.Errorw(msg, "cid", req.Cid, "peer", req.PeerID)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, &IndexRes{Changed: changed})
}

func (h *indexHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	req, ok := readIndexReq(w, r)
	if !ok {
		return
	}
	removed, err := h.o.Unprovide(r.Context(), req.Cid, req.PeerID, req.Multiaddr)
	if err != nil {
		msg := fmt.Sprintf("failed to remove provider record: %v", err)
		log.Errorw(msg, "cid", req.Cid, "peer", req.PeerID)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, &IndexRes{Changed: removed})
}

func (h *indexHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	c := mux.Vars(r)["cid"]
	provs, err := h.o.Providers(r.Context(), c)
	if err != nil {
		msg := fmt.Sprintf("failed to get providers: %v", err)
		log.Errorw(msg, "cid", c)
		http.Error(w, msg, http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, &ProvidersRes{Providers: provs})
}

func readIndexReq(w http.ResponseWriter, r *http.Request) (*IndexReq, bool) {
	var req IndexReq
	if _, err := req.ReadFrom(r.Body); err != nil {
		msg := fmt.Sprintf("failed to unmarshal request: %v", err)
		log.Errorw(msg, "err", err)
		http.Error(w, msg, http.StatusBadRequest)
		return nil, false
	}
	if req.Cid == "" || req.PeerID == "" || req.Multiaddr == "" {
		http.Error(w, "cid, peer_id and multiaddr are required", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

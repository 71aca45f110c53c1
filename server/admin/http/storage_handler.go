package adminserver

import (
	"errors"
	"fmt"
	"net/http"

	pinprovider "github.com/ipni/pin-provider"
	"github.com/ipni/pin-provider/orchestrator"
)

type storageHandler struct {
	o              *orchestrator.Orchestrator
	maxUploadBytes int64
}

func (h *storageHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req UploadReq
	if _, err := req.ReadFrom(http.MaxBytesReader(w, r.Body, h.maxUploadBytes)); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		msg := fmt.Sprintf("failed to unmarshal request: %v", err)
		log.Errorw(msg, "err", err)
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	if (req.Path == "") == (len(req.Data) == 0) {
		http.Error(w, "exactly one of path and data must be set", http.StatusBadRequest)
		return
	}
	log.Infow("Received upload request", "addr", req.Addr, "path", req.Path, "provide", req.Provide)

	var (
		res *pinprovider.UploadResult
		err error
	)
	ctx := r.Context()
	switch {
	case req.Path != "" && req.Provide:
		res, err = h.o.UploadFileAndProvide(ctx, req.Addr, req.Path)
	case req.Path != "":
		res, err = h.o.UploadFile(ctx, req.Addr, req.Path)
	case req.Provide:
		res, err = h.o.UploadAndProvide(ctx, req.Addr, req.Data)
	default:
		res, err = h.o.Upload(ctx, req.Addr, req.Data)
	}
	if res == nil {
		msg := fmt.Sprintf("failed to upload: %v", err)
		log.Errorw(msg, "addr", req.Addr, "path", req.Path)
		http.Error(w, msg, statusOf(err))
		return
	}

	resp := &UploadRes{Cid: res.Cid}
	// The content is pinned even if the provider could not be registered.
	warn := errors.Join(res.Warning, err)
	if warn != nil {
		resp.Warning = warn.Error()
	}
	respond(w, http.StatusOK, resp)
}

func (h *storageHandler) handleExists(w http.ResponseWriter, r *http.Request) {
	var req ExistsReq
	if _, err := req.ReadFrom(r.Body); err != nil {
		msg := fmt.Sprintf("failed to unmarshal request: %v", err)
		log.Errorw(msg, "err", err)
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	state, err := h.o.Exists(r.Context(), req.Addr, req.Cid)
	if errors.Is(err, pinprovider.ErrInvalidAddress) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp := &ExistsRes{State: state.String()}
	if err != nil {
		resp.Error = err.Error()
	}
	respond(w, http.StatusOK, resp)
}

func (h *storageHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req RemoveReq
	if _, err := req.ReadFrom(r.Body); err != nil {
		msg := fmt.Sprintf("failed to unmarshal request: %v", err)
		log.Errorw(msg, "err", err)
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	log.Infow("Received remove request", "addr", req.Addr, "cid", req.Cid, "unprovide", req.Unprovide)

	var (
		out *pinprovider.RemovalOutcome
		err error
	)
	if req.Unprovide {
		out, err = h.o.RemoveAndUnprovide(r.Context(), req.Addr, req.Cid)
	} else {
		out, err = h.o.Remove(r.Context(), req.Addr, req.Cid)
	}
	if out == nil {
		msg := fmt.Sprintf("failed to remove: %v", err)
		log.Errorw(msg, "addr", req.Addr, "cid", req.Cid)
		http.Error(w, msg, statusOf(err))
		return
	}

	resp := &RemoveRes{
		Removed:     out.Removed,
		BlockErrors: out.BlockErrors,
	}
	if out.UnpinErr != nil {
		resp.UnpinError = out.UnpinErr.Error()
	}
	// The content is gone from the node even if the provider could not be deregistered.
	if err != nil {
		resp.Warning = err.Error()
	}
	respond(w, http.StatusOK, resp)
}

func (h *storageHandler) handleID(w http.ResponseWriter, r *http.Request) {
	var req IDReq
	if _, err := req.ReadFrom(r.Body); err != nil {
		msg := fmt.Sprintf("failed to unmarshal request: %v", err)
		log.Errorw(msg, "err", err)
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	ident, err := h.o.PeerInfo(r.Context(), req.Addr)
	if err != nil {
		msg := fmt.Sprintf("failed to get node identity: %v", err)
		log.Errorw(msg, "addr", req.Addr)
		http.Error(w, msg, statusOf(err))
		return
	}
	resp := &IDRes{
		ID:              ident.ID.String(),
		Addrs:           make([]string, 0, len(ident.Addrs)),
		AgentVersion:    ident.AgentVersion,
		ProtocolVersion: ident.ProtocolVersion,
	}
	for _, a := range ident.Addrs {
		resp.Addrs = append(resp.Addrs, a.String())
	}
	respond(w, http.StatusOK, resp)
}

// statusOf maps errors returned by the orchestrator to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, pinprovider.ErrInvalidAddress), errors.Is(err, pinprovider.ErrFileNotFound):
		return http.StatusBadRequest
	case errors.Is(err, pinprovider.ErrUploadFailed), errors.Is(err, pinprovider.ErrRemovalFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

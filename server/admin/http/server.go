package adminserver

import (
	"context"
	"io"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	logging "github.com/ipfs/go-log/v2"
	"github.com/ipni/pin-provider/orchestrator"
	"github.com/ipni/pin-provider/server/utils"
)

var log = logging.Logger("pin-provider/adminserver")

type Server struct {
	server *http.Server
	l      net.Listener
	o      *orchestrator.Orchestrator
}

func New(o *orchestrator.Orchestrator, opts ...Option) (*Server, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	l, err := net.Listen("tcp", options.listenAddr)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter().StrictSlash(true)
	server := &http.Server{
		Handler:      r,
		ReadTimeout:  options.readTimeout,
		WriteTimeout: options.writeTimeout,
	}
	s := &Server{server, l, o}

	// Set protocol handlers
	sh := &storageHandler{o: o, maxUploadBytes: options.maxUploadBytes}
	r.HandleFunc("/admin/upload", sh.handleUpload).
		Methods(http.MethodPost).
		Headers("Content-Type", "application/json")
	r.HandleFunc("/admin/exists", sh.handleExists).
		Methods(http.MethodPost).
		Headers("Content-Type", "application/json")
	r.HandleFunc("/admin/remove", sh.handleRemove).
		Methods(http.MethodPost).
		Headers("Content-Type", "application/json")
	r.HandleFunc("/admin/id", sh.handleID).
		Methods(http.MethodPost).
		Headers("Content-Type", "application/json")

	ih := &indexHandler{o}
	r.HandleFunc("/admin/index/add", ih.handleAdd).
		Methods(http.MethodPost).
		Headers("Content-Type", "application/json")
	r.HandleFunc("/admin/index/remove", ih.handleRemove).
		Methods(http.MethodPost).
		Headers("Content-Type", "application/json")
	r.HandleFunc("/admin/index/{cid}", ih.handleGet).
		Methods(http.MethodGet)

	r.HandleFunc("/admin/audit", s.auditHandler).
		Methods(http.MethodGet)

	return s, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() net.Addr {
	return s.l.Addr()
}

func (s *Server) Start() error {
	log.Infow("admin http server listening", "addr", s.l.Addr())
	return s.server.Serve(s.l)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("admin http server shutdown")
	return s.server.Shutdown(ctx)
}

func respond(w http.ResponseWriter, statusCode int, body io.WriterTo) {
	w.Header().Set("Content-Type", "application/json")
	if err := utils.Respond(w, statusCode, body); err != nil {
		log.Errorw("Failed to write response", "err", err)
	}
}

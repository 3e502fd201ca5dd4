// Package rpc exposes the Encore protocol core over HTTP and websocket: a
// gorilla/mux REST router wrapped in rs/cors, plus a websocket hub
// broadcasting Observable Events, wired against a *program.Program.
package rpc

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	encorecrypto "github.com/encoreprotocol/encore/pkg/crypto"
	"github.com/encoreprotocol/encore/pkg/program"
)

// Server is the transaction-submission and read-only RPC surface. It
// never resolves "which tickets does address X hold" — that requires an
// indexer outside this repo's scope — only instruction submission,
// address-keyed reads and the live event feed.
type Server struct {
	prog        *program.Program
	router      *mux.Router
	hub         *Hub
	log         *zap.Logger
	instrSigner *encorecrypto.InstructionSigner
}

// NewServer wires a Server against prog, broadcasting over hub. hub must
// already be wired as prog's program.Sink (via NewHubSink) before prog was
// constructed — a Hub has to exist before Program can emit into it, so
// callers build the Hub first:
//
//	hub := rpc.NewHub(log)
//	prog := program.New(store, treeID, clock, log, rpc.NewHubSink(hub))
//	srv := rpc.NewServer(prog, hub, log)
func NewServer(prog *program.Program, hub *Hub, log *zap.Logger) *Server {
	s := &Server{
		prog:        prog,
		router:      mux.NewRouter(),
		hub:         hub,
		log:         log,
		instrSigner: encorecrypto.NewInstructionSigner(encorecrypto.DefaultDomain()),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/tx", s.handleSubmitTx).Methods("POST")
	api.HandleFunc("/events/{address}", s.handleGetEvent).Methods("GET")
	api.HandleFunc("/listings/{address}", s.handleGetListing).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start runs the hub and serves addr, blocking until the listener fails.
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	handler := c.Handler(s.router)

	s.log.Info("rpc server starting", zap.String("addr", addr))
	return http.ListenAndServe(addr, handler)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	addr, err := decodeEncoreHash(mux.Vars(r)["address"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_address", err.Error())
		return
	}
	cfg, err := s.prog.GetEvent(addr)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	addr, err := decodeEncoreHash(mux.Vars(r)["address"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_address", err.Error())
		return
	}
	listing, err := s.prog.GetListing(addr)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, listing)
}

// handleSubmitTx dispatches a TxEnvelope to the matching Program
// instruction: a single POST entry point covering all ten instruction
// kinds.
func (s *Server) handleSubmitTx(w http.ResponseWriter, r *http.Request) {
	var env TxEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	result, err := s.dispatch(env)
	if err != nil {
		s.log.Info("instruction rejected", zap.String("type", env.Type), zap.Error(err))
		respondError(w, http.StatusBadRequest, errorCode(err), err.Error())
		return
	}

	s.log.Info("instruction applied", zap.String("type", env.Type))
	respondJSON(w, http.StatusOK, TxResponse{Status: "applied", Result: result})
}

func (s *Server) dispatch(env TxEnvelope) (interface{}, error) {
	switch env.Type {
	case "create_event":
		return s.applyCreateEvent(env.Payload)
	case "update_event":
		return s.applyUpdateEvent(env.Payload)
	case "mint_ticket":
		return s.applyMintTicket(env.Payload)
	case "transfer_ticket":
		return s.applyTransferTicket(env.Payload)
	case "create_listing":
		return s.applyCreateListing(env.Payload)
	case "claim_listing":
		return s.applyClaimListing(env.Payload)
	case "cancel_claim":
		return s.applyCancelClaim(env.Payload)
	case "seller_cancel_claim":
		return s.applySellerCancelClaim(env.Payload)
	case "cancel_listing":
		return s.applyCancelListing(env.Payload)
	case "complete_sale":
		return s.applyCompleteSale(env.Payload)
	default:
		return nil, fmt.Errorf("unknown instruction type %q", env.Type)
	}
}

func errorCode(err error) string {
	if pErr, ok := err.(*program.Error); ok {
		return string(pErr.Code)
	}
	return "internal"
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: code, Message: message})
}

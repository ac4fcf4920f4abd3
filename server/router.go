package server

import (
	"net/http"

	"lotterypool/application"
)

// Options configures the HTTP API
type Options struct {
	// AllowFunding enables the faucet endpoint
	AllowFunding bool
	// CallerKeySecret signs caller keys. When empty, the caller header is trusted as sent.
	CallerKeySecret string
}

// NewRouter registers every endpoint of the HTTP API
func NewRouter(pools application.LotteryPoolHandler, opts Options) *http.ServeMux {
	mux := http.NewServeMux()
	poolHandler := NewPoolHandler(pools, opts)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Pool operations
	mux.HandleFunc("POST /pools", WithLogging(poolHandler.Deploy))
	mux.HandleFunc("GET /pools/{id}", WithLogging(poolHandler.GetPool))
	mux.HandleFunc("GET /pools/{id}/players", WithLogging(poolHandler.GetPlayers))
	mux.HandleFunc("POST /pools/{id}/enter", WithLogging(poolHandler.Enter))
	mux.HandleFunc("POST /pools/{id}/pick-winner", WithLogging(poolHandler.PickWinner))
	mux.HandleFunc("GET /pools/{id}/draws", WithLogging(poolHandler.ListDraws))

	// Accounts
	mux.HandleFunc("GET /accounts/{address}", WithLogging(poolHandler.GetAccount))
	mux.HandleFunc("POST /accounts/{address}/fund", WithLogging(poolHandler.Fund))

	return mux
}

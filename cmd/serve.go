package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aire-labs/aire/internal/account"
	"github.com/aire-labs/aire/internal/model"
	"github.com/aire-labs/aire/internal/store"
	"github.com/aire-labs/aire/internal/underwrite"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the underwriting HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		engine, err := initEngine("")
		if err != nil {
			return err
		}

		mux := newServeMux(engine, st, initAccounts(st))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// analyzeRequest is the POST /analyze payload: the property input plus
// request-scoped options.
type analyzeRequest struct {
	model.PropertyInput
	RateEnv string `json:"rate_env"`
	Email   string `json:"email"`
	Save    bool   `json:"save"`
}

func newServeMux(engine *underwrite.Engine, st store.Store, accounts *account.Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /analyze", func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.Price <= 0 {
			http.Error(w, `{"error":"price is required"}`, http.StatusBadRequest)
			return
		}

		if req.Email != "" {
			if err := accounts.Charge(r.Context(), req.Email); err != nil {
				if errors.Is(err, account.ErrQuotaExhausted) {
					http.Error(w, `{"error":"free analyses exhausted"}`, http.StatusPaymentRequired)
					return
				}
				zap.L().Error("charge failed", zap.String("email", req.Email), zap.Error(err))
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
		}

		analysis := engine.Analyze(req.PropertyInput, model.ParseRateEnvironment(req.RateEnv))

		var runID string
		if req.Save {
			rec, err := st.SaveAnalysis(r.Context(), req.Email, analysis)
			if err != nil {
				zap.L().Error("save analysis failed", zap.Error(err))
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			runID = rec.ID
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(struct {
			RunID    string          `json:"run_id,omitempty"`
			Analysis *model.Analysis `json:"analysis"`
		}{RunID: runID, Analysis: analysis})
	})

	mux.HandleFunc("GET /runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		rec, err := st.GetAnalysis(r.Context(), r.PathValue("id"))
		if err != nil {
			http.Error(w, `{"error":"run not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(rec)
	})

	return mux
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

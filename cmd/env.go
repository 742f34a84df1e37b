package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/aire-labs/aire/internal/account"
	"github.com/aire-labs/aire/internal/lookup"
	"github.com/aire-labs/aire/internal/store"
	"github.com/aire-labs/aire/internal/underwrite"
	"github.com/aire-labs/aire/pkg/attom"
	"github.com/aire-labs/aire/pkg/estated"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "aire.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// openStore opens and migrates the configured store.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

func initAccounts(st store.Store) *account.Service {
	return account.NewService(st, cfg.Billing.FreeAnalyses, cfg.Billing.AdminUnlockCode)
}

// initEngine builds the underwriting engine, applying the weights override
// file when one is configured or passed on the command line.
func initEngine(weightsFile string) (*underwrite.Engine, error) {
	if weightsFile == "" {
		weightsFile = cfg.Underwrite.WeightsFile
	}
	ucfg := underwrite.DefaultConfig()
	if weightsFile != "" {
		loaded, err := underwrite.LoadConfigFile(weightsFile)
		if err != nil {
			return nil, err
		}
		ucfg = loaded
	}
	return underwrite.NewEngine(ucfg), nil
}

// initPrefiller wires whichever property data providers have credentials.
func initPrefiller() *lookup.Prefiller {
	var est estated.Client
	if cfg.Estated.Token != "" {
		est = estated.NewClient(cfg.Estated.Token, estated.WithBaseURL(cfg.Estated.BaseURL))
	}
	var att attom.Client
	if cfg.Attom.APIKey != "" {
		att = attom.NewClient(cfg.Attom.APIKey, attom.WithBaseURL(cfg.Attom.BaseURL))
	}
	return lookup.NewPrefiller(est, att)
}

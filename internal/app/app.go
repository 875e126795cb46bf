package app

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"stockdice/internal/config"
	"stockdice/internal/fmp"
	"stockdice/internal/forex"
	"stockdice/internal/pacer"
	"stockdice/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newClient() *fmp.Client {
	return fmp.NewClient(fmp.Options{
		APIKey:            a.Config.FMP.APIKey,
		BaseURL:           a.Config.FMP.BaseURL,
		Timeout:           a.Config.FMP.RequestTimeout,
		RequestsPerSecond: a.Config.FMP.RequestsPerSecond,
		UserAgent:         a.Config.FMP.UserAgent,
	}, a.Logger)
}

func (a *App) newPacer() *pacer.Pacer {
	return pacer.New(pacer.Options{
		BatchSize: a.Config.Pacing.BatchSize,
		BatchWait: a.Config.Pacing.BatchWait,
	}, a.Logger)
}

func (a *App) openStore() (*storage.Store, func(), error) {
	store, err := storage.Open(a.Config.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

// loadCurrencyTable builds the USD conversion table from the forex snapshot
// on disk. The table lives for one command invocation.
func (a *App) loadCurrencyTable() (*forex.Table, error) {
	pairs, err := forex.ReadSnapshot(a.Config.Forex.SnapshotFile)
	if err != nil {
		return nil, fmt.Errorf("load forex snapshot (run the forex command first?): %w", err)
	}
	return forex.Build(pairs, a.Config.Forex.Proxies), nil
}

// DownloadOptions configure one fundamentals download run.
type DownloadOptions struct {
	Kind storage.Kind
	// Start resumes an alphabetically ordered symbol list from this ticker.
	Start  string
	MaxAge time.Duration
}

// InitOptions configure table initialisation.
type InitOptions struct {
	Kind storage.Kind
	// CSVPath optionally bulk-loads a legacy CSV snapshot after the reset.
	CSVPath string
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// ExportOptions hold parameters for exporting the weighted screen.
type ExportOptions struct {
	CSVPath string
	PNGPath string
	TopN    int
}

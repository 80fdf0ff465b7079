// Command riskanalyzer analyses procurement documents for risks.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driven/ai"
	"github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driven/config/file"
	"github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driven/storage/memory"
	"github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driven/storage/sqlite"
	"github.com/WiseAcquire/Risk-Analyzer/internal/adapters/driving/cli"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/domain"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/ports/driven"
	"github.com/WiseAcquire/Risk-Analyzer/internal/core/services"
	"github.com/WiseAcquire/Risk-Analyzer/internal/logger"
	"github.com/WiseAcquire/Risk-Analyzer/internal/normalisers/docx"
	"github.com/WiseAcquire/Risk-Analyzer/internal/normalisers/pdf"
	"github.com/WiseAcquire/Risk-Analyzer/internal/normalisers/tabular"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configDir, err := file.DefaultConfigDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"), map[string]string{
		driven.PromptRiskAnalysis: services.DefaultRiskAnalysisPrompt,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: prompt store: %v\n", err)
		return err
	}

	// Without the database the ledger only lives for this process.
	var runs driven.RunStore
	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		logger.Warn("Run history will not persist: %v", err)
		runs = memory.NewRunStore()
	} else {
		defer store.Close()
		runs = store.RunStore()
	}

	parser := services.NewResponseParser()
	runner := services.NewRunner(services.RunnerConfig{
		Settings: settingsService,
		Loader:   services.NewLoader(tabular.New(), pdf.New(), docx.New()),
		NewAI: func(s domain.AISettings) (driven.AIServiceFactory, error) {
			return ai.NewFactory(s)
		},
		NewVectorIndex: memory.NewVectorIndexFactory(),
		Prompts:        prompts,
		Parser:         parser,
		Runs:           runs,
	})

	cli.SetVersion(version)
	cli.Configure(cli.Services{
		Analyzer: runner,
		Reports:  services.NewReportService(parser),
		History:  services.NewHistoryService(runs),
		Settings: settingsService,
	})

	return cli.Execute(ctx)
}

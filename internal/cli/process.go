package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docintel/reckon/internal/llm"
	"github.com/docintel/reckon/internal/model"
	"github.com/docintel/reckon/internal/pipeline"
	"github.com/docintel/reckon/internal/store"
	"github.com/docintel/reckon/internal/telemetry"
)

var (
	processTimeout time.Duration
	storeDriver    string
	batchID        string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <url>",
	Short: "Process a single document URL",
	Long: `Process fetches one document, runs the three analysis stages, and
persists the resulting records.

Example:
  reckon process https://www.justice.gov/files/manifest-001.pdf
  reckon process https://example.gov/doc.pdf --store memory --batch batch-7`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().DurationVar(&processTimeout, "timeout", 10*time.Minute, "overall processing timeout")
	processCmd.Flags().StringVar(&storeDriver, "store", "", "store driver override (postgres, memory)")
	processCmd.Flags().StringVar(&batchID, "batch", "", "batch id to record (default: derived from timestamp)")
}

func runProcess(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	rt, err := setupRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	batch := batchID
	if batch == "" {
		batch = batchStamp()
	}

	result, err := rt.Pipeline.ProcessDocument(ctx, url, batch)
	if err != nil {
		return fmt.Errorf("process document: %w", err)
	}

	printDocumentResult(result)
	return nil
}

// printDocumentResult renders one document outcome for the terminal
func printDocumentResult(result *pipeline.DocumentResult) {
	fmt.Printf("Document:     %s\n", result.DocRef)
	fmt.Printf("Intelligence: %s\n", result.IntelligenceValue)
	fmt.Printf("Persons:      %d written, %d victim flags\n", result.Write.PersonsWritten, result.Write.VictimFlags)
	fmt.Printf("Locations:    %d\n", result.Write.LocationsWritten)
	fmt.Printf("Events:       %d\n", result.Write.EventsWritten)
	fmt.Printf("Conflicts:    %d\n", result.Write.ConflictsLogged)
	fmt.Printf("Tokens:       %d\n", result.TokensUsed)
	fmt.Printf("Elapsed:      %v\n", result.Elapsed.Round(time.Millisecond))
	if result.EvidenceChain != "" {
		fmt.Printf("\nEvidence chain:\n%s\n", result.EvidenceChain)
	}
}

// cmdRuntime bundles everything a command needs to run the pipeline
type cmdRuntime struct {
	Config   *model.Config
	Logger   *zap.Logger
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases the runtime's resources
func (r *cmdRuntime) Close() {
	r.Store.Close()
	_ = r.Logger.Sync()
}

// setupRuntime builds the shared command runtime: configuration, logger,
// store, oracle provider, and pipeline. Callers own Close.
func setupRuntime(ctx context.Context) (*cmdRuntime, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}
	if storeDriver != "" {
		cfg.Store.Driver = storeDriver
	}
	if err := resolveStoreURL(cfg); err != nil {
		return nil, err
	}

	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	provider, err := llm.NewProvider(llm.ConfigFromOracle(cfg.Oracle))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("create oracle provider: %w", err)
	}

	tracker := telemetry.New(cfg.Telemetry.Endpoint, cfg.Telemetry.Domain)

	return &cmdRuntime{
		Config:   cfg,
		Logger:   logger,
		Store:    s,
		Pipeline: pipeline.New(cfg, s, provider, tracker, logger),
	}, nil
}

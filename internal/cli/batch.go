package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/docintel/reckon/internal/worker"
)

var (
	batchTimeout time.Duration
	batchDelay   time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Process multiple document URLs from a file, one at a time",
	Long: `Batch reads URLs from a file (one per line, # comments allowed) and
processes them strictly in order. Sequential processing is deliberate:
each document's verification stage cross-references the records written
by the documents before it.

Example:
  reckon batch urls.txt
  reckon batch urls.txt --delay 5s --batch release-2026-08
  reckon batch urls.txt --store memory`,
	Args: cobra.ExactArgs(1),
	RunE: runBatchCmd,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 2*time.Hour, "total timeout for the batch")
	batchCmd.Flags().DurationVar(&batchDelay, "delay", 2*time.Second, "spacing delay between documents")
	batchCmd.Flags().StringVar(&storeDriver, "store", "", "store driver override (postgres, memory)")
	batchCmd.Flags().StringVar(&batchID, "batch", "", "batch id to record (default: derived from timestamp)")
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	urls, err := readURLFile(args[0])
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", args[0])
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
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

	fmt.Fprintf(os.Stderr, "Processing %d documents as %s\n\n", len(urls), batch)

	limiter := worker.NewLimiter(rt.Config.Batch.RequestsPerSecond, rt.Config.Batch.Burst)
	orchestrator := worker.NewOrchestrator(rt.Pipeline, limiter, batchDelay, rt.Logger)

	result, err := orchestrator.Run(ctx, batch, urls)
	if err != nil {
		return fmt.Errorf("batch run: %w", err)
	}

	for _, outcome := range result.Outcomes {
		if outcome.Err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", outcome.URL, outcome.Err)
			continue
		}
		fmt.Fprintf(os.Stderr, "ok   %s (%s, %s)\n",
			outcome.URL, outcome.Result.DocRef, outcome.Result.IntelligenceValue)
	}

	fmt.Fprintf(os.Stderr, "\nBatch %s: %d/%d succeeded in %v\n",
		batch, result.Succeeded, result.Total, result.Elapsed.Round(time.Second))

	if result.Succeeded == 0 {
		return fmt.Errorf("all %d documents failed", result.Total)
	}
	return nil
}

// readURLFile loads one URL per line, skipping blanks and # comments
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url file: %w", err)
	}

	return urls, nil
}

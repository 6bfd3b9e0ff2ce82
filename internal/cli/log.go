package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haozl/sheetwright/internal/config"
	"github.com/haozl/sheetwright/internal/logger"
)

var (
	logFilterStage string
	logFailures    bool
	logLast        int
	logDay         string
	logSummary     bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and filter the session log",
	Long: `View the day-scoped session log.

Examples:
  sheetwright log                     # Today's entries
  sheetwright log --last 20           # Last 20 entries
  sheetwright log --stage validation  # One pipeline stage only
  sheetwright log --failures          # Warnings and errors only
  sheetwright log --day 20260101      # A specific day
  sheetwright log --summary           # Per-stage counts`,
	RunE: logCommand,
}

func init() {
	logCmd.Flags().StringVar(&logFilterStage, "stage", "", "Filter by stage (session, instruction, generation, validation, review, execution, cleanup)")
	logCmd.Flags().BoolVar(&logFailures, "failures", false, "Show only warn and error entries")
	logCmd.Flags().IntVar(&logLast, "last", 0, "Show last N entries")
	logCmd.Flags().StringVar(&logDay, "day", "", "Day to read, as YYYYMMDD (default today)")
	logCmd.Flags().BoolVar(&logSummary, "summary", false, "Show per-stage counts")
	rootCmd.AddCommand(logCmd)
}

// logEntry mirrors the fields the session logger writes. Unknown fields
// are ignored so older log files still print.
type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Event     string `json:"event"`
	Stage     string `json:"stage"`
	Turn      int    `json:"turn"`
	Reason    string `json:"reason"`
	Pattern   string `json:"matched_pattern"`
	Error     string `json:"error"`
}

func logCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	day := time.Now()
	if logDay != "" {
		day, err = time.Parse("20060102", logDay)
		if err != nil {
			return fmt.Errorf("invalid --day %q, want YYYYMMDD", logDay)
		}
	}

	entries, err := readSessionLog(logger.DayPath(cfg.LogDir, day))
	if err != nil {
		return fmt.Errorf("read session log: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No log entries found.")
		return nil
	}

	if logSummary {
		printLogSummary(entries)
		return nil
	}

	filtered := filterEntries(entries)
	if logLast > 0 && logLast < len(filtered) {
		filtered = filtered[len(filtered)-logLast:]
	}
	for _, e := range filtered {
		printEntry(e)
	}
	return nil
}

func readSessionLog(path string) ([]logEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var entries []logEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry logEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue // skip malformed lines
		}
		entries = append(entries, entry)
	}
	return entries, scanner.Err()
}

func filterEntries(entries []logEntry) []logEntry {
	if logFilterStage == "" && !logFailures {
		return entries
	}
	var filtered []logEntry
	for _, e := range entries {
		if logFilterStage != "" && !strings.EqualFold(e.Stage, logFilterStage) {
			continue
		}
		if logFailures && e.Level != "warn" && e.Level != "error" {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func printEntry(e logEntry) {
	turn := ""
	if e.Turn > 0 {
		turn = fmt.Sprintf(" turn=%d", e.Turn)
	}
	fmt.Printf("%s %-5s [%s]%s %s\n", formatTimestamp(e.Timestamp), e.Level, e.Stage, turn, e.Event)
	if e.Reason != "" {
		fmt.Printf("    reason: %s\n", e.Reason)
	}
	if e.Pattern != "" {
		fmt.Printf("    matched: %s\n", e.Pattern)
	}
	if e.Error != "" {
		fmt.Printf("    error: %s\n", e.Error)
	}
}

func printLogSummary(entries []logEntry) {
	stageCounts := map[string]int{}
	failures := 0
	for _, e := range entries {
		stageCounts[e.Stage]++
		if e.Level == "warn" || e.Level == "error" {
			failures++
		}
	}

	fmt.Printf("Total entries: %d\n", len(entries))
	for _, stage := range []string{
		logger.StageSession, logger.StageInstruction, logger.StageGeneration,
		logger.StageValidation, logger.StageReview, logger.StageExecution,
		logger.StageCleanup,
	} {
		if n := stageCounts[stage]; n > 0 {
			fmt.Printf("  %-12s %d\n", stage, n)
		}
	}
	fmt.Printf("Failures: %d\n", failures)
	if len(entries) > 0 {
		fmt.Printf("First: %s\n", formatTimestamp(entries[0].Timestamp))
		fmt.Printf("Last:  %s\n", formatTimestamp(entries[len(entries)-1].Timestamp))
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

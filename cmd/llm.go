package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/pdfquiz/internal/extraction"
	"github.com/abhisek/pdfquiz/internal/llm"
	"github.com/abhisek/pdfquiz/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded extraction requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent extraction requests with their document and question count",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		document, _ := cmd.Flags().GetString("document")

		events, err := loadEvents(cmd, store.QueryOpts{Limit: limit, Purpose: purpose, Document: document})
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No extraction requests recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-16s  %-24s  %9s  %-24s  %-13s  %6s  %s\n",
			"ID", "When", "Document", "Questions", "Model", "Tokens", "Ms", "Status")
		fmt.Println(strings.Repeat("─", 118))
		for _, e := range events {
			fmt.Printf("%-5d  %-16s  %-24s  %9s  %-24s  %-13s  %6d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(documentLabel(e), 24),
				questionCell(e),
				truncate(e.Model, 24),
				fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
				e.LatencyMs,
				status(e),
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one extraction request: document, parsed question count, prompt and raw reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(context.Background(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		fmt.Printf("Request #%d  %s\n", e.ID, status(*e))
		fmt.Printf("  document   %s\n", documentLabel(*e))
		fmt.Printf("  questions  %s\n", questionCell(*e))
		fmt.Printf("  when       %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("  model      %s (%s)\n", e.Model, e.Provider)
		fmt.Printf("  purpose    %s\n", e.Purpose)
		fmt.Printf("  tokens     %d in, %d out in %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
		if e.ErrorMessage != "" {
			fmt.Printf("  error      %s\n", e.ErrorMessage)
		}

		printSection("Prompt", e.RequestBody)
		printSection("Reply", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize extraction runs per document and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := loadEvents(cmd, store.QueryOpts{})
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No extraction requests recorded.")
			return nil
		}

		docs := summarizeDocuments(events)
		fmt.Println("Extractions by Document")
		fmt.Println(strings.Repeat("─", 78))
		fmt.Printf("%-28s  %5s  %6s  %9s  %10s  %8s\n",
			"Document", "Runs", "Failed", "Questions", "Tokens", "Avg Ms")
		fmt.Println(strings.Repeat("─", 78))
		for _, d := range docs {
			questions := "-"
			if d.Questions >= 0 {
				questions = strconv.Itoa(d.Questions)
			}
			fmt.Printf("%-28s  %5d  %6d  %9s  %10d  %8d\n",
				truncate(d.Document, 28), d.Runs, d.Failed, questions, d.Tokens, d.AvgLatencyMs)
		}

		printCosts(aggregate(events, func(e store.LLMEvent) string { return e.Model }))
		return nil
	},
}

func openEventStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func loadEvents(cmd *cobra.Command, opts store.QueryOpts) ([]store.LLMEvent, error) {
	s, err := openEventStore(cmd)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return events, nil
}

func documentLabel(e store.LLMEvent) string {
	if e.Document == "" {
		return "(none)"
	}
	return e.Document
}

// questionCell is the number of question records in the reply, or "-"
// when the request failed or the reply is not an extraction envelope.
func questionCell(e store.LLMEvent) string {
	if !e.Success {
		return "-"
	}
	n, ok := extraction.CountQuestions(e.ResponseBody)
	if !ok {
		return "-"
	}
	return strconv.Itoa(n)
}

func status(e store.LLMEvent) string {
	if e.Success {
		return "ok"
	}
	return "failed"
}

func printSection(title, body string) {
	fmt.Printf("\n── %s %s\n", title, strings.Repeat("─", 56-len(title)))
	if body == "" {
		fmt.Println("(not captured)")
		return
	}
	fmt.Println(strings.TrimRight(body, "\n"))
}

// documentRuns totals the extraction requests made for one document.
// Questions is the count from the newest successful run, or -1.
type documentRuns struct {
	Document     string
	Runs         int
	Failed       int
	Questions    int
	Tokens       int
	AvgLatencyMs int64
}

// summarizeDocuments groups newest-first events by document.
func summarizeDocuments(events []store.LLMEvent) []documentRuns {
	var out []documentRuns
	index := map[string]int{}
	latency := map[string]int64{}
	for _, e := range events {
		k := documentLabel(e)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, documentRuns{Document: k, Questions: -1})
		}
		d := &out[i]
		d.Runs++
		d.Tokens += e.InputTokens + e.OutputTokens
		latency[k] += e.LatencyMs
		if !e.Success {
			d.Failed++
			continue
		}
		if d.Questions < 0 {
			if n, ok := extraction.CountQuestions(e.ResponseBody); ok {
				d.Questions = n
			}
		}
	}
	for i := range out {
		out[i].AvgLatencyMs = latency[out[i].Document] / int64(out[i].Runs)
	}
	return out
}

// usage is the token total for one model.
type usage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// aggregate groups events by key, preserving first-seen order.
func aggregate(events []store.LLMEvent, key func(store.LLMEvent) string) []usage {
	var out []usage
	index := map[string]int{}
	for _, e := range events {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, usage{Key: k})
		}
		out[i].Calls++
		out[i].InputTokens += e.InputTokens
		out[i].OutputTokens += e.OutputTokens
	}
	return out
}

func printCosts(models []usage) {
	fmt.Println()
	fmt.Println("Estimated Cost (USD)")
	fmt.Println(strings.Repeat("─", 72))
	fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Println(strings.Repeat("─", 72))

	var total float64
	var unpriced []string
	for _, mu := range models {
		cost := "?"
		if price := llm.LookupCost(mu.Key); price != nil {
			c := price.Cost(mu.InputTokens, mu.OutputTokens)
			total += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, mu.Key)
		}
		fmt.Printf("%-32s  %6d  %10d  %10d  %9s\n",
			truncate(mu.Key, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, cost)
	}

	fmt.Println(strings.Repeat("─", 72))
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf("%-32s  %6s  %10s  %10s  %9s\n", label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. quiz-extraction)")
	llmListCmd.Flags().StringP("document", "d", "", "Filter by source document name")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

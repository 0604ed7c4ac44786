package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect and probe the text-generation provider",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent provider requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		_, _, st, err := bootstrap()
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.LLMRequests().List(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("query request log: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No provider requests recorded.")
			return nil
		}

		// Header.
		fmt.Printf("%-19s  %-20s  %-28s  %-6s  %-6s  %-7s  %s\n",
			"Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		for _, r := range records {
			if purpose != "" && r.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !r.Success {
				ok = "✗"
			}
			model := r.Model
			if len(model) > 28 {
				model = model[:28]
			}
			fmt.Printf("%-19s  %-20s  %-28s  %-6d  %-6d  %-7d  %s\n",
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				r.Purpose,
				model,
				r.InputTokens,
				r.OutputTokens,
				r.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated token usage by purpose",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, st, err := bootstrap()
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.LLMRequests().UsageByPurpose(context.Background())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("No provider usage recorded yet.")
			return nil
		}

		fmt.Println("Usage by Purpose")
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-20s  %6s  %10s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
		fmt.Println(strings.Repeat("─", 72))

		var totalCalls, totalIn, totalOut int
		for _, u := range stats {
			total := u.InputTokens + u.OutputTokens
			fmt.Printf("%-20s  %6d  %10d  %10d  %10d  %8d\n",
				u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, total, u.AvgLatencyMs)
			totalCalls += u.Calls
			totalIn += u.InputTokens
			totalOut += u.OutputTokens
		}

		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%-20s  %6d  %10d  %10d  %10d\n",
			"TOTAL", totalCalls, totalIn, totalOut, totalIn+totalOut)
		return nil
	},
}

var llmProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Send one test prompt through the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, st, err := bootstrap()
		if err != nil {
			return err
		}
		defer st.Close()

		cfg := llm.ConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx := llm.WithPurpose(context.Background(), llm.PurposeProbe)
		provider, err := llm.NewProvider(ctx, cfg, st.LLMRequests(), log)
		if err != nil {
			return err
		}

		resp, err := provider.Generate(ctx, llm.Request{
			Messages:  []llm.Message{{Role: llm.RoleUser, Content: "Reply with the single word: ready"}},
			MaxTokens: 16,
		})
		if err != nil {
			return fmt.Errorf("probe failed: %w", err)
		}

		fmt.Printf("Provider: %s\nModel:    %s\nReply:    %s\n", cfg.Provider, resp.Model, resp.Text())
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. interview-feedback, mentor)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
	llmCmd.AddCommand(llmProbeCmd)
}

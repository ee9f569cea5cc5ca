package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLogsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect the server's in-memory log buffer",
	}

	var (
		level, module string
		limit         int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.client().Logs(cmd.Context(), level, module, limit)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), resp)
			}
			rows := make([][]string, 0, len(resp.Items))
			for _, e := range resp.Items {
				msg := e.Message
				if e.Error != "" {
					msg += " (" + e.Error + ")"
				}
				rows = append(rows, []string{
					strconv.FormatUint(e.Seq, 10),
					e.Timestamp.Format("15:04:05"),
					string(e.Level),
					e.Module,
					msg,
				})
			}
			printTable(cmd.OutOrStdout(), []string{"Seq", "Time", "Level", "Module", "Message"}, rows)
			return nil
		},
	}
	list.Flags().StringVar(&level, "level", "", "debug, info, warn or error")
	list.Flags().StringVar(&module, "module", "", "module name")
	list.Flags().IntVarP(&limit, "limit", "n", 50, "most recent entries to show (0 for all)")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show entry counts per level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.client().LogStats(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), st)
			}
			printTable(cmd.OutOrStdout(),
				[]string{"Total", "Debug", "Info", "Warn", "Error"},
				[][]string{{
					strconv.Itoa(st.Total), strconv.Itoa(st.Debug), strconv.Itoa(st.Info),
					strconv.Itoa(st.Warn), strconv.Itoa(st.Error),
				}})
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the log buffer (admin token required)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client().ClearLogs(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ logs cleared")
			return nil
		},
	}

	cmd.AddCommand(list, stats, clearCmd)
	return cmd
}

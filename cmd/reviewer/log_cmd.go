package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the action journal, newest first",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntP(FlagCount, "n", 20, "Number of entries to show")
}

func runLog(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt(FlagCount)

	_, s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.ListActionLog(cmd.Context(), count)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No actions recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tPHASE\tACTION\tTASK\tDETAILS")
	for _, e := range entries {
		task := "-"
		if e.TaskID != 0 {
			task = fmt.Sprintf("#%d", e.TaskID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Phase, e.Action, task, e.Details)
	}
	return w.Flush()
}

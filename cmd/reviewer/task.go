package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tailscale/hujson"
	"golang.org/x/term"

	"github.com/fentz26/reviewer/internal/audit"
	"github.com/fentz26/reviewer/internal/filter"
	"github.com/fentz26/reviewer/internal/models"
	"github.com/fentz26/reviewer/internal/results"
	"github.com/fentz26/reviewer/internal/scoring"
	"github.com/fentz26/reviewer/internal/store"
	"github.com/fentz26/reviewer/internal/tui"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks without the interactive review",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available tasks in review order",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import tasks from a JSON (comments allowed) file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskImport,
}

var taskExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every task as JSON",
	Args:  cobra.NoArgs,
	RunE:  runTaskExport,
}

func init() {
	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskImportCmd, taskExportCmd)

	taskListCmd.Flags().String(FlagRequiresInternet, "any", "Filter by internet requirement: any, yes or no")
	taskListCmd.Flags().String(FlagQuery, "", "Only list tasks whose title contains this text")
	taskListCmd.Flags().Bool(FlagJSON, false, "Output as JSON")
	taskListCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag("task.list."+f.Name, f)
	})

	taskExportCmd.Flags().StringP(FlagOutput, "o", "", "Write to this file instead of stdout")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		var err error
		if title, err = promptTitle(); err != nil {
			return err
		}
	}
	if title == "" {
		return fmt.Errorf("title cannot be empty")
	}

	_, s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	task, err := addTask(cmd.Context(), s, title)
	if err != nil {
		return err
	}
	fmt.Printf("Created task #%d: %s (%s priority, %s duration)\n", task.ID, task.Title, task.Priority, task.Duration)
	return nil
}

// addTask creates a task, journals it and reads back the stored row.
func addTask(ctx context.Context, s *store.Store, title string) (*models.Task, error) {
	created, err := s.CreateTask(ctx, title)
	if err != nil {
		return nil, err
	}
	if _, err := audit.NewJournal(s).Record(ctx, "task.create", audit.PhaseExecute, title, created.ID, "cli"); err != nil {
		setupCLILogger(logLevel).Warn("journal write failed", "error", err)
	}

	task, err := s.GetTask(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %d: %w", created.ID, store.ErrTaskNotFound)
	}
	return task, nil
}

func promptTitle() (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	title, err := line.Prompt("Title: ")
	if err == liner.ErrPromptAborted || err == io.EOF {
		return "", fmt.Errorf("aborted")
	}
	if err != nil {
		return "", fmt.Errorf("read title: %w", err)
	}
	return strings.TrimSpace(title), nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	internet, err := filter.ParseTristate(viper.GetString("task.list." + FlagRequiresInternet))
	if err != nil {
		return err
	}
	criteria := filter.Criteria{
		RequiresInternet: internet,
		TitleQuery:       viper.GetString("task.list." + FlagQuery),
	}

	cfg, s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	now := time.Now()
	source := results.NewSource(s, scoring.New(cfg.Scoring), results.WithClock(func() time.Time { return now }))
	seq, err := source.Pull(cmd.Context())
	if err != nil {
		return err
	}
	seq = filter.NewStage(criteria).Refresh(seq)

	if viper.GetBool("task.list." + FlagJSON) {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(listRows(seq, now))
	}

	if seq.Len() == 0 {
		fmt.Println("No tasks found")
		return nil
	}
	return writeTaskTable(os.Stdout, listRows(seq, now))
}

// listRow is one line of task list output.
type listRow struct {
	ID               int64               `json:"id"`
	Title            string              `json:"title"`
	Priority         models.TaskPriority `json:"priority"`
	Duration         models.TaskDuration `json:"duration"`
	Age              string              `json:"age"`
	Score            int64               `json:"score"`
	RequiresInternet bool                `json:"requires_internet"`
}

func listRows(seq results.Sequence, now time.Time) []listRow {
	rows := make([]listRow, 0, seq.Len())
	for _, r := range seq.All() {
		rows = append(rows, listRow{
			ID:               r.Task.ID,
			Title:            r.Task.Title,
			Priority:         r.Task.Priority,
			Duration:         r.Task.Duration,
			Age:              tui.FormatAge(now.Sub(r.LastEffortAt)),
			Score:            r.Score,
			RequiresInternet: r.Task.RequiresInternet,
		})
	}
	return rows
}

func writeTaskTable(out io.Writer, rows []listRow) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRIOR\tDURR\tAGE\tINTERNET")
	for _, r := range rows {
		internet := ""
		if r.RequiresInternet {
			internet = "yes"
		}
		title := runewidth.Truncate(r.Title, 50, "...")
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ID, title, r.Priority, r.Duration, r.Age, internet)
	}
	return w.Flush()
}

// exportedTask is the file format of import and export.
type exportedTask struct {
	ID               int64               `json:"id,omitempty"`
	Title            string              `json:"title"`
	Status           models.TaskStatus   `json:"status,omitempty"`
	Priority         models.TaskPriority `json:"priority,omitempty"`
	Duration         models.TaskDuration `json:"duration,omitempty"`
	RequiresInternet bool                `json:"requires_internet,omitempty"`
	CreatedAt        time.Time           `json:"created_at,omitzero"`
	Events           []models.TaskEvent  `json:"events,omitempty"`
}

// parseImport reads a JSON array of tasks. Comments and trailing commas
// are allowed.
func parseImport(data []byte) ([]store.NewTask, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parse import: %w", err)
	}

	var tasks []exportedTask
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&tasks); err != nil {
		return nil, fmt.Errorf("decode import: %w", err)
	}

	out := make([]store.NewTask, 0, len(tasks))
	for i, t := range tasks {
		title := strings.TrimSpace(t.Title)
		if title == "" {
			return nil, fmt.Errorf("task %d: title cannot be empty", i+1)
		}
		if t.Status != "" && !t.Status.Valid() {
			return nil, fmt.Errorf("task %d: unknown status %q", i+1, t.Status)
		}
		if t.Priority != "" && !t.Priority.Valid() {
			return nil, fmt.Errorf("task %d: unknown priority %q", i+1, t.Priority)
		}
		if t.Duration != "" && !t.Duration.Valid() {
			return nil, fmt.Errorf("task %d: unknown duration %q", i+1, t.Duration)
		}
		out = append(out, store.NewTask{
			Title:            title,
			Status:           t.Status,
			Priority:         t.Priority,
			Duration:         t.Duration,
			RequiresInternet: t.RequiresInternet,
			CreatedAt:        t.CreatedAt,
		})
	}
	return out, nil
}

func runTaskImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	tasks, err := parseImport(data)
	if err != nil {
		return err
	}

	_, s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	journal := audit.NewJournal(s)
	for _, nt := range tasks {
		task, err := s.InsertTask(ctx, nt)
		if err != nil {
			return err
		}
		if _, err := journal.Record(ctx, "task.import", audit.PhaseExecute, nt, task.ID, args[0]); err != nil {
			return err
		}
	}
	fmt.Printf("Imported %d tasks\n", len(tasks))
	return nil
}

// buildExport pairs every task with its events.
func buildExport(tasks []models.Task, events map[int64][]models.TaskEvent) []exportedTask {
	out := make([]exportedTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, exportedTask{
			ID:               t.ID,
			Title:            t.Title,
			Status:           t.Status,
			Priority:         t.Priority,
			Duration:         t.Duration,
			RequiresInternet: t.RequiresInternet,
			CreatedAt:        t.CreatedAt,
			Events:           events[t.ID],
		})
	}
	return out
}

func runTaskExport(cmd *cobra.Command, args []string) error {
	_, s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	tasks, err := s.ListAllTasks(ctx)
	if err != nil {
		return err
	}
	events, err := s.EventsByTask(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(buildExport(tasks, events), "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	data = append(data, '\n')

	path, _ := cmd.Flags().GetString(FlagOutput)
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("Exported %d tasks to %s\n", len(tasks), path)
	return nil
}

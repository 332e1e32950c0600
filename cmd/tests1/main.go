package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kasitis/tests1/internal/app"
	"github.com/kasitis/tests1/internal/chat"
	"github.com/kasitis/tests1/internal/handler"
	appI18n "github.com/kasitis/tests1/internal/i18n"
	"github.com/kasitis/tests1/internal/importer"
	"github.com/kasitis/tests1/internal/model"
	"github.com/kasitis/tests1/internal/storage"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tests1",
		Short: "Quiz, flashcard and reading practice app",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd(), importCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `tests1 --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "tests1.db", "SQLite database path")
	f.StringP("lang", "l", "", "Override UI language (lv, en, uk)")
	f.String("llm-url", "", "OpenAI-compatible API base URL for the chatbot")
	f.String("llm-key", "", "API key for the chatbot")
	f.String("llm-model", "", "Chatbot model name (empty disables chat)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a profile's question bank as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "tests1.db", "SQLite database path")
	f.String("profile", "", "Test profile ID (required)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.json|file.csv>",
		Short: "Import a question bank into a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	f := cmd.Flags()
	f.String("db", "tests1.db", "SQLite database path")
	f.String("profile", "", "Test profile ID (required)")
	f.StringP("lang", "l", "", "Language for true/false labels in CSV files")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("TESTS1")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("tests1")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/tests1")
	v.AddConfigPath("/etc/tests1")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// openContainer opens the store and loads the application state.
func openContainer(v *viper.Viper) (*app.Container, *storage.Store, error) {
	store, err := storage.New(v.GetString("db"))
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	container := app.NewContainer(store)
	if err := container.Init(); err != nil {
		store.Close()
		return nil, nil, err
	}
	return container, store, nil
}

// applyLangFlag overrides the stored language when --lang is given.
func applyLangFlag(container *app.Container, v *viper.Viper) error {
	raw := v.GetString("lang")
	if raw == "" {
		return nil
	}
	lang := model.Language(raw)
	if !lang.Valid() {
		return fmt.Errorf("unknown language %q (known: lv, en, uk)", raw)
	}
	container.Dispatch(app.UpdateGeneralSettings{Language: &lang})
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	if err := appI18n.Init(); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	container, store, err := openContainer(v)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := applyLangFlag(container, v); err != nil {
		return err
	}

	var chatClient *chat.Client
	if m := v.GetString("llm-model"); m != "" {
		chatClient = chat.New(v.GetString("llm-url"), v.GetString("llm-key"), m)
		slog.Info("chat enabled", "url", v.GetString("llm-url"), "model", m)
	}

	h := handler.New(container, chatClient)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(container.Language))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"db", v.GetString("db"),
		"lang", container.Language(),
		"chat", chatClient != nil,
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	if err := appI18n.Init(); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	container, store, err := openContainer(v)
	if err != nil {
		return err
	}
	defer store.Close()

	profileID := v.GetString("profile")
	s := container.State()
	p := s.FindProfile(profileID)
	if p == nil {
		return fmt.Errorf("profile not found: %s", profileID)
	}

	data, err := model.ExportQuestions(p.Questions)
	if err != nil {
		return fmt.Errorf("export questions: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)

	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	if err := appI18n.Init(); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	container, store, err := openContainer(v)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := applyLangFlag(container, v); err != nil {
		return err
	}

	profileID := v.GetString("profile")
	s := container.State()
	if s.FindProfile(profileID) == nil {
		return fmt.Errorf("profile not found: %s", profileID)
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var questions []model.Question
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		questions, err = importCSV(container, data)
	} else {
		questions, err = model.ImportQuestions(data)
	}
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	container.Dispatch(app.ReplaceQuestions{ProfileID: profileID, Questions: questions})
	slog.Info("imported questions", "path", path, "count", len(questions), "profile", profileID)
	return nil
}

// importCSV converts comma-separated data row by row, reporting rejected
// rows on stderr instead of failing the import.
func importCSV(container *app.Container, data []byte) ([]model.Question, error) {
	headers, rows, err := importer.ReadCSV(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}

	ctx := appI18n.WithLocalizer(context.Background(), container.Localizer())
	labels := importer.Labels{
		True:  appI18n.T(ctx, "optionTrue"),
		False: appI18n.T(ctx, "optionFalse"),
	}
	questions, rowErrs := importer.MapRows(headers, rows, importer.AutoMap(headers), labels)
	if len(questions) == 0 {
		return nil, fmt.Errorf("%s", appI18n.T(ctx, "importNoValidRows"))
	}
	for i, re := range rowErrs {
		if i >= importer.MaxDisplayedErrors {
			fmt.Fprintln(os.Stderr, appI18n.Td(ctx, "importMoreErrors", map[string]any{
				"Count": len(rowErrs) - importer.MaxDisplayedErrors,
			}))
			break
		}
		fmt.Fprintln(os.Stderr, appI18n.Td(ctx, "importRowError", map[string]any{
			"Row":    re.Row,
			"Reason": appI18n.T(ctx, re.Reason),
		}))
	}
	return questions, nil
}

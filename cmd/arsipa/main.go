// Copyright 2025 Arsipa Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/arsipa/arsipa"
	"github.com/arsipa/arsipa/ai"
	"github.com/arsipa/arsipa/config"
	"github.com/arsipa/arsipa/core"
	"github.com/arsipa/arsipa/lifecycle"
	"github.com/arsipa/arsipa/notify"
	"github.com/arsipa/arsipa/reembed"
	"github.com/arsipa/arsipa/search"
	"github.com/arsipa/arsipa/storage"
)

func main() {
	app := &cli.App{
		Name:  "arsipa",
		Usage: "Archive of student documents with embedding-based search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (defaults to $ARSIPA_CONFIG)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Submit a new document for review",
				Action: addCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Usage: "Document kind (thesis, internship-report)", Required: true},
					&cli.StringFlag{Name: "title", Usage: "Document title", Required: true},
					&cli.StringFlag{Name: "author", Usage: "Author name", Required: true},
					&cli.StringFlag{Name: "student-id", Usage: "Author's student ID", Required: true},
					&cli.StringFlag{Name: "program", Usage: "Study program", Required: true},
					&cli.StringFlag{Name: "faculty", Usage: "Faculty name"},
					&cli.IntFlag{Name: "year", Usage: "Publication year", Required: true},
					&cli.StringFlag{Name: "advisors", Usage: "Comma-separated advisor names"},
					&cli.StringFlag{Name: "keywords", Usage: "Comma-separated keywords"},
					&cli.StringFlag{Name: "abstract", Usage: "Document abstract", Required: true},
					&cli.StringFlag{Name: "owner", Usage: "Owner contact (email) for notifications"},
					&cli.StringFlag{Name: "file-url", Usage: "URL of the uploaded document file"},
					&cli.StringFlag{Name: "file-name", Usage: "Original name of the uploaded file"},
				},
			},
			{
				Name:      "accept",
				Usage:     "Accept a document, computing its embedding if needed",
				ArgsUsage: "<id>",
				Action:    acceptCommand,
			},
			{
				Name:      "reject",
				Usage:     "Reject a document with a reason",
				ArgsUsage: "<id>",
				Action:    rejectCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "reason", Usage: "Reason for rejection", Required: true},
				},
			},
			{
				Name:      "edit",
				Usage:     "Edit a document's metadata (accepted documents are re-embedded)",
				ArgsUsage: "<id>",
				Action:    editCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Usage: "Document kind"},
					&cli.StringFlag{Name: "title", Usage: "Document title"},
					&cli.StringFlag{Name: "author", Usage: "Author name"},
					&cli.StringFlag{Name: "student-id", Usage: "Author's student ID"},
					&cli.StringFlag{Name: "program", Usage: "Study program"},
					&cli.StringFlag{Name: "faculty", Usage: "Faculty name"},
					&cli.IntFlag{Name: "year", Usage: "Publication year"},
					&cli.StringFlag{Name: "advisors", Usage: "Comma-separated advisor names"},
					&cli.StringFlag{Name: "keywords", Usage: "Comma-separated keywords"},
					&cli.StringFlag{Name: "abstract", Usage: "Document abstract"},
				},
			},
			{
				Name:      "search",
				Usage:     "Search accepted documents by semantic similarity",
				ArgsUsage: "<query words...>",
				Action:    searchCommand,
			},
			{
				Name:   "list",
				Usage:  "List documents with optional filters",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: "Filter by status (PENDING, ACCEPTED, REJECTED)"},
					&cli.StringFlag{Name: "program", Usage: "Filter by study program"},
					&cli.StringFlag{Name: "kind", Usage: "Filter by document kind"},
					&cli.IntFlag{Name: "year", Usage: "Filter by publication year"},
					&cli.IntFlag{Name: "page", Usage: "Page number (1-based)", Value: 1},
					&cli.IntFlag{Name: "limit", Usage: "Documents per page", Value: 12},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Rebuild embeddings for all accepted documents",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to embed per provider call",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of batches processed concurrently (0 = auto)",
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 50,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openLibrary builds the library handle from the resolved configuration.
func openLibrary(c *cli.Context) (*arsipa.Library, config.Config, error) {
	cfg := config.Load(c.String("config"))

	aiConfig := ai.NewConfig(
		ai.WithHost(cfg.Embedding.Host),
		ai.WithModel(cfg.Embedding.Model),
		ai.WithToken(cfg.Embedding.Token),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, cfg, fmt.Errorf("invalid embedding configuration: %w", err)
	}

	lib, err := arsipa.NewLibrary(cfg.Database.Path,
		arsipa.WithAIConfig(aiConfig),
		arsipa.WithNotifier(notify.NewLogNotifier(slog.Default())),
	)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to open library: %w", err)
	}
	return lib, cfg, nil
}

func newManager(lib *arsipa.Library, cfg config.Config) (*lifecycle.Manager, error) {
	return lib.NewLifecycleManager(lifecycle.WithEmbedTimeout(cfg.Embedding.Timeout()))
}

func parseDocumentID(c *cli.Context) (core.ID, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one document id argument")
	}
	raw, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid document id %q: %w", c.Args().First(), err)
	}
	return core.ID(raw), nil
}

func addCommand(c *cli.Context) error {
	lib, cfg, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	manager, err := newManager(lib, cfg)
	if err != nil {
		return err
	}

	doc := &core.Document{
		Kind:      c.String("kind"),
		Title:     c.String("title"),
		Author:    c.String("author"),
		StudentID: c.String("student-id"),
		Program:   c.String("program"),
		Faculty:   c.String("faculty"),
		Year:      c.Int("year"),
		Advisors:  core.ParseStringList(c.String("advisors")),
		Keywords:  core.ParseStringList(c.String("keywords")),
		Abstract:  c.String("abstract"),
		Owner:     c.String("owner"),
	}
	if url := c.String("file-url"); url != "" {
		doc.File = core.FileRef{
			URL:          url,
			OriginalName: c.String("file-name"),
		}
	}

	added, err := manager.AddDocument(context.Background(), doc)
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	fmt.Printf("Added document %d: '%s' (%s)\n", added.Id, added.Title, added.Status)
	return nil
}

func acceptCommand(c *cli.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return err
	}

	lib, cfg, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	manager, err := newManager(lib, cfg)
	if err != nil {
		return err
	}

	updated, err := manager.ApplyStatusTransition(context.Background(), id, core.StatusAccepted, "")
	if err != nil {
		return fmt.Errorf("failed to accept document: %w", err)
	}

	fmt.Printf("Accepted document %d: '%s' (vector: %d dims)\n",
		updated.Id, updated.Title, len(updated.Vector))
	return nil
}

func rejectCommand(c *cli.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return err
	}

	lib, cfg, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	manager, err := newManager(lib, cfg)
	if err != nil {
		return err
	}

	updated, err := manager.ApplyStatusTransition(context.Background(), id, core.StatusRejected, c.String("reason"))
	if err != nil {
		return fmt.Errorf("failed to reject document: %w", err)
	}

	fmt.Printf("Rejected document %d: '%s' (reason: %s)\n",
		updated.Id, updated.Title, updated.RejectionReason)
	return nil
}

func editCommand(c *cli.Context) error {
	id, err := parseDocumentID(c)
	if err != nil {
		return err
	}

	lib, cfg, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	manager, err := newManager(lib, cfg)
	if err != nil {
		return err
	}
	ctx := context.Background()

	current, err := lib.DocumentRepository().GetDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	// Start from the current fields; flags override what they set.
	edit := lifecycle.MetadataEdit{
		Kind:      current.Kind,
		Title:     current.Title,
		Author:    current.Author,
		StudentID: current.StudentID,
		Program:   current.Program,
		Faculty:   current.Faculty,
		Year:      current.Year,
		Advisors:  current.Advisors,
		Keywords:  current.Keywords,
		Abstract:  current.Abstract,
	}
	if c.IsSet("kind") {
		edit.Kind = c.String("kind")
	}
	if c.IsSet("title") {
		edit.Title = c.String("title")
	}
	if c.IsSet("author") {
		edit.Author = c.String("author")
	}
	if c.IsSet("student-id") {
		edit.StudentID = c.String("student-id")
	}
	if c.IsSet("program") {
		edit.Program = c.String("program")
	}
	if c.IsSet("faculty") {
		edit.Faculty = c.String("faculty")
	}
	if c.IsSet("year") {
		edit.Year = c.Int("year")
	}
	if c.IsSet("advisors") {
		edit.Advisors = core.ParseStringList(c.String("advisors"))
	}
	if c.IsSet("keywords") {
		edit.Keywords = core.ParseStringList(c.String("keywords"))
	}
	if c.IsSet("abstract") {
		edit.Abstract = c.String("abstract")
	}

	updated, err := manager.ApplyMetadataEdit(ctx, id, edit)
	if err != nil {
		return fmt.Errorf("failed to edit document: %w", err)
	}

	fmt.Printf("Updated document %d: '%s' (revision %d)\n",
		updated.Id, updated.Title, updated.Revision)
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("search query is required")
	}
	query := strings.Join(c.Args().Slice(), " ")

	lib, cfg, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	searcher, err := lib.NewSearcher(search.WithEmbedTimeout(cfg.Embedding.Timeout()))
	if err != nil {
		return err
	}

	results, err := searcher.Search(context.Background(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: '%s' by %s, %d (%d)[%0.3f]\n",
			i+1, hit.Document.Title, hit.Document.Author, hit.Document.Year, hit.Document.Id, hit.Score)
	}
	return nil
}

func listCommand(c *cli.Context) error {
	lib, _, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	filter := storage.ListFilter{
		Program: c.String("program"),
		Kind:    c.String("kind"),
		Year:    c.Int("year"),
		Page:    c.Int("page"),
		Limit:   c.Int("limit"),
	}
	if raw := c.String("status"); raw != "" {
		status, err := core.ParseStatus(raw)
		if err != nil {
			return err
		}
		filter.Status = status
	}

	docs, total, err := lib.DocumentRepository().ListDocuments(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	fmt.Printf("%d documents (showing %d)\n", total, len(docs))
	for _, doc := range docs {
		line := fmt.Sprintf("%d [%s] '%s' by %s, %s %d", doc.Id, doc.Status, doc.Title, doc.Author, doc.Program, doc.Year)
		if doc.Status == core.StatusRejected && doc.RejectionReason != "" {
			line += " (rejected: " + doc.RejectionReason + ")"
		}
		fmt.Println(line)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		Workers:        c.Int("workers"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	lib, cfg, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.Database.Path)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.Embedding.Host)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.Embedding.Model)
	fmt.Fprintln(os.Stderr)

	reembedder := lib.NewReembedder(reembedConfig, os.Stderr)
	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

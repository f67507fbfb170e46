// Package main is the Awase CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/awase/internal/cli"
	"github.com/hyperjump/awase/internal/config"
	"github.com/hyperjump/awase/internal/embedding"
	"github.com/hyperjump/awase/internal/extract"
	"github.com/hyperjump/awase/internal/keyword"
	"github.com/hyperjump/awase/internal/matching"
	"github.com/hyperjump/awase/internal/models"
	"github.com/hyperjump/awase/internal/profile"
	"github.com/hyperjump/awase/internal/resumeid"
	"github.com/hyperjump/awase/internal/server"
	"github.com/hyperjump/awase/internal/store"
	"github.com/hyperjump/awase/internal/watcher"
	"github.com/hyperjump/awase/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/awase/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "awase server" from the project dir picks up the
// project's config. Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "match":
		runMatch()
	case "search":
		runSearch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("awase version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (ingestion, matching, watch events)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCancel := startWatcher(cfg, components, logger, debugMode)
	defer watchCancel()

	srv := server.NewServer(components.Service, components.Extractor, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// startWatcher wires the resume drop-directory watcher to the ingestion
// pipeline. Returns a cancel func; a no-op when no directories are configured.
func startWatcher(cfg *config.Config, components *Components, logger *zap.Logger, debug bool) context.CancelFunc {
	if len(cfg.Watch.Directories) == 0 {
		return func() {}
	}
	watchOpts := []watcher.Option{}
	if debug {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	svc := components.Service
	extractor := components.Extractor
	w := watcher.NewWatcher(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			text, err := extractor.Extract(path)
			if err != nil {
				logger.Warn("watch extract failed", zap.String("path", path), zap.Error(err))
				return
			}
			abs, _ := filepath.Abs(path)
			input := &models.CandidateInput{ID: resumeid.FromPath(abs), Text: text}
			if _, err := svc.IngestCandidate(context.Background(), input); err != nil {
				logger.Warn("watch ingest failed", zap.String("path", path), zap.Error(err))
			}
		},
		watchOpts...,
	)
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	w.SyncExistingFiles()
	return cancel
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	id := fs.String("id", "", "candidate ID (derived from the file path when empty)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: awase ingest [flags] <resume-file>")
		os.Exit(1)
	}
	path := fs.Arg(0)
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	abs, _ := filepath.Abs(path)
	candidateID := *id
	if candidateID == "" {
		candidateID = resumeid.FromPath(abs)
	}

	c, err := ingestViaHTTP(*serverURL, abs, candidateID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteCandidate(os.Stdout, c, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func ingestViaHTTP(serverURL, path, id string) (*models.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, err
	}
	if id != "" {
		if err := mw.WriteField("id", id); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	resp, err := http.Post(serverURL+"/api/v1/candidates/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var c models.Candidate
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &c, nil
}

func runMatch() {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	skills := fs.String("skills", "", "required skills, comma separated")
	minYears := fs.Int("min-years", 0, "minimum experience years")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: awase match [flags] <job description>")
		os.Exit(1)
	}
	description := strings.TrimSpace(strings.Join(fs.Args(), " "))
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	query := &models.JobQuery{
		Description:        description,
		MinExperienceYears: *minYears,
	}
	for _, s := range strings.Split(*skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			query.RequiredSkills = append(query.RequiredSkills, s)
		}
	}

	response, err := matchViaHTTP(*serverURL, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Match failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteMatchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func matchViaHTTP(serverURL string, query *models.JobQuery) (*models.MatchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/matches", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.MatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	limit := fs.Int("limit", 10, "number of results")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: awase search [flags] <query>")
		os.Exit(1)
	}
	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	u := fmt.Sprintf("%s/api/v1/candidates/search?q=%s&limit=%d",
		*serverURL, url.QueryEscape(query), *limit)
	resp, err := http.Get(u)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Search failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var out struct {
		Query string                   `json:"query"`
		Hits  []*matching.CandidateHit `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchHits(os.Stdout, query, out.Hits, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Status failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var status matching.Stats
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("candidates:            %d   # ingested resumes\n", status.Candidates)
		fmt.Printf("embedding_dimensions:  %d\n", status.EmbeddingDimensions)
		fmt.Printf("keyword_enabled:       %t\n", status.KeywordEnabled)
		if status.KeywordEnabled {
			fmt.Printf("keyword_docs:          %d\n", status.KeywordDocs)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Embedder     embedding.Embedder
	Store        store.CandidateStore
	KeywordIndex keyword.Index
	Extractor    *extract.Extractor
	Service      *matching.Service
}

func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	var embedder embedding.Embedder
	onnxEmbedder, err := embedding.NewONNXEmbedder(
		cfg.Embedding.ModelPath,
		cfg.Embedding.Dimensions,
		cfg.Embedding.MaxTokens,
		cfg.Embedding.CacheSize,
	)
	if err != nil {
		// Hash fallback keeps the full pipeline running with deterministic
		// vectors when no model is available.
		logger.Info("model unavailable, using hash embedder",
			zap.String("model_path", cfg.Embedding.ModelPath),
			zap.Error(err))
		embedder = embedding.NewHashEmbedder(cfg.Embedding.Dimensions)
	} else {
		embedder = onnxEmbedder
	}

	candidates, err := store.NewMemoryStore(embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize candidate store: %w", err)
	}

	keywordIndex, err := keyword.NewMemIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	svcOpts := []matching.ServiceOption{matching.WithKeywordIndex(keywordIndex)}
	if debug {
		svcOpts = append(svcOpts, matching.WithLogger(logger))
	}
	svc := matching.NewService(
		embedder,
		candidates,
		profile.NewExtractor(cfg.Matching.SkillVocabulary),
		&cfg.Matching,
		svcOpts...,
	)

	return &Components{
		Embedder:     embedder,
		Store:        candidates,
		KeywordIndex: keywordIndex,
		Extractor:    extract.NewExtractor(),
		Service:      svc,
	}, nil
}

func printUsage() {
	fmt.Println(`awase - Freelancer resume and job matching service

Usage:
  awase server [flags]                 Start the HTTP server
  awase ingest [flags] <resume-file>   Upload a resume to a running server
  awase match [flags] <description>    Match candidates against a job
  awase search [flags] <query>         Keyword search over ingested resumes
  awase status [flags]                 Show pool and index status
  awase version                        Show version
  awase help                           Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/awase/config.yaml)
  --debug            Enable debug logging (ingestion, matching, watch events)

Ingest Flags:
  --server string    Server URL (default: http://localhost:8080)
  --id string        Candidate ID (derived from the file path when empty)
  --output string    Output format: text or json (default: text)

Match Flags:
  --server string    Server URL (default: http://localhost:8080)
  --skills string    Required skills, comma separated
  --min-years int    Minimum experience years
  --output string    Output format: text or json (default: text)

Search Flags:
  --server string    Server URL (default: http://localhost:8080)
  --limit int        Number of results (default: 10)
  --output string    Output format: text or json (default: text)

Status Flags:
  --server string    Server URL (default: http://localhost:8080)
  --output string    Output format: text or json (default: text)

The candidate pool is held in memory by the server process; ingest, match,
search, and status talk to a running "awase server".

Examples:
  awase server
  awase ingest resume.pdf
  awase match --skills react,fastapi --min-years 3 "Looking for React and FastAPI developer"
  awase search kubernetes
  awase status --output json`)
}

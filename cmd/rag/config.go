package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/rag"
	ragtoml "github.com/fwojciec/rag/toml"
)

// globalFlags are the flags accepted before the command name. set records
// which of them were given explicitly, so only those override lower
// configuration layers.
type globalFlags struct {
	configPath     string
	baseURL        string
	tokenFile      string
	topK           int
	bm25           float64
	includeContent bool
	logLevel       string
	timeout        time.Duration
	set            map[string]bool
}

func parseGlobalFlags(args []string, output io.Writer) (globalFlags, []string, error) {
	var g globalFlags
	fs := flag.NewFlagSet("rag", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&g.configPath, "config", "", "Path to config file (default: ~/.rag/config.toml)")
	fs.StringVar(&g.baseURL, "base-url", "", "Backend API base URL")
	fs.StringVar(&g.tokenFile, "token-file", "", "Path to the stored token (default: ~/.rag/token.json)")
	fs.IntVar(&g.topK, "top-k", rag.DefaultTopK, "Number of passages to retrieve")
	fs.Float64Var(&g.bm25, "bm25", rag.DefaultBM25Weight, "Lexical weight in [0, 1]")
	fs.BoolVar(&g.includeContent, "include-content", true, "Return passage content with answers")
	fs.StringVar(&g.logLevel, "log-level", "", "trace, debug, info, warn or error")
	fs.DurationVar(&g.timeout, "timeout", 0, "Client-side request timeout (0 = none)")
	fs.Usage = func() {
		printUsage(output)
		fmt.Fprintln(output, "\nFlags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return g, nil, err
		}
		return g, nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	g.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { g.set[f.Name] = true })
	return g, fs.Args(), nil
}

// environ holds the environment variables the client reads.
type environ struct {
	BaseURL   string
	TokenFile string
	Token     string
	LogLevel  string
}

func lookupEnv(getenv func(string) string) environ {
	return environ{
		BaseURL:   getenv("RAG_BASE_URL"),
		TokenFile: getenv("RAG_TOKEN_FILE"),
		Token:     getenv("RAG_TOKEN"),
		LogLevel:  getenv("RAG_LOG_LEVEL"),
	}
}

// resolveConfig layers flags over the environment over the config file
// over the defaults. A missing config file is tolerated only at the default
// path under home.
func resolveConfig(g globalFlags, env environ, home string) (rag.Config, error) {
	path := g.configPath
	if path == "" {
		path = filepath.Join(home, ".rag", "config.toml")
	}
	cfg, err := ragtoml.Load(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && g.configPath == "":
		cfg = rag.DefaultConfig()
	default:
		return rag.Config{}, fmt.Errorf("load config: %w", err)
	}

	if env.BaseURL != "" {
		cfg.BaseURL = env.BaseURL
	}
	if env.TokenFile != "" {
		cfg.TokenFile = env.TokenFile
	}
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}

	if g.set["base-url"] {
		cfg.BaseURL = g.baseURL
	}
	if g.set["token-file"] {
		cfg.TokenFile = g.tokenFile
	}
	if g.set["top-k"] {
		cfg.TopK = g.topK
	}
	if g.set["bm25"] {
		cfg.BM25Weight = g.bm25
	}
	if g.set["include-content"] {
		cfg.IncludeContent = g.includeContent
	}
	if g.set["log-level"] {
		cfg.LogLevel = g.logLevel
	}
	if g.set["timeout"] {
		cfg.Timeout = g.timeout
	}

	if cfg.TokenFile == "" {
		cfg.TokenFile = filepath.Join(home, ".rag", "token.json")
	}
	if err := cfg.Validate(); err != nil {
		return rag.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

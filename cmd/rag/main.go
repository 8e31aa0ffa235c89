// Command rag is a terminal client for the document question-answering
// backend.
//
// Usage:
//
//	rag [flags] [command] [args]
//
// Commands:
//
//	tui                      Interactive question answering (default)
//	ask <question...>        Stream an answer to stdout
//	login <username>         Sign in and store the token
//	register <username>      Create an account
//	logout                   Remove the stored token
//	whoami                   Show the signed-in user
//	search <query...>        Search document passages
//	docs                     List indexed documents
//	upload <pattern...>      Upload files matching glob patterns
//	ingest                   Re-index the document directory
//	health                   Check the backend
//	admin <subcommand>       Manage users and tokens (admin only)
//
// Flags:
//
//	-config string       Path to config file (default: ~/.rag/config.toml)
//	-base-url string     Backend API base URL
//	-token-file string   Path to the stored token (default: ~/.rag/token.json)
//	-top-k int           Number of passages to retrieve
//	-bm25 float          Lexical weight in [0, 1]
//	-include-content     Return passage content with answers
//	-log-level string    trace, debug, info, warn or error
//	-timeout duration    Client-side request timeout (0 = none)
//
// Environment: RAG_BASE_URL, RAG_TOKEN_FILE, RAG_TOKEN, RAG_LOG_LEVEL. A .env
// file in the working directory is loaded first.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/fwojciec/rag"
	"github.com/fwojciec/rag/api"
	ragjson "github.com/fwojciec/rag/json"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "rag: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	flags, rest, err := parseGlobalFlags(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	env := lookupEnv(os.Getenv)
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg, err := resolveConfig(flags, env, home)
	if err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(cfg, env.Token, logger, os.Stdout, os.Stderr)
	a.readPassword = terminalPassword(os.Stdin, os.Stderr)
	return a.dispatch(ctx, rest)
}

// app holds the wired dependencies shared by every command.
type app struct {
	cfg    rag.Config
	client *api.Client
	store  rag.TokenStore
	token  rag.TokenSource
	log    logrus.FieldLogger
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	readPassword func(prompt string) (string, error)
	runTUI       func(ctx context.Context, a *app) error
}

// newApp wires the API client to the token store. A token from the
// environment takes precedence over the stored one.
func newApp(cfg rag.Config, envToken string, logger logrus.FieldLogger, stdout, stderr io.Writer) *app {
	store := ragjson.NewTokenFile(cfg.TokenFile)
	var token rag.TokenSource = store
	if envToken != "" {
		token = rag.StaticToken(envToken)
	}
	client := api.New(
		api.WithBaseURL(cfg.BaseURL),
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		api.WithTokenSource(token),
		api.WithLogger(logger),
	)
	return &app{
		cfg:    cfg,
		client: client,
		store:  store,
		token:  token,
		log:    logger,
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
		readPassword: func(string) (string, error) {
			return "", errors.New("no password input available")
		},
		runTUI: runTUI,
	}
}

// errUsage is returned after usage has been printed for a bad invocation.
var errUsage = errors.New("usage")

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.runTUI(ctx, a)
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "tui":
		return a.runTUI(ctx, a)
	case "ask":
		return a.ask(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "register":
		return a.register(ctx, rest)
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami()
	case "search":
		return a.search(ctx, rest)
	case "docs":
		return a.docs(ctx)
	case "upload":
		return a.upload(ctx, rest)
	case "ingest":
		return a.ingest(ctx)
	case "health":
		return a.health(ctx)
	case "admin":
		return a.admin(ctx, rest)
	case "help":
		printUsage(a.stdout)
		return nil
	default:
		fmt.Fprintf(a.stderr, "rag: unknown command %q\n\n", cmd)
		printUsage(a.stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: rag [flags] [command] [args]

Commands:
  tui                      Interactive question answering (default)
  ask <question...>        Stream an answer to stdout
  login <username>         Sign in and store the token
  register <username>      Create an account
  logout                   Remove the stored token
  whoami                   Show the signed-in user
  search <query...>        Search document passages
  docs                     List indexed documents
  upload <pattern...>      Upload files matching glob patterns
  ingest                   Re-index the document directory
  health                   Check the backend
  admin <subcommand>       users, promote, demote, freeze, unfreeze,
                           delete, revoke, revoked

Run "rag -h" for flags.
`)
}

// terminalPassword reads a password without echo when in is a terminal,
// otherwise it reads one line.
func terminalPassword(in *os.File, prompt io.Writer) func(string) (string, error) {
	return func(label string) (string, error) {
		fmt.Fprint(prompt, label)
		if term.IsTerminal(in.Fd()) {
			b, err := term.ReadPassword(in.Fd())
			fmt.Fprintln(prompt)
			if err != nil {
				return "", fmt.Errorf("read password: %w", err)
			}
			return string(b), nil
		}
		return readLine(in)
	}
}

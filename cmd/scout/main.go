// Package main provides the scout command, a headless web search and page
// fetch tool driven either by one-shot flags or by an XML tool-call stream
// on stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/entrhq/scout/pkg/browser"
	"github.com/entrhq/scout/pkg/config"
	"github.com/entrhq/scout/pkg/logging"
	"github.com/entrhq/scout/pkg/tools"
	"github.com/entrhq/scout/pkg/tools/fetch"
	"github.com/entrhq/scout/pkg/tools/search"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration.
type CLIConfig struct {
	ConfigFile  string
	Search      string
	Engine      string
	Fetch       string
	LogLevel    string
	ShowVersion bool
}

func main() {
	cliConfig := parseFlags()

	if cliConfig.ShowVersion {
		fmt.Printf("scout v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nshutting down...")
		cancel()
		// A second signal should terminate immediately.
		signal.Stop(sigChan)
	}()

	if err := run(ctx, cliConfig); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "scout: %v\n", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags.
func parseFlags() *CLIConfig {
	cliConfig := &CLIConfig{}

	flag.StringVar(&cliConfig.ConfigFile, "config", "", "Path to configuration file (YAML)")
	flag.StringVar(&cliConfig.Search, "search", "", "Run one search query and exit")
	flag.StringVar(&cliConfig.Engine, "engine", "", "Search engine for -search (defaults to configured engine)")
	flag.StringVar(&cliConfig.Fetch, "fetch", "", "Fetch one URL and exit")
	flag.StringVar(&cliConfig.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&cliConfig.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scout - headless web search and page fetch\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scout [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # One-shot search\n")
		fmt.Fprintf(os.Stderr, "  scout -search \"golang singleflight\" -engine duckduckgo\n\n")
		fmt.Fprintf(os.Stderr, "  # One-shot fetch\n")
		fmt.Fprintf(os.Stderr, "  scout -fetch https://go.dev/blog/pipelines\n\n")
		fmt.Fprintf(os.Stderr, "  # Tool-call stream on stdin\n")
		fmt.Fprintf(os.Stderr, "  echo '<tool><tool_name>search</tool_name><arguments><query>go generics</query></arguments></tool>' | scout\n\n")
	}

	flag.Parse()
	return cliConfig
}

// run wires the browser manager and tools, then dispatches either the
// one-shot flag or the stdin stream.
func run(ctx context.Context, cliConfig *CLIConfig) error {
	if err := config.Initialize(cliConfig.ConfigFile); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	cfg := config.Global()

	level := cfg.Logging.Level
	if cliConfig.LogLevel != "" {
		level = cliConfig.LogLevel
	}
	logging.SetDefaultLevel(logging.ParseLevel(level))

	logger, err := logging.NewLogger("main")
	if err != nil {
		logger.Warnf("file logging unavailable, using stderr fallback: %v", err)
	}
	defer logger.Close()

	manager := browser.NewManager(cfg.Browser)
	defer manager.Shutdown()

	searcher := search.NewSearcher(manager, cfg.Search, cfg.Browser.NavigationTimeout)
	fetcher, err := fetch.NewFetcher(manager, cfg.Fetch, cfg.Browser.NavigationTimeout)
	if err != nil {
		return err
	}

	registry := tools.NewRegistry()
	for _, t := range []tools.Tool{
		search.NewSearchTool(searcher),
		fetch.NewFetchTool(fetcher),
	} {
		if err := registry.Register(t); err != nil {
			return err
		}
	}

	switch {
	case cliConfig.Search != "":
		results, err := searcher.Search(ctx, cliConfig.Search, cliConfig.Engine)
		if err != nil {
			return err
		}
		for i, r := range results {
			fmt.Printf("%d. %s\n   %s\n", i+1, r.Title, r.URL)
			if r.Snippet != "" {
				fmt.Printf("   %s\n", r.Snippet)
			}
		}
		return nil

	case cliConfig.Fetch != "":
		page, err := fetcher.Fetch(ctx, cliConfig.Fetch)
		if err != nil {
			return err
		}
		if page.Title != "" {
			fmt.Printf("%s\n\n", page.Title)
		}
		fmt.Println(page.Text)
		return nil

	default:
		return serve(ctx, registry, logger, os.Stdin)
	}
}

// serve reads tool-call documents from input and writes results to stdout.
// Each complete <tool>...</tool> element is dispatched as it arrives. The
// blocking read runs in its own goroutine so a cancelled context (signal
// handling) stops the loop even while no input is arriving.
func serve(ctx context.Context, registry *tools.Registry, logger *logging.Logger, input io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(input)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	var buf strings.Builder
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		case line := <-lines:
			buf.WriteString(line)
			buf.WriteString("\n")

			// One chunk may carry several complete tool calls.
			for strings.Contains(buf.String(), "</tool>") {
				call, remaining, err := tools.ParseToolCall(buf.String())
				buf.Reset()
				if err != nil {
					// Drop the malformed document rather than letting it pin the buffer.
					fmt.Printf("error: %v\n", err)
					break
				}
				buf.WriteString(remaining)

				dispatch(ctx, registry, call, logger)
			}
		}
	}
}

// dispatch executes one parsed tool call and prints its result.
func dispatch(ctx context.Context, registry *tools.Registry, call *tools.ToolCall, logger *logging.Logger) {
	tool, ok := registry.Get(call.ToolName)
	if !ok {
		fmt.Printf("error: unknown tool %q\n", call.ToolName)
		return
	}

	logger.Infof("dispatching tool %s", call.ToolName)
	result, err := tool.Execute(ctx, call.GetArgumentsXML())
	if err != nil {
		logger.Errorf("tool %s failed: %v", call.ToolName, err)
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println(result)
}

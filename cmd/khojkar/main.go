// Command khojkar conducts deep research on a topic using LLM agents and
// writes the resulting markdown report to disk.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/amandeepsp/khojkar/cache"
	"github.com/amandeepsp/khojkar/core"
	"github.com/amandeepsp/khojkar/logging"
	"github.com/amandeepsp/khojkar/model"
	"github.com/amandeepsp/khojkar/model/anthropic"
	"github.com/amandeepsp/khojkar/model/openai"
	"github.com/amandeepsp/khojkar/research"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "khojkar",
		Short:         "Conduct deep research on a topic using LLMs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newResearchCmd())
	return root
}

type researchFlags struct {
	topic             string
	model             string
	output            string
	maxSteps          int
	requestsPerMinute int
	multiAgent        bool
	cacheDir          string
	logLevel          string
}

func newResearchCmd() *cobra.Command {
	flags := researchFlags{}

	cmd := &cobra.Command{
		Use:   "research",
		Short: "Research a topic and generate a markdown report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResearch(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.topic, "topic", "t", "", "The topic to research")
	cmd.Flags().StringVarP(&flags.model, "model", "m", "openai/gpt-4o-mini",
		"The LLM model to use, as provider/name (openai/... or anthropic/...)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: {topic}.md)")
	cmd.Flags().IntVar(&flags.maxSteps, "max-steps", 30, "Maximum reasoning steps per agent")
	cmd.Flags().IntVar(&flags.requestsPerMinute, "requests-per-minute", 60,
		"Completion request budget per minute (0 disables rate limiting)")
	cmd.Flags().BoolVar(&flags.multiAgent, "multi-agent", false,
		"Use the multi-agent workflow instead of the single research agent")
	cmd.Flags().StringVar(&flags.cacheDir, "cache-dir", ".cache", "Directory for the tool result cache")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("topic")

	return cmd
}

func runResearch(cmd *cobra.Command, flags researchFlags) error {
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(flags.logLevel),
		Format: "text",
		Output: os.Stderr,
	})

	llm, err := resolveModel(flags.model)
	if err != nil {
		return err
	}

	store, err := cache.NewSQLiteStore(filepath.Join(flags.cacheDir, "tools.db"))
	if err != nil {
		return fmt.Errorf("open tool cache: %w", err)
	}
	defer store.Close()

	opts := func(o *research.Options) {
		o.Limiter = core.NewRateLimiter(flags.requestsPerMinute)
		o.Cache = store
		o.MaxSteps = flags.maxSteps
		o.Logger = logger
	}

	var researcher research.Researcher
	if flags.multiAgent {
		researcher = research.NewMultiAgentResearcher(llm, opts)
	} else {
		researcher = research.NewSingleAgentResearcher(llm, opts)
	}

	cmd.Printf("Starting research for topic: %s\n", flags.topic)
	cmd.Printf("Using model: %s\n", flags.model)

	report, err := researcher.Research(cmd.Context(), flags.topic)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	path := flags.output
	if path == "" {
		path = slugify(flags.topic) + ".md"
	}
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	cmd.Printf("Research complete. Report saved to: %s\n", path)

	return nil
}

// resolveModel maps a provider/name identifier to a completion adapter.
func resolveModel(identifier string) (model.Model, error) {
	provider, name, found := strings.Cut(identifier, "/")
	if !found {
		return nil, fmt.Errorf("model must be provider/name, got %q", identifier)
	}

	switch provider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			o.Model = name
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = anthropicsdk.Model(name)
		}), nil
	default:
		return nil, fmt.Errorf("unsupported model provider %q (want openai or anthropic)", provider)
	}
}

// slugify turns a topic into a safe filename stem.
func slugify(topic string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(topic)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "report"
	}
	return b.String()
}

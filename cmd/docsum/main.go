package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"docsum/internal/config"
	"docsum/internal/extract"
	"docsum/internal/llm"
	"docsum/internal/logging"
	"docsum/internal/summarize"
)

var (
	// Global flags
	verbose       bool
	configPath    string
	levelName     string
	customPrompt  string
	maxParagraphs int

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "docsum <input-path-or-url> <output-path>",
	Short: "docsum - incremental document summarizer",
	Long: `docsum summarizes documents larger than a model's context window.

The source text is split into sequential chunks; each chunk is summarized
together with a bounded carry-forward of prior summary paragraphs, and the
stabilized portion of the summary streams to the output file as the run
progresses. Input may be a plain text file, a PDF, a Word document, or an
http(s) URL.`,
	Args: cobra.ExactArgs(2),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Credentials commonly live in a .env next to the working directory.
		_ = godotenv.Load()

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummarize(cmd, args[0], args[1])
	},
	SilenceUsage: true,
}

func runSummarize(cmd *cobra.Command, inputPath, outputPath string) error {
	ctx := cmd.Context()
	start := time.Now()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := logging.Initialize(cfg.Logging.Dir, cfg.Logging.Debug || verbose, cfg.Logging.Level); err != nil {
		return err
	}

	level, err := summarize.LevelByName(levelName)
	if err != nil {
		return err
	}

	client, err := buildClient(ctx, cfg)
	if err != nil {
		return err
	}

	logger.Info("Starting summarization",
		zap.String("input", inputPath),
		zap.String("output", outputPath),
		zap.String("level", level.Name))

	text, err := extract.Extract(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", inputPath, err)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("input %s contains no text", inputPath)
	}

	writer, err := summarize.NewFileWriter(outputPath)
	if err != nil {
		return err
	}
	defer writer.Close()

	engine := summarize.NewEngine(client, level, writer, summarize.Options{
		MaxContextParagraphs: resolveMaxParagraphs(cmd.Flags().Changed("max-context-paragraphs"), maxParagraphs, cfg),
		RequestBudgetTokens:  cfg.Window.RequestBudgetTokens,
		MaxAttempts:          cfg.Retry.MaxAttempts,
		TimeoutDelay:         cfg.GetTimeoutDelay(),
		CustomPrompt:         customPrompt,
		Notify: func(format string, args ...interface{}) {
			fmt.Printf(format+"\n", args...)
		},
	})

	if err := engine.Run(ctx, text); err != nil {
		return err
	}

	logger.Info("Summarization complete",
		zap.String("output", outputPath),
		zap.Duration("elapsed", time.Since(start)))
	fmt.Println("Process complete!")
	return nil
}

// resolveMaxParagraphs picks the window bound: an explicitly set flag wins,
// otherwise the config value, otherwise the flag's default.
func resolveMaxParagraphs(flagSet bool, flagValue int, cfg *config.Config) int {
	if flagSet {
		return flagValue
	}
	if cfg.Window.MaxParagraphs > 0 {
		return cfg.Window.MaxParagraphs
	}
	return flagValue
}

// buildClient resolves the completion backend from config, falling back to
// environment detection when the config names no provider.
func buildClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	var pc *llm.ProviderConfig
	if cfg.LLM.Provider != "" {
		pc = &llm.ProviderConfig{
			Provider:   llm.Provider(cfg.LLM.Provider),
			APIKey:     cfg.LLM.APIKey,
			Model:      cfg.LLM.Model,
			BaseURL:    cfg.LLM.BaseURL,
			Endpoint:   cfg.LLM.Endpoint,
			Deployment: cfg.LLM.Deployment,
			Timeout:    cfg.GetTimeout(),
		}
	} else {
		detected, err := llm.DetectProvider()
		if err != nil {
			return nil, err
		}
		detected.Timeout = cfg.GetTimeout()
		pc = detected
	}
	return llm.NewClientFromConfig(ctx, pc)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "docsum.yaml", "Path to config file")
	rootCmd.Flags().StringVar(&levelName, "level", "verbose",
		fmt.Sprintf("Summary level (%s)", strings.Join(summarize.LevelNames(), ", ")))
	rootCmd.Flags().StringVar(&customPrompt, "prompt", "", "Custom instruction appended to the level's prompt")
	rootCmd.Flags().IntVar(&maxParagraphs, "max-context-paragraphs", summarize.DefaultMaxContextParagraphs,
		"Maximum summary paragraphs carried between chunks")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

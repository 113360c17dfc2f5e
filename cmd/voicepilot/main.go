package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quadroai/voicepilot/internal/config"
	"github.com/quadroai/voicepilot/internal/detlog"
	"github.com/quadroai/voicepilot/internal/history"
	"github.com/quadroai/voicepilot/internal/intent"
	"github.com/quadroai/voicepilot/internal/learning"
	"github.com/quadroai/voicepilot/pkg/models"
)

var version = "1.0.0"

var (
	configPath string
	verbose    bool

	logger *zap.Logger
)

// pipeline bundles the wired core components for the CLI commands.
type pipeline struct {
	cfg      *config.Config
	store    *learning.Store
	detector *intent.Detector
	history  *history.Log
	audit    *detlog.Log
	session  string
}

func buildPipeline() (*pipeline, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	store := learning.NewStore(cfg.ProfilePath, logger)

	audit, err := detlog.Open(cfg.DetectionLogPath)
	if err != nil {
		// The audit trail is best-effort; detection works without it.
		logger.Warn("detection log unavailable", zap.Error(err))
		audit = nil
	}

	return &pipeline{
		cfg:      cfg,
		store:    store,
		detector: intent.NewDetector(store, logger),
		history:  history.NewLog(cfg.HistorySize),
		audit:    audit,
		session:  uuid.NewString(),
	}, nil
}

func (p *pipeline) close() {
	p.store.Close()
	if p.audit != nil {
		p.audit.Close()
	}
}

// detect runs one detection and feeds the audit trail and session history.
func (p *pipeline) detect(text string) *models.IntentResult {
	result := p.detector.DetectIntent(text)
	p.history.Add(text, result.Actionable(), result.Intent.Name)
	if p.audit != nil {
		if _, err := p.audit.Record(p.session, result); err != nil {
			logger.Warn("failed to audit detection", zap.Error(err))
		}
	}
	return result
}

var rootCmd = &cobra.Command{
	Use:   "voicepilot",
	Short: "Turkish voice-command intent engine",
	Long: `voicepilot turns freeform Turkish voice commands into structured,
executable intents and learns from usage: custom phrase mappings,
abbreviations, error corrections, command sequences and time-of-day habits.

Run without arguments to start the interactive shell.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL()
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect [text...]",
	Short: "Detect the intent of a single command",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		defer p.close()

		result := p.detect(strings.Join(args, " "))
		printResult(result)
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [partial]",
	Short: "Suggest commands (time-of-day based without an argument)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		defer p.close()

		partial := ""
		if len(args) > 0 {
			partial = args[0]
		}
		suggestions := p.detector.GetCommandSuggestions(partial)
		if len(suggestions) == 0 {
			fmt.Println("No suggestions yet. The engine learns from usage.")
			return nil
		}
		for _, s := range suggestions {
			fmt.Printf("  %s\n", s)
		}
		return nil
	},
}

var teachCmd = &cobra.Command{
	Use:   "teach [phrase] [command]",
	Short: "Map a custom phrase to a system command",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		defer p.close()

		p.detector.AddCustomCommand(args[0], args[1])
		fmt.Printf("Learned: %q -> %q\n", args[0], args[1])
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		defer p.close()

		printStats(p)
		return nil
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voicepilot v%s\n", version)
	},
}

func printResult(r *models.IntentResult) {
	fmt.Printf("Intent:     %s\n", r.Intent.Name)
	fmt.Printf("Confidence: %.0f%%\n", r.Confidence*100)
	fmt.Printf("Processed:  %s\n", r.ProcessedText)
	if len(r.Entities) > 0 {
		keys := make([]string, 0, len(r.Entities))
		for k := range r.Entities {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("Entities:")
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", k, r.Entities[k])
		}
	}
	if len(r.Alternatives) > 0 {
		fmt.Println("Did you mean:")
		for _, alt := range r.Alternatives {
			fmt.Printf("  %s (%.0f%%)\n", alt.Intent.Name, alt.Score*100)
		}
	}
	fmt.Printf("Elapsed:    %s\n", r.ProcessingTime)
}

func printStats(p *pipeline) {
	stats := p.store.Statistics()
	fmt.Printf("Total commands:  %d\n", stats.TotalCommands)
	fmt.Printf("Success rate:    %.0f%%\n", stats.SuccessRate*100)
	fmt.Printf("Custom commands: %d\n", stats.CustomCommandCount)
	fmt.Printf("Profile age:     %s\n", stats.ProfileAge.Round(0))
	if len(stats.MostUsedCommands) > 0 {
		fmt.Println("Most used:")
		for cmd, count := range stats.MostUsedCommands {
			fmt.Printf("  %-30s %d\n", cmd, count)
		}
	}

	session := p.history.Stats()
	fmt.Printf("This session:    %d commands, %.0f%% successful\n",
		session.TotalCommands, session.SuccessRate*100)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.GetConfigPath(), "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(detectCmd, suggestCmd, teachCmd, statsCmd, replCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

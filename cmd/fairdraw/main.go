package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fairdraw/fairdraw/internal/anneal"
	"github.com/fairdraw/fairdraw/internal/cases"
	"github.com/fairdraw/fairdraw/internal/config"
	"github.com/fairdraw/fairdraw/internal/cost"
	"github.com/fairdraw/fairdraw/internal/excel"
	"github.com/fairdraw/fairdraw/internal/pdf"
	"github.com/fairdraw/fairdraw/internal/schedule"
	"github.com/fairdraw/fairdraw/internal/strategy"
	"github.com/fairdraw/fairdraw/internal/validator"
)

const defaultConfigFile = "config.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "fairdraw",
		Short: "Round robin tournament scheduler with fairness annealing",
	}

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter config.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and validate schedules",
	}

	var configFile string
	scheduleCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: config.yaml in current directory)")

	var outputFile string
	var pdfFile string
	var verbose bool
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a schedule from a config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runGenerate(configPath, outputFile, pdfFile, verbose)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")
	generateCmd.Flags().StringVar(&pdfFile, "pdf", "", "Also write a PDF summary to this path")
	generateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log the annealing run")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a schedule against config rules",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}

	scheduleCmd.AddCommand(generateCmd, validateCmd)

	casesCmd := &cobra.Command{
		Use:   "cases",
		Short: "Run benchmark fields through the annealer",
	}

	var casesInitPath string
	casesInitCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter cases.json with the built-in fields",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCasesInit(casesInitPath)
		},
	}
	casesInitCmd.Flags().StringVarP(&casesInitPath, "output", "o", "cases.json", "Output path for the cases file")

	var casesFile string
	var randomCount int
	var reportFile string
	var casesSeed int64
	casesRunCmd := &cobra.Command{
		Use:          "run",
		Short:        "Anneal every case and write a comparison report",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCases(casesFile, randomCount, reportFile, casesSeed)
		},
	}
	casesRunCmd.Flags().StringVar(&casesFile, "cases", "", "Path to a cases file (default: the built-in fields)")
	casesRunCmd.Flags().IntVar(&randomCount, "random", 0, "Append this many randomly drawn fields")
	casesRunCmd.Flags().StringVarP(&reportFile, "output", "o", "cases.xlsx", "Output report file path")
	casesRunCmd.Flags().Int64Var(&casesSeed, "seed", 0, "Base seed for the runs (default: current time)")

	casesCmd.AddCommand(casesInitCmd, casesRunCmd)
	rootCmd.AddCommand(initCmd, scheduleCmd, casesCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Fairdraw Tournament Configuration
# =================================
# This file defines the field of teams and the annealing parameters used
# to generate a single round robin schedule.

tournament:
  name: Spring Invitational

  # Seed pins the random number generator so repeated runs produce the
  # same schedule. Remove it to draw a fresh schedule on every run.
  seed: 42

# Teams play every other team exactly once. Each team carries a tier that
# drives the fairness cost: consecutive matches against strong or medium
# opponents are penalized, and weaker teams are penalized hardest.
teams:
  - name: Rockets
    tier: strong
  - name: Comets
    tier: strong
  - name: Meteors
    tier: medium
  - name: Planets
    tier: medium
  - name: Asteroids
    tier: weak
  - name: Dust Devils
    tier: weak

# Strategy determines how the starting schedule is built.
# "circle" pairs teams with the classic circle method; "shuffled" relabels
# the circle assignment with a random permutation before annealing begins.
strategy: circle

# Annealing parameters. More iterations search longer; the cooling rate
# controls how quickly the tolerance for worse schedules tapers off.
annealing:
  iterations: 100
  initial_temp: 1000
  cooling_rate: 0.95
  swap_attempts: 20

# Costs override the built-in penalty table. Each tier lists four amounts
# charged for consecutive opponent pairs, in the order strong+strong,
# strong+medium, medium+strong, medium+medium. All three tiers must be
# listed when the block is present.
# costs:
#   strong: [16, 4, 4, 2]
#   medium: [32, 8, 8, 4]
#   weak: [48, 12, 12, 6]
`

func runGenerate(configPath, outputPath, pdfPath string, verbose bool) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	strat, err := strategy.Get(cfg.Strategy)
	if err != nil {
		return err
	}

	seed := time.Now().UnixNano()
	if cfg.Tournament.Seed != nil {
		seed = *cfg.Tournament.Seed
	}

	var logger *zap.Logger
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer logger.Sync()
	}

	fmt.Printf("Scheduling %d rounds for %d teams (%s strategy, %d iterations)...\n",
		schedule.RoundCount(cfg.NumTeams()), cfg.NumTeams(), strat.Name(), cfg.Annealing.Iterations)

	result, err := anneal.Run(cfg.NumTeams(), cfg.Tiers(), cfg.CostTable(), anneal.Options{
		InitialTemp:  cfg.Annealing.InitialTemp,
		CoolingRate:  cfg.Annealing.CoolingRate,
		Iterations:   cfg.Annealing.Iterations,
		SwapAttempts: cfg.Annealing.SwapAttempts,
		Seed:         seed,
		Builder:      strat,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	if result.Valid {
		fmt.Printf("✓ Cost %.1f, down from %.1f (%.1f%% improvement)\n",
			result.Cost, result.InitialCost, result.Improvement())
	} else {
		fmt.Fprintf(os.Stderr, "⚠ best schedule failed re-validation\n")
	}

	tiers := cfg.Tiers()
	table := cfg.CostTable()
	shares := cost.Breakdown(result.Schedule, tiers, table)
	stretches := make([]int, cfg.NumTeams())
	for _, h := range cost.Hotspots(result.Schedule, tiers, table) {
		stretches[h.Team]++
	}

	fmt.Println("\nPer Team Metrics:")
	fmt.Printf("  %-15s %-8s %10s %9s\n", "Team", "Tier", "Cost", "Stretches")
	for i, name := range cfg.TeamNames() {
		fmt.Printf("  %-15s %-8s %10.1f %9d\n", name, string(tiers[i]), shares[i], stretches[i])
	}

	fmt.Printf("\nMoves: %d accepted, %d rejected, %d discarded\n",
		result.Accepted, result.Rejected, result.Discarded)

	f, err := excel.Generate(cfg, result)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)

	if pdfPath != "" {
		data, err := pdf.Summary(cfg, result)
		if err != nil {
			return fmt.Errorf("generating PDF: %w", err)
		}
		if err := os.WriteFile(pdfPath, data, 0644); err != nil {
			return fmt.Errorf("saving PDF: %w", err)
		}
		fmt.Printf("✓ Summary saved to %s\n", pdfPath)
	}

	if !result.Valid {
		return fmt.Errorf("schedule failed validation after annealing")
	}
	return nil
}

func runValidate(configPath, schedulePath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	violations, err := validator.Validate(cfg, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Rule violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Demanding stretch: %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d demanding stretches\n", errors, warnings)

	if errors > 0 {
		return fmt.Errorf("%d rule violations found", errors)
	}
	return nil
}

func runCasesInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := cases.Save(outputPath, cases.Default()); err != nil {
		return fmt.Errorf("writing cases: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

func runCases(casesPath string, randomCount int, outputPath string, seed int64) error {
	var list []cases.Case
	if casesPath != "" {
		loaded, err := cases.Load(casesPath)
		if err != nil {
			return fmt.Errorf("loading cases: %w", err)
		}
		list = loaded
	} else if randomCount == 0 {
		list = cases.Default()
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if randomCount > 0 {
		rng := rand.New(rand.NewSource(seed))
		list = append(list, cases.Random(randomCount, rng)...)
	}
	if len(list) == 0 {
		return fmt.Errorf("no cases to run")
	}

	fmt.Printf("Running %d cases...\n\n", len(list))
	fmt.Printf("  %-22s %6s %9s %9s %7s\n", "Case", "Teams", "Initial", "Best", "Delta")

	table := cost.DefaultTable()
	outcomes := make([]excel.CaseOutcome, 0, len(list))
	for i, c := range list {
		result, err := anneal.Run(c.NumTeams(), c.Tiers, table, anneal.Options{
			Seed: seed + int64(i),
		})
		if err != nil {
			return fmt.Errorf("case %q: %w", c.Name, err)
		}
		fmt.Printf("  %-22s %6d %9.1f %9.1f %6.1f%%\n",
			c.Name, c.NumTeams(), result.InitialCost, result.Cost, result.Improvement())
		outcomes = append(outcomes, excel.CaseOutcome{Case: c, Result: result})
	}

	f, err := excel.CasesReport(outcomes)
	if err != nil {
		return fmt.Errorf("generating report: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	fmt.Printf("\n✓ Report saved to %s\n", outputPath)
	return nil
}

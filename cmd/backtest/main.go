package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/quantframe-lab/quantframe/internal/backtest"
	"github.com/quantframe-lab/quantframe/internal/logger"
	"github.com/quantframe-lab/quantframe/internal/marketdata"
	"github.com/quantframe-lab/quantframe/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func loadConfig(path string) (types.BacktestConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.BacktestConfig{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg types.BacktestConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return types.BacktestConfig{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

func writeResult(result types.BacktestResult, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s.yaml",
		result.Symbol,
		strings.ToLower(string(result.Strategy.Type)),
		result.ID[:8],
	)
	path := filepath.Join(outputDir, name)

	if err := types.WriteBacktestResult(path, result); err != nil {
		return "", err
	}

	return path, nil
}

// runAction executes one backtest per matched config file, in parallel when
// more than one config matches.
func runAction(ctx context.Context, cmd *cli.Command) error {
	configPaths, err := filepath.Glob(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("invalid config pattern: %w", err)
	}

	if len(configPaths) == 0 {
		return fmt.Errorf("no config files match %s", cmd.String("config"))
	}

	log, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	requests := make([]backtest.RunRequest, 0, len(configPaths))

	for _, path := range configPaths {
		cfg, err := loadConfig(path)
		if err != nil {
			return err
		}

		series, err := marketdata.LoadCSVSeries(cmd.String("data"), cfg.Symbol, types.SeriesMetadata{
			Currency: "USD",
			Timezone: "UTC",
			Interval: "1d",
		})
		if err != nil {
			return err
		}

		requests = append(requests, backtest.RunRequest{Config: cfg, Series: series})
	}

	bar := progressbar.Default(int64(len(requests)))
	bar.Describe(fmt.Sprintf("Running %d backtest(s)", len(requests)))

	runner := backtest.NewSweepRunner(backtest.NewEngine(log), int(cmd.Int("workers")), log)

	results, err := runner.RunAll(ctx, requests, optional.Some(backtest.ProgressCallback(func(completed, total int) {
		bar.Set(completed) //nolint:errcheck // terminal rendering only
	})))
	if err != nil {
		return err
	}

	for _, result := range results {
		path, err := writeResult(result, cmd.String("output"))
		if err != nil {
			return err
		}

		fmt.Printf("%s: total return %.2f%%, %d trades -> %s\n",
			result.Symbol,
			result.Performance.Returns.TotalReturn*100,
			result.Performance.Trading.TotalTrades,
			path,
		)
	}

	return nil
}

// demoAction runs a moving-average crossover over a seeded synthetic uptrend
// so the engine can be exercised without any data files.
func demoAction(ctx context.Context, cmd *cli.Command) error {
	seed := cmd.Int("seed")

	series, err := marketdata.Generate(marketdata.GeneratorConfig{
		Symbol:       "DEMO",
		NumBars:      252,
		StartDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		InitialPrice: 100,
		DriftPerBar:  0.15,
		Volatility:   0.01,
		Pattern:      marketdata.PatternTrend,
	}, rand.New(rand.NewSource(int64(seed))))
	if err != nil {
		return err
	}

	cfg := types.BacktestConfig{
		Strategy: types.StrategyConfig{
			ID:   "demo-ma-crossover",
			Name: "Demo MA Crossover",
			Type: types.StrategyTypeMovingAverageCrossover,
			Parameters: types.StrategyParameters{
				ShortPeriod: 10,
				LongPeriod:  30,
				MAKind:      types.MAKindSimple,
			},
		},
		Symbol: "DEMO",
		Period: types.Period{
			Start: series.Bars[0].Date,
			End:   series.Bars[len(series.Bars)-1].Date,
		},
		InitialCapital: 100_000,
		Commission:     types.CommissionConfig{Type: types.CommissionTypeFixed, Value: 1},
		Slippage:       types.SlippageConfig{Type: types.SlippageTypePercentage, Value: 0.0005},
		Seed:           int64(seed),
	}

	result, err := backtest.NewEngine(nil).Run(cfg, series)
	if err != nil {
		return err
	}

	fmt.Printf("Demo backtest %s (seed %d)\n", result.ID, seed)
	fmt.Printf("  Period:        %s to %s\n",
		result.Execution.StartDate.Format(time.DateOnly),
		result.Execution.EndDate.Format(time.DateOnly))
	fmt.Printf("  Final capital: %.2f\n", result.Execution.FinalCapital)
	fmt.Printf("  Total return:  %.2f%%\n", result.Performance.Returns.TotalReturn*100)
	fmt.Printf("  Max drawdown:  %.2f%%\n", result.Performance.Drawdown.MaxDrawdown*100)
	fmt.Printf("  Sharpe:        %.2f\n", result.Performance.Ratios.Sharpe)
	fmt.Printf("  Trades:        %d (hit rate %.0f%%)\n",
		result.Performance.Trading.TotalTrades,
		result.Performance.Trading.HitRate*100)

	if output := cmd.String("output"); output != "" {
		path, err := writeResult(result, output)
		if err != nil {
			return err
		}

		fmt.Printf("  Result:        %s\n", path)
	}

	return nil
}

// schemaAction prints the JSON schema for backtest configuration files.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	cfg := types.BacktestConfig{}

	schema, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run deterministic strategy backtests over historical price data",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run backtests from config files against a CSV price series",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Config file path or glob (e.g. configs/*.yaml)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Path to the CSV price data file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory for result files",
						Value:   "results",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of parallel runs",
						Value:   4,
					},
				},
				Action: runAction,
			},
			{
				Name:  "demo",
				Usage: "Run a crossover backtest over generated data",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "seed",
						Aliases: []string{"s"},
						Usage:   "Seed for the synthetic series generator",
						Value:   42,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory for the result file (skipped when empty)",
					},
				},
				Action: demoAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema for config files",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

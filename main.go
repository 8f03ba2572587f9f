package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/petercerno/trader-backtest-sub000/config"
	"github.com/petercerno/trader-backtest-sub000/csvlogger"
	"github.com/petercerno/trader-backtest-sub000/eval"
	"github.com/petercerno/trader-backtest-sub000/history"
	"github.com/petercerno/trader-backtest-sub000/kline"
	"github.com/petercerno/trader-backtest-sub000/log"
	"github.com/petercerno/trader-backtest-sub000/sideinput"
	"github.com/petercerno/trader-backtest-sub000/storage"
)

var (
	configPath string
	verbose    bool
)

func main() {
	app := &cli.App{
		Name:  "backtest",
		Usage: "deterministic trading strategy backtester",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to the JSON configuration",
				Value:       "config.json",
				Destination: &configPath,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "enable debug logging",
				Destination: &verbose,
			},
		},
		Before: func(_ *cli.Context) error {
			log.SetDebug(verbose)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "evaluate the configured traders one by one, logging every tick",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "exchange-log",
						Usage: "CSV file receiving per-tick exchange state",
					},
					&cli.StringFlag{
						Name:  "trader-log",
						Usage: "CSV file receiving trader state snapshots",
					},
				},
				Action: runCommand,
			},
			{
				Name:   "batch",
				Usage:  "evaluate all configured traders in parallel and rank them by score",
				Action: batchCommand,
			},
			{
				Name:  "clean",
				Usage: "remove price outliers and write the cleaned history",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "out",
						Usage:    "output CSV file (use a .gz suffix to compress)",
						Required: true,
					},
				},
				Action: cleanCommand,
			},
			{
				Name:   "gaps",
				Usage:  "report the longest gaps in the raw price history",
				Action: gapsCommand,
			},
			{
				Name:  "import",
				Usage: "resample the raw price history and store candles in sqlite",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Usage:    "sqlite database receiving the candles",
						Required: true,
					},
				},
				Action: importCommand,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Errorln(log.Global, err)
		os.Exit(1)
	}
}

// loadHistory reads the configured data source and returns the evaluation
// candles, already cleaned and resampled when the source is raw ticks
func loadHistory(c *config.Config) ([]kline.Candle, error) {
	d := &c.Data
	if d.CandleDBPath != "" {
		store, err := storage.OpenCandleStore(d.CandleDBPath)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Series(context.Background(),
			c.Evaluation.StartTime, c.Evaluation.EndTime)
	}
	records, err := storage.ReadPriceRecords(d.PriceHistoryPath)
	if err != nil {
		return nil, err
	}
	log.Infof(log.Global, "loaded %d price records from %s", len(records), d.PriceHistoryPath)
	if d.MaxPriceDeviationPerMin > 0 {
		records = history.RemoveOutliers(records, d.MaxPriceDeviationPerMin, nil)
	}
	return history.Resample(records, time.Duration(d.SamplingRateSec)*time.Second)
}

func loadSideInput(c *config.Config) (*sideinput.SideInput, error) {
	if c.Data.SideInputPath == "" {
		return nil, nil
	}
	records, err := storage.ReadSideInput(c.Data.SideInputPath)
	if err != nil {
		return nil, err
	}
	return sideinput.New(records)
}

func runCommand(c *cli.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	candles, err := loadHistory(cfg)
	if err != nil {
		return err
	}
	side, err := loadSideInput(cfg)
	if err != nil {
		return err
	}
	var logger *csvlogger.Logger
	if path := c.String("exchange-log"); path != "" {
		exchangeLog, fErr := os.Create(path)
		if fErr != nil {
			return fErr
		}
		defer exchangeLog.Close()
		var traderLog *os.File
		if tPath := c.String("trader-log"); tPath != "" {
			if traderLog, fErr = os.Create(tPath); fErr != nil {
				return fErr
			}
			defer traderLog.Close()
		}
		if traderLog != nil {
			logger = csvlogger.New(exchangeLog, traderLog)
		} else {
			logger = csvlogger.New(exchangeLog, nil)
		}
		defer func() { _ = logger.Flush() }()
	}
	emitters, err := cfg.AllEmitters()
	if err != nil {
		return err
	}
	for _, emitter := range emitters {
		// the tick log only makes sense for a single trader
		var res eval.Result
		if logger != nil && len(emitters) == 1 {
			res, err = eval.EvaluateTrader(&cfg.Account, &cfg.Evaluation, candles, side, emitter, logger)
		} else {
			res, err = eval.EvaluateTrader(&cfg.Account, &cfg.Evaluation, candles, side, emitter, nil)
		}
		if err != nil {
			return err
		}
		printResult(&res)
	}
	return nil
}

func batchCommand(_ *cli.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	candles, err := loadHistory(cfg)
	if err != nil {
		return err
	}
	side, err := loadSideInput(cfg)
	if err != nil {
		return err
	}
	emitters, err := cfg.AllEmitters()
	if err != nil {
		return err
	}
	log.Infof(log.Eval, "evaluating %d traders across %d CPUs", len(emitters), runtime.NumCPU())
	results, err := eval.EvaluateBatchOfTraders(&cfg.Account, &cfg.Evaluation, candles, side, emitters)
	if err != nil {
		return err
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	for i := range results {
		printResult(&results[i])
	}
	return nil
}

func cleanCommand(c *cli.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Data.PriceHistoryPath == "" {
		return fmt.Errorf("%w: clean requires a raw price history", config.ErrInvalidDataConfig)
	}
	records, err := storage.ReadPriceRecords(cfg.Data.PriceHistoryPath)
	if err != nil {
		return err
	}
	var outliers []int
	cleaned := history.RemoveOutliers(records, cfg.Data.MaxPriceDeviationPerMin, &outliers)
	log.Infof(log.History, "removed %d of %d records", len(records)-len(cleaned), len(records))
	return storage.WritePriceRecords(c.String("out"), cleaned)
}

func gapsCommand(_ *cli.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Data.PriceHistoryPath == "" {
		return fmt.Errorf("%w: gaps requires a raw price history", config.ErrInvalidDataConfig)
	}
	records, err := storage.ReadPriceRecords(cfg.Data.PriceHistoryPath)
	if err != nil {
		return err
	}
	topN := cfg.Data.TopGaps
	if topN <= 0 {
		topN = 10
	}
	gaps := history.Gaps(records, cfg.Evaluation.StartTime, cfg.Evaluation.EndTime, topN)
	for i := range gaps {
		g := &gaps[i]
		fmt.Printf("%v .. %v (%v)\n", g.Start.UTC(), g.End.UTC(), g.Duration())
	}
	return nil
}

func importCommand(c *cli.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Data.PriceHistoryPath == "" {
		return fmt.Errorf("%w: import requires a raw price history", config.ErrInvalidDataConfig)
	}
	candles, err := loadHistory(cfg)
	if err != nil {
		return err
	}
	store, err := storage.OpenCandleStore(c.String("db"))
	if err != nil {
		return err
	}
	defer store.Close()
	if err = store.Insert(context.Background(), candles); err != nil {
		return err
	}
	log.Infof(log.Storage, "imported %d candles into %s", len(candles), c.String("db"))
	return nil
}

func printResult(r *eval.Result) {
	fmt.Printf("%-40s score %8.4f gain %8.4f baseline %8.4f orders %6.1f fee %10.1f\n",
		r.TraderName, r.Score, r.AvgTraderGain, r.AvgBaselineGain,
		r.AvgTotalExecutedOrders, r.AvgTotalFee)
}

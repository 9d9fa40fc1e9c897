// Package main provides the bet advisor CLI.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/bet-advisor/internal/bankroll"
	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/database"
	"github.com/yourusername/bet-advisor/internal/datasource"
	"github.com/yourusername/bet-advisor/internal/engine"
	"github.com/yourusername/bet-advisor/internal/feedback"
	"github.com/yourusername/bet-advisor/internal/health"
	"github.com/yourusername/bet-advisor/internal/logger"
	"github.com/yourusername/bet-advisor/internal/metrics"
	"github.com/yourusername/bet-advisor/internal/models"
	"github.com/yourusername/bet-advisor/internal/repository"
	"github.com/yourusername/bet-advisor/internal/scheduler"
	"github.com/yourusername/bet-advisor/internal/store"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string

	// analyze flags
	slateFile   string
	useFeed     bool
	slateType   string
	noCalibrate bool

	// outcome flags
	outcomeSport      string
	outcomeMatchup    string
	outcomeBetType    string
	outcomePredicted  string
	outcomeActual     string
	outcomeConfidence float64
	outcomeOdds       int
	outcomeStake      float64
	outcomeProfitLoss float64
	outcomeFeatures   []string

	// serve flags
	flushInterval int

	cfg            *config.Config
	appLog         *logrus.Logger
	advisoryLogger *logger.AdvisoryLogger
	outcomeStore   store.OutcomeStore
	tracker        *feedback.Tracker
	manager        *bankroll.Manager
	advisor        *engine.Engine
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")

	analyzeCmd.Flags().StringVarP(&slateFile, "slate", "s", "", "Path to a slate JSON file")
	analyzeCmd.Flags().BoolVar(&useFeed, "feed", false, "Fetch the slate from the configured feed URL")
	analyzeCmd.Flags().StringVar(&slateType, "bet-type", "moneyline", "Bet type used for calibration lookups")
	analyzeCmd.Flags().BoolVar(&noCalibrate, "no-calibrate", false, "Skip confidence calibration")

	outcomeCmd.Flags().StringVar(&outcomeSport, "sport", "", "Sport code (e.g. NBA)")
	outcomeCmd.Flags().StringVar(&outcomeMatchup, "matchup", "", "Matchup label (e.g. 'Celtics @ Lakers')")
	outcomeCmd.Flags().StringVar(&outcomeBetType, "bet-type", "moneyline", "Bet type tag")
	outcomeCmd.Flags().StringVar(&outcomePredicted, "predicted", "", "Predicted selection")
	outcomeCmd.Flags().StringVar(&outcomeActual, "actual", "", "Actual result")
	outcomeCmd.Flags().Float64Var(&outcomeConfidence, "confidence", 0, "Confidence at prediction time (percent)")
	outcomeCmd.Flags().IntVar(&outcomeOdds, "odds", 0, "American odds of the bet")
	outcomeCmd.Flags().Float64Var(&outcomeStake, "stake", 0, "Stake amount")
	outcomeCmd.Flags().Float64Var(&outcomeProfitLoss, "profit-loss", 0, "Realized profit or loss")
	outcomeCmd.Flags().StringArrayVar(&outcomeFeatures, "feature", nil, "Feature value as name=number (repeatable)")
	for _, required := range []string{"sport", "matchup", "predicted", "actual", "confidence", "odds", "stake"} {
		_ = outcomeCmd.MarkFlagRequired(required)
	}

	serveCmd.Flags().IntVar(&flushInterval, "flush-interval", 300, "Snapshot flush interval in seconds")
}

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Kelly-criterion bet sizing and recommendation confidence engine",
	Long: `Bet Advisor analyzes game slates into risk-bounded recommendations,
tracks settled outcomes and calibrates future confidence from the results.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfiguration(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if outcomeStore != nil {
			_ = outcomeStore.Close()
		}
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a slate of games into ranked recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd.Context())
	},
}

var outcomeCmd = &cobra.Command{
	Use:   "outcome",
	Short: "Record a settled bet outcome",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOutcome(cmd.Context())
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print accuracy metrics, feature importance and improvement advice",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the health and metrics servers with the reset scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func main() {
	rootCmd.AddCommand(analyzeCmd, outcomeCmd, reportCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfiguration() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)
	advisoryLogger = logger.NewAdvisoryLogger(appLog)
	metrics.InitRegistry()

	var err error
	switch cfg.Feedback.Backend {
	case "postgres":
		db, dbErr := database.NewDB(ctx, &cfg.Database)
		if dbErr != nil {
			return fmt.Errorf("connecting to database: %w", dbErr)
		}
		outcomeStore = repository.NewPostgresOutcomeStore(db, appLog)
	default:
		outcomeStore, err = store.NewFileStore(cfg.Feedback.StorePath, appLog)
		if err != nil {
			return fmt.Errorf("opening outcome store: %w", err)
		}
	}

	tracker, err = feedback.NewTracker(ctx, outcomeStore, &cfg.Feedback, advisoryLogger)
	if err != nil {
		return fmt.Errorf("initializing feedback tracker: %w", err)
	}

	manager = bankroll.NewManager(&cfg.Trading, appLog)
	advisor = engine.NewEngine(manager, &cfg.Trading, advisoryLogger)

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"backend":     cfg.Feedback.Backend,
		"outcomes":    tracker.OutcomeCount(),
	}).Info("Bet advisor initialized")
	return nil
}

func runAnalyze(ctx context.Context) error {
	var entries []datasource.SlateEntry
	var err error

	switch {
	case useFeed:
		feed := datasource.NewFeedClient(&cfg.Datasource, appLog)
		defer feed.Close()
		entries, err = feed.FetchSlate(ctx)
	case slateFile != "":
		entries, err = datasource.LoadSlateFromFile(slateFile)
	default:
		return fmt.Errorf("either --slate or --feed is required")
	}
	if err != nil {
		return err
	}

	inputs := make([]engine.AnalysisInput, 0, len(entries))
	for _, entry := range entries {
		confidence := entry.Confidence
		if !noCalibrate {
			calibrated := tracker.CalibratedConfidence(entry.Game.Sport, slateType, confidence*100)
			confidence = calibrated / 100
		}
		inputs = append(inputs, engine.AnalysisInput{
			Game:          entry.Game,
			Pick:          entry.Pick,
			RawConfidence: confidence,
			Odds:          entry.Odds,
		})
	}

	recommendations, err := advisor.AnalyzeSlate(inputs)
	if err != nil {
		return err
	}
	if len(recommendations) == 0 {
		fmt.Println("No games cleared the confidence threshold.")
		return nil
	}

	status := manager.Status()
	fmt.Printf("Bankroll %.2f, daily remaining %.2f\n\n", status.Balance, status.DailyRemaining())
	for i, rec := range recommendations {
		fmt.Printf("%d. [%s] %s @ %s: %s (%s)\n", i+1, rec.Sport, rec.AwayTeam, rec.HomeTeam, rec.Pick, rec.RiskTier)
		fmt.Printf("   confidence %.1f%%  EV %+.3f  stake %.2f  odds %+d\n", rec.Confidence*100, rec.ExpectedValue, rec.Stake, rec.Odds[rec.Pick])
		fmt.Printf("   %s\n", rec.Reasoning)
	}
	return nil
}

func runOutcome(ctx context.Context) error {
	features, err := parseFeatures(outcomeFeatures)
	if err != nil {
		return err
	}

	outcome := &models.BetOutcome{
		ID:         uuid.New(),
		Sport:      outcomeSport,
		Matchup:    outcomeMatchup,
		BetType:    outcomeBetType,
		Predicted:  outcomePredicted,
		Actual:     outcomeActual,
		Confidence: outcomeConfidence,
		Odds:       outcomeOdds,
		Stake:      outcomeStake,
		ProfitLoss: outcomeProfitLoss,
		SettledAt:  time.Now().UTC(),
		Features:   features,
	}

	if err := tracker.RecordOutcome(ctx, outcome); err != nil {
		return err
	}

	payout := outcomeStake + outcomeProfitLoss
	if err := manager.RecordOutcome(outcomeStake, outcome.Won(), payout); err != nil {
		return err
	}

	m, err := tracker.Metrics(outcomeSport, outcomeBetType)
	if err != nil {
		return err
	}
	fmt.Printf("Recorded %s outcome %s\n", outcomeSport, outcome.ID)
	fmt.Printf("Bucket %s/%s: %d bets, win rate %.1f%%, ROI %+.1f%%, calibration error %.3f\n",
		m.Sport, m.BetType, m.Total, m.WinRate*100, m.ROI*100, m.CalibrationError)
	return nil
}

func runReport() error {
	status := manager.Status()
	fmt.Printf("Bankroll: balance %.2f, daily used %.2f of %.2f, total P&L %+.2f\n",
		status.Balance, status.DailyUsed, status.DailyLimit, status.TotalProfitLoss)
	fmt.Printf("Outcomes recorded: %d\n\n", tracker.OutcomeCount())

	all := tracker.AllMetrics()
	if len(all) == 0 {
		fmt.Println("No settled outcomes yet.")
	}
	for _, m := range all {
		fmt.Printf("%s/%s: %d bets (%dW-%dL), win rate %.1f%%, predicted %.1f%%, ROI %+.1f%%, Kelly efficiency %.2f, calibration error %.3f\n",
			m.Sport, m.BetType, m.Total, m.Wins, m.Losses,
			m.WinRate*100, m.MeanPredictedConfidence, m.ROI*100, m.KellyEfficiency, m.CalibrationError)
	}

	if ranked := tracker.RankedFeatures(); len(ranked) > 0 {
		fmt.Println("\nFeature importance:")
		for _, fs := range ranked {
			fmt.Printf("  %-24s %.3f\n", fs.Feature, fs.Score)
		}
	}

	fmt.Println("\nImprovement advice:")
	for _, line := range tracker.Improvements() {
		fmt.Printf("  - %s\n", line)
	}
	return nil
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.App.HealthPort,
		Logger:      appLog,
		Store:       outcomeStore,
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("starting health server: %w", err)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	sched, err := scheduler.NewScheduler(manager, tracker, cfg.Trading.ResetTimezone, appLog)
	if err != nil {
		return err
	}
	if err := sched.ScheduleDailyReset(); err != nil {
		return err
	}
	if err := sched.SchedulePeriodicFlush(flushInterval); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}

	healthServer.SetReady(true)
	appLog.Info("Bet advisor serving; press Ctrl+C to stop")
	<-ctx.Done()

	appLog.Info("Shutting down")
	healthServer.SetReady(false)
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Metrics server shutdown error")
		}
	}
	if err := tracker.Flush(shutdownCtx); err != nil {
		appLog.WithError(err).Error("Final snapshot flush failed")
	}
	return nil
}

func parseFeatures(raw []string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	features := make(map[string]float64, len(raw))
	for _, pair := range raw {
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid feature %q, expected name=number", pair)
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid feature value in %q: %w", pair, err)
		}
		features[name] = parsed
	}
	return features, nil
}

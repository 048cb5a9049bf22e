package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/denisheim/Sleeping-Barber-Problem/pkg/chart"
	"github.com/denisheim/Sleeping-Barber-Problem/pkg/config"
	"github.com/denisheim/Sleeping-Barber-Problem/pkg/simulation"
)

var (
	configFile    string
	showTimeline  bool
	timelineLimit int
	showSummary   bool
	showChart     bool
	follow        bool
	progressSpec  string
	seed          int64
)

var rootCmd = &cobra.Command{
	Use:   "barbershop",
	Short: "Sleeping Barber Simulator",
	Long: `A CLI tool that runs the classic Sleeping Barber synchronization problem.

A single barber serves customers arriving at random intervals. Customers
wait in a bounded waiting room or leave when it is full. The tool reads a
configuration file with the shop parameters, runs the simulation, and
renders the recorded event log as charts and statistics.`,
	RunE: runSimulation,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVarP(&showTimeline, "timeline", "t", false, "Show detailed timeline of events")
	rootCmd.Flags().IntVarP(&timelineLimit, "timeline-limit", "l", 50, "Limit number of timeline events to display")
	rootCmd.Flags().BoolVarP(&showSummary, "summary", "s", true, "Show run summary")
	rootCmd.Flags().BoolVar(&showChart, "chart", true, "Show occupancy chart")
	rootCmd.Flags().BoolVarP(&follow, "follow", "f", false, "Print events live as they happen")
	rootCmd.Flags().StringVar(&progressSpec, "progress", "", "Cron spec (with seconds) for periodic progress reports, e.g. \"*/5 * * * * *\"")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed override (0 uses the config value)")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	if seed != 0 {
		cfg.BarberShop.Seed = seed
	}

	if err := setupLogging(cfg.Logging); err != nil {
		return err
	}

	fmt.Printf("Loaded configuration from %s\n", configFile)
	fmt.Printf("  - Waiting Chairs: %d\n", cfg.BarberShop.WaitingChairs)
	fmt.Printf("  - Arrival Interval: %s - %s\n", cfg.BarberShop.MinArrivalInterval, cfg.BarberShop.MaxArrivalInterval)
	fmt.Printf("  - Haircut Time: %s - %s\n", cfg.BarberShop.MinHaircutTime, cfg.BarberShop.MaxHaircutTime)
	fmt.Printf("  - Total Customers: %d\n\n", cfg.BarberShop.TotalCustomers)

	sim := simulation.NewSimulator(cfg)

	var events <-chan simulation.Event
	if follow {
		events = sim.Subscribe(256)
	}

	if err := sim.Start(); err != nil {
		return errors.Wrap(err, "failed to start simulation")
	}

	// Ctrl-C stops the run gracefully; the barber finishes the current cut.
	killSignalChan := make(chan os.Signal, 1)
	signal.Notify(killSignalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-killSignalChan
		logrus.Info("stop requested, shutting down...")
		sim.Stop()
	}()

	if progressSpec != "" {
		reporter := cron.New(cron.WithSeconds())
		if _, err := reporter.AddFunc(progressSpec, func() {
			snap := sim.Snapshot(0)
			logrus.WithFields(logrus.Fields{
				"served":  snap.Aggregates.Served,
				"balked":  snap.Aggregates.Balked,
				"waiting": snap.Waiting,
				"barber":  string(snap.Barber),
			}).Info("progress")
		}); err != nil {
			return errors.Wrap(err, "invalid progress cron spec")
		}
		reporter.Start()
		defer reporter.Stop()
	}

	if follow {
		for event := range events {
			fmt.Printf("[%s] %s\n", event.Time.Format("15:04:05.000"), event.Message)
		}
		if dropped := sim.EventsDropped(); dropped > 0 {
			logrus.WithField("dropped", dropped).Warn("live stream fell behind; the timeline and summary below cover the full log")
		}
	}

	if err := sim.Wait(); err != nil {
		return errors.Wrap(err, "simulation failed")
	}

	renderReport(sim, cfg)
	return nil
}

func renderReport(sim *simulation.Simulator, cfg *config.Config) {
	chartGen := chart.NewGenerator()
	log := sim.Events()
	snap := sim.Snapshot(0)

	if showChart {
		points := chart.BuildTimeline(log)
		fmt.Println(chartGen.GenerateOccupancyChart(points, cfg.BarberShop.WaitingChairs))
	}

	if showSummary {
		fmt.Println(chartGen.GenerateSummary(snap.Aggregates, cfg.BarberShop.TotalCustomers))
	}

	if showTimeline {
		fmt.Println(chartGen.GenerateDetailedTimeline(log, timelineLimit))
	}
}

func setupLogging(cfg config.LoggingConfig) error {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return errors.Wrapf(err, "invalid log level %q", cfg.Level)
		}
		level = parsed
	}
	logrus.SetLevel(level)

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return errors.Wrap(err, "failed to open log file")
		}
		logrus.SetOutput(file)
	}

	return nil
}

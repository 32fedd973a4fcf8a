package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sandeepkv93/cosmicsim/celestial"
	"github.com/sandeepkv93/cosmicsim/cosmology"
	"github.com/sandeepkv93/cosmicsim/scenario"
	"github.com/sandeepkv93/cosmicsim/simserver"
	"github.com/sandeepkv93/cosmicsim/universe"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}
	setupLogger()

	if err := run(); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	scenarioName := strings.ToLower(getEnv("SCENARIO", "solar"))
	dt := getEnvFloat("STEP_DT_SECONDS", cosmology.Day)
	if dt <= 0 {
		return fmt.Errorf("STEP_DT_SECONDS must be positive, got %g", dt)
	}
	tick := time.Duration(getEnvInt("TICK_MS", 1000)) * time.Millisecond
	if tick <= 0 {
		return fmt.Errorf("TICK_MS must be positive")
	}

	cfg := universe.DefaultConfig()
	cfg.ForceWorkers = getEnvInt("FORCE_WORKERS", 1)
	u := universe.New(cfg)

	bodies, err := buildBodies(scenarioName)
	if err != nil {
		return err
	}
	for _, b := range bodies {
		if err := u.AddBody(b); err != nil {
			return fmt.Errorf("add %q: %w", b.Name, err)
		}
	}
	slog.Info("universe assembled", "scenario", scenarioName, "bodies", len(u.Snapshot().Bodies), "force_workers", cfg.ForceWorkers)

	if scenarioName == "solar" || scenarioName == "perturbed" {
		printInventory(scenario.MilkyWay())
	}

	if every := getEnvInt("REPORT_EVERY", 1); every > 0 {
		u.AddObserver(&consoleReporter{every: every})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if getEnvBool("SERVER_ENABLED", false) {
		serverConfig := simserver.DefaultConfig()
		serverConfig.Addr = getEnv("SERVER_ADDR", ":8080")
		serverConfig.TickInterval = tick
		serverConfig.StepSize = dt

		srv, err := simserver.New(serverConfig, u)
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		slog.Info("simulation server running", "addr", srv.Addr(), "scenario", scenarioName)

		<-ctx.Done()
		if err := srv.Stop(); err != nil {
			return err
		}
		printSummary(u)
		return nil
	}

	if steps := getEnvInt("STEPS", 0); steps > 0 {
		slog.Info("running fixed horizon", "steps", steps, "dt_seconds", dt)
		if err := u.Run(ctx, steps, dt); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	} else {
		slog.Info("running until interrupted", "dt_seconds", dt, "tick", tick)
		if err := u.RunContinuous(ctx, tick, dt); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	printSummary(u)
	return nil
}

func buildBodies(name string) ([]*celestial.Body, error) {
	seed := int64(getEnvInt("SEED", 42))

	switch name {
	case "solar":
		return scenario.SolarSystem()
	case "perturbed":
		return scenario.Perturbed(getEnvFloat("PERTURB_MAGNITUDE", 1), seed)
	case "binary":
		return scenario.Binary()
	case "cloud":
		return scenario.RandomCloud(getEnvInt("CLOUD_BODIES", 24), getEnvFloat("CLOUD_SIZE", 1e12), seed)
	case "center":
		return scenario.GalacticCenter()
	default:
		return nil, fmt.Errorf("unknown scenario %q (want solar, perturbed, binary, cloud or center)", name)
	}
}

// consoleReporter prints the sky every few steps.
type consoleReporter struct {
	every int
}

func (r *consoleReporter) OnStepComplete(snap universe.Snapshot) {
	if snap.Steps%r.every != 0 {
		return
	}
	printSnapshot(snap)
}

func printSnapshot(snap universe.Snapshot) {
	fmt.Printf("t=%.2f d (step %d)\n", snap.Time/cosmology.Day, snap.Steps)
	for _, b := range snap.Bodies {
		fmt.Printf("  %-13s %-10s x=%+10.4f AU  y=%+10.4f AU  v=%9.2f km/s  tau=%.3f d\n",
			b.Name, b.Kind,
			b.Position.X/cosmology.AstronomicalUnit,
			b.Position.Y/cosmology.AstronomicalUnit,
			b.Speed/1000,
			b.ProperTime/cosmology.Day)
	}
}

func printInventory(inventory scenario.GalaxyInventory) {
	fmt.Printf("galaxy %s around %s (%.3e kg)\n", inventory.Name, inventory.CentralBlackHole, inventory.CentralMass)
	for _, n := range inventory.Nebulae {
		fmt.Printf("  nebula  %-15s %-18s mass=%.3e kg  radius=%.3e m\n", n.Name, n.Type, n.Mass, n.Radius)
	}
	for _, c := range inventory.Clusters {
		fmt.Printf("  cluster %-15s stars=%-9d mass=%.3e kg\n", c.Name, c.StarCount, c.Mass)
	}
	if inventory.Quasar != nil {
		fmt.Printf("  quasar  %-15s luminosity=%.3e W\n", inventory.Quasar.Name, inventory.Quasar.Luminosity)
	}
}

func printSummary(u *universe.Universe) {
	snap := u.Snapshot()
	stats := u.Statistics()

	fmt.Println()
	fmt.Println("final state")
	printSnapshot(snap)
	fmt.Printf("energy: kinetic=%.4e J  potential=%.4e J  total=%.4e J\n",
		stats.KineticEnergy, stats.PotentialEnergy, stats.TotalEnergy)
	fmt.Printf("momentum=%.4e kg*m/s  max speed=%.2f km/s  bodies=%d\n",
		stats.Momentum.Magnitude(), stats.MaxSpeed/1000, stats.BodyCount)
}

func setupLogger() {
	opts := &slog.HandlerOptions{Level: parseLogLevel(getEnv("LOG_LEVEL", "info"))}

	var handler slog.Handler
	if strings.EqualFold(getEnv("LOG_FORMAT", "text"), "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("ignoring invalid integer in environment", "key", key, "value", raw)
		return fallback
	}
	return value
}

func getEnvFloat(key string, fallback float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("ignoring invalid number in environment", "key", key, "value", raw)
		return fallback
	}
	return value
}

func getEnvBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("ignoring invalid boolean in environment", "key", key, "value", raw)
		return fallback
	}
	return value
}

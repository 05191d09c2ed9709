// Command research-core starts the HTTP surface for the Deep Research
// Engine and Boolean Monitor subsystem: loads configuration, registers
// integration adapters, starts the monitor scheduler, and serves the
// programmatic surface of spec §6. Modeled on cmd/tarsy/main.go's startup
// sequence (flag parsing, .env loading, config.Initialize, service
// construction, router.Run), generalized from TARSy's session/stage/
// timeline services to this system's engine/synth/monitor services.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/research-core/pkg/alert"
	"github.com/codeready-toolchain/research-core/pkg/api"
	"github.com/codeready-toolchain/research-core/pkg/config"
	"github.com/codeready-toolchain/research-core/pkg/execlog"
	"github.com/codeready-toolchain/research-core/pkg/executor"
	"github.com/codeready-toolchain/research-core/pkg/integration"
	"github.com/codeready-toolchain/research-core/pkg/integration/mcpadapter"
	"github.com/codeready-toolchain/research-core/pkg/integration/websearch"
	"github.com/codeready-toolchain/research-core/pkg/llmgw"
	"github.com/codeready-toolchain/research-core/pkg/monitor"
	"github.com/codeready-toolchain/research-core/pkg/registry"
	"github.com/codeready-toolchain/research-core/pkg/research"
	"github.com/codeready-toolchain/research-core/pkg/schema"
	"github.com/codeready-toolchain/research-core/pkg/store"
	"github.com/codeready-toolchain/research-core/pkg/synth"
)

// defaultMCPTool is the tool name/argument convention every MCP-backed
// integration is assumed to expose, since IntegrationConfig carries no
// per-source tool descriptor. A deployment with a differently-shaped MCP
// server registers its own adapter in code instead of relying on this
// default.
var defaultMCPTool = mcpadapter.ToolDescriptor{Name: "search", QueryArgName: "query", LimitArgName: "limit"}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	configDir := flag.String("config-dir", getEnv("CONFIG_DIR", "./deploy/config"), "Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("warning: could not load %s: %v", envPath, err)
	}

	httpPort := getEnv("HTTP_PORT", "8080")
	gin.SetMode(getEnv("GIN_MODE", "release"))

	ctx := context.Background()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}

	layout := store.New(cfg.DataRoot)

	opsLogger, err := execlog.New(layout.OpsLogPath(time.Now()), cfg.Redactor())
	if err != nil {
		log.Fatalf("failed to open ops log: %v", err)
	}
	defer opsLogger.Close()

	provider, err := pickDefaultProvider(cfg.LLMProviderRegistry)
	if err != nil {
		log.Fatalf("failed to select default LLM provider: %v", err)
	}

	gateway := llmgw.New(llmgw.NewOpenAITransport(), cfg.LLMProviderRegistry, schema.Default)

	reg, err := buildRegistry(cfg, gateway, provider)
	if err != nil {
		log.Fatalf("failed to build integration registry: %v", err)
	}
	slog.Info("integration registry built", "sources", reg.Len())

	exec := executor.New(opsLogger)
	engine := research.NewEngine(gateway, reg, exec, opsLogger, provider)
	synthesizer := synth.New(gateway, provider)

	slackChannel := buildSlackChannel(cfg)

	cycle := monitor.NewCycle(reg, exec, gateway, provider, opsLogger, layout, slackChannel)
	scheduler := monitor.NewScheduler(cycle, opsLogger)

	monitors, err := loadMonitors(cfg.Monitors.ConfigDir)
	if err != nil {
		log.Fatalf("failed to load monitor configs: %v", err)
	}
	for _, m := range monitors {
		if err := scheduler.Register(m); err != nil {
			log.Fatalf("failed to register monitor %q: %v", m.Name, err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()
	slog.Info("monitors registered", "count", len(monitors))

	constraints := researchConstraintsFromConfig(cfg.Research)
	server := api.NewServer(engine, synthesizer, scheduler, monitors, reg, layout, constraints)

	slog.Info("research-core listening", "port", httpPort)
	if err := server.Router.Run(":" + httpPort); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func pickDefaultProvider(providers *config.LLMProviderRegistry) (string, error) {
	if providers.Has("default") {
		return "default", nil
	}
	all := providers.GetAll()
	if len(all) != 1 {
		return "", fmt.Errorf("no provider named \"default\" and %d providers configured; cannot pick one unambiguously", len(all))
	}
	for name := range all {
		return name, nil
	}
	return "", fmt.Errorf("unreachable")
}

// buildRegistry registers one Adapter per enabled IntegrationConfig entry:
// web-search gets the built-in net/http adapter, everything with a
// Transport configured gets an MCP-backed adapter, and anything else is
// skipped with a warning (a concrete HTTP adapter with no generic shape to
// default to).
func buildRegistry(cfg *config.Config, gateway *llmgw.Gateway, provider string) (*registry.Registry, error) {
	reg := registry.New()
	for id, integrationCfg := range cfg.IntegrationRegistry.GetAll() {
		if !integrationCfg.Enabled {
			continue
		}
		icfg := *integrationCfg

		switch {
		case id == "web-search":
			if err := reg.Register(id, func() integration.Adapter { return websearch.New(icfg, gateway, provider) }); err != nil {
				return nil, err
			}
		case icfg.Transport != nil:
			meta := integration.SourceMetadata{
				ID: id, DisplayName: id, Category: icfg.Category,
				RequiresCredential: icfg.APIKeyEnv != "",
			}
			transportCfg := *icfg.Transport
			if err := reg.Register(id, func() integration.Adapter {
				return mcpadapter.New(meta, transportCfg, defaultMCPTool, gateway, provider)
			}); err != nil {
				return nil, err
			}
		default:
			slog.Warn("integration has no concrete adapter implementation, skipping", "source_id", id)
		}
	}
	return reg, nil
}

func buildSlackChannel(cfg *config.Config) alert.Channel {
	if cfg.Alerts == nil || cfg.Alerts.Slack == nil || !cfg.Alerts.Slack.Enabled {
		return nil
	}
	token := os.Getenv(cfg.Alerts.Slack.TokenEnv)
	channel := alert.NewSlackChannel(token, cfg.Alerts.Slack.Channel)
	if channel == nil {
		return nil
	}
	return channel
}

func loadMonitors(configDir string) (map[string]*monitor.Config, error) {
	monitors := map[string]*monitor.Config{}
	if configDir == "" {
		return monitors, nil
	}

	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return monitors, nil
		}
		return nil, fmt.Errorf("reading monitor config dir %s: %w", configDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		cfg, err := monitor.LoadConfig(filepath.Join(configDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		monitors[cfg.Name] = cfg
	}
	return monitors, nil
}

func researchConstraintsFromConfig(rc *config.ResearchConstraints) research.Constraints {
	constraints := research.DefaultConstraints()
	if rc == nil {
		return constraints
	}
	if rc.MaxTasks > 0 {
		constraints.MaxTasks = rc.MaxTasks
	}
	if rc.MaxRetriesPerTask > 0 {
		constraints.MaxRetriesPerTask = rc.MaxRetriesPerTask
	}
	if rc.MaxTimeMinutes > 0 {
		constraints.MaxTime = time.Duration(rc.MaxTimeMinutes) * time.Minute
	}
	if rc.MinResultsPerTask > 0 {
		constraints.MinResultsPerTask = rc.MinResultsPerTask
	}
	if rc.MaxConcurrentTasks > 0 {
		constraints.MaxConcurrentTasks = rc.MaxConcurrentTasks
	}
	if rc.RelevanceThreshold > 0 {
		constraints.RelevanceThreshold = rc.RelevanceThreshold
	}
	if rc.MinSourceUtilization > 0 {
		constraints.MinSourceUtilization = rc.MinSourceUtilization
	}
	return constraints
}

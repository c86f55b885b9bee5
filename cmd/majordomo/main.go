package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/arjun/majordomo/internal/agent"
	"github.com/arjun/majordomo/internal/gateway"
	"github.com/arjun/majordomo/internal/governance"
	"github.com/arjun/majordomo/internal/observability"
	"github.com/arjun/majordomo/internal/reasoning"
	"github.com/arjun/majordomo/internal/scratchpad"
	"github.com/arjun/majordomo/internal/store"
	"github.com/arjun/majordomo/pkg/config"
)

func main() {
	observability.PrintBanner()
	observability.InitializeTerminal()

	// Route all log output through the terminal mutex so it never
	// interrupts the dashboard's cursor save/restore sequence.
	log.SetOutput(observability.NewTermWriter())

	cfgPath := "config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	tgCfg, ok := cfg.TelegramConfig()
	if !ok {
		log.Fatal("Telegram gateway is not enabled or token is missing")
	}

	st, err := store.Open(filepath.Join(cfg.App.DataDir, "majordomo.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	pad, err := scratchpad.Open(cfg.App.DataDir)
	if err != nil {
		log.Fatal(err)
	}

	logger := observability.NewLogger()

	gate := governance.NewGate(cfg.Governance.ConfirmationTTL())
	policy := governance.NewDefaultPolicyEngine()
	for _, action := range cfg.Governance.DeniedActions {
		policy.DenyAction(action)
	}
	for _, pattern := range cfg.Governance.DeniedPatterns {
		if err := policy.DenyArguments(pattern); err != nil {
			log.Fatalf("bad denied pattern %q: %v", pattern, err)
		}
	}

	// Initialize LLM (using default enabled provider)
	pName, pCfg := cfg.DefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}

	var model llms.Model
	switch pName {
	case "openai", "openrouter":
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		model, err = openai.New(opts...)
	default:
		log.Fatalf("Provider %s not yet implemented in main", pName)
	}
	if err != nil {
		log.Fatal(err)
	}

	svc := reasoning.NewLLM(model, pCfg.Model, logger)

	workers, err := agent.NewWorkerSet(svc, st, gate, policy, logger, cfg.App.SpoolDir)
	if err != nil {
		log.Fatal(err)
	}
	defer workers.Close()

	orch := &agent.Orchestrator{
		Service: svc,
		Workers: workers,
		Pad:     pad,
		Gate:    gate,
		Store:   st,
		Logger:  logger,
		Synth:   &agent.Synthesizer{Service: svc, Logger: logger},
	}

	tg, err := gateway.NewTelegramGateway(tgCfg.Token, orch)
	if err != nil {
		log.Fatal(err)
	}

	// Start background scheduler with a cancelable context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := &agent.Scheduler{
		Orchestrator: orch,
		Store:        st,
		Gateway:      tg,
		Interval:     cfg.Scheduler.PollInterval(),
	}
	go scheduler.Start(ctx)

	// Live resource dashboard (1-second updates)
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.PrintLiveStatus()
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
				logger.LogHeartbeat()
			}
		}
	}()

	// Start gateway in a goroutine so we can wait for context in the main loop
	go func() {
		if err := tg.Start(); err != nil {
			log.Printf("\033[91m[ FAIL ] GATEWAY CRITICAL ERROR: %v\033[0m", err)
			stop()
		}
	}()

	<-ctx.Done()

	tg.Stop()
	observability.CleanupTerminal()

	// Give a short time for final logs/syncs
	time.Sleep(500 * time.Millisecond)
	log.Println("\033[95m[ EXIT ] CORE DE-INITIALIZED. GOODBYE.\033[0m")
}

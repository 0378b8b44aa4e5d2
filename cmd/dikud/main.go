package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/dikucore/server/internal/combat"
	"github.com/dikucore/server/internal/config"
	"github.com/dikucore/server/internal/core/event"
	coresys "github.com/dikucore/server/internal/core/system"
	"github.com/dikucore/server/internal/data"
	"github.com/dikucore/server/internal/dice"
	"github.com/dikucore/server/internal/narrate"
	"github.com/dikucore/server/internal/persist"
	"github.com/dikucore/server/internal/progression"
	"github.com/dikucore/server/internal/scripting"
	"github.com/dikucore/server/internal/system"
	"github.com/dikucore/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              DikuCore  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m伺服器:\033[0m %s\n\n", serverName)
}

// displayWidth counts CJK characters as two columns.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r > 0x7F {
			w += 2
		} else {
			w++
		}
	}
	return w
}

func printSection(title string) {
	lineLen := max(46-displayWidth(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-displayWidth(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Ledger storage
	printSection("資料庫")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store persist.Store = persist.NewLogStore(log)
	if cfg.Database.Enabled {
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL 連線成功")
		if err := persist.RunMigrations(ctx, db.Pool, log); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("資料庫遷移完成")
		store = persist.NewLedgerRepo(db)
	} else {
		printOK("未啟用資料庫，戰鬥紀錄寫入日誌")
	}
	fmt.Println()

	// 4. Load static data and scripts in parallel
	printSection("遊戲資料")
	var (
		tables *data.Tables
		msgs   *data.FightMessages
		zone   *data.Zone
		lua    *scripting.Engine
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := data.LoadTables(cfg.Data.TablesPath())
		if err != nil {
			return fmt.Errorf("tables: %w", err)
		}
		tables = t
		return nil
	})
	g.Go(func() error {
		m, err := data.LoadFightMessages(cfg.Data.MessagesPath())
		if err != nil {
			return fmt.Errorf("fight messages: %w", err)
		}
		msgs = m
		return nil
	})
	g.Go(func() error {
		z, err := data.LoadZone(cfg.Data.ZonePath())
		if err != nil {
			return fmt.Errorf("zone: %w", err)
		}
		zone = z
		return nil
	})
	g.Go(func() error {
		e, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripts: %w", err)
		}
		lua = e
		return nil
	})
	if err := g.Wait(); err != nil {
		if lua != nil {
			lua.Close()
		}
		return err
	}
	defer lua.Close()
	printStat("戰鬥訊息", msgs.Count())

	// 5. World and services
	ws := world.NewState()
	bus := event.NewBus()
	roll := dice.NewRoller(dice.Global)

	var out narrate.Sink = narrate.SinkFunc(func(to *world.Character, line string) {
		log.Info("act", zap.String("to", to.Name), zap.String("line", line))
	})
	if cfg.Narration.Charset != narrate.CharsetUTF8 {
		out = narrate.NewByteSink(cfg.Narration.Charset, func(to *world.Character, b []byte) {
			log.Info("act", zap.String("to", to.Name), zap.ByteString("bytes", b))
		})
	}
	narr := narrate.NewRenderer(ws, out, log)

	ledger := progression.NewLedger(tables, roll, narr, bus, log)
	engine := combat.NewEngine(combat.Deps{
		World:    ws,
		Tables:   tables,
		Messages: msgs,
		Roll:     roll,
		Narrator: narr,
		Ledger:   ledger,
		Bus:      bus,
		Log:      log,
	}, combat.Options{LegacyFleeInversion: cfg.Combat.LegacyFleeInversion})

	registry := scripting.NewRegistry(log)
	scripting.RegisterBuiltins(registry, roll)
	printStat("Lua 特殊程序", lua.Install(registry))
	ws.SetMoveGuard(registry.MoveGuard(ws))

	rooms, mobs := seedWorld(ws, zone, engine, log)
	printStat("房間", rooms)
	printStat("NPC", mobs)
	printStat("NPC 原型", zone.MobileCount())
	fmt.Println()

	// 6. Systems
	buffer := persist.NewBuffer(store, log)
	combatSys := system.NewCombatSystem(engine, ws, bus, log, cfg.Game.ViolencePulses)
	mobileSys := system.NewMobileSystem(ws, registry, combatSys, narr, cfg.Game.MobilePulses)
	registry.SetHost(mobileSys)
	system.NewAftermath(ws, engine, ledger, buffer, narr, log).Subscribe(bus)
	persistSys := system.NewPersistenceSystem(buffer, log, cfg.Game.PersistPulses)

	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(combatSys)
	runner.Register(system.NewAffectTickSystem(ws, engine, log, cfg.Game.AffectPulses))
	runner.Register(mobileSys)
	runner.Register(persistSys)
	runner.Register(system.NewCleanupSystem(ws, engine.Roster))

	// 7. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Game.Pulse)
	defer ticker.Stop()

	printSection("伺服器就緒")
	printReady(fmt.Sprintf("遊戲迴圈啟動 (pulse: %s)", cfg.Game.Pulse))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick()
		case sig := <-shutdownCh:
			log.Info("收到關閉信號", zap.String("signal", sig.String()))
			persistSys.FlushAll()
			log.Info("伺服器已停止", zap.Uint64("pulses", runner.Pulse()))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

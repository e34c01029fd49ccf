package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kakapo-ui/kakapo/internal/demo"
	"github.com/kakapo-ui/kakapo/internal/errors"
	"github.com/kakapo-ui/kakapo/pkg/app"
	"github.com/kakapo-ui/kakapo/pkg/inspect"
	"github.com/kakapo-ui/kakapo/pkg/terminal"
	"github.com/kakapo-ui/kakapo/pkg/view"
)

type runOptions struct {
	dir         string
	inspectAddr string
	headless    bool
	pressDelay  time.Duration
	logLevel    string
}

func runCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the two-button demo",
		Long: `Run the bundled two-button application.

The primary button toggles a second secondary button. Secondary
buttons flip their color after background work completes.

The terminal UI shows every committed frame; --headless skips it
and is useful together with --inspect.

Examples:
  kakapo run
  kakapo run --inspect localhost:7070
  kakapo run --headless --inspect :7070 --press-delay 500ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("press-delay") {
				opts.pressDelay = -1
			}
			return runDemo(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "config", "c", ".", "Directory containing kakapo.yaml or kakapo.json")
	cmd.Flags().StringVarP(&opts.inspectAddr, "inspect", "i", "", "Serve the inspector on this address")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Do not start the terminal UI")
	cmd.Flags().DurationVar(&opts.pressDelay, "press-delay", demo.DefaultPressDelay, "Duration of the demo's background work")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return cmd
}

func runDemo(ctx context.Context, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if !opts.headless && !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("K040").
			WithDetail("The terminal UI needs an interactive terminal.").
			WithSuggestion("Use --headless, optionally with --inspect")
	}

	cfg, err := loadConfig(opts.dir)
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if opts.inspectAddr != "" {
		cfg.Inspector.Enabled = true
		cfg.Inspector.Addr = opts.inspectAddr
	}
	if opts.pressDelay >= 0 {
		cfg.Demo.PressDelay = opts.pressDelay.String()
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg, !opts.headless)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := app.NewMetrics(
		app.WithNamespace(cfg.Metrics.Namespace),
		app.WithRegistry(registry),
	)

	delay, _ := cfg.PressDelay()
	data := demo.NewAppData(demo.WithPressDelay(delay), demo.WithLogger(logger))

	a := app.New(
		app.WithLogger(logger),
		app.WithMetrics(metrics),
		app.WithEventQueue(cfg.Window.EventQueue),
	)
	win := a.AddWindow(cfg.Window.Title, view.ViewFunc(demo.View), data)

	if opts.headless {
		printBanner()
		fmt.Println("  run")
		fmt.Println()
	}

	if cfg.Inspector.Enabled {
		insp := inspect.New(win.Title(), win,
			inspect.WithLogger(logger),
			inspect.WithGatherer(registry))
		win.AddRenderer(insp)

		go func() {
			if err := insp.ListenAndServe(ctx, cfg.Inspector.Addr); err != nil {
				logger.Error("inspector stopped", "error", err)
				cancel()
			}
		}()
		if opts.headless {
			success("Inspector on http://%s", cfg.Inspector.Addr)
		}
	}

	if opts.headless {
		info("Press Ctrl+C to stop")
		return a.Run(ctx)
	}

	model := terminal.NewModel(win.Title(), win)
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	win.AddRenderer(terminal.NewRenderer(program))

	runErr := make(chan error, 1)
	go func() {
		err := a.Run(ctx)
		runErr <- err
		program.Quit()
	}()

	_, err = program.Run()
	cancel()
	appErr := <-runErr

	if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal: %w", err)
	}
	return appErr
}

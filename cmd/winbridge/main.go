package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/dooshek/winbridge/internal/browser"
	"github.com/dooshek/winbridge/internal/capture"
	"github.com/dooshek/winbridge/internal/config"
	"github.com/dooshek/winbridge/internal/fileops"
	"github.com/dooshek/winbridge/internal/logger"
	"github.com/dooshek/winbridge/internal/office"
	"github.com/dooshek/winbridge/internal/registry"
	"github.com/dooshek/winbridge/internal/server"
	"github.com/dooshek/winbridge/internal/state"
	"github.com/dooshek/winbridge/internal/types"
	"github.com/dooshek/winbridge/internal/winmgr"
)

func init() {
	// Set custom usage message to show -- prefix
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(out, "  --%s", f.Name)
			name, usage := flag.UnquoteUsage(f)
			if len(name) > 0 {
				fmt.Fprintf(out, " %s", name)
			}
			fmt.Fprintf(out, "\n    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Fprintf(out, " (default %q)", f.DefValue)
			}
			fmt.Fprintf(out, "\n")
		})
	}
}

// printBanner lists the reachable endpoint groups on the console
func printBanner(host string, port int) {
	heading := color.New(color.FgCyan, color.Bold)
	entry := color.New(color.FgGreen)

	heading.Printf("WinBridge listening on http://%s:%d\n", host, port)
	entry.Println("  /health /shutdown")
	entry.Println("  /word/*        launch create write read save set_font set_paragraph")
	entry.Println("                 add_table find_replace select_all get_selection insert_break screenshot close")
	entry.Println("  /excel/*       launch create write_cell read_cell read_range write_range set_formula")
	entry.Println("                 add_sheet delete_sheet rename_sheet get_sheets save screenshot close")
	entry.Println("  /powerpoint/*  launch create add_slide write_text read_slide get_slide_count save screenshot close")
	entry.Println("  /browser/*     launch close navigate screenshot click fill get_text get_info get_html")
	entry.Println("                 execute_script get_console get_network wait_for focus")
}

func main() {
	host := flag.String("host", "", "Bind address (overrides config)")
	port := flag.Int("port", 0, "Listen port (overrides config)")
	logLevel := flag.String("log-level", "info", "Set log level (debug|info|warn|error)")
	logFilename := flag.String("log-filename", "", "Log to file instead of stdout")
	flag.Parse()

	logger.SetLevel(*logLevel)
	if *logFilename != "" {
		if err := logger.SetOutputFile(*logFilename); err != nil {
			fmt.Printf("Error setting log file: %v\n", err)
			os.Exit(1)
		}
		defer logger.CloseLogFile()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Error loading config", err)
		os.Exit(1)
	}
	if cfg == nil {
		cfg = &types.Config{}
	}
	state.Init(cfg)

	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		logger.Error("Failed to initialize file operations", err)
		os.Exit(1)
	}
	if err := fileOps.EnsureDirectories(); err != nil {
		logger.Error("Failed to create necessary directories", err)
		os.Exit(1)
	}

	// Check if another instance is running
	if err := fileOps.CheckPID(); err != nil {
		if errors.Is(err, fileops.ErrProcessAlreadyRunning) {
			logger.Error("Another instance of WinBridge is already running", err)
			os.Exit(1)
		}
	}
	if err := fileOps.SavePID(); err != nil {
		logger.Error("Failed to save PID file", err)
		os.Exit(1)
	}

	serverCfg := state.Get().Config.GetServerConfig()
	if *host != "" {
		serverCfg.Host = *host
	}
	if *port != 0 {
		serverCfg.Port = *port
	}
	browserCfg := state.Get().Config.GetBrowserConfig()
	logger.Debugf("preferred browser: %s", state.Get().GetPreferredBrowser())

	launcher := office.NewLauncher()
	reg := registry.New(launcher.Launch)
	windows := winmgr.New(state.Get().Config.GetCaptureConfig())
	chain := capture.NewChain()
	browsers := browser.NewManager(browserCfg)

	srv := server.New(browserCfg, reg, windows, chain, browsers)

	printBanner(serverCfg.Host, serverCfg.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Infof("Received signal %v, shutting down...", sig)
		case <-srv.ShutdownRequested():
			logger.Info("Shutdown requested over HTTP")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown did not complete cleanly", err)
		}
		if err := fileOps.CleanupPID(); err != nil {
			logger.Error("Failed to cleanup PID file", err)
		}
	}()

	if err := srv.Start(serverCfg.Host, serverCfg.Port); err != nil {
		// Shutdown surfaces as http.ErrServerClosed through echo
		logger.Infof("Server stopped: %v", err)
	}
}

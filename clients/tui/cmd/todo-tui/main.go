package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sun1tar/todo-app/clients/tui/internal/config"
	"github.com/sun1tar/todo-app/clients/tui/internal/todoclient"
	"github.com/sun1tar/todo-app/clients/tui/internal/ui"
	"github.com/sun1tar/todo-app/shared/logger"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "todo-tui: %v\n", err)
		os.Exit(2)
	}

	// stdout занят экраном, поэтому лог пишем в файл
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "todo-tui: open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log := logger.New("todo-tui", logFile, cfg.LogLevel)

	client, err := todoclient.New(cfg.APIURL, todoclient.WithLogger(log))
	if err != nil {
		log.WithError(err).Error("failed to create api client")
		fmt.Fprintf(os.Stderr, "todo-tui: %v\n", err)
		os.Exit(1)
	}

	log.WithField("api_url", cfg.APIURL).Info("starting todo-tui")

	p := tea.NewProgram(ui.New(client, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.WithError(err).Error("program exited with error")
		fmt.Fprintf(os.Stderr, "todo-tui: %v\n", err)
		os.Exit(1)
	}
}

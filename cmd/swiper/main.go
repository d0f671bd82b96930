package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"name-swiper/internal/client"
	"name-swiper/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	serverURL := os.Getenv("NAME_SWIPER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	session, err := client.OpenSession()
	if err != nil {
		return err
	}
	if session.ServerURL() != "" && os.Getenv("NAME_SWIPER_URL") == "" {
		serverURL = session.ServerURL()
	}

	c := client.New(serverURL, session.Token())
	app := tui.NewApp(c, session, serverURL)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

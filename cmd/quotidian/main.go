package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sgoyal/quotidian/internal/config"
	"github.com/sgoyal/quotidian/internal/gemini"
	"github.com/sgoyal/quotidian/internal/quotes"
	"github.com/sgoyal/quotidian/internal/tui"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the YAML configuration file")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	quoteEndpoint := flag.String("quote-endpoint", "", "override the random-quote endpoint")
	geminiEndpoint := flag.String("gemini-endpoint", "", "override the generative API base URL")
	geminiModel := flag.String("gemini-model", "", "override the generative model name")
	debug := flag.Bool("debug", false, "log flow activity to quotidian.log")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("failed to load configuration:", err)
		os.Exit(1)
	}
	if *quoteEndpoint != "" {
		settings.Quote.Endpoint = *quoteEndpoint
	}
	if *geminiEndpoint != "" {
		settings.Gemini.Endpoint = *geminiEndpoint
	}
	if *geminiModel != "" {
		settings.Gemini.Model = *geminiModel
	}

	if *debug {
		logFile, err := tea.LogToFile("quotidian.log", "quotidian")
		if err != nil {
			fmt.Println("failed to open log file:", err)
			os.Exit(1)
		}
		defer logFile.Close()
	}

	quoteClient := quotes.New(quotes.Config{
		Endpoint: settings.Quote.Endpoint,
		Retry: quotes.Policy{
			Attempts: settings.Quote.RetryAttempts,
			Delay:    settings.Quote.RetryDelay(),
		},
	})

	var geminiClient gemini.Client
	geminiClient, err = gemini.NewFromEnv(gemini.Config{
		Endpoint: settings.Gemini.Endpoint,
		Model:    settings.Gemini.Model,
		APIKey:   settings.Gemini.APIKey,
	})
	if err != nil {
		// Quote browsing still works; mode keys explain what is missing.
		fmt.Println("elaborations disabled:", err)
	}

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Quotes:       quoteClient,
			Gemini:       geminiClient,
			FetchTimeout: settings.Quote.FetchTimeout(),
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "quotidian.yaml"
	}
	return filepath.Join(home, ".config", "quotidian", "config.yaml")
}

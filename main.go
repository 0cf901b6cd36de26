// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// deskchat - a floating-panel chat workspace for the terminal.
//
// Usage:
//   deskchat                 Start the workspace UI
//   deskchat --plain         Line-mode REPL (no mouse required)
//   deskchat --model NAME    Override the configured model
//   deskchat --config PATH   Use a specific config file
//   deskchat --version       Print the version
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/deskchat-tui/internal/cli"
	"github.com/jeranaias/deskchat-tui/internal/config"
	"github.com/jeranaias/deskchat-tui/internal/openrouter"
	"github.com/jeranaias/deskchat-tui/internal/search"
	"github.com/jeranaias/deskchat-tui/internal/secrets"
	"github.com/jeranaias/deskchat-tui/internal/session"
	"github.com/jeranaias/deskchat-tui/internal/storage"
	"github.com/jeranaias/deskchat-tui/internal/ui/workspace"
)

const version = "0.3.0"

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		configPath  = flag.String("config", "", "path to config file")
		plainMode   = flag.Bool("plain", false, "line-mode REPL instead of the workspace UI")
		modelFlag   = flag.String("model", "", "override the configured model")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("deskchat " + version)
		return
	}

	if err := run(*configPath, *modelFlag, *plainMode); err != nil {
		fmt.Fprintln(os.Stderr, "deskchat: "+err.Error())
		os.Exit(1)
	}
}

func run(configPath, modelOverride string, plainMode bool) error {
	// ==========================================================================
	// CONFIGURATION
	// ==========================================================================

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	config.SetGlobal(cfg)

	// ==========================================================================
	// API KEY
	// ==========================================================================

	apiKey := cfg.API.Key
	if apiKey == "" {
		apiKey, err = keyFromVault()
		if err != nil {
			return err
		}
	}

	client := openrouter.NewClient(apiKey).
		WithBaseURL(cfg.API.BaseURL).
		WithMaxRetries(cfg.API.MaxRetries)
	if modelOverride != "" {
		client.SetModel(modelOverride)
	} else if cfg.API.Model != "" {
		client.SetModel(cfg.API.Model)
	}
	client.SetWebSearch(cfg.API.WebSearch)

	// ==========================================================================
	// STORAGE
	// ==========================================================================

	dataDir, err := cfg.DataDir()
	if err != nil {
		return err
	}
	convStore, err := storage.NewConversationStore(filepath.Join(dataDir, "conversations"))
	if err != nil {
		return err
	}
	notes := storage.NewNoteStore(filepath.Join(dataDir, "notes.json"))
	exports := storage.NewExportStore(filepath.Join(dataDir, "exports"))

	var idx *search.Index
	if cfg.Storage.SearchEnabled {
		idx, err = search.Open(filepath.Join(dataDir, "search.db"))
		if err != nil {
			// Search is an enhancement; run without it.
			fmt.Fprintln(os.Stderr, "deskchat: search disabled: "+err.Error())
			idx = nil
		} else {
			defer idx.Close()
		}
	}

	// ==========================================================================
	// SESSION
	// ==========================================================================

	opts := []session.Option{session.WithSendRate(cfg.API.SendsPerMinute)}
	if idx != nil {
		opts = append(opts, session.WithSearchIndex(idx))
	}
	ctrl := session.NewController(client, convStore, opts...)

	// Hot reload: settings that can change mid-session are pushed to the
	// transport; everything else applies on restart.
	if watchPath, err := config.ConfigPathTOML(); err == nil {
		if w, err := config.NewWatcher(watchPath, func(c *config.Config) {
			client.SetWebSearch(c.API.WebSearch)
		}); err == nil {
			if err := w.Watch(); err == nil {
				defer w.Close()
			}
		}
	}

	// ==========================================================================
	// UI
	// ==========================================================================

	if plainMode || !cli.IsTTY() {
		// SECURITY: the fingerprint identifies which key is loaded
		// without exposing any fragment of it.
		fmt.Fprintf(os.Stderr, "deskchat %s (key %s)\n", version, client.KeyFingerprint())
		return cli.NewREPL(ctrl).Run(context.Background())
	}

	model := workspace.New(workspace.Options{
		Session: ctrl,
		Notes:   notes,
		Exports: exports,
		Index:   idx,
	})

	teaOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		teaOpts = append(teaOpts, tea.WithMouseAllMotion())
	}
	_, err = tea.NewProgram(model, teaOpts...).Run()
	return err
}

// keyFromVault unlocks the secrets vault interactively when no API key
// is configured. A missing vault is not an error: the client starts
// unconfigured and sends fail with a clear message.
func keyFromVault() (string, error) {
	path, err := secrets.DefaultVaultPath()
	if err != nil {
		return "", nil
	}
	vault := secrets.New(path)
	if !vault.Exists() || !term.IsTerminal(int(syscall.Stdin)) {
		return "", nil
	}

	fmt.Fprint(os.Stderr, "Vault password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", nil
	}
	defer secrets.ZeroBytes(password)

	if err := vault.Unlock(string(password)); err != nil {
		return "", fmt.Errorf("could not unlock vault: %w", err)
	}
	defer vault.Lock()

	key, err := vault.APIKey()
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(key), nil
}

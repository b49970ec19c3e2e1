// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/api"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/config"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/storage"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/styles"
)

// Run starts the TUI with cfg and blocks until the user quits. Log output
// goes to cfg.Log.File so it does not corrupt the screen.
func Run(cfg *config.Config) error {
	log.SetOutput(io.Discard)
	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0755); err == nil {
			if f, err := tea.LogToFile(cfg.Log.File, "cryptodesk"); err == nil {
				defer f.Close()
			}
		}
	}

	client := api.NewClient(cfg.ClientConfig())
	opts := []Option{
		WithTheme(styles.NewTheme(cfg.UI.Theme)),
		WithAlgorithm(cfg.Algorithm()),
		WithStartPage(cfg.UI.DefaultPage),
		WithBaseURL(client.BaseURL()),
	}

	store, err := storage.OpenCertificateStore(cfg.Export.CertificateDir, cfg.Export.LedgerPath)
	if err != nil {
		log.Printf("certificate export disabled: %v", err)
	} else {
		defer store.Close()
		opts = append(opts, WithExporter(store))
	}

	m := New(client, opts...)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if path, err := config.ActivePath(); err == nil {
		w, err := config.NewWatcher(path, config.DefaultWatchDebounce, func(c *config.Config, err error) {
			p.Send(ConfigReloadedMsg{Config: c, Err: err})
		})
		if err == nil {
			if err := w.Watch(); err != nil {
				log.Printf("config watch disabled: %v", err)
			}
			defer w.Close()
		}
	}

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	}
	if err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

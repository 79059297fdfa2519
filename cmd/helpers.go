package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ziadkadry99/docshell/internal/config"
	"github.com/ziadkadry99/docshell/internal/content"
	"github.com/ziadkadry99/docshell/internal/languages"
	"github.com/ziadkadry99/docshell/internal/page"
	"github.com/ziadkadry99/docshell/internal/shell"
	"github.com/ziadkadry99/docshell/internal/theme"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docshell init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// site is everything needed to render pages.
type site struct {
	registry *languages.Registry
	library  *content.Library
	docs     *content.DocPage
	shell    *shell.Shell
}

// buildSite loads the language registry and content tree named by cfg.
func buildSite(cfg *config.Config, logger *slog.Logger) (*site, error) {
	var (
		registry *languages.Registry
		err      error
	)
	if cfg.LanguagesFile != "" {
		registry, err = languages.LoadRegistry(cfg.LanguagesFile, cfg.DefaultLocale)
	} else {
		registry, err = languages.NewRegistry(languages.DefaultRecords(), cfg.DefaultLocale)
	}
	if err != nil {
		return nil, fmt.Errorf("loading languages: %w", err)
	}

	library, err := content.Load(os.DirFS(cfg.ContentDir), content.Options{
		Versions:       pageVersions(cfg),
		DefaultVersion: cfg.DefaultVersion,
		FallbackLocale: registry.Fallback(),
	})
	if err != nil {
		return nil, fmt.Errorf("loading content from %s: %w", cfg.ContentDir, err)
	}

	return &site{
		registry: registry,
		library:  library,
		docs:     content.NewDocPage(library, registry),
		shell: shell.New(shell.Options{
			StagingHeader: cfg.StagingHeader,
			Theme:         theme.CookieResolver{},
			NotFound:      content.NotFoundPage{},
			Logger:        logger,
		}),
	}, nil
}

func pageVersions(cfg *config.Config) []page.Version {
	out := make([]page.Version, 0, len(cfg.Versions))
	for _, v := range cfg.Versions {
		out = append(out, page.Version{Version: v.ID, VersionTitle: v.Title, Plan: v.Plan})
	}
	return out
}

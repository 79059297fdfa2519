package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// DefaultConfigPath is where the wizard writes its result.
const DefaultConfigPath = ".docshell.yml"

// localeChoices are offered by the wizard for the fallback locale.
var localeChoices = []string{"en", "es", "ja", "pt", "zh", "ru", "fr", "de", "ko"}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .docshell.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to docshell! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Content directory.
	contentPrompt := promptui.Prompt{
		Label:   "Content directory (markdown, one subdirectory per language)",
		Default: cfg.ContentDir,
	}
	contentDir, err := contentPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	cfg.ContentDir = contentDir
	if _, statErr := os.Stat(contentDir); os.IsNotExist(statErr) {
		fmt.Printf("Note: %s does not exist yet; create it before running docshell serve.\n", contentDir)
	}

	// 2. Fallback locale.
	localePrompt := promptui.Select{
		Label: "Select the default locale",
		Items: localeChoices,
	}
	_, locale, err := localePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("locale selection: %w", err)
	}
	cfg.DefaultLocale = locale

	// 3. Default version.
	versionItems := make([]string, len(cfg.Versions))
	for i, v := range cfg.Versions {
		versionItems[i] = v.ID
	}
	versionPrompt := promptui.Select{
		Label: "Select the default documentation version",
		Items: versionItems,
	}
	_, version, err := versionPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("version selection: %w", err)
	}
	cfg.DefaultVersion = version

	// 4. Port.
	portPrompt := promptui.Prompt{
		Label:    "Port to listen on",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	if err := cfg.Save(DefaultConfigPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultConfigPath)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

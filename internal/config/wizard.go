package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to pagecraft! Let's configure your workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Storage backend.
	driverPrompt := promptui.Select{
		Label: "Select project storage",
		Items: []string{
			"sqlite - single file, no setup",
			"mongo  - shared MongoDB deployment",
		},
	}
	driverIdx, _, err := driverPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("storage selection: %w", err)
	}

	if driverIdx == 0 {
		cfg.Storage.Driver = DriverSQLite
		pathPrompt := promptui.Prompt{
			Label:   "SQLite database path",
			Default: cfg.Storage.SQLitePath,
		}
		if cfg.Storage.SQLitePath, err = pathPrompt.Run(); err != nil {
			return nil, fmt.Errorf("sqlite path: %w", err)
		}
	} else {
		cfg.Storage.Driver = DriverMongo
		uriPrompt := promptui.Prompt{
			Label:   "MongoDB connection URI",
			Default: "mongodb://localhost:27017",
		}
		if cfg.Storage.MongoURI, err = uriPrompt.Run(); err != nil {
			return nil, fmt.Errorf("mongo uri: %w", err)
		}
		dbPrompt := promptui.Prompt{
			Label:   "MongoDB database",
			Default: cfg.Storage.MongoDatabase,
		}
		if cfg.Storage.MongoDatabase, err = dbPrompt.Run(); err != nil {
			return nil, fmt.Errorf("mongo database: %w", err)
		}
	}

	// 2. Server port.
	portPrompt := promptui.Prompt{
		Label:    "Server port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 3. Undo depth.
	limitPrompt := promptui.Prompt{
		Label:    "Undo history depth",
		Default:  strconv.Itoa(cfg.History.Limit),
		Validate: validatePositive,
	}
	limitStr, err := limitPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("history limit: %w", err)
	}
	cfg.History.Limit, _ = strconv.Atoi(limitStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("enter a port between 1 and 65535")
	}
	return nil
}

func validatePositive(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

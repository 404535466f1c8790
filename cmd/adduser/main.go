package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"expense-ledger/internal/auth"
	"expense-ledger/internal/config"
	"expense-ledger/internal/logging"
	"expense-ledger/internal/prompt"
	"expense-ledger/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	dbPath := fs.String("db", "", "Path to database file (default from config, then "+config.DefaultDBPath+")")
	configPath := fs.String("config", "", "Path to YAML config file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> [-password <password>] [-db <db_path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := logging.Setup(stderr, cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	password := *passwordFlag
	if password == "" {
		password, err = prompt.Password(stdin, stdout, "Password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if err := auth.ValidatePassword(password); err != nil {
		return err
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	creds := db.Credentials()

	// Check if user already exists
	unique, err := creds.IsUsernameUnique(*username)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if !unique {
		return fmt.Errorf("user %s already exists", *username)
	}

	if err := creds.AddUser(*username, password); err != nil {
		if errors.Is(err, storage.ErrDuplicateUsername) {
			return fmt.Errorf("user %s already exists", *username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user, err := creds.GetUser(*username)
	if err != nil {
		return fmt.Errorf("failed to read back user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Username, user.ID)
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"reeltalk/app/repositories"
	"reeltalk/app/services"
	"reeltalk/config"
)

// HandleCommand runs one CLI subcommand and returns an exit code. args[0] is
// the command, the rest are its positional arguments.
func HandleCommand(cfg config.Config, args []string) int {
	if len(args) < 1 {
		PrintHelp()
		osExit(1)
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := RunAppServer(ctx, cfg); err != nil {
			fmt.Printf("Server error: %v\n", err)
			return 1
		}
		return 0
	case "clean":
		return clean(cfg)
	case "init":
		return initDb(cfg)
	case "backup":
		return backup(cfg)
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			osExit(1)
			return 1
		}
		return restore(cfg, args[1])
	case "promote":
		if len(args) < 2 {
			fmt.Println("Error: email required for promote")
			osExit(1)
			return 1
		}
		return promote(cfg, args[1])
	case "help":
		PrintHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		PrintHelp()
		osExit(1)
		return 1
	}
}

// PrintHelp prints usage for every command.
func PrintHelp() {
	helpText := `Usage: reeltalk <command> [options] [arguments]

Commands:
  serve                 Run the blog
  init                  Create the database and apply migrations
  clean                 Delete the database and the session store
  backup                Snapshot the database and the session store
  restore <file>        Restore a .db snapshot or a session store backup
  promote <email>       Grant admin rights to a registered user
  version               Show version information
  help                  Display this help message

Options:
  -p <port>             Server port (PORT, default 5000)
  -db <file>            SQLite database file (REELTALK_DB)
  -sessions <dir>       Session store directory (REELTALK_SESSION_DIR)
  -backups <dir>        Backup directory (REELTALK_BACKUP_DIR)
  -max-age <seconds>    Session lifetime (SESSION_MAX_AGE)
  -log-level <level>    debug, info, notice, warn or error (REELTALK_LOG_LEVEL)
  -debug                Debug mode, allows running without SESSION_SECRET
`
	fmt.Println(helpText)
}

// initDb creates the database file and brings its schema up to date.
func initDb(cfg config.Config) int {
	repo, err := repositories.NewRepository(context.Background(), cfg.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		return 1
	}
	defer repo.Close()

	fmt.Printf("Database initialized at %s\n", cfg.DatabasePath)
	return 0
}

// clean removes the database and the session store.
func clean(cfg config.Config) int {
	if !exists(cfg.DatabasePath) && !exists(cfg.SessionDir) {
		fmt.Println("Database is already clean (does not exist)")
		return 0
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Println("Operation cancelled")
		return 0
	}

	if err := removeDatabase(cfg.DatabasePath); err != nil {
		fmt.Printf("Failed to clean database: %v\n", err)
		return 1
	}
	if err := os.RemoveAll(cfg.SessionDir); err != nil {
		fmt.Printf("Failed to clean session store: %v\n", err)
		return 1
	}
	fmt.Println("Database cleaned successfully")
	return 0
}

// backup writes a consistent SQLite snapshot and, when a session store
// exists, a badger backup of it.
func backup(cfg config.Config) int {
	if !exists(cfg.DatabasePath) {
		fmt.Println("No database exists to backup")
		return 1
	}
	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		fmt.Printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	stamp := time.Now().Unix()
	ctx := context.Background()

	repo, err := repositories.NewRepository(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer repo.Close()

	dbFile := filepath.Join(cfg.BackupDir, fmt.Sprintf("reeltalk_%d.db", stamp))
	if _, err := repo.DB().ExecContext(ctx, `VACUUM INTO ?`, dbFile); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return 1
	}
	fmt.Printf("Database backed up successfully to %s\n", dbFile)

	if !exists(cfg.SessionDir) {
		return 0
	}
	sessionFile := filepath.Join(cfg.BackupDir, fmt.Sprintf("sessions_%d.bak", stamp))
	if err := backupSessions(cfg.SessionDir, sessionFile); err != nil {
		fmt.Printf("Failed to backup session store: %v\n", err)
		return 1
	}
	fmt.Printf("Session store backed up successfully to %s\n", sessionFile)
	return 0
}

func backupSessions(dir, file string) error {
	db, err := openSessionStore(dir)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		return err
	}
	return f.Sync()
}

// restore replaces the database with a .db snapshot, or the session store
// with a badger backup.
func restore(cfg config.Config, backupFile string) int {
	fi, err := os.Stat(backupFile)
	if err != nil {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	if strings.EqualFold(filepath.Ext(backupFile), ".db") {
		return restoreDatabase(cfg, backupFile)
	}
	return restoreSessions(cfg, backupFile)
}

func restoreDatabase(cfg config.Config, backupFile string) int {
	if exists(cfg.DatabasePath) {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := removeDatabase(cfg.DatabasePath); err != nil {
			fmt.Printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		fmt.Printf("Failed to create database directory: %v\n", err)
		return 1
	}
	if err := copyFile(cfg.DatabasePath, backupFile); err != nil {
		fmt.Printf("Failed to restore database: %v\n", err)
		return 1
	}

	// Opening migrates snapshots taken before the latest schema change.
	repo, err := repositories.NewRepository(context.Background(), cfg.DatabasePath)
	if err != nil {
		fmt.Printf("Restored file is not a usable database: %v\n", err)
		return 1
	}
	repo.Close()

	fmt.Println("Database restored successfully")
	return 0
}

func restoreSessions(cfg config.Config, backupFile string) int {
	if exists(cfg.SessionDir) {
		if !confirm("Existing session store found. Do you want to replace it?") {
			fmt.Println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(cfg.SessionDir); err != nil {
			fmt.Printf("Failed to remove existing session store: %v\n", err)
			return 1
		}
	}

	db, err := openSessionStore(cfg.SessionDir)
	if err != nil {
		fmt.Printf("Failed to open session store: %v\n", err)
		return 1
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		fmt.Printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return db.Load(f, 4)
	}()
	if err != nil {
		fmt.Printf("Failed to restore session store: %v\n", err)
		return 1
	}

	fmt.Println("Session store restored successfully")
	return 0
}

// promote grants admin rights. No route does this.
func promote(cfg config.Config, email string) int {
	repo, err := repositories.NewRepository(context.Background(), cfg.DatabasePath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer repo.Close()

	err = services.NewUserService(repo.Users).Promote(context.Background(), email)
	if errors.Is(err, repositories.ErrNotFound) {
		fmt.Printf("No user registered with email %s\n", email)
		return 1
	}
	if err != nil {
		fmt.Printf("Failed to promote user: %v\n", err)
		return 1
	}
	fmt.Printf("%s is now an administrator\n", email)
	return 0
}

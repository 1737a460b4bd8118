package main

import (
	"fmt"
	"os"
	"strings"

	medtrack "github.com/unowned-ai/medtrack/pkg"
	pkgdb "github.com/unowned-ai/medtrack/pkg/db"
	"github.com/unowned-ai/medtrack/pkg/utils"

	"github.com/spf13/cobra"
)

// Persistent flags. Empty or unchanged values leave the MEDTRACK_* settings in place.
var (
	dbPath     string
	walMode    bool
	syncMode   string
	localeFlag string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:     "medtrack",
	Short:   "Track daily medications and events on an infinite calendar.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", medtrack.Version),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for medtrack.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(medtrack completion bash)

  Bash (persist):
    $ medtrack completion bash > /etc/bash_completion.d/medtrack

  Zsh:
    $ medtrack completion zsh > "${fpath[1]}/_medtrack"

  Fish:
    $ medtrack completion fish | source
    $ medtrack completion fish > ~/.config/fish/completions/medtrack.fish

  PowerShell:
    PS> medtrack completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of medtrack",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(medtrack.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the medtrack database",
	Long:  `Provides commands for managing the medtrack SQLite database, including schema upgrades.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the medtrack database schema to the latest version",
	Long: `Connects to the SQLite database (the --db flag, MEDTRACK_DB_PATH or the system default)
and applies any necessary schema migrations. A database that does not exist yet is created
and initialized with the latest schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		path, err := utils.ResolveAndEnsureDBPath(cfg.DBPath)
		if err != nil {
			return err
		}
		fmt.Printf("Upgrading database at: %s (WAL: %t, Sync: %s)\n", path, cfg.WAL, cfg.Sync)

		dbConn, err := pkgdb.OpenDBConnection(path, cfg.WAL, cfg.Sync)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion, log)
	},
}

func initCmd() {
	// Define persistent flags on rootCmd so all commands can use them
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (uses MEDTRACK_DB_PATH or a system-specific default if not provided)")
	rootCmd.PersistentFlags().BoolVar(&walMode, "wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode")
	rootCmd.PersistentFlags().StringVar(&syncMode, "sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")
	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "UI language (it, en)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	dbCmd.AddCommand(dbUpgradeCmd)

	initMedsCmd()
	initEventsCmd()
	initDayCmd()
	initExportCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, medsCmd, eventsCmd, dayCmd, calendarCmd, exportCmd, mcpCmd, tuiCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

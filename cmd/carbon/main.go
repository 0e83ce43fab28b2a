package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries state shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	in      io.Reader
	logOut  io.Writer
	cfgFile string
}

func newApp() *app {
	return &app{
		v:      viper.New(),
		in:     os.Stdin,
		logOut: os.Stderr,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "carbon",
		Short: "🌿 Personal carbon budget tracker",
		Long: `carbon: track the CO₂ emissions of everyday activities against a weekly
or monthly budget.

Every activity is converted to kg CO2e with a fixed emission factor and only
logged when it fits in what is left of your budget.`,
		PersistentPreRunE: a.initConfig,
		SilenceUsage:      true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/carbon/config.yaml)")
	flags.StringP("account", "a", "", "account name")
	flags.String("db", "", "database path (default: "+config.DefaultDatabasePath+")")
	flags.String("history-dir", "", "directory for <account>_carbon_history.txt reports")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")

	_ = a.v.BindPFlag(config.KeyAccountName, flags.Lookup("account"))
	_ = a.v.BindPFlag(config.KeyDatabasePath, flags.Lookup("db"))
	_ = a.v.BindPFlag(config.KeyHistoryDir, flags.Lookup("history-dir"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))

	rootCmd.AddCommand(a.logCmd())
	rootCmd.AddCommand(a.budgetCmd())
	rootCmd.AddCommand(a.summaryCmd())
	rootCmd.AddCommand(a.historyCmd())
	rootCmd.AddCommand(a.reportCmd())
	rootCmd.AddCommand(a.accountsCmd())
	rootCmd.AddCommand(a.importCmd())
	rootCmd.AddCommand(a.interactiveCmd())
	rootCmd.AddCommand(a.tuiCmd())
	rootCmd.AddCommand(a.migrateCmd())
	rootCmd.AddCommand(a.checkpointCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd(newApp()).ExecuteContext(ctx)
	cancel()

	if err != nil {
		var userErr *common.UserError
		if errors.As(err, &userErr) {
			fmt.Fprintln(os.Stderr, userErr.UserMessage)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		a.v.AddConfigPath(fmt.Sprintf("%s/.config/carbon", home))
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	// CARBON_ACCOUNT_NAME, CARBON_DATABASE_PATH, ...
	a.v.SetEnvPrefix("CARBON")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := a.setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

func (a *app) setupLogging() error {
	level, err := common.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	return common.SetupLogger(a.logOut, level, a.cfg.LogFormat)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "carbon version %s\n", version)
		},
	}
}

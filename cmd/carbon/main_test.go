package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/carbon-budget/internal/common"
	"github.com/Veraticus/carbon-budget/internal/report"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	dbPath     string
	historyDir string
	dir        string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, key := range []string{"CARBON_ACCOUNT_NAME", "CARBON_DATABASE_PATH", "CARBON_HISTORY_DIR", "CARBON_BUDGET_DEFAULT_PERIOD"} {
		t.Setenv(key, "")
	}
	return testEnv{
		dir:        dir,
		dbPath:     filepath.Join(dir, "carbon.db"),
		historyDir: filepath.Join(dir, "history"),
	}
}

// run executes the root command with the environment's storage flags.
func (e testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	a := newApp()
	a.in = strings.NewReader(stdin)
	a.logOut = io.Discard

	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--db", e.dbPath, "--history-dir", e.historyDir))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func findCommand(root *cobra.Command, name string) *cobra.Command {
	for _, sub := range root.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}

func TestRootCmd_Structure(t *testing.T) {
	root := newRootCmd(newApp())

	for _, name := range []string{
		"log", "budget", "summary", "history", "report", "accounts",
		"import", "interactive", "tui", "migrate", "checkpoint", "categories", "version",
	} {
		assert.NotNil(t, findCommand(root, name), "missing %s command", name)
	}

	for _, flag := range []string{"config", "account", "db", "history-dir", "log-level", "log-format"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing --%s flag", flag)
	}

	budget := findCommand(root, "budget")
	require.NotNil(t, budget)
	for _, name := range []string{"set", "reset", "show"} {
		assert.NotNil(t, findCommand(budget, name), "missing budget %s", name)
	}
	set := findCommand(budget, "set")
	require.NotNil(t, set)
	assert.NotNil(t, set.Flags().Lookup("period"))
}

func TestLog_RequiresBudget(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "log", "CAR", "10", "--account", "alice")
	require.Error(t, err)

	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.UserMessage, "carbon budget set")
	assert.ErrorIs(t, err, common.ErrNoBudget)
}

func TestLog_ValidatesArguments(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"unknown category", []string{"log", "BOGUS", "1", "--account", "alice"}, "unknown category"},
		{"negative quantity", []string{"log", "CAR", "-1", "--account", "alice"}, "quantity must be greater than zero"},
		{"non-numeric quantity", []string{"log", "CAR", "ten", "--account", "alice"}, "invalid quantity"},
		{"no account", []string{"log", "CAR", "1"}, "no account selected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestBudgetAndLogFlow(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "budget", "set", "100", "--period", "week", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Budget set: 100.0 kg CO₂ per Week")

	out, err = env.run(t, "", "log", "CAR", "100", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged")
	assert.Contains(t, out, "Remaining budget: 79.0 kg CO₂")

	// A rejection is reported but is not a command failure.
	out, err = env.run(t, "", "log", "FLIGHT_LONG", "1000", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "cannot log this activity")

	out, err = env.run(t, "", "budget", "show", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Week budget")
	assert.Contains(t, out, "Period:    7 days")
	assert.Contains(t, out, "Remaining: 79.0 kg CO₂")

	out, err = env.run(t, "", "summary", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Carbon summary for alice")
	assert.Contains(t, out, "Activities (1)")
	assert.Contains(t, out, "History saved.")

	data, err := os.ReadFile(filepath.Join(env.historyDir, report.FileName("alice")))
	require.NoError(t, err)
	assert.Contains(t, string(data), "CAR")

	out, err = env.run(t, "", "history", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "CAR")
	assert.NotContains(t, out, "FLIGHT_LONG")

	out, err = env.run(t, "", "budget", "reset", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Budget reset. Remaining: 100.0 kg CO₂")

	out, err = env.run(t, "", "accounts")
	require.NoError(t, err)
	assert.Equal(t, "alice\n", out)
}

func TestBudgetSet_Validation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "budget", "set", "0", "--account", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "budget amount must be greater than zero")

	_, err = env.run(t, "", "budget", "set", "10", "--period", "YEAR", "--account", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid period")
}

func TestSummary_NoSave(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "budget", "set", "50", "--account", "bob")
	require.NoError(t, err)

	out, err := env.run(t, "", "summary", "--no-save", "--account", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "No activities logged.")
	assert.NotContains(t, out, "History saved.")

	_, err = os.Stat(filepath.Join(env.historyDir, report.FileName("bob")))
	assert.True(t, os.IsNotExist(err))
}

func TestReport_WritesFile(t *testing.T) {
	env := newTestEnv(t)
	outDir := filepath.Join(env.dir, "reports")

	_, err := env.run(t, "", "budget", "set", "20", "--period", "MONTH", "--account", "bob")
	require.NoError(t, err)

	out, err := env.run(t, "", "report", "--output", outDir, "--account", "bob")
	require.NoError(t, err)

	path := filepath.Join(outDir, report.FileName("bob"))
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestReport_PDFFormat(t *testing.T) {
	env := newTestEnv(t)
	outDir := filepath.Join(env.dir, "reports")

	_, err := env.run(t, "", "budget", "set", "20", "--account", "bob")
	require.NoError(t, err)
	_, err = env.run(t, "", "log", "TRAIN", "30", "--account", "bob")
	require.NoError(t, err)

	out, err := env.run(t, "", "report", "-o", outDir, "--format", "pdf", "--account", "bob")
	require.NoError(t, err)

	path := filepath.Join(outDir, "bob_carbon_history.pdf")
	assert.Contains(t, out, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))

	_, err = env.run(t, "", "report", "--format", "docx", "--account", "bob")
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.UserMessage, "unknown report format")
}

func TestHistory_Filters(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "budget", "set", "100", "--account", "alice")
	require.NoError(t, err)
	_, err = env.run(t, "", "log", "BUS", "10", "--account", "alice")
	require.NoError(t, err)
	_, err = env.run(t, "", "log", "MEAL_VEGAN", "1", "--account", "alice")
	require.NoError(t, err)

	out, err := env.run(t, "", "history", "--category", "MEAL_VEGAN", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "MEAL_VEGAN")
	assert.NotContains(t, out, "BUS")

	out, err = env.run(t, "", "history", "--since", "2999-01-01", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "No activities found.")

	_, err = env.run(t, "", "history", "--since", "yesterday", "--account", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --since date")
}

func TestHistory_ShareThresholdAndDetail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "budget", "set", "100", "--account", "alice")
	require.NoError(t, err)
	_, err = env.run(t, "", "log", "BUS", "10", "--account", "alice")
	require.NoError(t, err)
	_, err = env.run(t, "", "log", "MEAL_VEGAN", "1", "--account", "alice")
	require.NoError(t, err)

	out, err := env.run(t, "", "history", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "SHARE")
	assert.Contains(t, out, "54.5%")
	assert.Contains(t, out, "45.5%")
	assert.Contains(t, out, "Showing 2 of 2 activities")

	out, err = env.run(t, "", "history", "--over", "1", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "BUS")
	assert.NotContains(t, out, "MEAL_VEGAN", "1.0 kg is not above the threshold")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "Showing 1 of 2 activities")

	out, err = env.run(t, "", "history", "--detail", "--category", "BUS", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Emission transaction details")
	assert.Contains(t, out, "Factor:     0.120 kg CO2e per km")
	assert.NotContains(t, out, "SHARE")

	_, err = env.run(t, "", "history", "--over=-2", "--account", "alice")
	var userErr *common.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.UserMessage, "invalid --over")
}

func TestImport(t *testing.T) {
	env := newTestEnv(t)
	csvPath := filepath.Join(env.dir, "week.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("category,quantity\nCAR,10\nBOGUS,1\nMEAL_MEAT,100\n"), 0o600))

	_, err := env.run(t, "", "import", csvPath, "--account", "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoBudget)

	_, err = env.run(t, "", "budget", "set", "100", "--account", "alice")
	require.NoError(t, err)

	out, err := env.run(t, "", "import", csvPath, "--no-progress", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped line 3")
	assert.Contains(t, out, "Logged 1 activities (2.1 kg CO₂)")
	assert.Contains(t, out, "Rejected 1 activities")
	assert.Contains(t, out, "Remaining budget: 97.9 kg CO₂")

	_, err = env.run(t, "", "import", filepath.Join(env.dir, "missing.csv"), "--account", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot open")
}

func TestInteractive(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "50\nMONTH\n1\nTRAIN\n20\n4\n", "interactive", "--account", "carol")
	require.NoError(t, err)
	assert.Contains(t, out, "No budget configured yet.")
	assert.Contains(t, out, "Budget set successfully!")
	assert.Contains(t, out, "Remaining budget: 48.0 kg CO₂")
	assert.Contains(t, out, "Goodbye!")

	// The session's activity was stored.
	out, err = env.run(t, "", "history", "--account", "carol")
	require.NoError(t, err)
	assert.Contains(t, out, "TRAIN")

	// Input ending early is a normal exit.
	out, err = env.run(t, "", "interactive", "--account", "carol")
	require.NoError(t, err)
	assert.Contains(t, out, "Goodbye!")
}

func TestTUI_UnknownTheme(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "tui", "--theme", "neon", "--account", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown theme")
}

func TestMigrate_Status(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 0")
	assert.Contains(t, out, "Pending migrations")

	out, err = env.run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "completed successfully")

	out, err = env.run(t, "", "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 2")
	assert.NotContains(t, out, "Pending migrations")
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "MEAL_MEAT")
	assert.Contains(t, out, "kg CO₂ per meal")
	assert.Contains(t, out, "0.21")
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "carbon version dev\n", out)
}

func TestConfigFile(t *testing.T) {
	env := newTestEnv(t)
	cfgPath := filepath.Join(env.dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("account:\n  name: dave\nbudget:\n  default_period: MONTH\n"), 0o600))

	out, err := env.run(t, "", "budget", "set", "30", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "per Month")

	out, err = env.run(t, "", "accounts")
	require.NoError(t, err)
	assert.Equal(t, "dave\n", out)
}

func TestConfig_InvalidLogLevel(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "version", "--log-level", "loud")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestAccounts_Empty(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "accounts")
	require.NoError(t, err)
	assert.Contains(t, out, "No accounts yet.")
}

func TestCheckpoint_RoundTrip(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "budget", "set", "100", "--account", "alice")
	require.NoError(t, err)

	out, err := env.run(t, "", "checkpoint", "create", "clean", "-d", "before logging")
	require.NoError(t, err)
	assert.Contains(t, out, "Checkpoint clean created (1 accounts, 0 activities)")

	_, err = env.run(t, "", "checkpoint", "create", "clean")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = env.run(t, "", "log", "CAR", "100", "--account", "alice")
	require.NoError(t, err)

	// Reset takes an automatic checkpoint first.
	_, err = env.run(t, "", "budget", "reset", "--account", "alice")
	require.NoError(t, err)

	out, err = env.run(t, "", "checkpoint", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "clean")
	assert.Contains(t, out, "before logging")
	assert.Contains(t, out, "auto-budget-reset-")

	out, err = env.run(t, "", "checkpoint", "restore", "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored checkpoint clean")

	out, err = env.run(t, "", "history", "--account", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "No activities found.")

	out, err = env.run(t, "", "checkpoint", "delete", "clean")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted checkpoint clean")

	_, err = env.run(t, "", "checkpoint", "restore", "clean")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestBudgetReset_NoCheckpoint(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "budget", "reset", "--account", "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoBudget)

	_, err = env.run(t, "", "budget", "set", "10", "--account", "alice")
	require.NoError(t, err)
	_, err = env.run(t, "", "budget", "reset", "--no-checkpoint", "--account", "alice")
	require.NoError(t, err)

	out, err := env.run(t, "", "checkpoint", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No checkpoints yet.")
}

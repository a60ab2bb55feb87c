package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// bindEnvVars binds a STORYSORT_<FLAG> environment variable to every flag of
// cmd and its subcommands, e.g. "log-level" reads $STORYSORT_LOG_LEVEL and
// "addr" on serve-mcp reads $STORYSORT_ADDR.
//
// Flags sharing a name across commands share a variable, so $STORYSORT_WATCH
// turns on --watch for sort, browse and serve-mcp alike.
//
// Command line arguments win over the environment, which wins over defaults.
// The variable name is appended to each flag's usage.
func bindEnvVars(cmd *cobra.Command) {
	bind := func(flag *pflag.Flag) {
		bindFlagToEnv(cmd.CommandPath(), flag)
	}

	cmd.Flags().VisitAll(bind)
	cmd.PersistentFlags().VisitAll(bind)

	for _, sub := range cmd.Commands() {
		bindEnvVars(sub)
	}
}

func bindFlagToEnv(cmdPath string, flag *pflag.Flag) {
	envName := flagToEnvName(flag.Name)

	if !strings.Contains(flag.Usage, envName) {
		flag.Usage = fmt.Sprintf("%s ($%s)", flag.Usage, envName)
	}

	if flag.Changed {
		return
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok {
		return
	}

	err := flag.Value.Set(envValue)
	if err != nil {
		// Keep the default; the flag still validates its value when parsed.
		slog.Error("ignoring environment variable",
			slog.String("command", cmdPath),
			slog.String("flag", flag.Name),
			slog.String("env", envName),
			slog.String("value", envValue),
			slog.Any("error", err),
		)
	}
}

// flagToEnvName returns the environment variable for flagName,
// e.g. "log-level" -> "STORYSORT_LOG_LEVEL".
func flagToEnvName(flagName string) string {
	return strings.ToUpper(cmdName + "_" + strings.ReplaceAll(flagName, "-", "_"))
}

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// ConfigEditor reads and writes persisted configuration keys.
type ConfigEditor interface {
	Get(key string) (any, bool)
	Set(key string, value any) error
	Keys() []string
	Path() string
}

var configEditor ConfigEditor

// SetConfigEditor injects the configuration store.
func SetConfigEditor(e ConfigEditor) {
	configEditor = e
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write configuration",
	Long: `Read and write keys in the configuration file. Keys use dot notation,
e.g. embedding.primary_url or retrieval.top_k.

Every key can also be set through the environment as MEDRAG_ plus the
upper-cased key with dots replaced by underscores.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value, or all values",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Numbers and booleans are stored typed;
a comma-separated value is stored as a list for emergency.keywords.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configEditor == nil {
		return errors.New("config store not configured")
	}

	if len(args) == 1 {
		val, ok := configEditor.Get(args[0])
		if !ok {
			return fmt.Errorf("key %q is not set", args[0])
		}
		cmd.Println(formatValue(args[0], val))
		return nil
	}

	keys := configEditor.Keys()
	if len(keys) == 0 {
		cmd.Println("No configuration set.")
		return nil
	}
	for _, key := range keys {
		val, _ := configEditor.Get(key)
		cmd.Printf("%s = %s\n", key, formatValue(key, val))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configEditor == nil {
		return errors.New("config store not configured")
	}

	key, value := args[0], parseValue(args[0], args[1])
	if err := configEditor.Set(key, value); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	cmd.Printf("%s = %s\n", key, formatValue(key, value))
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if configEditor == nil {
		return errors.New("config store not configured")
	}
	cmd.Println(configEditor.Path())
	return nil
}

// parseValue types a command-line value: lists for keyword keys, then
// integers, floats and booleans, falling back to the raw string.
func parseValue(key, raw string) any {
	if strings.HasSuffix(key, ".keywords") {
		var out []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}

// formatValue prints a value, masking secrets.
func formatValue(key string, val any) string {
	if isSecretKey(key) {
		if s, ok := val.(string); ok && s != "" {
			return maskSecret(s)
		}
	}
	return fmt.Sprintf("%v", val)
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, "api_key") || strings.HasSuffix(key, "token")
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}

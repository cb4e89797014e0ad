package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check embedding services and agents",
	Long: `Report which embedding strategies and agents are configured and whether
they respond. Token-authenticated services are checked with --token.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if healthService == nil {
		return errors.New("health service not configured")
	}

	statuses := healthService.Check(commandContext(cmd), identity.UserToken)
	if healthJSON {
		return printJSON(cmd, statuses)
	}

	for _, s := range statuses {
		var state string
		switch {
		case !s.Configured:
			state = styled(cmd, mutedStyle, "not configured")
		case s.Healthy:
			state = styled(cmd, successStyle, "ok")
		default:
			state = styled(cmd, warningStyle, "unhealthy")
		}
		cmd.Printf("  %-20s %s\n", s.Name, state)
		if s.Error != "" {
			cmd.Printf("  %-20s %s\n", "", styled(cmd, mutedStyle, s.Error))
		}
	}
	return nil
}

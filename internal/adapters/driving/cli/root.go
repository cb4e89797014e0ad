// Package cli implements the medrag command line with cobra.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medrag/internal/core/ports/driving"
	"github.com/custodia-labs/medrag/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// Services are the core ports the commands drive.
type Services struct {
	Upload       driving.UploadService
	Consultation driving.ConsultationService
	Document     driving.DocumentService
	Health       driving.HealthService
}

// Identity is the caller every command acts as.
type Identity struct {
	UserID    string
	UserToken string
}

var (
	uploadService       driving.UploadService
	consultationService driving.ConsultationService
	documentService     driving.DocumentService
	healthService       driving.HealthService

	identity Identity
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "medrag",
	Short: "Medical document consultation with retrieval-augmented answers",
	Long: `medrag ingests medical documents (PDF, DOCX, text), embeds them, and
answers questions grounded in what you uploaded.

Questions that mention emergency symptoms are answered with emergency
guidance before any retrieval or model call happens.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&identity.UserID, "user", "", "user id to act as")
	rootCmd.PersistentFlags().StringVar(&identity.UserToken, "token", "", "session token for token-authenticated services")
}

// SetServices injects the core services.
func SetServices(s Services) {
	uploadService = s.Upload
	consultationService = s.Consultation
	documentService = s.Document
	healthService = s.Health
}

// SetIdentity sets the default identity. --user and --token override it.
func SetIdentity(id Identity) {
	if identity.UserID == "" {
		identity.UserID = id.UserID
	}
	if identity.UserToken == "" {
		identity.UserToken = id.UserToken
	}
}

// SetVersion sets the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Command output goes to stdout so it can be piped.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

// currentUser returns the acting user id, defaulting to "local".
func currentUser() string {
	if identity.UserID == "" {
		return "local"
	}
	return identity.UserID
}

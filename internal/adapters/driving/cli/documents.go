package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage uploaded documents",
	Long:    `List, rename, tag and delete the documents you have uploaded.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentsList,
}

var documentsRenameCmd = &cobra.Command{
	Use:   "rename [document-id] [filename]",
	Short: "Change a document's display name",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocumentsRename,
}

var documentsTagCmd = &cobra.Command{
	Use:   "tag [document-id] [tag...]",
	Short: "Replace a document's tags",
	Long:  `Replace a document's tags. Passing no tags clears them.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocumentsTag,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

var chunksCmd = &cobra.Command{
	Use:   "chunks [document-id]",
	Short: "Show a document's chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runChunks,
}

var documentsJSON bool

func init() {
	documentsListCmd.Flags().BoolVar(&documentsJSON, "json", false, "output as JSON")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsRenameCmd)
	documentsCmd.AddCommand(documentsTagCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
	rootCmd.AddCommand(chunksCmd)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(commandContext(cmd), currentUser())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentsJSON {
		return printJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Filename: %s\n", docs[i].Filename)
		cmd.Printf("    Type:     %s (%d bytes)\n", docs[i].MIMEType, docs[i].Size)
		if len(docs[i].Tags) > 0 {
			cmd.Printf("    Tags:     %s\n", strings.Join(docs[i].Tags, ", "))
		}
		cmd.Printf("    Uploaded: %s\n", docs[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentsRename(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Rename(commandContext(cmd), currentUser(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to rename document: %w", err)
	}
	cmd.Printf("Renamed %s to %s\n", doc.ID, doc.Filename)
	return nil
}

func runDocumentsTag(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Tag(commandContext(cmd), currentUser(), args[0], args[1:])
	if err != nil {
		return fmt.Errorf("failed to tag document: %w", err)
	}
	if len(doc.Tags) == 0 {
		cmd.Printf("Cleared tags on %s\n", doc.ID)
		return nil
	}
	cmd.Printf("Tagged %s: %s\n", doc.ID, strings.Join(doc.Tags, ", "))
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(commandContext(cmd), currentUser(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func runChunks(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	chunks, err := documentService.Chunks(commandContext(cmd), currentUser(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}

	if len(chunks) == 0 {
		cmd.Println("No chunks stored for this document.")
		return nil
	}

	for i := range chunks {
		c := &chunks[i]
		cmd.Printf("  [%d/%d] %s  chars %d-%d  %s\n", c.Index+1, c.TotalChunks, c.ID,
			c.StartChar, c.EndChar, styled(cmd, mutedStyle, string(c.EmbeddingSource)))
		cmd.Printf("    %s\n", truncate(strings.ReplaceAll(c.Content, "\n", " "), 100))
	}
	cmd.Printf("Total: %d chunks\n", len(chunks))
	return nil
}

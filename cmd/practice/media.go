// ABOUTME: CLI commands for captured media: photos, videos and text notes.
// ABOUTME: Payloads go to the blob store, metadata to the record store.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/query"
	"github.com/spf13/cobra"
)

var (
	mediaType     string
	mediaName     string
	mediaCategory string
	mediaNotes    string
	mediaOutput   string
	mediaList     listFlags
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Capture and review practice media",
}

var mediaAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Store a photo or video",
	Long: `Store a photo or video file.

The type is detected from the file contents unless --type is given.

Examples:
  practice media add posture.jpg -c repertoire
  practice media add run-through.mp4 --name "Full run" --notes "tempo drifts"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		categoryID, err := resolveCategory(mediaCategory)
		if err != nil {
			return err
		}

		mt := models.MediaType(mediaType)
		if mediaType == "" {
			mt = models.MediaPhoto
			if strings.HasPrefix(http.DetectContentType(data), "video/") {
				mt = models.MediaVideo
			}
		}
		if !mt.HasBlob() {
			return fmt.Errorf("media add stores photos and videos; use 'practice media note' for text")
		}

		name := mediaName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
		m := models.NewMedia(mt, name, categoryID)
		m.Filename = filepath.Base(args[0])
		m.Notes = mediaNotes

		if err := pa.CaptureMedia(cmd.Context(), m, data); err != nil {
			return fmt.Errorf("failed to store media: %w", err)
		}
		color.Green("✓ Stored %s", m.Type)
		fmt.Printf("  %s %s %s\n", faint.Sprint(shortID(m.ID)), m.Name, faint.Sprintf("(%s, %d bytes)", m.MimeType, m.Size))
		return nil
	},
}

var mediaNoteCmd = &cobra.Command{
	Use:   "note <text>",
	Short: "Write a text note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		categoryID, err := resolveCategory(mediaCategory)
		if err != nil {
			return err
		}
		m := models.NewMedia(models.MediaNote, mediaName, categoryID)
		m.Notes = args[0]
		if err := pa.CaptureMedia(cmd.Context(), m, nil); err != nil {
			return fmt.Errorf("failed to store note: %w", err)
		}
		color.Green("✓ Added note")
		fmt.Printf("  %s\n", faint.Sprint(shortID(m.ID)))
		return nil
	},
}

var mediaListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List media",
	Long: `List captured media, newest first.

FILTERING:

  --status photo|video|note   only one kind of media`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := runView(models.CollectionMedia, mediaList)
		if err != nil {
			return err
		}
		if r.Page.Total == 0 {
			fmt.Println("No media found.")
			return nil
		}

		names := categoryNames(r.Categories)
		for _, m := range models.MediaItems(r.Page.Items) {
			label := m.Name
			if label == "" {
				label = m.Filename
			}
			if label == "" {
				label = truncate(m.Notes, 40)
			}
			fmt.Printf("%s %s %s %s  %s\n",
				faint.Sprint(shortID(m.ID)),
				faint.Sprint(displayTime(query.EffectiveDate(m))),
				padRight(string(m.Type), 5),
				padRight(truncate(label, 40), 40),
				query.CategoryName(names, m.CategoryID))
		}
		printPageFooter(r)
		return nil
	},
}

var mediaShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show media details, optionally saving the payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := pa.Records.ResolveID(models.CollectionMedia, args[0])
		if err != nil {
			return err
		}
		r, err := pa.Records.GetItem(models.CollectionMedia, id)
		if err != nil {
			return err
		}
		m := r.(*models.Media)

		fmt.Printf("%s %s\n", color.New(color.Bold).Sprint(m.Type), m.Name)
		fmt.Printf("  id:       %s\n", m.ID)
		fmt.Printf("  date:     %s\n", displayTime(query.EffectiveDate(m)))
		if m.Filename != "" {
			fmt.Printf("  file:     %s\n", m.Filename)
		}
		if m.MimeType != "" {
			fmt.Printf("  type:     %s (%d bytes)\n", m.MimeType, m.Size)
		}
		if m.Notes != "" {
			fmt.Printf("  notes:    %s\n", m.Notes)
		}

		if mediaOutput == "" {
			return nil
		}
		return saveMedia(cmd.Context(), m, mediaOutput)
	},
}

func saveMedia(ctx context.Context, m *models.Media, path string) error {
	blob, err := pa.MediaContent(ctx, m.ID)
	if err != nil {
		return err
	}
	if blob == nil {
		return fmt.Errorf("no stored payload for %s", shortID(m.ID))
	}
	if err := os.WriteFile(path, blob.Data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	color.Green("✓ Saved to %s", path)
	return nil
}

var mediaDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete media and its payload",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := pa.Records.ResolveID(models.CollectionMedia, args[0])
		if err != nil {
			return err
		}
		if err := pa.DeleteMedia(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete media: %w", err)
		}
		color.Yellow("✗ Deleted media %s", shortID(id))
		return nil
	},
}

func init() {
	mediaAddCmd.Flags().StringVarP(&mediaType, "type", "t", "", "photo or video (detected when omitted)")
	for _, c := range []*cobra.Command{mediaAddCmd, mediaNoteCmd} {
		c.Flags().StringVar(&mediaName, "name", "", "display name")
		c.Flags().StringVarP(&mediaCategory, "category", "c", "", "category name or id")
	}
	mediaAddCmd.Flags().StringVar(&mediaNotes, "notes", "", "notes about the capture")
	mediaShowCmd.Flags().StringVarP(&mediaOutput, "output", "o", "", "write the payload to this file")
	mediaList.register(mediaListCmd, "photo, video, note or all")

	mediaCmd.AddCommand(mediaAddCmd, mediaNoteCmd, mediaListCmd, mediaShowCmd, mediaDeleteCmd)
	rootCmd.AddCommand(mediaCmd)
}

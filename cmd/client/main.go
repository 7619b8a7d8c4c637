package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/civicstack/mediavault/internal/uploader"
	"github.com/civicstack/mediavault/internal/version"
)

const defaultServerURL = "http://localhost:8080"

// one preset per form call site
var policyPresets = map[string]func() *uploader.Policy{
	"complaint":   uploader.ComplaintEvidencePolicy,
	"testimonial": uploader.TestimonialMediaPolicy,
	"pledge":      uploader.PledgePhotoPolicy,
	"media":       uploader.MediaLibraryPolicy,
}

func presetNames() []string {
	names := make([]string, 0, len(policyPresets))
	for name := range policyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var rootCmd = &cobra.Command{
	Use:     "mediavault-cli",
	Short:   "MediaVault upload client",
	Version: version.Detailed(),
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload files through a MediaVault server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetString("server")
		preset, _ := cmd.Flags().GetString("policy")
		mimeType, _ := cmd.Flags().GetString("mime")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		newPolicy, ok := policyPresets[preset]
		if !ok {
			return fmt.Errorf("unknown policy %q (have: %s)", preset, strings.Join(presetNames(), ", "))
		}

		cmd.SilenceUsage = true
		client := uploader.New(server)
		isTTY := isatty.IsTerminal(os.Stdout.Fd())

		for i, path := range args {
			params := &uploader.UploadParams{
				FilePath:         path,
				MimeType:         mimeType,
				Policy:           newPolicy(),
				CurrentFileCount: i,
				Concurrency:      concurrency,
			}
			if isTTY {
				params.OnProgress = func(percent int) {
					fmt.Printf("\r%s %3d%%", path, percent)
				}
			}

			result, err := client.Upload(cmd.Context(), params)
			if isTTY {
				fmt.Print("\r")
			}
			if err != nil {
				return fmt.Errorf("upload %s: %w", path, err)
			}

			fmt.Printf("%s -> %s (%s)\n", path, result.URL, humanize.IBytes(uint64(result.Size)))
			slog.Debug("uploaded", "key", result.Key, "etag", result.ETag)
		}
		return nil
	},
}

func init() {
	uploadCmd.Flags().SortFlags = false
	uploadCmd.Flags().StringP("server", "s", defaultServerURL, "MediaVault server URL")
	uploadCmd.Flags().StringP("policy", "p", "media", "Upload policy preset ("+strings.Join(presetNames(), "|")+")")
	uploadCmd.Flags().String("mime", "", "Declared MIME type (detected from the extension when empty)")
	uploadCmd.Flags().Int("concurrency", 0, "Parallel part uploads (0 or 1 = sequential)")
	rootCmd.AddCommand(uploadCmd)
}

func main() {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

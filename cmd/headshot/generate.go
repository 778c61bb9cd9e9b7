package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/ai-headshot-pro/internal/cli"
	"github.com/fpang/ai-headshot-pro/internal/download"
	"github.com/fpang/ai-headshot-pro/internal/ingest"
	"github.com/fpang/ai-headshot-pro/internal/presets"
	"github.com/fpang/ai-headshot-pro/internal/session"
)

// generate flags
var (
	imageFlag  string
	pickFlag   bool
	styleFlag  string
	promptFlag string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one headshot and save it",
	Long: `Generate reads a photo, applies the chosen style with Gemini, and saves
the result as headshot-<timestamp>.jpg in the output directory.

Without --image or --pick the photo path is asked for interactively.
With --style custom and no --prompt the description is asked for too.`,
	Run: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&imageFlag, "image", "i", "", "Photo to transform")
	generateCmd.Flags().BoolVar(&pickFlag, "pick", false, "Choose the photo with the native file dialog")
	generateCmd.Flags().StringVarP(&styleFlag, "style", "s", presets.Default().ID, "Style ID or number (see 'headshot styles')")
	generateCmd.Flags().StringVarP(&promptFlag, "prompt", "p", "", "Description for the custom style")
}

func runGenerate(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	in := bufio.NewReader(os.Stdin)

	path := resolveImagePath(in)
	asset, err := loadAsset(ctx, path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg(cli.UserMessage(err))
	}

	styleID, ok := cli.ParseStyleChoice(styleFlag)
	if !ok {
		log.Fatal().Str("style", styleFlag).Msg("Unknown style. Run 'headshot styles' to list them")
	}
	customText := promptFlag
	if styleID == presets.CustomID && customText == "" {
		customText = cli.PromptForCustomText(in, os.Stdout)
	}

	client := cli.InitGenerationClient(cfg)
	sess := session.New(client, nil)
	defer sess.Close()

	for _, ev := range []session.Event{
		session.ImageIngested{Asset: asset},
		session.SelectStyle{ID: styleID},
		session.SetCustomPrompt{Text: customText},
	} {
		if err := sess.Send(ev); err != nil {
			log.Fatal().Err(err).Msg(cli.UserMessage(err))
		}
	}

	style, _ := presets.Find(styleID)
	printBanner(os.Stdout, asset, style, client.Model())

	start := time.Now()
	if err := sess.Generate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start generation")
	}

	if sess.State().Busy() {
		fmt.Println("⏳ Generating headshot... this usually takes 10-30 seconds")
	}
	st, err := awaitResult(ctx, sess)
	if err != nil {
		stop()
		log.Fatal().Err(err).Msg("Generation interrupted")
	}

	switch st.Phase {
	case session.PhaseCompleted:
		savePath, err := download.Save(cfg.OutputDir, st.Result, time.Now())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to save headshot")
		}
		fmt.Printf("✅ Headshot ready in %s\n", cli.FormatDurationShort(time.Since(start)))
		fmt.Printf("💾 Saved to %s\n", savePath)
	case session.PhaseError:
		log.Fatal().Str("style", styleID).Msg(st.ErrorMessage)
	default:
		log.Fatal().Str("phase", st.Phase.String()).Msg("Generation did not start")
	}
}

// resolveImagePath picks the photo from --image, --pick, or a prompt.
func resolveImagePath(in *bufio.Reader) string {
	path := imageFlag
	if path == "" && pickFlag {
		picked, err := cli.PickImage()
		if err != nil {
			if errors.Is(err, cli.ErrPickerCanceled) {
				log.Fatal().Msg("No photo selected")
			}
			log.Fatal().Err(err).Msg("File picker failed")
		}
		path = picked
	}
	if path == "" {
		path = cli.PromptForImagePath(in, os.Stdout)
	}
	if path == "" {
		log.Fatal().Msg("No photo given")
	}
	return cli.ValidateAndResolveImage(path)
}

// loadAsset reads path and ingests it off the calling goroutine.
// awaitResult waits for the session to settle. If ctx ends first, the session
// is closed so the in-flight request is canceled before the caller exits.
func awaitResult(ctx context.Context, sess *session.Session) (session.State, error) {
	st, err := sess.Wait(ctx)
	if err != nil {
		sess.Close()
		return st, err
	}
	return st, nil
}

func loadAsset(ctx context.Context, path string) (*ingest.ImageAsset, error) {
	f, err := ingest.OpenFile(path)
	if err != nil {
		return nil, err
	}
	res := <-ingest.IngestAsync(ctx, f)
	return res.Asset, res.Err
}

func printBanner(out io.Writer, asset *ingest.ImageAsset, style presets.Preset, model string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "============================================")
	fmt.Fprintln(out, "📸 AI Headshot Pro")
	fmt.Fprintln(out, "============================================")
	printAsset(out, asset)
	fmt.Fprintf(out, "Style: %s %s\n", style.Icon, style.Name)
	fmt.Fprintf(out, "Model: %s\n", model)
	fmt.Fprintln(out, "--------------------------------------------")
}

func printAsset(out io.Writer, asset *ingest.ImageAsset) {
	fmt.Fprintf(out, "Photo: %s (%s, %s)\n", asset.Name, asset.MIMEType, cli.FormatBytes(len(asset.Raw)))
	if p := asset.Preview; p != nil {
		fmt.Fprintf(out, "Size: %dx%d\n", p.SourceWidth, p.SourceHeight)
	}
	if m := asset.Metadata; m != nil {
		if camera := m.Camera(); camera != "" {
			fmt.Fprintf(out, "Camera: %s\n", camera)
		}
		if m.HasDate {
			fmt.Fprintf(out, "Taken: %s\n", m.DateTaken.Format("2006-01-02 15:04"))
		}
	}
}

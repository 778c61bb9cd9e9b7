package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/ai-headshot-pro/internal/cli"
	"github.com/fpang/ai-headshot-pro/internal/download"
	"github.com/fpang/ai-headshot-pro/internal/presets"
	"github.com/fpang/ai-headshot-pro/internal/session"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Upload, restyle, and regenerate in one session",
	Long: `Interactive keeps one photo and one result in memory so you can try
several styles without re-uploading. Generation runs in the background;
type 'status' or 'wait' to follow it. Type 'help' for the command list.`,
	Run: runInteractive,
}

func runInteractive(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := cli.InitGenerationClient(cfg)
	r := newREPL(os.Stdin, os.Stdout, client, cfg.OutputDir)
	defer r.close()

	fmt.Println("📸 AI Headshot Pro - interactive session")
	fmt.Printf("Model: %s | Output: %s\n", client.Model(), cfg.OutputDir)
	fmt.Println("Type 'help' for commands.")

	r.run(ctx)
}

// syncWriter serialises writes from the prompt loop and session callbacks.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// repl is the interactive presentation layer over a session.
type repl struct {
	in        *bufio.Reader
	out       io.Writer
	sess      *session.Session
	outputDir string
	pick      func() (string, error)
	now       func() time.Time
}

func newREPL(in io.Reader, out io.Writer, sub session.Submitter, outputDir string) *repl {
	w := &syncWriter{w: out}
	r := &repl{
		in:        bufio.NewReader(in),
		out:       w,
		outputDir: outputDir,
		pick:      cli.PickImage,
		now:       time.Now,
	}
	r.sess = session.New(sub, r.onChange)
	return r
}

func (r *repl) close() {
	r.sess.Close()
}

func (r *repl) onChange(st session.State) {
	switch st.Phase {
	case session.PhaseProcessing:
		fmt.Fprintln(r.out, "⏳ Generating headshot in the background...")
	case session.PhaseCompleted:
		fmt.Fprintln(r.out, "✅ Headshot ready. Type 'save' to download it.")
	case session.PhaseError:
		fmt.Fprintf(r.out, "❌ %s\n", st.ErrorMessage)
	}
}

// run reads commands until quit, EOF, or ctx is done.
func (r *repl) run(ctx context.Context) {
	for ctx.Err() == nil {
		fmt.Fprint(r.out, "> ")
		line, err := r.in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			if quit := r.exec(ctx, line); quit {
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn().Err(err).Msg("Failed to read command")
			}
			return
		}
	}
}

// exec runs one command line and reports whether the loop should stop.
func (r *repl) exec(ctx context.Context, line string) bool {
	command, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(command) {
	case "help", "?":
		r.help()
	case "upload", "open":
		r.upload(ctx, arg)
	case "pick":
		path, err := r.pick()
		if err != nil {
			if errors.Is(err, cli.ErrPickerCanceled) {
				fmt.Fprintln(r.out, "No photo selected.")
				return false
			}
			fmt.Fprintf(r.out, "File picker failed: %v\n", err)
			return false
		}
		r.upload(ctx, path)
	case "styles":
		cli.PrintStyles(r.out, r.sess.State().StyleID)
	case "style":
		r.selectStyle(arg)
	case "prompt":
		r.report(r.sess.SetCustomPrompt(arg))
	case "generate", "go":
		r.generate()
	case "status":
		r.status()
	case "wait":
		st, err := r.sess.Wait(ctx)
		if err != nil {
			fmt.Fprintln(r.out, "Stopped waiting.")
			return false
		}
		fmt.Fprintf(r.out, "Status: %s\n", st.Phase)
	case "save":
		r.save(arg)
	case "uri":
		st := r.sess.State()
		if st.Result == nil {
			fmt.Fprintln(r.out, "No headshot yet.")
			return false
		}
		fmt.Fprintln(r.out, download.DataURI(st.Result))
	case "dismiss":
		r.report(r.sess.Dismiss())
	case "reset":
		r.report(r.sess.Reset())
		fmt.Fprintln(r.out, "Session cleared.")
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(r.out, "Unknown command %q. Type 'help'.\n", command)
	}
	return false
}

func (r *repl) help() {
	fmt.Fprintln(r.out, `Commands:
  upload <path>   load a photo (replaces the current one)
  pick            choose a photo with the file dialog
  styles          list styles (* marks the selected one)
  style [n|id]    select a style
  prompt <text>   describe the custom style
  generate        start generating in the background
  status          show the session state
  wait            block until the current generation finishes
  save [dir]      save the headshot as JPEG
  uri             print the headshot as a data URI
  dismiss         clear the result and keep the photo
  reset           start over
  quit            leave`)
}

func (r *repl) upload(ctx context.Context, path string) {
	if path == "" {
		path = cli.PromptForImagePath(r.in, r.out)
		if path == "" {
			return
		}
	}
	path = strings.Trim(path, `"'`)

	asset, err := loadAsset(ctx, path)
	if err != nil {
		fmt.Fprintf(r.out, "❌ %s\n", cli.UserMessage(err))
		return
	}
	if err := r.sess.Ingest(asset); err != nil {
		r.report(err)
		return
	}
	printAsset(r.out, asset)
}

func (r *repl) selectStyle(arg string) {
	current := r.sess.State().StyleID
	id := current
	if arg == "" {
		id = cli.PromptForStyle(r.in, r.out, current)
	} else if parsed, ok := cli.ParseStyleChoice(arg); ok {
		id = parsed
	} else {
		fmt.Fprintf(r.out, "Unknown style %q. Type 'styles' to list them.\n", arg)
		return
	}

	if err := r.sess.SelectStyle(id); err != nil {
		r.report(err)
		return
	}
	p, _ := presets.Find(id)
	fmt.Fprintf(r.out, "Style: %s %s\n", p.Icon, p.Name)
	if p.IsCustom() && strings.TrimSpace(r.sess.State().CustomPrompt) == "" {
		fmt.Fprintln(r.out, "Describe the look with: prompt <text>")
	}
}

func (r *repl) generate() {
	st := r.sess.State()
	switch {
	case st.Busy():
		fmt.Fprintln(r.out, "A generation is already running.")
		return
	case st.Asset == nil:
		fmt.Fprintln(r.out, "Upload a photo first.")
		return
	}
	r.report(r.sess.Generate())
}

func (r *repl) status() {
	st := r.sess.State()
	fmt.Fprintf(r.out, "Status: %s\n", st.Phase)
	if st.Asset != nil {
		fmt.Fprintf(r.out, "Photo: %s\n", st.Asset.Name)
	} else {
		fmt.Fprintln(r.out, "Photo: none")
	}
	if p, ok := presets.Find(st.StyleID); ok {
		fmt.Fprintf(r.out, "Style: %s %s\n", p.Icon, p.Name)
		if p.IsCustom() {
			fmt.Fprintf(r.out, "Description: %q\n", st.CustomPrompt)
		}
	}
	if st.ErrorMessage != "" {
		fmt.Fprintf(r.out, "Error: %s\n", st.ErrorMessage)
	}
	if st.Result != nil {
		fmt.Fprintf(r.out, "Result: %s ready\n", st.Result.MIMEType)
	}
}

func (r *repl) save(dir string) {
	st := r.sess.State()
	if st.Result == nil {
		fmt.Fprintln(r.out, "No headshot to save yet.")
		return
	}
	if dir == "" {
		dir = r.outputDir
	}
	path, err := download.Save(dir, st.Result, r.now())
	if err != nil {
		fmt.Fprintf(r.out, "❌ %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "💾 Saved to %s\n", path)
}

func (r *repl) report(err error) {
	if err != nil {
		fmt.Fprintf(r.out, "❌ %s\n", cli.UserMessage(err))
	}
}

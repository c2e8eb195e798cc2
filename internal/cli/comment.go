package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/codesage/internal/annotate"
	"github.com/ytget/codesage/internal/commenter"
	"github.com/ytget/codesage/internal/extract"
	"github.com/ytget/codesage/internal/model"
	"github.com/ytget/codesage/internal/platform"
)

// commentOptions are the inputs of the comment command
type commentOptions struct {
	Path         string
	Language     string
	ServerURL    string
	ReadyTimeout time.Duration
	PollInterval time.Duration
	Output       string // also save the formatted results here
	Write        bool   // insert the comments into Path
}

var commentFlags commentOptions

var commentCmd = &cobra.Command{
	Use:   "comment FILE",
	Short: "Generate comments for a source file from the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := commentFlags
		opts.Path = args[0]
		opts.ServerURL = cfg.Client.ServerURL
		opts.ReadyTimeout = cfg.Client.ReadyTimeout
		opts.PollInterval = cfg.Client.PollInterval
		return runComment(ctx, cmd.OutOrStdout(), opts)
	},
}

func init() {
	commentCmd.Flags().StringVarP(&commentFlags.Language, "language", "l", "", "source language: python or go (default: from file extension)")
	commentCmd.Flags().String("server", "", "comment server URL (overrides client.server_url)")
	commentCmd.Flags().StringVarP(&commentFlags.Output, "output", "o", "", "save the results to this file")
	commentCmd.Flags().BoolVarP(&commentFlags.Write, "write", "w", false, "insert the comments into FILE")
	_ = v.BindPFlag("client.server_url", commentCmd.Flags().Lookup("server"))
}

// runComment comments every block of opts.Path and prints each result as it
// arrives
func runComment(ctx context.Context, out io.Writer, opts commentOptions) error {
	source, err := platform.ReadSourceFile(opts.Path)
	if err != nil {
		return err
	}

	lang := extract.DetectLanguage(opts.Path)
	if opts.Language != "" {
		lang = model.Language(strings.ToLower(opts.Language))
	}

	blocks, err := extract.Extract(ctx, lang, source)
	if err != nil {
		return err
	}
	if len(blocks) == 0 {
		fmt.Fprintln(out, dimStyle.Render("No functions or classes found to comment."))
		return nil
	}

	svc := commenter.NewService(opts.ServerURL, opts.ReadyTimeout)
	if opts.PollInterval > 0 {
		svc.SetPollInterval(opts.PollInterval)
	}
	svc.SetCallbacks(commenter.Callbacks{
		OnResult: func(job model.Job, r model.CommentResult) {
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("[%s] %s", job.GetProgressString(), r.Block.Label())))
			fmt.Fprintln(out, codeStyle.Render(r.Block.Text))
			fmt.Fprintln(out, commentStyle.Render(r.Comment))
			fmt.Fprintln(out)
		},
	})

	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("Commenting %d blocks from %s via %s", len(blocks), opts.Path, opts.ServerURL)))
	job, err := svc.Run(ctx, blocks)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("Error generating comment: "+err.Error()))
		return err
	}

	if opts.Output != "" {
		var b strings.Builder
		for _, r := range job.Results {
			b.WriteString(r.Format())
		}
		if err := platform.SaveText(opts.Output, b.String()); err != nil {
			return err
		}
		fmt.Fprintln(out, dimStyle.Render("Comments saved to "+opts.Output))
	}

	if opts.Write {
		if err := platform.SaveText(opts.Path, annotate.Prepend(lang, source, job.Results)); err != nil {
			return err
		}
		fmt.Fprintln(out, dimStyle.Render("Comments inserted into "+opts.Path))
	}

	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("All comments generated successfully! (%s in %s)", job.GetProgressString(), job.Elapsed().Round(time.Millisecond))))
	return nil
}

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"git.home.luguber.info/inful/bookbuilder/internal/build"
	"git.home.luguber.info/inful/bookbuilder/internal/logfields"
	"git.home.luguber.info/inful/bookbuilder/internal/observability"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	All  bool   `short:"a" help:"Rebuild every page, even those that are up to date"`
	Page string `short:"p" help:"Build only the page with this file name (e.g. 'hash-tables')"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bk, err := openBook(root.Config)
	if err != nil {
		return err
	}
	ctx = observability.WithTrigger(ctx, "cli")
	report, err := bk.builder.Build(ctx, build.Options{SkipUpToDate: !b.All, Only: b.Page})
	if err != nil {
		return err
	}

	PrintReport(os.Stdout, report)
	if b.All && b.Page == "" {
		logProgress(report.Progress())
	}
	return nil
}

// PrintReport writes one line per built page, followed by its section
// defects and broken links.
func PrintReport(w io.Writer, report *build.Report) {
	for _, page := range report.Pages {
		if page.Skipped {
			continue
		}
		label := page.Title
		if page.Number != "" {
			label = page.Number + ". " + label
		}
		_, _ = fmt.Fprintf(w, "%-40s %6d words  %s\n", label, page.Words, page.Status)
		if d := page.Defects; d.Count() > 0 {
			_, _ = fmt.Fprintf(w, "  section defects: undefined %v, reused %v, unused %v\n",
				d.Undefined, d.Reused, d.Unused)
		}
		if len(page.BrokenLinks) > 0 {
			_, _ = fmt.Fprintf(w, "  broken links: %s\n", strings.Join(page.BrokenLinks, ", "))
		}
	}
	_, _ = fmt.Fprintf(w, "Built %d page(s), %d up to date\n", report.Built, report.Skipped)
}

func logProgress(p build.Progress) {
	slog.Info("Writing progress",
		slog.Int("chapters", p.Chapters),
		slog.Int("unfinished", p.Unfinished),
		logfields.Words(p.TotalWords),
		slog.Int("estimated_words", p.EstimatedWords),
		slog.Int("percent", p.Percent))
}

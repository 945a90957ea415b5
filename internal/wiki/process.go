package wiki

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/docwiki/internal/logfields"
	"git.home.luguber.info/inful/docwiki/internal/metrics"
	"git.home.luguber.info/inful/docwiki/internal/observability"
	werrors "git.home.luguber.info/inful/docwiki/internal/wiki/errors"
)

// Pipeline stage names, used for logging and metrics labels.
const (
	StageFlatten  = "flatten"
	StageLanding  = "landing"
	StageCleanup  = "cleanup"
	StageVerify   = "verify"
	StageSidebar  = "sidebar"
	StageFooter   = "footer"
	pageFilePerm  = 0o644
	landingTarget = LandingPage + markdownExt
)

// Options is the explicit configuration of one post-processing run.
type Options struct {
	// PageList is the intended navigation order, as source-relative paths.
	PageList    []string
	ProjectName string
	DocsURL     string
	RepoURL     string

	GenerateSidebar bool
	GenerateFooter  bool
	// Cleanup runs the Markdown cleanup passes over every page.
	Cleanup bool
	// FixLinks retargets internal links at flat page names.
	FixLinks bool
	// VerifyLinks reports internal links whose target page does not exist.
	VerifyLinks bool

	IncludeHome       bool
	IncludeDiscovered bool
	ExcludeGenerated  bool

	MaxNameLength int

	Recorder     metrics.Recorder
	CodeRepairer CodeRepairer
}

// DefaultOptions enables every stage.
func DefaultOptions() Options {
	return Options{
		GenerateSidebar:   true,
		GenerateFooter:    true,
		Cleanup:           true,
		FixLinks:          true,
		VerifyLinks:       true,
		IncludeHome:       true,
		IncludeDiscovered: true,
		ExcludeGenerated:  true,
		MaxNameLength:     DefaultMaxNameLength,
	}
}

// Report summarizes one post-processing run.
type Report struct {
	RunID string
	Pages *PageMap
	Moves []Move
	// Deleted lists build artifacts that were removed.
	Deleted []string
	Renamed []Rename
	// Landing is the original path of the document promoted to the landing page.
	Landing       string
	DanglingLinks []DanglingLink
	// MoveErrors are documents left in place; they are not part of Pages.
	MoveErrors []error
	// Errors are per-document cleanup or navigation failures.
	Errors   []error
	Sidebar  string
	Footer   string
	Duration time.Duration
}

// Processor runs the post-processing pipeline over one filesystem.
type Processor struct {
	fs       billy.Filesystem
	opts     Options
	cleaner  *Cleaner
	recorder metrics.Recorder
}

// NewProcessor creates a Processor for the tree rooted at fsys.
func NewProcessor(fsys billy.Filesystem, opts Options) *Processor {
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Processor{
		fs:       fsys,
		opts:     opts,
		cleaner:  NewCleaner(opts.CodeRepairer),
		recorder: recorder,
	}
}

// ProcessDir post-processes the Sphinx Markdown output in dir. It fails before
// touching the tree when dir does not exist or is not a directory.
func ProcessDir(ctx context.Context, dir string, opts Options) (*Report, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", werrors.ErrOutputDirNotFound, dir)
		}
		return nil, fmt.Errorf("stat output directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", werrors.ErrNotADirectory, dir)
	}
	return NewProcessor(osfs.New(dir), opts).Run(ctx)
}

// Run executes flatten, landing promotion, cleanup and link rewriting, link
// verification, and navigation generation in that order. Per-document failures
// do not stop the run; they are collected in the report and returned joined
// under ErrDocumentProcessing. Only a failed tree walk or cancellation aborts.
func (p *Processor) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.NewString()}
	ctx = observability.WithRunID(ctx, report.RunID)

	err := p.run(ctx, report)
	report.Duration = time.Since(start)
	p.recorder.ObserveRunDuration(report.Duration)

	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		p.recorder.IncRunOutcome(metrics.ResultCanceled)
	case err != nil && len(report.Errors) == 0:
		p.recorder.IncRunOutcome(metrics.ResultFatal)
	case err != nil || len(report.MoveErrors) > 0 || len(report.DanglingLinks) > 0:
		p.recorder.IncRunOutcome(metrics.ResultWarning)
	default:
		p.recorder.IncRunOutcome(metrics.ResultSuccess)
	}
	observability.InfoContext(ctx, "Post-processing finished",
		logfields.Count(report.Pages.Len()),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, err
}

func (p *Processor) run(ctx context.Context, report *Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.stage(ctx, StageFlatten, func(ctx context.Context) error {
		return p.flatten(ctx, report)
	}); err != nil {
		return err
	}

	_ = p.stage(ctx, StageLanding, func(ctx context.Context) error {
		return p.promoteLanding(ctx, report)
	})

	if p.opts.Cleanup || p.opts.FixLinks {
		if err := p.stage(ctx, StageCleanup, func(ctx context.Context) error {
			return p.processDocuments(ctx, report)
		}); errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}

	if p.opts.VerifyLinks {
		_ = p.stage(ctx, StageVerify, func(ctx context.Context) error {
			return p.verify(ctx, report)
		})
	}

	if p.opts.GenerateSidebar {
		_ = p.stage(ctx, StageSidebar, func(ctx context.Context) error {
			content, err := GenerateSidebar(p.fs, p.opts.PageList, report.Pages, SidebarOptions{
				ProjectName:       p.opts.ProjectName,
				IncludeHome:       p.opts.IncludeHome,
				IncludeDiscovered: p.opts.IncludeDiscovered,
				ExcludeGenerated:  p.opts.ExcludeGenerated,
			})
			if err != nil {
				report.Errors = append(report.Errors, err)
				return err
			}
			report.Sidebar = content
			return nil
		})
	}

	if p.opts.GenerateFooter {
		_ = p.stage(ctx, StageFooter, func(_ context.Context) error {
			content, err := GenerateFooter(p.fs, FooterOptions{
				ProjectName: p.opts.ProjectName,
				DocsURL:     p.opts.DocsURL,
				RepoURL:     p.opts.RepoURL,
			})
			if err != nil {
				report.Errors = append(report.Errors, err)
				return err
			}
			report.Footer = content
			return nil
		})
	}

	if len(report.Errors) > 0 {
		return fmt.Errorf("%w: %w", werrors.ErrDocumentProcessing, errors.Join(report.Errors...))
	}
	return nil
}

// stage runs fn with stage-scoped logging and metrics.
func (p *Processor) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, name)
	start := time.Now()
	observability.DebugContext(ctx, "Stage started")

	err := fn(ctx)

	elapsed := time.Since(start)
	p.recorder.ObserveStageDuration(name, elapsed)
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		p.recorder.IncStageResult(name, metrics.ResultCanceled)
	case errors.Is(err, werrors.ErrTreeWalkFailed):
		p.recorder.IncStageResult(name, metrics.ResultFatal)
		observability.ErrorContext(ctx, "Stage failed", logfields.Error(err))
	case err != nil:
		p.recorder.IncStageResult(name, metrics.ResultWarning)
		observability.WarnContext(ctx, "Stage completed with errors", logfields.Error(err))
	default:
		p.recorder.IncStageResult(name, metrics.ResultSuccess)
	}
	observability.DebugContext(ctx, "Stage finished", logfields.DurationMS(float64(elapsed.Milliseconds())))
	return err
}

func (p *Processor) flatten(ctx context.Context, report *Report) error {
	res, err := Flatten(p.fs, FlattenOptions{MaxNameLength: p.opts.MaxNameLength})
	if err != nil {
		return err
	}
	report.Pages = res.Pages
	report.Moves = res.Moves
	report.Deleted = res.Deleted
	report.Renamed = res.Renamed
	report.MoveErrors = res.Errors

	p.recorder.AddPages(metrics.PageMoved, len(res.Moves))
	p.recorder.AddPages(metrics.PageDeleted, len(res.Deleted))
	p.recorder.AddPages(metrics.PageRenamed, len(res.Renamed))
	p.recorder.AddPages(metrics.PageFailed, len(res.Errors))
	observability.InfoContext(ctx, "Flattened output tree",
		logfields.Count(res.Pages.Len()),
		slog.Int("moved", len(res.Moves)),
		slog.Int("deleted", len(res.Deleted)))
	return nil
}

// promoteLanding renames the root document mapped to the landing page so the
// wiki serves it as its entry point.
func (p *Processor) promoteLanding(ctx context.Context, report *Report) error {
	var landing string
	report.Pages.Range(func(rel, name string) bool {
		if name == LandingPage {
			landing = rel
			return false
		}
		return true
	})
	if landing == "" {
		observability.DebugContext(ctx, "No landing page document found")
		return nil
	}
	report.Landing = landing
	if landing == landingTarget || !isRootDoc(landing) {
		return nil
	}

	if err := p.fs.Rename(landing, landingTarget); err != nil {
		promoteErr := fmt.Errorf("%w: %s: %w", werrors.ErrLandingPromotion, landing, err)
		report.Errors = append(report.Errors, promoteErr)
		// Keep links pointing at a page that exists.
		report.Pages.Set(landing, stem(landing))
		report.Landing = ""
		return promoteErr
	}
	observability.InfoContext(ctx, "Promoted landing page", logfields.Path(landing), logfields.Page(LandingPage))
	return nil
}

// processDocuments applies cleanup and link rewriting to every root page.
func (p *Processor) processDocuments(ctx context.Context, report *Report) error {
	infos, err := p.fs.ReadDir(fsRoot)
	if err != nil {
		werr := fmt.Errorf("%w: %w", werrors.ErrTreeWalkFailed, err)
		report.Errors = append(report.Errors, werr)
		return werr
	}

	var failed []error
	for _, info := range infos {
		if info.IsDir() || !isMarkdownFile(info.Name()) || isReserved(info.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.processDocument(info.Name(), report.Pages); err != nil {
			observability.WarnContext(ctx, "Failed to process page", logfields.File(info.Name()), logfields.Error(err))
			failed = append(failed, err)
		}
	}
	report.Errors = append(report.Errors, failed...)
	return errors.Join(failed...)
}

func (p *Processor) processDocument(name string, pages *PageMap) error {
	data, err := util.ReadFile(p.fs, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	content := string(data)
	if p.opts.Cleanup {
		content = p.cleaner.Clean(content)
	}
	if p.opts.FixLinks {
		content = RewriteLinks(content, pages)
	}
	if content == string(data) {
		return nil
	}
	if err := util.WriteFile(p.fs, name, []byte(content), pageFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (p *Processor) verify(ctx context.Context, report *Report) error {
	dangling, err := VerifyLinks(p.fs)
	if err != nil {
		return err
	}
	report.DanglingLinks = dangling
	p.recorder.AddPages(metrics.PageDangling, len(dangling))
	for _, d := range dangling {
		observability.WarnContext(ctx, "Link points at missing page", logfields.Page(d.Page), logfields.Target(d.Target))
	}
	return nil
}

func isMarkdownFile(name string) bool {
	return path.Ext(name) == markdownExt
}

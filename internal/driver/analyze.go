package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"fortio.org/safecast"

	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/lexer"
	"unparen/internal/observ"
	"unparen/internal/parens"
	"unparen/internal/parser"
	"unparen/internal/report"
	"unparen/internal/source"
	"unparen/internal/trace"
	"unparen/internal/types"
)

// Options configures a run over one or more files.
type Options struct {
	// MaxDiagnostics caps the diagnostics of each file; 0 means unlimited.
	MaxDiagnostics int
	// Jobs bounds the number of files analyzed at once; <= 0 means GOMAXPROCS.
	Jobs  int
	Style parens.Options
	// Cache, when set, is consulted before parsing and filled afterwards.
	Cache    *DiskCache
	Progress ProgressSink
	Timer    *observ.Timer
	// KeepTrees retains the parse tree of every file for FixAll. Cached
	// results have no tree, so KeepTrees bypasses cache reads.
	KeepTrees bool
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path     string
	FileID   source.FileID
	Bag      *diag.Bag
	Verdicts []parens.Verdict
	// Tree is set only with Options.KeepTrees and only for analyzed files.
	Tree *parens.Tree

	Groups    int
	Removable int
	Cached    bool
	// Broken: лексер или парсер нашли ошибки, скобки не анализировались
	Broken bool
}

// Stats summarizes a run.
type Stats struct {
	Files     int64 `json:"files"`
	Analyzed  int64 `json:"analyzed"`
	Cached    int64 `json:"cached"`
	Broken    int64 `json:"broken"`
	Groups    int64 `json:"groups"`
	Removable int64 `json:"removable"`
}

// metrics is updated from worker goroutines.
type metrics struct {
	files, analyzed, cached, broken, groups, removable atomic.Int64
}

func (m *metrics) snapshot() Stats {
	return Stats{
		Files:     m.files.Load(),
		Analyzed:  m.analyzed.Load(),
		Cached:    m.cached.Load(),
		Broken:    m.broken.Load(),
		Groups:    m.groups.Load(),
		Removable: m.removable.Load(),
	}
}

// Result is the outcome of a run. Bag holds the diagnostics of every file
// in file order.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	Bag     *diag.Bag
	Stats   Stats
}

// AnalyzeFile runs the whole pipeline on the file at path: load, lex and
// parse, annotate, judge every parenthesized group and report the
// removable ones. Files that do not parse get their syntax diagnostics only.
func AnalyzeFile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSetWithBase(filepath.Dir(path))
	m := &metrics{}
	id, err := loadFile(fs, path, opts)
	if err != nil {
		return nil, err
	}
	fr, err := analyzeLoaded(ctx, fs, id, opts, m)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.Merge(fr.Bag)
	return &Result{FileSet: fs, Files: []FileResult{fr}, Bag: bag, Stats: m.snapshot()}, nil
}

func loadFile(fs *source.FileSet, path string, opts Options) (source.FileID, error) {
	clock := opts.begin(path, StageLoad)
	id, err := fs.Load(path)
	if err != nil {
		clock.end(StatusFailed, err)
		return 0, err
	}
	clock.end(StatusDone, nil)
	return id, nil
}

// stageClock measures one stage of one file.
type stageClock struct {
	opts  *Options
	file  string
	stage Stage
	start time.Time
}

func (o *Options) begin(file string, st Stage) stageClock {
	o.Progress.emit(Event{File: file, Stage: st, Status: StatusStart})
	return stageClock{opts: o, file: file, stage: st, start: time.Now()}
}

func (c stageClock) end(status Status, err error) time.Duration {
	d := time.Since(c.start)
	c.opts.Timer.Add(c.stage.String(), d)
	c.opts.Progress.emit(Event{File: c.file, Stage: c.stage, Status: status, Err: err, Elapsed: d})
	return d
}

// analyzeLoaded runs the pipeline on a file already in fs. The only error
// it returns is the cancellation of ctx; problems with the file itself end
// up in the result's bag.
func analyzeLoaded(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options, m *metrics) (FileResult, error) {
	file := fs.Get(id)
	res := FileResult{Path: file.Path, FileID: id, Bag: diag.NewBag(opts.MaxDiagnostics)}
	m.files.Add(1)

	ctx, span := trace.StartFile(ctx, file.FormatPath("relative", fs.BaseDir()))
	outcome := "analyzed"
	defer func() { span.End(outcome) }()

	key := CacheKey(Digest(file.Hash), opts.Style)
	if opts.Cache != nil && !opts.KeepTrees {
		var payload DiskPayload
		ok, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil:
			res.Bag.Add(cacheWarning(id, "read", err))
		case ok:
			for _, d := range payload.diagnostics(id) {
				res.Bag.Add(d)
			}
			res.Groups, res.Removable = payload.Groups, payload.Removable
			res.Cached, res.Broken = true, payload.Broken
			m.cached.Add(1)
			m.groups.Add(int64(res.Groups))
			m.removable.Add(int64(res.Removable))
			if res.Broken {
				m.broken.Add(1)
			}
			outcome = "cached"
			opts.Progress.emit(Event{File: file.Path, Stage: StageLoad, Status: StatusCached})
			return res, nil
		}
	}

	clock := opts.begin(file.Path, StageParse)
	maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
	if err != nil {
		maxErrors = 0
	}
	reporter := &diag.BagReporter{Bag: res.Bag}
	builder := ast.NewBuilder(ast.Hints{}, nil)
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	parsed := parser.ParseFile(ctx, file, lx, builder, parser.Options{Reporter: reporter, MaxErrors: maxErrors})
	if parsed.Errors > 0 || res.Bag.HasErrors() {
		clock.end(StatusSkipped, nil)
		res.Broken = true
		m.broken.Add(1)
		outcome = "broken"
		opts.store(key, file, &res)
		return res, nil
	}
	clock.end(StatusDone, nil)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	clock = opts.begin(file.Path, StageAnnotate)
	env, err := types.Annotate(ctx, builder, parsed.File)
	if err != nil {
		clock.end(StatusFailed, err)
		return res, err
	}
	clock.end(StatusDone, nil)

	clock = opts.begin(file.Path, StageAnalyze)
	tree := parens.NewTree(builder, parsed.File, file, env)
	verdicts, err := parens.Analyze(ctx, tree, opts.Style)
	if err != nil {
		clock.end(StatusFailed, err)
		return res, err
	}
	clock.end(StatusDone, nil)

	clock = opts.begin(file.Path, StageReport)
	for _, v := range verdicts {
		trace.Verdict(ctx, traceGroup(file, v))
	}
	diags := report.Diagnostics(tree, verdicts)
	for _, d := range diags {
		res.Bag.Add(d)
	}
	res.Verdicts = verdicts
	res.Groups, res.Removable = len(verdicts), len(diags)
	if opts.KeepTrees {
		res.Tree = tree
	}
	m.analyzed.Add(1)
	m.groups.Add(int64(res.Groups))
	m.removable.Add(int64(res.Removable))
	span.WithExtra("groups", fmt.Sprint(res.Groups)).WithExtra("removable", fmt.Sprint(res.Removable))
	opts.store(key, file, &res)
	clock.end(StatusDone, nil)
	return res, nil
}

// store writes res to the cache. A failure becomes a warning on the file
// and does not fail the run.
func (o *Options) store(key Digest, file *source.File, res *FileResult) {
	if o.Cache == nil {
		return
	}
	payload := payloadFromDiagnostics(file.Path, Digest(file.Hash), res.Bag.Items())
	payload.Groups, payload.Removable, payload.Broken = res.Groups, res.Removable, res.Broken
	if err := o.Cache.Put(key, payload); err != nil {
		res.Bag.Add(cacheWarning(file.ID, "write", err))
	}
}

func cacheWarning(id source.FileID, op string, err error) diag.Diagnostic {
	return diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: id},
		fmt.Sprintf("result cache %s failed: %v", op, err))
}

// traceGroupText caps the group text recorded in a trace event.
const traceGroupText = 60

func traceGroup(file *source.File, v parens.Verdict) trace.Group {
	pos := file.Position(v.Span.Start)
	text := file.Text(v.Span)
	if len(text) > traceGroupText {
		text = text[:traceGroupText] + "…"
	}
	return trace.Group{
		Line:   int(pos.Line),
		Col:    int(pos.Col),
		Reason: v.Reason.String(),
		Rule:   v.Rule,
		Text:   text,
	}
}

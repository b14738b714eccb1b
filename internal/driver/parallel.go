package driver

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"unparen/internal/config"
	"unparen/internal/diag"
	"unparen/internal/source"
	"unparen/internal/trace"
)

// AnalyzeDir analyzes every file under dir that cfg selects, in parallel.
func AnalyzeDir(ctx context.Context, dir string, cfg *config.Config, opts Options) (*Result, error) {
	_, span := trace.Start(ctx, trace.ScopePass, "collect")
	files, err := cfg.Collect(dir)
	span.WithExtra("files", fmt.Sprint(len(files))).End("")
	if err != nil {
		return nil, err
	}
	return AnalyzeFiles(ctx, dir, files, opts)
}

// AnalyzeFiles analyzes files with at most opts.Jobs workers. Results and
// diagnostics keep the order of files whatever order the workers finish in.
func AnalyzeFiles(ctx context.Context, baseDir string, files []string, opts Options) (*Result, error) {
	fileSet := source.NewFileSetWithBase(baseDir)
	res := &Result{FileSet: fileSet, Bag: diag.NewBag(opts.MaxDiagnostics)}
	if len(files) == 0 {
		return res, nil
	}

	// Загружаем последовательно: FileSet не потокобезопасен, а ID должны
	// идти в порядке файлов.
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		id, err := loadFile(fileSet, path, opts)
		if err != nil {
			// пустой виртуальный файл, чтобы у диагностики был путь
			id = fileSet.AddVirtual(path, nil)
			loadErrors[i] = err
		}
		fileIDs[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ctx, span := trace.Start(ctx, trace.ScopePass, "analyze")
	defer span.End("")

	m := &metrics{}
	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fileIDs[i]},
					"failed to load file: "+loadErr.Error()))
				m.files.Add(1)
				results[i] = FileResult{Path: path, FileID: fileIDs[i], Bag: bag}
				return nil
			}

			fr, err := analyzeLoaded(gctx, fileSet, fileIDs[i], opts, m)
			if err != nil {
				return err
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range results {
		res.Bag.Merge(results[i].Bag)
	}
	res.Files = results
	res.Stats = m.snapshot()
	span.WithExtra("files", fmt.Sprint(res.Stats.Files)).WithExtra("removable", fmt.Sprint(res.Stats.Removable))
	return res, nil
}

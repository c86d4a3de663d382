// Package linter runs one hush audit: it takes the violations an external
// checker reported, loads and parses the files they point at, and runs each
// file's violations through the suppression engine.
//
// Files are processed in parallel. Every worker owns a [suppress.Session],
// so per-file rule state (comment tags, annotation ranges, query results)
// is never shared between goroutines.
package linter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/wharflab/hush/internal/config"
	"github.com/wharflab/hush/internal/fileval"
	"github.com/wharflab/hush/internal/processor"
	"github.com/wharflab/hush/internal/rules"
	"github.com/wharflab/hush/internal/suppress"
	"github.com/wharflab/hush/internal/syntax"
)

// Input configures a single invocation of [Run].
type Input struct {
	// Violations are the raw checker findings.
	Violations []rules.Violation

	// Config is the resolved configuration. Nil uses config.Default().
	Config *config.Config

	// Engine holds the suppression rule sets. Nil builds one from Config.
	Engine *suppress.Engine

	// Sources overrides file loading: when a path is present its content is
	// used instead of reading the file system.
	Sources map[string][]byte

	// Logger receives progress output. Nil means silent.
	Logger logrus.FieldLogger
}

// FileError records a file whose violations could not be decided.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Result contains the output of [Run].
type Result struct {
	// Violations survived every rule set, sorted, with snippets attached.
	Violations []rules.Violation

	// Suppressed were dropped by a rule set.
	Suppressed []rules.SuppressedViolation

	// Errors lists the files whose violations were withheld. Their
	// violations appear in neither Violations nor Suppressed.
	Errors []*FileError

	// Files is the number of distinct files the violations referenced.
	Files int

	// Sources holds the content of every loaded file.
	Sources map[string][]byte

	// Config is the resolved config (passed in or defaulted).
	Config *config.Config
}

// Err joins the per-file errors, nil when every file was decided.
func (r *Result) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// fileJob is the work for one file, in first-seen order.
type fileJob struct {
	path       string
	violations []rules.Violation
}

type fileOutcome struct {
	kept       []rules.Violation
	suppressed []rules.SuppressedViolation
	content    []byte
	err        *FileError
}

// Run executes the audit. It returns an error only when the run cannot
// start; per-file failures are reported in Result.Errors.
func Run(ctx context.Context, in Input) (*Result, error) {
	log := in.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	cfg := in.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := processor.ValidateGlobs(cfg.Processing.Exclude); err != nil {
		return nil, fmt.Errorf("processing.exclude: %w", err)
	}

	engine := in.Engine
	if engine == nil {
		var err error
		if engine, err = config.BuildEngine(cfg, log); err != nil {
			return nil, err
		}
	}

	pre := PreProcessors()
	violations := pre.Process(in.Violations, processor.NewContext(cfg, nil))
	log.WithFields(logrus.Fields{"in": len(in.Violations), "out": len(violations), "chain": pre.Names()}).
		Debug("preprocessed violations")
	jobs := groupByFile(violations)

	workers := workerCount(cfg, len(jobs))
	log.WithFields(logrus.Fields{"files": len(jobs), "workers": workers}).Debug("deciding violations")

	outcomes := make([]fileOutcome, len(jobs))
	queue := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(queue)
		for i := range jobs {
			select {
			case queue <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for range workers {
		g.Go(func() error {
			session := engine.NewSession(log)
			for i := range queue {
				outcomes[i] = decideFile(gctx, session, cfg, in.Sources, jobs[i], log)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Files: len(jobs), Sources: make(map[string][]byte, len(jobs)), Config: cfg}
	var kept []rules.Violation
	for i, o := range outcomes {
		if o.content != nil {
			res.Sources[jobs[i].path] = o.content
		}
		if o.err != nil {
			log.WithField("file", o.err.Path).Warn(o.err.Err)
			res.Errors = append(res.Errors, o.err)
			continue
		}
		kept = append(kept, o.kept...)
		res.Suppressed = append(res.Suppressed, o.suppressed...)
	}

	res.Violations = PostProcessors().Process(kept, processor.NewContext(cfg, res.Sources))
	log.WithFields(logrus.Fields{
		"kept":       len(res.Violations),
		"suppressed": len(res.Suppressed),
		"errors":     len(res.Errors),
	}).Debug("audit complete")
	return res, nil
}

func groupByFile(violations []rules.Violation) []fileJob {
	index := make(map[string]int)
	var jobs []fileJob
	for _, v := range violations {
		i, ok := index[v.File()]
		if !ok {
			i = len(jobs)
			index[v.File()] = i
			jobs = append(jobs, fileJob{path: v.File()})
		}
		jobs[i].violations = append(jobs[i].violations, v)
	}
	return jobs
}

func decideFile(
	ctx context.Context,
	session *suppress.Session,
	cfg *config.Config,
	sources map[string][]byte,
	job fileJob,
	log logrus.FieldLogger,
) fileOutcome {
	content, err := loadSource(job.path, sources, cfg.Processing.MaxFileSize)
	if err != nil {
		return fileOutcome{err: &FileError{Path: job.path, Err: err}}
	}

	var tree *syntax.Tree
	if _, ok := syntax.LanguageForPath(job.path); ok {
		if tree, err = syntax.ParseFile(ctx, job.path, content); err != nil {
			// Attribute and text rules still apply without a tree; query
			// rules report the missing tree themselves.
			log.WithField("file", job.path).Warnf("parse failed: %v", err)
			tree = nil
		}
	}

	p := processor.NewSuppression(session, suppress.NewFile(job.path, content, tree))
	kept := p.Process(job.violations, nil)
	if p.Err() != nil {
		return fileOutcome{content: content, err: &FileError{Path: job.path, Err: p.Err()}}
	}
	return fileOutcome{kept: kept, suppressed: p.Suppressed(), content: content}
}

// loadSource returns the file content. Violations without a file path are
// decided against an empty file.
func loadSource(path string, sources map[string][]byte, maxSize int64) ([]byte, error) {
	if content, ok := sources[path]; ok {
		if maxSize > 0 && int64(len(content)) > maxSize {
			return nil, &fileval.FileTooLargeError{Path: path, Size: int64(len(content)), MaxSize: maxSize}
		}
		return content, nil
	}
	if path == "" {
		return []byte{}, nil
	}
	if err := fileval.ValidateFile(path, maxSize); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func workerCount(cfg *config.Config, files int) int {
	n := cfg.Processing.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return max(1, min(n, files))
}

package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"resolve/internal/diag"
	"resolve/internal/observ"
	"resolve/internal/project"
	"resolve/internal/project/dag"
	"resolve/internal/source"
	"resolve/internal/symbols"
	"resolve/internal/trace"
)

// ErrNoManifest is returned when no resolve.toml is found.
var ErrNoManifest = errors.New("no project manifest")

// Options control a project check.
type Options struct {
	MaxDiagnostics int // per module, 0 uses the manifest value
	Jobs           int // declaration loaders, 0 uses GOMAXPROCS
	Timings        bool
	Progress       ProgressSink
}

// ModuleResult is the outcome for one declaration file.
type ModuleResult struct {
	Name     string
	Path     string
	Hash     project.Digest
	Bag      *diag.Bag
	Analyzed bool
}

// Result is a finished check: the populated table plus everything that was
// reported along the way.
type Result struct {
	Manifest *project.Manifest
	FileSet  *source.FileSet
	Table    *symbols.Table
	Modules  []ModuleResult
	Bag      *diag.Bag // every diagnostic, sorted
	Timer    *observ.Timer
}

// HasErrors reports whether any module produced an error.
func (r *Result) HasErrors() bool { return r.Bag.HasErrors() }

// Check locates the manifest at or above dir and analyses the project.
func Check(ctx context.Context, dir string, opts Options) (*Result, error) {
	path, ok, err := project.FindManifest(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s not found at or above %s", ErrNoManifest, project.ManifestName, dir)
	}
	manifest, err := project.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return CheckManifest(ctx, manifest, opts)
}

// CheckManifest loads every declaration under the manifest's module
// directory, orders modules by their imports and analyses them
// dependencies first. Modules on an import cycle, and modules depending on
// broken ones, are reported and skipped.
func CheckManifest(ctx context.Context, manifest *project.Manifest, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = manifest.MaxDiagnostics
	}
	res := &Result{
		Manifest: manifest,
		FileSet:  source.NewFileSet(),
		Timer:    observ.NewTimer(),
	}
	if !opts.Timings {
		res.Timer = nil
	}

	done := phase(res.Timer, tracer, span, "discover")
	paths, err := project.DiscoverModules(manifest.ModulesDir)
	done(strconv.Itoa(len(paths)) + " files")
	if err != nil {
		span.End("error")
		return nil, err
	}
	for _, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	done = phase(res.Timer, tracer, span, "load")
	loaded, err := project.LoadModules(ctx, res.FileSet, paths, maxDiags, opts.Jobs)
	done("")
	if err != nil {
		span.End("error")
		return nil, err
	}

	done = phase(res.Timer, tracer, span, "graph")
	metas := make([]project.ModuleMeta, 0, len(loaded))
	nodes := make([]dag.ModuleNode, 0, len(loaded))
	reporters := make(map[string]diag.Reporter, len(loaded))
	files := make(map[source.FileID]project.LoadResult, len(loaded))
	for _, lr := range loaded {
		if !lr.OK {
			emit(opts.Progress, Event{File: lr.Path, Stage: StageLoad, Status: StatusError})
			continue
		}
		files[lr.Meta.File] = lr
		emit(opts.Progress, Event{File: lr.Path, Module: lr.Meta.Name, Stage: StageLoad, Status: StatusDone})
		reporter := diag.NewDedupReporter(diag.BagReporter{Bag: lr.Bag})
		if _, dup := reporters[lr.Meta.Name]; !dup {
			reporters[lr.Meta.Name] = reporter
		}
		metas = append(metas, lr.Meta)
		nodes = append(nodes, dag.ModuleNode{Meta: lr.Meta, Reporter: reporter})
	}
	idx := dag.BuildIndex(metas)
	graph, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	dag.ReportCycles(idx, slots, topo)
	order := topo.BuildOrder()
	dag.PropagateBroken(idx, graph, slots, order)
	computeModuleHashes(graph, slots, order)
	done(fmt.Sprintf("%d modules", len(order)))

	done = phase(res.Timer, tracer, span, "analyze")
	res.Table = symbols.NewTable(tableHints(len(metas)), nil, nil)
	res.Table.SetTracer(tracer)
	analyzed := make(map[string]bool, len(order))
	for _, id := range order {
		if err := ctx.Err(); err != nil {
			span.End("canceled")
			return nil, err
		}
		slot := &slots[int(id)]
		if !slot.Present {
			continue
		}
		lr := files[slot.Meta.File]
		ev := Event{File: lr.Path, Module: slot.Meta.Name, Stage: StageAnalyze}
		if slot.Broken {
			ev.Status = StatusSkipped
			emit(opts.Progress, ev)
			continue
		}
		ev.Status = StatusWorking
		emit(opts.Progress, ev)
		a := newAnalyzer(res.Table, res.FileSet, slot.Meta, reporters[slot.Meta.Name])
		a.run(ctx)
		analyzed[slot.Meta.Name] = true
		ev.Status = StatusDone
		if lr.Bag.HasErrors() {
			ev.Status = StatusError
		}
		emit(opts.Progress, ev)
	}
	done(fmt.Sprintf("%d analyzed", len(analyzed)))
	if err := res.Table.Validate(); err != nil {
		span.End("invalid table")
		return nil, fmt.Errorf("symbol table: %w", err)
	}

	res.Bag = diag.NewBag(maxDiags)
	for _, lr := range loaded {
		mr := ModuleResult{Name: lr.Meta.Name, Path: lr.Path, Bag: lr.Bag}
		if lr.OK {
			if id, ok := idx.NameToID[lr.Meta.Name]; ok && slots[int(id)].Meta.File == lr.Meta.File {
				mr.Hash = slots[int(id)].Meta.ModuleHash
				mr.Analyzed = analyzed[lr.Meta.Name]
			}
		}
		res.Modules = append(res.Modules, mr)
		res.Bag.Merge(lr.Bag)
	}
	res.Bag.Sort()
	span.WithExtra("modules", strconv.Itoa(len(res.Modules))).
		WithExtra("diagnostics", strconv.Itoa(res.Bag.Len())).
		End("ok")
	return res, nil
}

// phase opens a timer phase and a pass span under parent; the returned
// function closes both.
func phase(timer *observ.Timer, tracer trace.Tracer, parent *trace.Span, name string) func(note string) {
	stop := timer.Phase(name)
	span := trace.Begin(tracer, trace.ScopePass, name, parent.ID())
	return func(note string) {
		stop(note)
		span.End(note)
	}
}

// computeModuleHashes folds each module's content hash with the hashes of
// its dependencies. order must list dependencies first; modules left out
// of it keep a zero hash.
func computeModuleHashes(g dag.Graph, slots []dag.ModuleSlot, order []dag.ModuleID) {
	for _, id := range order {
		slot := &slots[int(id)]
		if !slot.Present {
			continue
		}
		deps := make([]project.Digest, 0, len(g.Edges[int(id)]))
		for _, to := range g.Edges[int(id)] {
			if g.Present[int(to)] {
				deps = append(deps, slots[int(to)].Meta.ModuleHash)
			}
		}
		slot.Meta.ModuleHash = project.Combine(slot.Meta.ContentHash, deps...)
	}
}

func tableHints(modules int) symbols.Hints {
	n, err := safecast.Conv[uint](modules)
	if err != nil {
		n = 0
	}
	return symbols.Hints{Scopes: 4*n + 8, Symbols: 32*n + 64}
}

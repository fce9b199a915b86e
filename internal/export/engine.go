package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/cdlex/internal/assemble"
	"github.com/specialistvlad/cdlex/internal/classify"
	"github.com/specialistvlad/cdlex/internal/ctxlog"
	"github.com/specialistvlad/cdlex/internal/model"
	"github.com/specialistvlad/cdlex/internal/prune"
	"github.com/specialistvlad/cdlex/internal/resolve"
)

// Engine runs the export pipeline over flattened trees.
type Engine struct {
	classifier *classify.Classifier
	options    assemble.Options
	workers    int
}

// New creates an Engine. workers bounds the number of control sequences
// resolved concurrently; values below 1 are clamped to 1.
func New(classifier *classify.Classifier, options assemble.Options, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{classifier: classifier, options: options, workers: workers}
}

// Run executes one export transaction: classify, resolve every parameter of
// every qualified instance, prune connections, assemble. The memo table and
// cycle-detection state live in the per-run resolver and are discarded when
// Run returns.
func (e *Engine) Run(ctx context.Context, tree *model.Tree) (*assemble.ExportModel, error) {
	logger := ctxlog.FromContext(ctx)

	resolver := resolve.New(tree)
	roots := assemble.SequenceRoots(tree, e.classifier)
	logger.Debug("Export run started.", "instances", tree.Len(), "sequences", len(roots))

	params, err := e.resolveSequences(ctx, resolver, roots)
	if err != nil {
		return nil, err
	}

	buses := prune.IndexBuses(tree.Connections())
	pruned := prune.Prune(ctx, tree, e.classifier)

	out, err := assemble.Assemble(ctx, tree, e.classifier, params, pruned, buses, e.options)
	if err != nil {
		return nil, err
	}

	logger.Info("Export run finished.",
		"sequences", len(roots),
		"documents", len(out.Documents),
		"parameter_sets", len(out.ParameterSets),
		"connections", len(out.Connections),
		"boundary_ports", len(out.Boundary))
	return out, nil
}

// resolveSequences fans resolution out over independent sequence roots.
// Cancellation is cooperative between sequences, never mid-expression: each
// worker checks the context before starting its next root.
func (e *Engine) resolveSequences(ctx context.Context, resolver *resolve.Resolver,
	roots []*model.Instance) (map[string][]assemble.ResolvedParameter, error) {

	logger := ctxlog.FromContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan *model.Instance)
	params := make(map[string][]assemble.ResolvedParameter)

	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	for workerID := 0; workerID < e.workers; workerID++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for root := range jobs {
				if ctx.Err() != nil {
					continue
				}
				logger.Debug("Worker resolving sequence.", "workerID", workerID, "sequence", root.Path.String())
				resolved, err := e.resolveSubtree(ctx, resolver, root)
				if err != nil {
					fail(fmt.Errorf("resolving sequence %q: %w", root.Path.String(), err))
					continue
				}
				mu.Lock()
				for path, list := range resolved {
					params[path] = list
				}
				mu.Unlock()
			}
		}(workerID)
	}

	for _, root := range roots {
		jobs <- root
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return params, nil
}

// resolveSubtree resolves every declared parameter of every qualified
// instance under one sequence root. Descent stops at unqualified children,
// matching the assembler's document shape.
func (e *Engine) resolveSubtree(ctx context.Context, resolver *resolve.Resolver,
	root *model.Instance) (map[string][]assemble.ResolvedParameter, error) {

	out := make(map[string][]assemble.ResolvedParameter)
	var walk func(in *model.Instance) error
	walk = func(in *model.Instance) error {
		if len(in.Parameters) > 0 {
			resolved := make([]assemble.ResolvedParameter, 0, len(in.Parameters))
			for _, binding := range in.Parameters {
				result, err := resolver.Binding(ctx, in, binding.Name)
				if err != nil {
					return err
				}
				resolved = append(resolved, assemble.ResolvedParameter{Name: binding.Name, Value: result})
			}
			out[in.Path.String()] = resolved
		}
		for _, child := range in.Children {
			if !e.classifier.Qualified(child) {
				continue
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}

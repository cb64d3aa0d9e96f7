package pipeline

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/coolbeans/canonleg/pkg/types"
)

// Run processes every law group concurrently, one worker per law up to the
// given limit (0 means one per core). Laws share no mutable state, so this
// is a plain fan-out; only the sink and run report are guarded. A law whose
// identity invariant breaks is reported as aborted and skipped; a context
// cancellation abandons laws not yet started and returns the context error.
func (orchestrator *Orchestrator) Run(ctx context.Context, laws [][]types.RawProvisionRecord, sink Sink, workers int) (*types.RunReport, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	report := &types.RunReport{}
	var mu sync.Mutex

	for _, lawRows := range laws {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			output, err := orchestrator.ProcessLaw(lawRows)
			if err != nil {
				if errors.Is(err, ErrDuplicateSectionID) {
					// Row-scoped failures never reach here; this is the one
					// law-fatal condition. Record the abort and move on.
					mu.Lock()
					report.Add(output.Report)
					mu.Unlock()
					return nil
				}
				return err
			}

			if err := sink.WriteLaw(output); err != nil {
				return err
			}

			mu.Lock()
			report.Add(output.Report)
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return report, err
	}

	orchestrator.logger.Info("run complete",
		zap.Int("laws", len(report.Laws)),
		zap.Int("aborted", report.Aborted))

	return report, nil
}

// Copyright © 2021 Io FinNet Group, Inc.

package grow

import (
	"context"
	"math/big"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/iofinnet/primegrowth/common"
	"github.com/iofinnet/primegrowth/pocklington"
)

type workerResult struct {
	cert     *pocklington.Certificate
	attempts int
	err      error
}

// stepConcurrent races Concurrency independent workers against the same p and prime list.
// The first certificate wins and cancels the rest. If every worker fails, their errors are returned together.
//
// How fast a larger prime turns up is a matter of luck with the first draws, so several
// workers reach a certificate sooner on average than one worker with the same total budget.
func (g *Grower) stepConcurrent(ctx context.Context, p *big.Int) (*pocklington.Certificate, error) {
	concurrency := g.cfg.Concurrency
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// buffered so that no worker ever blocks on send after the winner is chosen
	resultCh := make(chan workerResult, concurrency)
	wg := &sync.WaitGroup{}
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		src := g.sources(i)
		go func(worker int) {
			defer wg.Done()
			cert, attempts, err := g.attempt(ctx, p, src)
			if err != nil {
				err = errors.Wrapf(err, "worker %d", worker)
			}
			resultCh <- workerResult{cert: cert, attempts: attempts, err: err}
		}(i)
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()
	// the losers observe the cancellation and exit before we return
	defer func() {
		cancel()
		for range resultCh {
		}
	}()

	var merr *multierror.Error
	attempts := 0
	for res := range resultCh {
		attempts += res.attempts
		if res.err == nil {
			return res.cert, nil
		}
		merr = multierror.Append(merr, res.err)
	}
	common.Logger.Warnf("grow: all %d workers failed from %s", concurrency, common.FormatBigInt(p))
	return nil, asExhaustion(merr.ErrorOrNil(), attempts)
}

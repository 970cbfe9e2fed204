// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"runtime"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner executes per-item work, sequentially or on a bounded pool
type Runner struct {
	concurrency int
}

// 🏗️ NewRunner creates a new runner. A concurrency below 1 uses one worker
// per CPU.
func NewRunner(concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = runtime.NumCPU()
	}
	return &Runner{concurrency: concurrency}
}

// Concurrency returns the maximum number of items processed at once
func (r *Runner) Concurrency() int {
	return r.concurrency
}

// 🏃 Run calls fn once for every index in [0, n). fn must not fail the run:
// per-item errors belong in the caller's results. Run stops scheduling new
// items once ctx is done and returns the context error only if some item
// never ran.
func (r *Runner) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	if r.concurrency == 1 || n <= 1 {
		return r.runSync(ctx, n, fn)
	}
	return r.runAsync(ctx, n, fn)
}

// 🔄 runSync runs every item on the calling goroutine
func (r *Runner) runSync(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			return errors.Errorf("operation cancelled after %d of %d items: %w", i, n, context.Cause(ctx))
		}
		fn(ctx, i)
	}
	return nil
}

// ⚡ runAsync runs items on at most r.concurrency goroutines
func (r *Runner) runAsync(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	var g errgroup.Group
	g.SetLimit(r.concurrency)

	scheduled := 0
	for ; scheduled < n; scheduled++ {
		if ctx.Err() != nil {
			break
		}
		i := scheduled
		g.Go(func() error {
			fn(ctx, i)
			return nil
		})
	}

	_ = g.Wait()

	if scheduled < n {
		return errors.Errorf("operation cancelled after %d of %d items: %w", scheduled, n, context.Cause(ctx))
	}
	return nil
}

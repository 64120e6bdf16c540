package assemble

import (
	"context"
	"os"
	"sync"

	"loom/internal/logging"
	"loom/internal/media/audioinfo"
)

type probeResult struct {
	info audioinfo.Info
	err  error
}

// probeAll extracts metadata for every path through a bounded worker pool.
// Results come back indexed by discovery position, so downstream consumers
// see path order no matter which worker finished first.
func (p *Pipeline) probeAll(ctx context.Context, paths []string) []probeResult {
	results := make([]probeResult, len(paths))
	jobs := p.Jobs
	if jobs < 1 {
		jobs = 1
	}
	if jobs > len(paths) {
		jobs = len(paths)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				info, err := p.probeOne(ctx, paths[i])
				results[i] = probeResult{info: info, err: err}
			}
		}()
	}
	for i := range paths {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return results
}

// probeOne consults the probe cache before falling back to header
// extraction. Cache failures degrade to a re-probe, never to a run failure.
func (p *Pipeline) probeOne(ctx context.Context, path string) (audioinfo.Info, error) {
	if p.Cache == nil {
		return p.Extractor.Probe(ctx, path)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return p.Extractor.Probe(ctx, path)
	}
	size, mtime := stat.Size(), stat.ModTime().Unix()

	if info, ok, err := p.Cache.Get(ctx, path, size, mtime); err != nil {
		p.logger.Warn("probe cache lookup failed",
			logging.String("path", path),
			logging.Error(err))
	} else if ok {
		return info, nil
	}

	info, err := p.Extractor.Probe(ctx, path)
	if err != nil {
		return info, err
	}
	if err := p.Cache.Put(ctx, path, size, mtime, info); err != nil {
		p.logger.Warn("probe cache store failed",
			logging.String("path", path),
			logging.Error(err))
	}
	return info, nil
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"runtime"
	"sync"
)

// workerPool clocks instances on several goroutines. Each step is a two
// phase barrier: fire hands every worker a disjoint slice of the instances to
// clock (tick), then waits until all of them are idle again (tock).
type workerPool struct {
	insts []*instance
	wc    []chan []InstanceEdge
	wg    sync.WaitGroup
}

func newWorkerPool(workers int, insts []*instance) *workerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers <= 0 {
		workers = 1
	}
	p := &workerPool{insts: insts}
	for i := 0; i < workers; i++ {
		wc := make(chan []InstanceEdge, 1)
		p.wc = append(p.wc, wc)
		go p.worker(wc)
	}
	return p
}

func (p *workerPool) size() int { return len(p.wc) }

func (p *workerPool) fire(edges []InstanceEdge) {
	size := len(edges) / len(p.wc)
	if size*len(p.wc) < len(edges) {
		size++
	}
	for i := 0; len(edges) > 0; i++ {
		n := min(size, len(edges))
		p.wg.Add(1)
		p.wc[i] <- edges[:n]
		edges = edges[n:]
	}
	p.wg.Wait()
}

func (p *workerPool) worker(wc <-chan []InstanceEdge) {
	for {
		edges, ok := <-wc
		if !ok {
			p.wg.Done()
			return
		}
		// instances still borrowed elsewhere are retried instead of
		// blocking the whole chunk.
		for len(edges) > 0 {
			var busy []InstanceEdge
			for _, e := range edges {
				if !p.insts[e.Handle].tryClock(e.Mask) {
					busy = append(busy, e)
				}
			}
			if edges = busy; len(edges) > 0 {
				runtime.Gosched()
			}
		}
		p.wg.Done()
	}
}

// dispose stops all workers.
func (p *workerPool) dispose() {
	p.wg.Add(len(p.wc))
	for _, wc := range p.wc {
		close(wc)
	}
	p.wg.Wait()
}

package game

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/blobs/neural"
)

// Below this many blobs the goroutine handoff costs more than it saves.
const parallelThreshold = 64

// actuationJob pairs an entity with the blob it owns for one step.
type actuationJob struct {
	entity ecs.Entity
	blob   *neural.Blob
	input  neural.Force
}

// span is a half-open range of jobs handed to one worker.
type span struct {
	lo, hi int
	done   *sync.WaitGroup
}

// actuationPool steps blob networks on a fixed set of goroutines. Jobs are
// gathered and applied on the caller's goroutine; workers only run Step,
// which touches nothing but the job's own blob.
type actuationPool struct {
	jobs    []actuationJob
	results []neural.Force
	workers int

	spans chan span
	quit  chan struct{}
	wg    sync.WaitGroup
	live  bool
}

func newActuationPool() *actuationPool {
	return &actuationPool{
		workers: runtime.GOMAXPROCS(0),
		jobs:    make([]actuationJob, 0, 1024),
		results: make([]neural.Force, 0, 1024),
	}
}

func (p *actuationPool) start(params neural.Params) {
	if p.live {
		return
	}
	p.spans = make(chan span, p.workers)
	p.quit = make(chan struct{})
	p.live = true
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.loop(params)
	}
}

func (p *actuationPool) loop(params neural.Params) {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case s := <-p.spans:
			p.run(s.lo, s.hi, params)
			s.done.Done()
		}
	}
}

func (p *actuationPool) run(lo, hi int, params neural.Params) {
	for i := lo; i < hi; i++ {
		job := &p.jobs[i]
		p.results[i] = job.blob.Step(job.input, params)
	}
}

// stop shuts the workers down. Safe to call on an idle pool.
func (p *actuationPool) stop() {
	if p == nil || !p.live {
		return
	}
	close(p.quit)
	p.wg.Wait()
	p.live = false
}

// dispatch splits the jobs evenly and blocks until every span is done.
func (p *actuationPool) dispatch(params neural.Params) {
	n := len(p.jobs)
	if n < parallelThreshold {
		p.run(0, n, params)
		return
	}
	p.start(params)

	var done sync.WaitGroup
	size := (n + p.workers - 1) / p.workers
	for lo := 0; lo < n; lo += size {
		done.Add(1)
		p.spans <- span{lo: lo, hi: min(lo+size, n), done: &done}
	}
	done.Wait()
}

// updateActuation gathers every blob with its last force, steps the
// networks and writes the new forces back.
func (g *Game) updateActuation() {
	p := g.parallel
	p.jobs = p.jobs[:0]

	query := g.blobFilter.Query()
	for query.Next() {
		_, _, force, _, tag := query.Get()
		if blob, ok := g.blobs[tag.ID]; ok {
			p.jobs = append(p.jobs, actuationJob{entity: query.Entity(), blob: blob, input: force.Force})
		}
	}
	if len(p.jobs) == 0 {
		return
	}

	p.results = append(p.results[:0], make([]neural.Force, len(p.jobs))...)
	p.dispatch(g.params)

	for i := range p.jobs {
		if force := g.forceMap.Get(p.jobs[i].entity); force != nil {
			force.Force = p.results[i]
		}
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	mandel "github.com/marben/mandelraster"
	"github.com/marben/mandelraster/raster"
)

// renderService runs renders on one shared renderer, at most cap(slots) at
// a time.
type renderService struct {
	renderer *raster.Renderer
	slots    chan struct{}

	active int
	m      sync.Mutex
}

func newRenderService(renderer *raster.Renderer, jobs int) *renderService {
	return &renderService{
		renderer: renderer,
		slots:    make(chan struct{}, max(jobs, 1)),
	}
}

// start waits for a free slot and starts rendering rd in the background.
// It fails only if ctx is done before a slot frees up.
func (s *renderService) start(ctx context.Context, rd render) (*renderJob, error) {
	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for a render slot: %w", context.Cause(ctx))
	}

	job := newRenderJob()
	opts := rd.opts
	opts.OnRow = job.rowFinished

	s.incActive()
	go func() {
		defer func() { <-s.slots }()
		defer s.decActive()
		defer func() {
			if p := recover(); p != nil {
				job.finish(mandel.Raster{}, fmt.Errorf("render %dx%d: %v", rd.viewport.Width, rd.viewport.Height, p))
			}
		}()
		img, err := s.renderer.RenderWith(rd.viewport, opts)
		job.finish(img, err)
	}()
	return job, nil
}

func (s *renderService) incActive() {
	s.m.Lock()
	s.active++
	a := s.active
	s.m.Unlock()

	log.Printf("renders: %d", a)
}

func (s *renderService) decActive() {
	s.m.Lock()
	s.active--
	a := s.active
	s.m.Unlock()

	log.Printf("renders: %d", a)
}

// renderJob tracks one running render.
type renderJob struct {
	ctx       context.Context
	ctxCancel context.CancelFunc

	// progress holds the latest unread fraction, if any.
	progress chan float32

	totalRows    int
	finishedRows int
	img          mandel.Raster
	err          error
	m            sync.Mutex
}

var _ mandel.RasterProvider = (*renderJob)(nil)

func newRenderJob() *renderJob {
	ctx, cancel := context.WithCancel(context.Background())
	return &renderJob{
		ctx:       ctx,
		ctxCancel: cancel,
		progress:  make(chan float32, 1),
	}
}

// rowFinished is the renderer's OnRow callback. It never blocks: a reader
// that falls behind only sees the newest fraction. The channel is updated
// under j.m so concurrent workers cannot replace a newer fraction with an
// older one.
func (j *renderJob) rowFinished(done, total int) {
	j.m.Lock()
	defer j.m.Unlock()
	if done > j.finishedRows {
		j.finishedRows = done
	}
	j.totalRows = total
	f := j.fraction()

	select {
	case <-j.progress:
	default:
	}
	select {
	case j.progress <- f:
	default:
	}
}

func (j *renderJob) finish(img mandel.Raster, err error) {
	defer log.Printf("finished: %f", j.finished())

	j.m.Lock()
	j.img, j.err = img, err
	j.m.Unlock()
	j.ctxCancel()
}

// done is closed once the render has finished.
func (j *renderJob) done() <-chan struct{} {
	return j.ctx.Done()
}

// finished returns the fraction of evaluated rows, between 0 and 1.
func (j *renderJob) finished() float32 {
	j.m.Lock()
	defer j.m.Unlock()
	return j.fraction()
}

func (j *renderJob) fraction() float32 {
	if j.totalRows == 0 {
		return 0
	}
	return float32(j.finishedRows) / float32(j.totalRows)
}

// GetRaster implements mandel.RasterProvider. It blocks until the render
// has finished.
func (j *renderJob) GetRaster() (mandel.Raster, error) {
	<-j.ctx.Done()
	j.m.Lock()
	defer j.m.Unlock()
	return j.img, j.err
}

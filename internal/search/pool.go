package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/LeonardoGonSantos/tracectl/internal/query"
)

// ErrPoolClosed is returned for searches submitted after Close.
var ErrPoolClosed = errors.New("search pool closed")

const (
	defaultWorkers   = 4
	defaultQueueSize = 64
)

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of concurrent searches. Default: 4.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithQueueSize sets how many searches may wait for a worker. Default: 64.
func WithQueueSize(n int) PoolOption {
	return func(p *Pool) {
		if n >= 0 {
			p.queueSize = n
		}
	}
}

// WithLogger sets the pool logger. Default: slog.Default().
func WithLogger(l *slog.Logger) PoolOption {
	return func(p *Pool) { p.logger = l }
}

type job struct {
	ctx   context.Context
	index string
	body  query.Body
	reply chan outcome
}

type outcome struct {
	result *Result
	err    error
}

// Pool runs searches on a fixed set of worker goroutines. Callers block only
// on their own job. Pool is itself a Client.
type Pool struct {
	client    Client
	workers   int
	queueSize int
	logger    *slog.Logger

	jobs      chan job
	quit      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewPool wraps client and starts the workers immediately.
func NewPool(client Client, opts ...PoolOption) *Pool {
	p := &Pool{
		client:    client,
		workers:   defaultWorkers,
		queueSize: defaultQueueSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.jobs = make(chan job, p.queueSize)
	p.quit = make(chan struct{})

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.work()
	}
	return p
}

// Search queues the search and waits for its result. Store errors are
// returned unchanged.
func (p *Pool) Search(ctx context.Context, index string, body query.Body) (*Result, error) {
	j := job{ctx: ctx, index: index, body: body, reply: make(chan outcome, 1)}

	select {
	case <-p.quit:
		return nil, ErrPoolClosed
	default:
	}

	select {
	case p.jobs <- j:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.quit:
		return nil, ErrPoolClosed
	}

	select {
	case out := <-j.reply:
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.quit:
		return nil, ErrPoolClosed
	}
}

// Close stops the workers after their current search. Queued searches fail
// with ErrPoolClosed.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.wg.Wait()
	})
}

func (p *Pool) work() {
	defer p.wg.Done()
	for {
		select {
		case <-p.quit:
			return
		case j := <-p.jobs:
			if j.ctx.Err() != nil {
				j.reply <- outcome{err: j.ctx.Err()}
				continue
			}
			res, err := p.client.Search(j.ctx, j.index, j.body)
			if err != nil {
				p.logger.Debug("search failed", "index", j.index, "error", err)
			}
			j.reply <- outcome{result: res, err: err}
		}
	}
}

// Package dryrun implements the config-PR preview harness (§4.8): a
// single-worker FIFO queue that, for each enqueued pull request, polls
// for a merge commit, shells out to the reconciler against that
// commit's config with mutations disabled, and publishes the colorized
// output as a gist-backed check-run image.
package dryrun

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Task is one pull-request preview request.
type Task struct {
	Org        string
	Repo       string
	Number     int
	HeadSHA    string
	MergeSHA   string
	CheckRunID int64
}

// Queue is the single-worker FIFO (§5, "dry-run harness uses a
// single-worker FIFO queue shared across webhook deliveries"). Tasks
// execute strictly in enqueue order; a task that panics or errors is
// logged and the worker moves on to the next one.
type Queue struct {
	tasks   chan Task
	run     func(context.Context, Task)
	log     *logrus.Entry
}

// NewQueue starts the worker goroutine immediately, bound to ctx. The
// worker exits as soon as ctx is cancelled, leaving any still-queued
// tasks unrun; after Close it runs what is already queued and exits.
func NewQueue(ctx context.Context, run func(context.Context, Task)) *Queue {
	q := &Queue{
		tasks: make(chan Task, 64),
		run:   run,
		log:   logrus.WithField("component", "dryrun-queue"),
	}
	go q.worker(ctx)
	return q
}

func (q *Queue) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-q.tasks:
			if !ok {
				return
			}
			func() {
				defer func() {
					if rec := recover(); rec != nil {
						q.log.WithField("pr", t.Number).Errorf("dry-run task panicked: %v", rec)
					}
				}()
				q.run(ctx, t)
			}()
		}
	}
}

// Enqueue appends t to the back of the queue. It never blocks the
// webhook handler beyond the channel's buffer; a full buffer (64
// outstanding dry-runs) is a signal something upstream is stuck, not a
// case this harness tries to handle gracefully.
func (q *Queue) Enqueue(t Task) {
	select {
	case q.tasks <- t:
	default:
		q.log.WithField("pr", t.Number).Warn("dry-run queue full, dropping task")
	}
}

// Close stops accepting new tasks. In-flight and already-queued tasks
// still run as long as the worker's ctx is not cancelled; the caller is expected to have already stopped the HTTP
// listener (§5, "in-flight tasks are allowed to complete").
func (q *Queue) Close() {
	close(q.tasks)
}

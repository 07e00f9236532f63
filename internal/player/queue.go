package player

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const commandTimeout = 5 * time.Second

type command struct {
	name string
	run  func(ctx context.Context) error
}

// commandQueue hands media commands to a single worker so they reach the
// media in call order without blocking the caller.
type commandQueue struct {
	log  logrus.FieldLogger
	ch   chan command
	done chan struct{}
	sync bool
}

func newCommandQueue(log logrus.FieldLogger, sync bool) *commandQueue {
	q := &commandQueue{
		log:  log,
		ch:   make(chan command, 64),
		done: make(chan struct{}),
		sync: sync,
	}
	if sync {
		close(q.done)
		return q
	}
	go q.loop()
	return q
}

func (q *commandQueue) submit(name string, run func(ctx context.Context) error) {
	cmd := command{name: name, run: run}
	if q.sync {
		q.exec(cmd)
		return
	}
	q.ch <- cmd
}

func (q *commandQueue) loop() {
	defer close(q.done)
	for cmd := range q.ch {
		q.exec(cmd)
	}
}

func (q *commandQueue) exec(cmd command) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if err := cmd.run(ctx); err != nil {
		q.log.WithError(err).WithField("command", cmd.name).Warn("media command failed")
		return
	}
	q.log.WithField("command", cmd.name).Debug("media command sent")
}

// close drains pending commands and waits for the worker to exit.
func (q *commandQueue) close() {
	if !q.sync {
		close(q.ch)
	}
	<-q.done
}

package logger

import (
	"bufio"
	"errors"
	"io"
	"sync"
)

// sink fans log lines out to its writers from a single goroutine so handlers
// never block on slow outputs unless the queue is full.
type sink struct {
	lines   chan []byte
	flushes chan chan error
	done    chan struct{}
	close   sync.Once

	out *bufio.Writer

	mu  sync.Mutex
	err error
}

func newSink(writers []io.Writer, bufSize int) *sink {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	live := writers[:0:0]
	for _, w := range writers {
		if w != nil {
			live = append(live, w)
		}
	}
	s := &sink{
		lines:   make(chan []byte, 256),
		flushes: make(chan chan error),
		done:    make(chan struct{}),
		out:     bufio.NewWriterSize(io.MultiWriter(live...), bufSize),
	}
	go s.run()
	return s
}

func (s *sink) run() {
	defer close(s.done)
	for {
		select {
		case line, ok := <-s.lines:
			if !ok {
				s.fail(s.out.Flush())
				return
			}
			s.write(line)
			// Flush per line unless more are queued.
			if len(s.lines) == 0 {
				s.fail(s.out.Flush())
			}
		case ack := <-s.flushes:
			s.drain()
			ack <- s.out.Flush()
		}
	}
}

func (s *sink) write(line []byte) {
	if _, err := s.out.Write(line); err != nil {
		s.fail(err)
	}
}

// drain writes every line queued so far.
func (s *sink) drain() {
	for {
		select {
		case line, ok := <-s.lines:
			if !ok {
				return
			}
			s.write(line)
		default:
			return
		}
	}
}

// Write queues a copy of p. It blocks only when the queue is full.
func (s *sink) Write(p []byte) error {
	if err := s.failure(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	s.lines <- append([]byte(nil), p...)
	return nil
}

// Flush waits until queued lines reach the writers.
func (s *sink) Flush() error {
	if err := s.failure(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	select {
	case s.flushes <- ack:
		return <-ack
	case <-s.done:
		return s.failure()
	}
}

// Close drains the queue and returns the first write error seen.
func (s *sink) Close() error {
	s.close.Do(func() { close(s.lines) })
	<-s.done
	return s.failure()
}

func (s *sink) fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = errors.Join(errors.New("logger: write failed"), err)
	}
}

func (s *sink) failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

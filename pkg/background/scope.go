package background

import (
	"context"
	"sync"
)

// Scope - joins a group of background goroutines under one cancelable
// context, so related workers stop and drain together.
type Scope struct {
	ctx       context.Context
	ctxCancel context.CancelFunc
	scope     sync.WaitGroup
}

// NewScope - concurrency scope builder. The returned cancel func expires
// the scope context and blocks until every registered member is done.
func NewScope() (scope *Scope, cancel func()) {
	ctx, cancelFunc := context.WithCancel(context.Background())
	s := &Scope{
		ctx:       ctx,
		ctxCancel: cancelFunc,
		scope:     sync.WaitGroup{},
	}
	return s,
		func() {
			s.ctxCancel()
			s.scope.Wait()
		}
}

// Context - returns scope context to watch for cancellation.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Add - registers scope members.
// Based on sync.WaitGroup.
func (s *Scope) Add(delta int) {
	s.scope.Add(delta)
}

// Done - notifies scope when a member is done.
// Based on sync.WaitGroup.
func (s *Scope) Done() {
	s.scope.Done()
}

// Go - runs f as a scope member in a new goroutine, passing the scope
// context and tracking the goroutine until it returns.
func (s *Scope) Go(f func(ctx context.Context)) {
	s.scope.Add(1)
	go func() {
		defer s.scope.Done()
		f(s.ctx)
	}()
}

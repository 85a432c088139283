package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// receive - Receive with a short safety timeout so a broken bus fails the
// test instead of hanging it.
func receive(test *testing.T, s *Subscriber) (Message, error) {
	test.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	return s.Receive(ctx)
}

func TestNew_InvalidCapacity(test *testing.T) {
	_, err := New(WithCapacity(0))
	assert.Error(test, err)
	_, err = New(WithCapacity(-1))
	assert.Error(test, err)
}

func TestBus_Publish_NoSubscribers(test *testing.T) {
	b, err := New()
	require.NoError(test, err)
	assert.Equal(test, 0, b.Publish(msg("nobody listens")))
}

func TestBus_FanOut(test *testing.T) {
	b, err := New()
	require.NoError(test, err)

	first := b.Subscribe()
	second := b.Subscribe()

	assert.Equal(test, 2, b.Publish(msg("one")))
	assert.Equal(test, 2, b.Publish(msg("two")))

	for _, s := range []*Subscriber{first, second} {
		m, err := receive(test, s)
		require.NoError(test, err)
		assert.Equal(test, "one", m.Text)

		m, err = receive(test, s)
		require.NoError(test, err)
		assert.Equal(test, "two", m.Text)
	}
}

func TestBus_Subscribe_NoRetroactiveDelivery(test *testing.T) {
	b, err := New()
	require.NoError(test, err)

	early := b.Subscribe()
	b.Publish(msg("before"))

	late := b.Subscribe()
	b.Publish(msg("after"))

	m, err := receive(test, early)
	require.NoError(test, err)
	assert.Equal(test, "before", m.Text)

	m, err = receive(test, late)
	require.NoError(test, err)
	assert.Equal(test, "after", m.Text, "late subscriber must start with the next published message")
}

func TestSubscriber_Receive_BlocksUntilPublish(test *testing.T) {
	b, err := New()
	require.NoError(test, err)
	s := b.Subscribe()

	got := make(chan Message, 1)
	go func() {
		m, err := s.Receive(context.Background())
		if err == nil {
			got <- m
		}
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-got:
		test.Fatal("Receive returned before anything was published")
	default:
	}

	b.Publish(msg("wakeup"))
	select {
	case m := <-got:
		assert.Equal(test, "wakeup", m.Text)
	case <-time.After(250 * time.Millisecond):
		test.Fatal("Receive did not wake up on publish")
	}
}

func TestSubscriber_Lag(test *testing.T) {
	b, err := New(WithCapacity(2))
	require.NoError(test, err)
	s := b.Subscribe()

	for _, text := range []string{"1", "2", "3", "4", "5"} {
		b.Publish(msg(text))
	}

	_, err = receive(test, s)
	var lag *LagError
	require.ErrorAs(test, err, &lag)
	assert.Equal(test, uint64(3), lag.Missed)

	// after the lag report, delivery resumes from the oldest survivor
	m, err := receive(test, s)
	require.NoError(test, err)
	assert.Equal(test, "4", m.Text)

	m, err = receive(test, s)
	require.NoError(test, err)
	assert.Equal(test, "5", m.Text)
}

func TestSubscriber_Receive_ContextCanceled(test *testing.T) {
	b, err := New()
	require.NoError(test, err)
	s := b.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Receive(ctx)
	assert.ErrorIs(test, err, context.Canceled)
}

func TestSubscriber_Close(test *testing.T) {
	b, err := New()
	require.NoError(test, err)

	s := b.Subscribe()
	s.Close()
	s.Close() // repeated close is a no-op

	assert.Equal(test, 0, b.Publish(msg("into the void")))
	_, err = receive(test, s)
	assert.ErrorIs(test, err, ErrClosed)
}

func TestBus_Close(test *testing.T) {
	b, err := New()
	require.NoError(test, err)
	s := b.Subscribe()

	done := make(chan error, 1)
	go func() {
		_, err := s.Receive(context.Background())
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	b.Close()
	b.Close() // repeated close is a no-op

	select {
	case err := <-done:
		assert.ErrorIs(test, err, ErrClosed)
	case <-time.After(250 * time.Millisecond):
		test.Fatal("Receive did not observe bus close")
	}

	assert.Equal(test, 0, b.Publish(msg("dropped")))

	// subscribing to a closed bus yields an already-closed subscriber
	_, err = receive(test, b.Subscribe())
	assert.ErrorIs(test, err, ErrClosed)
}

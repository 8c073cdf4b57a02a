package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBreakerIsClosed(t *testing.T) {
	b := New("redis")
	assert.Equal(t, "redis", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
}

func TestBreakerTransitions(t *testing.T) {
	b := New("redis", WithFailureThreshold(3), WithSuccessThreshold(2))

	fallback, change := b.RecordFailure()
	assert.False(t, fallback)
	assert.False(t, change.Opened)
	b.RecordFailure()

	fallback, change = b.RecordFailure()
	assert.True(t, fallback, "third failure opens")
	assert.True(t, change.Opened)
	assert.Equal(t, "open", b.State().String())

	fallback, change = b.RecordFailure()
	assert.True(t, fallback)
	assert.False(t, change.Opened, "already open")

	primary, change := b.RecordSuccess()
	assert.False(t, primary)
	assert.False(t, change.Closed)

	primary, change = b.RecordSuccess()
	assert.True(t, primary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestSuccessWhileClosedResetsFailures(t *testing.T) {
	b := New("redis", WithFailureThreshold(2))
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	assert.False(t, b.IsOpen())
}

func TestFailureWhileOpenResetsSuccesses(t *testing.T) {
	b := New("redis", WithFailureThreshold(1), WithSuccessThreshold(2))
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordSuccess()
	assert.True(t, b.IsOpen(), "successes must be consecutive")
	b.RecordSuccess()
	assert.False(t, b.IsOpen())
}

func TestIgnoredThresholds(t *testing.T) {
	b := New("redis", WithFailureThreshold(0), WithSuccessThreshold(-1))
	for range 4 {
		b.RecordFailure()
	}
	assert.False(t, b.IsOpen(), "non-positive thresholds keep defaults")
	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreakerConcurrentUse(t *testing.T) {
	b := New("redis", WithFailureThreshold(100))
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.RecordFailure()
			b.RecordFailure()
		}()
	}
	wg.Wait()
	assert.True(t, b.IsOpen())
}

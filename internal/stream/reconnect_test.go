package stream

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestReconnector_LinearDelays(t *testing.T) {
	rec := &reconnector{
		baseDelay:   time.Second,
		maxDelay:    5 * time.Second,
		maxAttempts: 10,
		clk:         clock.New(),
		logger:      slog.Default(),
	}

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 3 * time.Second},
		{5, 5 * time.Second},
		{6, 5 * time.Second}, // capped
		{10, 5 * time.Second},
	}

	for _, tc := range cases {
		if got := rec.delayFor(tc.attempt); got != tc.want {
			t.Errorf("delayFor(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestReconnector_StopsAfterMaxAttempts(t *testing.T) {
	rec := &reconnector{
		baseDelay:   time.Millisecond,
		maxDelay:    10 * time.Millisecond,
		maxAttempts: 3,
		clk:         clock.New(),
		logger:      slog.Default(),
	}

	attempts := 0
	err := rec.run(make(chan struct{}), func() error {
		attempts++
		return errors.New("refused")
	})

	if attempts != 3 {
		t.Errorf("connect called %d times, want exactly 3", attempts)
	}
	if !errors.Is(err, ErrReconnectFailed) {
		t.Errorf("err = %v, want ErrReconnectFailed", err)
	}
}

func TestReconnector_SucceedsMidway(t *testing.T) {
	rec := &reconnector{
		baseDelay:   time.Millisecond,
		maxDelay:    10 * time.Millisecond,
		maxAttempts: 5,
		clk:         clock.New(),
		logger:      slog.Default(),
	}

	attempts := 0
	err := rec.run(make(chan struct{}), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("refused")
		}
		return nil
	})

	if err != nil {
		t.Errorf("run failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("connect called %d times, want 3", attempts)
	}
}

func TestReconnector_AbortsOnDone(t *testing.T) {
	mock := clock.NewMock()
	rec := &reconnector{
		baseDelay:   time.Second,
		maxDelay:    time.Minute,
		maxAttempts: 5,
		clk:         mock,
		logger:      slog.Default(),
	}

	done := make(chan struct{})
	result := make(chan error, 1)
	go func() {
		result <- rec.run(done, func() error {
			return errors.New("refused")
		})
	}()

	// The loop is parked on the mock timer; closing done must end it
	// without another attempt.
	time.Sleep(10 * time.Millisecond)
	close(done)

	select {
	case err := <-result:
		if err != ErrClientClosed {
			t.Errorf("err = %v, want ErrClientClosed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run did not return after done closed")
	}
}

func TestReconnector_MockClockSchedule(t *testing.T) {
	mock := clock.NewMock()
	rec := &reconnector{
		baseDelay:   time.Second,
		maxDelay:    time.Minute,
		maxAttempts: 2,
		clk:         mock,
		logger:      slog.Default(),
	}

	attempts := make(chan int, 2)
	n := 0
	result := make(chan error, 1)
	go func() {
		result <- rec.run(make(chan struct{}), func() error {
			n++
			attempts <- n
			return errors.New("refused")
		})
	}()

	// Attempt 1 fires after base × 1.
	time.Sleep(10 * time.Millisecond)
	mock.Add(time.Second)
	select {
	case <-attempts:
	case <-time.After(time.Second):
		t.Fatal("attempt 1 never fired")
	}

	// Attempt 2 fires only after a further base × 2.
	time.Sleep(10 * time.Millisecond)
	mock.Add(time.Second)
	select {
	case <-attempts:
		t.Fatal("attempt 2 fired after only 1s, want 2s")
	case <-time.After(50 * time.Millisecond):
	}

	mock.Add(time.Second)
	select {
	case <-attempts:
	case <-time.After(time.Second):
		t.Fatal("attempt 2 never fired")
	}

	select {
	case err := <-result:
		if !errors.Is(err, ErrReconnectFailed) {
			t.Errorf("err = %v, want ErrReconnectFailed", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run did not return")
	}
}

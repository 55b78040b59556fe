package framework

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testMsg struct {
	val int
}

func (m *testMsg) NewMessage() Message { return &testMsg{} }

func TestLoopStepDelta(t *testing.T) {
	var deltas []time.Duration
	l := NewLoop()
	l.AddController(PrLvSimulate, ControlFunc(func(cc ControlContext) error {
		deltas = append(deltas, cc.Delta())
		return nil
	}))
	base := time.Unix(1000, 0)
	ctx := context.Background()
	l.Step(ctx, base)
	l.Step(ctx, base.Add(16*time.Millisecond))
	l.Step(ctx, base.Add(50*time.Millisecond))
	// time going backwards yields no delta.
	l.Step(ctx, base.Add(40*time.Millisecond))
	require.Equal(t, []time.Duration{0, 16 * time.Millisecond, 34 * time.Millisecond, 0}, deltas)
	require.EqualValues(t, 4, l.Frames())
}

func TestLoopMessages(t *testing.T) {
	l := NewLoop()
	var seen, left []int
	l.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			m := mctx.CurrentMessage().(*testMsg)
			seen = append(seen, m.val)
			if m.val%2 == 0 {
				mctx.MessageTaken()
			}
		}))
		return nil
	}))
	l.AddController(PrLvIdle, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			left = append(left, mctx.CurrentMessage().(*testMsg).val)
			mctx.MessageTaken()
		}))
		return nil
	}))
	for i := 1; i <= 4; i++ {
		l.PostMessage(&testMsg{val: i})
	}
	l.Step(context.Background(), time.Now())
	require.Equal(t, []int{1, 2, 3, 4}, seen)
	require.Equal(t, []int{1, 3}, left)

	seen, left = nil, nil
	l.Step(context.Background(), time.Now())
	require.Empty(t, seen)
	require.Empty(t, left)
}

func TestLoopStopProcessing(t *testing.T) {
	l := NewLoop()
	var first, second []int
	l.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			first = append(first, mctx.CurrentMessage().(*testMsg).val)
			mctx.MessageTaken()
			mctx.StopProcessing()
		}))
		return nil
	}))
	l.AddController(PrLvIdle, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mctx MessageProcessingContext) {
			second = append(second, mctx.CurrentMessage().(*testMsg).val)
		}))
		return nil
	}))
	l.PostMessage(&testMsg{val: 1})
	l.PostMessage(&testMsg{val: 2})
	l.PostMessage(&testMsg{val: 3})
	l.Step(context.Background(), time.Now())
	require.Equal(t, []int{1}, first)
	require.Equal(t, []int{2, 3}, second)
}

func TestLoopHooks(t *testing.T) {
	l := NewLoop()
	var order []string
	l.AddController(PrLvNormal, ControlFunc(func(cc ControlContext) error {
		order = append(order, "ctl")
		cc.PostRun(ControlFunc(func(ControlContext) error {
			order = append(order, "post")
			return nil
		}))
		return errors.New("logged only")
	}))
	l.PreRunAt(PrLvNormal, ControlFunc(func(ControlContext) error {
		order = append(order, "pre")
		return nil
	}))
	l.Step(context.Background(), time.Now())
	require.Equal(t, []string{"pre", "ctl", "post"}, order)
}

func TestLoopRunCanceled(t *testing.T) {
	l := NewLoop().WithFrameRate(1000)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Run(ctx)
	require.Equal(t, context.DeadlineExceeded, err)
	require.True(t, l.Frames() > 0)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errs.Add(nil).Check(true, "never").Check(false, "value %d", 1)
	require.EqualError(t, errs.Aggregate(), "value 1")
	errs.Addf("value %d", 2)
	require.EqualError(t, errs.Aggregate(), "Multiple errors:\nvalue 1\nvalue 2")
}

func TestRunnerWait(t *testing.T) {
	failure := errors.New("failed")
	r := NewRunner()
	r.StopOnError = true
	r.Go(
		RunnableFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
		NamedRun("fail", RunnableFunc(func(context.Context) error {
			return failure
		})),
	)
	require.EqualError(t, r.Wait(), failure.Error())
}

func TestRunnerStop(t *testing.T) {
	r := NewRunner().Go(RunnableFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return fmt.Errorf("stopped: %w", ctx.Err())
	}))
	r.Stop()
	require.NoError(t, r.Wait())
}

func TestRunWithContextCloser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	closer := closerFunc(func() error {
		close(unblock)
		return nil
	})
	done := make(chan error, 1)
	go func() {
		done <- RunWithContextCloser(ctx, closer, func() error {
			<-unblock
			return nil
		})
	}()
	cancel()
	require.Equal(t, context.Canceled, <-done)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

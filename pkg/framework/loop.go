package framework

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultFrameInterval is the frame period used when Loop.Interval is zero.
const DefaultFrameInterval = time.Second / 60

// Loop drives frames: on every frame, controllers are executed
// level by level with the messages collected since the previous frame.
type Loop struct {
	Interval time.Duration

	controllers [PriorityLevels]controllerList

	runners []Runnable

	messages messageList
	lock     sync.Mutex

	lastFrame time.Time
	frames    uint64

	wakeUpCh chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopCtl struct {
	*Loop
}

type frame struct {
	loopCtl
	ctx           context.Context
	time          time.Time
	delta         time.Duration
	priorityLevel int
	messages      messageList
}

type messageList struct {
	head *messageItem
	tail *messageItem
}

type messageItem struct {
	msg  Message
	next *messageItem
}

func (l *messageList) append(item *messageItem) {
	if l.head == nil {
		l.head = item
	} else {
		l.tail.next = item
	}
	l.tail = item
}

func (l *messageList) splice(src *messageList) {
	l.head, l.tail, src.head = src.head, src.tail, nil
}

func (l *messageList) concat(lst *messageList) {
	if l.head == nil {
		l.head = lst.head
	} else {
		l.tail.next = lst.head
	}
	if lst.head != nil {
		l.tail = lst.tail
	}
}

type controllerList struct {
	preHooks    []Controller
	controllers []Controller
	postHooks   []Controller
	lock        sync.Mutex
}

var (
	loopCtxKey = &Loop{}
)

// LoopCtlFrom gets LoopControl from context.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey).(LoopControl)
}

// CtlCtxFrom gets ControlContext from context.
func CtlCtxFrom(ctx context.Context) ControlContext {
	return ctx.Value(loopCtxKey).(ControlContext)
}

// NewLoop creates a Loop running at the default frame rate.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultFrameInterval}
}

// WithFrameRate sets Interval from frames per second.
func (l *Loop) WithFrameRate(fps float64) *Loop {
	if fps > 0 {
		l.Interval = time.Duration(float64(time.Second) / fps)
	}
	return l
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	lst := &l.controllers[priorityLevel]
	lst.controllers = append(lst.controllers, ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Frames returns the number of frames executed.
func (l *Loop) Frames() uint64 {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.frames
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}

	runner := NewRunnerWith(context.WithValue(ctx, loopCtxKey, &loopCtl{l}))
	runner.Go(l.runners...)
	defer runner.Wait()
	defer runner.Stop()

	interval := l.Interval
	if interval == 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			l.Step(ctx, now)
		case <-l.wakeUpCh:
			l.Step(ctx, time.Now())
		}
	}
}

// RunOrFail is intended to be used in main to simply run the loop.
func (l *Loop) RunOrFail() {
	if err := l.Run(context.TODO()); err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}

// Step executes a single frame at the specified time.
// Frames driven by Step are deterministic given the sequence of now values,
// which is how hosts without a real clock (tests, shells, replays) use the loop.
func (l *Loop) Step(ctx context.Context, now time.Time) {
	f := &frame{loopCtl: loopCtl{l}, time: now}
	l.lock.Lock()
	if !l.lastFrame.IsZero() && now.After(l.lastFrame) {
		f.delta = now.Sub(l.lastFrame)
	}
	l.lastFrame = now
	l.frames++
	f.messages.splice(&l.messages)
	l.lock.Unlock()
	f.ctx = context.WithValue(ctx, loopCtxKey, f)
	for i := 0; i < PriorityLevels; i++ {
		f.priorityLevel = i
		l.controllers[i].run(f)
	}
}

// PreRunAt implements LoopControl.
func (l *Loop) PreRunAt(priorityLevel int, hooks ...Controller) {
	lst := &l.controllers[priorityLevel]
	lst.lock.Lock()
	lst.preHooks = append(lst.preHooks, hooks...)
	lst.lock.Unlock()
}

// PostRunAt implements LoopControl.
func (l *Loop) PostRunAt(priorityLevel int, hooks ...Controller) {
	lst := &l.controllers[priorityLevel]
	lst.lock.Lock()
	lst.postHooks = append(lst.postHooks, hooks...)
	lst.lock.Unlock()
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.messages.append(&messageItem{msg: msg})
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	if l.wakeUpCh == nil {
		return
	}
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

func (f *frame) Context() context.Context {
	return f.ctx
}

func (f *frame) Time() time.Time {
	return f.time
}

func (f *frame) Delta() time.Duration {
	return f.delta
}

func (f *frame) PriorityLevel() int {
	return f.priorityLevel
}

func (f *frame) Messages() MessageStore {
	return f
}

func (f *frame) PostRun(hooks ...Controller) {
	f.PostRunAt(f.priorityLevel, hooks...)
}

// MessageStore implementations

type messageContext struct {
	frame *frame
	item  *messageItem
	taken bool
	stop  bool
}

func (c *messageContext) CurrentMessage() Message     { return c.item.msg }
func (c *messageContext) MessageTaken()               { c.taken = true }
func (c *messageContext) StopProcessing()             { c.stop = true }
func (c *messageContext) AddMessages(msgs ...Message) { c.frame.AddMessages(msgs...) }

func (f *frame) ProcessMessages(proc MessageProcessor) {
	var msgs, remains messageList
	msgs.splice(&f.messages)
	for msgs.head != nil {
		mctx := &messageContext{frame: f, item: msgs.head}
		msgs.head = msgs.head.next
		mctx.item.next = nil
		proc.ProcessMessage(mctx)
		if !mctx.taken {
			remains.append(mctx.item)
		}
		if mctx.stop {
			remains.concat(&msgs)
			break
		}
	}
	remains.concat(&f.messages)
	f.messages = remains
}

func (f *frame) AddMessages(msgs ...Message) {
	for _, msg := range msgs {
		f.messages.append(&messageItem{msg: msg})
	}
}

func (c *controllerList) run(f *frame) {
	c.lock.Lock()
	ctls := c.preHooks
	c.preHooks = nil
	c.lock.Unlock()
	runControllers(f, ctls)
	runControllers(f, c.controllers)
	c.lock.Lock()
	ctls, c.postHooks = c.postHooks, nil
	c.lock.Unlock()
	runControllers(f, ctls)
}

func runControllers(f *frame, ctls []Controller) {
	for _, ctl := range ctls {
		if err := ctl.Control(f); err != nil {
			glog.Errorf("controller error: %v", err)
		}
	}
}

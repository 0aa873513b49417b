package locomotion

import (
	"errors"
	"math"
	"testing"

	"github.com/insect2d/insect2d/timer"
)

var testClips = Clips{
	Idle:        "idle",
	PreRun:      "pre_run",
	Running:     "run",
	StopRunning: "run_stop",
}

type clipInfo struct {
	length float64
	frames int
}

type fakeMovement struct {
	velocity Vector
	falling  bool
}

func (f *fakeMovement) Velocity() Vector { return f.velocity }
func (f *fakeMovement) IsFalling() bool  { return f.falling }

type fakeAnimation struct {
	info    map[Clip]clipInfo
	current Clip
	calls   []Clip
}

func (f *fakeAnimation) SetClip(c Clip) {
	f.calls = append(f.calls, c)
	f.current = c
}

func (f *fakeAnimation) ClipLength() float64 { return f.info[f.current].length }
func (f *fakeAnimation) ClipFrameCount() int { return f.info[f.current].frames }

func (f *fakeAnimation) count(c Clip) int {
	n := 0
	for _, call := range f.calls {
		if call == c {
			n++
		}
	}
	return n
}

type recordingScheduler struct {
	*timer.Queue
	delays []float64
}

func (s *recordingScheduler) ScheduleOnce(delay float64, fn func()) timer.Handle {
	s.delays = append(s.delays, delay)
	return s.Queue.ScheduleOnce(delay, fn)
}

type fakeFacing struct {
	yaw   float64
	calls int
}

func (f *fakeFacing) SetFacing(yaw float64) {
	f.yaw = yaw
	f.calls++
}

type harness struct {
	m      *Machine
	move   *fakeMovement
	anim   *fakeAnimation
	sched  *recordingScheduler
	facing *fakeFacing
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		move: &fakeMovement{},
		anim: &fakeAnimation{
			current: testClips.Idle,
			info: map[Clip]clipInfo{
				testClips.Idle:        {length: 2.0, frames: 3},
				testClips.PreRun:      {length: 0.5, frames: 4},
				testClips.Running:     {length: 1.2, frames: 5},
				testClips.StopRunning: {length: 0.9, frames: 2},
			},
		},
		sched:  &recordingScheduler{Queue: timer.NewQueue()},
		facing: &fakeFacing{},
	}
	m, err := New(Config{
		Clips:     testClips,
		Movement:  h.move,
		Animation: h.anim,
		Scheduler: h.sched,
		Facing:    h.facing,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.m = m
	return h
}

func (h *harness) fire(t *testing.T, delay float64) {
	t.Helper()
	h.sched.Advance(delay + 1e-9)
}

func (h *harness) lastDelay(t *testing.T) float64 {
	t.Helper()
	if len(h.sched.delays) == 0 {
		t.Fatalf("expected a scheduled re-check")
	}
	return h.sched.delays[len(h.sched.delays)-1]
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// driveToRunning moves the machine from rest into the Running phase.
func (h *harness) driveToRunning(t *testing.T) {
	t.Helper()
	h.move.velocity = Vector{X: 1}
	h.m.Tick()
	h.fire(t, h.lastDelay(t))
	if h.m.RunPhase() != Running {
		t.Fatalf("expected running phase, got %s", h.m.RunPhase())
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	move := &fakeMovement{}
	anim := &fakeAnimation{}
	sched := timer.NewQueue()
	facing := &fakeFacing{}

	cases := []struct {
		name string
		cfg  Config
	}{
		{"movement", Config{Animation: anim, Scheduler: sched, Facing: facing}},
		{"animation", Config{Movement: move, Scheduler: sched, Facing: facing}},
		{"scheduler", Config{Movement: move, Animation: anim, Facing: facing}},
		{"facing", Config{Movement: move, Animation: anim, Scheduler: sched}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := New(c.cfg)
			if !errors.Is(err, ErrMissingCollaborator) {
				t.Fatalf("expected ErrMissingCollaborator, got %v", err)
			}
			if want := "locomotion: missing collaborator: " + c.name; err.Error() != want {
				t.Fatalf("error = %q, want %q", err.Error(), want)
			}
			if m != nil {
				t.Fatalf("expected nil machine")
			}
		})
	}
}

func TestTickFallingAlwaysSelectsIdle(t *testing.T) {
	velocities := []Vector{{}, {X: 5}, {X: -3, Y: 10}, {Y: -800}}
	for _, v := range velocities {
		h := newHarness(t)
		h.move.falling = true
		h.move.velocity = v
		for i := 1; i <= 3; i++ {
			h.m.Tick()
			if h.m.Status() != StatusFall {
				t.Fatalf("v=%v tick %d: expected fall, got %s", v, i, h.m.Status())
			}
			// re-selected on every falling tick, not only on entry
			if got := h.anim.count(testClips.Idle); got != i {
				t.Fatalf("v=%v tick %d: expected %d idle selections, got %d", v, i, i, got)
			}
		}
		if len(h.sched.delays) != 0 {
			t.Fatalf("v=%v: falling should not start the run phase", v)
		}
	}
}

func TestTickFastGroundedRuns(t *testing.T) {
	velocities := []Vector{{X: 0.4}, {X: -0.4}, {X: 0.3, Y: 0.3}, {Z: 1}, {X: 600}}
	for _, v := range velocities {
		h := newHarness(t)
		h.move.velocity = v
		h.m.Tick()
		if h.m.Status() != StatusRun {
			t.Fatalf("v=%v: expected run, got %s", v, h.m.Status())
		}
	}
}

func TestTickIdempotentDispatch(t *testing.T) {
	h := newHarness(t)
	h.move.velocity = Vector{X: 1}
	h.m.Tick()
	h.m.Tick()
	if len(h.sched.delays) != 1 {
		t.Fatalf("expected a single Running dispatch, got %d schedules", len(h.sched.delays))
	}
	if got := h.anim.count(testClips.PreRun); got != 1 {
		t.Fatalf("expected pre-run selected once, got %d", got)
	}

	h2 := newHarness(t)
	h2.m.Tick()
	h2.m.Tick()
	if len(h2.anim.calls) != 0 {
		t.Fatalf("resting character should not dispatch, got %v", h2.anim.calls)
	}
}

func TestRunPhaseSequence(t *testing.T) {
	h := newHarness(t)

	t.Run("rest", func(t *testing.T) {
		h.m.Tick()
		if h.m.Status() != StatusIdle || h.m.RunPhase() != RunNone || h.m.Pending() {
			t.Fatalf("expected idle/none with nothing pending, got %s/%s pending=%v", h.m.Status(), h.m.RunPhase(), h.m.Pending())
		}
	})

	t.Run("pre_run", func(t *testing.T) {
		h.move.velocity = Vector{X: 1}
		h.m.Tick()
		if h.m.Status() != StatusRun || h.m.RunPhase() != PreRun {
			t.Fatalf("expected run/pre_run, got %s/%s", h.m.Status(), h.m.RunPhase())
		}
		if h.anim.current != testClips.PreRun {
			t.Fatalf("expected pre-run clip, got %s", h.anim.current)
		}
		// delay follows the clip playing when Running began: idle 2.0/(3+1)
		if d := h.lastDelay(t); !approx(d, 0.5) {
			t.Fatalf("expected delay 0.5, got %v", d)
		}
	})

	t.Run("running", func(t *testing.T) {
		h.fire(t, 0.5)
		if h.m.RunPhase() != Running {
			t.Fatalf("expected running, got %s", h.m.RunPhase())
		}
		if h.anim.current != testClips.Running {
			t.Fatalf("expected run clip, got %s", h.anim.current)
		}
		if len(h.sched.delays) != 2 {
			t.Fatalf("expected a new re-check, got %d schedules", len(h.sched.delays))
		}
		// pre-run 0.5/(4+1)
		if d := h.lastDelay(t); !approx(d, 0.1) {
			t.Fatalf("expected delay 0.1, got %v", d)
		}
	})

	t.Run("sustain", func(t *testing.T) {
		h.fire(t, 0.1)
		if h.m.RunPhase() != Running || len(h.sched.delays) != 3 {
			t.Fatalf("expected rescheduled running, got %s with %d schedules", h.m.RunPhase(), len(h.sched.delays))
		}
		// run 1.2/(5+1)
		if d := h.lastDelay(t); !approx(d, 0.2) {
			t.Fatalf("expected delay 0.2, got %v", d)
		}
	})

	t.Run("run_stop", func(t *testing.T) {
		h.move.velocity = Vector{X: math.Sqrt(0.2)}
		h.fire(t, 0.2)
		if h.m.RunPhase() != RunStop {
			t.Fatalf("expected run_stop, got %s", h.m.RunPhase())
		}
		if h.anim.current != testClips.StopRunning {
			t.Fatalf("expected stop clip, got %s", h.anim.current)
		}
		if !h.m.Pending() {
			t.Fatalf("expected run_stop re-check pending")
		}
	})

	t.Run("run_none", func(t *testing.T) {
		// run clip was playing when run_stop was chosen
		h.fire(t, 0.2)
		if h.m.RunPhase() != RunNone {
			t.Fatalf("expected none, got %s", h.m.RunPhase())
		}
		if h.anim.current != testClips.Idle {
			t.Fatalf("expected idle clip, got %s", h.anim.current)
		}
		if h.m.Pending() || h.sched.Len() != 0 {
			t.Fatalf("expected no outstanding timers, pending=%v len=%d", h.m.Pending(), h.sched.Len())
		}
	})
}

func TestPreRunLowSpeedEndsImmediately(t *testing.T) {
	h := newHarness(t)
	h.move.velocity = Vector{X: 1}
	h.m.Tick()

	h.move.velocity = Vector{X: 0.5}
	h.fire(t, h.lastDelay(t))

	if h.m.RunPhase() != RunNone {
		t.Fatalf("expected pre-run to fall through run_stop into none, got %s", h.m.RunPhase())
	}
	if h.anim.count(testClips.StopRunning) != 0 {
		t.Fatalf("stop clip should not play on the synchronous fall-through")
	}
	if h.anim.current != testClips.Idle {
		t.Fatalf("expected idle clip, got %s", h.anim.current)
	}
	if h.m.Pending() || h.sched.Len() != 0 {
		t.Fatalf("expected no outstanding timers")
	}
}

func TestSlowTickRetainsStatusWhileRunWindsDown(t *testing.T) {
	h := newHarness(t)
	h.driveToRunning(t)

	h.move.velocity = Vector{}
	h.m.Tick()
	if h.m.Status() != StatusIdle {
		t.Fatalf("expected idle after stopping from run, got %s", h.m.Status())
	}
	idles := h.anim.count(testClips.Idle)

	h.m.Tick()
	if h.m.Status() != StatusIdle || h.anim.count(testClips.Idle) != idles {
		t.Fatalf("slow tick mid-phase should not dispatch")
	}

	h.move.falling = true
	h.m.Tick()
	h.move.falling = false
	h.m.Tick()
	if h.m.Status() != StatusFall {
		t.Fatalf("landing slow mid-phase should keep fall, got %s", h.m.Status())
	}
	if h.m.RunPhase() != Running {
		t.Fatalf("falling should not reset the run phase, got %s", h.m.RunPhase())
	}

	// re-check -> run_stop, then run_stop's own re-check -> none
	h.fire(t, h.lastDelay(t))
	if h.m.RunPhase() != RunStop {
		t.Fatalf("expected run_stop, got %s", h.m.RunPhase())
	}
	h.fire(t, h.lastDelay(t))
	if h.m.RunPhase() != RunNone {
		t.Fatalf("expected none, got %s", h.m.RunPhase())
	}
	h.m.Tick()
	if h.m.Status() != StatusIdle {
		t.Fatalf("expected idle once the run phase ended, got %s", h.m.Status())
	}
}

func TestRestartCancelsOutstandingRecheck(t *testing.T) {
	h := newHarness(t)
	h.move.velocity = Vector{X: 1}
	h.m.Tick()
	if h.sched.Len() != 1 {
		t.Fatalf("expected one pending re-check")
	}

	h.move.falling = true
	h.m.Tick()
	h.move.falling = false
	h.m.Tick()

	if h.m.Status() != StatusRun || h.m.RunPhase() != Running {
		t.Fatalf("expected run/running after landing, got %s/%s", h.m.Status(), h.m.RunPhase())
	}
	if h.sched.Len() != 1 {
		t.Fatalf("expected a single timer chain, got %d timers", h.sched.Len())
	}
}

func TestFacing(t *testing.T) {
	h := newHarness(t)
	steps := []struct {
		x       float64
		falling bool
		want    float64
	}{
		{x: -5, want: FacingLeft},
		{x: 0, want: FacingLeft},
		{x: 5, want: FacingRight},
		{x: 0, want: FacingRight},
		{x: -5, falling: true, want: FacingLeft},
	}
	for i, s := range steps {
		h.move.velocity = Vector{X: s.x}
		h.move.falling = s.falling
		h.m.Tick()
		if h.facing.yaw != s.want {
			t.Fatalf("step %d: expected yaw %v, got %v", i, s.want, h.facing.yaw)
		}
	}
	if h.facing.calls != 3 {
		t.Fatalf("zero horizontal velocity should not touch facing, got %d calls", h.facing.calls)
	}
}

func TestRecheckDelayClamp(t *testing.T) {
	h := newHarness(t)
	h.anim.info[testClips.Idle] = clipInfo{}
	h.move.velocity = Vector{X: 1}
	h.m.Tick()
	if d := h.lastDelay(t); d != MinRecheckDelay {
		t.Fatalf("expected clamped delay %v, got %v", MinRecheckDelay, d)
	}
}

func TestObserversAndReset(t *testing.T) {
	h := newHarness(t)
	var statuses []Status
	var phases []RunPhase
	h.m.onStatus = func(_, to Status) { statuses = append(statuses, to) }
	h.m.onPhase = func(_, to RunPhase) { phases = append(phases, to) }

	h.driveToRunning(t)
	h.m.Reset()

	if len(statuses) != 2 || statuses[0] != StatusRun || statuses[1] != StatusIdle {
		t.Fatalf("unexpected status transitions %v", statuses)
	}
	wantPhases := []RunPhase{PreRun, Running, RunNone}
	if len(phases) != len(wantPhases) {
		t.Fatalf("unexpected phase transitions %v", phases)
	}
	for i := range wantPhases {
		if phases[i] != wantPhases[i] {
			t.Fatalf("unexpected phase transitions %v", phases)
		}
	}
	if h.m.Pending() || h.sched.Len() != 0 {
		t.Fatalf("reset should cancel the pending re-check")
	}
}

func TestStrings(t *testing.T) {
	if StatusFall.String() != "fall" || Status(9).String() != "status(9)" {
		t.Fatalf("unexpected status strings")
	}
	if PreRun.String() != "pre_run" || RunPhase(7).String() != "run_phase(7)" {
		t.Fatalf("unexpected run phase strings")
	}
}

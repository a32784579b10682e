package schedulemicro

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func Test_TaskFiresAfterPeriod(t *testing.T) {
	c := qt.New(t)

	s := New(1000)
	s.Start(0)
	s.EnableTask(0, 0)

	s.Update(999)
	c.Assert(s.TaskReady(0), qt.Equals, false)

	s.Update(1000)
	c.Assert(s.TaskReady(0), qt.Equals, true)

	// Ready is a one-shot consume.
	c.Assert(s.TaskReady(0), qt.Equals, false)

	s.Update(2000)
	c.Assert(s.TaskReady(0), qt.Equals, true)
}

func Test_NoSpuriousFireAtStart(t *testing.T) {
	c := qt.New(t)

	s := New(1000, 2000)
	s.Start(500000)
	s.EnableTask(0, 500000)
	s.EnableTask(1, 500000)

	s.Update(500000)
	c.Assert(s.TaskReady(0), qt.Equals, false)
	c.Assert(s.TaskReady(1), qt.Equals, false)
}

func Test_DisabledTaskNeverFires(t *testing.T) {
	c := qt.New(t)

	s := New(1000, 1000)
	s.Start(0)
	s.EnableTask(0, 0)

	s.Update(5000)
	c.Assert(s.TaskReady(0), qt.Equals, true)
	c.Assert(s.TaskReady(1), qt.Equals, false)

	s.DisableTask(0)
	s.Update(10000)
	c.Assert(s.TaskReady(0), qt.Equals, false)
}

func Test_StopSuspendsUpdates(t *testing.T) {
	c := qt.New(t)

	s := New(1000)
	s.Start(0)
	s.EnableTask(0, 0)
	s.Stop()

	s.Update(5000)
	c.Assert(s.TaskReady(0), qt.Equals, false)
}

func Test_EditTime(t *testing.T) {
	c := qt.New(t)

	s := New(1000)
	s.Start(0)
	s.EnableTask(0, 0)

	s.EditTime(0, 5000)
	s.Update(1000)
	c.Assert(s.TaskReady(0), qt.Equals, false)
	s.Update(5000)
	c.Assert(s.TaskReady(0), qt.Equals, true)

	// A zero period is ignored.
	s.EditTime(0, 0)
	s.Update(10000)
	c.Assert(s.TaskReady(0), qt.Equals, true)
}

func Test_OutOfRangeIdsIgnored(t *testing.T) {
	c := qt.New(t)

	s := New(1000, 1000)
	s.Start(0)

	s.EnableTask(2, 0)
	s.EnableTask(-1, 0)
	s.EditTime(5, 100)
	s.DisableTask(7)

	s.Update(5000)
	c.Assert(s.TaskReady(2), qt.Equals, false)
	c.Assert(s.TaskReady(-1), qt.Equals, false)
	c.Assert(s.TaskReady(5), qt.Equals, false)
}

func Test_LateServiceRestampsAtServiceTime(t *testing.T) {
	c := qt.New(t)

	s := New(1000)
	s.Start(0)
	s.EnableTask(0, 0)

	// Late update: the slot restamps at service time, not at the ideal
	// fire time.
	s.Update(2500)
	c.Assert(s.TaskReady(0), qt.Equals, true)
	s.Update(3400)
	c.Assert(s.TaskReady(0), qt.Equals, false)
	s.Update(3500)
	c.Assert(s.TaskReady(0), qt.Equals, true)
}

func Test_CounterWraparound(t *testing.T) {
	c := qt.New(t)

	s := New(1000)
	s.Start(0xFFFFFC00)
	s.EnableTask(0, 0xFFFFFC00)

	s.Update(0xFFFFFF00)
	c.Assert(s.TaskReady(0), qt.Equals, false)

	// The counter has wrapped; elapsed time still reads correctly.
	s.Update(0x00000100)
	c.Assert(s.TaskReady(0), qt.Equals, true)
}

func Test_ExtraPeriodsDropped(t *testing.T) {
	c := qt.New(t)

	s := New(1, 1, 1, 1, 1, 1, 1)
	s.Start(0)
	for i := 0; i < MaxTasks; i++ {
		s.EnableTask(i, 0)
	}

	s.Update(10)
	for i := 0; i < MaxTasks; i++ {
		c.Assert(s.TaskReady(i), qt.Equals, true)
	}
	c.Assert(s.TaskReady(MaxTasks), qt.Equals, false)
}

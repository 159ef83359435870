package debug

import (
	"strings"
	"testing"
	"time"
)

func TestProfilerRecordsTimings(t *testing.T) {
	p := NewProfiler(100)
	for i := 0; i < 10; i++ {
		p.Time("work", func() {
			time.Sleep(time.Millisecond)
		})
	}

	m, ok := p.GetMeasurement("work")
	if !ok {
		t.Fatal("Measurement not recorded")
	}
	if m.Count() != 10 {
		t.Errorf("Count: got %d, want 10", m.Count())
	}
	if m.Average() < time.Millisecond {
		t.Errorf("Average implausibly low: %v", m.Average())
	}
	if m.Min() > m.Max() {
		t.Errorf("Min %v exceeds max %v", m.Min(), m.Max())
	}
	if rsd := m.RelStdDev(); rsd < 0 {
		t.Errorf("Relative standard deviation negative: %f", rsd)
	}
}

func TestProfilerStartStop(t *testing.T) {
	p := NewProfiler(16)
	stop := p.Start("section")
	stop()
	if m, ok := p.GetMeasurement("section"); !ok || m.Count() != 1 {
		t.Error("Start/stop did not record a timing")
	}
}

func TestProfilerSampleRing(t *testing.T) {
	p := NewProfiler(4)
	for i := 0; i < 10; i++ {
		p.Time("ring", func() {})
	}
	m, _ := p.GetMeasurement("ring")
	if m.Count() != 10 {
		t.Errorf("Count: got %d, want 10", m.Count())
	}
	if len(m.samples) != 4 {
		t.Errorf("Ring size: got %d, want 4", len(m.samples))
	}
}

func TestProfilerReport(t *testing.T) {
	p := NewProfiler(8)
	if got := p.Report(); got != "no measurements recorded" {
		t.Errorf("Empty report: got %q", got)
	}

	p.Time("alpha", func() {})
	report := p.Report()
	for _, want := range []string{"alpha:", "iterations:", "mean:", "rel. std. dev.:"} {
		if !strings.Contains(report, want) {
			t.Errorf("Report missing %q:\n%s", want, report)
		}
	}
}

func TestProfilerReset(t *testing.T) {
	p := NewProfiler(8)
	p.Time("gone", func() {})
	p.Reset()
	if _, ok := p.GetMeasurement("gone"); ok {
		t.Error("Reset did not clear measurements")
	}
}

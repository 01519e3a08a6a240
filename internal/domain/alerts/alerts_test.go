package alerts

import (
	"math"
	"testing"

	"medipin-ocr/internal/domain/reconcile"
)

func TestPolicy_ConfidenceBands(t *testing.T) {
	p := NewPolicy(0.4, 0.7)

	cases := []struct {
		conf  float64
		level Level
	}{
		{0.0, LevelDanger},
		{0.3, LevelDanger},
		{0.4, LevelWarning},
		{0.69, LevelWarning},
		{0.7, LevelNormal},
		{1.0, LevelNormal},
	}
	for _, c := range cases {
		got := p.Decide(c.conf, nil)
		if got.Level != c.level {
			t.Fatalf("Decide(%v) = %s, want %s", c.conf, got.Level, c.level)
		}
	}

	danger := p.Decide(0.3, nil)
	if danger.Reason == nil || *danger.Reason != ReasonLowConfidence {
		t.Fatalf("expected low confidence reason, got %v", danger.Reason)
	}
	if normal := p.Decide(0.9, nil); normal.Reason != nil {
		t.Fatalf("expected nil reason for NORMAL, got %q", *normal.Reason)
	}
}

func TestPolicy_ReconciliationOutranksConfidence(t *testing.T) {
	p := NewPolicy(0.4, 0.7)

	missing := &reconcile.Result{MissingInBag: []string{"아스피린"}}
	got := p.Decide(0.95, missing)
	if got.Level != LevelDanger || got.Reason == nil || *got.Reason != ReasonMissingMedicine {
		t.Fatalf("expected DANGER missing medicine, got %#v", got)
	}

	extra := &reconcile.Result{ExtraInBag: []string{"게보린"}}
	got = p.Decide(0.95, extra)
	if got.Level != LevelWarning || *got.Reason != ReasonBagMismatch {
		t.Fatalf("expected WARNING mismatch, got %#v", got)
	}

	// Confianza ya en DANGER: no se baja a WARNING.
	got = p.Decide(0.1, extra)
	if got.Level != LevelDanger {
		t.Fatalf("expected DANGER to be kept, got %#v", got)
	}

	safe := &reconcile.Result{IsSafe: true}
	if got := p.Decide(0.95, safe); got.Level != LevelNormal {
		t.Fatalf("expected NORMAL for safe reconciliation, got %#v", got)
	}
}

func TestNewPolicy_Defaults(t *testing.T) {
	p := NewPolicy(0, 0)
	if p.Low != DefaultLowThreshold || p.Mid != DefaultMidThreshold {
		t.Fatalf("unexpected policy %#v", p)
	}

	// mid por debajo de low se sube a low
	p = NewPolicy(0.5, 0.2)
	if p.Mid != 0.5 {
		t.Fatalf("expected mid clamped to low, got %#v", p)
	}
}

func TestLinearScorer_RangeAndMonotonic(t *testing.T) {
	s := LinearScorer{Floor: 0.1, Ceil: 0.6}

	prev := -1.0
	for x := -1.0; x <= 2.0; x += 0.05 {
		v := s.Score(x)
		if v < 0 || v > 1 {
			t.Fatalf("Score(%v) = %v out of range", x, v)
		}
		if v < prev {
			t.Fatalf("Score not monotonic at %v: %v < %v", x, v, prev)
		}
		if again := s.Score(x); again != v {
			t.Fatalf("Score not deterministic at %v", x)
		}
		prev = v
	}
	if s.Score(math.NaN()) != 0 {
		t.Fatalf("expected NaN to score 0")
	}
}

package epi

import (
	"math"
	"testing"
)

func TestTape_SampleModeAccumulatesLogProb(t *testing.T) {
	tp := NewSampleTape(NewPartitionedRNG(42))
	v := tp.Sample("R0", LogNormal{Mu: 0, Sigma: 1})

	if v <= 0 {
		t.Fatalf("LogNormal draw = %v, want > 0", v)
	}
	want := LogNormal{Mu: 0, Sigma: 1}.LogProb(v)
	if tp.LogProb() != want {
		t.Errorf("LogProb() = %v, want %v", tp.LogProb(), want)
	}
	if tp.Globals()["R0"] != v {
		t.Errorf("Globals()[R0] = %v, want %v", tp.Globals()["R0"], v)
	}
}

func TestTape_ScoreModeReplaysFixedValues(t *testing.T) {
	tp := NewScoreTape(map[string]float64{"R0": 2.0})
	v := tp.Sample("R0", LogNormal{Mu: 0, Sigma: 1})

	if v != 2.0 {
		t.Errorf("Sample in scoring mode = %v, want fixed 2.0", v)
	}
	want := LogNormal{Mu: 0, Sigma: 1}.LogProb(2.0)
	if tp.LogProb() != want {
		t.Errorf("LogProb() = %v, want %v", tp.LogProb(), want)
	}
}

func TestTape_ScoreModeMissingSitePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown site in scoring mode")
		}
	}()
	tp := NewScoreTape(map[string]float64{"R0": 2.0})
	tp.Sample("rho", Uniform{Min: 0, Max: 1})
}

func TestTape_SeriesStoredByTimeIndex(t *testing.T) {
	tp := NewSampleTape(NewPartitionedRNG(42))
	for tt := 0; tt < 5; tt++ {
		tp.SampleSeries("S2I", tt, Binomial{N: 10, P: 0.3})
	}
	if got := len(tp.Series()["S2I"]); got != 5 {
		t.Fatalf("series length = %d, want 5", got)
	}
}

func TestTape_SeriesOutOfOrderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-order series declaration")
		}
	}()
	tp := NewSampleTape(NewPartitionedRNG(42))
	tp.SampleSeries("S2I", 1, Binomial{N: 10, P: 0.3})
}

func TestTape_ObserveSeriesConditionsOnValue(t *testing.T) {
	tp := NewSampleTape(NewPartitionedRNG(42))
	obs := 3.0
	v := tp.ObserveSeries(ObsSeries, 0, ExtendedBinomial{N: 10, P: 0.5}, &obs)

	if v != 3.0 {
		t.Errorf("ObserveSeries = %v, want conditioned value 3", v)
	}
	want := ExtendedBinomial{N: 10, P: 0.5}.LogProb(3)
	if tp.LogProb() != want {
		t.Errorf("LogProb() = %v, want %v", tp.LogProb(), want)
	}
}

func TestTape_ObserveSeriesNilSamplesLatent(t *testing.T) {
	tp := NewSampleTape(NewPartitionedRNG(42))
	v := tp.ObserveSeries(ObsSeries, 0, ExtendedBinomial{N: 10, P: 0.5}, nil)

	if v < 0 || v > 10 {
		t.Errorf("latent draw = %v, want within [0, 10]", v)
	}
	if math.IsInf(tp.LogProb(), 0) || math.IsNaN(tp.LogProb()) {
		t.Errorf("LogProb() = %v, want finite", tp.LogProb())
	}
}

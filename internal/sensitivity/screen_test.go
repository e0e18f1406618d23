package sensitivity

import (
	"context"
	"testing"

	"github.com/san-kum/kinfit/internal/catalog"
	"github.com/san-kum/kinfit/internal/residual"
)

func referenceEngine(t *testing.T) *residual.Engine {
	t.Helper()
	e, err := residual.NewEngine(catalog.Reference(), residual.DefaultConfig())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func TestScreenShape(t *testing.T) {
	e := referenceEngine(t)

	opts := DefaultOptions()
	opts.Samples = 10

	effects, err := Screen(context.Background(), e, catalog.StartingGuess(), opts)
	if err != nil {
		t.Fatalf("screen: %v", err)
	}
	if len(effects) != 4 {
		t.Fatalf("expected 4 effects, got %d", len(effects))
	}

	names := []string{"logA", "Ea", "dH", "dS"}
	for i, eff := range effects {
		if eff.Name != names[i] {
			t.Errorf("effect %d: name %q, want %q", i, eff.Name, names[i])
		}
		if eff.MeanAbs < 0 {
			t.Errorf("%s: mean effect must be non-negative, got %v", eff.Name, eff.MeanAbs)
		}
		if eff.StdDev < 0 {
			t.Errorf("%s: effect spread must be non-negative, got %v", eff.Name, eff.StdDev)
		}
	}
}

func TestScreenSeedDeterminism(t *testing.T) {
	e := referenceEngine(t)

	opts := DefaultOptions()
	opts.Samples = 10
	opts.Seed = 42

	a, err := Screen(context.Background(), e, catalog.StartingGuess(), opts)
	if err != nil {
		t.Fatalf("first screen: %v", err)
	}
	b, err := Screen(context.Background(), e, catalog.StartingGuess(), opts)
	if err != nil {
		t.Fatalf("second screen: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Errorf("effect %d differs between runs with the same seed: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestScreenSeedsDiffer(t *testing.T) {
	e := referenceEngine(t)

	opts := DefaultOptions()
	opts.Samples = 10

	opts.Seed = 1
	a, err := Screen(context.Background(), e, catalog.StartingGuess(), opts)
	if err != nil {
		t.Fatalf("seed 1: %v", err)
	}

	opts.Seed = 2
	b, err := Screen(context.Background(), e, catalog.StartingGuess(), opts)
	if err != nil {
		t.Fatalf("seed 2: %v", err)
	}

	same := true
	for i := range a {
		if a[i].MeanAbs != b[i].MeanAbs {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical effects")
	}
}

func TestScreenCanceled(t *testing.T) {
	e := referenceEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Screen(ctx, e, catalog.StartingGuess(), DefaultOptions()); err == nil {
		t.Fatal("expected a cancellation error")
	}
}

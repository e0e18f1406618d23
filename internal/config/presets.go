package config

// Presets are named starting points for common workflows: "quick"
// trades solver tolerance for speed during exploration, "accurate" is
// the publication setting.
var Presets = map[string]*Config{
	"quick": {
		MaxIterations: 50,
		CostTol:       1e-8,
		StepTol:       1e-8,
		FDStep:        1e-6,
		RTol:          1e-6,
		ATol:          1e-8,
		Penalty:       DefaultPenalty,
		Samples:       20,
		Seed:          DefaultSeed,
	},
	"accurate": {
		MaxIterations: 500,
		CostTol:       1e-12,
		StepTol:       1e-12,
		FDStep:        1e-7,
		RTol:          1e-10,
		ATol:          1e-12,
		Penalty:       DefaultPenalty,
		Samples:       100,
		Seed:          DefaultSeed,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

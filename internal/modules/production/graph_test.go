package production

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStageGraph(t *testing.T) {
	g := DefaultStageGraph()

	assert.Equal(t, []DecorationMethod{MethodScreenPrinting, MethodEmbroidery, MethodDTF, MethodDTG}, g.Methods())
	assert.Equal(t, []Stage{StageBurnScreens, StageMixInk, StagePrint}, g.Stages(MethodScreenPrinting))
	assert.Equal(t, []Stage{StageDesignFile, StageDTFPrint, StagePowder, StageCure}, g.Stages(MethodDTF))
	assert.Equal(t, []Stage{StageBurnScreens, StageMixInk}, g.Dependencies(MethodScreenPrinting, StagePrint))
	assert.Equal(t, []Stage{StageDigitize, StageHoop}, g.Dependencies(MethodEmbroidery, StageEmbroider))
	assert.Empty(t, g.Dependencies(MethodDTG, StagePretreat))
}

func TestStageGraphLookups(t *testing.T) {
	g := DefaultStageGraph()

	tests := []struct {
		name   string
		method DecorationMethod
		stage  Stage
		want   int
	}{
		{"first stage", MethodDTG, StagePretreat, 0},
		{"last stage", MethodDTF, StageCure, 3},
		{"empty stage", MethodDTG, "", -1},
		{"stage of another method", MethodDTG, StageHoop, -1},
		{"unknown method", DecorationMethod("sublimation"), StagePrint, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.StageIndex(tt.method, tt.stage))
		})
	}

	assert.True(t, g.HasMethod(MethodEmbroidery))
	assert.False(t, g.HasMethod(DecorationMethod("sublimation")))
	assert.Nil(t, g.Stages(DecorationMethod("sublimation")))
	assert.Nil(t, g.Dependencies(MethodDTG, Stage("anneal")))
}

func TestStageGraphIsImmutable(t *testing.T) {
	g := DefaultStageGraph()

	stages := g.Stages(MethodScreenPrinting)
	stages[0] = "tampered"
	deps := g.Dependencies(MethodScreenPrinting, StagePrint)
	deps[0] = "tampered"
	methods := g.Methods()
	methods[0] = "tampered"
	desc := g.Describe()
	desc[0].Stages[2].Requires[0] = "tampered"

	assert.Equal(t, StageBurnScreens, g.Stages(MethodScreenPrinting)[0])
	assert.Equal(t, StageBurnScreens, g.Dependencies(MethodScreenPrinting, StagePrint)[0])
	assert.Equal(t, MethodScreenPrinting, g.Methods()[0])
	assert.Equal(t, StageBurnScreens, g.Describe()[0].Stages[2].Requires[0])
}

func TestDefaultDefinitionsAreFresh(t *testing.T) {
	defs := DefaultDefinitions()
	defs[0].Method = "tampered"
	defs[0].Stages[2].Requires[0] = "tampered"

	assert.Equal(t, MethodScreenPrinting, DefaultDefinitions()[0].Method)
	g := DefaultStageGraph()
	assert.Equal(t, MethodScreenPrinting, g.Methods()[0])
	assert.Equal(t, []Stage{StageBurnScreens, StageMixInk}, g.Dependencies(MethodScreenPrinting, StagePrint))
}

func TestNewStageGraphValidation(t *testing.T) {
	tests := []struct {
		name string
		defs []MethodDefinition
	}{
		{
			name: "missing method name",
			defs: []MethodDefinition{{Stages: []StageDefinition{{Stage: "a"}}}},
		},
		{
			name: "duplicate method",
			defs: []MethodDefinition{{Method: "m"}, {Method: "m"}},
		},
		{
			name: "missing stage name",
			defs: []MethodDefinition{{Method: "m", Stages: []StageDefinition{{}}}},
		},
		{
			name: "duplicate stage",
			defs: []MethodDefinition{{Method: "m", Stages: []StageDefinition{{Stage: "a"}, {Stage: "a"}}}},
		},
		{
			name: "forward reference",
			defs: []MethodDefinition{{Method: "m", Stages: []StageDefinition{
				{Stage: "a", Requires: []Stage{"b"}},
				{Stage: "b"},
			}}},
		},
		{
			name: "self reference",
			defs: []MethodDefinition{{Method: "m", Stages: []StageDefinition{{Stage: "a", Requires: []Stage{"a"}}}}},
		},
		{
			name: "reference into another method",
			defs: []MethodDefinition{
				{Method: "m", Stages: []StageDefinition{{Stage: "a"}}},
				{Method: "n", Stages: []StageDefinition{{Stage: "b", Requires: []Stage{"a"}}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStageGraph(tt.defs)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidGraph))
		})
	}
}

func TestDescribeRoundTrip(t *testing.T) {
	g := DefaultStageGraph()

	rebuilt, err := NewStageGraph(g.Describe())
	require.NoError(t, err)
	assert.Equal(t, g.Describe(), rebuilt.Describe())
	assert.NotNil(t, g.Describe()[0].Stages[0].Requires)
}

func TestParseStageGraph(t *testing.T) {
	data := []byte(`
methods:
  - name: sublimation
    stages:
      - name: print_transfer
      - name: press
        requires: [print_transfer]
  - name: dtg
    stages:
      - name: pretreat
      - name: dtg_print
        requires: [pretreat]
`)
	g, err := ParseStageGraph(data)
	require.NoError(t, err)

	assert.Equal(t, []DecorationMethod{"sublimation", MethodDTG}, g.Methods())
	assert.Equal(t, []Stage{"print_transfer"}, g.Dependencies("sublimation", "press"))

	r := NewResolver(g)
	job := newJob("x", "O1", "sublimation", "press", JobPending)
	assert.Equal(t, "Waiting for: print_transfer", r.ReadinessStatus(job, []Job{job}).Reason)
}

func TestParseStageGraphErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed yaml", "methods: [\n"},
		{"no methods", "methods: []\n"},
		{"bad prerequisite", "methods:\n  - name: m\n    stages:\n      - name: a\n        requires: [z]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseStageGraph([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadStageGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("methods:\n  - name: dtg\n    stages:\n      - name: pretreat\n"), 0o600))

	g, err := LoadStageGraph(path)
	require.NoError(t, err)
	assert.Equal(t, []Stage{StagePretreat}, g.Stages(MethodDTG))

	_, err = LoadStageGraph(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

package production

import (
	"errors"
	"fmt"
)

// ErrInvalidGraph is returned when a stage graph definition is malformed.
var ErrInvalidGraph = errors.New("invalid stage graph")

// StageDefinition declares one stage and the stages that must be passed before it may start.
type StageDefinition struct {
	Stage    Stage   `json:"stage"`
	Requires []Stage `json:"requires"`
}

// MethodDefinition declares the ordered stages of one decoration method.
type MethodDefinition struct {
	Method DecorationMethod  `json:"method"`
	Stages []StageDefinition `json:"stages"`
}

// StageGraph is the immutable per-method stage dependency table.
//
// Stage order inside a method is the position order used to decide whether a
// job has moved past a stage. It is fixed at construction and never derived
// from map iteration. The zero value is an empty graph.
type StageGraph struct {
	methods []DecorationMethod
	order   map[DecorationMethod][]Stage
	deps    map[DecorationMethod]map[Stage][]Stage
}

// DefaultDefinitions returns the built-in stage definitions for the four shop
// decoration methods. Each call builds a fresh value.
func DefaultDefinitions() []MethodDefinition {
	return []MethodDefinition{
		{
			Method: MethodScreenPrinting,
			Stages: []StageDefinition{
				{Stage: StageBurnScreens},
				{Stage: StageMixInk},
				{Stage: StagePrint, Requires: []Stage{StageBurnScreens, StageMixInk}},
			},
		},
		{
			Method: MethodEmbroidery,
			Stages: []StageDefinition{
				{Stage: StageDigitize},
				{Stage: StageHoop, Requires: []Stage{StageDigitize}},
				{Stage: StageEmbroider, Requires: []Stage{StageDigitize, StageHoop}},
			},
		},
		{
			Method: MethodDTF,
			Stages: []StageDefinition{
				{Stage: StageDesignFile},
				{Stage: StageDTFPrint, Requires: []Stage{StageDesignFile}},
				{Stage: StagePowder, Requires: []Stage{StageDTFPrint}},
				{Stage: StageCure, Requires: []Stage{StagePowder}},
			},
		},
		{
			Method: MethodDTG,
			Stages: []StageDefinition{
				{Stage: StagePretreat},
				{Stage: StageDTGPrint, Requires: []Stage{StagePretreat}},
				{Stage: StageDTGCure, Requires: []Stage{StageDTGPrint}},
			},
		},
	}
}

// DefaultStageGraph returns the graph built from DefaultDefinitions.
func DefaultStageGraph() StageGraph {
	g, err := NewStageGraph(DefaultDefinitions())
	if err != nil {
		panic(err)
	}
	return g
}

// NewStageGraph builds a graph from definitions. Each prerequisite must name an
// earlier stage of the same method, which also rules out cycles.
func NewStageGraph(defs []MethodDefinition) (StageGraph, error) {
	g := StageGraph{
		order: make(map[DecorationMethod][]Stage, len(defs)),
		deps:  make(map[DecorationMethod]map[Stage][]Stage, len(defs)),
	}
	for _, def := range defs {
		if def.Method == "" {
			return StageGraph{}, fmt.Errorf("%w: method name is required", ErrInvalidGraph)
		}
		if _, dup := g.order[def.Method]; dup {
			return StageGraph{}, fmt.Errorf("%w: method %s declared twice", ErrInvalidGraph, def.Method)
		}

		stages := make([]Stage, 0, len(def.Stages))
		deps := make(map[Stage][]Stage, len(def.Stages))
		seen := make(map[Stage]bool, len(def.Stages))
		for _, sd := range def.Stages {
			if sd.Stage == "" {
				return StageGraph{}, fmt.Errorf("%w: %s has a stage without a name", ErrInvalidGraph, def.Method)
			}
			if seen[sd.Stage] {
				return StageGraph{}, fmt.Errorf("%w: %s declares stage %s twice", ErrInvalidGraph, def.Method, sd.Stage)
			}
			for _, req := range sd.Requires {
				if !seen[req] {
					return StageGraph{}, fmt.Errorf("%w: %s stage %s requires %s, which is not an earlier stage",
						ErrInvalidGraph, def.Method, sd.Stage, req)
				}
			}
			seen[sd.Stage] = true
			stages = append(stages, sd.Stage)
			deps[sd.Stage] = append([]Stage(nil), sd.Requires...)
		}

		g.methods = append(g.methods, def.Method)
		g.order[def.Method] = stages
		g.deps[def.Method] = deps
	}
	return g, nil
}

// Methods lists the configured methods in declaration order.
func (g StageGraph) Methods() []DecorationMethod {
	return append([]DecorationMethod(nil), g.methods...)
}

// HasMethod reports whether the method is configured.
func (g StageGraph) HasMethod(method DecorationMethod) bool {
	_, ok := g.order[method]
	return ok
}

// Stages returns the method's stages in position order. Unknown methods yield nil.
func (g StageGraph) Stages(method DecorationMethod) []Stage {
	return append([]Stage(nil), g.order[method]...)
}

// Dependencies returns the prerequisites of a stage in declaration order.
// Unknown methods or stages yield nil.
func (g StageGraph) Dependencies(method DecorationMethod, stage Stage) []Stage {
	return append([]Stage(nil), g.deps[method][stage]...)
}

// StageIndex returns the stage's position within the method, or -1 if unknown.
func (g StageGraph) StageIndex(method DecorationMethod, stage Stage) int {
	if stage == "" {
		return -1
	}
	for i, s := range g.order[method] {
		if s == stage {
			return i
		}
	}
	return -1
}

// Describe returns the graph as definitions, suitable for JSON output.
func (g StageGraph) Describe() []MethodDefinition {
	out := make([]MethodDefinition, 0, len(g.methods))
	for _, m := range g.methods {
		def := MethodDefinition{Method: m, Stages: make([]StageDefinition, 0, len(g.order[m]))}
		for _, s := range g.order[m] {
			def.Stages = append(def.Stages, StageDefinition{
				Stage:    s,
				Requires: append([]Stage{}, g.deps[m][s]...),
			})
		}
		out = append(out, def)
	}
	return out
}

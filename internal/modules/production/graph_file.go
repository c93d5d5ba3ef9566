package production

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// graphFile mirrors the YAML layout of a stage graph override:
//
//	methods:
//	  - name: screen_printing
//	    stages:
//	      - name: burn_screens
//	      - name: mix_ink
//	      - name: print
//	        requires: [burn_screens, mix_ink]
type graphFile struct {
	Methods []struct {
		Name   string `yaml:"name"`
		Stages []struct {
			Name     string   `yaml:"name"`
			Requires []string `yaml:"requires"`
		} `yaml:"stages"`
	} `yaml:"methods"`
}

// LoadStageGraph reads a stage graph from a YAML file.
func LoadStageGraph(path string) (StageGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StageGraph{}, fmt.Errorf("read stage graph %s: %w", path, err)
	}
	return ParseStageGraph(data)
}

// ParseStageGraph builds a stage graph from YAML bytes.
func ParseStageGraph(data []byte) (StageGraph, error) {
	var raw graphFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return StageGraph{}, fmt.Errorf("parse stage graph: %w", err)
	}
	if len(raw.Methods) == 0 {
		return StageGraph{}, fmt.Errorf("%w: no methods declared", ErrInvalidGraph)
	}

	defs := make([]MethodDefinition, 0, len(raw.Methods))
	for _, m := range raw.Methods {
		def := MethodDefinition{Method: DecorationMethod(m.Name)}
		for _, s := range m.Stages {
			sd := StageDefinition{Stage: Stage(s.Name)}
			for _, r := range s.Requires {
				sd.Requires = append(sd.Requires, Stage(r))
			}
			def.Stages = append(def.Stages, sd)
		}
		defs = append(defs, def)
	}
	return NewStageGraph(defs)
}

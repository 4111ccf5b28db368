package platform

import (
	"simplegp/internal/evo"
	"simplegp/internal/genotype"
	"simplegp/internal/problem"
)

type TargetInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Available lists every name a Config may refer to.
type Available struct {
	Targets       []TargetInfo `json:"targets"`
	PrimitiveSets []string     `json:"primitive_sets"`
	Objectives    []string     `json:"objectives"`
	InitMethods   []string     `json:"init_methods"`
	Selections    []string     `json:"selections"`
	Operators     []string     `json:"operators"`
}

func Problems() Available {
	names := problem.TargetNames()
	targets := make([]TargetInfo, 0, len(names))
	for _, name := range names {
		t, err := problem.LookupTarget(name)
		if err != nil {
			continue
		}
		targets = append(targets, TargetInfo{Name: t.Name, Description: t.Description})
	}
	return Available{
		Targets:       targets,
		PrimitiveSets: problem.PrimitiveSetNames(),
		Objectives:    []string{problem.ObjectivesMSE, problem.ObjectivesMSESize},
		InitMethods:   []string{genotype.MethodGrow, genotype.MethodFull, genotype.MethodRamped},
		Selections:    evo.SelectionNames(),
		Operators:     evo.OperatorNames(),
	}
}

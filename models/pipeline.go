// ABOUTME: Pipeline catalog and kanban board grouping
// ABOUTME: Pipelines are ordered stage lists that people move through
package models

import (
	"fmt"
)

const (
	PipelineEvangelism     = "Evangelism"
	PipelineSupportRaising = "Support Raising"
)

type Pipeline struct {
	Name   string   `json:"name"`
	Stages []string `json:"stages"`
}

// Pipelines is the catalog in display order.
var Pipelines = []Pipeline{
	{Name: PipelineEvangelism, Stages: []string{"Identify", "Engage", "Share", "Follow-Up", "Disciple"}},
	{Name: PipelineSupportRaising, Stages: []string{"Identify", "Cultivate", "Ask", "Will Decide", "Partner"}},
}

// FindPipeline returns the named pipeline, or nil.
func FindPipeline(name string) *Pipeline {
	for i := range Pipelines {
		if Pipelines[i].Name == name {
			return &Pipelines[i]
		}
	}
	return nil
}

// HasStage reports whether stage belongs to the pipeline.
func (p *Pipeline) HasStage(stage string) bool {
	for _, s := range p.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// ValidateStage checks the pipeline/stage pairing used by forms.
// An empty pipeline must come with an empty stage; an empty stage is
// allowed for any known pipeline.
func ValidateStage(pipeline, stage string) error {
	if pipeline == "" {
		if stage != "" {
			return fmt.Errorf("stage %q given without a pipeline", stage)
		}
		return nil
	}

	p := FindPipeline(pipeline)
	if p == nil {
		return fmt.Errorf("unknown pipeline %q", pipeline)
	}
	if stage != "" && !p.HasStage(stage) {
		return fmt.Errorf("stage %q is not part of the %s pipeline", stage, pipeline)
	}
	return nil
}

// BoardColumn is one stage of a pipeline board.
type BoardColumn struct {
	Stage  string   `json:"stage"`
	People []Person `json:"people"`
}

// BuildBoard groups the people enrolled in pipeline into its stage columns.
// People without a stage are placed in the first stage; people whose stage
// is not part of the pipeline are left off the board.
func BuildBoard(pipeline *Pipeline, people []Person) []BoardColumn {
	columns := make([]BoardColumn, len(pipeline.Stages))
	index := make(map[string]int, len(pipeline.Stages))
	for i, stage := range pipeline.Stages {
		columns[i] = BoardColumn{Stage: stage, People: []Person{}}
		index[stage] = i
	}

	for _, person := range people {
		if person.PipelineType != pipeline.Name {
			continue
		}
		stage := person.PipelineStage
		if stage == "" {
			stage = pipeline.Stages[0]
		}
		i, ok := index[stage]
		if !ok {
			continue
		}
		columns[i].People = append(columns[i].People, person)
	}

	return columns
}

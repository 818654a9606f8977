package config

import "fmt"

// Pipeline selects which conversion pipelines a command runs.
type Pipeline string

const (
	PipelinePoints Pipeline = "points"
	PipelineRoads  Pipeline = "roads"
	PipelineAll    Pipeline = "all"
)

func (p Pipeline) String() string {
	return string(p)
}

// PipelineNames lists valid pipeline selectors for usage texts.
func PipelineNames() []string {
	return []string{string(PipelinePoints), string(PipelineRoads), string(PipelineAll)}
}

// ParsePipeline validates a pipeline selector coming from the command line.
func ParsePipeline(v string) (Pipeline, error) {
	switch p := Pipeline(v); p {
	case PipelinePoints, PipelineRoads, PipelineAll:
		return p, nil
	default:
		return "", fmt.Errorf("unknown pipeline selector %q, expected points, roads or all", v)
	}
}

// Points reports whether the point pipeline should run.
func (p Pipeline) Points() bool {
	return p == PipelinePoints || p == PipelineAll
}

// Roads reports whether the road pipeline should run.
func (p Pipeline) Roads() bool {
	return p == PipelineRoads || p == PipelineAll
}

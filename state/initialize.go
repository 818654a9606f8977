package state

import (
	"time"

	"o2q/config"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		What:  config.PipelineAll,
	}
}

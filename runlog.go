package intakesync

import (
	"encoding/json"
	"os"

	"github.com/agentstation/utc"

	"github.com/intakesync/intakesync/pkg/constants"
	"github.com/intakesync/intakesync/pkg/errors"
)

// RunState is the persisted summary of the last completed run.
type RunState struct {
	LastRun        string `json:"last_run"`
	TotalProcessed int    `json:"total_processed"`
}

// RunLog persists the last-run state as a small JSON file, rewritten
// after every run.
type RunLog struct {
	path string
}

// NewRunLog creates a run log backed by the given file.
func NewRunLog(path string) *RunLog {
	return &RunLog{path: path}
}

// Path returns the file backing the log.
func (r *RunLog) Path() string {
	return r.path
}

// Save rewrites the log with the given run time and processed count.
func (r *RunLog) Save(ranAt utc.Time, totalProcessed int) error {
	state := RunState{
		LastRun:        ranAt.Format(constants.TimeFormatStamp),
		TotalProcessed: totalProcessed,
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.WrapParse("json", r.path, err)
	}
	if err := os.WriteFile(r.path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", r.path, err)
	}
	return nil
}

// Load reads the last-run state. A missing file returns nil state and
// no error.
func (r *RunLog) Load() (*RunState, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapIO("read", r.path, err)
	}
	var state RunState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, errors.WrapParse("json", r.path, err)
	}
	return &state, nil
}

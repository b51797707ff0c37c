package storage

import (
	"github.com/vovakirdan/tui-blockstage/internal/engine"
	"github.com/vovakirdan/tui-blockstage/internal/project"
)

// Recorder saves engine run summaries under a project name.
type Recorder struct {
	store   *Store
	project string
	onSave  func(RunRecord)
}

// Recorder returns an engine.RunRecorder that files runs under project.
// onSave, if set, is called after each successful save.
func (s *Store) Recorder(projectName string, onSave func(RunRecord)) *Recorder {
	return &Recorder{store: s, project: projectName, onSave: onSave}
}

// RecordRun implements engine.RunRecorder.
func (r *Recorder) RecordRun(sum engine.RunSummary) error {
	snapshot, err := project.FromActors(r.project, sum.Final).JSON()
	if err != nil {
		return err
	}

	saved, err := r.store.SaveRun(RunRecord{
		Project:    r.project,
		Outcome:    string(sum.Outcome),
		Actors:     sum.Actors,
		Steps:      sum.Steps,
		Blocks:     sum.Blocks,
		Collisions: sum.Collisions,
		Duration:   sum.Duration,
		Snapshot:   snapshot,
	})
	if err != nil {
		return err
	}
	if r.onSave != nil {
		r.onSave(saved)
	}
	return nil
}

// Ensure Recorder implements engine.RunRecorder
var _ engine.RunRecorder = (*Recorder)(nil)

// SnapshotProject decodes a run's snapshot as a project file.
func (r *RunRecord) SnapshotProject() (*project.File, error) {
	return project.Parse(r.Snapshot)
}

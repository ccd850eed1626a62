package engine

// rollback removes every file this run copied successfully. It runs after
// all workers have joined. Failures are recorded and the scan goes on.
func (r *run) rollback() {
	copied := r.ledger.Records()
	r.logger.Info("rolling back", "files", len(copied))

	for _, rec := range copied {
		if !r.fs.Exists(rec.DestinationPath) {
			continue
		}
		out := CopyRecord{SourcePath: rec.SourcePath, DestinationPath: rec.DestinationPath}
		if err := r.fs.Remove(rec.DestinationPath); err != nil {
			out.Outcome = RollbackError
			out.Err = err
		} else {
			out.Outcome = RollbackSuccess
		}
		r.record(out, 0)
	}
}

package types

// EncodeReport is the report about one batch of run files.
type EncodeReport struct {
	// Processed is the number of run files taken into the batch.
	Processed int `json:"processed"`
	// Succeeded is the number of run files encoded without error.
	Succeeded int `json:"succeeded"`
	// Lines is the number of emitted lines per section.
	Lines map[Section]int `json:"lines"`
	// Failures lists run files which failed to encode.
	Failures []RecordFailure `json:"failures,omitempty"`
	// Skipped lists run files beyond the batch limit.
	Skipped []string `json:"skipped,omitempty"`
}

// RecordFailure describes why one run file produced no output.
type RecordFailure struct {
	// Record identifies the run file.
	Record string `json:"record"`
	// Error is the failure message.
	Error string `json:"error"`
}

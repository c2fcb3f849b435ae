package constants

// JobStatus is the canonical status for one document-processing job.
type JobStatus string

// Stable values (store these exact strings in the result store).
const (
	JobStatusQueued    JobStatus = "QUEUED"    // queued for processing
	JobStatusRunning   JobStatus = "RUNNING"   // in progress
	JobStatusOCROK     JobStatus = "OCR_OK"    // stage 1 completed (text recognized)
	JobStatusExtracted JobStatus = "EXTRACTED" // stage 2 completed (fields resolved)
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure
)

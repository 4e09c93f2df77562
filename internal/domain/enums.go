package domain

// SourceStrategy identifies which extraction strategy produced a candidate.
type SourceStrategy string

const (
	StrategyPattern SourceStrategy = "pattern"
	StrategyEntity  SourceStrategy = "entity"
	StrategyModel   SourceStrategy = "model"
)

// JobStatus tracks the lifecycle of an asynchronous analysis job.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

package api

const (
	// HeaderRunID is header for RunID
	HeaderRunID = "x-run-id"
	// HeaderJobName is header for JobName
	HeaderJobName = "x-job-name"
	// HeaderUnitID is header for UnitID
	HeaderUnitID = "x-unit-id"
	// HeaderType is header for Type
	HeaderType = "x-type"
)

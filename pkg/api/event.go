package api

// Event tags produced by the version-control system.
const (
	EventPush        = "push"
	EventPullRequest = "pull_request"
)

// Event is a repository event handed to the engine by the invoking system.
// It is immutable and consumed once by the trigger evaluator.
type Event struct {
	Type   string `json:"type" yaml:"type"`
	Branch string `json:"branch,omitempty" yaml:"branch"`
	Commit string `json:"commit,omitempty" yaml:"commit"`
}

package model

// PipelineStep identifies one stage of the ingestion pipeline
type PipelineStep string

const (
	StepSummarize PipelineStep = "summarize"
	StepEmbed     PipelineStep = "embed"
	StepStore     PipelineStep = "store"
)

// pipelineOrder is the fixed execution order of the ingestion steps
var pipelineOrder = []PipelineStep{StepSummarize, StepEmbed, StepStore}

type StepState string

const (
	StepPending   StepState = "pending"
	StepCompleted StepState = "completed"
	StepFailed    StepState = "failed"
)

// StepStatus records the outcome of a single pipeline step
type StepStatus struct {
	State StepState `json:"state"`
	Error string    `json:"error,omitempty"`
}

// PipelineStatus tracks per-step outcomes of one ingestion run. A step
// that was never attempted stays pending; a failed step is terminal for
// all steps after it.
type PipelineStatus map[PipelineStep]*StepStatus

// NewPipelineStatus returns a status map with all steps pending
func NewPipelineStatus() PipelineStatus {
	s := make(PipelineStatus, len(pipelineOrder))
	for _, step := range pipelineOrder {
		s[step] = &StepStatus{State: StepPending}
	}
	return s
}

func (s PipelineStatus) Complete(step PipelineStep) {
	s[step] = &StepStatus{State: StepCompleted}
}

func (s PipelineStatus) Fail(step PipelineStep, err error) {
	st := &StepStatus{State: StepFailed}
	if err != nil {
		st.Error = err.Error()
	}
	s[step] = st
}

// Succeeded reports whether every step completed
func (s PipelineStatus) Succeeded() bool {
	for _, step := range pipelineOrder {
		st, ok := s[step]
		if !ok || st.State != StepCompleted {
			return false
		}
	}
	return true
}

// IngestInput is the request to the ingestion pipeline
type IngestInput struct {
	ChatLog  []string
	Context  string
	Tags     []string
	Metadata map[string]string
}

// IngestResult reports the outcome of one pipeline run. On failure the
// fields computed before the failing step are still populated so the
// caller can retry manually.
type IngestResult struct {
	MemoryID     MemoryID
	Heading      string
	Summary      string
	EmbeddingDim int
	Steps        PipelineStatus
}

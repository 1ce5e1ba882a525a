package contract

type Profile string

const (
	ProfileDecision    Profile = "decision"
	ProfileCompression Profile = "compression"
	ProfileAssessment  Profile = "assessment"
)

// ResearchReport is the final output of one research session.
type ResearchReport struct {
	SessionID          string   `json:"session_id"`
	CompressedResearch string   `json:"compressed_research"`
	RawNotes           []string `json:"raw_notes"`
	QAReport           string   `json:"qa_report"`
	Iterations         int      `json:"iterations"`
}

package models

// QuestionType is the normalized name of a question category.
type QuestionType string

const (
	TypeMCQ         QuestionType = "mcq"
	TypeTrueFalse   QuestionType = "truefalse"
	TypeShortAnswer QuestionType = "shortanswer"
)

// Question is a single parsed question. Options is populated only for
// multiple-choice and always holds exactly four entries keyed A-D when set.
// CorrectOption / AnswerText are filled only when answers were requested and
// the backend actually produced one.
type Question struct {
	Type          QuestionType
	Prompt        string
	Options       map[string]string
	CorrectOption string
	AnswerText    string
}

// TypeQuota is the share of the requested total allotted to one type.
type TypeQuota struct {
	Type      QuestionType
	Requested int
}

// PipelineResult aggregates the outcome of one generation run.
type PipelineResult struct {
	Questions        []Question
	TypesAttempted   []QuestionType
	TypesWithErrors  []QuestionType
	ConnectionErrors []string
}

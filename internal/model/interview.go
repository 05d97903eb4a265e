package model

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyMedium:
		return "Medium"
	case DifficultyHard:
		return "Hard"
	}
	return string(d)
}

type InterviewType string

const (
	TypeHR         InterviewType = "hr"
	TypeBehavioral InterviewType = "behavioral"
	TypeTechnical  InterviewType = "technical"
)

func (t InterviewType) Valid() bool {
	switch t {
	case TypeHR, TypeBehavioral, TypeTechnical:
		return true
	}
	return false
}

func (t InterviewType) Label() string {
	switch t {
	case TypeHR:
		return "HR"
	case TypeBehavioral:
		return "Behavioral"
	case TypeTechnical:
		return "Technical"
	}
	return string(t)
}

// AllInterviewTypes 固定遍历顺序，聚合统计按此顺序输出
var AllInterviewTypes = []InterviewType{TypeHR, TypeBehavioral, TypeTechnical}

type Tone string

const (
	ToneSupportive  Tone = "supportive"
	ToneNeutral     Tone = "neutral"
	ToneChallenging Tone = "challenging"
)

// AnswerEvaluation 评分服务返回的单次作答评估
type AnswerEvaluation struct {
	Score      float64    `json:"score"`
	Confidence Confidence `json:"confidence"`
	Hesitation bool       `json:"hesitation"`
	Summary    string     `json:"summary,omitempty"`
}

// Interview represents one scored answer attempt, immutable once created
// swagger:model Interview
type Interview struct {
	BaseModel
	UserID        uint          `gorm:"index;not null" json:"userId"`
	SessionID     string        `gorm:"size:36;index" json:"sessionId"`
	InterviewType InterviewType `gorm:"type:varchar(20);not null" json:"interviewType"`
	Difficulty    Difficulty    `gorm:"type:varchar(20);not null" json:"difficulty"`
	Question      string        `gorm:"type:text" json:"question"`
	Answer        string        `gorm:"type:text" json:"answer"`
	Score         float64       `gorm:"not null" json:"score"`
	Confidence    Confidence    `gorm:"type:varchar(20);not null" json:"confidence"`
	Hesitation    bool          `gorm:"default:false" json:"hesitation"`
	AnswerLength  int           `gorm:"default:0" json:"answerLength"`
	Summary       string        `gorm:"type:text" json:"summary"`
	RecordingKey  string        `gorm:"size:255" json:"recordingKey,omitempty"`
}

func (Interview) TableName() string {
	return "interviews"
}

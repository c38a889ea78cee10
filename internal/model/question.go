package model

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties is the ordered difficulty ladder a learning path climbs.
var Difficulties = []Difficulty{Easy, Medium, Hard}

func (d Difficulty) Valid() bool {
	for _, v := range Difficulties {
		if d == v {
			return true
		}
	}
	return false
}

// swagger:model Question
type Question struct {
	BaseModel
	Text       string     `gorm:"type:text;not null" json:"text"`
	SubjectID  uint       `gorm:"index;not null" json:"subjectId"`
	Subject    Subject    `json:"subject"`
	Difficulty Difficulty `gorm:"size:20;index;not null" json:"difficulty"`
	ImageURL   string     `gorm:"size:255" json:"imageUrl,omitempty"`

	// Explanation 由 AI 懒生成，一旦非空不再覆盖
	Explanation        string   `gorm:"type:text" json:"explanation"`
	LearningObjectives []string `gorm:"serializer:json;type:text" json:"learningObjectives"`
	Tags               []string `gorm:"serializer:json;type:text" json:"tags"`
}

func (Question) TableName() string {
	return "questions"
}

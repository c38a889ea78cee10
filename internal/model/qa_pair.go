package model

import "time"

// QAPair 自由提问的问答记录
// swagger:model QAPair
type QAPair struct {
	BaseModel
	UserID            uint       `gorm:"index;not null" json:"userId"`
	Question          string     `gorm:"type:text;not null" json:"question"`
	Answer            string     `gorm:"type:text" json:"answer"`
	Explanation       string     `gorm:"type:text" json:"explanation,omitempty"`
	Subject           string     `gorm:"size:50;index" json:"subject"`
	GradeLevel        string     `gorm:"size:50" json:"gradeLevel"`
	Helpful           *bool      `json:"helpful,omitempty"`
	FeedbackTimestamp *time.Time `json:"feedbackTimestamp,omitempty"`
}

func (QAPair) TableName() string {
	return "qa_pairs"
}

// swagger:model DailyChallenge
type DailyChallenge struct {
	BaseModel
	Date     string `gorm:"size:10;uniqueIndex;not null" json:"date"`
	Question string `gorm:"type:text;not null" json:"question"`
}

func (DailyChallenge) TableName() string {
	return "daily_challenges"
}

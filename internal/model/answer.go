package model

import "time"

// Answer 学生提交的答案，IsCorrect/Feedback 在创建时一次性写入
// swagger:model Answer
type Answer struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestionID uint      `gorm:"index;not null" json:"questionId"`
	Question   *Question `json:"question,omitempty"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool      `gorm:"default:false" json:"isCorrect"`
	Feedback   string    `gorm:"type:text" json:"feedback"`
	CreatedAt  time.Time `json:"timestamp"`
}

func (Answer) TableName() string {
	return "answers"
}

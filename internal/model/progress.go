package model

import "time"

// Progress 答题记录，只追加不修改
// swagger:model Progress
type Progress struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"index:idx_progress_lookup;not null" json:"userId"`
	LearningPathID uint      `gorm:"index:idx_progress_lookup;not null" json:"learningPathId"`
	QuestionID     uint      `gorm:"index:idx_progress_lookup;not null" json:"questionId"`
	IsCorrect      bool      `gorm:"not null" json:"isCorrect"`
	Level          string    `gorm:"size:50" json:"level"` // 作答时学习路径所处的等级
	CreatedAt      time.Time `gorm:"index" json:"timestamp"`
}

func (Progress) TableName() string {
	return "progress"
}

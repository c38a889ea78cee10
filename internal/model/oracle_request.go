package model

import "time"

// OracleRequest 记录每一次 AI 调用
type OracleRequest struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Provider     string    `gorm:"size:50;index" json:"provider"`
	Purpose      string    `gorm:"size:50;index" json:"purpose"`
	LatencyMs    int64     `json:"latencyMs"`
	Success      bool      `json:"success"`
	ErrorMessage string    `gorm:"type:text" json:"errorMessage,omitempty"`
	PromptChars  int       `json:"promptChars"`
	OutputChars  int       `json:"outputChars"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
}

func (OracleRequest) TableName() string {
	return "oracle_requests"
}

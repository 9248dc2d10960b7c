// file: models/submission.go
package models

import (
	"time"
)

// Submission 只记录正确解题，错误提交进入 SubmissionLog
type Submission struct {
	ID          uint64    `gorm:"primarykey"`
	ChallengeID uint32    `gorm:"not null"`
	UserID      uint32    `gorm:"not null"`
	TeamID      uint32    `gorm:"not null"`
	PodID       *uint32   // 解题时队伍绑定的 Pod（管理员覆写时为覆写值）
	Score       uint      `gorm:"not null"`
	SolvingTime time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (Submission) TableName() string {
	return "podctf_submission"
}

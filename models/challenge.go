// file: models/challenge.go
package models

import (
	"time"
)

type ChallengeState string
type ChallengeDifficulty string

const (
	ChallengeStateVisible ChallengeState = "visible"
	ChallengeStateHidden  ChallengeState = "hidden"

	ChallengeDifficultyEasy   ChallengeDifficulty = "easy"
	ChallengeDifficultyMedium ChallengeDifficulty = "medium"
	ChallengeDifficultyHard   ChallengeDifficulty = "hard"
)

// 题目类型标识，对应 services 中注册的渲染器
const (
	ChallengeTypeStandard = "standard"
	ChallengeTypePerPod   = "per_pod"
)

type Challenge struct {
	ID            uint32              `gorm:"primarykey"`
	ChallengeName string              `gorm:"size:100;unique;not null"`
	ChallengeType string              `gorm:"size:32;not null;default:'standard'"`
	Author        string              `gorm:"size:50;not null"`
	Description   string              `gorm:"type:text;not null"` // 可包含 :pod_id: 占位符
	Hint          string              `gorm:"type:text"`
	State         ChallengeState      `gorm:"type:enum('visible','hidden');default:'hidden'"`
	Difficulty    ChallengeDifficulty `gorm:"type:enum('easy','medium','hard');default:'medium'"`
	InitialScore  uint                `gorm:"not null"`
	MinScore      uint                `gorm:"not null"`
	CurrentScore  uint                `gorm:"not null"`
	DecayRatio    float32             `gorm:"default:0.1"`
	SolvedCount   uint                `gorm:"default:0"`
	Flags         []Flag              `gorm:"foreignKey:ChallengeID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Challenge) TableName() string {
	return "podctf_challenge"
}

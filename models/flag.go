// file: models/flag.go
package models

import (
	"time"
)

// Flag 类型标识，对应 services 中注册的比较器
const (
	FlagTypeStatic      = "static"
	FlagTypePodSpecific = "pod_specific"
)

// Flag 对应 podctf_flag 表
// 一道题目可以有多条 Flag 记录；pod_specific 类型的记录对每个 Pod 各一条，
// Data 保存该记录归属的 Pod ID（裸整数字符串，兼容历史 JSON 编码）。
type Flag struct {
	ID          uint64 `gorm:"primarykey"`
	ChallengeID uint32 `gorm:"index;not null"`
	Type        string `gorm:"size:32;not null;default:'static'"`
	Content     string `gorm:"size:255;not null"`
	Data        string `gorm:"type:text"`
	CreatedAt   time.Time
}

func (Flag) TableName() string {
	return "podctf_flag"
}

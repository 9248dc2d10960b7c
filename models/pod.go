// file: models/pod.go
package models

import (
	"time"
)

type PodState string

const (
	PodStateRunning   PodState = "running"
	PodStateStopped   PodState = "stopped"
	PodStateDestroyed PodState = "destroyed"
)

// Pod 对应 podctf_pod 表
// 一个 Pod 是绑定到某支队伍的隔离实验环境实例（Docker Swarm 服务），
// Pod ID 同时也是 Flag 归属校验和描述占位符替换使用的标识。
type Pod struct {
	ID            uint32    `gorm:"primarykey"`
	TeamID        *uint32   `gorm:"index"` // 为空表示尚未分配给队伍
	ServiceID     string    `gorm:"size:64"`
	PodName       string    `gorm:"size:100;not null"`
	DockerImage   string    `gorm:"size:255;not null"`
	DockerPorts   string    `gorm:"size:100"`
	State         PodState  `gorm:"type:enum('running','stopped','destroyed');default:'running'"`
	StartTime     time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	EndTime       time.Time `gorm:"not null"`
	ExtendedCount uint      `gorm:"default:0"`
}

func (Pod) TableName() string {
	return "podctf_pod"
}

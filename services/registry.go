// file: services/registry.go
package services

import (
	"log"
)

// ChallengeRenderer 是题目类型的描述渲染器接口
type ChallengeRenderer interface {
	ID() string
	RenderDescription(description string, pod *uint32) string
}

// 启动时一次性填充，之后只读
var challengeTypes = make(map[string]ChallengeRenderer)

func RegisterChallengeType(cr ChallengeRenderer) {
	challengeTypes[cr.ID()] = cr
}

// GetChallengeType 未注册的类型回退到 standard 渲染器
func GetChallengeType(id string) ChallengeRenderer {
	if cr, ok := challengeTypes[id]; ok {
		return cr
	}
	return StandardChallenge{}
}

// RegisterBuiltinTypes 在进程启动时注册内置的 Flag 比较器和题目渲染器
// main 调用一次，之后注册表不再变化
func RegisterBuiltinTypes() {
	RegisterFlagType(StaticFlag{})
	RegisterFlagType(PodSpecificFlag{})

	RegisterChallengeType(StandardChallenge{})
	RegisterChallengeType(PerPodChallenge{})

	log.Println("Registered flag types: static, pod_specific; challenge types: standard, per_pod")
}

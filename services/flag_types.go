// file: services/flag_types.go
package services

import (
	"PodCTF/models"
	"crypto/subtle"
	"encoding/json"
	"log"
	"math"
	"strconv"
	"strings"
)

// FlagComparer 是 Flag 类型的比较器接口
// Compare 绝不 panic；任何内部异常一律判为不匹配（fail-closed）
type FlagComparer interface {
	Name() string
	Compare(flag *models.Flag, provided string, pod *uint32) bool
}

// 启动时由 RegisterBuiltinTypes 一次性填充，之后只读，不在比较热路径上加锁
var flagTypes = make(map[string]FlagComparer)

func RegisterFlagType(fc FlagComparer) {
	flagTypes[fc.Name()] = fc
}

func GetFlagType(name string) (FlagComparer, bool) {
	fc, ok := flagTypes[name]
	return fc, ok
}

// StaticFlag 静态 Flag：全队伍共享同一个 Flag，不校验 Pod 归属
type StaticFlag struct{}

func (StaticFlag) Name() string { return models.FlagTypeStatic }

func (StaticFlag) Compare(flag *models.Flag, provided string, pod *uint32) bool {
	if flag == nil {
		return false
	}
	expected := strings.TrimSpace(flag.Content)
	submitted := strings.TrimSpace(provided)
	if expected == "" {
		return false
	}
	return constantTimeEquals(expected, submitted)
}

// PodSpecificFlag Pod 专属 Flag：记录的 Data 编码了归属 Pod ID，
// 只有提交者解析到的 Pod 与记录归属一致且内容相符才算正确
type PodSpecificFlag struct{}

func (PodSpecificFlag) Name() string { return models.FlagTypePodSpecific }

func (PodSpecificFlag) Compare(flag *models.Flag, provided string, pod *uint32) bool {
	if flag == nil {
		return false
	}

	expected := strings.TrimSpace(flag.Content)
	storedData := strings.TrimSpace(flag.Data)
	submitted := strings.TrimSpace(provided)

	if expected == "" || storedData == "" {
		log.Printf("Empty flag content or data for flag %d", flag.ID)
		return false
	}

	// 未解析到 Pod 一律判错，哪怕内容完全一致
	if pod == nil {
		return false
	}

	storedPod := DecodeStoredPodID(storedData)
	if storedPod == nil {
		log.Printf("Failed to parse pod data for flag %d: %q", flag.ID, storedData)
		return false
	}

	// 归属校验必须先于内容比较
	if *storedPod != *pod {
		return false
	}

	return constantTimeEquals(expected, submitted)
}

// DecodeStoredPodID 解码 Flag 记录 Data 中的 Pod ID
// 优先按裸整数解析，失败后回退到历史 JSON 编码 {"pod_id": N}；都失败返回 nil
func DecodeStoredPodID(data string) *uint32 {
	data = strings.TrimSpace(data)
	if id64, err := strconv.ParseUint(data, 10, 32); err == nil {
		id := uint32(id64)
		return &id
	}

	var payload struct {
		PodID *int64 `json:"pod_id"`
	}
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil
	}
	if payload.PodID == nil || *payload.PodID < 0 || *payload.PodID > math.MaxUint32 {
		return nil
	}
	id := uint32(*payload.PodID)
	return &id
}

// constantTimeEquals 恒定时间比较，比较耗时与首个差异字符的位置无关
// 长度不一致直接判否（长度不视为机密信息）
func constantTimeEquals(expected, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}

// CheckSubmission 用注册的比较器逐条校验题目的 Flag 记录
// 返回命中的 Flag 记录 ID；未命中返回 (false, 0)
func CheckSubmission(flags []models.Flag, provided string, pod *uint32) (bool, uint64) {
	for i := range flags {
		comparer, ok := GetFlagType(flags[i].Type)
		if !ok {
			log.Printf("Unknown flag type %q for flag %d, skipped", flags[i].Type, flags[i].ID)
			continue
		}
		if comparer.Compare(&flags[i], provided, pod) {
			return true, flags[i].ID
		}
	}
	return false, 0
}

// file: services/flag_service.go
package services

import (
	"PodCTF/database"
	"PodCTF/models"
	"sort"
	"strconv"

	"gorm.io/gorm"
)

// CreatePodSpecificFlags 为映射中的每个 (Pod, Flag) 写入一条 pod_specific 记录
// 必须在调用方的事务内执行：任何一条写入失败都会让整个创建操作回滚，
// 不允许留下半套映射
func CreatePodSpecificFlags(tx *gorm.DB, challengeID uint32, mapping map[uint32]string) error {
	ids := make([]uint32, 0, len(mapping))
	for id := range mapping {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, podID := range ids {
		flag := models.Flag{
			ChallengeID: challengeID,
			Type:        models.FlagTypePodSpecific,
			Content:     mapping[podID],
			Data:        strconv.FormatUint(uint64(podID), 10),
		}
		if err := tx.Create(&flag).Error; err != nil {
			return err
		}
	}
	return nil
}

// ReplacePodSpecificFlags 编辑题目时整体替换 Pod Flag 映射
// 先删后建在同一事务内完成，避免同一 (题目, Pod) 积累多条互相冲突的记录
func ReplacePodSpecificFlags(tx *gorm.DB, challengeID uint32, mapping map[uint32]string) error {
	if err := tx.
		Where("challenge_id = ? AND type = ?", challengeID, models.FlagTypePodSpecific).
		Delete(&models.Flag{}).Error; err != nil {
		return err
	}
	return CreatePodSpecificFlags(tx, challengeID, mapping)
}

// LoadChallengeFlags 读取题目的全部 Flag 记录
func LoadChallengeFlags(tx *gorm.DB, challengeID uint32) ([]models.Flag, error) {
	if tx == nil {
		tx = database.DB
	}
	var flags []models.Flag
	err := tx.Where("challenge_id = ?", challengeID).Order("id asc").Find(&flags).Error
	return flags, err
}

// BuildPodFlagMap 从已存储的记录重建 Pod Flag 映射（管理员详情页回显）
// Data 解码失败的记录跳过并由比较器在提交时按不匹配处理
func BuildPodFlagMap(flags []models.Flag) map[uint32]string {
	mapping := make(map[uint32]string)
	for _, f := range flags {
		if f.Type != models.FlagTypePodSpecific {
			continue
		}
		if podID := DecodeStoredPodID(f.Data); podID != nil {
			mapping[*podID] = f.Content
		}
	}
	return mapping
}

// file: services/flag_service_test.go
package services

import (
	"PodCTF/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPodFlagMap(t *testing.T) {
	flags := []models.Flag{
		{ID: 1, Type: models.FlagTypePodSpecific, Content: "FLAG{a}", Data: "1"},
		{ID: 2, Type: models.FlagTypePodSpecific, Content: "FLAG{b}", Data: `{"pod_id": 2}`},
		{ID: 3, Type: models.FlagTypeStatic, Content: "FLAG{shared}"},
		{ID: 4, Type: models.FlagTypePodSpecific, Content: "FLAG{broken}", Data: "oops"},
	}

	mapping := BuildPodFlagMap(flags)
	assert.Equal(t, map[uint32]string{1: "FLAG{a}", 2: "FLAG{b}"}, mapping)

	// 回显文本可以被再次解析成同一映射
	again, err := ParsePodFlagMap(FormatPodFlagMap(mapping))
	assert.NoError(t, err)
	assert.Equal(t, mapping, again)
}

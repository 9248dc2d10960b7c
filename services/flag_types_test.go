// file: services/flag_types_test.go
package services

import (
	"PodCTF/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func podPtr(id uint32) *uint32 { return &id }

func TestPodSpecificFlagCompare(t *testing.T) {
	comparer := PodSpecificFlag{}
	flag := &models.Flag{ID: 1, Type: models.FlagTypePodSpecific, Content: "FLAG{x}", Data: "5"}

	tests := []struct {
		name     string
		flag     *models.Flag
		provided string
		pod      *uint32
		want     bool
	}{
		{
			name:     "matching pod and secret",
			flag:     flag,
			provided: "FLAG{x}",
			pod:      podPtr(5),
			want:     true,
		},
		{
			name:     "submitted value is trimmed",
			flag:     flag,
			provided: "  FLAG{x}\n",
			pod:      podPtr(5),
			want:     true,
		},
		{
			name:     "wrong pod with identical secret",
			flag:     flag,
			provided: "FLAG{x}",
			pod:      podPtr(6),
			want:     false,
		},
		{
			name:     "right pod with wrong secret",
			flag:     flag,
			provided: "FLAG{y}",
			pod:      podPtr(5),
			want:     false,
		},
		{
			name:     "no pod context even with exact secret",
			flag:     flag,
			provided: "FLAG{x}",
			pod:      nil,
			want:     false,
		},
		{
			name:     "nil flag",
			flag:     nil,
			provided: "FLAG{x}",
			pod:      podPtr(5),
			want:     false,
		},
		{
			name:     "empty content",
			flag:     &models.Flag{Content: "   ", Data: "5"},
			provided: "",
			pod:      podPtr(5),
			want:     false,
		},
		{
			name:     "empty data",
			flag:     &models.Flag{Content: "FLAG{x}", Data: "  "},
			provided: "FLAG{x}",
			pod:      podPtr(5),
			want:     false,
		},
		{
			name:     "undecodable data never raises",
			flag:     &models.Flag{Content: "FLAG{x}", Data: "not-a-number"},
			provided: "FLAG{x}",
			pod:      podPtr(5),
			want:     false,
		},
		{
			name:     "json encoded pod id",
			flag:     &models.Flag{Content: "FLAG{x}", Data: `{"pod_id": 5}`},
			provided: "FLAG{x}",
			pod:      podPtr(5),
			want:     true,
		},
		{
			name:     "json encoded pod id mismatch",
			flag:     &models.Flag{Content: "FLAG{x}", Data: `{"pod_id": 4}`},
			provided: "FLAG{x}",
			pod:      podPtr(5),
			want:     false,
		},
		{
			name:     "stored content is trimmed",
			flag:     &models.Flag{Content: " FLAG{x} ", Data: " 5 "},
			provided: "FLAG{x}",
			pod:      podPtr(5),
			want:     true,
		},
		{
			name:     "equal length but different secret",
			flag:     flag,
			provided: "FLAG{z}",
			pod:      podPtr(5),
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, comparer.Compare(tt.flag, tt.provided, tt.pod))
			})
		})
	}
}

func TestStaticFlagCompare(t *testing.T) {
	comparer := StaticFlag{}
	flag := &models.Flag{Type: models.FlagTypeStatic, Content: "FLAG{static}"}

	// 静态 Flag 不校验 Pod 归属
	assert.True(t, comparer.Compare(flag, "FLAG{static}", nil))
	assert.True(t, comparer.Compare(flag, " FLAG{static} ", podPtr(3)))
	assert.False(t, comparer.Compare(flag, "FLAG{other}", nil))
	assert.False(t, comparer.Compare(nil, "FLAG{static}", nil))
	assert.False(t, comparer.Compare(&models.Flag{Content: "  "}, "", nil))
}

func TestDecodeStoredPodID(t *testing.T) {
	tests := []struct {
		name string
		data string
		want *uint32
	}{
		{name: "bare integer", data: "5", want: podPtr(5)},
		{name: "bare integer with spaces", data: " 12 ", want: podPtr(12)},
		{name: "json object", data: `{"pod_id": 7}`, want: podPtr(7)},
		{name: "json missing field", data: `{"other": 7}`, want: nil},
		{name: "json negative pod", data: `{"pod_id": -1}`, want: nil},
		{name: "garbage", data: "not-a-number", want: nil},
		{name: "float rejected", data: "5.0", want: nil},
		{name: "empty", data: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeStoredPodID(tt.data)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestCheckSubmission(t *testing.T) {
	RegisterBuiltinTypes()

	flags := []models.Flag{
		{ID: 1, Type: models.FlagTypePodSpecific, Content: "FLAG{pod1}", Data: "1"},
		{ID: 2, Type: models.FlagTypePodSpecific, Content: "FLAG{pod2}", Data: "2"},
		{ID: 3, Type: models.FlagTypeStatic, Content: "FLAG{shared}"},
	}

	matched, flagID := CheckSubmission(flags, "FLAG{pod2}", podPtr(2))
	assert.True(t, matched)
	assert.Equal(t, uint64(2), flagID)

	// Pod 1 的成员提交 Pod 2 的 Flag 不算数
	matched, _ = CheckSubmission(flags, "FLAG{pod2}", podPtr(1))
	assert.False(t, matched)

	// 静态 Flag 任何 Pod 都可提交
	matched, flagID = CheckSubmission(flags, "FLAG{shared}", nil)
	assert.True(t, matched)
	assert.Equal(t, uint64(3), flagID)

	matched, _ = CheckSubmission(flags, "FLAG{nope}", podPtr(1))
	assert.False(t, matched)

	// 未注册的类型跳过，不 panic
	unknown := []models.Flag{{ID: 9, Type: "mystery", Content: "FLAG{x}"}}
	assert.NotPanics(t, func() {
		matched, _ = CheckSubmission(unknown, "FLAG{x}", podPtr(1))
	})
	assert.False(t, matched)
}

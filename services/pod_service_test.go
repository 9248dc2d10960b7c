// file: services/pod_service_test.go
package services

import (
	"PodCTF/models"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePodOverride(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *uint32
	}{
		{name: "valid id", raw: "42", want: podPtr(42)},
		{name: "zero is valid", raw: "0", want: podPtr(0)},
		{name: "surrounding spaces", raw: " 7 ", want: podPtr(7)},
		{name: "empty ignored", raw: "", want: nil},
		{name: "spaces only ignored", raw: "   ", want: nil},
		{name: "negative ignored", raw: "-1", want: nil},
		{name: "float ignored", raw: "3.5", want: nil},
		{name: "garbage ignored", raw: "abc", want: nil},
		{name: "trailing garbage ignored", raw: "5x", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePodOverride(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestResolveCurrentPodIDWithoutContext(t *testing.T) {
	// 无请求上下文不是错误，一律视为未解析到
	assert.Nil(t, ResolveCurrentPodID(nil))

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ResolveCurrentPodID(c))

	// user_id 类型非法时同样失败关闭
	c.Set("user_id", "not-a-uint32")
	assert.Nil(t, ResolveCurrentPodID(c))
}

func TestResolvePodIDWithOverride(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	// 普通用户无覆写权限
	assert.Nil(t, ResolvePodIDWithOverride(c, "9", models.RoleUser))

	// 管理员可以显式指定 Pod
	got := ResolvePodIDWithOverride(c, "9", models.RoleAdmin)
	require.NotNil(t, got)
	assert.Equal(t, uint32(9), *got)

	got = ResolvePodIDWithOverride(c, "9", models.RoleRootAdmin)
	require.NotNil(t, got)
	assert.Equal(t, uint32(9), *got)

	// 非法覆写值被忽略，不报错
	assert.Nil(t, ResolvePodIDWithOverride(c, "not-a-pod", models.RoleAdmin))
	assert.Nil(t, ResolvePodIDWithOverride(c, "", models.RoleAdmin))
}

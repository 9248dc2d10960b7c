// file: utils/code_generator_test.go
package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInvitationCode(t *testing.T) {
	code := GenerateInvitationCode(12)
	assert.Len(t, code, 12)
	for _, ch := range code {
		assert.Contains(t, charset, string(ch))
	}

	// 连续生成不应该相同
	assert.NotEqual(t, GenerateInvitationCode(12), GenerateInvitationCode(12))
}

func TestGeneratePodFlag(t *testing.T) {
	flag := GeneratePodFlag()
	assert.True(t, strings.HasPrefix(flag, "PODCTF{"))
	assert.True(t, strings.HasSuffix(flag, "}"))
	assert.NotEqual(t, flag, GeneratePodFlag())
}

// file: services/template_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstitutePodTokens(t *testing.T) {
	assert.Equal(t, "Connect to 7", SubstitutePodTokens("Connect to :pod_id:", 7))
	assert.Equal(t, "7 and 7", SubstitutePodTokens(":pod_id: and :pod_id:", 7))
	assert.Equal(t, "no token here", SubstitutePodTokens("no token here", 7))
}

func TestPerPodChallengeRenderDescription(t *testing.T) {
	renderer := PerPodChallenge{}

	html := renderer.RenderDescription("Connect to :pod_id:", podPtr(7))
	assert.Contains(t, html, "Connect to 7")
	assert.NotContains(t, html, PodTokenPlaceholder)

	// 未解析到 Pod 时占位符保持原样
	html = renderer.RenderDescription("Connect to :pod_id:", nil)
	assert.Contains(t, html, PodTokenPlaceholder)
}

func TestRenderDescriptionSanitizesHTML(t *testing.T) {
	renderer := PerPodChallenge{}

	html := renderer.RenderDescription("hello <script>alert(1)</script> pod :pod_id:", podPtr(3))
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "pod 3")
}

func TestStandardChallengeRenderDescription(t *testing.T) {
	renderer := StandardChallenge{}

	html := renderer.RenderDescription("# Title\n\nsome **bold** text", nil)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>bold</strong>")

	// standard 题目不做占位符替换
	html = renderer.RenderDescription("pod :pod_id:", nil)
	assert.True(t, strings.Contains(html, PodTokenPlaceholder))
}

// file: services/template_service.go
package services

import (
	"PodCTF/models"
	"bytes"
	"log"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// PodTokenPlaceholder 题目描述中的 Pod 占位符
const PodTokenPlaceholder = ":pod_id:"

var (
	markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))
	htmlSanitizer    = bluemonday.UGCPolicy()
)

// SubstitutePodTokens 将描述中的所有占位符替换为 Pod ID 的十进制表示
func SubstitutePodTokens(text string, podID uint32) string {
	return strings.ReplaceAll(text, PodTokenPlaceholder, strconv.FormatUint(uint64(podID), 10))
}

// renderMarkdown Markdown -> 安全 HTML
func renderMarkdown(text string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// StandardChallenge 普通题目：描述原样渲染
type StandardChallenge struct{}

func (StandardChallenge) ID() string { return models.ChallengeTypeStandard }

func (StandardChallenge) RenderDescription(description string, pod *uint32) string {
	html, err := renderMarkdown(description)
	if err != nil {
		log.Printf("Failed to render challenge description: %v", err)
		return description
	}
	return html
}

// PerPodChallenge Pod 专属题目：渲染前先做占位符替换
// 未解析到 Pod 时占位符保持原样，绝不替换成错误文案或空串
type PerPodChallenge struct{}

func (PerPodChallenge) ID() string { return models.ChallengeTypePerPod }

func (PerPodChallenge) RenderDescription(description string, pod *uint32) string {
	text := description
	if pod != nil {
		text = SubstitutePodTokens(text, *pod)
	}

	html, err := renderMarkdown(text)
	if err != nil {
		log.Printf("Failed to render substituted description: %v", err)
		// 渲染失败时回退到原始描述，不把错误暴露给查看者
		if fallback, ferr := renderMarkdown(description); ferr == nil {
			return fallback
		}
		return description
	}
	return html
}

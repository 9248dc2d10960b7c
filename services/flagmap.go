// file: services/flagmap.go
package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MalformedMappingError 表示管理员输入的 Pod Flag 映射文本非法
// Line 为 1 起始的行号；Token 为非法的 Pod ID 片段，缺少 '=' 时为空
type MalformedMappingError struct {
	Line  int
	Token string
}

func (e *MalformedMappingError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("第 %d 行缺少 '=' 分隔符", e.Line)
	}
	return fmt.Sprintf("第 %d 行 Pod ID 无效: %q", e.Line, e.Token)
}

// ParsePodFlagMap 解析管理员提交的多行 "pod_id=flag" 文本
// 规则：
//   - 空输入返回空映射
//   - 空行跳过；每行只按第一个 '=' 切分，Flag 本身可以包含 '='
//   - Pod ID 必须是非负整数，否则返回 *MalformedMappingError
//   - Flag 去除首尾空白后为空的行视为"暂未设置"并跳过
//   - 同一 Pod ID 出现多次时，后出现的行覆盖先出现的行
func ParsePodFlagMap(raw string) (map[uint32]string, error) {
	mapping := make(map[uint32]string)
	if strings.TrimSpace(raw) == "" {
		return mapping, nil
	}

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, &MalformedMappingError{Line: i + 1}
		}

		podToken := strings.TrimSpace(parts[0])
		podID, err := strconv.ParseUint(podToken, 10, 32)
		if err != nil {
			return nil, &MalformedMappingError{Line: i + 1, Token: podToken}
		}

		secret := strings.TrimSpace(parts[1])
		if secret == "" {
			continue
		}

		mapping[uint32(podID)] = secret
	}

	return mapping, nil
}

// FormatPodFlagMap 把映射按 Pod ID 升序重新序列化为规范文本
// 管理员详情页回显使用；ParsePodFlagMap(FormatPodFlagMap(m)) == m
func FormatPodFlagMap(mapping map[uint32]string) string {
	ids := make([]uint32, 0, len(mapping))
	for id := range mapping {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
		sb.WriteByte('=')
		sb.WriteString(mapping[id])
	}
	return sb.String()
}

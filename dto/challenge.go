// file: dto/challenge.go
package dto

import "strings"

// ========== 请求 DTO ==========

type CreateChallengeReq struct {
	// 规范字段（snake_case）
	ChallengeName string  `json:"challenge_name"`
	ChallengeType string  `json:"challenge_type"` // standard / per_pod
	Author        string  `json:"author"`
	Description   string  `json:"description"`
	Hint          string  `json:"hint"`
	StaticFlag    string  `json:"static_flag"`
	PodFlagMap    string  `json:"pod_flag_map"` // 多行 "pod_id=flag" 文本
	Difficulty    string  `json:"difficulty"`   // easy / medium / hard
	InitialScore  uint    `json:"initial_score"`
	MinScore      uint    `json:"min_score"`
	DecayRatio    float32 `json:"decay_ratio"`

	// 仅用于兼容旧客户端（camelCase 别名），所有别名都与上面 tag 不重复
	ChallengeNameCamel string  `json:"challengeName"`
	ChallengeTypeCamel string  `json:"challengeType"`
	StaticFlagCamel    string  `json:"staticFlag"`
	PodFlagMapCamel    string  `json:"podFlagMap"`
	InitialScoreCamel  uint    `json:"initialScore"`
	MinScoreCamel      uint    `json:"minScore"`
	DecayRatioCamel    float32 `json:"decayRatio"`
}

// Normalize: 将 camelCase 别名归一化到 snake_case，并做轻量默认值处理
func (r *CreateChallengeReq) Normalize() {
	// 别名归一化
	if r.ChallengeName == "" && r.ChallengeNameCamel != "" {
		r.ChallengeName = r.ChallengeNameCamel
	}
	if r.ChallengeType == "" && r.ChallengeTypeCamel != "" {
		r.ChallengeType = r.ChallengeTypeCamel
	}
	if r.StaticFlag == "" && r.StaticFlagCamel != "" {
		r.StaticFlag = r.StaticFlagCamel
	}
	if r.PodFlagMap == "" && r.PodFlagMapCamel != "" {
		r.PodFlagMap = r.PodFlagMapCamel
	}
	if r.InitialScore == 0 && r.InitialScoreCamel != 0 {
		r.InitialScore = r.InitialScoreCamel
	}
	if r.MinScore == 0 && r.MinScoreCamel != 0 {
		r.MinScore = r.MinScoreCamel
	}
	if r.DecayRatio == 0 && r.DecayRatioCamel != 0 {
		r.DecayRatio = r.DecayRatioCamel
	}

	// 清洗/默认值
	r.ChallengeName = strings.TrimSpace(r.ChallengeName)
	r.Author = strings.TrimSpace(r.Author)
	r.Description = strings.TrimSpace(r.Description)
	r.ChallengeType = strings.ToLower(strings.TrimSpace(r.ChallengeType))
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))

	if r.ChallengeType == "" {
		r.ChallengeType = "standard"
	}
	if r.Difficulty == "" {
		r.Difficulty = "medium"
	}
	if r.DecayRatio == 0 {
		r.DecayRatio = 0.1
	}
}

type UpdateChallengeReq struct {
	State       *string `json:"state"` // visible/hidden
	Hint        *string `json:"hint"`
	Difficulty  *string `json:"difficulty"`
	StaticFlag  *string `json:"static_flag"`
	PodFlagMap  *string `json:"pod_flag_map"` // 非空时整体替换 Pod Flag 映射
	Description *string `json:"description"`
}

type SubmitFlagReq struct {
	Flag      string `json:"flag"`
	FlagCamel string `json:"Flag"`
	// 管理员专用：解析不到 Pod 时的显式覆写
	PodID string `json:"pod_id"`
}

func (r *SubmitFlagReq) Normalize() {
	if r.Flag == "" && r.FlagCamel != "" {
		r.Flag = r.FlagCamel
	}
}

// ========== 响应 DTO ==========

type ChallengeItemResp struct {
	ID            uint32 `json:"id"`
	ChallengeName string `json:"challenge_name"`
	ChallengeType string `json:"challenge_type"`
	Difficulty    string `json:"difficulty"`
	CurrentScore  uint   `json:"current_score"`
	SolvedCount   uint   `json:"solved_count"`
}

type ChallengeDetailResp struct {
	ID              uint32 `json:"id"`
	ChallengeName   string `json:"challenge_name"`
	ChallengeType   string `json:"challenge_type"`
	Author          string `json:"author"`
	DescriptionHTML string `json:"description_html"` // 已做 Pod 占位符替换的安全 HTML
	Hint            string `json:"hint"`
	Difficulty      string `json:"difficulty"`
	CurrentScore    uint   `json:"current_score"`
	SolvedCount     uint   `json:"solved_count"`
}

// ====== Admin 专用响应 DTO ======

type AdminChallengeItemResp struct {
	ID            uint32 `json:"id"`
	ChallengeName string `json:"challenge_name"`
	ChallengeType string `json:"challenge_type"`
	Difficulty    string `json:"difficulty"`
	State         string `json:"state"`
	CurrentScore  uint   `json:"current_score"`
	SolvedCount   uint   `json:"solved_count"`
	UpdatedAt     string `json:"updated_at"`
}

type AdminChallengeDetailResp struct {
	ID            uint32  `json:"id"`
	ChallengeName string  `json:"challenge_name"`
	ChallengeType string  `json:"challenge_type"`
	Author        string  `json:"author"`
	Description   string  `json:"description"` // 原始描述，占位符不替换
	Hint          string  `json:"hint"`
	Difficulty    string  `json:"difficulty"`
	State         string  `json:"state"`
	StaticFlag    string  `json:"static_flag,omitempty"`
	PodFlagMap    string  `json:"pod_flag_map,omitempty"` // 规范序列化的映射文本
	CurrentScore  uint    `json:"current_score"`
	InitialScore  uint    `json:"initial_score"`
	MinScore      uint    `json:"min_score"`
	DecayRatio    float32 `json:"decay_ratio"`
	SolvedCount   uint    `json:"solved_count"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

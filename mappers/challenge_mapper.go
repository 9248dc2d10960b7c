// file: mappers/challenge_mapper.go
package mappers

import (
	"PodCTF/dto"
	"PodCTF/models"
)

func MapCreateReqToModel(req dto.CreateChallengeReq) models.Challenge {
	return models.Challenge{
		ChallengeName: req.ChallengeName,
		ChallengeType: req.ChallengeType,
		Author:        req.Author,
		Description:   req.Description,
		Hint:          req.Hint,
		Difficulty:    models.ChallengeDifficulty(req.Difficulty),
		InitialScore:  req.InitialScore,
		MinScore:      req.MinScore,
		CurrentScore:  req.InitialScore, // 初始化为初始分
		DecayRatio:    req.DecayRatio,
	}
}

func MapModelToItemResp(ch models.Challenge) dto.ChallengeItemResp {
	return dto.ChallengeItemResp{
		ID:            ch.ID,
		ChallengeName: ch.ChallengeName,
		ChallengeType: ch.ChallengeType,
		Difficulty:    string(ch.Difficulty),
		CurrentScore:  ch.CurrentScore,
		SolvedCount:   ch.SolvedCount,
	}
}

// MapModelToDetailResp descriptionHTML 由调用方先行渲染（依赖请求上下文的 Pod 解析）
func MapModelToDetailResp(ch models.Challenge, descriptionHTML string) dto.ChallengeDetailResp {
	return dto.ChallengeDetailResp{
		ID:              ch.ID,
		ChallengeName:   ch.ChallengeName,
		ChallengeType:   ch.ChallengeType,
		Author:          ch.Author,
		DescriptionHTML: descriptionHTML,
		Hint:            ch.Hint,
		Difficulty:      string(ch.Difficulty),
		CurrentScore:    ch.CurrentScore,
		SolvedCount:     ch.SolvedCount,
	}
}

func MapModelToAdminDetailResp(ch models.Challenge, staticFlag, podFlagMap string) dto.AdminChallengeDetailResp {
	return dto.AdminChallengeDetailResp{
		ID:            ch.ID,
		ChallengeName: ch.ChallengeName,
		ChallengeType: ch.ChallengeType,
		Author:        ch.Author,
		Description:   ch.Description,
		Hint:          ch.Hint,
		Difficulty:    string(ch.Difficulty),
		State:         string(ch.State),
		StaticFlag:    staticFlag,
		PodFlagMap:    podFlagMap,
		CurrentScore:  ch.CurrentScore,
		InitialScore:  ch.InitialScore,
		MinScore:      ch.MinScore,
		DecayRatio:    ch.DecayRatio,
		SolvedCount:   ch.SolvedCount,
		CreatedAt:     ch.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     ch.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

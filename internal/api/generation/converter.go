package generation

import "github.com/uigenlabs/uigen-backend/internal/entity"

func toUsageDTO(u entity.Usage) entity.UsageDTO {
	return entity.UsageDTO{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

func toGenerateResponse(gen *entity.Generation) *entity.GenerateResponse {
	resp := &entity.GenerateResponse{
		ID:        gen.ID,
		Target:    string(gen.Target),
		Model:     gen.Model,
		Cached:    gen.Cached,
		Usage:     toUsageDTO(gen.Usage),
		CreatedAt: gen.CreatedAt,
	}
	if gen.Code != nil {
		resp.Code = *gen.Code
	}
	return resp
}

func toGenerationDTO(gen *entity.Generation) entity.GenerationDTO {
	return entity.GenerationDTO{
		ID:        gen.ID,
		Prompt:    gen.Prompt,
		Target:    string(gen.Target),
		Model:     gen.Model,
		Status:    string(gen.Status),
		Code:      gen.Code,
		Error:     gen.Error,
		Cached:    gen.Cached,
		Usage:     toUsageDTO(gen.Usage),
		CreatedAt: gen.CreatedAt,
		UpdatedAt: gen.UpdatedAt,
	}
}

func toPageDTO(page *entity.GenerationPage) *entity.GenerationPageDTO {
	items := make([]entity.GenerationDTO, 0, len(page.Items))
	for _, gen := range page.Items {
		items = append(items, toGenerationDTO(gen))
	}
	return &entity.GenerationPageDTO{
		Items:    items,
		Page:     page.Page,
		PageSize: page.PageSize,
		Pages:    page.Pages,
		Total:    page.Total,
	}
}

package validator

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/uigenlabs/uigen-backend/internal/config"
	"github.com/uigenlabs/uigen-backend/internal/entity"
)

// Validator validates incoming generation requests against configured limits
type Validator struct {
	cfg config.GenerationConfig
}

func NewValidator(cfg config.GenerationConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateGenerate validates GenerateRequest
func (v *Validator) ValidateGenerate(req *entity.GenerateRequest) error {
	if strings.TrimSpace(req.Prompt) == "" {
		return fmt.Errorf("%w: prompt", entity.ErrPromptEmpty)
	}

	if len(req.Prompt) > v.cfg.MaxPromptChars {
		return fmt.Errorf("%w: %d characters, limit is %d", entity.ErrPromptTooLong, len(req.Prompt), v.cfg.MaxPromptChars)
	}

	if req.Target != "" && !entity.IsKnownTarget(entity.Target(req.Target)) {
		return fmt.Errorf("%w: %q", entity.ErrUnknownTarget, req.Target)
	}

	if req.CallbackURL != "" {
		if err := validateCallbackURL(req.CallbackURL); err != nil {
			return err
		}
	}

	return nil
}

func validateCallbackURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidCallback, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https", entity.ErrInvalidCallback)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", entity.ErrInvalidCallback)
	}
	return nil
}

// ClampPage normalizes pagination query values to configured bounds
func (v *Validator) ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = v.cfg.DefaultPageSize
	}
	if pageSize > v.cfg.MaxPageSize {
		pageSize = v.cfg.MaxPageSize
	}
	return page, pageSize
}

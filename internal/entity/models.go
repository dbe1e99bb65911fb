package entity

import "time"

// GenerationStatus represents the lifecycle state of a generation
type GenerationStatus string

const (
	GenerationStatusPending   GenerationStatus = "pending"
	GenerationStatusCompleted GenerationStatus = "completed"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// Target represents the output flavor the user asked for
type Target string

const (
	TargetHTML   Target = "html"
	TargetReact  Target = "react"
	TargetVue    Target = "vue"
	TargetSvelte Target = "svelte"
)

// DefaultTarget is used when the request does not name a target
const DefaultTarget = TargetHTML

// KnownTargets lists the targets the service can build prompts for
func KnownTargets() []Target {
	return []Target{TargetHTML, TargetReact, TargetVue, TargetSvelte}
}

// IsKnownTarget reports whether t is one of the supported targets
func IsKnownTarget(t Target) bool {
	for _, known := range KnownTargets() {
		if t == known {
			return true
		}
	}
	return false
}

// Usage holds token accounting reported by the AI provider
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Generation is one prompt-to-code round trip, persisted for history
type Generation struct {
	ID        string
	Prompt    string
	Target    Target
	Model     string
	Status    GenerationStatus
	Code      *string
	Error     *string
	Usage     Usage
	Cached    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GenerationPage is a page of the generation history
type GenerationPage struct {
	Items    []*Generation
	Page     int
	PageSize int
	Pages    int
	Total    int
}

package service

import (
	"codequest_backend/internal/judge0"
	"codequest_backend/internal/util"
	"context"
)

// ExecutionService fronts the Judge0 sandbox for both the submit pipeline
// and the ad-hoc "run my code" endpoint.
type ExecutionService struct {
	Client *judge0.Client
}

func NewExecutionService(client *judge0.Client) *ExecutionService {
	return &ExecutionService{Client: client}
}

func (s *ExecutionService) Execute(ctx context.Context, sourceCode string, languageID int) (*judge0.ExecutionResult, error) {
	return s.Client.Execute(ctx, sourceCode, languageID)
}

// Run executes code for a language named by slug or display name, without
// touching any session or submission state.
func (s *ExecutionService) Run(ctx context.Context, sourceCode, language string) (*judge0.ExecutionResult, error) {
	id := judge0.ResolveLanguageID(language, language)
	if id == 0 {
		return nil, util.ErrLanguageUnsupported
	}
	return s.Client.Execute(ctx, sourceCode, id)
}

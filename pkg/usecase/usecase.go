package usecase

import (
	"github.com/secmon-lab/mnemos/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
)

type UseCases struct {
	persona *model.Persona
	Chat    *ChatUseCase
	Profile *ProfileUseCase
}

type Option func(*UseCases)

func WithPersona(persona *model.Persona) Option {
	return func(uc *UseCases) {
		uc.persona = persona
	}
}

func New(repo interfaces.Repository, completion interfaces.CompletionClient, opts ...Option) *UseCases {
	uc := &UseCases{
		persona: model.DefaultPersona(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Chat = NewChatUseCase(repo, completion, uc.persona)
	uc.Profile = NewProfileUseCase(repo)

	return uc
}

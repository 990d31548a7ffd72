package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/secmon-lab/mnemos/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
	"github.com/secmon-lab/mnemos/pkg/service/extract"
	"github.com/secmon-lab/mnemos/pkg/service/prompt"
	"github.com/secmon-lab/mnemos/pkg/service/tone"
	"github.com/secmon-lab/mnemos/pkg/utils/errutil"
	"github.com/secmon-lab/mnemos/pkg/utils/logging"
)

const maxMessageRunes = 4000

// Degraded replies returned when the completion capability fails. The
// turn still returns exactly one string; nothing is persisted for it.
const (
	apologyRateLimit = "I'm getting a lot of messages right now. Give me a moment and ask me again."
	apologyNetwork   = "I'm having trouble connecting right now. Please try again in a little while."
	apologyGeneric   = "Sorry, something went wrong on my end. Please try asking me again."
)

// ChatUseCase orchestrates one conversation turn:
// load context -> detect tone -> build prompt -> generate -> persist ->
// extract facts -> return.
type ChatUseCase struct {
	repo       interfaces.Repository
	completion interfaces.CompletionClient
	builder    *prompt.Builder
}

func NewChatUseCase(repo interfaces.Repository, completion interfaces.CompletionClient, persona *model.Persona) *ChatUseCase {
	return &ChatUseCase{
		repo:       repo,
		completion: completion,
		builder:    prompt.New(persona),
	}
}

// TurnResult is the outcome of one successful (possibly degraded) turn:
// the single reply string and the tone the prompt was built with
type TurnResult struct {
	Reply string
	Tone  types.Tone
}

// HandleTurn processes one user message and returns exactly one reply,
// or a validation error for malformed input. Completion failures degrade
// to an apology; storage failures after generation are logged and
// swallowed so the user still gets the reply.
func (uc *ChatUseCase) HandleTurn(ctx context.Context, userID types.UserID, message string) (*TurnResult, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(message) == "" {
		return nil, goerr.Wrap(types.ErrInvalidInput, "message is empty", goerr.V("user_id", userID))
	}
	if utf8.RuneCountInString(message) > maxMessageRunes {
		return nil, goerr.Wrap(types.ErrInvalidInput, "message is too long",
			goerr.V("user_id", userID),
			goerr.V("runes", utf8.RuneCountInString(message)))
	}

	// Load context. Both reads are best effort: a storage outage degrades
	// memory, it must not block the reply.
	var profile *model.UserProfile
	var recent []*model.Message
	profileDegraded := false

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := uc.repo.Profile().GetOrCreate(gctx, userID)
		if err != nil {
			errutil.Handle(gctx, err, "failed to load profile, continuing with empty memory")
			p = model.NewUserProfile(userID, time.Now().UTC())
			profileDegraded = true
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		msgs, err := uc.repo.History().Recent(gctx, userID, prompt.HistoryWindow)
		if err != nil {
			errutil.Handle(gctx, err, "failed to load recent history, continuing without it")
			msgs = nil
		}
		recent = msgs
		return nil
	})
	_ = g.Wait()

	detected := tone.Detect(message)
	snapshot := &model.ContextSnapshot{
		Profile: profile,
		Recent:  recent,
		Tone:    detected,
	}

	req, err := uc.builder.Build(snapshot, message)
	if err != nil {
		errutil.Handle(ctx, err, "failed to build prompt")
		return &TurnResult{Reply: apologyGeneric, Tone: detected}, nil
	}

	reply, err := uc.completion.Generate(ctx, req)
	if err != nil {
		// No persistence for a failed generation: the turn leaves no trace
		errutil.Handle(ctx, err, "completion failed, degrading turn")
		return &TurnResult{Reply: apologyFor(err), Tone: detected}, nil
	}

	// Persist the user message, then the reply. Losing memory must not
	// fail the user-visible turn, so failures here are swallowed.
	if _, err := uc.repo.History().Append(ctx, userID, types.RoleUser, message); err != nil {
		errutil.Handle(ctx, err, "failed to persist user message")
	} else if _, err := uc.repo.History().Append(ctx, userID, types.RoleAssistant, reply); err != nil {
		errutil.Handle(ctx, err, "failed to persist assistant reply")
	}

	// Extraction needs the real stored profile to honor first-write-wins:
	// a degraded snapshot looks empty, so merging against it could
	// overwrite stored identity fields. Skip the whole delta for this
	// turn; extraction is best effort anyway.
	if !profileDegraded {
		if update := extract.Extract(profile, message); update != nil {
			if err := uc.repo.Profile().ApplyUpdate(ctx, userID, update); err != nil {
				errutil.Handle(ctx, err, "failed to store extracted facts")
			}
		}
	} else {
		logging.From(ctx).Warn("skipping fact extraction for degraded profile", "user_id", userID)
	}

	return &TurnResult{Reply: reply, Tone: detected}, nil
}

// apologyFor picks the degraded reply matching the completion failure
// category
func apologyFor(err error) string {
	switch {
	case errors.Is(err, types.ErrCompletionRateLimit):
		return apologyRateLimit
	case errors.Is(err, types.ErrCompletionNetwork):
		return apologyNetwork
	default:
		return apologyGeneric
	}
}

package llm

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/mnemos/pkg/domain/interfaces"
	"github.com/secmon-lab/mnemos/pkg/domain/model"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
)

// defaultTimeout bounds one completion call. A hung provider degrades the
// turn the same way a network failure does instead of blocking the caller.
const defaultTimeout = 60 * time.Second

// Client binds the narrow CompletionClient boundary to a gollem LLM
// client. Each call uses a fresh session; conversation memory lives in
// the repository, not in provider session state.
type Client struct {
	llm     gollem.LLMClient
	timeout time.Duration
}

var _ interfaces.CompletionClient = &Client{}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(llmClient gollem.LLMClient, opts ...Option) *Client {
	c := &Client{
		llm:     llmClient,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Generate(ctx context.Context, req *model.CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	session, err := c.llm.NewSession(ctx,
		gollem.WithSessionSystemPrompt(req.Instruction),
	)
	if err != nil {
		return "", classify(err, "failed to create completion session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(renderTurns(req)))
	if err != nil {
		return "", classify(err, "failed to generate completion")
	}

	if resp == nil || len(resp.Texts) == 0 {
		return "", goerr.Wrap(types.ErrCompletionMalformed, "completion returned no text")
	}

	reply := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if reply == "" {
		return "", goerr.Wrap(types.ErrCompletionMalformed, "completion returned empty text")
	}

	return reply, nil
}

// renderTurns reshapes the chronological window into the provider's
// calling convention: the store's assistant role becomes the model-side
// speaker label, and the new message is the final user turn.
func renderTurns(req *model.CompletionRequest) string {
	var sb strings.Builder
	for _, t := range req.Turns {
		label := "User"
		if t.Role == types.RoleAssistant {
			label = "Assistant"
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(t.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("User: ")
	sb.WriteString(req.Message)
	return sb.String()
}

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/mnemos/pkg/cli/config"
	"github.com/secmon-lab/mnemos/pkg/domain/types"
	"github.com/secmon-lab/mnemos/pkg/service/llm"
	"github.com/secmon-lab/mnemos/pkg/usecase"
	"github.com/secmon-lab/mnemos/pkg/utils/safe"
)

func cmdChat() *cli.Command {
	var userID string
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var personaCfg config.Persona

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user",
			Usage:       "User ID for the conversation",
			Value:       "local",
			Sources:     cli.EnvVars("MNEMOS_USER"),
			Destination: &userID,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, personaCfg.Flags()...)

	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"c"},
		Usage:   "Chat interactively from the terminal",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			persona, err := personaCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load persona")
			}

			uc := usecase.New(repo, llm.New(llmClient), usecase.WithPersona(persona))

			return runREPL(ctx, uc, types.UserID(userID), persona.Name)
		},
	}
}

func runREPL(ctx context.Context, uc *usecase.UseCases, userID types.UserID, personaName string) error {
	promptColor := color.New(color.FgCyan, color.Bold)
	replyColor := color.New(color.FgGreen)
	errColor := color.New(color.FgRed)

	fmt.Printf("Chatting with %s as %s. Type 'exit' or press Ctrl-D to quit.\n", personaName, userID)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)

	for {
		promptColor.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		result, err := uc.Chat.HandleTurn(ctx, userID, line)
		if err != nil {
			errColor.Printf("error: %s\n", err.Error())
			continue
		}

		replyColor.Printf("%s> %s\n", strings.ToLower(personaName), result.Reply)
	}

	if err := scanner.Err(); err != nil {
		return goerr.Wrap(err, "failed to read input")
	}

	return nil
}

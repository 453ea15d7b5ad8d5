package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/mealbook/pkg/api"
	"github.com/mmynk/mealbook/pkg/api/apiconnect"
)

var (
	recipeMeal     string
	recipePrevious []string
)

var recipeCmd = &cobra.Command{
	Use:   "recipe",
	Short: "Chat with the recipe assistant",
	Long: `Generate a recipe that fits your per-meal targets, then ask follow-up
questions. Type "new" for a different recipe; recipes already suggested in
this session are not repeated. Type "exit" or press Ctrl-D to quit.

Examples:
  mealctl recipe --meal Dinner
  mealctl recipe --meal Breakfast --previous "Greek Yogurt Parfait"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectClients()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		session := &recipeSession{
			client:   c.assistant,
			mealType: recipeMeal,
			previous: recipePrevious,
		}
		content, err := session.start(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, boxStyle.Render(content))

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, labelStyle.Render("you> "))
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			message := strings.TrimSpace(scanner.Text())
			switch message {
			case "":
				continue
			case "exit":
				return nil
			case "new":
				content, err := session.start(ctx)
				if err != nil {
					printWarn(cmd.ErrOrStderr(), "%v", err)
					continue
				}
				fmt.Fprintln(out, boxStyle.Render(content))
				continue
			}

			reply, err := session.send(ctx, message)
			if err != nil {
				printWarn(cmd.ErrOrStderr(), "%v", err)
				continue
			}
			fmt.Fprintln(out, reply)
		}
	},
}

func init() {
	recipeCmd.Flags().StringVarP(&recipeMeal, "meal", "m", "Dinner", "Breakfast, Lunch or Dinner")
	recipeCmd.Flags().StringArrayVar(&recipePrevious, "previous", nil, "recipe names to avoid (repeatable)")
}

// recipeSession holds one chat: the names of recipes suggested so far and
// the conversation about the current one.
type recipeSession struct {
	client   apiconnect.AssistantServiceClient
	mealType string
	previous []string
	history  []*api.ChatMessage
}

// start asks for a new recipe, remembers its name and starts a fresh history.
func (s *recipeSession) start(ctx context.Context) (string, error) {
	res, err := s.client.StartRecipe(ctx, connect.NewRequest(&api.StartRecipeRequest{
		MealType:        s.mealType,
		PreviousRecipes: s.previous,
	}))
	if err != nil {
		return "", err
	}
	if name := res.Msg.RecipeName; name != "" {
		s.previous = append(s.previous, name)
	}
	s.history = []*api.ChatMessage{{Role: "assistant", Content: res.Msg.Content}}
	return res.Msg.Content, nil
}

func (s *recipeSession) send(ctx context.Context, message string) (string, error) {
	res, err := s.client.SendMessage(ctx, connect.NewRequest(&api.SendMessageRequest{
		MealType: s.mealType,
		History:  s.history,
		Message:  message,
	}))
	if err != nil {
		return "", err
	}
	s.history = append(s.history,
		&api.ChatMessage{Role: "user", Content: message},
		&api.ChatMessage{Role: "assistant", Content: res.Msg.Reply},
	)
	return res.Msg.Reply, nil
}

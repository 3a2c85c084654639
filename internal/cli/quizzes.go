package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cup-admin/internal/models"
	"cup-admin/internal/quiz"
)

var showResponses bool

var quizzesCmd = &cobra.Command{
	Use:   "quizzes",
	Short: "Inspect quizzes and graded responses",
}

var quizzesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := requireLogin()
		if err != nil {
			return err
		}
		page, err := api.Quizzes()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSLUG\tCOINS\tPUBLISHED")
		for _, q := range page.Data {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
				q.ID, q.Name, q.Slug, q.Coins, q.PublishedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

var quizzesShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show a quiz, optionally with graded responses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := requireLogin()
		if err != nil {
			return err
		}
		dto, err := api.Quiz(args[0], showResponses)
		if err != nil {
			return err
		}

		fmt.Printf("%s (%d coins, published %s)\n\n",
			dto.Name, dto.Coins, dto.PublishedAt.Format("2006-01-02"))
		for i, q := range dto.Questions {
			fmt.Printf("%d. [%s] %s (%d coins)\n", i+1, q.Type, q.Title, q.Coins)
			for _, opt := range q.Options {
				fmt.Printf("     %d) %s\n", opt.Order, opt.Name)
			}
		}

		for _, response := range dto.Responses {
			fmt.Printf("\n--- %s: %d/%d correct, %d coins (submitted %s)\n",
				response.Username, response.CorrectQuestionsCount, len(dto.Questions),
				response.Coins, response.SubmittedAt.Format("2006-01-02 15:04"))
			for _, q := range dto.Questions {
				answer, ok := response.Answers[q.ID]
				if !ok {
					fmt.Printf("  %s: no answer\n", q.Title)
					continue
				}
				printAnswer(&q, answer)
			}
		}
		return nil
	},
}

func printAnswer(q *models.Question, answer models.Answer) {
	fmt.Printf("  %s\n", q.Title)
	switch q.Type {
	case models.QuestionChoice, models.QuestionMultiple:
		for _, row := range quiz.ChoiceView(q, answer.Value) {
			marker := "   "
			if row.Selected {
				marker = "[x]"
			}
			correct := ""
			if row.Correct {
				correct = " *"
			}
			fmt.Printf("    %s %s%s\n", marker, row.Name, correct)
		}
		fmt.Printf("    %s\n", verdict(quiz.Grade(q, answer.Value)))
	case models.QuestionWritten:
		row := quiz.WrittenView(q, answer.Value, answer.IsCorrect)
		fmt.Printf("    wrote: %q (accepted: %v) %s\n", row.Text, row.Hints, verdict(row.Correct))
		if !row.Correct {
			fmt.Printf("    review with: cup-admin quizzes correct %d\n", answer.ID)
		}
	case models.QuestionReorder:
		row := quiz.ReorderView(q, answer.Value, answer.IsCorrect)
		for i, name := range row.Submitted {
			want := ""
			if i < len(row.Canonical) {
				want = row.Canonical[i]
			}
			fmt.Printf("    %d. %s (expected %s)\n", i+1, name, want)
		}
		fmt.Printf("    %s\n", verdict(row.Correct))
	}
}

func verdict(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}

var quizzesCorrectCmd = &cobra.Command{
	Use:   "correct <answer-id>",
	Short: "Mark a reviewed written answer as correct",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := requireLogin()
		if err != nil {
			return err
		}
		var id uint
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid answer id %q", args[0])
		}
		answer, err := api.CorrectAnswer(id)
		if err != nil {
			return err
		}
		fmt.Printf("answer %d marked correct, %d coins credited\n", answer.ID, answer.Coins)
		return nil
	},
}

func init() {
	quizzesShowCmd.Flags().BoolVar(&showResponses, "responses", false, "include graded responses")
	quizzesCmd.AddCommand(quizzesListCmd, quizzesShowCmd, quizzesCorrectCmd)
	rootCmd.AddCommand(quizzesCmd)
}

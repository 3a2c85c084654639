package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cup-admin/internal/client"
	"cup-admin/internal/models"
	"cup-admin/internal/quiz"
)

// quizDefinition is the YAML authoring format. Picture fields that name an
// existing local file are uploaded before submission and replaced with the
// served URL; anything else is passed through unchanged.
type quizDefinition struct {
	Name        string               `yaml:"name"`
	Coins       int                  `yaml:"coins"`
	PublishedAt string               `yaml:"published_at"`
	Questions   []questionDefinition `yaml:"questions"`
}

type questionDefinition struct {
	Title   string             `yaml:"title"`
	Type    string             `yaml:"type"`
	Coins   int                `yaml:"coins"`
	Picture string             `yaml:"picture"`
	Options []optionDefinition `yaml:"options"`
}

type optionDefinition struct {
	Name    string `yaml:"name"`
	Picture string `yaml:"picture"`
	Correct bool   `yaml:"correct"`
}

func loadDefinition(path string) (*quizDefinition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var def quizDefinition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("%s: quiz name is required", path)
	}
	if len(def.Questions) == 0 {
		return nil, fmt.Errorf("%s: at least one question is required", path)
	}
	return &def, nil
}

// buildDraft drives the form editor through the same steps an author
// would: add questions and options one at a time, then drop the empty
// question the form starts with.
func buildDraft(def *quizDefinition) (*quiz.Draft, error) {
	d := quiz.NewDraft()
	d.Name = def.Name
	d.Coins = def.Coins
	d.PublishedAt = def.PublishedAt

	for _, qd := range def.Questions {
		qt := models.QuestionType(qd.Type)
		switch qt {
		case models.QuestionChoice, models.QuestionMultiple,
			models.QuestionReorder, models.QuestionWritten:
		default:
			return nil, fmt.Errorf("question %q: unknown type %q", qd.Title, qd.Type)
		}

		d.AddQuestion()
		qi := len(d.Questions) - 1
		d.Questions[qi].Title = qd.Title
		d.Questions[qi].Picture = qd.Picture
		d.Questions[qi].Coins = qd.Coins
		d.Questions[qi].Type = qt

		for len(d.Questions[qi].Options) > len(qd.Options) {
			d.RemoveOption(qi, len(d.Questions[qi].Options)-1)
		}
		for len(d.Questions[qi].Options) < len(qd.Options) {
			d.AddOption(qi)
		}
		for oi, od := range qd.Options {
			d.Questions[qi].Options[oi].Name = od.Name
			d.Questions[qi].Options[oi].Picture = od.Picture
			d.SetOptionCorrect(qi, oi, od.Correct)
		}
	}
	d.RemoveQuestion(0)
	return d, nil
}

// uploadPictures swaps local file paths in the draft for served URLs.
func uploadPictures(api *client.API, d *quiz.Draft) error {
	upload := func(picture *string) error {
		if *picture == "" {
			return nil
		}
		if _, err := os.Stat(*picture); err != nil {
			return nil
		}
		_, url, err := api.UploadImage(*picture)
		if err != nil {
			return fmt.Errorf("upload %s: %w", *picture, err)
		}
		*picture = url
		return nil
	}
	for qi := range d.Questions {
		if err := upload(&d.Questions[qi].Picture); err != nil {
			return err
		}
		for oi := range d.Questions[qi].Options {
			if err := upload(&d.Questions[qi].Options[oi].Picture); err != nil {
				return err
			}
		}
	}
	return nil
}

var quizDefFile string

var quizzesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a quiz from a YAML definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := requireLogin()
		if err != nil {
			return err
		}
		def, err := loadDefinition(quizDefFile)
		if err != nil {
			return err
		}
		draft, err := buildDraft(def)
		if err != nil {
			return err
		}
		if err := uploadPictures(api, draft); err != nil {
			return err
		}
		dto, err := api.CreateQuiz(draft.Serialize())
		if err != nil {
			return err
		}
		fmt.Printf("created quiz %q with slug %s\n", dto.Name, dto.Slug)
		return nil
	},
}

var (
	editName      string
	editCoins     int
	editPublished string
	editMoves     []string
)

var quizzesEditCmd = &cobra.Command{
	Use:   "edit <slug>",
	Short: "Update a quiz in place",
	Long: "Fetches the quiz into the form editor, applies the requested " +
		"changes and saves the whole question tree back.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := requireLogin()
		if err != nil {
			return err
		}
		dto, err := api.Quiz(args[0], false)
		if err != nil {
			return err
		}

		draft := quiz.DraftFromQuiz(&models.Quiz{
			ID:          dto.ID,
			Name:        dto.Name,
			Coins:       dto.Coins,
			PublishedAt: dto.PublishedAt,
			Questions:   dto.Questions,
		})

		if cmd.Flags().Changed("name") {
			draft.Name = editName
		}
		if cmd.Flags().Changed("coins") {
			draft.Coins = editCoins
		}
		if cmd.Flags().Changed("published-at") {
			draft.PublishedAt = editPublished
		}
		for _, move := range editMoves {
			qi, from, to, err := parseMove(move)
			if err != nil {
				return err
			}
			draft.MoveOption(qi, from, to)
		}

		updated, err := api.UpdateQuiz(draft.ID, draft.Serialize())
		if err != nil {
			return err
		}
		fmt.Printf("updated quiz %q\n", updated.Name)
		return nil
	},
}

// parseMove reads a question:from:to triple of one-based positions.
func parseMove(spec string) (question, from, to int, err error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid move %q, want question:from:to", spec)
	}
	if _, err := fmt.Sscanf(spec, "%d:%d:%d", &question, &from, &to); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid move %q, want question:from:to", spec)
	}
	if question < 1 || from < 1 || to < 1 {
		return 0, 0, 0, fmt.Errorf("invalid move %q, positions start at 1", spec)
	}
	return question - 1, from - 1, to - 1, nil
}

func init() {
	quizzesCreateCmd.Flags().StringVar(&quizDefFile, "file", "", "YAML quiz definition")
	quizzesCreateCmd.MarkFlagRequired("file")
	quizzesEditCmd.Flags().StringVar(&editName, "name", "", "new quiz name")
	quizzesEditCmd.Flags().IntVar(&editCoins, "coins", 0, "new completion reward")
	quizzesEditCmd.Flags().StringVar(&editPublished, "published-at", "", "new publish date (YYYY-MM-DD)")
	quizzesEditCmd.Flags().StringArrayVar(&editMoves, "move-option", nil,
		"reorder an option, as question:from:to (one-based)")
	quizzesCmd.AddCommand(quizzesCreateCmd, quizzesEditCmd)
}

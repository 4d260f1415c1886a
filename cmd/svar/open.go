package main

import (
	"errors"
	"fmt"

	"github.com/Sajjon/svar"
	"github.com/spf13/cobra"
)

func newOpenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Recover a sealed secret from answers",
		Long: `Recover a sealed secret from answers to its security questions.

Answers are taken from the answers file when given, matched to the sealed
questions by id and version. Remaining questions are asked on the terminal;
enter an empty line to skip a question you cannot answer. At least
<threshold> answers must be correct.

Example:
  svar open -i sealed.json
  svar open -i sealed.json -a answers.yaml -o seed.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
	}

	f := cmd.Flags()
	f.StringP("input", "i", "", "sealed secret file")
	f.StringP("answers", "a", "", "answers file (YAML), optional")
	f.StringP("output", "o", "-", "file to write the secret to, '-' for stdout")
	f.Int("workers", 1, "goroutines used for decryption")
	f.Bool("force", false, "overwrite an existing output file")

	return cmd
}

type questionID struct {
	id      uint16
	version uint8
}

func (a *app) open() error {
	input := a.v.GetString("input")
	if input == "" {
		return errors.New("sealed secret file is required")
	}
	sealed, err := a.store.Load(input)
	if err != nil {
		return err
	}

	n := len(sealed.Questions)
	fromFile := make(map[questionID]svar.Answer)
	if path := a.v.GetString("answers"); path != "" {
		file, err := a.loadAnswers(path)
		if err != nil {
			return err
		}
		for i := range file.Questions {
			ans, ok := file.Answer(i)
			if !ok {
				continue
			}
			q := file.Question(i)
			fromFile[questionID{q.ID, q.Version}] = ans
		}
	}

	var qas []svar.QuestionAnswer
	for i, sq := range sealed.Questions {
		ans, ok := fromFile[questionID{sq.ID, sq.Version}]
		if !ok {
			ans, ok, err = a.prompt.Answer(sq.Question, i, n)
			if err != nil {
				return err
			}
		}
		if !ok {
			a.log.Debugf("question %d of %d skipped", i+1, n)
			continue
		}
		qas = append(qas, svar.QuestionAnswer{Question: sq.Question, Answer: ans})
	}

	if len(qas) < sealed.Threshold {
		a.log.Warn("fewer answers than required", "given", len(qas), "threshold", sealed.Threshold)
	}

	sealer := &svar.Sealer{Workers: a.v.GetInt("workers")}
	a.log.Debug("opening", "questions", n, "answers", len(qas), "threshold", sealed.Threshold,
		"scheme", sealed.Scheme, "packages", len(sealed.Packages))

	plain, err := sealer.Open(sealed, qas)
	if err != nil {
		if errors.Is(err, svar.ErrDecryptionFailed) {
			return fmt.Errorf("%w: at least %d of %d answers must be correct", err, sealed.Threshold, n)
		}
		return err
	}
	secret := guardSecret(plain)
	defer secret.Destroy()
	a.log.Infof("opened %s", input)

	return a.writeSecret(a.v.GetString("output"), secret.Bytes(), a.v.GetBool("force"))
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sajjon/svar"
	"github.com/Sajjon/svar/internal/answerfile"
	"github.com/Sajjon/svar/internal/store"
	"github.com/awnumar/memguard"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newSealCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Seal a secret under answers to security questions",
		Long: `Seal a secret under answers to security questions.

The questions, and optionally their answers, are read from the answers file.
Questions the file does not answer are asked on the terminal. The secret is
read from SVAR_SECRET or asked twice on the terminal.

The sealed secret can be opened with any <threshold> correct answers. It
holds one encrypted package per combination of <threshold> questions, so the
number of questions and the threshold are bounded.

Example:
  svar seal -a questions.yaml -t 4 -o sealed.json
  svar seal -a questions.yaml -t 2 --scheme chacha20-poly1305 -o sealed.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.seal()
		},
	}

	f := cmd.Flags()
	f.StringP("answers", "a", "", "answers file (YAML)")
	f.IntP("threshold", "t", 0, "number of correct answers required to open")
	f.StringP("output", "o", "-", "file to write the sealed secret to, '-' for stdout")
	f.String("scheme", svar.DefaultScheme, "encryption scheme: "+strings.Join(svar.Schemes(), ", "))
	f.Int("workers", 1, "goroutines used for encryption")
	f.Bool("force", false, "overwrite an existing output file")

	return cmd
}

func (a *app) seal() error {
	path := a.v.GetString("answers")
	if path == "" {
		return errors.New("answers file is required")
	}
	file, err := a.loadAnswers(path)
	if err != nil {
		return err
	}

	n := len(file.Questions)
	threshold := a.v.GetInt("threshold")
	if threshold == 0 {
		threshold = file.Threshold
	}
	if threshold <= 0 || threshold >= n {
		return fmt.Errorf("%w: threshold must be between 1 and %d", svar.ErrInvalidThreshold, n-1)
	}
	if count := svar.Binomial(n, threshold); count > svar.MaxPackages {
		return fmt.Errorf("%w: %d questions with threshold %d need %d packages", svar.ErrTooManyPackages, n, threshold, count)
	}

	scheme := a.v.GetString("scheme")
	if _, err := svar.SchemeDescription(scheme); err != nil {
		return err
	}

	output := a.v.GetString("output")
	force := a.v.GetBool("force")
	if output != "-" && !force {
		// fail before asking for anything
		exists, err := a.store.Exists(output)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", store.ErrExists, output)
		}
	}

	qas := make([]svar.QuestionAnswer, n)
	for i, q := range file.AllQuestions() {
		ans, ok := file.Answer(i)
		if !ok {
			ans, ok, err = a.prompt.Answer(q, i, n)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("question %d (id %d) needs an answer", i+1, q.ID)
			}
		}
		qas[i] = svar.QuestionAnswer{Question: q, Answer: ans}
	}

	plain, err := a.prompt.Secret("Secret: ", "Confirm secret: ")
	if err != nil {
		return err
	}
	secret := guardSecret(plain)
	defer secret.Destroy()

	sealer := &svar.Sealer{Scheme: scheme, Workers: a.v.GetInt("workers")}
	a.log.Debug("sealing", "questions", n, "threshold", threshold, "scheme", scheme,
		"packages", svar.Binomial(n, threshold), "workers", sealer.Workers)

	sealed, err := sealer.Seal(secret.Bytes(), threshold, qas)
	if err != nil {
		return fmt.Errorf("failed to seal: %w", err)
	}

	if output == "-" {
		data, err := sealed.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "%s\n", data)
		return nil
	}

	if err := a.store.Save(output, sealed, force); err != nil {
		return err
	}
	a.log.Info("sealed secret written", "path", output, "questions", n, "threshold", threshold)

	return nil
}

func (a *app) loadAnswers(path string) (*answerfile.File, error) {
	f, err := a.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open answers file %s: %w", path, err)
	}
	defer f.Close()

	file, err := answerfile.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(file.Questions) < 2 {
		return nil, fmt.Errorf("%s: at least 2 questions are required, found %d", path, len(file.Questions))
	}

	return file, nil
}

// guardSecret moves b into a locked buffer and wipes b. The buffer is
// destroyed by memguard.Purge when the process is interrupted.
func guardSecret(b []byte) *memguard.LockedBuffer {
	return memguard.NewBufferFromBytes(b)
}

// writeSecret writes secret to path, or to stdout when path is "-".
func (a *app) writeSecret(path string, secret []byte, force bool) error {
	if path == "-" {
		if _, err := a.stdout.Write(secret); err != nil {
			return fmt.Errorf("failed to write secret: %w", err)
		}
		fmt.Fprintln(a.stdout)
		return nil
	}

	if !force {
		exists, err := afero.Exists(a.fs, path)
		if err != nil {
			return fmt.Errorf("failed to check file existence %s: %w", path, err)
		}
		if exists {
			return fmt.Errorf("output file %s already exists", path)
		}
	}
	if err := afero.WriteFile(a.fs, path, secret, 0o600); err != nil {
		return fmt.Errorf("failed to write secret to %s: %w", path, err)
	}

	return nil
}

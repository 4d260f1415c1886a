package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/Sajjon/svar"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the questions and parameters of a sealed secret",
		Long: `Show the questions and parameters of a sealed secret. Salts and
encrypted packages are not printed.

Example:
  svar inspect -i sealed.json
  svar inspect -i sealed.json --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.inspect()
		},
	}

	f := cmd.Flags()
	f.StringP("input", "i", "", "sealed secret file")
	f.Bool("json", false, "print JSON")

	return cmd
}

type summary struct {
	FormatVersion int             `json:"format_version"`
	Scheme        string          `json:"scheme"`
	Threshold     int             `json:"threshold"`
	Packages      int             `json:"packages"`
	Questions     []svar.Question `json:"questions"`
}

func (a *app) inspect() error {
	input := a.v.GetString("input")
	if input == "" {
		return errors.New("sealed secret file is required")
	}
	sealed, err := a.store.Load(input)
	if err != nil {
		return err
	}

	s := summary{
		FormatVersion: sealed.FormatVersion,
		Scheme:        sealed.Scheme,
		Threshold:     sealed.Threshold,
		Packages:      len(sealed.Packages),
		Questions:     make([]svar.Question, len(sealed.Questions)),
	}
	for i, sq := range sealed.Questions {
		s.Questions[i] = sq.Question
	}

	if a.v.GetBool("json") {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	desc, _ := svar.SchemeDescription(s.Scheme)
	fmt.Fprintf(a.stdout, "Format version: %d\n", s.FormatVersion)
	fmt.Fprintf(a.stdout, "Scheme:         %s (%s)\n", s.Scheme, desc)
	fmt.Fprintf(a.stdout, "Threshold:      %d of %d\n", s.Threshold, len(s.Questions))
	fmt.Fprintf(a.stdout, "Packages:       %d\n\n", s.Packages)

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tVERSION\tKIND\tQUESTION")
	for i, q := range s.Questions {
		fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n", i+1, q.ID, q.Version, q.Kind, q.Text)
	}
	return w.Flush()
}

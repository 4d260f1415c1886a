// Package answerfile reads questions, and optionally their answers, from
// YAML.
//
//	threshold: 2
//	questions:
//	  - id: 1
//	    version: 1
//	    kind: freeform
//	    question: What was your first car?
//	    format:
//	      structure: <MAKE> <MODEL>
//	      example: Golf TDI
//	    answer: Golf TDI
//	  - id: 2
//	    kind: structured
//	    question: Where did you grow up?
//	    format:
//	      levels: [250, 1000]
//	    selection: [46, 512]
//
// Questions without an answer or selection are left for the caller to ask.
package answerfile

import (
	"fmt"
	"io"

	"github.com/Sajjon/svar"
	"gopkg.in/yaml.v3"
)

// File is the decoded YAML document.
type File struct {
	Threshold int     `yaml:"threshold,omitempty"`
	Questions []Entry `yaml:"questions"`
}

// Entry is one question with its optional answer.
type Entry struct {
	ID        uint16            `yaml:"id"`
	Version   uint8             `yaml:"version,omitempty"`
	Kind      string            `yaml:"kind,omitempty"`
	Question  string            `yaml:"question"`
	Format    svar.AnswerFormat `yaml:"format,omitempty"`
	Answer    *string           `yaml:"answer,omitempty"`
	Selection []uint16          `yaml:"selection,omitempty"`
}

// Parse decodes and checks an answer file.
func Parse(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode answer file: %w", err)
	}

	for i, e := range f.Questions {
		q, err := e.question()
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		if e.Answer != nil && q.Kind != svar.KindFreeform {
			return nil, fmt.Errorf("question %d: answer given for %s question, use selection", i, q.Kind)
		}
		if e.Selection != nil && q.Kind != svar.KindStructured {
			return nil, fmt.Errorf("question %d: selection given for %s question, use answer", i, q.Kind)
		}
	}

	return &f, nil
}

func (e Entry) question() (svar.Question, error) {
	q := svar.Question{
		ID:      e.ID,
		Version: e.Version,
		Text:    e.Question,
		Format:  e.Format,
	}
	if q.Version == 0 {
		q.Version = 1
	}

	kind := e.Kind
	if kind == "" {
		kind = svar.KindFreeform.String()
	}
	if err := q.Kind.UnmarshalText([]byte(kind)); err != nil {
		return svar.Question{}, err
	}

	if err := q.Validate(); err != nil {
		return svar.Question{}, err
	}

	return q, nil
}

// Question returns the svar question of entry i.
func (f *File) Question(i int) svar.Question {
	// validated by Parse
	q, _ := f.Questions[i].question()
	return q
}

// AllQuestions returns all questions in file order.
func (f *File) AllQuestions() []svar.Question {
	qs := make([]svar.Question, len(f.Questions))
	for i := range f.Questions {
		qs[i] = f.Question(i)
	}
	return qs
}

// Answer returns the answer of entry i, if the file has one.
func (f *File) Answer(i int) (svar.Answer, bool) {
	e := f.Questions[i]
	switch {
	case e.Answer != nil:
		return svar.Freeform(*e.Answer), true
	case e.Selection != nil:
		return svar.Structured(e.Selection...), true
	default:
		return svar.Answer{}, false
	}
}

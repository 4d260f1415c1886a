package svar

import (
	"encoding/json"
	"fmt"
)

// Kind selects how answers to a question are normalized.
type Kind uint8

const (
	// KindFreeform questions are answered with free text.
	KindFreeform Kind = iota
	// KindStructured questions are answered by picking one option per level
	// of a fixed dataset, e.g. country, then city.
	KindStructured
)

// MaxLevelOptions is the largest number of options a structured level may
// offer. Selection indices are encoded as 16 bit big-endian integers.
const MaxLevelOptions = 1 << 16

func (k Kind) String() string {
	switch k {
	case KindFreeform:
		return "freeform"
	case KindStructured:
		return "structured"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindFreeform, KindStructured:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown question kind %d", uint8(k))
	}
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "freeform":
		*k = KindFreeform
	case "structured":
		*k = KindStructured
	default:
		return fmt.Errorf("unknown question kind %q", text)
	}
	return nil
}

// AnswerFormat describes what an answer is expected to look like. Levels is
// only used by structured questions and holds the number of options offered
// at each selection level.
type AnswerFormat struct {
	Structure string   `json:"answer_structure" yaml:"structure"`
	Example   string   `json:"example_answer" yaml:"example"`
	Unsafe    []string `json:"unsafe_answers,omitempty" yaml:"unsafe,omitempty"`
	Levels    []int    `json:"levels,omitempty" yaml:"levels,omitempty"`
}

func (f AnswerFormat) String() string {
	return f.Structure
}

// Question is a security question. ID and Version identify its phrasing and
// both take part in entropy derivation, so a question must never change once
// it has been used to seal a secret.
type Question struct {
	ID      uint16       `json:"id"`
	Version uint8        `json:"version"`
	Kind    Kind         `json:"kind"`
	Text    string       `json:"question"`
	Format  AnswerFormat `json:"expected_answer_format"`
}

// Validate checks that a structured question describes a usable dataset.
func (q Question) Validate() error {
	switch q.Kind {
	case KindFreeform:
		return nil
	case KindStructured:
		if len(q.Format.Levels) == 0 {
			return fmt.Errorf("%w: structured question %d has no levels", ErrInvalidQuestion, q.ID)
		}
		for i, n := range q.Format.Levels {
			if n < 1 || n > MaxLevelOptions {
				return fmt.Errorf("%w: question %d level %d has %d options", ErrInvalidQuestion, q.ID, i, n)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: question %d has unknown kind %d", ErrInvalidQuestion, q.ID, uint8(q.Kind))
	}
}

func (q Question) String() string {
	return fmt.Sprintf("%d.%d %s", q.ID, q.Version, q.Text)
}

type questionKey struct {
	id      uint16
	version uint8
}

func (q Question) key() questionKey {
	return questionKey{q.ID, q.Version}
}

// Answer is the raw answer to one question. It is either freeform text or a
// sequence of structured selection indices; construct it with Freeform or
// Structured.
type Answer struct {
	kind    Kind
	text    string
	indices []uint16
}

// Freeform returns a free text answer.
func Freeform(text string) Answer {
	return Answer{kind: KindFreeform, text: text}
}

// Structured returns an answer made of one selection index per level.
func Structured(indices ...uint16) Answer {
	return Answer{kind: KindStructured, indices: append([]uint16(nil), indices...)}
}

// Kind reports which variant the answer holds.
func (a Answer) Kind() Kind {
	return a.kind
}

// GoString hides the answer content from %#v.
func (a Answer) GoString() string {
	return fmt.Sprintf("svar.Answer{kind: %s}", a.kind)
}

// String hides the answer content from %v.
func (a Answer) String() string {
	return fmt.Sprintf("<%s answer>", a.kind)
}

// MarshalJSON refuses to serialize answers.
func (a Answer) MarshalJSON() ([]byte, error) {
	return nil, fmt.Errorf("svar: answers are never serialized")
}

var _ json.Marshaler = Answer{}

// QuestionAnswer pairs a question with its raw answer.
type QuestionAnswer struct {
	Question Question
	Answer   Answer
}

// QuestionAnswerSalt pairs a question with its raw answer and salt.
type QuestionAnswerSalt struct {
	Question Question
	Answer   Answer
	Salt     Salt
}

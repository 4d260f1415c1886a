package answerfile

import (
	"strings"
	"testing"

	"github.com/Sajjon/svar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
threshold: 2
questions:
  - id: 1
    kind: freeform
    question: What was your first car?
    format:
      structure: <MAKE> <MODEL>
      example: Golf TDI
      unsafe: [Volvo]
    answer: Golf TDI
  - id: 2
    version: 3
    kind: structured
    question: Where did you grow up?
    format:
      structure: <COUNTRY>, <CITY>
      levels: [250, 1000]
    selection: [46, 512]
  - id: 3
    question: What was the first concert you attended?
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, f.Questions, 3)
	assert.Equal(t, 2, f.Threshold)

	qs := f.AllQuestions()
	assert.Equal(t, svar.Question{
		ID: 1, Version: 1, Kind: svar.KindFreeform, Text: "What was your first car?",
		Format: svar.AnswerFormat{Structure: "<MAKE> <MODEL>", Example: "Golf TDI", Unsafe: []string{"Volvo"}},
	}, qs[0])
	assert.Equal(t, uint8(3), qs[1].Version)
	assert.Equal(t, svar.KindStructured, qs[1].Kind)
	assert.Equal(t, []int{250, 1000}, qs[1].Format.Levels)
	assert.Equal(t, svar.KindFreeform, qs[2].Kind)

	a, ok := f.Answer(0)
	require.True(t, ok)
	canonical, err := svar.Normalize(qs[0], a)
	require.NoError(t, err)
	assert.Equal(t, []byte("golftdi"), canonical)

	a, ok = f.Answer(1)
	require.True(t, ok)
	canonical, err = svar.Normalize(qs[1], a)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 46, 2, 0}, canonical)

	_, ok = f.Answer(2)
	assert.False(t, ok)
}

func TestParse_invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "questions: [:"},
		{"unknown field", "questions:\n  - id: 1\n    colour: red\n"},
		{"unknown kind", "questions:\n  - id: 1\n    kind: essay\n"},
		{"structured without levels", "questions:\n  - id: 1\n    kind: structured\n"},
		{"answer to structured", "questions:\n  - id: 1\n    kind: structured\n    format: {levels: [2]}\n    answer: one\n"},
		{"selection to freeform", "questions:\n  - id: 1\n    selection: [1]\n"},
		{"selection out of uint16", "questions:\n  - id: 1\n    kind: structured\n    format: {levels: [2]}\n    selection: [70000]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

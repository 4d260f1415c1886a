package svar

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealedSecret_marshal(t *testing.T) {
	sealed, err := deterministic(3).Seal([]byte("persist me"), 2, qas(4, allCorrect))
	require.NoError(t, err)

	data, err := sealed.Marshal()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, float64(FormatVersion), raw["format_version"])
	assert.Equal(t, DefaultScheme, raw["scheme"])
	assert.Equal(t, float64(2), raw["threshold"])

	questions := raw["questions"].([]any)
	require.Len(t, questions, 4)
	q3 := questions[3].(map[string]any)
	assert.Equal(t, "structured", q3["kind"])
	assert.Equal(t, "Where did you grow up?", q3["question"])
	assert.Len(t, q3["salt"], 2*SaltSize)
	assert.Contains(t, q3, "expected_answer_format")

	packages := raw["packages"].([]any)
	require.Len(t, packages, 6)
	p0 := packages[0].(map[string]any)
	assert.Len(t, p0["nonce"], 2*NonceSize)
	assert.Len(t, p0["tag"], 2*TagSize)
	assert.Len(t, p0["ciphertext"], 2*len("persist me"))

	assert.NotContains(t, string(data), "persist me")
	assert.NotContains(t, strings.ToLower(string(data)), "oinky")

	loaded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, sealed, loaded)

	got, err := Open(loaded, qas(4, func(i int) bool { return i == 1 || i == 3 }))
	require.NoError(t, err)
	assert.Equal(t, []byte("persist me"), got)
}

func TestSealedSecret_validate(t *testing.T) {
	base, err := Seal([]byte("v"), 2, qas(3, allCorrect))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(s *SealedSecret)
	}{
		{"format version", func(s *SealedSecret) { s.FormatVersion = 2 }},
		{"unknown scheme", func(s *SealedSecret) { s.Scheme = "des" }},
		{"zero threshold", func(s *SealedSecret) { s.Threshold = 0 }},
		{"threshold equals count", func(s *SealedSecret) { s.Threshold = 3 }},
		// C(3, 1) == C(3, 2), so the count alone cannot tell
		{"threshold changed", func(s *SealedSecret) { s.Threshold = 1; s.Packages = s.Packages[:2] }},
		{"missing package", func(s *SealedSecret) { s.Packages = s.Packages[:2] }},
		{"extra package", func(s *SealedSecret) { s.Packages = append(s.Packages, s.Packages[0]) }},
		{"short nonce", func(s *SealedSecret) { s.Packages[1].Nonce = s.Packages[1].Nonce[:8] }},
		{"short tag", func(s *SealedSecret) { s.Packages[2].Tag = nil }},
		{"duplicate question", func(s *SealedSecret) { s.Questions[1] = s.Questions[0] }},
		{"bad structured question", func(s *SealedSecret) { s.Questions[0].Kind = KindStructured }},
		{"missing salt", func(s *SealedSecret) { s.Questions[2].Salt = Salt{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cloneSealed(base)
			tt.mutate(s)
			err := s.Validate()
			assert.ErrorIs(t, err, ErrSerialization)

			_, err = s.Marshal()
			assert.ErrorIs(t, err, ErrSerialization)
		})
	}

	assert.NoError(t, base.Validate())
}

var saltField = regexp.MustCompile(`,\s*"salt": "[0-9a-f]{64}"`)

func TestUnmarshal_malformed(t *testing.T) {
	sealed, err := Seal([]byte("v"), 1, qas(2, allCorrect))
	require.NoError(t, err)
	data, err := sealed.Marshal()
	require.NoError(t, err)

	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"not json", "sealed"},
		{"wrong type", `{"threshold": "two"}`},
		{"missing everything", `{}`},
		{"bad kind", strings.Replace(string(data), `"freeform"`, `"multiple-choice"`, 1)},
		{"bad salt hex", strings.Replace(string(data), `"salt": "`, `"salt": "zz`, 1)},
		{"short salt", strings.Replace(string(data), `"salt": "`, `"salt": "00`, 1)},
		{"bad nonce hex", strings.Replace(string(data), `"nonce": "`, `"nonce": "x`, 1)},
		{"missing salt", saltField.ReplaceAllString(string(data), "")},
		{"zero salt", saltField.ReplaceAllString(string(data), `, "salt": "`+strings.Repeat("0", 2*SaltSize)+`"`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			assert.ErrorIs(t, err, ErrSerialization)
		})
	}
}

func TestKind_text(t *testing.T) {
	for _, k := range []Kind{KindFreeform, KindStructured} {
		text, err := k.MarshalText()
		require.NoError(t, err)

		var got Kind
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, k, got)
	}

	_, err := Kind(9).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

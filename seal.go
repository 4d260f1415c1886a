package svar

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

var defaultRandSrc = rand.Reader

// Sealer seals secrets under security question answers and opens them
// again. A zero-value Sealer is ready to use with default settings: the
// default random source is crypto/rand.Reader, the default scheme is
// DefaultScheme and all work runs on the calling goroutine.
//
// A Sealer keeps no state between calls and may be shared by goroutines as
// long as its Rand is safe for concurrent use.
type Sealer struct {
	Rand    io.Reader // cryptographically secure source of salts and nonces
	Scheme  string    // encryption scheme for new sealed secrets, see Schemes
	Workers int       // goroutines per call; values below 2 disable parallelism
}

// Default is a zero-value Sealer ready to use with default settings.
var Default = new(Sealer)

// Seal a secret using the default sealer.
func Seal(secret []byte, threshold int, answers []QuestionAnswer) (*SealedSecret, error) {
	return Default.Seal(secret, threshold, answers)
}

// SealSalted seals a secret with caller supplied salts using the default
// sealer.
func SealSalted(secret []byte, threshold int, answers []QuestionAnswerSalt) (*SealedSecret, error) {
	return Default.SealSalted(secret, threshold, answers)
}

// Open a sealed secret using the default sealer.
func Open(sealed *SealedSecret, answers []QuestionAnswer) ([]byte, error) {
	return Default.Open(sealed, answers)
}

func (s *Sealer) random() io.Reader {
	if s.Rand == nil {
		return defaultRandSrc
	}
	return s.Rand
}

// Seal encrypts secret so that it can be recovered from any threshold
// correct answers out of len(answers). A fresh salt is drawn for every
// question. Seal does not keep or modify secret.
func (s *Sealer) Seal(secret []byte, threshold int, answers []QuestionAnswer) (*SealedSecret, error) {
	salted := make([]QuestionAnswerSalt, len(answers))
	for i, qa := range answers {
		salt, err := NewSalt(s.random())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncryptionFailure, err)
		}
		salted[i] = QuestionAnswerSalt{Question: qa.Question, Answer: qa.Answer, Salt: salt}
	}

	return s.SealSalted(secret, threshold, salted)
}

// SealSalted is like Seal but uses the given salts.
func (s *Sealer) SealSalted(secret []byte, threshold int, answers []QuestionAnswerSalt) (*SealedSecret, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	n := len(answers)
	combos, err := Combinations(n, threshold)
	if err != nil {
		return nil, err
	}

	sch, err := lookupScheme(s.Scheme)
	if err != nil {
		return nil, err
	}
	schemeName := s.Scheme
	if schemeName == "" {
		schemeName = DefaultScheme
	}

	questions := make([]SealedQuestion, n)
	seen := make(map[questionKey]struct{}, n)
	for i, qa := range answers {
		if err := qa.Question.Validate(); err != nil {
			return nil, err
		}
		if qa.Salt.isZero() {
			return nil, fmt.Errorf("%w: question %d has an all-zero salt", ErrInvalidQuestion, qa.Question.ID)
		}
		if _, ok := seen[qa.Question.key()]; ok {
			return nil, fmt.Errorf("%w: question %d version %d appears twice", ErrInvalidQuestion, qa.Question.ID, qa.Question.Version)
		}
		seen[qa.Question.key()] = struct{}{}
		questions[i] = SealedQuestion{Question: qa.Question, Salt: qa.Salt}
	}

	entropies := make([]Entropy, n)
	defer wipeEntropies(entropies)

	for i, qa := range answers {
		canonical, err := Normalize(qa.Question, qa.Answer)
		if err != nil {
			return nil, &AnswerError{Index: i, ID: qa.Question.ID, Err: err}
		}
		entropies[i] = DeriveEntropy(qa.Question.ID, qa.Question.Version, canonical, qa.Salt)
		Wipe(canonical)
	}

	// draw all nonces up front so a deterministic Rand gives deterministic
	// output regardless of scheduling
	nonces := make([]byte, len(combos)*NonceSize)
	if _, err := io.ReadFull(s.random(), nonces); err != nil {
		return nil, fmt.Errorf("%w: failed to generate nonces: %w", ErrEncryptionFailure, err)
	}

	packages := make([]Package, len(combos))
	err = s.forEach(len(combos), func(i int) error {
		key := reduceCombination(entropies, combos[i])
		defer key.wipe()

		p, err := sch.seal(&key, nonces[i*NonceSize:(i+1)*NonceSize], secret)
		if err != nil {
			return fmt.Errorf("%w: package %d: %w", ErrEncryptionFailure, i, err)
		}
		packages[i] = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SealedSecret{
		FormatVersion: FormatVersion,
		Scheme:        schemeName,
		Threshold:     threshold,
		Questions:     questions,
		Packages:      packages,
	}, nil
}

// Open recovers the secret from answers. Answers are matched to the sealed
// questions by id and version and may come in any order. Missing answers and
// answers that cannot be normalized count as incorrect. If fewer than
// sealed.Threshold answers are correct Open fails with ErrDecryptionFailed.
// The caller owns the returned secret and should Wipe it when done.
func (s *Sealer) Open(sealed *SealedSecret, answers []QuestionAnswer) ([]byte, error) {
	if sealed == nil {
		return nil, fmt.Errorf("%w: nil sealed secret", ErrSerialization)
	}
	if err := sealed.Validate(); err != nil {
		return nil, err
	}
	sch, err := lookupScheme(sealed.Scheme)
	if err != nil {
		return nil, err
	}

	n := len(sealed.Questions)
	positions := make(map[questionKey]int, n)
	for i, q := range sealed.Questions {
		positions[q.key()] = i
	}

	answered := make([]bool, n)
	known := make([]bool, n)
	entropies := make([]Entropy, n)
	defer wipeEntropies(entropies)

	for _, qa := range answers {
		pos, ok := positions[qa.Question.key()]
		if !ok {
			return nil, fmt.Errorf("%w: question %d version %d", ErrUnrelatedQuestion, qa.Question.ID, qa.Question.Version)
		}
		if answered[pos] {
			return nil, fmt.Errorf("%w: question %d version %d", ErrDuplicateAnswer, qa.Question.ID, qa.Question.Version)
		}
		answered[pos] = true

		sq := sealed.Questions[pos]
		canonical, err := Normalize(sq.Question, qa.Answer)
		if err != nil {
			continue
		}
		entropies[pos] = DeriveEntropy(sq.ID, sq.Version, canonical, sq.Salt)
		known[pos] = true
		Wipe(canonical)
	}

	combos, err := Combinations(n, sealed.Threshold)
	if err != nil {
		return nil, err
	}

	try := func(i int) ([]byte, bool) {
		for _, idx := range combos[i] {
			if !known[idx] {
				return nil, false
			}
		}

		key := reduceCombination(entropies, combos[i])
		defer key.wipe()

		secret, err := sch.open(&key, sealed.Packages[i])
		if err != nil {
			// wrong answers or a tampered package, try the next one
			return nil, false
		}
		return secret, true
	}

	if s.Workers < 2 {
		for i := range combos {
			if secret, ok := try(i); ok {
				return secret, nil
			}
		}
		return nil, ErrDecryptionFailed
	}

	if secret, ok := s.tryParallel(len(combos), try); ok {
		return secret, nil
	}
	return nil, ErrDecryptionFailed
}

var errFound = errors.New("found")

// tryParallel runs try for 0..count-1 on up to s.Workers goroutines and
// stops handing out work after the first success.
func (s *Sealer) tryParallel(count int, try func(int) ([]byte, bool)) ([]byte, bool) {
	var (
		mu     sync.Mutex
		result []byte
		found  bool
	)

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(s.Workers)
	for i := range count {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			secret, ok := try(i)
			if !ok {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if !found {
				result, found = secret, true
			} else {
				Wipe(secret)
			}
			return errFound
		})
	}
	_ = g.Wait()

	return result, found
}

// forEach calls fn for 0..count-1, in parallel when s.Workers allows, and
// returns the first error.
func (s *Sealer) forEach(count int, fn func(int) error) error {
	if s.Workers < 2 {
		for i := range count {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(s.Workers)
	for i := range count {
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}

func wipeEntropies(entropies []Entropy) {
	for i := range entropies {
		entropies[i].wipe()
	}
}

package svar

import (
	"fmt"
	"math/bits"
)

// MaxPackages bounds C(n, m) and therefore the size of a sealed secret and
// the work done by Open.
const MaxPackages = 1 << 16

// Key is the XOR of the entropies of one combination.
type Key [EntropySize]byte

func (k *Key) wipe() {
	Wipe(k[:])
}

// Binomial returns C(n, k), saturating at the maximum uint64.
func Binomial(n, k int) uint64 {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}

	var r uint64 = 1
	for i := 1; i <= k; i++ {
		// r * (n-k+i) / i is always integral
		hi, lo := bits.Mul64(r, uint64(n-k+i))
		if hi >= uint64(i) {
			return ^uint64(0)
		}
		r, _ = bits.Div64(hi, lo, uint64(i))
	}

	return r
}

func checkThreshold(n, m int) error {
	if m <= 0 || m >= n {
		return fmt.Errorf("%w: threshold %d, %d questions", ErrInvalidThreshold, m, n)
	}
	if Binomial(n, m) > MaxPackages {
		return fmt.Errorf("%w: C(%d, %d) exceeds %d", ErrTooManyPackages, n, m, MaxPackages)
	}
	return nil
}

// Combinations returns every m sized subset of {0, ..., n-1} as sorted index
// tuples in lexicographic order. The result depends on n and m only, so the
// i-th combination at seal time is the i-th combination at open time.
func Combinations(n, m int) ([][]int, error) {
	if err := checkThreshold(n, m); err != nil {
		return nil, err
	}

	combos := make([][]int, 0, Binomial(n, m))
	c := make([]int, m)
	for i := range c {
		c[i] = i
	}

	for {
		combos = append(combos, append([]int(nil), c...))
		if !nextCombination(c, n) {
			return combos, nil
		}
	}
}

// nextCombination advances c to its lexicographic successor among the
// len(c) sized subsets of {0, ..., n-1} and reports whether there was one.
func nextCombination(c []int, n int) bool {
	m := len(c)
	i := m - 1
	for i >= 0 && c[i] == n-m+i {
		i--
	}
	if i < 0 {
		return false
	}

	c[i]++
	for j := i + 1; j < m; j++ {
		c[j] = c[j-1] + 1
	}

	return true
}

// Reduce folds entropies into a key by XOR. The order of the entropies does
// not matter.
func Reduce(entropies ...Entropy) Key {
	var k Key
	for i := range entropies {
		for j := range k {
			k[j] ^= entropies[i][j]
		}
	}
	return k
}

// reduceCombination folds the entropies selected by combo.
func reduceCombination(entropies []Entropy, combo []int) Key {
	var k Key
	for _, idx := range combo {
		for j := range k {
			k[j] ^= entropies[idx][j]
		}
	}
	return k
}

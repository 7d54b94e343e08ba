/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package keyorder

import (
	"bytes"
	"crypto/sha256"
	"sort"
)

// KAO is the Keyed Alphabet Order: a total order on the distinct bytes
// observed in a block, derived from a sub-key. Rank holds, for every byte
// present in the alphabet, its position in that order; Alphabet holds the
// bytes themselves in ascending rank order.
type KAO struct {
	Rank     [256]int16 // -1 for bytes absent from the alphabet
	Alphabet []byte
}

// BuildKAO computes the keyed alphabet order for the distinct bytes of b
// under sub-key k: each distinct byte c is scored by h(c) =
// SHA-256(k || c), and ord(c) is c's index once the (c, h(c)) pairs are
// sorted by h(c) lexicographically. Ties - which should not occur in
// practice - are broken by natural byte value so the order stays a total
// order regardless.
func BuildKAO(b []byte, k SubKey) *KAO {
	var present [256]bool

	for _, c := range b {
		present[c] = true
	}

	type scored struct {
		c byte
		h [sha256.Size]byte
	}

	alphabet := make([]scored, 0, 256)

	for c := 0; c < 256; c++ {
		if !present[c] {
			continue
		}

		h := sha256.New()
		h.Write(k[:])
		h.Write([]byte{byte(c)})
		var sum [sha256.Size]byte
		copy(sum[:], h.Sum(nil))
		alphabet = append(alphabet, scored{c: byte(c), h: sum})
	}

	sort.Slice(alphabet, func(i, j int) bool {
		cmp := bytes.Compare(alphabet[i].h[:], alphabet[j].h[:])

		if cmp != 0 {
			return cmp < 0
		}

		return alphabet[i].c < alphabet[j].c
	})

	kao := &KAO{Alphabet: make([]byte, len(alphabet))}

	for i := range kao.Rank {
		kao.Rank[i] = -1
	}

	for rank, s := range alphabet {
		kao.Rank[s.c] = int16(rank)
		kao.Alphabet[rank] = s.c
	}

	return kao
}

// Size returns the number of distinct bytes in the alphabet.
func (k *KAO) Size() int {
	return len(k.Alphabet)
}

// Less reports whether byte a sorts before byte b under this order. Both
// bytes must be present in the alphabet.
func (k *KAO) Less(a, b byte) bool {
	return k.Rank[a] < k.Rank[b]
}

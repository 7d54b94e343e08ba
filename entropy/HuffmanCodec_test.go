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

package entropy

import (
	"bytes"
	"math/rand"
	"testing"
)

func huffmanRoundTrip(t *testing.T, data []byte) {
	t.Helper()

	enc := NewHuffmanEncoder()
	payload, codes, padding, err := enc.Encode(data)

	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	dec := NewHuffmanDecoder()
	out, err := dec.Decode(payload, codes, padding)

	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !bytes.Equal(out, data) {
		t.Fatalf("round trip mismatch: got %v, want %v", out, data)
	}
}

func TestHuffmanRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		[]byte("a"),
		[]byte("aaaaaaaaaaaaaa"),
		[]byte("mississippi"),
		[]byte("the quick brown fox jumps over the lazy dog"),
	}

	for _, c := range cases {
		huffmanRoundTrip(t, c)
	}
}

func TestHuffmanRoundTripFullAlphabet(t *testing.T) {
	data := make([]byte, 256)

	for i := range data {
		data[i] = byte(i)
	}

	huffmanRoundTrip(t, data)
}

func TestHuffmanRoundTripRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(23))

	for trial := 0; trial < 15; trial++ {
		n := rnd.Intn(4000)
		buf := make([]byte, n)

		for i := range buf {
			buf[i] = byte(rnd.Intn(256))
		}

		huffmanRoundTrip(t, buf)
	}
}

// TestHuffmanSingleSymbolAlphabet exercises buildCodes/Decode's
// degenerate-tree fast path when the block contains exactly one distinct
// byte value.
func TestHuffmanSingleSymbolAlphabet(t *testing.T) {
	huffmanRoundTrip(t, bytes.Repeat([]byte{'x'}, 1000))
}

func TestHuffmanEmptyInput(t *testing.T) {
	enc := NewHuffmanEncoder()
	payload, codes, padding, err := enc.Encode(nil)

	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if len(payload) != 0 || len(codes) != 0 || padding != 0 {
		t.Fatalf("Encode(nil) = %v, %v, %d, want empty", payload, codes, padding)
	}
}

func TestHuffmanDecodeInvalidCode(t *testing.T) {
	dec := NewHuffmanDecoder()
	badCodes := map[byte]string{'a': "01", 'b': "2"} // '2' is not a valid bit

	if _, err := dec.Decode([]byte{0xFF}, badCodes, 0); err == nil {
		t.Fatalf("expected error decoding with an invalid code string")
	}
}

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
	"fmt"

	sbwtzip "github.com/go-sbwt/sbwtzip"
)

const (
	lzwInitialCodeSize = 9
	lzwMaxCodeSize     = 16
	lzwMaxDictSize     = 1 << lzwMaxCodeSize
)

// LZWEncoder is an adaptive, variable-width LZW encoder: it starts with
// the 256 single-byte entries, grows the dictionary one entry per emitted
// code, widens the code size as soon as the next unused code would not
// fit, and resets the whole dictionary once it reaches 2^16 entries.
// Unlike stdlib compress/lzw (fixed-width MSB/LSB packed codes, no
// reset), this matches original_source/.../lzw.py's growth/reset scheme,
// which the container format needs bit-for-bit to stay self-describing.
type LZWEncoder struct{}

// NewLZWEncoder creates a new LZWEncoder. LZWEncoder carries no state
// across calls, so a single instance may be reused across blocks.
func NewLZWEncoder() *LZWEncoder {
	return &LZWEncoder{}
}

// Encode returns the list of dictionary codes produced for data; codes
// are not bit-packed here since the container carries them as a plain
// integer list (spec §4.6: "widths are not packed bit-level by the
// core").
func (this *LZWEncoder) Encode(data []byte) []uint32 {
	if len(data) == 0 {
		return nil
	}

	dict := make(map[string]uint32, 512)
	resetDict := func() {
		dict = make(map[string]uint32, 512)

		for i := 0; i < 256; i++ {
			dict[string([]byte{byte(i)})] = uint32(i)
		}
	}
	resetDict()

	dictSize := uint32(256)
	codeSize := lzwInitialCodeSize
	maxDictForSize := uint32(1) << uint(codeSize)

	out := make([]uint32, 0, len(data))
	current := make([]byte, 0, 32)
	current = append(current, data[0])

	for i := 1; i < len(data); i++ {
		b := data[i]
		combined := append(append([]byte(nil), current...), b)

		if _, ok := dict[string(combined)]; ok {
			current = combined
			continue
		}

		out = append(out, dict[string(current)])

		if dictSize < lzwMaxDictSize {
			dict[string(combined)] = dictSize
			dictSize++

			if dictSize == maxDictForSize && codeSize < lzwMaxCodeSize {
				codeSize++
				maxDictForSize = uint32(1) << uint(codeSize)
			}
		} else {
			resetDict()
			dictSize = 256
			codeSize = lzwInitialCodeSize
			maxDictForSize = uint32(1) << uint(codeSize)
		}

		current = []byte{b}
	}

	if len(current) > 0 {
		out = append(out, dict[string(current)])
	}

	return out
}

// LZWDecoder reconstructs a byte sequence from a list of LZW codes,
// mirroring LZWEncoder's dictionary growth and reset schedule exactly.
type LZWDecoder struct{}

// NewLZWDecoder creates a new LZWDecoder.
func NewLZWDecoder() *LZWDecoder {
	return &LZWDecoder{}
}

// Decode inverts LZWEncoder.Encode.
func (this *LZWDecoder) Decode(codes []uint32) ([]byte, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	dict := make(map[uint32][]byte, 512)
	resetDict := func() {
		dict = make(map[uint32][]byte, 512)

		for i := 0; i < 256; i++ {
			dict[uint32(i)] = []byte{byte(i)}
		}
	}
	resetDict()

	dictSize := uint32(256)
	codeSize := lzwInitialCodeSize
	maxDictForSize := uint32(1) << uint(codeSize)

	prev, ok := dict[codes[0]]

	if !ok {
		return nil, sbwtzip.NewError(sbwtzip.InvalidInput, fmt.Errorf("invalid lzw code %d", codes[0]))
	}

	out := make([]byte, 0, len(codes)*2)
	out = append(out, prev...)

	for _, code := range codes[1:] {
		var cur []byte

		if entry, ok := dict[code]; ok {
			cur = entry
		} else if code == dictSize {
			cur = append(append([]byte(nil), prev...), prev[0])
		} else {
			return nil, sbwtzip.NewError(sbwtzip.InvalidInput, fmt.Errorf("invalid lzw code %d", code))
		}

		out = append(out, cur...)

		if dictSize < lzwMaxDictSize {
			entry := append(append([]byte(nil), prev...), cur[0])
			dict[dictSize] = entry
			dictSize++

			if dictSize == maxDictForSize && codeSize < lzwMaxCodeSize {
				codeSize++
				maxDictForSize = uint32(1) << uint(codeSize)
			}
		} else {
			resetDict()
			dictSize = 256
			codeSize = lzwInitialCodeSize
			maxDictForSize = uint32(1) << uint(codeSize)
		}

		prev = cur
	}

	return out, nil
}

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

package transform

import sbwtzip "github.com/go-sbwt/sbwtzip"

// RLE is a run-length transform over the MTF index stream, escaping on
// 0xFF. Unlike kanzi's RLT (escape byte chosen per block to minimise
// collisions, multi-byte varint run lengths), this escape scheme is fixed
// at 0xFF and the wire format is exactly spec §4.5's: single bytes for
// literal runs of length 1, "0xFF 0x00" for a literal escape byte, and
// "0xFF length symbol" (possibly preceded by full 255-run segments) for
// longer runs.
type RLE struct{}

// NewRLE creates a new RLE transform. RLE carries no per-block state, so
// a single instance may be reused across blocks.
func NewRLE() *RLE {
	return &RLE{}
}

// MaxEncodedLen returns the worst case size: every byte could expand to
// two bytes (an escaped literal 0xFF).
func (this RLE) MaxEncodedLen(srcLen int) int {
	return srcLen * 2
}

// Forward run-length encodes src into dst.
func (this *RLE) Forward(src, dst []byte) (uint, uint, error) {
	dstIdx := 0
	i := 0
	n := len(src)

	for i < n {
		v := src[i]
		runLen := 1

		for i+runLen < n && src[i+runLen] == v {
			runLen++
		}

		if runLen == 1 {
			if v != sbwtzip.Terminator {
				dst[dstIdx] = v
				dstIdx++
			} else {
				dst[dstIdx] = sbwtzip.Terminator
				dst[dstIdx+1] = 0
				dstIdx += 2
			}
		} else {
			remaining := runLen

			for remaining > 255 {
				dst[dstIdx] = sbwtzip.Terminator
				dst[dstIdx+1] = sbwtzip.Terminator
				dst[dstIdx+2] = v
				dstIdx += 3
				remaining -= 255
			}

			dst[dstIdx] = sbwtzip.Terminator
			dst[dstIdx+1] = byte(remaining)
			dst[dstIdx+2] = v
			dstIdx += 3
		}

		i += runLen
	}

	return uint(n), uint(dstIdx), nil
}

// Inverse run-length decodes src into dst.
func (this *RLE) Inverse(src, dst []byte) (uint, uint, error) {
	srcIdx := 0
	dstIdx := 0
	n := len(src)

	for srcIdx < n {
		c := src[srcIdx]
		srcIdx++

		if c != sbwtzip.Terminator {
			dst[dstIdx] = c
			dstIdx++
			continue
		}

		if srcIdx >= n {
			return uint(srcIdx), uint(dstIdx), errorTruncatedRLE()
		}

		m := src[srcIdx]
		srcIdx++

		if m == 0 {
			dst[dstIdx] = sbwtzip.Terminator
			dstIdx++
			continue
		}

		if srcIdx >= n {
			return uint(srcIdx), uint(dstIdx), errorTruncatedRLE()
		}

		symbol := src[srcIdx]
		srcIdx++

		for k := 0; k < int(m); k++ {
			dst[dstIdx] = symbol
			dstIdx++
		}
	}

	return uint(srcIdx), uint(dstIdx), nil
}

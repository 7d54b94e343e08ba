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

// Package container implements the block container format of spec §4.8:
// a flat concatenation of length-prefixed, self-describing frames, one
// per block, written in ascending block-number order.
package container

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	sbwtzip "github.com/go-sbwt/sbwtzip"
)

// Metadata carries the fields every frame needs regardless of mode (spec
// §4.8). Symbols and OrigPtr are only meaningful for the three modes that
// go through the SBWT/MTF/RLE chain; they are left zero-valued for bzip2.
type Metadata struct {
	Mode        string `msgpack:"mode"`
	BlockNumber uint32 `msgpack:"block_number"`
	Extension   string `msgpack:"extension,omitempty"`
	Symbols     []byte `msgpack:"symbols,omitempty"`
	OrigPtr     uint32 `msgpack:"orig_ptr,omitempty"`
	// BlockLength is the length, in bytes, of the SBWT last column (the
	// original block length plus its terminator). Spec §4.8 names only
	// symbols/orig_ptr as required metadata; this additional field lets a
	// decoder size its MTF/RLE/SBWT buffers exactly instead of guessing a
	// worst-case bound from the compressed payload size.
	BlockLength uint32 `msgpack:"block_length,omitempty"`
}

// HuffmanCode is one entry of a frame's code table, wire-equivalent to
// spec §4.6's canonical description of a Huffman table as a list of
// (symbol, length, bits) triples. Bits holds the code as a string of '0'
// and '1' characters, matching entropy.HuffmanEncoder's in-memory form.
type HuffmanCode struct {
	Symbol byte   `msgpack:"symbol"`
	Length uint8  `msgpack:"length"`
	Bits   string `msgpack:"bits"`
}

// NewHuffmanCodes converts a symbol->code map into a slice sorted by
// symbol. A bare map can't be used as frame wire data: msgpack.Marshal
// does not sort map keys by default, so encoding one directly would make
// the frame's bytes depend on Go's randomized map iteration order,
// violating spec §8's determinism law. Sorting by symbol gives every run
// the same slice order regardless of how the map was built.
func NewHuffmanCodes(codes map[byte]string) []HuffmanCode {
	if len(codes) == 0 {
		return nil
	}

	out := make([]HuffmanCode, 0, len(codes))

	for sym, bits := range codes {
		out = append(out, HuffmanCode{Symbol: sym, Length: uint8(len(bits)), Bits: bits})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// HuffmanCodesToMap converts a frame's code table back into the
// symbol->code map entropy.HuffmanDecoder expects.
func HuffmanCodesToMap(codes []HuffmanCode) map[byte]string {
	if len(codes) == 0 {
		return nil
	}

	out := make(map[byte]string, len(codes))

	for _, c := range codes {
		out[c.Symbol] = c.Bits
	}

	return out
}

// Frame is one self-describing compressed block record. Data carries the
// mode-specific payload for bzip2/huffman/arithmetic (plain bytes); Codes
// carries it for lzw (a list of dictionary codes, per spec §4.6 "Output
// is a list of integers"). HuffmanCodes and PaddingLength are only
// populated when Metadata.Mode == "huffman". HuffmanCodes is a
// symbol-sorted slice rather than a map so that WriteFrame's output is
// deterministic (see NewHuffmanCodes).
type Frame struct {
	Metadata      Metadata      `msgpack:"metadata"`
	Data          []byte        `msgpack:"data,omitempty"`
	Codes         []uint32      `msgpack:"codes,omitempty"`
	HuffmanCodes  []HuffmanCode `msgpack:"huffman_codes,omitempty"`
	PaddingLength uint8         `msgpack:"padding_length,omitempty"`
}

// Writer serialises frames to an underlying io.Writer as
// u32_le(frame_length) || frame_payload, per spec §4.8. It does not
// itself enforce ordering: the driver is responsible for calling
// WriteFrame only once block i-1's frame has been written (see
// driver.Compress), matching "the writer buffers completed blocks... and
// drains them in ascending order".
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteFrame msgpack-encodes f and writes it length-prefixed to the
// underlying stream.
func (this *Writer) WriteFrame(f *Frame) error {
	payload, err := msgpack.Marshal(f)

	if err != nil {
		return sbwtzip.NewBlockError(sbwtzip.IOFailure, int(f.Metadata.BlockNumber),
			fmt.Errorf("encode frame: %w", err))
	}

	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(payload)))

	if _, err := this.w.Write(lenPrefix[:]); err != nil {
		return sbwtzip.NewBlockError(sbwtzip.IOFailure, int(f.Metadata.BlockNumber), err)
	}

	if _, err := this.w.Write(payload); err != nil {
		return sbwtzip.NewBlockError(sbwtzip.IOFailure, int(f.Metadata.BlockNumber), err)
	}

	return nil
}

// Reader parses frames sequentially from an underlying io.Reader.
type Reader struct {
	r io.Reader
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadFrame reads and decodes the next frame, or returns io.EOF once the
// stream is exhausted exactly on a frame boundary. A length prefix
// followed by a short read is reported as InvalidInput: the container is
// truncated mid-frame.
func (this *Reader) ReadFrame() (*Frame, error) {
	var lenPrefix [4]byte

	if _, err := io.ReadFull(this.r, lenPrefix[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}

		return nil, sbwtzip.NewError(sbwtzip.InvalidInput, fmt.Errorf("truncated frame length prefix: %w", err))
	}

	length := binary.LittleEndian.Uint32(lenPrefix[:])
	payload := make([]byte, length)

	if _, err := io.ReadFull(this.r, payload); err != nil {
		return nil, sbwtzip.NewError(sbwtzip.InvalidInput, fmt.Errorf("truncated frame payload: %w", err))
	}

	f := &Frame{}

	if err := msgpack.Unmarshal(payload, f); err != nil {
		return nil, sbwtzip.NewError(sbwtzip.InvalidInput, fmt.Errorf("decode frame: %w", err))
	}

	return f, nil
}

// ReadAll reads every frame from the container in stream order (which is
// block order, per spec §4.8) until EOF.
func (this *Reader) ReadAll() ([]*Frame, error) {
	var frames []*Frame

	for {
		f, err := this.ReadFrame()

		if err == io.EOF {
			return frames, nil
		}

		if err != nil {
			return nil, err
		}

		frames = append(frames, f)
	}
}

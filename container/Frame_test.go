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

package container

import (
	"bytes"
	"io"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	f := &Frame{
		Metadata: Metadata{
			Mode:        "huffman",
			BlockNumber: 0,
			Extension:   ".txt",
			Symbols:     []byte("abc"),
			OrigPtr:     2,
			BlockLength: 4,
		},
		Data:          []byte{0xAB, 0xCD},
		HuffmanCodes:  NewHuffmanCodes(map[byte]string{'a': "0", 'b': "10", 'c': "11"}),
		PaddingLength: 3,
	}

	if err := w.WriteFrame(f); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	r := NewReader(&buf)
	got, err := r.ReadFrame()

	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}

	if got.Metadata.Mode != f.Metadata.Mode ||
		got.Metadata.BlockNumber != f.Metadata.BlockNumber ||
		got.Metadata.Extension != f.Metadata.Extension ||
		got.Metadata.OrigPtr != f.Metadata.OrigPtr ||
		got.Metadata.BlockLength != f.Metadata.BlockLength ||
		!bytes.Equal(got.Metadata.Symbols, f.Metadata.Symbols) ||
		!bytes.Equal(got.Data, f.Data) ||
		got.PaddingLength != f.PaddingLength ||
		len(got.HuffmanCodes) != len(f.HuffmanCodes) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, f)
	}

	for i, c := range f.HuffmanCodes {
		if got.HuffmanCodes[i] != c {
			t.Fatalf("HuffmanCodes[%d] = %+v, want %+v", i, got.HuffmanCodes[i], c)
		}
	}

	// NewHuffmanCodes sorts by symbol, independent of map iteration order.
	for i := 1; i < len(got.HuffmanCodes); i++ {
		if got.HuffmanCodes[i-1].Symbol >= got.HuffmanCodes[i].Symbol {
			t.Fatalf("HuffmanCodes not sorted by symbol: %+v", got.HuffmanCodes)
		}
	}

	if _, err := r.ReadFrame(); err != io.EOF {
		t.Fatalf("ReadFrame at end = %v, want io.EOF", err)
	}
}

func TestFrameMultipleInOrder(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	for i := uint32(0); i < 4; i++ {
		f := &Frame{
			Metadata: Metadata{Mode: "bzip2", BlockNumber: i},
			Data:     []byte{byte(i)},
		}

		if err := w.WriteFrame(f); err != nil {
			t.Fatalf("WriteFrame(%d): %v", i, err)
		}
	}

	r := NewReader(&buf)
	frames, err := r.ReadAll()

	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if len(frames) != 4 {
		t.Fatalf("got %d frames, want 4", len(frames))
	}

	for i, f := range frames {
		if f.Metadata.BlockNumber != uint32(i) {
			t.Fatalf("frame %d has block_number %d", i, f.Metadata.BlockNumber)
		}
	}
}

func TestFrameLZWCodes(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	f := &Frame{
		Metadata: Metadata{Mode: "lzw", BlockNumber: 0, BlockLength: 10},
		Codes:    []uint32{97, 98, 256, 99},
	}

	if err := w.WriteFrame(f); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	got, err := NewReader(&buf).ReadFrame()

	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}

	if len(got.Codes) != len(f.Codes) {
		t.Fatalf("Codes = %v, want %v", got.Codes, f.Codes)
	}

	for i := range f.Codes {
		if got.Codes[i] != f.Codes[i] {
			t.Fatalf("Codes[%d] = %d, want %d", i, got.Codes[i], f.Codes[i])
		}
	}
}

func TestReaderTruncatedLengthPrefix(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{1, 2}))

	if _, err := r.ReadFrame(); err == nil {
		t.Fatalf("expected error for a truncated length prefix")
	}
}

func TestReaderTruncatedPayload(t *testing.T) {
	buf := []byte{10, 0, 0, 0, 1, 2, 3} // claims 10 bytes, only 3 follow
	r := NewReader(bytes.NewReader(buf))

	if _, err := r.ReadFrame(); err == nil {
		t.Fatalf("expected error for a truncated frame payload")
	}
}

func TestReaderEmptyStream(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	frames, err := r.ReadAll()

	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	if len(frames) != 0 {
		t.Fatalf("got %d frames from an empty stream, want 0", len(frames))
	}
}

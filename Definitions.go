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

// Package sbwtzip defines the top-level types shared by every layer of the
// scrambled-BWT compressor: error kinds, coder modes and the byte transform
// interface implemented by the keyed BWT, MTF and RLE stages.
//
// The concrete layers live in sub-packages: keyorder (key derivation and
// keyed alphabet order), transform (SBWT/MTF/RLE), entropy (Huffman, LZW,
// arithmetic), backend (bzip2), container (frame format), pipeline
// (per-block dispatch) and driver (parallel fan-out/fan-in).
package sbwtzip

import "fmt"

// Kind classifies the way an operation failed, mirroring the numbered
// ERR_* constants a C-style compressor would use, but as a small closed
// Go type instead of untyped integers.
type Kind int

const (
	// InvalidInput covers malformed containers, truncated RLE streams,
	// a missing SBWT terminator, an out-of-range OrigPtr, or an alphabet
	// mismatch detected on decode.
	InvalidInput Kind = iota + 1
	// InvalidKey is returned when a master key fails the 16-32
	// alphanumeric-character validation rule.
	InvalidKey
	// BackendFailure wraps an error signalled by an underlying entropy
	// or dictionary coder (bzip2, Huffman, LZW, arithmetic).
	BackendFailure
	// WorkerFailure marks an unrecoverable error in the driver's worker
	// pool that is not already an *Error. It carries no block index: a
	// block task that fails with an *Error (which does carry the block
	// index) is passed through by the driver with its own Kind, not
	// re-tagged as WorkerFailure.
	WorkerFailure
	// IOFailure covers a failed read or write of the input, output, log
	// or key file.
	IOFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case InvalidKey:
		return "InvalidKey"
	case BackendFailure:
		return "BackendFailure"
	case WorkerFailure:
		return "WorkerFailure"
	case IOFailure:
		return "IOFailure"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every layer of the compressor. It
// always carries a Kind and, when the failure is attributable to one
// block, the block's index.
type Error struct {
	Kind       Kind
	BlockIndex int // -1 when not applicable
	Err        error
}

// NewError builds an Error not attached to any particular block.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, BlockIndex: -1, Err: err}
}

// NewBlockError builds an Error attached to the given block index.
func NewBlockError(kind Kind, blockIndex int, err error) *Error {
	return &Error{Kind: kind, BlockIndex: blockIndex, Err: err}
}

func (e *Error) Error() string {
	if e.BlockIndex >= 0 {
		return fmt.Sprintf("%s: block %d: %v", e.Kind, e.BlockIndex, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Mode identifies one of the four back-end coders a block may be encoded
// with. bzip2 bypasses the SBWT/MTF/RLE chain entirely; the other three
// consume its output.
type Mode int

const (
	Bzip2 Mode = iota
	Huffman
	LZW
	Arithmetic
)

func (m Mode) String() string {
	switch m {
	case Bzip2:
		return "bzip2"
	case Huffman:
		return "huffman"
	case LZW:
		return "lzw"
	case Arithmetic:
		return "arithmetic"
	default:
		return "unknown"
	}
}

// ParseMode maps a CLI/container mode name to its Mode constant.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "bzip2":
		return Bzip2, nil
	case "huffman":
		return Huffman, nil
	case "lzw":
		return LZW, nil
	case "arithmetic":
		return Arithmetic, nil
	default:
		return 0, NewError(InvalidInput, fmt.Errorf("unsupported mode: %q", name))
	}
}

// Terminator is the single-byte value appended to a block before SBWT and
// stripped after inverse SBWT. The spec's newest source variants use 0xFF;
// archives built with the 0x00 convention of earlier variants are rejected
// rather than auto-detected, per the Open Question decision in DESIGN.md.
const Terminator = 0xFF

// ByteTransform is implemented by every reversible stage of the pipeline
// that maps a byte sequence to another byte sequence: SBWT, MTF and RLE.
// The transform must be stateless across calls so that results stay
// identical regardless of worker count or scheduling order.
type ByteTransform interface {
	// Forward applies the transform to src and writes the result to dst.
	// Returns the number of bytes consumed from src, the number of bytes
	// written to dst, and any error.
	Forward(src, dst []byte) (uint, uint, error)

	// Inverse applies the reverse transform to src and writes the result
	// to dst. Returns the number of bytes consumed from src, the number
	// of bytes written to dst, and any error.
	Inverse(src, dst []byte) (uint, uint, error)

	// MaxEncodedLen returns the maximum size required for the Forward
	// output buffer given an input of srcLen bytes.
	MaxEncodedLen(srcLen int) int
}

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

// Package entropy implements the three back-end coders that run after
// RLE: static per-block Huffman, adaptive variable-width LZW and an
// adaptive order-0 arithmetic coder. bzip2, the fourth mode, lives in
// package backend since the core treats it as an opaque byte-in/byte-out
// compressor.
package entropy

import (
	"container/heap"
	"fmt"

	sbwtzip "github.com/go-sbwt/sbwtzip"
	"github.com/go-sbwt/sbwtzip/bitstream"
	"github.com/go-sbwt/sbwtzip/internal"
)

// huffNode is a leaf (Symbol >= 0) or internal node of the Huffman tree.
// Seq breaks ties between equal-frequency nodes by insertion order: the
// 256 possible leaves are seeded with Seq 0..255 (their byte value), and
// every merge created afterwards gets a strictly larger Seq, so a leaf
// always wins a tie against a not-yet-created merge, matching "ties
// broken by insertion order" (spec §4.6).
type huffNode struct {
	freq        int
	seq         int
	symbol      int
	left, right *huffNode
}

type huffHeap []*huffNode

func (h huffHeap) Len() int { return len(h) }
func (h huffHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}

	return h[i].seq < h[j].seq
}
func (h huffHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *huffHeap) Push(x any)        { *h = append(*h, x.(*huffNode)) }
func (h *huffHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// buildTree builds a Huffman tree by repeated merging of the two
// smallest-frequency subtrees, matching
// original_source/.../huffman.py's build_huffman_tree.
func buildTree(freqs [256]int) *huffNode {
	h := make(huffHeap, 0, 256)

	for symbol := 0; symbol < 256; symbol++ {
		if freqs[symbol] > 0 {
			h = append(h, &huffNode{freq: freqs[symbol], seq: symbol, symbol: symbol})
		}
	}

	if len(h) == 0 {
		return nil
	}

	heap.Init(&h)
	seq := 256

	for h.Len() > 1 {
		a := heap.Pop(&h).(*huffNode)
		b := heap.Pop(&h).(*huffNode)
		merged := &huffNode{freq: a.freq + b.freq, seq: seq, symbol: -1, left: a, right: b}
		seq++
		heap.Push(&h, merged)
	}

	return h[0]
}

// buildCodes derives a symbol -> bit-string map by pre-order traversal of
// the tree (left = "0", right = "1"), using an explicit stack - pushing
// right before left so left is popped and processed first - instead of
// recursion, matching original_source/.../huffman.py's
// build_huffman_codes.
func buildCodes(root *huffNode) map[byte]string {
	codes := make(map[byte]string)

	if root == nil {
		return codes
	}

	if root.symbol >= 0 {
		// Single-symbol alphabet: no real tree, assign a one-bit code.
		codes[byte(root.symbol)] = "0"
		return codes
	}

	type frame struct {
		node *huffNode
		code string
	}

	stack := []frame{{root, ""}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.node.symbol >= 0 {
			codes[byte(top.node.symbol)] = top.code
			continue
		}

		stack = append(stack, frame{top.node.right, top.code + "1"})
		stack = append(stack, frame{top.node.left, top.code + "0"})
	}

	return codes
}

// HuffmanEncoder is a static, per-block Huffman encoder: it builds one
// frequency table and one code tree for the whole input, unlike kanzi's
// HuffmanEncoder, which rebuilds the table per internal chunk. The code
// table itself is returned to the caller as a plain map rather than being
// bit-packed into the payload, since the container (§4.8) carries
// `huffman_codes` as its own msgpack field.
type HuffmanEncoder struct{}

// NewHuffmanEncoder creates a new HuffmanEncoder.
func NewHuffmanEncoder() *HuffmanEncoder {
	return &HuffmanEncoder{}
}

// Encode builds the Huffman tree for data, derives its codes, and returns
// the bit-packed body alongside the codes map and the number (0-7) of
// zero bits used to pad the final byte.
func (this *HuffmanEncoder) Encode(data []byte) (payload []byte, codes map[byte]string, paddingLength int, err error) {
	if len(data) == 0 {
		return []byte{}, map[byte]string{}, 0, nil
	}

	var freqs [256]int
	internal.ComputeHistogram(data, freqs[:], false)
	root := buildTree(freqs)
	codes = buildCodes(root)

	buf := internal.NewBufferStream()
	obs, err := bitstream.NewDefaultOutputBitStream(buf, 65536)

	if err != nil {
		return nil, nil, 0, sbwtzip.NewError(sbwtzip.BackendFailure, err)
	}

	totalBits := uint64(0)

	for _, b := range data {
		code := codes[b]
		value, length := codeToBits(code)
		obs.WriteBits(value, length)
		totalBits += uint64(length)
	}

	if err := obs.Close(); err != nil {
		return nil, nil, 0, sbwtzip.NewError(sbwtzip.BackendFailure, err)
	}

	paddingLength = int((8 - totalBits%8) % 8)
	return buf.Bytes(), codes, paddingLength, nil
}

// codeToBits turns a "010"-style bit string into a (value, length) pair
// suitable for OutputBitStream.WriteBits: the first character becomes the
// most significant of the 'length' written bits.
func codeToBits(code string) (uint64, uint) {
	var value uint64

	for _, c := range code {
		value <<= 1

		if c == '1' {
			value |= 1
		}
	}

	return value, uint(len(code))
}

// HuffmanDecoder reconstructs the original bytes from a Huffman payload
// given the codes map the encoder produced.
type HuffmanDecoder struct{}

// NewHuffmanDecoder creates a new HuffmanDecoder.
func NewHuffmanDecoder() *HuffmanDecoder {
	return &HuffmanDecoder{}
}

type decodeNode struct {
	symbol      int
	left, right *decodeNode
}

func buildDecodeTree(codes map[byte]string) (*decodeNode, error) {
	root := &decodeNode{symbol: -1}

	if len(codes) == 1 {
		for symbol := range codes {
			root.symbol = int(symbol)
		}

		return root, nil
	}

	for symbol, code := range codes {
		node := root

		for i, c := range code {
			isLast := i == len(code)-1
			var next **decodeNode

			if c == '0' {
				next = &node.left
			} else if c == '1' {
				next = &node.right
			} else {
				return nil, fmt.Errorf("invalid huffman code %q for symbol %d", code, symbol)
			}

			if *next == nil {
				*next = &decodeNode{symbol: -1}
			}

			node = *next

			if isLast {
				node.symbol = int(symbol)
			}
		}
	}

	return root, nil
}

// Decode walks payload bit by bit through the tree rebuilt from codes,
// stopping once every non-padding bit has been consumed. The frame
// carries no separate "decoded symbol count" field: payload length and
// paddingLength (0-7 zero bits appended to complete the final byte) are
// together enough to know exactly how many coded bits are real, which is
// what lets decode stop without overrunning into the padding.
func (this *HuffmanDecoder) Decode(payload []byte, codes map[byte]string, paddingLength int) ([]byte, error) {
	totalBits := len(payload)*8 - paddingLength

	if totalBits <= 0 {
		return []byte{}, nil
	}

	root, err := buildDecodeTree(codes)

	if err != nil {
		return nil, sbwtzip.NewError(sbwtzip.InvalidInput, err)
	}

	if root.left == nil && root.right == nil {
		// Single-symbol alphabet: one code bit ("0") was emitted per input
		// byte, so the bit count alone gives the symbol count back.
		out := make([]byte, totalBits)

		for i := range out {
			out[i] = byte(root.symbol)
		}

		return out, nil
	}

	buf := internal.NewBufferStream(payload)
	ibs, err := bitstream.NewDefaultInputBitStream(buf, 65536)

	if err != nil {
		return nil, sbwtzip.NewError(sbwtzip.BackendFailure, err)
	}

	var out []byte
	node := root

	for bitsRead := 0; bitsRead < totalBits; bitsRead++ {
		bit := ibs.ReadBit()

		if bit == 0 {
			node = node.left
		} else {
			node = node.right
		}

		if node == nil {
			return nil, sbwtzip.NewError(sbwtzip.InvalidInput, fmt.Errorf("invalid huffman bit sequence"))
		}

		if node.symbol >= 0 {
			out = append(out, byte(node.symbol))
			node = root
		}
	}

	return out, nil
}

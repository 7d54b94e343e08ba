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

// Package pipeline implements the per-block encode/decode chain of spec
// §4.7: for the three SBWT-based modes, data flows through SBWT -> MTF ->
// RLE -> the chosen entropy coder (or the reverse on decode); bzip2
// bypasses all three transform stages. Mode dispatch lives here, not
// inside SBWT, per spec §9 ("dispatch at the pipeline boundary, not deep
// inside SBWT").
package pipeline

import (
	"fmt"

	sbwtzip "github.com/go-sbwt/sbwtzip"
	"github.com/go-sbwt/sbwtzip/backend"
	"github.com/go-sbwt/sbwtzip/container"
	"github.com/go-sbwt/sbwtzip/entropy"
	"github.com/go-sbwt/sbwtzip/keyorder"
	"github.com/go-sbwt/sbwtzip/transform"
)

// Input is one unit of work handed to EncodeBlock: a block's raw bytes
// plus the identifying information the resulting frame must carry.
type Input struct {
	BlockIndex int
	Data       []byte
	Extension  string
	Mode       sbwtzip.Mode
	SubKey     keyorder.SubKey
}

// EncodeBlock runs the per-block pipeline in the forward direction and
// returns the self-describing frame record for the container.
func EncodeBlock(in Input) (*container.Frame, error) {
	f := &container.Frame{
		Metadata: container.Metadata{
			Mode:        in.Mode.String(),
			BlockNumber: uint32(in.BlockIndex),
			Extension:   in.Extension,
		},
	}

	if in.Mode == sbwtzip.Bzip2 {
		payload, err := backend.Bzip2Encode(in.Data)

		if err != nil {
			return nil, sbwtzip.NewBlockError(sbwtzip.BackendFailure, in.BlockIndex, err)
		}

		f.Data = payload
		return f, nil
	}

	bwt := transform.NewSBWT(in.SubKey)
	lastColumn := make([]byte, bwt.MaxEncodedLen(len(in.Data)))
	_, lcLen, err := bwt.Forward(in.Data, lastColumn)

	if err != nil {
		return nil, sbwtzip.NewBlockError(sbwtzip.InvalidInput, in.BlockIndex, err)
	}

	lastColumn = lastColumn[:lcLen]

	mtf := transform.NewMTF()
	mtfOut := make([]byte, mtf.MaxEncodedLen(len(lastColumn)))
	_, mtfLen, err := mtf.Forward(lastColumn, mtfOut)

	if err != nil {
		return nil, sbwtzip.NewBlockError(sbwtzip.InvalidInput, in.BlockIndex, err)
	}

	mtfOut = mtfOut[:mtfLen]

	rle := transform.NewRLE()
	rleOut := make([]byte, rle.MaxEncodedLen(len(mtfOut)))
	_, rleLen, err := rle.Forward(mtfOut, rleOut)

	if err != nil {
		return nil, sbwtzip.NewBlockError(sbwtzip.InvalidInput, in.BlockIndex, err)
	}

	rleOut = rleOut[:rleLen]

	f.Metadata.Symbols = mtf.Symbols()
	f.Metadata.OrigPtr = uint32(bwt.OrigPtr())
	f.Metadata.BlockLength = uint32(len(lastColumn))

	switch in.Mode {
	case sbwtzip.Huffman:
		payload, codes, padding, err := entropy.NewHuffmanEncoder().Encode(rleOut)

		if err != nil {
			return nil, sbwtzip.NewBlockError(sbwtzip.BackendFailure, in.BlockIndex, err)
		}

		f.Data = payload
		f.HuffmanCodes = container.NewHuffmanCodes(codes)
		f.PaddingLength = uint8(padding)

	case sbwtzip.LZW:
		f.Codes = entropy.NewLZWEncoder().Encode(rleOut)

	case sbwtzip.Arithmetic:
		f.Data = entropy.NewArithmeticEncoder().Encode(rleOut)

	default:
		return nil, sbwtzip.NewBlockError(sbwtzip.InvalidInput, in.BlockIndex,
			fmt.Errorf("unsupported mode: %v", in.Mode))
	}

	return f, nil
}

// DecodeBlock runs the per-block pipeline in the inverse direction,
// returning the original block bytes. The caller-supplied fallbackExt is
// used when the frame carries no extension (spec §9: "readers must
// tolerate its absence and fall back to a caller-supplied extension").
func DecodeBlock(f *container.Frame, subkey keyorder.SubKey, fallbackExt string) ([]byte, string, error) {
	mode, err := sbwtzip.ParseMode(f.Metadata.Mode)

	if err != nil {
		return nil, "", sbwtzip.NewBlockError(sbwtzip.InvalidInput, int(f.Metadata.BlockNumber), err)
	}

	ext := f.Metadata.Extension

	if ext == "" {
		ext = fallbackExt
	}

	if mode == sbwtzip.Bzip2 {
		data, err := backend.Bzip2Decode(f.Data)

		if err != nil {
			return nil, ext, sbwtzip.NewBlockError(sbwtzip.BackendFailure, int(f.Metadata.BlockNumber), err)
		}

		return data, ext, nil
	}

	var rleIn []byte

	switch mode {
	case sbwtzip.Huffman:
		out, err := entropy.NewHuffmanDecoder().Decode(f.Data, container.HuffmanCodesToMap(f.HuffmanCodes), int(f.PaddingLength))

		if err != nil {
			return nil, ext, sbwtzip.NewBlockError(sbwtzip.BackendFailure, int(f.Metadata.BlockNumber), err)
		}

		rleIn = out

	case sbwtzip.LZW:
		out, err := entropy.NewLZWDecoder().Decode(f.Codes)

		if err != nil {
			return nil, ext, sbwtzip.NewBlockError(sbwtzip.BackendFailure, int(f.Metadata.BlockNumber), err)
		}

		rleIn = out

	case sbwtzip.Arithmetic:
		out, err := entropy.NewArithmeticDecoder().Decode(f.Data)

		if err != nil {
			return nil, ext, sbwtzip.NewBlockError(sbwtzip.BackendFailure, int(f.Metadata.BlockNumber), err)
		}

		rleIn = out

	default:
		return nil, ext, sbwtzip.NewBlockError(sbwtzip.InvalidInput, int(f.Metadata.BlockNumber),
			fmt.Errorf("unsupported mode: %v", mode))
	}

	n := int(f.Metadata.BlockLength)

	rle := transform.NewRLE()
	mtfIn := make([]byte, n)
	_, mtfInLen, err := rle.Inverse(rleIn, mtfIn)

	if err != nil {
		return nil, ext, sbwtzip.NewBlockError(sbwtzip.InvalidInput, int(f.Metadata.BlockNumber), err)
	}

	mtfIn = mtfIn[:mtfInLen]

	mtf := transform.NewMTF()
	mtf.SetSymbols(f.Metadata.Symbols)
	lastColumn := make([]byte, len(mtfIn))
	_, lcLen, err := mtf.Inverse(mtfIn, lastColumn)

	if err != nil {
		return nil, ext, sbwtzip.NewBlockError(sbwtzip.InvalidInput, int(f.Metadata.BlockNumber), err)
	}

	lastColumn = lastColumn[:lcLen]

	bwt := transform.NewSBWT(subkey)
	bwt.SetOrigPtr(int(f.Metadata.OrigPtr))
	data := make([]byte, len(lastColumn))
	_, dataLen, err := bwt.Inverse(lastColumn, data)

	if err != nil {
		return nil, ext, sbwtzip.NewBlockError(sbwtzip.InvalidInput, int(f.Metadata.BlockNumber), err)
	}

	return data[:dataLen], ext, nil
}

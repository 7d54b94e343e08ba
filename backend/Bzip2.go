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

// Package backend wraps the one coder spec §1 treats as an external,
// opaque collaborator: bzip2. Unlike Huffman/LZW/Arithmetic, bzip2
// bypasses the SBWT/MTF/RLE chain entirely (spec §4.7); this package only
// adapts a real third-party bzip2 implementation to a plain
// []byte-in/[]byte-out shape the pipeline can dispatch to like the other
// three coders.
package backend

import (
	"errors"
	"io"

	"github.com/dsnet/compress/bzip2"

	sbwtzip "github.com/go-sbwt/sbwtzip"
	"github.com/go-sbwt/sbwtzip/internal"
)

// Bzip2Encode compresses data with github.com/dsnet/compress/bzip2 at its
// default level.
func Bzip2Encode(data []byte) ([]byte, error) {
	out := internal.NewBufferStream()
	zw, err := bzip2.NewWriterLevel(out, bzip2.DefaultCompression)

	if err != nil {
		return nil, sbwtzip.NewError(sbwtzip.BackendFailure, err)
	}

	if _, err := zw.Write(data); err != nil {
		return nil, sbwtzip.NewError(sbwtzip.BackendFailure, err)
	}

	if err := zw.Close(); err != nil {
		return nil, sbwtzip.NewError(sbwtzip.BackendFailure, err)
	}

	return out.Bytes(), nil
}

// Bzip2Decode decompresses a payload produced by Bzip2Encode.
func Bzip2Decode(payload []byte) ([]byte, error) {
	zr, err := bzip2.NewReader(internal.NewBufferStream(payload), nil)

	if err != nil {
		return nil, sbwtzip.NewError(sbwtzip.BackendFailure, err)
	}

	out := make([]byte, 0, len(payload)*3)
	buf := make([]byte, 64*1024)

	for {
		n, err := zr.Read(buf)

		if n > 0 {
			out = append(out, buf[:n]...)
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, sbwtzip.NewError(sbwtzip.BackendFailure, err)
		}

		if n == 0 {
			break
		}
	}

	return out, nil
}

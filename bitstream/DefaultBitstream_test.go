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

package bitstream

import (
	"math/rand"
	"testing"

	"github.com/go-sbwt/sbwtzip/internal"
)

func TestWriteBitReadBitRoundTrip(t *testing.T) {
	buf := internal.NewBufferStream()
	obs, err := NewDefaultOutputBitStream(buf, 1024)

	if err != nil {
		t.Fatalf("NewDefaultOutputBitStream: %v", err)
	}

	rnd := rand.New(rand.NewSource(1))
	bits := make([]int, 5000)

	for i := range bits {
		bits[i] = rnd.Intn(2)
		obs.WriteBit(bits[i])
	}

	if err := obs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ibs, err := NewDefaultInputBitStream(internal.NewBufferStream(buf.Bytes()), 1024)

	if err != nil {
		t.Fatalf("NewDefaultInputBitStream: %v", err)
	}

	for i, want := range bits {
		if got := ibs.ReadBit(); got != want {
			t.Fatalf("bit %d = %d, want %d", i, got, want)
		}
	}
}

func TestWriteBitsReadBitsRoundTrip(t *testing.T) {
	buf := internal.NewBufferStream()
	obs, err := NewDefaultOutputBitStream(buf, 1024)

	if err != nil {
		t.Fatalf("NewDefaultOutputBitStream: %v", err)
	}

	rnd := rand.New(rand.NewSource(2))
	type entry struct {
		value uint64
		count uint
	}

	entries := make([]entry, 300)

	for i := range entries {
		count := uint(1 + rnd.Intn(64))
		value := rnd.Uint64()

		if count < 64 {
			value &= (uint64(1) << count) - 1
		}

		entries[i] = entry{value: value, count: count}
		obs.WriteBits(value, count)
	}

	if err := obs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ibs, err := NewDefaultInputBitStream(internal.NewBufferStream(buf.Bytes()), 1024)

	if err != nil {
		t.Fatalf("NewDefaultInputBitStream: %v", err)
	}

	for i, e := range entries {
		if got := ibs.ReadBits(e.count); got != e.value {
			t.Fatalf("entry %d: ReadBits(%d) = %d, want %d", i, e.count, got, e.value)
		}
	}
}

func TestWriteArrayReadArrayRoundTrip(t *testing.T) {
	buf := internal.NewBufferStream()
	obs, err := NewDefaultOutputBitStream(buf, 1024)

	if err != nil {
		t.Fatalf("NewDefaultOutputBitStream: %v", err)
	}

	rnd := rand.New(rand.NewSource(3))
	data := make([]byte, 777)

	for i := range data {
		data[i] = byte(rnd.Intn(256))
	}

	obs.WriteArray(data, uint(len(data))*8)

	if err := obs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	ibs, err := NewDefaultInputBitStream(internal.NewBufferStream(buf.Bytes()), 1024)

	if err != nil {
		t.Fatalf("NewDefaultInputBitStream: %v", err)
	}

	out := make([]byte, len(data))
	ibs.ReadArray(out, uint(len(out))*8)

	for i := range data {
		if out[i] != data[i] {
			t.Fatalf("byte %d = %d, want %d", i, out[i], data[i])
		}
	}
}

func TestOutputBitStreamRejectsSmallBuffer(t *testing.T) {
	if _, err := NewDefaultOutputBitStream(internal.NewBufferStream(), 100); err == nil {
		t.Fatalf("expected error for a buffer smaller than 1024 bytes")
	}
}

func TestOutputBitStreamClosedWriteBitPanics(t *testing.T) {
	buf := internal.NewBufferStream()
	obs, err := NewDefaultOutputBitStream(buf, 1024)

	if err != nil {
		t.Fatalf("NewDefaultOutputBitStream: %v", err)
	}

	obs.WriteBit(1)

	if err := obs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic writing to a closed stream")
		}
	}()

	obs.WriteBit(0)
}

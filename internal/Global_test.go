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

package internal

import "testing"

func TestComputeHistogram(t *testing.T) {
	data := []byte("mississippi")
	var freqs [256]int
	ComputeHistogram(data, freqs[:], false)

	want := map[byte]int{'m': 1, 'i': 4, 's': 4, 'p': 2}

	for b, n := range want {
		if freqs[b] != n {
			t.Fatalf("freqs[%q] = %d, want %d", b, freqs[b], n)
		}
	}
}

func TestComputeHistogramWithTotal(t *testing.T) {
	data := make([]byte, 37) // spans the 16-wide unrolled loop and the tail
	var freqs [257]int
	ComputeHistogram(data, freqs[:], true)

	if freqs[256] != len(data) {
		t.Fatalf("freqs[256] = %d, want %d", freqs[256], len(data))
	}

	if freqs[0] != len(data) {
		t.Fatalf("freqs[0] = %d, want %d", freqs[0], len(data))
	}
}

func TestComputeJobsPerTaskEvenSplit(t *testing.T) {
	got, err := ComputeJobsPerTask(make([]uint, 4), 8, 4)

	if err != nil {
		t.Fatalf("ComputeJobsPerTask: %v", err)
	}

	for i, n := range got {
		if n != 2 {
			t.Fatalf("got[%d] = %d, want 2", i, n)
		}
	}
}

func TestComputeJobsPerTaskRemainder(t *testing.T) {
	got, err := ComputeJobsPerTask(make([]uint, 3), 7, 3)

	if err != nil {
		t.Fatalf("ComputeJobsPerTask: %v", err)
	}

	sum := uint(0)

	for _, n := range got {
		sum += n
	}

	if sum != 7 {
		t.Fatalf("sum(got) = %d, want 7", sum)
	}

	// The remainder is distributed starting from the first task, one at a
	// time, so no task can receive more than ceil(jobs/tasks).
	for i, n := range got {
		if n < 2 || n > 3 {
			t.Fatalf("got[%d] = %d, want 2 or 3", i, n)
		}
	}
}

func TestComputeJobsPerTaskFewerJobsThanTasks(t *testing.T) {
	got, err := ComputeJobsPerTask(make([]uint, 5), 3, 5)

	if err != nil {
		t.Fatalf("ComputeJobsPerTask: %v", err)
	}

	for i, n := range got {
		if n != 1 {
			t.Fatalf("got[%d] = %d, want 1", i, n)
		}
	}
}

func TestComputeJobsPerTaskInvalidArgs(t *testing.T) {
	if _, err := ComputeJobsPerTask(make([]uint, 1), 0, 1); err == nil {
		t.Fatalf("expected error for 0 jobs")
	}

	if _, err := ComputeJobsPerTask(make([]uint, 1), 1, 0); err == nil {
		t.Fatalf("expected error for 0 tasks")
	}
}

func TestBufferStreamReadWrite(t *testing.T) {
	bs := NewBufferStream()

	if _, err := bs.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if bs.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", bs.Len())
	}

	out := make([]byte, 5)
	n, err := bs.Read(out)

	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if n != 5 || string(out) != "hello" {
		t.Fatalf("Read returned (%d, %q), want (5, %q)", n, out, "hello")
	}

	if err := bs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := bs.Write([]byte("x")); err == nil {
		t.Fatalf("expected error writing to a closed BufferStream")
	}
}

func TestBufferStreamBytes(t *testing.T) {
	bs := NewBufferStream([]byte("seed"))

	if string(bs.Bytes()) != "seed" {
		t.Fatalf("Bytes() = %q, want %q", bs.Bytes(), "seed")
	}
}

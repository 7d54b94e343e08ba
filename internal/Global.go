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

// Package internal holds small generic helpers shared by the entropy
// coders and the driver: histogram computation, worker/job splitting and
// an in-memory buffer stream. None of it is specific to the keyed
// transform chain.
package internal

import (
	"errors"
)

// ComputeHistogram counts byte frequencies in block into freqs (which must
// have length 256, or 257 if withTotal is set). Only the order-0 variant
// is needed here: callers that fed this a chunk for Huffman statistics
// never need the order-1 (byte-pair) histogram kanzi's context modelling
// entropy coders use.
func ComputeHistogram(block []byte, freqs []int, withTotal bool) {
	if withTotal {
		freqs[256] = len(block)
	}

	end16 := len(block) & -16

	for i := 0; i < end16; {
		d := block[i : i+16]
		freqs[d[0]]++
		freqs[d[1]]++
		freqs[d[2]]++
		freqs[d[3]]++
		freqs[d[4]]++
		freqs[d[5]]++
		freqs[d[6]]++
		freqs[d[7]]++
		freqs[d[8]]++
		freqs[d[9]]++
		freqs[d[10]]++
		freqs[d[11]]++
		freqs[d[12]]++
		freqs[d[13]]++
		freqs[d[14]]++
		freqs[d[15]]++
		i += 16
	}

	for i := end16; i < len(block); i++ {
		freqs[block[i]]++
	}
}

// ComputeJobsPerTask splits 'jobs' items as evenly as possible across
// 'tasks' workers, distributing the remainder one item at a time starting
// from the first task. Used by the driver to decide the worker pool size's
// relationship to the block count (not needed when jobs <= tasks, since
// every block simply gets its own worker in that case).
func ComputeJobsPerTask(jobsPerTask []uint, jobs, tasks uint) ([]uint, error) {
	if tasks == 0 {
		return jobsPerTask, errors.New("invalid number of tasks provided: 0")
	}

	if jobs == 0 {
		return jobsPerTask, errors.New("invalid number of jobs provided: 0")
	}

	var q, r uint

	if jobs <= tasks {
		q = 1
		r = 0
	} else {
		q = jobs / tasks
		r = jobs - q*tasks
	}

	for i := range jobsPerTask {
		jobsPerTask[i] = q
	}

	n := uint(0)

	for r != 0 {
		jobsPerTask[n]++
		r--
		n++

		if n == tasks {
			n = 0
		}
	}

	return jobsPerTask, nil
}

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

// Package driver implements the parallel block fan-out/fan-in of spec
// §4.9: the input is split into fixed-size blocks, each is handed to a
// shared-nothing worker from a bounded pool, and the container writer
// drains completed blocks strictly in ascending block-number order
// regardless of completion order (spec §4.8/§5).
package driver

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"
	"time"

	sbwtzip "github.com/go-sbwt/sbwtzip"
	"github.com/go-sbwt/sbwtzip/container"
	"github.com/go-sbwt/sbwtzip/internal"
	"github.com/go-sbwt/sbwtzip/keyorder"
	"github.com/go-sbwt/sbwtzip/pipeline"
)

// BlockSize is the fixed input chunk size of spec §4.9; the last block of
// a file may be shorter.
const BlockSize = 65536

// Options configures a single compress or decompress run. Logger may be
// nil, in which case log output is discarded - spec §9 asks for a
// logging sink passed through the driver rather than a package-level
// handler, so there is no global fallback logger here.
type Options struct {
	MasterKey string
	Mode      sbwtzip.Mode // only used by Compress
	Extension string       // original file extension (Compress) or fallback (Decompress)
	Logger    *log.Logger
	Listener  sbwtzip.Listener // may be nil
}

// Stats summarises one run, mirroring the "input size / duration" summary
// line original_source/.../compress.py and decompress.py log after every
// run (spec §9 SUPPLEMENTED FEATURES).
type Stats struct {
	BytesIn  int64
	BytesOut int64
	Elapsed  time.Duration
	Blocks   int
}

func workerCount(blocks int) int {
	n := int(float64(runtime.NumCPU()) * 0.6)

	if n < 1 {
		n = 1
	}

	if blocks > 0 && n > blocks {
		n = blocks
	}

	return n
}

func (this *Options) logger() *log.Logger {
	if this.Logger != nil {
		return this.Logger
	}

	return log.New(io.Discard, "", 0)
}

func (this *Options) notify(evt *sbwtzip.Event) {
	if this.Listener != nil {
		this.Listener.ProcessEvent(evt)
	}
}

// Compress validates opts.MasterKey, splits data into BlockSize blocks,
// runs pipeline.EncodeBlock across a bounded worker pool and writes the
// resulting frames, in block order, to w.
func Compress(data []byte, w io.Writer, opts Options) (Stats, error) {
	start := time.Now()

	if err := keyorder.ValidateMasterKey(opts.MasterKey); err != nil {
		return Stats{}, err
	}

	nbBlocks := (len(data) + BlockSize - 1) / BlockSize

	if nbBlocks == 0 {
		nbBlocks = 1 // an empty input still produces one (empty) block
	}

	jobs := make([]pipeline.Input, nbBlocks)

	for i := 0; i < nbBlocks; i++ {
		lo := i * BlockSize
		hi := lo + BlockSize

		if hi > len(data) {
			hi = len(data)
		}

		jobs[i] = pipeline.Input{
			BlockIndex: i,
			Data:       data[lo:hi],
			Extension:  opts.Extension,
			Mode:       opts.Mode,
			SubKey:     keyorder.DeriveSubKey(opts.MasterKey, i),
		}
	}

	logger := opts.logger()
	logger.Printf("compress: %d byte(s) split into %d block(s), mode=%v", len(data), nbBlocks, opts.Mode)

	workers := workerCount(nbBlocks)
	jobsPerTask, err := internal.ComputeJobsPerTask(make([]uint, workers), uint(nbBlocks), uint(workers))

	if err != nil {
		return Stats{}, sbwtzip.NewError(sbwtzip.WorkerFailure, err)
	}

	logger.Printf("compress: %d worker(s), %v block(s) per worker", workers, jobsPerTask)

	writer := container.NewWriter(w)
	bytesOut := int64(0)

	writeErr := drainInOrder(nbBlocks,
		func(i int) (*container.Frame, error) {
			opts.notify(sbwtzip.NewEvent(sbwtzip.EvtBlockStart, i, int64(len(jobs[i].Data))))
			f, err := pipeline.EncodeBlock(jobs[i])

			if err != nil {
				return nil, err
			}

			opts.notify(sbwtzip.NewEvent(sbwtzip.EvtBlockEnd, i, int64(len(f.Data)+len(f.Codes)*4)))
			return f, nil
		},
		func(i int, f *container.Frame) error {
			if err := writer.WriteFrame(f); err != nil {
				return err
			}

			bytesOut += int64(len(f.Data) + len(f.Codes)*4)
			return nil
		})

	if writeErr != nil {
		return Stats{}, writeErr
	}

	stats := Stats{BytesIn: int64(len(data)), BytesOut: bytesOut, Elapsed: time.Since(start), Blocks: nbBlocks}
	logger.Printf("compress: done, %d -> %d byte(s) in %s", stats.BytesIn, stats.BytesOut, stats.Elapsed)
	return stats, nil
}

// Decompress parses every frame from r, decodes them across a bounded
// worker pool and returns the concatenated, reassembled output alongside
// the extension the container carries (or opts.Extension if the frames
// carry none).
func Decompress(r io.Reader, opts Options) ([]byte, string, Stats, error) {
	start := time.Now()

	if err := keyorder.ValidateMasterKey(opts.MasterKey); err != nil {
		return nil, "", Stats{}, err
	}

	frames, err := container.NewReader(r).ReadAll()

	if err != nil {
		return nil, "", Stats{}, err
	}

	if len(frames) == 0 {
		return nil, opts.Extension, Stats{}, nil
	}

	logger := opts.logger()
	logger.Printf("decompress: %d frame(s) read", len(frames))

	type result struct {
		data []byte
		ext  string
	}

	results, err := runPool(len(frames), func(i int) (result, error) {
		f := frames[i]
		blockIndex := int(f.Metadata.BlockNumber)
		subkey := keyorder.DeriveSubKey(opts.MasterKey, blockIndex)
		opts.notify(sbwtzip.NewEvent(sbwtzip.EvtBlockStart, blockIndex, 0))
		data, ext, err := pipeline.DecodeBlock(f, subkey, opts.Extension)

		if err != nil {
			return result{}, err
		}

		opts.notify(sbwtzip.NewEvent(sbwtzip.EvtBlockEnd, blockIndex, int64(len(data))))
		return result{data: data, ext: ext}, nil
	})

	if err != nil {
		return nil, "", Stats{}, err
	}

	// Spec §4.9: the container is parsed sequentially and reassembled by
	// metadata.block_number, not by the order frames happened to appear in
	// the stream - results[i] above is indexed by read position, so it is
	// placed into its block_number's slot here rather than assumed to
	// already be in block order.
	placed := make([]result, len(frames))
	seen := make([]bool, len(frames))

	for i, f := range frames {
		blockIndex := int(f.Metadata.BlockNumber)

		if blockIndex < 0 || blockIndex >= len(frames) {
			return nil, "", Stats{}, sbwtzip.NewBlockError(sbwtzip.InvalidInput, blockIndex,
				fmt.Errorf("block_number %d out of range for %d frame(s)", blockIndex, len(frames)))
		}

		if seen[blockIndex] {
			return nil, "", Stats{}, sbwtzip.NewBlockError(sbwtzip.InvalidInput, blockIndex,
				fmt.Errorf("duplicate block_number %d", blockIndex))
		}

		seen[blockIndex] = true
		placed[blockIndex] = results[i]
	}

	bytesOut := 0

	for _, r := range placed {
		bytesOut += len(r.data)
	}

	out := make([]byte, 0, bytesOut)
	// r.ext is already the frame's extension or, when the frame has none,
	// opts.Extension (pipeline.DecodeBlock applies that fallback).
	ext := ""

	for _, r := range placed {
		out = append(out, r.data...)

		if ext == "" {
			ext = r.ext
		}
	}

	stats := Stats{BytesIn: 0, BytesOut: int64(len(out)), Elapsed: time.Since(start), Blocks: len(frames)}
	logger.Printf("decompress: done, %d block(s) -> %d byte(s) in %s", stats.Blocks, stats.BytesOut, stats.Elapsed)
	return out, ext, stats, nil
}

// drainInOrder runs fn(0)..fn(n-1) across a bounded, shared-nothing
// worker pool and calls drain(i, result) strictly in ascending i order as
// soon as each result becomes available - even when workers finish out of
// order - matching spec §4.8/§4.9: "the writer buffers completed blocks
// in a map keyed by block index and drains them in ascending order...
// the writer blocks until the next-in-order block is ready". The pending
// map is only ever touched by the single goroutine draining it, so no
// lock is needed on it; workers hand off results through a channel.
func drainInOrder[T any](n int, fn func(i int) (T, error), drain func(i int, result T) error) error {
	type outcome struct {
		index int
		value T
		err   error
	}

	jobCh := make(chan int)
	doneCh := make(chan outcome, n)
	var wg sync.WaitGroup

	workers := workerCount(n)

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobCh {
				v, err := fn(i)
				doneCh <- outcome{index: i, value: v, err: err}
			}
		}()
	}

	go func() {
		for i := 0; i < n; i++ {
			jobCh <- i
		}

		close(jobCh)
	}()

	go func() {
		wg.Wait()
		close(doneCh)
	}()

	pending := make(map[int]T)
	next := 0
	var firstErr error

	for o := range doneCh {
		if o.err != nil {
			if firstErr == nil {
				firstErr = wrapWorkerFailure(o.err)
			}

			continue
		}

		pending[o.index] = o.value

		for {
			v, ok := pending[next]

			if !ok {
				break
			}

			delete(pending, next)

			if firstErr == nil {
				if err := drain(next, v); err != nil {
					firstErr = err
				}
			}

			next++
		}
	}

	return firstErr
}

// runPool runs fn(0), fn(1), ..., fn(n-1) across a bounded worker pool
// (workerCount(n) goroutines sharing nothing but the job index channel)
// and returns their results in index order. The first error encountered
// aborts the whole run: per spec §4.9/§7 there is no per-block retry and
// a worker failure fails the entire operation, tagged with the failing
// block's index.
func runPool[T any](n int, fn func(i int) (T, error)) ([]T, error) {
	results := make([]T, n)
	jobCh := make(chan int)
	errCh := make(chan error, n)
	var wg sync.WaitGroup

	workers := workerCount(n)

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobCh {
				r, err := fn(i)

				if err != nil {
					errCh <- err
					continue
				}

				results[i] = r
			}
		}()
	}

	for i := 0; i < n; i++ {
		jobCh <- i
	}

	close(jobCh)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		return nil, wrapWorkerFailure(err)
	}

	return results, nil
}

func wrapWorkerFailure(err error) error {
	if sErr, ok := err.(*sbwtzip.Error); ok {
		return sErr
	}

	return sbwtzip.NewError(sbwtzip.WorkerFailure, fmt.Errorf("block task failed: %w", err))
}

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

// Command sbwtzip is the CLI front-end named by spec §6: two verbs,
// compress and decompress, each taking -m/-i/-o/-k and an optional -l.
// Argument parsing is hand-rolled (a switch over os.Args), matching
// app/Kanzi.go's own processCommandLine rather than reaching for a flags
// library the teacher never imports.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	sbwtzip "github.com/go-sbwt/sbwtzip"
	"github.com/go-sbwt/sbwtzip/driver"
)

type cliArgs struct {
	mode    string // "compress" | "decompress"
	coder   string // -m
	input   string // -i
	output  string // -o
	key     string // -k
	logPath string // -l
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	args, err := parseArgs(argv)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, closeLog, err := openLogger(args.logPath)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	defer closeLog()

	key, err := resolveKey(args.key)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch args.mode {
	case "compress":
		return runCompress(args, key, logger)
	case "decompress":
		return runDecompress(args, key, logger)
	default:
		fmt.Fprintln(os.Stderr, "usage: sbwtzip compress|decompress -m <mode> -i <input> -o <output> -k <key|keyfile> [-l <log>]")
		return 1
	}
}

func runCompress(args cliArgs, key string, logger *log.Logger) int {
	mode, err := sbwtzip.ParseMode(args.coder)

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	data, err := os.ReadFile(args.input)

	if err != nil {
		fmt.Fprintln(os.Stderr, sbwtzip.NewError(sbwtzip.IOFailure, err))
		return 1
	}

	ext := filepath.Ext(args.input)
	outPath := args.output + ".bin"
	out, err := os.Create(outPath)

	if err != nil {
		fmt.Fprintln(os.Stderr, sbwtzip.NewError(sbwtzip.IOFailure, err))
		return 1
	}

	defer out.Close()

	stats, err := driver.Compress(data, out, driver.Options{
		MasterKey: key,
		Mode:      mode,
		Extension: ext,
		Logger:    logger,
	})

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger.Printf("wrote %s (%d block(s), %d -> %d byte(s))", outPath, stats.Blocks, stats.BytesIn, stats.BytesOut)
	return 0
}

func runDecompress(args cliArgs, key string, logger *log.Logger) int {
	in, err := os.Open(args.input)

	if err != nil {
		fmt.Fprintln(os.Stderr, sbwtzip.NewError(sbwtzip.IOFailure, err))
		return 1
	}

	defer in.Close()

	data, ext, stats, err := driver.Decompress(in, driver.Options{MasterKey: key, Logger: logger})

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	outPath := args.output + ext
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fmt.Fprintln(os.Stderr, sbwtzip.NewError(sbwtzip.IOFailure, err))
		return 1
	}

	logger.Printf("wrote %s (%d block(s) -> %d byte(s))", outPath, stats.Blocks, stats.BytesOut)
	return 0
}

func parseArgs(argv []string) (cliArgs, error) {
	if len(argv) == 0 {
		return cliArgs{}, fmt.Errorf("missing verb: compress or decompress")
	}

	args := cliArgs{mode: argv[0]}

	if args.mode != "compress" && args.mode != "decompress" {
		return cliArgs{}, fmt.Errorf("unknown verb %q: expected compress or decompress", args.mode)
	}

	rest := argv[1:]

	for i := 0; i < len(rest); i++ {
		arg := rest[i]

		next := func() (string, error) {
			if i+1 >= len(rest) {
				return "", fmt.Errorf("missing value for %s", arg)
			}

			i++
			return rest[i], nil
		}

		var err error

		switch arg {
		case "-m":
			args.coder, err = next()
		case "-i":
			args.input, err = next()
		case "-o":
			args.output, err = next()
		case "-k":
			args.key, err = next()
		case "-l":
			args.logPath, err = next()
		default:
			err = fmt.Errorf("unknown flag %q", arg)
		}

		if err != nil {
			return cliArgs{}, err
		}
	}

	if args.input == "" {
		return cliArgs{}, fmt.Errorf("-i <input> is required")
	}

	if args.output == "" {
		return cliArgs{}, fmt.Errorf("-o <output> is required")
	}

	if args.key == "" {
		return cliArgs{}, fmt.Errorf("-k <key|keyfile> is required")
	}

	if args.mode == "compress" && args.coder == "" {
		return cliArgs{}, fmt.Errorf("-m <mode> is required for compress")
	}

	return args, nil
}

// resolveKey loads -k from a file when it names one that exists, matching
// original_source/.../utils/support.py's key-or-keyfile convention (spec
// §6: "A key is accepted iff after optional file load it is 16-32
// characters, each alphanumeric"); otherwise the flag value is used
// as the key literally.
func resolveKey(k string) (string, error) {
	if info, err := os.Stat(k); err == nil && !info.IsDir() {
		raw, err := os.ReadFile(k)

		if err != nil {
			return "", sbwtzip.NewError(sbwtzip.IOFailure, err)
		}

		k = strings.TrimSpace(string(raw))
	}

	return k, nil
}

// openLogger tees to stderr and, when logPath is non-empty, also to that
// file - original_source/.../utils/logging.py sets up both a console and
// a file handler; per spec §9's design note, this is passed in rather
// than installed as a package-level handler.
func openLogger(logPath string) (*log.Logger, func(), error) {
	if logPath == "" {
		return log.New(os.Stderr, "", log.LstdFlags), func() {}, nil
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)

	if err != nil {
		return nil, nil, sbwtzip.NewError(sbwtzip.IOFailure, err)
	}

	logger := log.New(io.MultiWriter(os.Stderr, f), "", log.LstdFlags)
	return logger, func() { f.Close() }, nil
}

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

// Package keyorder derives the per-block sub-key from a master key and
// builds the keyed alphabet order SBWT sorts under.
package keyorder

import (
	"crypto/sha256"
	"fmt"
	"regexp"

	sbwtzip "github.com/go-sbwt/sbwtzip"
)

// SubKey is the 32-byte digest derived from a master key and a block
// index. It is never persisted; the container only ever carries the
// block index, from which a decoder with the same master key can
// recompute it.
type SubKey [sha256.Size]byte

// DeriveSubKey computes subkey(master, i) = SHA-256(utf8(master) ++ "-" ++
// ascii(i)), exposed as the raw 32-byte digest rather than the base64
// encoding some source variants used.
func DeriveSubKey(master string, blockIndex int) SubKey {
	data := fmt.Sprintf("%s-%d", master, blockIndex)
	return sha256.Sum256([]byte(data))
}

var keyPattern = regexp.MustCompile(`^[a-zA-Z0-9]{16,32}$`)

// ValidateMasterKey accepts a key iff it is 16-32 alphanumeric characters,
// per spec §6. It returns a *sbwtzip.Error of Kind InvalidKey otherwise.
func ValidateMasterKey(key string) error {
	if !keyPattern.MatchString(key) {
		return sbwtzip.NewError(sbwtzip.InvalidKey,
			fmt.Errorf("key must be 16-32 alphanumeric characters, got %d", len(key)))
	}

	return nil
}

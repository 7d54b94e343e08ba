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

package keyorder

import "testing"

func TestDeriveSubKeyDeterministic(t *testing.T) {
	a := DeriveSubKey("abcdefghijklmnop", 3)
	b := DeriveSubKey("abcdefghijklmnop", 3)

	if a != b {
		t.Fatalf("DeriveSubKey is not deterministic: %x != %x", a, b)
	}
}

func TestDeriveSubKeyVariesByIndex(t *testing.T) {
	a := DeriveSubKey("abcdefghijklmnop", 0)
	b := DeriveSubKey("abcdefghijklmnop", 1)

	if a == b {
		t.Fatalf("block index 0 and 1 derived the same sub-key")
	}
}

func TestDeriveSubKeyVariesByMaster(t *testing.T) {
	a := DeriveSubKey("abcdefghijklmnop", 0)
	b := DeriveSubKey("qrstuvwxyzabcdef", 0)

	if a == b {
		t.Fatalf("different master keys derived the same sub-key")
	}
}

func TestValidateMasterKey(t *testing.T) {
	cases := []struct {
		key string
		ok  bool
	}{
		{"", false},
		{"short123456789", false},       // 14 chars
		{"abcdefghijklmno1", true},      // 16 chars, alphanumeric
		{"ABCDEFGHIJKLMNOPQRSTUVWXYZ123", true}, // 29 chars
		{"abcdefghijklmnopqrstuvwxyz1234567", false}, // 33 chars, too long
		{"abcdefghijklmno-", false},     // 16 chars but contains '-'
		{"abcdefghijklmno ", false},     // trailing space
	}

	for _, c := range cases {
		err := ValidateMasterKey(c.key)

		if c.ok && err != nil {
			t.Errorf("ValidateMasterKey(%q) = %v, want nil", c.key, err)
		}

		if !c.ok && err == nil {
			t.Errorf("ValidateMasterKey(%q) = nil, want error", c.key)
		}
	}
}

func TestValidateMasterKeyBoundaries(t *testing.T) {
	exact16 := "a123456789012345"[:16]
	exact32 := "a1234567890123456789012345678901"[:32]

	if err := ValidateMasterKey(exact16); err != nil {
		t.Errorf("16-char key rejected: %v", err)
	}

	if err := ValidateMasterKey(exact32); err != nil {
		t.Errorf("32-char key rejected: %v", err)
	}

	if err := ValidateMasterKey(exact16[:15]); err == nil {
		t.Errorf("15-char key accepted")
	}

	if err := ValidateMasterKey(exact32 + "x"); err == nil {
		t.Errorf("33-char key accepted")
	}
}

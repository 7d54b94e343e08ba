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

package transform

import (
	"fmt"

	sbwtzip "github.com/go-sbwt/sbwtzip"
)

func errorTooSmall(have, need int) error {
	return fmt.Errorf("output buffer too small: have %d, need %d", have, need)
}

func errorInvalidMTFIndex(idx, alphabetSize int) error {
	return sbwtzip.NewError(sbwtzip.InvalidInput,
		fmt.Errorf("mtf index %d out of range [0,%d)", idx, alphabetSize))
}

func errorTruncatedRLE() error {
	return sbwtzip.NewError(sbwtzip.InvalidInput, fmt.Errorf("truncated run-length stream"))
}

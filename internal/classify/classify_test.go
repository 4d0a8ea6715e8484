/*
 * Copyright 2026 The FileRipper Team
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package classify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/pkg/errors"

	"github.com/vaayu/vaayu/internal/core"
)

func TestClassifyRecognizesEverySentinelKind(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		title string
	}{
		{"config", core.ErrConfig, "configuration error"},
		{"auth", core.ErrAuth, "authentication error"},
		{"hostkey", core.ErrHostKey, "host key verification error"},
		{"network", core.ErrNetwork, "connection error"},
		{"filenotfound", core.ErrFileNotFound, "file/path error"},
		{"permission", core.ErrPermission, "authentication error"},
		{"transfer", core.ErrTransfer, "transfer error"},
		{"hashmismatch", core.ErrHashMismatch, "verification error"},
		{"remotetool", core.ErrRemoteTool, "verification error"},
		{"compression", core.ErrCompression, "compression error"},
		{"interrupted", core.ErrInterrupted, "interrupted"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			wrapped := pkgerrors.Wrap(c.err, "context")
			got := Classify(wrapped)
			assert.Equal(t, c.title, got.Title)
			assert.NotEmpty(t, got.Hint)
		})
	}
}

func TestClassifyHashMismatchMatchesSentinelMessageExactly(t *testing.T) {
	// core.ErrHashMismatch's message is "hash_mismatch" (underscore), not
	// "hash mismatch" (space); Classify must recognize it via core.KindOf,
	// not by sniffing the literal message text.
	err := pkgerrors.Wrapf(core.ErrHashMismatch, "download %s", "/tmp/f")
	got := Classify(err)
	assert.Equal(t, "verification error", got.Title)
}

func TestClassifyFallsBackToMessageSniffingForUnwrappedErrors(t *testing.T) {
	got := Classify(errors.New("dial tcp: connection refused"))
	assert.Equal(t, "connection error", got.Title)
}

func TestClassifyMessageFallbackRecognizesUnderscoreAndSpaceForms(t *testing.T) {
	assert.Equal(t, "verification error", Classify(errors.New("remote hash_mismatch detected")).Title)
	assert.Equal(t, "verification error", Classify(errors.New("remote hash mismatch detected")).Title)
	assert.Equal(t, "authentication error", Classify(errors.New("permission_denied")).Title)
	assert.Equal(t, "file/path error", Classify(errors.New("file_not_found: /tmp/x")).Title)
	assert.Equal(t, "host key verification error", Classify(errors.New("host_key changed")).Title)
}

func TestClassifyDefaultsToOperationFailedForUnknownText(t *testing.T) {
	got := Classify(errors.New("something entirely unrecognized"))
	assert.Equal(t, "operation failed", got.Title)
}

func TestClassifyNilErrorReturnsZeroValue(t *testing.T) {
	assert.Equal(t, Classification{}, Classify(nil))
}

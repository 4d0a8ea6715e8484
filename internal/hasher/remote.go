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

package hasher

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/vaayu/vaayu/internal/core"
)

// CommandRunner is the minimal exec surface RemoteSHA256 needs from a
// session. github.com/vaayu/vaayu/internal/session.Session satisfies this.
type CommandRunner interface {
	RunCommand(ctx context.Context, cmd string) (stdout string, exitStatus int, err error)
}

// remoteHashScript is the python hashing fallback: opens the file named by
// its first argument in binary mode and streams 1 MiB chunks into SHA-256,
// then prints the hex digest. It contains no single quotes, so it can be
// passed as one single-quoted shell argument.
const remoteHashScript = "import hashlib,sys\n" +
	"f=open(sys.argv[1],\"rb\")\n" +
	"h=hashlib.sha256()\n" +
	"b=f.read(1048576)\n" +
	"while b:\n" +
	" h.update(b)\n" +
	" b=f.read(1048576)\n" +
	"print(h.hexdigest())"

// RemoteSHA256 computes the SHA-256 of remotePath on the far end of
// runner, trying (in order) sha256sum, shasum -a 256, python3 -c, and
// python -c. The first command that exits 0 with non-empty stdout wins.
func RemoteSHA256(ctx context.Context, runner CommandRunner, remotePath string) (string, error) {
	if strings.ContainsRune(remotePath, 0) {
		return "", errors.Wrap(core.ErrConfig, "remote path contains a NUL byte")
	}
	escaped := posixSingleQuoteEscape(remotePath)

	commands := []string{
		fmt.Sprintf("sha256sum -- '%s'", escaped),
		fmt.Sprintf("shasum -a 256 -- '%s'", escaped),
		fmt.Sprintf("python3 -c '%s' '%s'", remoteHashScript, escaped),
		fmt.Sprintf("python -c '%s' '%s'", remoteHashScript, escaped),
	}

	for i, cmd := range commands {
		out, exitStatus, err := runner.RunCommand(ctx, cmd)
		if err != nil {
			continue
		}
		trimmed := strings.TrimSpace(out)
		if exitStatus != 0 || trimmed == "" {
			continue
		}
		if i < 2 {
			// sha256sum/shasum output is "<digest>  <path>"; take the
			// first whitespace-delimited token.
			fields := strings.Fields(trimmed)
			if len(fields) == 0 {
				continue
			}
			return fields[0], nil
		}
		return trimmed, nil
	}

	return "", errors.Wrap(core.ErrRemoteTool, "no hashing tool available on remote host")
}

// posixSingleQuoteEscape escapes a path for embedding inside single quotes
// in a POSIX shell command: ' -> '\''.
func posixSingleQuoteEscape(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}

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

// Package classify turns a final, retry-exhausted error into a short
// remediation hint for the CLI. It never changes retry behavior — that's
// entirely internal/retry's job.
package classify

import (
	"strings"

	"github.com/vaayu/vaayu/internal/core"
)

// Classification is a human-facing bucket plus a one-line remediation
// hint.
type Classification struct {
	Title string
	Hint  string
}

// Classify recovers err's core.Kind via core.KindOf first, since most
// errors originating in this codebase are wrapped with one of
// internal/core's sentinels. It falls back to substring sniffing of the
// error text for errors that carry no recoverable Kind (raw SSH, SFTP,
// filesystem or context errors that were returned unwrapped).
func Classify(err error) Classification {
	if err == nil {
		return Classification{}
	}
	if c, ok := classifyKind(core.KindOf(err)); ok {
		return c
	}
	return classifyMessage(strings.ToLower(err.Error()))
}

func classifyKind(kind core.Kind) (Classification, bool) {
	switch kind {
	case core.KindConfig:
		return Classification{
			Title: "configuration error",
			Hint:  "check the command's flags and arguments; run with -h for usage",
		}, true
	case core.KindAuth:
		return Classification{
			Title: "authentication error",
			Hint:  "check the username, password, or key permissions; omit -k to skip host key verification",
		}, true
	case core.KindHostKey:
		return Classification{
			Title: "host key verification error",
			Hint:  "omit -k to skip strict host key verification, or add the host to ~/.ssh/known_hosts first",
		}, true
	case core.KindNetwork:
		return Classification{
			Title: "connection error",
			Hint:  "check the server address/port, or test with: ssh user@host",
		}, true
	case core.KindFileNotFound:
		return Classification{
			Title: "file/path error",
			Hint:  "check that the source path exists and the destination directory is reachable",
		}, true
	case core.KindPermission:
		return Classification{
			Title: "authentication error",
			Hint:  "check the username, password, or key permissions; omit -k to skip host key verification",
		}, true
	case core.KindTransfer:
		return Classification{
			Title: "transfer error",
			Hint:  "retry with more attempts (-r), or check remote disk space",
		}, true
	case core.KindHashMismatch:
		return Classification{
			Title: "verification error",
			Hint:  "the source may have changed mid-transfer; re-run, or pass -n to skip verification",
		}, true
	case core.KindRemoteTool:
		return Classification{
			Title: "verification error",
			Hint:  "the remote host has no sha256sum/shasum/python available; pass -n to skip verification",
		}, true
	case core.KindCompression:
		return Classification{
			Title: "compression error",
			Hint:  "drop -c, or lower the zstd level with -z",
		}, true
	case core.KindInterrupted:
		return Classification{
			Title: "interrupted",
			Hint:  "re-run the same command; transfers resume from their .part files",
		}, true
	default:
		return Classification{}, false
	}
}

func classifyMessage(msg string) Classification {
	switch {
	case containsAny(msg, "connection", "network", "timeout", "unreachable", "no route to host"):
		return Classification{
			Title: "connection error",
			Hint:  "check the server address/port, or test with: ssh user@host",
		}
	case containsAny(msg, "authentication", "permission_denied", "permission denied", "access denied", "login", "password"):
		return Classification{
			Title: "authentication error",
			Hint:  "check the username, password, or key permissions; omit -k to skip host key verification",
		}
	case containsAny(msg, "no such file", "file_not_found", "file not found", "directory"):
		return Classification{
			Title: "file/path error",
			Hint:  "check that the source path exists and the destination directory is reachable",
		}
	case containsAny(msg, "hash_mismatch", "hash mismatch"):
		return Classification{
			Title: "verification error",
			Hint:  "the source may have changed mid-transfer; re-run, or pass -n to skip verification",
		}
	case containsAny(msg, "sftp", "transfer", "upload", "download"):
		return Classification{
			Title: "transfer error",
			Hint:  "retry with more attempts (-r), or check remote disk space",
		}
	case containsAny(msg, "host_key", "host key"):
		return Classification{
			Title: "host key verification error",
			Hint:  "omit -k to skip strict host key verification, or add the host to ~/.ssh/known_hosts first",
		}
	case containsAny(msg, "compression", "zstd"):
		return Classification{
			Title: "compression error",
			Hint:  "drop -c, or lower the zstd level with -z",
		}
	default:
		return Classification{
			Title: "operation failed",
			Hint:  "run with -h for usage, or verify the connection with: ssh user@host",
		}
	}
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

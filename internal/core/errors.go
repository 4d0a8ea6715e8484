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

// Package core defines the shared error taxonomy used across vaayu.
package core

import "github.com/pkg/errors"

// Kind is one of the error taxonomy buckets from the transfer engine spec.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindAuth
	KindHostKey
	KindNetwork
	KindFileNotFound
	KindPermission
	KindTransfer
	KindHashMismatch
	KindRemoteTool
	KindCompression
	KindInterrupted
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAuth:
		return "auth"
	case KindHostKey:
		return "host_key"
	case KindNetwork:
		return "network"
	case KindFileNotFound:
		return "file_not_found"
	case KindPermission:
		return "permission"
	case KindTransfer:
		return "transfer"
	case KindHashMismatch:
		return "hash_mismatch"
	case KindRemoteTool:
		return "remote_tool"
	case KindCompression:
		return "compression"
	case KindInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per taxonomy kind. Call sites wrap these with
// errors.Wrap so errors.Cause can recover the kind later.
var (
	ErrConfig       = errors.New("config")
	ErrAuth         = errors.New("authentication_failed")
	ErrHostKey      = errors.New("host_key_mismatch")
	ErrNetwork      = errors.New("network_unreachable")
	ErrFileNotFound = errors.New("file_not_found")
	ErrPermission   = errors.New("permission_denied")
	ErrTransfer     = errors.New("transfer_failed")
	ErrHashMismatch = errors.New("hash_mismatch")
	ErrRemoteTool   = errors.New("no_hashing_tool_available")
	ErrCompression  = errors.New("compression_failed")
	ErrInterrupted  = errors.New("interrupted")
)

var kindsBySentinel = map[error]Kind{
	ErrConfig:       KindConfig,
	ErrAuth:         KindAuth,
	ErrHostKey:      KindHostKey,
	ErrNetwork:      KindNetwork,
	ErrFileNotFound: KindFileNotFound,
	ErrPermission:   KindPermission,
	ErrTransfer:     KindTransfer,
	ErrHashMismatch: KindHashMismatch,
	ErrRemoteTool:   KindRemoteTool,
	ErrCompression:  KindCompression,
	ErrInterrupted:  KindInterrupted,
}

// KindOf recovers the taxonomy kind from an error produced anywhere in
// vaayu, unwrapping errors.Wrap chains via errors.Cause.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	cause := errors.Cause(err)
	if k, ok := kindsBySentinel[cause]; ok {
		return k
	}
	return KindUnknown
}

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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSSHTargetWithUser(t *testing.T) {
	user, host := ParseSSHTarget("alice@host")
	assert.Equal(t, "alice", user)
	assert.Equal(t, "host", host)
}

func TestParseSSHTargetBareHost(t *testing.T) {
	user, host := ParseSSHTarget("host")
	assert.Equal(t, "", user)
	assert.Equal(t, "host", host)
}

func TestParseSSHTargetHostWithDomainAndNoUser(t *testing.T) {
	user, host := ParseSSHTarget("files.example.com")
	assert.Equal(t, "", user)
	assert.Equal(t, "files.example.com", host)
}

func TestParseSSHTargetKeepsEverythingAfterFirstAt(t *testing.T) {
	user, host := ParseSSHTarget("bob@host@with@ats")
	assert.Equal(t, "bob", user)
	assert.Equal(t, "host@with@ats", host)
}

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

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsOnFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 5, time.Millisecond, func(attempt int) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 5, time.Millisecond, func(attempt int) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsRetriesAndReturnsLastError(t *testing.T) {
	calls := 0
	sentinel := errors.New("permanent")
	err := Do(context.Background(), 2, time.Millisecond, func(attempt int) error {
		calls++
		return sentinel
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls) // initial attempt + 2 retries
}

func TestCappedBackOffSchedule(t *testing.T) {
	base := 100 * time.Millisecond
	c := &capped{baseDelay: base}

	assert.Equal(t, base, c.NextBackOff())       // attempt 1: base*2^0
	assert.Equal(t, 2*base, c.NextBackOff())      // attempt 2: base*2^1
	assert.Equal(t, 4*base, c.NextBackOff())      // attempt 3: base*2^2
	assert.Equal(t, MaxDelay, (&capped{baseDelay: MaxDelay * 10}).NextBackOff())
}

func TestCappedBackOffCapsAtMaxDelay(t *testing.T) {
	c := &capped{baseDelay: time.Second}
	var last time.Duration
	for i := 0; i < 10; i++ {
		last = c.NextBackOff()
	}
	assert.Equal(t, MaxDelay, last)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, 5, time.Millisecond, func(attempt int) error {
		calls++
		return errors.New("would retry forever")
	})
	require.Error(t, err)
	assert.LessOrEqual(t, calls, 1)
}

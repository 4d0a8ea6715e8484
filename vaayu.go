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

// Package vaayu is the library facade over the transfer engine: construct
// a Client, add one or more Sessions, and call Send/Get/Relay.
package vaayu

import (
	"context"

	"github.com/vaayu/vaayu/internal/engine"
	"github.com/vaayu/vaayu/internal/session"
	"github.com/vaayu/vaayu/internal/stats"
)

// Session wraps a single SSH+SFTP connection.
type Session struct {
	inner *session.Session
}

// NewSession prepares a session (it doesn't connect yet).
func NewSession(host string, port int, username, password string) *Session {
	return &Session{inner: session.New(session.NewConfig(host, port, username, password))}
}

// NewSessionWithConfig prepares a session from a fully populated Config
// (key-based auth, strict host key checking, custom ciphers).
func NewSessionWithConfig(cfg session.Config) *Session {
	return &Session{inner: session.New(cfg)}
}

// Connect opens the SSH tunnel and SFTP subsystem.
func (s *Session) Connect(ctx context.Context) error {
	return s.inner.Connect(ctx)
}

// Close releases the connection.
func (s *Session) Close() {
	s.inner.Close()
}

// Client is the main library entry point: an Engine plus an optional
// progress sink.
type Client struct {
	eng  *engine.Engine
	Sink stats.ProgressSink
}

// NewClient creates a Client with no progress sink.
func NewClient() *Client {
	return &Client{eng: engine.New()}
}

// WithSink attaches a progress sink (e.g. internal/progress.MpbSink) and
// returns the Client for chaining.
func (c *Client) WithSink(sink stats.ProgressSink) *Client {
	c.Sink = sink
	c.eng.Sink = sink
	return c
}

// Send uploads localPaths to remoteDir over sess.
func (c *Client) Send(ctx context.Context, sess *Session, localPaths []string, remoteDir string, opts engine.TransferOptions) (stats.Stats, error) {
	return c.eng.Send(ctx, sess.inner, localPaths, remoteDir, opts)
}

// Get downloads remotePaths to localDir over sess.
func (c *Client) Get(ctx context.Context, sess *Session, remotePaths []string, localDir string, opts engine.TransferOptions) (stats.Stats, error) {
	return c.eng.Get(ctx, sess.inner, remotePaths, localDir, opts)
}

// Relay streams files from srcSess directly to dstSess, paired index-wise
// between srcPaths and dstPaths.
func (c *Client) Relay(ctx context.Context, srcSess, dstSess *Session, srcPaths, dstPaths []string, opts engine.TransferOptions) (stats.Stats, error) {
	return c.eng.Relay(ctx, srcSess.inner, dstSess.inner, srcPaths, dstPaths, opts)
}

// DefaultOptions returns the library's default TransferOptions.
func DefaultOptions() engine.TransferOptions {
	return engine.DefaultTransferOptions()
}

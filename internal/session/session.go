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

// Package session owns a single authenticated SSH connection and its one
// SFTP channel.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/vaayu/vaayu/internal/core"
)

// Config is the immutable-after-construction connection configuration for
// a Session.
type Config struct {
	Host          string
	Port          int
	Username      string
	Password      string
	KeyPath       string
	KnownHosts    string
	StrictHostKey bool
	Ciphers       []string
}

// DefaultCiphers is the negotiated cipher allow-list.
var DefaultCiphers = []string{
	"chacha20-poly1305@openssh.com",
	"aes256-gcm@openssh.com",
}

// NewConfig builds a Config with defaults applied (port 22 when port is 0,
// the default cipher list).
func NewConfig(host string, port int, username, password string) Config {
	if port == 0 {
		port = 22
	}
	return Config{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		Ciphers:  DefaultCiphers,
	}
}

type state int

const (
	stateFresh state = iota
	stateConnected
	stateClosed
)

// RemoteFile is the handle returned by OpenRemote: a seekable
// read/write/close stream over one SFTP file.
type RemoteFile interface {
	io.Reader
	io.Writer
	io.Closer
	Seek(offset int64, whence int) (int64, error)
}

// FileOps is the operation surface the transfer engine needs from a
// session. Session implements it against a real *sftp.Client; tests supply
// fakes.
type FileOps interface {
	EnsureConnected(ctx context.Context) error
	Stat(ctx context.Context, path string) (os.FileInfo, error)
	Makedirs(ctx context.Context, path string) error
	OpenRemote(ctx context.Context, path, mode string) (RemoteFile, error)
	Rename(ctx context.Context, src, dst string) error
	Remove(ctx context.Context, path string)
	ReadDir(ctx context.Context, path string) ([]os.FileInfo, error)
	RunCommand(ctx context.Context, cmd string) (stdout string, exitStatus int, err error)
}

// Session is a single SSH connection plus its SFTP channel. States:
// Fresh -> Connected -> Closed. Closed is terminal.
type Session struct {
	cfg Config

	mu    sync.Mutex
	state state

	sshClient  *ssh.Client
	sftpClient *sftp.Client
}

var _ FileOps = (*Session)(nil)

// New prepares a session; it does not connect yet.
func New(cfg Config) *Session {
	if len(cfg.Ciphers) == 0 {
		cfg.Ciphers = DefaultCiphers
	}
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	return &Session{cfg: cfg}
}

// Connect opens the SSH tunnel and the SFTP subsystem unconditionally.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked(ctx)
}

func (s *Session) connectLocked(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	logrus.WithFields(logrus.Fields{"addr": address, "user": s.cfg.Username}).
		Debug("session: initiating ssh handshake")

	auth, err := s.authMethods()
	if err != nil {
		return errors.Wrap(core.ErrConfig, err.Error())
	}

	hostKeyCallback, err := s.hostKeyCallback()
	if err != nil {
		return errors.Wrap(core.ErrHostKey, err.Error())
	}

	clientCfg := &ssh.ClientConfig{
		User:            s.cfg.Username,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         10 * time.Second,
		Config: ssh.Config{
			Ciphers: s.cfg.Ciphers,
		},
	}

	d := net.Dialer{Timeout: clientCfg.Timeout}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return errors.Wrap(core.ErrNetwork, err.Error())
	}
	c, chans, reqs, err := ssh.NewClientConn(conn, address, clientCfg)
	if err != nil {
		conn.Close()
		return errors.Wrap(core.ErrAuth, err.Error())
	}
	client := ssh.NewClient(c, chans, reqs)

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return errors.Wrap(core.ErrNetwork, "sftp subsystem: "+err.Error())
	}

	s.sshClient = client
	s.sftpClient = sftpClient
	s.state = stateConnected
	logrus.WithField("addr", address).Debug("session: sftp subsystem active")
	return nil
}

func (s *Session) authMethods() ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if s.cfg.KeyPath != "" {
		key, err := os.ReadFile(s.cfg.KeyPath)
		if err != nil {
			return nil, err
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, err
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if s.cfg.Password != "" {
		methods = append(methods, ssh.Password(s.cfg.Password))
	}
	if len(methods) == 0 {
		return nil, errors.New("no authentication method configured (need key_path or password)")
	}
	return methods, nil
}

func (s *Session) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if !s.cfg.StrictHostKey {
		return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
			h := sha256.Sum256(key.Marshal())
			logrus.WithField("fingerprint", base64.StdEncoding.EncodeToString(h[:])).
				Debug("session: server host key (unverified)")
			return nil
		}, nil
	}
	known := s.cfg.KnownHosts
	if known == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		known = home + "/.ssh/known_hosts"
	}
	return knownhosts.New(known)
}

// EnsureConnected is a no-op if already connected.
func (s *Session) EnsureConnected(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateConnected {
		return nil
	}
	if s.state == stateClosed {
		return errors.Wrap(core.ErrConfig, "session is closed")
	}
	return s.connectLocked(ctx)
}

// Close releases the SFTP channel then the connection, swallowing
// wait-close errors. Closed is terminal.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sftpClient != nil {
		_ = s.sftpClient.Close()
		s.sftpClient = nil
	}
	if s.sshClient != nil {
		_ = s.sshClient.Close()
		s.sshClient = nil
	}
	s.state = stateClosed
}

// Stat returns nil, nil if the path does not exist.
func (s *Session) Stat(ctx context.Context, p string) (os.FileInfo, error) {
	info, err := s.sftpClient.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(core.ErrTransfer, err.Error())
	}
	return info, nil
}

// Makedirs creates the full ancestor chain under POSIX semantics.
// Existing components are not an error.
func (s *Session) Makedirs(ctx context.Context, p string) error {
	norm := strings.Trim(strings.ReplaceAll(p, "\\", "/"), "/")
	if norm == "" {
		return nil
	}
	cur := ""
	for _, comp := range strings.Split(norm, "/") {
		if comp == "" {
			continue
		}
		cur += "/" + comp
		if err := s.sftpClient.Mkdir(cur); err != nil {
			// Many servers return an error for an already-existing
			// directory; only surface genuine failures, re-checking
			// existence first.
			if info, statErr := s.sftpClient.Stat(cur); statErr == nil && info.IsDir() {
				continue
			}
			return errors.Wrap(core.ErrTransfer, err.Error())
		}
	}
	return nil
}

type sftpRemoteFile struct {
	*sftp.File
}

// OpenRemote opens path with one of the modes "rb", "wb", "r+b", "ab".
func (s *Session) OpenRemote(ctx context.Context, p, mode string) (RemoteFile, error) {
	var flags int
	switch mode {
	case "rb":
		flags = os.O_RDONLY
	case "wb":
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "r+b":
		flags = os.O_RDWR
	case "ab":
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return nil, errors.Wrapf(core.ErrConfig, "unsupported open mode %q", mode)
	}
	f, err := s.sftpClient.OpenFile(p, flags)
	if err != nil {
		return nil, errors.Wrap(core.ErrTransfer, err.Error())
	}
	return &sftpRemoteFile{f}, nil
}

// Rename performs an atomic rename on the remote filesystem.
func (s *Session) Rename(ctx context.Context, src, dst string) error {
	if err := s.sftpClient.Rename(src, dst); err != nil {
		// pkg/sftp's Rename fails if dst exists on servers without the
		// posix-rename extension; fall back to remove-then-rename.
		_ = s.sftpClient.Remove(dst)
		if err2 := s.sftpClient.Rename(src, dst); err2 != nil {
			return errors.Wrap(core.ErrTransfer, err2.Error())
		}
	}
	return nil
}

// Remove is best-effort: failures to unlink a stale path never propagate.
func (s *Session) Remove(ctx context.Context, p string) {
	if err := s.sftpClient.Remove(p); err != nil {
		logrus.WithError(err).WithField("path", p).Debug("session: best-effort remove failed")
	}
}

// ReadDir lists the entries of path.
func (s *Session) ReadDir(ctx context.Context, p string) ([]os.FileInfo, error) {
	entries, err := s.sftpClient.ReadDir(p)
	if err != nil {
		return nil, errors.Wrap(core.ErrTransfer, err.Error())
	}
	return entries, nil
}

// RunCommand executes cmd on the remote exec channel and returns stdout,
// the exit status, and a non-nil error only for transport-level failures
// (a clean non-zero exit is reported via exitStatus, not err).
func (s *Session) RunCommand(ctx context.Context, cmd string) (string, int, error) {
	sess, err := s.sshClient.NewSession()
	if err != nil {
		return "", -1, errors.Wrap(core.ErrTransfer, err.Error())
	}
	defer sess.Close()

	out, err := sess.Output(cmd)
	if err != nil {
		if exitErr, ok := err.(*ssh.ExitError); ok {
			return string(out), exitErr.ExitStatus(), nil
		}
		return "", -1, errors.Wrap(core.ErrTransfer, err.Error())
	}
	return string(out), 0, nil
}


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

// Command vaayu is the CLI front end over the vaayu library: send, get,
// and relay subcommands over the Transfer Engine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vaayu/vaayu/internal/classify"
	"github.com/vaayu/vaayu/internal/clouduri"
	"github.com/vaayu/vaayu/internal/core"
	"github.com/vaayu/vaayu/internal/engine"
	"github.com/vaayu/vaayu/internal/progress"
	"github.com/vaayu/vaayu/internal/session"
	"github.com/vaayu/vaayu/internal/stats"
	"github.com/vaayu/vaayu/internal/watch"
)

// rejectCloudURIs returns a config error naming the first path that looks
// like a cloud storage URI (s3://, gcs://, ftp://) rather than a local or
// remote SFTP path, since vaayu only ever speaks SFTP.
func rejectCloudURIs(paths ...string) error {
	for _, p := range paths {
		if clouduri.IsCloudURI(p) {
			scheme := clouduri.DetectScheme(p)
			return errors.Wrap(core.ErrConfig, clouduri.NotImplementedHint(scheme))
		}
	}
	return nil
}

// connectionFlags are shared across send/get/relay.
type connectionFlags struct {
	username      string
	port          int
	password      string
	identity      string
	verifyHostKey bool
}

func (f *connectionFlags) addTo(flags *pflag.FlagSet) {
	flags.StringVarP(&f.username, "username", "u", "", "SSH username (overridden by user@host targets)")
	flags.IntVarP(&f.port, "port", "p", 22, "SSH port")
	flags.StringVarP(&f.password, "password", "P", "", "SSH password")
	flags.StringVarP(&f.identity, "identity", "i", "", "path to a private key")
	flags.BoolVarP(&f.verifyHostKey, "verify-host-key", "k", false, "verify the remote host key against ~/.ssh/known_hosts")
}

func (f *connectionFlags) newSession(target string) *session.Session {
	user, host := ParseSSHTarget(target)
	if user == "" {
		user = f.username
	}
	cfg := session.NewConfig(host, f.port, user, f.password)
	cfg.KeyPath = f.identity
	cfg.StrictHostKey = f.verifyHostKey
	return session.New(cfg)
}

// transferFlags are shared across send/get/relay.
type transferFlags struct {
	parallel   int
	retries    int
	backoff    float64
	noVerify   bool
	compress   bool
	zstdLevel  int
	watch      bool
}

func (f *transferFlags) addTo(flags *pflag.FlagSet, includeWatch bool) {
	flags.IntVarP(&f.parallel, "parallel", "j", 0, "max concurrent transfers (default: clamp(2, cpu*2, 32))")
	flags.IntVarP(&f.retries, "retries", "r", 5, "retry attempts per file")
	flags.Float64VarP(&f.backoff, "backoff", "b", 0.5, "base retry backoff, seconds")
	flags.BoolVarP(&f.noVerify, "no-verify", "n", false, "skip SHA-256 verification")
	flags.BoolVarP(&f.compress, "compress", "c", false, "enable zstd compression (reserved, not yet wired into transfer)")
	flags.IntVarP(&f.zstdLevel, "zstd-level", "z", 3, "zstd compression level, 1-22")
	if includeWatch {
		flags.BoolVarP(&f.watch, "watch", "W", false, "re-send on every local filesystem change")
	}
}

func (f *transferFlags) options() engine.TransferOptions {
	opts := engine.DefaultTransferOptions()
	opts.Parallel = f.parallel
	opts.Retries = f.retries
	opts.Backoff = time.Duration(f.backoff * float64(time.Second))
	opts.Verify = !f.noVerify
	opts.Compress = f.compress
	opts.ZstdLevel = f.zstdLevel
	return opts
}

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vaayu",
		Short:         "parallel, resumable, integrity-verified SFTP transfer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newSendCommand(), newGetCommand(), newRelayCommand())
	return cmd
}

func newSendCommand() *cobra.Command {
	var conn connectionFlags
	var tf transferFlags

	cmd := &cobra.Command{
		Use:   "send <user@host> <remote_dir> <local_paths...>",
		Short: "upload local files/directories to a remote host",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, remoteDir, localPaths := args[0], args[1], args[2:]
			if err := rejectCloudURIs(append([]string{remoteDir}, localPaths...)...); err != nil {
				return reportResult(stats.Stats{}, err)
			}
			sess := conn.newSession(target)
			defer sess.Close()

			ctx, stop := installSignalHandler()
			defer stop()

			sink := progress.NewMpbSink()
			eng := engine.New()
			eng.Sink = sink

			run := func() (stats.Stats, error) {
				result, err := eng.Send(ctx, sess, localPaths, remoteDir, tf.options())
				sink.Wait()
				return result, err
			}

			if !tf.watch {
				result, err := run()
				return reportResult(result, err)
			}
			return runWatchLoop(ctx, localPaths, run)
		},
	}
	conn.addTo(cmd.Flags())
	tf.addTo(cmd.Flags(), true)
	return cmd
}

func newGetCommand() *cobra.Command {
	var conn connectionFlags
	var tf transferFlags

	cmd := &cobra.Command{
		Use:   "get <user@host> <local_dir> <remote_paths...>",
		Short: "download remote files/directories to a local directory",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, localDir, remotePaths := args[0], args[1], args[2:]
			if err := rejectCloudURIs(append([]string{localDir}, remotePaths...)...); err != nil {
				return reportResult(stats.Stats{}, err)
			}
			sess := conn.newSession(target)
			defer sess.Close()

			ctx, stop := installSignalHandler()
			defer stop()

			sink := progress.NewMpbSink()
			eng := engine.New()
			eng.Sink = sink

			result, err := eng.Get(ctx, sess, remotePaths, localDir, tf.options())
			sink.Wait()
			return reportResult(result, err)
		},
	}
	conn.addTo(cmd.Flags())
	tf.addTo(cmd.Flags(), false)
	return cmd
}

func newRelayCommand() *cobra.Command {
	var srcConn, dstConn connectionFlags
	var tf transferFlags

	cmd := &cobra.Command{
		Use:   "relay <src_user@host> <dst_user@host> <src_paths...> -- <dst_paths...>",
		Short: "stream files directly between two remote hosts",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcTarget, dstTarget := args[0], args[1]
			rest := args[2:]
			if len(rest)%2 != 0 {
				return errors.Wrap(core.ErrConfig, "relay requires an equal number of source and destination paths")
			}
			half := len(rest) / 2
			srcPaths, dstPaths := rest[:half], rest[half:]
			if err := rejectCloudURIs(rest...); err != nil {
				return reportResult(stats.Stats{}, err)
			}

			srcSess := srcConn.newSession(srcTarget)
			defer srcSess.Close()
			dstSess := dstConn.newSession(dstTarget)
			defer dstSess.Close()

			ctx, stop := installSignalHandler()
			defer stop()

			sink := progress.NewMpbSink()
			eng := engine.New()
			eng.Sink = sink

			result, err := eng.Relay(ctx, srcSess, dstSess, srcPaths, dstPaths, tf.options())
			sink.Wait()
			return reportResult(result, err)
		},
	}
	srcConn.addTo(cmd.Flags())
	dstPrefixFlags(&dstConn, cmd.Flags())
	tf.addTo(cmd.Flags(), false)
	return cmd
}

// dstPrefixFlags registers the destination endpoint's connection flags
// under a "dst-" prefix so relay's two sessions don't collide on shorthand.
func dstPrefixFlags(f *connectionFlags, flags *pflag.FlagSet) {
	flags.StringVar(&f.username, "dst-username", "", "destination SSH username")
	flags.IntVar(&f.port, "dst-port", 22, "destination SSH port")
	flags.StringVar(&f.password, "dst-password", "", "destination SSH password")
	flags.StringVar(&f.identity, "dst-identity", "", "destination private key path")
	flags.BoolVar(&f.verifyHostKey, "dst-verify-host-key", false, "verify destination host key")
}

func runWatchLoop(ctx context.Context, roots []string, run func() (stats.Stats, error)) error {
	result, err := run()
	if reportErr := reportResult(result, err); reportErr != nil {
		return reportErr
	}
	w := watch.New(2*time.Second, func(paths []string) {
		logrus.WithField("count", len(paths)).Info("vaayu: change batch detected, re-sending")
		result, err := run()
		if err != nil {
			logrus.WithError(err).Warn("vaayu: watch re-send failed")
			return
		}
		logrus.WithField("bytes", progress.FormatBytes(result.Bytes)).WithField("files", result.Files).Info("vaayu: watch re-send done")
	})
	return w.Run(ctx, roots)
}

func installSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func reportResult(result stats.Stats, err error) error {
	if err == nil {
		fmt.Fprintf(os.Stderr, "vaayu: done (%s, %d file(s), %d retr(y/ies))\n", progress.FormatBytes(result.Bytes), result.Files, result.Retries)
		return nil
	}
	if errors.Cause(err) == context.Canceled || core.KindOf(err) == core.KindInterrupted {
		fmt.Fprintln(os.Stderr, "vaayu: interrupted")
		return exitError{code: 130, err: err}
	}
	c := classify.Classify(err)
	if c.Title != "" {
		fmt.Fprintf(os.Stderr, "vaayu: %s: %v\n  hint: %s\n", c.Title, err, c.Hint)
	} else {
		fmt.Fprintf(os.Stderr, "vaayu: %v\n", err)
	}
	return exitError{code: 1, err: err}
}

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }

func exitCodeFor(err error) int {
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

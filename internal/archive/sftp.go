// Package archive uploads the combined audit file of a run to an SFTP drop.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const (
	defaultPort = 22
	dialTimeout = 20 * time.Second
	stampLayout = "20060102-150405"
)

var ErrNotConfigured = errors.New("sftp archive is not configured")

// Config describes the SFTP drop. Password authentication only.
type Config struct {
	Host                  string
	Port                  int
	User                  string
	Password              string
	RemoteDir             string
	KnownHosts            string
	InsecureIgnoreHostKey bool
}

// UploaderIface stores a local file remotely and returns the remote path.
type UploaderIface interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

type Uploader struct {
	cfg Config
	now func() time.Time
}

func NewUploader(cfg Config) *Uploader {
	if cfg.Port <= 0 {
		cfg.Port = defaultPort
	}
	if cfg.RemoteDir == "" {
		cfg.RemoteDir = "/"
	}

	return &Uploader{cfg: cfg, now: time.Now}
}

// RemoteName stamps the base name of localPath with the upload time,
// e.g. hardwareOutput.csv becomes hardwareOutput_20250102-150405.csv.
func RemoteName(localPath string, at time.Time) string {
	base := filepath.Base(localPath)
	ext := filepath.Ext(base)

	return strings.TrimSuffix(base, ext) + "_" + at.Format(stampLayout) + ext
}

func (u *Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	if u.cfg.Host == "" || u.cfg.User == "" {
		return "", ErrNotConfigured
	}

	hostKeyCallback, err := u.hostKeyCallback()
	if err != nil {
		return "", err
	}

	sshCfg := &ssh.ClientConfig{
		User:            u.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(u.cfg.Password)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         dialTimeout,
	}

	sshClient, err := dial(ctx, net.JoinHostPort(u.cfg.Host, strconv.Itoa(u.cfg.Port)), sshCfg)
	if err != nil {
		return "", err
	}
	defer sshClient.Close()

	sftpCli, err := sftp.NewClient(sshClient)
	if err != nil {
		return "", fmt.Errorf("sftp: new client: %w", err)
	}
	defer sftpCli.Close()

	if err = sftpCli.MkdirAll(u.cfg.RemoteDir); err != nil {
		return "", fmt.Errorf("sftp: mkdir %s: %w", u.cfg.RemoteDir, err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("sftp: open local file: %w", err)
	}
	defer src.Close()

	remotePath := path.Join(u.cfg.RemoteDir, RemoteName(localPath, u.now()))
	dst, err := sftpCli.Create(remotePath)
	if err != nil {
		return "", fmt.Errorf("sftp: create remote file: %w", err)
	}

	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("sftp: upload copy: %w", err)
	}
	if err = dst.Close(); err != nil {
		return "", fmt.Errorf("sftp: close remote file: %w", err)
	}

	return remotePath, nil
}

func (u *Uploader) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if u.cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // explicitly requested in config
	}

	knownHostsPath := u.cfg.KnownHosts
	if knownHostsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("sftp: locate known_hosts: %w", err)
		}
		knownHostsPath = filepath.Join(home, ".ssh", "known_hosts")
	}

	callback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("sftp: load known_hosts: %w", err)
	}

	return callback, nil
}

// dial honours ctx while ssh.Dial itself only knows about its timeout.
func dial(ctx context.Context, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error) {
	type dialRes struct {
		client *ssh.Client
		err    error
	}
	ch := make(chan dialRes, 1)
	go func() {
		c, err := ssh.Dial("tcp", addr, cfg)
		ch <- dialRes{client: c, err: err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.client != nil {
				_ = r.client.Close()
			}
		}()
		return nil, fmt.Errorf("sftp: dial canceled: %w", ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("sftp: dial error: %w", r.err)
		}
		return r.client, nil
	}
}

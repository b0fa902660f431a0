// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package filestore implements the certificate store on top of a directory tree.
//
// Layout under the store root:
//
//	issuer              issuer name
//	private/<issuer>    issuer private key (0600, directory 0700)
//	public/<issuer>     issuer self-signed certificate (0644)
//	public/<subject>    issued certificates (0644)
//	csr/<subject>       pending certificate requests (0644)
package filestore

import (
	"context"
	"crypto/x509"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/absmach/deed"
	"github.com/absmach/deed/pkg/errors"
	"github.com/absmach/deed/pki"
	"github.com/spf13/afero"
)

const (
	issuerFile = "issuer"
	privateDir = "private"
	publicDir  = "public"
	csrDir     = "csr"

	privateDirMode os.FileMode = 0o700
	privateMode    os.FileMode = 0o600
	publicDirMode  os.FileMode = 0o755
	publicMode     os.FileMode = 0o644

	tempPrefix = ".tmp-"
)

var _ deed.Authority = (*Store)(nil)

// Store is a filesystem backed certificate authority.
type Store struct {
	fs     afero.Fs
	root   string
	issuer pki.Issuer
	name   string
	logger *slog.Logger
}

// New initializes a store for issuer under root. It generates the issuer key
// and self-signed certificate and persists both. A root that already holds
// an issuer is never overwritten.
func New(fs afero.Fs, root, issuer string, logger *slog.Logger) (*Store, error) {
	if err := deed.ValidateSubject(issuer); err != nil {
		return nil, err
	}

	exists, err := afero.Exists(fs, filepath.Join(root, issuerFile))
	if err != nil {
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}
	if exists {
		return nil, deed.ErrIssuerExists
	}

	if err := createLayout(fs, root); err != nil {
		return nil, err
	}

	key, err := pki.GenerateKey()
	if err != nil {
		return nil, errors.Wrap(deed.ErrCreateEntity, err)
	}
	cert, err := pki.GenerateSelfSignedCertificate(key, issuer)
	if err != nil {
		return nil, errors.Wrap(deed.ErrCreateEntity, err)
	}

	s := &Store{
		fs:     fs,
		root:   root,
		issuer: pki.Issuer{Certificate: cert, Key: key},
		name:   issuer,
		logger: logger,
	}

	if err := s.writeFile(filepath.Join(root, privateDir, issuer), pki.EncodeKey(key), privateMode); err != nil {
		return nil, err
	}
	if err := s.writeFile(filepath.Join(root, publicDir, issuer), pki.EncodeCertificate(cert), publicMode); err != nil {
		return nil, err
	}
	// The marker goes last so a partially initialized root is not loadable.
	if err := s.writeFile(filepath.Join(root, issuerFile), []byte(issuer), publicMode); err != nil {
		return nil, err
	}

	logger.Info("initialized certificate store",
		slog.String("path", root),
		slog.String("issuer", issuer),
		slog.String("fingerprint", pki.Fingerprint(cert)),
	)

	return s, nil
}

// FromPath loads the store persisted under root.
func FromPath(fs afero.Fs, root string, logger *slog.Logger) (*Store, error) {
	data, err := afero.ReadFile(fs, filepath.Join(root, issuerFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, deed.ErrNoIssuer
		}
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}

	name := string(data)
	if err := deed.ValidateSubject(name); err != nil {
		return nil, errors.Wrap(deed.ErrNoIssuer, err)
	}

	keyPEM, err := afero.ReadFile(fs, filepath.Join(root, privateDir, name))
	if err != nil {
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}
	key, err := pki.DecodeKey(keyPEM)
	if err != nil {
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}

	certPEM, err := afero.ReadFile(fs, filepath.Join(root, publicDir, name))
	if err != nil {
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}
	cert, err := pki.DecodeCertificate(certPEM)
	if err != nil {
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}

	return &Store{
		fs:     fs,
		root:   root,
		issuer: pki.Issuer{Certificate: cert, Key: key},
		name:   name,
		logger: logger,
	}, nil
}

// Issuer returns the self-signed issuer certificate.
func (s *Store) Issuer() *x509.Certificate {
	return s.issuer.Certificate
}

// IssuerName returns the subject name of the issuer.
func (s *Store) IssuerName() string {
	return s.name
}

func (s *Store) SubmitCertificateRequest(ctx context.Context, csr *x509.CertificateRequest) error {
	if csr == nil {
		return deed.ErrBadCertificateRequest
	}
	subject := csr.Subject.CommonName
	if err := deed.ValidateSubject(subject); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.writeFile(filepath.Join(s.root, csrDir, subject), pki.EncodeRequest(csr), publicMode); err != nil {
		return err
	}

	s.logger.Info("received certificate request", slog.String("subject", subject))

	return nil
}

func (s *Store) GetCertificate(ctx context.Context, subject string) (*x509.Certificate, error) {
	if err := deed.ValidateSubject(subject); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, filepath.Join(s.root, publicDir, subject))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, deed.ErrCertificateNotFound
		}
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}

	cert, err := pki.DecodeCertificate(data)
	if err != nil {
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}

	s.logger.Info("retrieved certificate", slog.String("subject", subject))

	return cert, nil
}

func (s *Store) SignRequest(ctx context.Context, subject string) (*x509.Certificate, error) {
	if err := deed.ValidateSubject(subject); err != nil {
		return nil, err
	}
	// public/<issuer> holds the self-signed root.
	if subject == s.name {
		return nil, deed.ErrIssuerExists
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, filepath.Join(s.root, csrDir, subject))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, deed.ErrNoPendingRequest
		}
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}

	csr, err := pki.DecodeRequest(data)
	if err != nil {
		return nil, err
	}

	cert, err := pki.SignCertificateRequest(csr, s.issuer, pki.SerialNumber(subject), s.logger)
	if err != nil {
		return nil, err
	}

	if err := s.writeFile(filepath.Join(s.root, publicDir, subject), pki.EncodeCertificate(cert), publicMode); err != nil {
		return nil, err
	}

	return cert, nil
}

// ListRequests returns the sorted subjects with a pending request.
func (s *Store) ListRequests(ctx context.Context) ([]string, error) {
	return s.list(ctx, csrDir, "")
}

// ListCertificates returns the sorted subjects with an issued certificate,
// excluding the issuer itself.
func (s *Store) ListCertificates(ctx context.Context) ([]string, error) {
	return s.list(ctx, publicDir, s.name)
}

func (s *Store) list(ctx context.Context, dir, exclude string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := afero.ReadDir(s.fs, filepath.Join(s.root, dir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}

	names := []string{}
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || name == exclude || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// writeFile replaces path atomically: data goes to a hidden temporary file in
// the same directory which is then renamed over path. Concurrent writers of
// the same path leave exactly one complete version behind.
func (s *Store) writeFile(path string, data []byte, mode os.FileMode) error {
	f, err := afero.TempFile(s.fs, filepath.Dir(path), tempPrefix+filepath.Base(path)+"-")
	if err != nil {
		return errors.Wrap(deed.ErrCreateEntity, err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		s.fs.Remove(tmp)
		return errors.Wrap(deed.ErrCreateEntity, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		s.fs.Remove(tmp)
		return errors.Wrap(deed.ErrCreateEntity, err)
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(tmp)
		return errors.Wrap(deed.ErrCreateEntity, err)
	}
	if err := s.fs.Chmod(tmp, mode); err != nil {
		s.fs.Remove(tmp)
		return errors.Wrap(deed.ErrCreateEntity, err)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		s.fs.Remove(tmp)
		return errors.Wrap(deed.ErrCreateEntity, err)
	}

	return nil
}

func createLayout(fs afero.Fs, root string) error {
	dirs := []struct {
		path string
		mode os.FileMode
	}{
		{path: root, mode: publicDirMode},
		{path: filepath.Join(root, privateDir), mode: privateDirMode},
		{path: filepath.Join(root, publicDir), mode: publicDirMode},
		{path: filepath.Join(root, csrDir), mode: publicDirMode},
	}

	for _, dir := range dirs {
		if err := fs.MkdirAll(dir.path, dir.mode); err != nil {
			return errors.Wrap(deed.ErrCreateEntity, err)
		}
	}

	// MkdirAll leaves existing directories untouched and is subject to umask.
	if err := fs.Chmod(filepath.Join(root, privateDir), privateDirMode); err != nil {
		return errors.Wrap(deed.ErrCreateEntity, err)
	}

	return nil
}

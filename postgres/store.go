// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package postgres implements the certificate store on top of PostgreSQL.
package postgres

import (
	"context"
	"crypto/x509"
	"database/sql"
	"log/slog"
	"time"

	"github.com/absmach/deed"
	"github.com/absmach/deed/pkg/errors"
	"github.com/absmach/deed/pki"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// Postgres error codes:
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	errDuplicate      = "23505" // unique_violation
	errTruncation     = "22001" // string_data_right_truncation
	errInvalid        = "22P02" // invalid_text_representation
	errUntranslatable = "22P05" // untranslatable_character
	errInvalidChar    = "22021" // character_not_in_repertoire
)

var (
	ErrConflict        = errors.New("entity already exists")
	ErrMalformedEntity = errors.New("malformed entity")
)

var _ deed.Authority = (*Store)(nil)

type dbIssuer struct {
	Name        string    `db:"name"`
	Certificate string    `db:"certificate"`
	Key         string    `db:"key"`
	CreatedAt   time.Time `db:"created_at"`
}

type dbRequest struct {
	Subject     string    `db:"subject"`
	CSR         string    `db:"csr"`
	SubmittedAt time.Time `db:"submitted_at"`
}

type dbCertificate struct {
	Subject      string    `db:"subject"`
	SerialNumber int64     `db:"serial_number"`
	Certificate  string    `db:"certificate"`
	IssuedAt     time.Time `db:"issued_at"`
}

// Store is a PostgreSQL backed certificate authority. The issuer certificate
// is stored among the issued certificates under the issuer name.
type Store struct {
	db     *sqlx.DB
	issuer pki.Issuer
	name   string
	logger *slog.Logger
}

// New initializes the store in db for issuer. A database that already holds
// an issuer is never overwritten.
func New(ctx context.Context, db *sqlx.DB, issuer string, logger *slog.Logger) (*Store, error) {
	if err := deed.ValidateSubject(issuer); err != nil {
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

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(deed.ErrCreateEntity, err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	q := `INSERT INTO issuer (name, certificate, key, created_at) VALUES (:name, :certificate, :key, :created_at)`
	if _, err := tx.NamedExecContext(ctx, q, dbIssuer{
		Name:        issuer,
		Certificate: string(pki.EncodeCertificate(cert)),
		Key:         string(pki.EncodeKey(key)),
		CreatedAt:   now,
	}); err != nil {
		err = handleError(deed.ErrCreateEntity, err)
		if errors.Contains(err, ErrConflict) {
			return nil, deed.ErrIssuerExists
		}
		return nil, err
	}

	q = `INSERT INTO certificates (subject, serial_number, certificate, issued_at)
		VALUES (:subject, :serial_number, :certificate, :issued_at)`
	if _, err := tx.NamedExecContext(ctx, q, dbCertificate{
		Subject:      issuer,
		SerialNumber: cert.SerialNumber.Int64(),
		Certificate:  string(pki.EncodeCertificate(cert)),
		IssuedAt:     now,
	}); err != nil {
		return nil, handleError(deed.ErrCreateEntity, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, handleError(deed.ErrCreateEntity, err)
	}

	logger.Info("initialized certificate store",
		slog.String("issuer", issuer),
		slog.String("fingerprint", pki.Fingerprint(cert)),
	)

	return &Store{
		db:     db,
		issuer: pki.Issuer{Certificate: cert, Key: key},
		name:   issuer,
		logger: logger,
	}, nil
}

// Open loads the store persisted in db.
func Open(ctx context.Context, db *sqlx.DB, logger *slog.Logger) (*Store, error) {
	var row dbIssuer
	q := `SELECT name, certificate, key, created_at FROM issuer`
	if err := db.GetContext(ctx, &row, q); err != nil {
		if err == sql.ErrNoRows {
			return nil, deed.ErrNoIssuer
		}
		return nil, handleError(deed.ErrViewEntity, err)
	}

	key, err := pki.DecodeKey([]byte(row.Key))
	if err != nil {
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}
	cert, err := pki.DecodeCertificate([]byte(row.Certificate))
	if err != nil {
		return nil, errors.Wrap(deed.ErrViewEntity, err)
	}

	return &Store{
		db:     db,
		issuer: pki.Issuer{Certificate: cert, Key: key},
		name:   row.Name,
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

	q := `INSERT INTO requests (subject, csr, submitted_at) VALUES (:subject, :csr, :submitted_at)
		ON CONFLICT (subject) DO UPDATE SET csr = EXCLUDED.csr, submitted_at = EXCLUDED.submitted_at`
	if _, err := s.db.NamedExecContext(ctx, q, dbRequest{
		Subject:     subject,
		CSR:         string(pki.EncodeRequest(csr)),
		SubmittedAt: time.Now().UTC(),
	}); err != nil {
		return handleError(deed.ErrCreateEntity, err)
	}

	s.logger.Info("received certificate request", slog.String("subject", subject))

	return nil
}

func (s *Store) GetCertificate(ctx context.Context, subject string) (*x509.Certificate, error) {
	if err := deed.ValidateSubject(subject); err != nil {
		return nil, err
	}

	var data string
	q := `SELECT certificate FROM certificates WHERE subject = $1`
	if err := s.db.GetContext(ctx, &data, q, subject); err != nil {
		if err == sql.ErrNoRows {
			return nil, deed.ErrCertificateNotFound
		}
		return nil, handleError(deed.ErrViewEntity, err)
	}

	cert, err := pki.DecodeCertificate([]byte(data))
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
	if subject == s.name {
		return nil, deed.ErrIssuerExists
	}

	var data string
	q := `SELECT csr FROM requests WHERE subject = $1`
	if err := s.db.GetContext(ctx, &data, q, subject); err != nil {
		if err == sql.ErrNoRows {
			return nil, deed.ErrNoPendingRequest
		}
		return nil, handleError(deed.ErrViewEntity, err)
	}

	csr, err := pki.DecodeRequest([]byte(data))
	if err != nil {
		return nil, err
	}

	cert, err := pki.SignCertificateRequest(csr, s.issuer, pki.SerialNumber(subject), s.logger)
	if err != nil {
		return nil, err
	}

	q = `INSERT INTO certificates (subject, serial_number, certificate, issued_at)
		VALUES (:subject, :serial_number, :certificate, :issued_at)
		ON CONFLICT (subject) DO UPDATE SET serial_number = EXCLUDED.serial_number,
			certificate = EXCLUDED.certificate, issued_at = EXCLUDED.issued_at`
	if _, err := s.db.NamedExecContext(ctx, q, dbCertificate{
		Subject:      subject,
		SerialNumber: cert.SerialNumber.Int64(),
		Certificate:  string(pki.EncodeCertificate(cert)),
		IssuedAt:     time.Now().UTC(),
	}); err != nil {
		return nil, handleError(deed.ErrCreateEntity, err)
	}

	return cert, nil
}

// ListRequests returns the sorted subjects with a pending request.
func (s *Store) ListRequests(ctx context.Context) ([]string, error) {
	return s.list(ctx, `SELECT subject FROM requests ORDER BY subject COLLATE "C"`)
}

// ListCertificates returns the sorted subjects with an issued certificate,
// excluding the issuer itself.
func (s *Store) ListCertificates(ctx context.Context) ([]string, error) {
	return s.list(ctx, `SELECT subject FROM certificates WHERE subject <> $1 ORDER BY subject COLLATE "C"`, s.name)
}

func (s *Store) list(ctx context.Context, q string, args ...any) ([]string, error) {
	names := []string{}
	if err := s.db.SelectContext(ctx, &names, q, args...); err != nil {
		return nil, handleError(deed.ErrViewEntity, err)
	}

	return names, nil
}

func handleError(wrapper, err error) error {
	pqErr, ok := err.(*pgconn.PgError)
	if ok {
		switch pqErr.Code {
		case errDuplicate:
			return errors.Wrap(ErrConflict, err)
		case errInvalid, errInvalidChar, errTruncation, errUntranslatable:
			return errors.Wrap(ErrMalformedEntity, err)
		}
	}

	return errors.Wrap(wrapper, err)
}

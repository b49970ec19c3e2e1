// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/util"
)

var (
	// ErrEmptyCertificate is returned when asked to export an empty PEM.
	ErrEmptyCertificate = errors.New("certificate is empty")

	// ErrNotFound is returned when a ledger entry does not exist.
	ErrNotFound = errors.New("certificate not found")
)

// =============================================================================
// SAVED CERTIFICATE
// =============================================================================

// SavedCertificate is one ledger entry.
type SavedCertificate struct {
	ID         string    `json:"id"`
	CommonName string    `json:"common_name"`
	Path       string    `json:"path"`
	SHA256     string    `json:"sha256"`
	Size       int64     `json:"size"`
	SavedAt    time.Time `json:"saved_at"`
}

// =============================================================================
// CERTIFICATE STORE
// =============================================================================

// CertificateStore writes certificates to disk and keeps a ledger of them.
// It is safe for concurrent use.
type CertificateStore struct {
	// Dir receives the exported .pem files.
	Dir string

	db  *sql.DB
	now func() time.Time
}

// OpenCertificateStore opens (creating if needed) the ledger at ledgerPath
// and exports into dir.
func OpenCertificateStore(dir, ledgerPath string) (*CertificateStore, error) {
	if dir == "" {
		return nil, errors.New("export directory cannot be empty")
	}
	if ledgerPath == "" {
		return nil, errors.New("ledger path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(ledgerPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	// SQLite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &CertificateStore{Dir: dir, db: db, now: time.Now}, nil
}

// Close closes the ledger.
func (s *CertificateStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// FileName returns the file name used for a certificate issued to
// commonName.
func FileName(commonName string) string {
	return util.SafeFilename(commonName) + ".pem"
}

// Export writes pem to <common_name>.pem in the export directory,
// replacing any earlier file with that name, and records it in the ledger.
func (s *CertificateStore) Export(commonName, pem string) (*SavedCertificate, error) {
	if strings.TrimSpace(pem) == "" {
		return nil, ErrEmptyCertificate
	}

	path := filepath.Join(s.Dir, FileName(commonName))
	data := []byte(pem)
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write certificate: %w", err)
	}

	sum := sha256.Sum256(data)
	saved := &SavedCertificate{
		ID:         uuid.NewString(),
		CommonName: commonName,
		Path:       path,
		SHA256:     hex.EncodeToString(sum[:]),
		Size:       int64(len(data)),
		SavedAt:    s.now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO certificates (id, common_name, path, sha256, size, saved_at) VALUES (?, ?, ?, ?, ?, ?)`,
		saved.ID, saved.CommonName, saved.Path, saved.SHA256, saved.Size, saved.SavedAt.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record certificate: %w", err)
	}
	return saved, nil
}

// List returns ledger entries, newest first. A limit of 0 or less returns
// every entry.
func (s *CertificateStore) List(limit int) ([]SavedCertificate, error) {
	query := `SELECT id, common_name, path, sha256, size, saved_at FROM certificates ORDER BY saved_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	defer rows.Close()

	var out []SavedCertificate
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get returns the ledger entry with the given ID.
func (s *CertificateStore) Get(id string) (*SavedCertificate, error) {
	row := s.db.QueryRow(
		`SELECT id, common_name, path, sha256, size, saved_at FROM certificates WHERE id = ?`, id)
	c, err := scanCertificate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Forget removes the ledger entry with the given ID. The exported file is
// left in place.
func (s *CertificateStore) Forget(id string) error {
	res, err := s.db.Exec(`DELETE FROM certificates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete certificate: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCertificate(sc scanner) (SavedCertificate, error) {
	var c SavedCertificate
	var savedAt int64
	if err := sc.Scan(&c.ID, &c.CommonName, &c.Path, &c.SHA256, &c.Size, &savedAt); err != nil {
		return c, err
	}
	c.SavedAt = time.Unix(0, savedAt).UTC()
	return c, nil
}

package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/rksearch/rksearch/internal/config"
)

type Client struct {
	db *sqlx.DB
}

// Document is one catalogued document.
type Document struct {
	DocID       string `db:"doc_id" json:"docID"`
	Name        string `db:"name" json:"name"`
	SizeBytes   int64  `db:"size_bytes" json:"sizeBytes"`
	Fingerprint string `db:"fingerprint" json:"fingerprint"`
}

// New connects to Postgres using RKS_POSTGRES_DSN.
func New(cfg *config.Config) (*Client, error) {
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("PostgresDSN must be set")
	}
	db, err := sqlx.Connect("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Client{db: db}, nil
}

// Close the DB connection.
func (c *Client) Close() error {
	return c.db.Close()
}

// CreateDocument records a newly indexed document.
func (c *Client) CreateDocument(docID, name string, size int, fingerprint string) error {
	_, err := c.db.Exec(
		`INSERT INTO documents (doc_id, name, size_bytes, fingerprint) VALUES ($1, $2, $3, $4)`,
		docID, name, size, fingerprint,
	)
	return err
}

// ListDocuments returns every catalogued document.
func (c *Client) ListDocuments() ([]Document, error) {
	var docs []Document
	err := c.db.Select(&docs,
		`SELECT doc_id, name, size_bytes, fingerprint FROM documents ORDER BY created_at`)
	return docs, err
}

// LogSearch appends one search outcome to the history.
func (c *Client) LogSearch(docID, pattern, mode string, matchCount, firstIndex int) error {
	_, err := c.db.Exec(
		`INSERT INTO searches (doc_id, pattern, mode, match_count, first_index) VALUES ($1, $2, $3, $4, $5)`,
		docID, pattern, mode, matchCount, firstIndex,
	)
	return err
}

package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
	"github.com/syntaxrag/recall/pkg/model"
	"github.com/syntaxrag/recall/pkg/utils/logging"
)

// statsWindowDays is the trailing window for per-day activity counts
const statsWindowDays = 7

// postgresRepo implements Repository on PostgreSQL with the pgvector
// extension. Similarity search is delegated to the ivfflat cosine
// index rather than computed in process.
type postgresRepo struct {
	pool      *pgxpool.Pool
	dimension int
}

// NewPostgres opens a connection pool to the given DSN and returns a
// Repository. The pool serves one connection per in-flight request;
// a single connection is never shared by concurrent requests.
func NewPostgres(ctx context.Context, dsn string, dimension int) (Repository, error) {
	if dimension <= 0 {
		return nil, goerr.New("embedding dimension must be positive", goerr.V("dimension", dimension), goerr.T(model.ErrTagValidation))
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse database DSN", goerr.T(model.ErrTagStorage))
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create connection pool", goerr.T(model.ErrTagStorage))
	}

	return &postgresRepo{
		pool:      pool,
		dimension: dimension,
	}, nil
}

func (r *postgresRepo) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS memories (
			id UUID PRIMARY KEY,
			heading TEXT NOT NULL,
			summary TEXT NOT NULL,
			embedding VECTOR(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`, r.dimension),

		`CREATE INDEX IF NOT EXISTS idx_memories_embedding
			ON memories USING ivfflat (embedding vector_cosine_ops)
			WITH (lists = 100)`,

		`CREATE INDEX IF NOT EXISTS idx_memories_created_at ON memories (created_at)`,

		`CREATE TABLE IF NOT EXISTS memory_tags (
			memory_id UUID REFERENCES memories(id) ON DELETE CASCADE,
			tag TEXT NOT NULL,
			PRIMARY KEY (memory_id, tag)
		)`,

		`CREATE TABLE IF NOT EXISTS memory_metadata (
			memory_id UUID REFERENCES memories(id) ON DELETE CASCADE,
			key TEXT NOT NULL,
			value TEXT,
			PRIMARY KEY (memory_id, key)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to initialize schema", goerr.T(model.ErrTagStorage))
		}
	}

	logging.From(ctx).Debug("database schema initialized", "dimension", r.dimension)
	return nil
}

func (r *postgresRepo) PutMemory(ctx context.Context, heading, summary string, embedding []float32) (*model.Memory, error) {
	if heading == "" {
		return nil, goerr.Wrap(model.ErrEmptyHeading, "cannot store memory")
	}
	if summary == "" {
		return nil, goerr.Wrap(model.ErrEmptySummary, "cannot store memory")
	}
	if len(embedding) != r.dimension {
		return nil, goerr.Wrap(model.ErrBadEmbeddingDim, "cannot store memory",
			goerr.V("expected", r.dimension), goerr.V("actual", len(embedding)))
	}

	m := &model.Memory{
		ID:        model.NewMemoryID(),
		Heading:   heading,
		Summary:   summary,
		Embedding: embedding,
	}

	err := r.pool.QueryRow(ctx,
		`INSERT INTO memories (id, heading, summary, embedding) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		string(m.ID), heading, summary, pgvector.NewVector(embedding),
	).Scan(&m.CreatedAt)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to insert memory", goerr.T(model.ErrTagStorage))
	}

	return m, nil
}

func (r *postgresRepo) SearchSimilar(ctx context.Context, embedding []float32, opts SearchOptions) ([]*model.ScoredMemory, error) {
	if opts.Limit <= 0 {
		return nil, goerr.Wrap(model.ErrBadLimit, "cannot search", goerr.V("limit", opts.Limit))
	}
	if len(embedding) != r.dimension {
		return nil, goerr.Wrap(model.ErrBadEmbeddingDim, "cannot search",
			goerr.V("expected", r.dimension), goerr.V("actual", len(embedding)))
	}

	query := `SELECT id, heading, summary, embedding, created_at,
			1 - (embedding <=> $1) AS similarity
		FROM memories
		WHERE 1 - (embedding <=> $1) >= $2`
	args := []any{pgvector.NewVector(embedding), opts.Threshold}

	if opts.Date != "" {
		query += fmt.Sprintf(` AND created_at::date = $%d`, len(args)+1)
		args = append(args, opts.Date)
	}

	query += fmt.Sprintf(` ORDER BY similarity DESC, created_at DESC, id DESC LIMIT $%d`, len(args)+1)
	args = append(args, opts.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search similar memories", goerr.T(model.ErrTagStorage))
	}
	defer rows.Close()

	results := []*model.ScoredMemory{}
	for rows.Next() {
		var (
			m   model.ScoredMemory
			vec pgvector.Vector
		)
		if err := rows.Scan(&m.ID, &m.Heading, &m.Summary, &vec, &m.CreatedAt, &m.Score); err != nil {
			return nil, goerr.Wrap(err, "failed to scan search result", goerr.T(model.ErrTagStorage))
		}
		m.Embedding = vec.Slice()
		results = append(results, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read search results", goerr.T(model.ErrTagStorage))
	}

	return results, nil
}

func (r *postgresRepo) ListRecent(ctx context.Context, opts RecentOptions) ([]*model.Memory, error) {
	if opts.Limit <= 0 {
		return nil, goerr.Wrap(model.ErrBadLimit, "cannot list memories", goerr.V("limit", opts.Limit))
	}

	query := `SELECT id, heading, summary, embedding, created_at FROM memories`
	args := []any{}

	if opts.Date != "" {
		query += ` WHERE created_at::date = $1`
		args = append(args, opts.Date)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args)+1)
	args = append(args, opts.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list recent memories", goerr.T(model.ErrTagStorage))
	}
	defer rows.Close()

	memories := []*model.Memory{}
	for rows.Next() {
		var (
			m   model.Memory
			vec pgvector.Vector
		)
		if err := rows.Scan(&m.ID, &m.Heading, &m.Summary, &vec, &m.CreatedAt); err != nil {
			return nil, goerr.Wrap(err, "failed to scan memory row", goerr.T(model.ErrTagStorage))
		}
		m.Embedding = vec.Slice()
		memories = append(memories, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read memory rows", goerr.T(model.ErrTagStorage))
	}

	return memories, nil
}

func (r *postgresRepo) GetMemory(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	var (
		m   model.Memory
		vec pgvector.Vector
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, heading, summary, embedding, created_at FROM memories WHERE id = $1`,
		string(id),
	).Scan(&m.ID, &m.Heading, &m.Summary, &vec, &m.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, goerr.Wrap(model.ErrMemoryNotFound, "failed to get memory", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get memory", goerr.V("id", id), goerr.T(model.ErrTagStorage))
	}

	m.Embedding = vec.Slice()
	return &m, nil
}

func (r *postgresRepo) DeleteMemory(ctx context.Context, id model.MemoryID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM memories WHERE id = $1`, string(id))
	if err != nil {
		return false, goerr.Wrap(err, "failed to delete memory", goerr.V("id", id), goerr.T(model.ErrTagStorage))
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepo) AddTag(ctx context.Context, id model.MemoryID, tag string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO memory_tags (memory_id, tag) VALUES ($1, $2) ON CONFLICT (memory_id, tag) DO NOTHING`,
		string(id), tag)
	if err != nil {
		return goerr.Wrap(err, "failed to add tag", goerr.V("id", id), goerr.V("tag", tag), goerr.T(model.ErrTagStorage))
	}
	return nil
}

func (r *postgresRepo) GetTags(ctx context.Context, id model.MemoryID) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT tag FROM memory_tags WHERE memory_id = $1 ORDER BY tag`, string(id))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get tags", goerr.V("id", id), goerr.T(model.ErrTagStorage))
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, goerr.Wrap(err, "failed to scan tag", goerr.T(model.ErrTagStorage))
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read tags", goerr.T(model.ErrTagStorage))
	}

	return tags, nil
}

func (r *postgresRepo) PutMetadata(ctx context.Context, id model.MemoryID, key, value string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO memory_metadata (memory_id, key, value) VALUES ($1, $2, $3)
			ON CONFLICT (memory_id, key) DO UPDATE SET value = EXCLUDED.value`,
		string(id), key, value)
	if err != nil {
		return goerr.Wrap(err, "failed to put metadata", goerr.V("id", id), goerr.V("key", key), goerr.T(model.ErrTagStorage))
	}
	return nil
}

func (r *postgresRepo) Stats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{
		RecentActivity: map[string]int64{},
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM memories`).Scan(&stats.TotalMemories); err != nil {
		return nil, goerr.Wrap(err, "failed to count memories", goerr.T(model.ErrTagStorage))
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT created_at::date::text, COUNT(*)
			FROM memories
			WHERE created_at >= CURRENT_DATE - INTERVAL '%d days'
			GROUP BY created_at::date
			ORDER BY created_at::date`, statsWindowDays))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query activity", goerr.T(model.ErrTagStorage))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day   string
			count int64
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, goerr.Wrap(err, "failed to scan activity row", goerr.T(model.ErrTagStorage))
		}
		stats.RecentActivity[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to read activity rows", goerr.T(model.ErrTagStorage))
	}

	return stats, nil
}

func (r *postgresRepo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return goerr.Wrap(err, "database is not reachable", goerr.T(model.ErrTagStorage))
	}
	return nil
}

func (r *postgresRepo) Close() {
	r.pool.Close()
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uigenlabs/uigen-backend/internal/entity"
)

// GenerationRepository defines the interface for generation persistence
type GenerationRepository interface {
	Create(ctx context.Context, gen *entity.Generation) (*entity.Generation, error)
	UpdateResult(ctx context.Context, id string, status entity.GenerationStatus, code, errMsg *string, usage entity.Usage, cached bool) (*entity.Generation, error)
	GetByID(ctx context.Context, id string) (*entity.Generation, error)
	List(ctx context.Context, offset, limit int) ([]*entity.Generation, int, error)
	Delete(ctx context.Context, id string) error
}

var _ GenerationRepository = &GenerationPostgres{}

const generationFields = `id, prompt, target, model, status, code, error,
	prompt_tokens, completion_tokens, total_tokens, cached, created_at, updated_at`

// GenerationPostgres implements GenerationRepository using PostgreSQL
type GenerationPostgres struct {
	db *pgxpool.Pool
}

func NewGenerationPostgres(db *pgxpool.Pool) *GenerationPostgres {
	return &GenerationPostgres{db: db}
}

func (r *GenerationPostgres) Create(ctx context.Context, gen *entity.Generation) (*entity.Generation, error) {
	query := `INSERT INTO generations (id, prompt, target, model, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + generationFields

	row := r.db.QueryRow(ctx, query, gen.ID, gen.Prompt, string(gen.Target), gen.Model, string(gen.Status))

	created, err := scanGeneration(row)
	if err != nil {
		return nil, fmt.Errorf("create generation: %w", err)
	}

	return created, nil
}

func (r *GenerationPostgres) UpdateResult(
	ctx context.Context,
	id string,
	status entity.GenerationStatus,
	code, errMsg *string,
	usage entity.Usage,
	cached bool,
) (*entity.Generation, error) {
	query := `UPDATE generations
		SET status = $2, code = $3, error = $4,
			prompt_tokens = $5, completion_tokens = $6, total_tokens = $7,
			cached = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + generationFields

	row := r.db.QueryRow(ctx, query, id, string(status), code, errMsg,
		usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens, cached)

	updated, err := scanGeneration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrGenerationNotFound
		}
		return nil, fmt.Errorf("update generation result: %w", err)
	}

	return updated, nil
}

func (r *GenerationPostgres) GetByID(ctx context.Context, id string) (*entity.Generation, error) {
	query := `SELECT ` + generationFields + ` FROM generations WHERE id = $1`

	gen, err := scanGeneration(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrGenerationNotFound
		}
		return nil, fmt.Errorf("get generation: %w", err)
	}

	return gen, nil
}

func (r *GenerationPostgres) List(ctx context.Context, offset, limit int) ([]*entity.Generation, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM generations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count generations: %w", err)
	}

	query := `SELECT ` + generationFields + `
		FROM generations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var items []*entity.Generation
	for rows.Next() {
		gen, err := scanGeneration(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan generation row: %w", err)
		}
		items = append(items, gen)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate generation rows: %w", err)
	}

	return items, total, nil
}

func (r *GenerationPostgres) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM generations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete generation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrGenerationNotFound
	}
	return nil
}

func scanGeneration(row pgx.Row) (*entity.Generation, error) {
	var gen entity.Generation
	var target, status string

	err := row.Scan(
		&gen.ID,
		&gen.Prompt,
		&target,
		&gen.Model,
		&status,
		&gen.Code,
		&gen.Error,
		&gen.Usage.PromptTokens,
		&gen.Usage.CompletionTokens,
		&gen.Usage.TotalTokens,
		&gen.Cached,
		&gen.CreatedAt,
		&gen.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	gen.Target = entity.Target(target)
	gen.Status = entity.GenerationStatus(status)
	return &gen, nil
}

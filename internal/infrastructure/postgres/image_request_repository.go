package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
)

var _ repository.ImageRequestRepository = (*ImageRequestRepo)(nil)

const (
	requestMetaColumns = `id, user_id, employee_id, display_name,
		original_file_name, original_content_type, original_file_path,
		edited_file_name, edited_content_type, edited_file_path,
		status, uploaded_at, completed_at`
	requestContentColumns = `original_file_content, edited_file_content`
)

// ImageRequestRepo solicitudes de imagen sobre PostgreSQL. El contenido embebido
// vive en columnas BYTEA que los listados no leen.
type ImageRequestRepo struct {
	db DBTX
}

// NewImageRequestRepository construye el adaptador.
func NewImageRequestRepository(db DBTX) *ImageRequestRepo {
	return &ImageRequestRepo{db: db}
}

// Create persiste la solicitud con un ID nuevo.
func (r *ImageRequestRepo) Create(ctx context.Context, req *entity.ImageRequest) (*entity.ImageRequest, error) {
	id := uuid.New().String()
	query := `
		INSERT INTO image_requests (` + requestMetaColumns + `, ` + requestContentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.db.Exec(ctx, query,
		id, req.UserID, req.EmployeeID, req.DisplayName,
		req.Original.FileName, req.Original.ContentType, req.Original.URL,
		req.Edited.FileName, req.Edited.ContentType, req.Edited.URL,
		req.Status, req.UploadedAt, req.CompletedAt,
		nullBytes(req.Original.Content), nullBytes(req.Edited.Content),
	)
	if err != nil {
		return nil, storageErr("insert image request", err)
	}
	out := *req
	out.ID = id
	return &out, nil
}

// GetByID lee la solicitud completa, contenido incluido.
func (r *ImageRequestRepo) GetByID(ctx context.Context, id string) (*entity.ImageRequest, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + requestMetaColumns + `, ` + requestContentColumns + ` FROM image_requests WHERE id = $1`
	req, err := scanRequest(r.db.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr("get image request", err)
	}
	return req, nil
}

// ListByUser solicitudes del usuario sin contenido, más recientes primero.
func (r *ImageRequestRepo) ListByUser(ctx context.Context, userID string) ([]*entity.ImageRequest, error) {
	query := `SELECT ` + requestMetaColumns + ` FROM image_requests
		WHERE user_id = $1 ORDER BY uploaded_at DESC, id DESC`
	return r.query(ctx, "list image requests by user", query, false, userID)
}

// List página del listado completo más el total.
func (r *ImageRequestRepo) List(ctx context.Context, opts entity.ListOptions) (*entity.ImageRequestPage, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM image_requests`).Scan(&total); err != nil {
		return nil, storageErr("count image requests", err)
	}

	cols := requestMetaColumns
	if opts.IncludeContent {
		cols += ", " + requestContentColumns
	}
	var limit *int
	if opts.Limit > 0 {
		limit = &opts.Limit
	}
	query := `SELECT ` + cols + ` FROM image_requests
		ORDER BY uploaded_at DESC, id DESC LIMIT $1 OFFSET $2`
	items, err := r.query(ctx, "list image requests", query, opts.IncludeContent, limit, max(opts.Offset, 0))
	if err != nil {
		return nil, err
	}
	return &entity.ImageRequestPage{Items: items, Total: total}, nil
}

// UpdateByID aplica el patch en una sola sentencia. Con ExpectStatus la escritura
// queda condicionada al estado actual; si no aplica se distingue entre inexistente
// (nil, nil) y conflicto (domain.ErrConflict).
func (r *ImageRequestRepo) UpdateByID(ctx context.Context, id string, patch entity.ImageRequestPatch) (*entity.ImageRequest, error) {
	if !validID(id) {
		return nil, nil
	}
	sets := make([]string, 0, 6)
	args := []any{id}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if e := patch.Edited; e != nil {
		set("edited_file_name", e.FileName)
		set("edited_content_type", e.ContentType)
		set("edited_file_path", e.URL)
		set("edited_file_content", nullBytes(e.Content))
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.CompletedAt != nil {
		set("completed_at", *patch.CompletedAt)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	where := "id = $1"
	if patch.ExpectStatus != "" {
		args = append(args, patch.ExpectStatus)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query := `UPDATE image_requests SET ` + strings.Join(sets, ", ") + ` WHERE ` + where +
		` RETURNING ` + requestMetaColumns + `, ` + requestContentColumns
	req, err := scanRequest(r.db.QueryRow(ctx, query, args...), true)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, storageErr("update image request", err)
	}
	if patch.ExpectStatus == "" {
		return nil, nil
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM image_requests WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, storageErr("check image request", err)
	}
	if exists {
		return nil, domain.ErrConflict
	}
	return nil, nil
}

// DeleteAll elimina todas las solicitudes.
func (r *ImageRequestRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM image_requests`); err != nil {
		return storageErr("delete image requests", err)
	}
	return nil
}

func (r *ImageRequestRepo) query(ctx context.Context, op, query string, withContent bool, args ...any) ([]*entity.ImageRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()
	list := make([]*entity.ImageRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows, withContent)
		if err != nil {
			return nil, storageErr(op, err)
		}
		list = append(list, req)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return list, nil
}

func scanRequest(row pgx.Row, withContent bool) (*entity.ImageRequest, error) {
	var (
		req         entity.ImageRequest
		completedAt *time.Time
	)
	dest := []any{
		&req.ID, &req.UserID, &req.EmployeeID, &req.DisplayName,
		&req.Original.FileName, &req.Original.ContentType, &req.Original.URL,
		&req.Edited.FileName, &req.Edited.ContentType, &req.Edited.URL,
		&req.Status, &req.UploadedAt, &completedAt,
	}
	if withContent {
		dest = append(dest, &req.Original.Content, &req.Edited.Content)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	req.UploadedAt = req.UploadedAt.UTC()
	if completedAt != nil {
		t := completedAt.UTC()
		req.CompletedAt = &t
	}
	return &req, nil
}

// nullBytes guarda NULL en lugar de un BYTEA vacío.
func nullBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}

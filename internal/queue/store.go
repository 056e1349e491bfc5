package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"roundel/internal/artifacts"
	"roundel/internal/config"
)

// Store manages job persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the queue database and verifies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "queue.db")
	return OpenPath(dbPath)
}

// OpenPath connects to the queue database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// NewJob inserts a job for the given name, or — when the name already has a
// row — replaces that run: the row is reset to pending under a fresh run
// token, which invalidates every pending write of the superseded run.
func (s *Store) NewJob(ctx context.Context, name string, source artifacts.Locator, blurRadius int) (*Job, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("job name is required")
	}
	if source == "" {
		return nil, errors.New("source locator is required")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	token := uuid.NewString()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO jobs (
            name, run_token, source_locator, current_locator, final_locator,
            blur_radius, status, error_message, created_at, updated_at,
            progress_stage, progress_percent, progress_message
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            run_token = excluded.run_token,
            source_locator = excluded.source_locator,
            current_locator = NULL,
            final_locator = NULL,
            blur_radius = excluded.blur_radius,
            status = excluded.status,
            error_message = NULL,
            updated_at = excluded.updated_at,
            progress_stage = NULL,
            progress_percent = 0,
            progress_message = NULL`,
		name,
		token,
		string(source),
		nil,
		nil,
		blurRadius,
		StatusPending,
		nil,
		now,
		now,
		nil,
		0.0,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	return s.GetByName(ctx, name)
}

// GetByID fetches a job by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// GetByName fetches a job by its unique name.
func (s *Store) GetByName(ctx context.Context, name string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE name = ?`, strings.TrimSpace(name))
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job by name: %w", err)
	}
	return job, nil
}

// Update persists changes to an existing job. The write is guarded by the
// job's run token: when a newer run has replaced the row, no rows match and
// ErrSuperseded is returned.
func (s *Store) Update(ctx context.Context, job *Job) error {
	if job == nil {
		return errors.New("job is nil")
	}
	job.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE jobs
         SET source_locator = ?, current_locator = ?, final_locator = ?,
             blur_radius = ?, status = ?, error_message = ?, updated_at = ?,
             progress_stage = ?, progress_percent = ?, progress_message = ?
         WHERE id = ? AND run_token = ?`,
		string(job.SourceLocator),
		nullableString(string(job.CurrentLocator)),
		nullableString(string(job.FinalLocator)),
		job.BlurRadius,
		job.Status,
		nullableString(job.ErrorMessage),
		job.UpdatedAt.Format(time.RFC3339Nano),
		nullableString(job.ProgressStage),
		job.ProgressPercent,
		nullableString(job.ProgressMessage),
		job.ID,
		job.RunToken,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: job %q", ErrSuperseded, job.Name)
	}
	return nil
}

// List returns jobs filtered by status set (or all jobs when no status is provided).
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Job, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + jobColumns + ` FROM jobs`
	orderClause := ` ORDER BY created_at`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// NextForStatuses returns the oldest job matching any of the provided statuses.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Job, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := makePlaceholders(len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		args[i] = status
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE status IN (` + placeholders + `) ORDER BY created_at LIMIT 1`
	row := s.db.QueryRowContext(ctx, query, args...)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// ResetStuckProcessing resets jobs stranded in processing states back to
// pending. Run at daemon startup so a crash mid-stage cannot wedge a job.
func (s *Store) ResetStuckProcessing(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE jobs
         SET status = ?, progress_stage = 'Reset from stuck processing',
             progress_percent = 0, progress_message = NULL, updated_at = ?
         WHERE status IN (?, ?, ?, ?)`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusCleaning,
		StatusBlurring,
		StatusMasking,
		StatusSaving,
	)
	if err != nil {
		return 0, fmt.Errorf("reset stuck jobs: %w", err)
	}
	return res.RowsAffected()
}

// RetryFailed moves failed jobs back to pending for reprocessing. Retried
// runs receive a fresh run token: a retry is a new run, not a resumption.
func (s *Store) RetryFailed(ctx context.Context, ids ...int64) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if len(ids) == 0 {
		res, err := s.db.ExecContext(
			ctx,
			`UPDATE jobs
            SET status = ?, run_token = ?, progress_stage = 'Retry requested', progress_percent = 0,
                progress_message = NULL, error_message = NULL, current_locator = NULL,
                final_locator = NULL, updated_at = ?
            WHERE status = ?`,
			StatusPending,
			uuid.NewString(),
			now,
			StatusFailed,
		)
		if err != nil {
			return 0, fmt.Errorf("retry failed jobs: %w", err)
		}
		return res.RowsAffected()
	}

	var total int64
	for _, id := range ids {
		res, err := s.db.ExecContext(
			ctx,
			`UPDATE jobs
            SET status = ?, run_token = ?, progress_stage = 'Retry requested', progress_percent = 0,
                progress_message = NULL, error_message = NULL, current_locator = NULL,
                final_locator = NULL, updated_at = ?
            WHERE id = ? AND status = ?`,
			StatusPending,
			uuid.NewString(),
			now,
			id,
			StatusFailed,
		)
		if err != nil {
			return total, fmt.Errorf("retry job %d: %w", id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("rows affected: %w", err)
		}
		total += affected
	}
	return total, nil
}

// Stats returns a count of jobs grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates queue state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusFailed:
			health.Failed += count
		case StatusCompleted:
			health.Completed += count
		default:
			if IsProcessingStatus(status) {
				health.Processing += count
			}
		}
	}
	return health, nil
}

// Remove deletes a job by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes all jobs from the queue.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

// ClearCompleted removes only completed jobs from the queue.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE status = ?`, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailed removes only failed jobs from the queue.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE status = ?`, StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clear failed: %w", err)
	}
	return res.RowsAffected()
}

const jobColumns = "id, name, run_token, source_locator, current_locator, final_locator, blur_radius, status, error_message, created_at, updated_at, progress_stage, progress_percent, progress_message"

func scanJob(scanner interface{ Scan(dest ...any) error }) (*Job, error) {
	var (
		id              int64
		name            string
		runToken        string
		sourceLocator   string
		currentLocator  sql.NullString
		finalLocator    sql.NullString
		blurRadius      int
		statusStr       string
		errorMessage    sql.NullString
		createdRaw      sql.NullString
		updatedRaw      sql.NullString
		progressStage   sql.NullString
		progressPercent sql.NullFloat64
		progressMessage sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&name,
		&runToken,
		&sourceLocator,
		&currentLocator,
		&finalLocator,
		&blurRadius,
		&statusStr,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&progressStage,
		&progressPercent,
		&progressMessage,
	); err != nil {
		return nil, err
	}

	job := &Job{
		ID:              id,
		Name:            name,
		RunToken:        runToken,
		SourceLocator:   artifacts.Locator(sourceLocator),
		CurrentLocator:  artifacts.Locator(currentLocator.String),
		FinalLocator:    artifacts.Locator(finalLocator.String),
		BlurRadius:      blurRadius,
		Status:          Status(statusStr),
		ErrorMessage:    errorMessage.String,
		ProgressStage:   progressStage.String,
		ProgressPercent: progressPercent.Float64,
		ProgressMessage: progressMessage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		job.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		job.UpdatedAt = updated
	}
	return job, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

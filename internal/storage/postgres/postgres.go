// Package postgres реализует хранилище учётных записей на PostgreSQL.
// Предоставляет методы вставки, чтения, перечисления, обновления и
// удаления записей по логину; уникальность логина закреплена ограничением
// на уровне таблицы.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/users-administration/internal/models"
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(connectionString string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

const userColumns = `uid, login, password, name, gender, birthday, is_admin,
			      created_on, created_by, modified_on, modified_by, revoked_on, revoked_by`

// Insert сохраняет новую учётную запись.
func (s *Storage) Insert(ctx context.Context, u models.User) error {
	const op = "storage.postgres.Insert"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, login, password, name, gender, birthday, is_admin,
			      created_on, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.DB.ExecContext(ctx, query,
		u.UID, u.Login, u.Password, u.Name, u.Gender, u.Birthday, u.IsAdmin,
		u.CreatedOn, u.CreatedBy)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetByLogin возвращает запись по логину или (nil, nil), если её нет.
func (s *Storage) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	const op = "storage.postgres.GetByLogin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE login = $1`
	row := s.DB.QueryRowContext(ctx, query, login)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetAll возвращает все записи, включая отозванные.
func (s *Storage) GetAll(ctx context.Context) ([]*models.User, error) {
	const op = "storage.postgres.GetAll"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Update заменяет запись с тем же UID; смена логина ложится на то же
// UPDATE, ограничение уникальности таблицы отсекает занятые логины.
func (s *Storage) Update(ctx context.Context, u models.User) error {
	const op = "storage.postgres.Update"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET login = $1, password = $2, name = $3, gender = $4, birthday = $5,
			      modified_on = $6, modified_by = $7, revoked_on = $8, revoked_by = $9
			  WHERE uid = $10`
	res, err := s.DB.ExecContext(ctx, query,
		u.Login, u.Password, u.Name, u.Gender, u.Birthday,
		u.ModifiedOn, u.ModifiedBy, u.RevokedOn, u.RevokedBy, u.UID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: user %q does not exist", op, u.UID)
	}
	return nil
}

// Remove удаляет запись по логину, true — если запись существовала.
func (s *Storage) Remove(ctx context.Context, login string) (bool, error) {
	const op = "storage.postgres.Remove"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE login = $1`, login)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var birthday, modifiedOn, revokedOn sql.NullTime
	var modifiedBy, revokedBy sql.NullString

	if err := row.Scan(&u.UID, &u.Login, &u.Password, &u.Name, &u.Gender, &birthday,
		&u.IsAdmin, &u.CreatedOn, &u.CreatedBy, &modifiedOn, &modifiedBy,
		&revokedOn, &revokedBy); err != nil {
		return nil, err
	}

	if birthday.Valid {
		u.Birthday = &birthday.Time
	}
	if modifiedOn.Valid {
		u.ModifiedOn = &modifiedOn.Time
	}
	if modifiedBy.Valid {
		u.ModifiedBy = &modifiedBy.String
	}
	if revokedOn.Valid {
		u.RevokedOn = &revokedOn.Time
	}
	if revokedBy.Valid {
		u.RevokedBy = &revokedBy.String
	}
	return u, nil
}

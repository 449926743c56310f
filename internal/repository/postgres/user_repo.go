package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"ambassadorhub/internal/domain"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, name, email, role, COALESCE(credit, 0), description, school, promo_year, instagram, phone, favorite_moment, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var desc, school, instagram, phone, favorite sql.NullString
	var promoYear sql.NullInt64
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.Credit,
		&desc, &school, &promoYear, &instagram, &phone, &favorite,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		u.Description = &desc.String
	}
	if school.Valid {
		u.School = &school.String
	}
	if promoYear.Valid {
		y := int(promoYear.Int64)
		u.PromoYear = &y
	}
	if instagram.Valid {
		u.Instagram = &instagram.String
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	if favorite.Valid {
		u.FavoriteMoment = &favorite.String
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (name, email, role, credit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, u.Name, u.Email, u.Role, u.Credit, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, id, name, email string, role domain.Role) (*domain.User, error) {
	query := `
		UPDATE users SET name = $1, email = $2, role = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + userColumns
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, name, email, role, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id string, p *domain.ProfileUpdate) (*domain.User, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	addString := func(col string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			setClauses = append(setClauses, col+" = NULL")
			return
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, *v)
		n++
	}
	if p.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", n))
		args = append(args, *p.Name)
		n++
	}
	addString("description", p.Description)
	addString("school", p.School)
	if p.PromoYear != nil {
		if *p.PromoYear == 0 {
			setClauses = append(setClauses, "promo_year = NULL")
		} else {
			setClauses = append(setClauses, fmt.Sprintf("promo_year = $%d", n))
			args = append(args, *p.PromoYear)
			n++
		}
	}
	addString("instagram", p.Instagram)
	addString("phone", p.Phone)
	addString("favorite_moment", p.FavoriteMoment)

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users SET %s
		WHERE id = $%d
		RETURNING `+userColumns, strings.Join(setClauses, ", "), n)
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) UpdateCredit(ctx context.Context, id string, credit int) (*domain.User, error) {
	query := `
		UPDATE users SET credit = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, credit, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, search string, params domain.PaginationParams) ([]*domain.User, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = `WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM users ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+userColumns+`
		FROM users
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *userRepository) ListAmbassadorsByCredit(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1
		ORDER BY COALESCE(credit, 0) DESC, created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, domain.RoleAmbassador)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

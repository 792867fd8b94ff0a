// Package storage persists transactions, categories and users in SQLite and
// is the single source of truth the rest of the system reads from.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"moneymanagement/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("storage: not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction inserts the transaction and returns it with its assigned
// id and creation time.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (user_id, category_id, name, amount_cents, date, note, type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.CategoryID, tx.Name, tx.Amount.Cents, tx.Date, tx.Note, string(tx.Type), tx.CreatedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	tx.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", tx.ID,
		"user_id", tx.UserID,
		"name", tx.Name,
		"amount_cents", tx.Amount.Cents,
		"date", tx.Date)

	return tx, nil
}

// UpdateTransaction rewrites all mutable fields of the transaction.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET category_id = ?, name = ?, amount_cents = ?, date = ?, note = ?, type = ?
		WHERE id = ? AND user_id = ?`,
		tx.CategoryID, tx.Name, tx.Amount.Cents, tx.Date, tx.Note, string(tx.Type), tx.ID, tx.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID string, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, category_id, name, amount_cents, date, note, type, created_at
		FROM transactions WHERE id = ? AND user_id = ?`, id, userID)

	tx, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

// ListTransactionsWithCategory returns every transaction of the user joined
// with its category, newest first. A transaction whose category was removed
// is still returned, with a nil category.
func (r *SQLiteRepository) ListTransactionsWithCategory(ctx context.Context, userID string) ([]core.TransactionWithCategory, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.user_id, t.category_id, t.name, t.amount_cents, t.date, t.note, t.type, t.created_at,
		       c.id, c.user_id, c.name, c.icon, c.type
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ?
		ORDER BY t.created_at DESC, t.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.TransactionWithCategory
	for rows.Next() {
		var (
			tx      core.Transaction
			txType  string
			catID   sql.NullInt64
			catUser sql.NullString
			catName sql.NullString
			catIcon sql.NullString
			catType sql.NullString
		)
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.CategoryID, &tx.Name, &tx.Amount.Cents,
			&tx.Date, &tx.Note, &txType, &tx.CreatedAt,
			&catID, &catUser, &catName, &catIcon, &catType,
		); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		tx.Type = core.TransactionType(txType)

		item := core.TransactionWithCategory{Transaction: tx}
		if catID.Valid {
			item.Category = &core.Category{
				ID:     catID.Int64,
				UserID: catUser.String,
				Name:   catName.String,
				Icon:   catIcon.String,
				Type:   core.TransactionType(catType.String),
			}
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// SumAmountByType returns the total amount of the user's transactions of the
// given type. An empty result sums to zero.
func (r *SQLiteRepository) SumAmountByType(ctx context.Context, userID string, t core.TransactionType) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM transactions WHERE user_id = ? AND type = ?`, userID, string(t)).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum amounts: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, cat core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (user_id, name, icon, type) VALUES (?, ?, ?, ?)`,
		cat.UserID, cat.Name, cat.Icon, string(cat.Type))
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}

	cat.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Category saved", "id", cat.ID, "user_id", cat.UserID, "name", cat.Name)
	return cat, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, cat core.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = ?, icon = ?, type = ? WHERE id = ? AND user_id = ?`,
		cat.Name, cat.Icon, string(cat.Type), cat.ID, cat.UserID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res)
}

// DeleteCategory removes the category and, through the schema's cascade,
// every transaction recorded under it.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID string, id int64) (core.Category, error) {
	var cat core.Category
	var catType string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, icon, type FROM categories WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Icon, &catType)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	cat.Type = core.TransactionType(catType)
	return cat, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	return r.listCategories(ctx,
		`SELECT id, user_id, name, icon, type FROM categories WHERE user_id = ? ORDER BY id`, userID)
}

func (r *SQLiteRepository) ListCategoriesByType(ctx context.Context, userID string, t core.TransactionType) ([]core.Category, error) {
	return r.listCategories(ctx,
		`SELECT id, user_id, name, icon, type FROM categories WHERE user_id = ? AND type = ? ORDER BY id`,
		userID, string(t))
}

func (r *SQLiteRepository) listCategories(ctx context.Context, query string, args ...any) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var cat core.Category
		var catType string
		if err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Icon, &catType); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		cat.Type = core.TransactionType(catType)
		out = append(out, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// CountCategories reports how many categories the user has. Used to decide
// whether the default catalog still needs seeding.
func (r *SQLiteRepository) CountCategories(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// UpsertUser creates the user or refreshes its profile fields and token.
func (r *SQLiteRepository) UpsertUser(ctx context.Context, u core.UserProfile, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, image_url, token) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET email = excluded.email, name = excluded.name,
			image_url = excluded.image_url, token = excluded.token`,
		u.ID, u.Email, u.Name, u.ImageURL, token)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetUserByToken(ctx context.Context, token string) (core.UserProfile, error) {
	var u core.UserProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, image_url FROM users WHERE token = ?`,
		token).Scan(&u.ID, &u.Email, &u.Name, &u.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return core.UserProfile{}, ErrNotFound
	}
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("get user by token: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (core.UserProfile, error) {
	var u core.UserProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, image_url FROM users WHERE id = ?`,
		id).Scan(&u.ID, &u.Email, &u.Name, &u.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return core.UserProfile{}, ErrNotFound
	}
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanTransaction(row *sql.Row) (core.Transaction, error) {
	var tx core.Transaction
	var txType string
	err := row.Scan(&tx.ID, &tx.UserID, &tx.CategoryID, &tx.Name, &tx.Amount.Cents,
		&tx.Date, &tx.Note, &txType, &tx.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TransactionType(txType)
	return tx, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

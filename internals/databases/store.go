package database

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Store is the parameterized query facade every service depends on.
// Params are named (`@name` in the query text); identifiers passed as table
// or column names must be plain snake_case and never come from user input.
type Store interface {
	SelectOne(ctx context.Context, dest any, query string, params map[string]any) (bool, error)
	Select(ctx context.Context, dest any, query string, params map[string]any) error
	Insert(ctx context.Context, table string, fields map[string]any) (int64, error)
	Update(ctx context.Context, table string, fields map[string]any, where map[string]any) (int64, error)
	Delete(ctx context.Context, table string, where map[string]any) (int64, error)
	Count(ctx context.Context, table string, where map[string]any) (int64, error)
	Exists(ctx context.Context, table string, where map[string]any) (bool, error)
	Exec(ctx context.Context, query string, params map[string]any) (int64, error)
	// Transaction commits when fn returns nil and rolls back on error or panic.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type GormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func checkIdent(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("store: invalid identifier %q", name)
	}
	return nil
}

// ident quotes a checked identifier so columns such as "role" or "status"
// never collide with reserved words.
func ident(name string) string { return pq.QuoteIdentifier(name) }

// args binds params only when the query names any; gorm would otherwise
// pass the map through as a positional argument.
func args(query string, params map[string]any) []any {
	if len(params) == 0 || !strings.Contains(query, "@") {
		return nil
	}
	return []any{params}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// buildWhere renders an equality conjunction; nil values become IS NULL.
func buildWhere(where map[string]any, named map[string]any) (string, error) {
	if len(where) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(where))
	for _, col := range sortedKeys(where) {
		if err := checkIdent(col); err != nil {
			return "", err
		}
		v := where[col]
		if isNil(v) {
			parts = append(parts, ident(col)+" IS NULL")
			continue
		}
		key := "w_" + col
		named[key] = v
		parts = append(parts, ident(col)+" = @"+key)
	}
	return " WHERE " + strings.Join(parts, " AND "), nil
}

func (s *GormStore) SelectOne(ctx context.Context, dest any, query string, params map[string]any) (bool, error) {
	res := s.db.WithContext(ctx).Raw(query, args(query, params)...).Scan(dest)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) Select(ctx context.Context, dest any, query string, params map[string]any) error {
	return s.db.WithContext(ctx).Raw(query, args(query, params)...).Scan(dest).Error
}

func (s *GormStore) Insert(ctx context.Context, table string, fields map[string]any) (int64, error) {
	if err := checkIdent(table); err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, fmt.Errorf("store: insert into %s without fields", table)
	}
	keys := sortedKeys(fields)
	cols := make([]string, 0, len(keys))
	holders := make([]string, 0, len(keys))
	named := make(map[string]any, len(keys))
	for _, col := range keys {
		if err := checkIdent(col); err != nil {
			return 0, err
		}
		cols = append(cols, ident(col))
		holders = append(holders, "@"+col)
		named[col] = fields[col]
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		ident(table), strings.Join(cols, ", "), strings.Join(holders, ", "))

	var id int64
	if err := s.db.WithContext(ctx).Raw(query, named).Scan(&id).Error; err != nil {
		return 0, err
	}
	return id, nil
}

func (s *GormStore) Update(ctx context.Context, table string, fields map[string]any, where map[string]any) (int64, error) {
	if err := checkIdent(table); err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, nil
	}
	if len(where) == 0 {
		return 0, fmt.Errorf("store: update on %s without where", table)
	}
	named := make(map[string]any, len(fields)+len(where))
	sets := make([]string, 0, len(fields))
	for _, col := range sortedKeys(fields) {
		if err := checkIdent(col); err != nil {
			return 0, err
		}
		key := "s_" + col
		named[key] = fields[col]
		sets = append(sets, ident(col)+" = @"+key)
	}
	cond, err := buildWhere(where, named)
	if err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Exec("UPDATE "+ident(table)+" SET "+strings.Join(sets, ", ")+cond, named)
	return res.RowsAffected, res.Error
}

func (s *GormStore) Delete(ctx context.Context, table string, where map[string]any) (int64, error) {
	if err := checkIdent(table); err != nil {
		return 0, err
	}
	if len(where) == 0 {
		return 0, fmt.Errorf("store: delete on %s without where", table)
	}
	named := make(map[string]any, len(where))
	cond, err := buildWhere(where, named)
	if err != nil {
		return 0, err
	}
	res := s.db.WithContext(ctx).Exec("DELETE FROM "+ident(table)+cond, args(cond, named)...)
	return res.RowsAffected, res.Error
}

func (s *GormStore) Count(ctx context.Context, table string, where map[string]any) (int64, error) {
	if err := checkIdent(table); err != nil {
		return 0, err
	}
	named := make(map[string]any, len(where))
	cond, err := buildWhere(where, named)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := s.db.WithContext(ctx).Raw("SELECT COUNT(*) FROM "+ident(table)+cond, args(cond, named)...).Scan(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *GormStore) Exists(ctx context.Context, table string, where map[string]any) (bool, error) {
	n, err := s.Count(ctx, table, where)
	return n > 0, err
}

func (s *GormStore) Exec(ctx context.Context, query string, params map[string]any) (int64, error) {
	res := s.db.WithContext(ctx).Exec(query, args(query, params)...)
	return res.RowsAffected, res.Error
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

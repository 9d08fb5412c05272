package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/viant/approvalflow/runtime/instance"
	"github.com/viant/approvalflow/service/dao"
)

// DefaultTable is used when no table name is configured
const DefaultTable = "approval_instances"

// Service implements instance storage on PostgreSQL. The version column
// guards updates so concurrent writers see dao.ErrConflict.
type Service struct {
	db    *sql.DB
	table string
}

// Ensure Service implements dao.Service
var _ dao.Service[string, instance.Instance] = (*Service)(nil)

// Save inserts a new instance or updates the stored one at the expected version
func (s *Service) Save(ctx context.Context, anInstance *instance.Instance) error {
	if anInstance == nil {
		return dao.ErrNilEntity
	}
	if anInstance.ID == "" {
		return dao.ErrInvalidID
	}
	toSave := anInstance.Clone()
	toSave.Version = anInstance.Version + 1
	payload, err := json.Marshal(toSave)
	if err != nil {
		return fmt.Errorf("failed to marshal instance: %w", err)
	}

	var result sql.Result
	if anInstance.Version == 0 {
		result, err = s.db.ExecContext(ctx, s.insertSQL(), toSave.ID, toSave.Status, toSave.Version, payload, toSave.CreatedAt, toSave.UpdatedAt)
	} else {
		result, err = s.db.ExecContext(ctx, s.updateSQL(), toSave.ID, toSave.Status, toSave.Version, payload, toSave.UpdatedAt, anInstance.Version)
	}
	if err != nil {
		return fmt.Errorf("failed to save instance %v: %w", anInstance.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save instance %v: %w", anInstance.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%v expected version %d: %w", anInstance.ID, anInstance.Version, dao.ErrConflict)
	}
	anInstance.Version = toSave.Version
	return nil
}

// Load retrieves an instance
func (s *Service) Load(ctx context.Context, id string) (*instance.Instance, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	var raw []byte
	err := s.db.QueryRowContext(ctx, "select payload from "+s.table+" where id=$1", id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dao.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load instance %v: %w", id, err)
	}
	var anInstance instance.Instance
	if err := json.Unmarshal(raw, &anInstance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instance %v: %w", id, err)
	}
	return &anInstance, nil
}

// Delete removes an instance
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	result, err := s.db.ExecContext(ctx, "delete from "+s.table+" where id=$1", id)
	if err != nil {
		return fmt.Errorf("failed to delete instance %v: %w", id, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return dao.ErrNotFound
	}
	return nil
}

// List returns instances matching the Status parameter
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*instance.Instance, error) {
	query, args := s.listSQL(parameters)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}
	defer rows.Close()
	var ret []*instance.Instance
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var anInstance instance.Instance
		if err := json.Unmarshal(raw, &anInstance); err != nil {
			return nil, fmt.Errorf("failed to unmarshal instance: %w", err)
		}
		ret = append(ret, &anInstance)
	}
	return ret, rows.Err()
}

func (s *Service) insertSQL() string {
	return "insert into " + s.table + " (id, status, version, payload, created_at, updated_at) values ($1, $2, $3, $4, $5, $6) on conflict (id) do nothing"
}

func (s *Service) updateSQL() string {
	return "update " + s.table + " set status=$2, version=$3, payload=$4, updated_at=$5 where id=$1 and version=$6"
}

func (s *Service) listSQL(parameters []*dao.Parameter) (string, []interface{}) {
	query := "select payload from " + s.table
	var args []interface{}
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != dao.StatusParameter {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			args = append(args, actual)
		case []string:
			for _, status := range actual {
				args = append(args, status)
			}
		}
		if len(args) > 0 {
			break
		}
	}
	if len(args) > 0 {
		placeholders := make([]string, len(args))
		for i := range args {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		query += " where status in (" + strings.Join(placeholders, ", ") + ")"
	}
	return query + " order by created_at, id", args
}

func (s *Service) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
create table if not exists `+s.table+` (
  id text primary key,
  status text not null,
  version int not null,
  payload jsonb not null,
  created_at timestamptz not null,
  updated_at timestamptz not null
);
create index if not exists `+s.table+`_status_idx on `+s.table+` (status);
`)
	return err
}

// Close closes the database handle
func (s *Service) Close() error {
	return s.db.Close()
}

// New opens a pgx backed store and creates the table when missing
func New(ctx context.Context, dsn, table string) (*Service, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	ret := newService(db, table)
	if err := ret.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate %v: %w", ret.table, err)
	}
	return ret, nil
}

func newService(db *sql.DB, table string) *Service {
	if table == "" {
		table = DefaultTable
	}
	return &Service{db: db, table: table}
}

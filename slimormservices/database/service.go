package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lunagic/slimorm/slimormservices/database/internal/utils"
)

type Service struct {
	driver       Driver
	db           *sqlx.DB
	preRunFuncs  []func(ctx context.Context, statement string, args []any) error
	postRunFuncs []func(ctx context.Context) error
}

func New(
	driver Driver,
	configFuncs ...ServiceConfigFunc,
) (*Service, error) {
	db, err := driver.Open()
	if err != nil {
		return nil, err
	}

	service := &Service{
		driver:       driver,
		db:           sqlx.NewDb(db, driver.driverName()),
		preRunFuncs:  []func(ctx context.Context, statement string, args []any) error{},
		postRunFuncs: []func(ctx context.Context) error{},
	}

	for _, configFunc := range configFuncs {
		if err := configFunc(service); err != nil {
			return nil, errors.Join(err, db.Close())
		}
	}

	return service, nil
}

func (service *Service) Ping() error {
	return service.db.Ping()
}

func (service *Service) Close() error {
	return service.db.Close()
}

// IdentifierQuote is the character the dialect wraps identifiers in.
func (service *Service) IdentifierQuote() string {
	return service.driver.identifierQuote()
}

// Select runs a query and returns every row as a column → value map. Byte
// slices are returned as strings so all drivers agree on text columns.
func (service *Service) Select(
	ctx context.Context,
	query string,
	parameters map[string]any,
) ([]map[string]any, error) {
	preparedQuery, preparedArgs, err := service.prepare(ctx, query, parameters)
	if err != nil {
		return nil, err
	}

	rows, err := service.db.QueryxContext(ctx, preparedQuery, preparedArgs...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	results := []map[string]any{}
	for rows.Next() {
		row := map[string]any{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}

		for column, value := range row {
			if bytes, isBytes := value.([]byte); isBytes {
				row[column] = string(bytes)
			}
		}

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := service.postRun(ctx); err != nil {
		return nil, err
	}

	return results, nil
}

func (service *Service) Execute(
	ctx context.Context,
	query string,
	parameters map[string]any,
) (
	sql.Result,
	error,
) {
	preparedQuery, preparedArgs, err := service.prepare(ctx, query, parameters)
	if err != nil {
		return nil, err
	}

	result, err := service.db.ExecContext(ctx, preparedQuery, preparedArgs...)
	if err != nil {
		return nil, err
	}

	if err := service.postRun(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// Insert runs an INSERT statement and returns the id the database assigned
// to identityColumn.
func (service *Service) Insert(
	ctx context.Context,
	query string,
	parameters map[string]any,
	identityColumn string,
) (int64, error) {
	if service.driver.usesLastInsertId() {
		result, err := service.Execute(ctx, query, parameters)
		if err != nil {
			return 0, err
		}

		return result.LastInsertId()
	}

	preparedQuery, preparedArgs, err := service.prepare(
		ctx,
		fmt.Sprintf(
			"%s RETURNING %s%s%s",
			query,
			service.driver.identifierQuote(),
			identityColumn,
			service.driver.identifierQuote(),
		),
		parameters,
	)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := service.db.QueryRowxContext(ctx, preparedQuery, preparedArgs...).Scan(&id); err != nil {
		return 0, err
	}

	if err := service.postRun(ctx); err != nil {
		return 0, err
	}

	return id, nil
}

func (service *Service) prepare(
	ctx context.Context,
	query string,
	parameters map[string]any,
) (string, []any, error) {
	preparedQuery, preparedArgs, err := utils.Prepare(query, parameters, service.driver.usesNumberedParameters())
	if err != nil {
		return "", nil, err
	}

	if preparedQuery == "" {
		return "", nil, ErrBlankQuery
	}

	for _, preRunFunc := range service.preRunFuncs {
		if err := preRunFunc(ctx, preparedQuery, preparedArgs); err != nil {
			return "", nil, err
		}
	}

	return preparedQuery, preparedArgs, nil
}

func (service *Service) postRun(ctx context.Context) error {
	for _, postRunFunc := range service.postRunFuncs {
		if err := postRunFunc(ctx); err != nil {
			return err
		}
	}

	return nil
}

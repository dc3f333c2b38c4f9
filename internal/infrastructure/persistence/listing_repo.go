package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"carprice/internal/domain"
	"carprice/internal/domain/entity"
	"carprice/pkg/errcodes"
)

const defaultQueryLimit = 500

const listingColumns = `
	id, source, url, brand, model, model_series, model_variant, year,
	mileage_km, price_eur, fuel, power_hp, engine_cc, transmission,
	drivetrain, body, location, equipment_tags, description,
	published_at, scraped_at, is_active`

type ListingRepository struct {
	db *sqlx.DB
}

// NewListingRepository создаёт новый экземпляр репозитория.
func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// withTx выполняет функцию в транзакции.
func (r *ListingRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// FindComparables возвращает объявления, подходящие под фильтр.
// Пустые поля фильтра пропускаются; марка и модель матчатся по подстроке
// без учёта регистра, как их вводит пользователь.
func (r *ListingRepository) FindComparables(ctx context.Context, q entity.ListingQuery) ([]entity.Listing, error) {
	conditions := make([]string, 0, 10)
	args := make([]any, 0, 10)

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if q.Brand != "" {
		addCondition("brand ILIKE '%%' || $%d || '%%'", q.Brand)
	}
	if q.Model != "" {
		args = append(args, q.Model)
		conditions = append(conditions, fmt.Sprintf(
			"(model ILIKE '%%' || $%d || '%%' OR model_series ILIKE '%%' || $%d || '%%')",
			len(args), len(args),
		))
	}
	if q.YearMin > 0 {
		addCondition("year >= $%d", q.YearMin)
	}
	if q.YearMax > 0 {
		addCondition("year <= $%d", q.YearMax)
	}
	if q.KmMin > 0 {
		addCondition("mileage_km >= $%d", q.KmMin)
	}
	if q.KmMax > 0 {
		addCondition("mileage_km <= $%d", q.KmMax)
	}
	if q.Fuel != "" {
		addCondition("fuel = $%d", string(q.Fuel))
	}
	if q.Transmission != "" {
		addCondition("transmission = $%d", string(q.Transmission))
	}
	if q.Body != "" {
		addCondition("body = $%d", string(q.Body))
	}
	if q.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if !q.FreshSince.IsZero() {
		addCondition("scraped_at >= $%d", q.FreshSince)
	}

	query := "SELECT" + listingColumns + " FROM listings"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY scraped_at DESC LIMIT $%d", len(args))

	var schemas []listingSchema
	if err := r.db.SelectContext(ctx, &schemas, query, args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to query listings")
	}

	listings := make([]entity.Listing, 0, len(schemas))
	for _, s := range schemas {
		listing, err := s.toDomain()
		if err != nil {
			return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to convert listing")
		}
		listings = append(listings, listing)
	}

	return listings, nil
}

// GetByID возвращает объявление по идентификатору.
func (r *ListingRepository) GetByID(ctx context.Context, id int64) (entity.Listing, error) {
	query := "SELECT" + listingColumns + " FROM listings WHERE id = $1"

	var schema listingSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Listing{}, domain.NewError(errcodes.ListingNotFound, "listing not found")
		}
		return entity.Listing{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get listing")
	}

	return schema.toDomain()
}

// UpsertBatch атомарно сохраняет пачку объявлений. Дубликаты по URL молча
// пропускаются, существующая запись не трогается (история цен важнее
// актуальности одной строки). Возвращает число вставленных и пропущенных.
func (r *ListingRepository) UpsertBatch(ctx context.Context, listings []entity.Listing) (saved, duplicates int, err error) {
	if len(listings) == 0 {
		return 0, 0, nil
	}

	query := `
		INSERT INTO listings (
			source, url, brand, model, model_series, model_variant, year,
			mileage_km, price_eur, fuel, power_hp, engine_cc, transmission,
			drivetrain, body, location, equipment_tags, description,
			published_at, scraped_at, is_active
		) VALUES (
			:source, :url, :brand, :model, :model_series, :model_variant, :year,
			:mileage_km, :price_eur, :fuel, :power_hp, :engine_cc, :transmission,
			:drivetrain, :body, :location, :equipment_tags, :description,
			:published_at, :scraped_at, :is_active
		)
		ON CONFLICT (url) DO NOTHING`

	err = r.withTx(ctx, func(tx *sqlx.Tx) error {
		for i, listing := range listings {
			params, convErr := fromListing(listing)
			if convErr != nil {
				return domain.WrapError(convErr, errcodes.InternalServerError,
					fmt.Sprintf("failed to convert listing at index %d", i))
			}

			res, execErr := tx.NamedExecContext(ctx, query, params)
			if execErr != nil {
				return domain.WrapError(execErr, errcodes.InternalServerError,
					fmt.Sprintf("failed to insert listing at index %d", i))
			}

			rows, raErr := res.RowsAffected()
			if raErr != nil {
				return domain.WrapError(raErr, errcodes.InternalServerError, "failed to check affected rows")
			}

			if rows == 0 {
				duplicates++
			} else {
				saved++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return saved, duplicates, nil
}

// MarkInactiveOlderThan помечает неактивными объявления, не обновлявшиеся
// дольше указанного срока. Физическое удаление не используется.
func (r *ListingRepository) MarkInactiveOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	var affected int64

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE listings
			SET is_active = FALSE
			WHERE is_active = TRUE AND scraped_at < $1`

		res, err := tx.ExecContext(ctx, query, time.Now().Add(-olderThan))
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to mark listings inactive")
		}

		affected, err = res.RowsAffected()
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}

// CountFresh возвращает число активных объявлений по марке/модели,
// собранных не раньше указанного момента.
func (r *ListingRepository) CountFresh(ctx context.Context, brand, model string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM listings
		WHERE brand ILIKE '%' || $1 || '%'
		  AND (model ILIKE '%' || $2 || '%' OR model_series ILIKE '%' || $2 || '%')
		  AND is_active = TRUE
		  AND scraped_at >= $3`

	var count int
	if err := r.db.GetContext(ctx, &count, query, brand, model, since); err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to count fresh listings")
	}

	return count, nil
}

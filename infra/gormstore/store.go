// Package gormstore implements the category and product repositories on
// GORM. It backs STORAGE_DRIVER=sqlite.
package gormstore

import (
	"context"
	"errors"
	"inventory/domain"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at path. ":memory:" is accepted and
// pinned to a single connection so every query sees the same database.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return &Store{db: db}, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&categoryRow{}, &productRow{})
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func duplicate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrDuplicateName
	}
	return err
}

func (s *Store) GetCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryRow
	if err := s.db.WithContext(ctx).Order("created_at desc, id desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, r.toDomain())
	}
	return categories, nil
}

func (s *Store) GetActiveCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryRow
	if err := s.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, r.toDomain())
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var row categoryRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return domain.Category{}, notFound(err)
	}
	return row.toDomain(), nil
}

func (s *Store) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&categoryRow{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (s *Store) CategoryNameExists(ctx context.Context, name string, exceptID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&categoryRow{}).
		Where("name = ? AND id <> ?", name, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (s *Store) CountCategoryProducts(ctx context.Context, id int64) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&productRow{}).Where("category_id = ?", id).Count(&count).Error
	return int(count), err
}

func (s *Store) CreateCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error) {
	var row categoryRow
	row.assign(in)

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Category{}, duplicate(err)
	}
	return row.toDomain(), nil
}

func (s *Store) UpdateCategory(ctx context.Context, id int64, in domain.CategoryInput) (domain.Category, error) {
	var row categoryRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		row.assign(in)
		return duplicate(tx.Save(&row).Error)
	})
	if err != nil {
		return domain.Category{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64, detachProducts bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if detachProducts {
			err := tx.Model(&productRow{}).
				Where("category_id = ?", id).
				Update("category_id", nil).Error
			if err != nil {
				return err
			}
		}

		res := tx.Delete(&categoryRow{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func (s *Store) GetProducts(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	err := s.db.WithContext(ctx).
		Preload("Category").
		Order("created_at desc, id desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		products = append(products, r.toDomain())
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	var row productRow
	if err := s.db.WithContext(ctx).Preload("Category").First(&row, "id = ?", id).Error; err != nil {
		return domain.Product{}, notFound(err)
	}
	return row.toDomain(), nil
}

func (s *Store) CreateProduct(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	var row productRow
	row.assign(in)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) UpdateProduct(ctx context.Context, id int64, in domain.ProductInput) (domain.Product, error) {
	var row productRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		row.assign(in)
		return tx.Omit(clause.Associations).Save(&row).Error
	})
	if err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&productRow{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

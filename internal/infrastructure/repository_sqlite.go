package infrastructure

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/url-scoop-go/internal/domain"
)

// SQLiteRunRepository implements RunRepository using SQLite
type SQLiteRunRepository struct {
	db *gorm.DB
}

// NewSQLiteRunRepository creates a new SQLite run-history repository
func NewSQLiteRunRepository(dbPath string) (*SQLiteRunRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Run{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteRunRepository{db: db}, nil
}

// Create creates a new run record
func (r *SQLiteRunRepository) Create(run *domain.Run) error {
	return r.db.Create(run).Error
}

// Update updates an existing run record
func (r *SQLiteRunRepository) Update(run *domain.Run) error {
	return r.db.Save(run).Error
}

// Delete deletes a run by ID
func (r *SQLiteRunRepository) Delete(id string) error {
	return r.db.Delete(&domain.Run{}, "id = ?", id).Error
}

// FindByID finds a run by ID
func (r *SQLiteRunRepository) FindByID(id string) (*domain.Run, error) {
	var run domain.Run
	err := r.db.First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FindAll finds all runs with optional filters
func (r *SQLiteRunRepository) FindAll(filters map[string]interface{}) ([]*domain.Run, error) {
	var runs []*domain.Run
	query := r.db

	for key, value := range filters {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	err := query.Order("created_at DESC").Find(&runs).Error
	return runs, err
}

// FindRecent finds the most recent runs, newest first
func (r *SQLiteRunRepository) FindRecent(limit int) ([]*domain.Run, error) {
	var runs []*domain.Run
	err := r.db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// Count returns the total number of runs
func (r *SQLiteRunRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Run{}).Count(&count).Error
	return count, err
}

// GetStats returns aggregate statistics over the run history
func (r *SQLiteRunRepository) GetStats() (*domain.RunStats, error) {
	stats := &domain.RunStats{}

	if err := r.db.Model(&domain.Run{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status domain.RunStatus
		Count  int64
	}{}

	if err := r.db.Model(&domain.Run{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.StatusQueued:
			stats.Queued = sc.Count
		case domain.StatusRunning:
			stats.Running = sc.Count
		case domain.StatusCompleted:
			stats.Completed = sc.Count
		case domain.StatusFailed:
			stats.Failed = sc.Count
		}
	}

	totals := struct {
		Files int64
		Bytes int64
	}{}
	if err := r.db.Model(&domain.Run{}).
		Select("COALESCE(SUM(success_count), 0) as files, COALESCE(SUM(total_bytes), 0) as bytes").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	stats.Files = totals.Files
	stats.TotalBytes = totals.Bytes

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteRunRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

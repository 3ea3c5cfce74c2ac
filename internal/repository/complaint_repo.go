package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/helwan-dev/smart-campus-api/internal/models"
)

// ComplaintRepository defines persistence operations for complaints.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, id uint) (models.Complaint, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Complaint, error)
	List(ctx context.Context, status string) ([]models.Complaint, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type complaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository instantiates a GORM-backed repository.
func NewComplaintRepository(db *gorm.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

func (r *complaintRepository) GetByID(ctx context.Context, id uint) (models.Complaint, error) {
	var complaint models.Complaint
	if err := r.db.WithContext(ctx).First(&complaint, id).Error; err != nil {
		return models.Complaint{}, err
	}

	return complaint, nil
}

func (r *complaintRepository) ListByUser(ctx context.Context, userID uint) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}

	return complaints, nil
}

func (r *complaintRepository) List(ctx context.Context, status string) ([]models.Complaint, error) {
	query := r.db.WithContext(ctx).Model(&models.Complaint{}).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var complaints []models.Complaint
	if err := query.Find(&complaints).Error; err != nil {
		return nil, err
	}

	return complaints, nil
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *complaintRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Complaint{}).Count(&count).Error
	return count, err
}

func (r *complaintRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

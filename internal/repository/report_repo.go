package repository

import (
	"github.com/talkboard/talkboard-backend/internal/common"
	"github.com/talkboard/talkboard-backend/internal/domain"
	"gorm.io/gorm"
)

// ReportRepository handles abuse reports
type ReportRepository interface {
	// Create inserts a report; a second report from the same submitter
	// for the same post violates the unique pair constraint.
	Create(report *domain.AbuseReport) error
	ListByPost(postID uint64) ([]domain.AbuseReport, error)
	CountByPost(postID uint64) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create inserts an abuse report, translating the unique-pair
// violation into the business error
func (r *reportRepository) Create(report *domain.AbuseReport) error {
	if err := r.db.Create(report).Error; err != nil {
		if isDuplicate(err) {
			return common.ErrDuplicateReport
		}
		return err
	}
	return nil
}

// ListByPost returns the reports filed against a post
func (r *reportRepository) ListByPost(postID uint64) ([]domain.AbuseReport, error) {
	var reports []domain.AbuseReport
	err := r.db.Where("post_id = ?", postID).
		Order("created_at").
		Find(&reports).Error
	return reports, err
}

// CountByPost counts the reports filed against a post
func (r *reportRepository) CountByPost(postID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.AbuseReport{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

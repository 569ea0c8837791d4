package storage

import (
	"childguard/backend/internal/config"
	"childguard/backend/internal/models"
	"context"

	"go.uber.org/zap"
)

// SaveReport inserts a report as a single row; ID and CreatedAt are filled in.
func (s *Service) SaveReport(report *models.Report) error {
	ctx, cancel := context.WithTimeout(s.Ctx, config.StorageOpTimeout)
	defer cancel()

	if err := s.DB.WithContext(ctx).Create(report).Error; err != nil {
		s.Logger.Error("failed to save report", zap.String("nature_of_abuse", report.NatureOfAbuse), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) GetReportByID(id string) (*models.Report, error) {
	var report models.Report
	if err := s.DB.Where("id = ?", id).First(&report).Error; err != nil {
		return nil, notFound(err)
	}
	return &report, nil
}

// ListReports returns one page of reports, newest first.
func (s *Service) ListReports(limit, offset int) ([]models.Report, error) {
	var reports []models.Report
	err := s.DB.Order("created_at desc").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		s.Logger.Error("failed to list reports", zap.Error(err))
		return nil, err
	}
	return reports, nil
}

// CountReportsByCategory groups report totals by nature of abuse.
func (s *Service) CountReportsByCategory() (map[string]int64, error) {
	var rows []struct {
		NatureOfAbuse string
		Total         int64
	}
	err := s.DB.Model(&models.Report{}).
		Select("nature_of_abuse, count(*) as total").
		Group("nature_of_abuse").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.NatureOfAbuse] = row.Total
	}
	return counts, nil
}

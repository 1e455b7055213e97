package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikkim/reelnote-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Reviews"

var exportHeaders = []interface{}{
	"영화 ID", "영화 제목", "평점", "제목", "내용", "장점", "단점", "추천", "작성일", "수정일",
}

type ExportService interface {
	// ExportUserReviews renders a user's reviews as an xlsx workbook.
	ExportUserReviews(ctx context.Context, userID string) ([]byte, error)
}

type exportService struct {
	reviews ReviewService
}

func NewExportService(reviews ReviewService) ExportService {
	return &exportService{reviews: reviews}
}

func (s *exportService) ExportUserReviews(ctx context.Context, userID string) ([]byte, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	reviews, err := s.reviews.GetUserReviews(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildReviewWorkbook(reviews)
}

func buildReviewWorkbook(reviews []model.Review) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range reviews {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			r.MovieID,
			r.MovieTitle,
			r.Rating,
			r.Title,
			r.Content,
			strings.Join(r.Pros, "\n"),
			strings.Join(r.Cons, "\n"),
			string(r.Recommendation),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

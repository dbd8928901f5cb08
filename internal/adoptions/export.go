package adoptions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"straypaws/rescue-portal/rescue-portal-backend/internal/authz"
)

var exportHeaders = []string{
	"Application ID", "Dog ID", "Applicant ID", "Organization ID",
	"Status", "Submitted At", "Reviewed At", "Reviewed By", "Notes", "Certificate URL",
}

// Export renders every application as an xlsx workbook for offline audits.
func (s *Service) Export(ctx context.Context, actor authz.Actor) ([]byte, error) {
	if err := authz.Authorize(actor, authz.ActionExportAdoptions, nil); err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()
	sheet := "Adoptions"
	file.SetSheetName("Sheet1", sheet)

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		file.SetCellValue(sheet, cell, header)
	}

	row := 2
	for offset := 0; ; offset += 200 {
		page, err := s.repo.List(ctx, Filter{Limit: 200, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, app := range page {
			values := []interface{}{
				app.ID.String(),
				app.DogID.String(),
				app.ApplicantID.String(),
				uuidOrEmpty(app.NGOID),
				string(app.Status),
				app.SubmittedAt.Format("2006-01-02 15:04:05"),
				timeOrEmpty(app),
				uuidOrEmpty(app.ReviewedBy),
				app.Notes,
				app.CertificateURL,
			}
			for col, value := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				file.SetCellValue(sheet, cell, value)
			}
			row++
		}
		if len(page) < 200 {
			break
		}
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render adoption export: %w", err)
	}
	return buf.Bytes(), nil
}

func uuidOrEmpty(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func timeOrEmpty(app AdoptionApplication) string {
	if app.ReviewedAt == nil {
		return ""
	}
	return app.ReviewedAt.Format("2006-01-02 15:04:05")
}

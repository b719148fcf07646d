package unit

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UnitService interface {
	CreateUnit(ctx context.Context, u *Unit) (*Unit, error)
	GetUnitByID(ctx context.Context, id string) (*Unit, error)
	ListUnits(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Unit, int64, error)
	UpdateUnit(ctx context.Context, id string, u *Unit) error
	ChangeStatus(ctx context.Context, id string, to UnitStatus) (*Unit, error)
	DeleteUnit(ctx context.Context, id string) error
	ExportToExcel(ctx context.Context, projectID string) ([]byte, string, error)
}

type UnitServiceImpl struct {
	UnitRepo UnitRepository
}

func NewUnitService(unitRepo UnitRepository) UnitService {
	return &UnitServiceImpl{
		UnitRepo: unitRepo,
	}
}

func (s *UnitServiceImpl) CreateUnit(ctx context.Context, u *Unit) (*Unit, error) {
	if u.Number == "" {
		return nil, fmt.Errorf("unit number is required")
	}
	if u.ProjectID.IsZero() {
		return nil, fmt.Errorf("project id is required")
	}

	u.ID = primitive.NewObjectID()
	if u.Status == "" {
		u.Status = StatusAvailable
	}
	if !ValidStatus(u.Status) {
		return nil, fmt.Errorf("unknown status %q", u.Status)
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()

	if err := s.UnitRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UnitServiceImpl) GetUnitByID(ctx context.Context, id string) (*Unit, error) {
	return s.UnitRepo.FindByID(ctx, id)
}

func (s *UnitServiceImpl) ListUnits(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Unit, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.UnitRepo.List(ctx, filter, limit, (page-1)*limit)
}

func (s *UnitServiceImpl) UpdateUnit(ctx context.Context, id string, u *Unit) error {
	u.UpdatedAt = time.Now()
	return s.UnitRepo.Update(ctx, id, u)
}

// ChangeStatus enforces the lifecycle before persisting. Sold units stay
// sold.
func (s *UnitServiceImpl) ChangeStatus(ctx context.Context, id string, to UnitStatus) (*Unit, error) {
	if !ValidStatus(to) {
		return nil, fmt.Errorf("unknown status %q", to)
	}
	u, err := s.UnitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(u.Status, to) {
		return nil, fmt.Errorf("cannot move unit from %s to %s", u.Status, to)
	}
	if err := s.UnitRepo.SetStatus(ctx, id, to); err != nil {
		return nil, err
	}
	u.Status = to
	return u, nil
}

func (s *UnitServiceImpl) DeleteUnit(ctx context.Context, id string) error {
	return s.UnitRepo.Delete(ctx, id)
}

var exportColumns = []string{"Number", "Typology", "Floor", "Area m2", "Orientation", "Price (UF)", "Status"}

// ExportToExcel renders the stock list, optionally limited to one project.
func (s *UnitServiceImpl) ExportToExcel(ctx context.Context, projectID string) ([]byte, string, error) {
	filter := map[string]interface{}{}
	if projectID != "" {
		oid, err := primitive.ObjectIDFromHex(projectID)
		if err != nil {
			return nil, "", fmt.Errorf("invalid project id")
		}
		filter["project_id"] = oid
	}
	units, _, err := s.UnitRepo.List(ctx, filter, 0, 0)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Units"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, u := range units {
		values := []interface{}{
			u.Number, u.Typology, u.Floor, u.AreaM2, u.Orientation, u.PriceUF, string(u.Status),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("units_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

package project

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectService interface {
	CreateProject(ctx context.Context, p *Project) (*Project, error)
	GetProjectByID(ctx context.Context, id string) (*Project, error)
	ListProjects(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Project, int64, error)
	UpdateProject(ctx context.Context, id string, p *Project) error
	DeleteProject(ctx context.Context, id string) error
	ExportToExcel(ctx context.Context) ([]byte, string, error)
}

type ProjectServiceImpl struct {
	ProjectRepo ProjectRepository
}

func NewProjectService(projectRepo ProjectRepository) ProjectService {
	return &ProjectServiceImpl{
		ProjectRepo: projectRepo,
	}
}

func (s *ProjectServiceImpl) CreateProject(ctx context.Context, p *Project) (*Project, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	p.ID = primitive.NewObjectID()
	if p.Status == "" {
		p.Status = "planned"
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	if err := s.ProjectRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectServiceImpl) GetProjectByID(ctx context.Context, id string) (*Project, error) {
	return s.ProjectRepo.FindByID(ctx, id)
}

func (s *ProjectServiceImpl) ListProjects(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Project, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return s.ProjectRepo.List(ctx, filter, limit, (page-1)*limit)
}

func (s *ProjectServiceImpl) UpdateProject(ctx context.Context, id string, p *Project) error {
	p.UpdatedAt = time.Now()
	return s.ProjectRepo.Update(ctx, id, p)
}

func (s *ProjectServiceImpl) DeleteProject(ctx context.Context, id string) error {
	return s.ProjectRepo.Delete(ctx, id)
}

var exportColumns = []string{"Name", "Address", "County", "Region", "Developer", "Status", "Legal ID", "Delivery Date", "Price From (UF)", "Commission %"}

// ExportToExcel renders the tenant's full project list as an xlsx workbook.
func (s *ProjectServiceImpl) ExportToExcel(ctx context.Context) ([]byte, string, error) {
	projects, _, err := s.ProjectRepo.List(ctx, map[string]interface{}{}, 0, 0)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Projects"
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

	for rowIdx, p := range projects {
		delivery := ""
		if p.DeliveryDate != nil {
			delivery = p.DeliveryDate.Format("2006-01-02")
		}
		values := []interface{}{
			p.Name, p.Address, p.CountyName, p.RegionName, p.Developer,
			p.Status, p.LegalID, delivery, p.PriceFromUF, p.CommissionPct,
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

	filename := fmt.Sprintf("projects_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

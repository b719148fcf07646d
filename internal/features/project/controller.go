package project

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

type ProjectController struct {
	ProjectService ProjectService
}

func NewProjectController(projectService ProjectService) *ProjectController {
	return &ProjectController{
		ProjectService: projectService,
	}
}

type ProjectRequest struct {
	Name          string  `json:"name"`
	Address       string  `json:"address,omitempty"`
	Developer     string  `json:"developer,omitempty"`
	Status        string  `json:"status,omitempty"`
	LegalID       string  `json:"legal_id,omitempty"`
	Description   string  `json:"description,omitempty"`
	DeliveryDate  string  `json:"delivery_date,omitempty"` // 2006-01-02
	PriceFromUF   float64 `json:"price_from_uf,omitempty"`
	CommissionPct float64 `json:"commission_pct,omitempty"`
}

func (req *ProjectRequest) apply(p *Project) error {
	p.Name = req.Name
	p.Address = req.Address
	p.Developer = req.Developer
	if req.Status != "" {
		p.Status = req.Status
	}
	p.LegalID = req.LegalID
	p.Description = req.Description
	p.PriceFromUF = req.PriceFromUF
	p.CommissionPct = req.CommissionPct
	if req.DeliveryDate != "" {
		t, err := time.Parse("2006-01-02", req.DeliveryDate)
		if err != nil {
			return err
		}
		p.DeliveryDate = &t
	}
	return nil
}

func (ctrl *ProjectController) ListProjects(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	filter := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if countyID := c.Query("county_id"); countyID != "" {
		filter["county_id"] = countyID
	}

	projects, total, err := ctrl.ProjectService.ListProjects(c.UserContext(), filter, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch projects",
		})
	}

	return c.JSON(fiber.Map{
		"projects": projects,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (ctrl *ProjectController) GetProject(c *fiber.Ctx) error {
	p, err := ctrl.ProjectService.GetProjectByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}
	return c.JSON(p)
}

func (ctrl *ProjectController) CreateProject(c *fiber.Ctx) error {
	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	p := &Project{}
	if err := req.apply(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid delivery_date, expected YYYY-MM-DD",
		})
	}

	created, err := ctrl.ProjectService.CreateProject(c.UserContext(), p)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ctrl *ProjectController) UpdateProject(c *fiber.Ctx) error {
	id := c.Params("id")

	existing, err := ctrl.ProjectService.GetProjectByID(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" {
		req.Name = existing.Name
	}
	if err := req.apply(existing); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid delivery_date, expected YYYY-MM-DD",
		})
	}

	if err := ctrl.ProjectService.UpdateProject(c.UserContext(), id, existing); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(existing)
}

func (ctrl *ProjectController) DeleteProject(c *fiber.Ctx) error {
	if err := ctrl.ProjectService.DeleteProject(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete project",
		})
	}
	return c.JSON(fiber.Map{"message": "Project deleted"})
}

func (ctrl *ProjectController) ExportProjects(c *fiber.Ctx) error {
	data, filename, err := ctrl.ProjectService.ExportToExcel(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export projects",
		})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

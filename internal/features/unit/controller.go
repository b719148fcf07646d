package unit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UnitController struct {
	UnitService UnitService
}

func NewUnitController(unitService UnitService) *UnitController {
	return &UnitController{
		UnitService: unitService,
	}
}

type UnitRequest struct {
	ProjectID   string  `json:"project_id"`
	Number      string  `json:"number"`
	Typology    string  `json:"typology,omitempty"`
	Floor       int     `json:"floor,omitempty"`
	AreaM2      float64 `json:"area_m2,omitempty"`
	Orientation string  `json:"orientation,omitempty"`
	PriceUF     float64 `json:"price_uf,omitempty"`
	Status      string  `json:"status,omitempty"`
}

func (req *UnitRequest) apply(u *Unit) error {
	if req.ProjectID != "" {
		oid, err := primitive.ObjectIDFromHex(req.ProjectID)
		if err != nil {
			return err
		}
		u.ProjectID = oid
	}
	u.Number = req.Number
	u.Typology = req.Typology
	u.Floor = req.Floor
	u.AreaM2 = req.AreaM2
	u.Orientation = req.Orientation
	u.PriceUF = req.PriceUF
	if req.Status != "" {
		u.Status = UnitStatus(req.Status)
	}
	return nil
}

func (ctrl *UnitController) ListUnits(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	filter := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if projectID := c.Query("project_id"); projectID != "" {
		oid, err := primitive.ObjectIDFromHex(projectID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid project_id",
			})
		}
		filter["project_id"] = oid
	}

	units, total, err := ctrl.UnitService.ListUnits(c.UserContext(), filter, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch units",
		})
	}

	return c.JSON(fiber.Map{
		"units": units,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (ctrl *UnitController) GetUnit(c *fiber.Ctx) error {
	u, err := ctrl.UnitService.GetUnitByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unit not found",
		})
	}
	return c.JSON(u)
}

func (ctrl *UnitController) CreateUnit(c *fiber.Ctx) error {
	var req UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	u := &Unit{}
	if err := req.apply(u); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project_id",
		})
	}

	created, err := ctrl.UnitService.CreateUnit(c.UserContext(), u)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ctrl *UnitController) UpdateUnit(c *fiber.Ctx) error {
	id := c.Params("id")

	existing, err := ctrl.UnitService.GetUnitByID(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unit not found",
		})
	}

	var req UnitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Number == "" {
		req.Number = existing.Number
	}
	// status changes go through the dedicated endpoint
	req.Status = ""
	if err := req.apply(existing); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid project_id",
		})
	}

	if err := ctrl.UnitService.UpdateUnit(c.UserContext(), id, existing); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(existing)
}

type StatusRequest struct {
	Status string `json:"status"`
}

func (ctrl *UnitController) ChangeStatus(c *fiber.Ctx) error {
	var req StatusRequest
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status is required",
		})
	}

	u, err := ctrl.UnitService.ChangeStatus(c.UserContext(), c.Params("id"), UnitStatus(req.Status))
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(u)
}

func (ctrl *UnitController) DeleteUnit(c *fiber.Ctx) error {
	if err := ctrl.UnitService.DeleteUnit(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete unit",
		})
	}
	return c.JSON(fiber.Map{"message": "Unit deleted"})
}

func (ctrl *UnitController) ExportUnits(c *fiber.Ctx) error {
	data, filename, err := ctrl.UnitService.ExportToExcel(c.UserContext(), c.Query("project_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export units",
		})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

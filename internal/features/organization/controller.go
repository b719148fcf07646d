package organization

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type OrganizationController struct {
	Repo OrganizationRepository
}

func NewOrganizationController(repo OrganizationRepository) *OrganizationController {
	return &OrganizationController{Repo: repo}
}

type UpdateOrganizationRequest struct {
	Name    string `json:"name,omitempty"`
	LegalID string `json:"legal_id,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

func (ctrl *OrganizationController) ListOrganizations(c *fiber.Ctx) error {
	orgs, err := ctrl.Repo.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch organizations",
		})
	}
	return c.JSON(fiber.Map{"organizations": orgs})
}

func (ctrl *OrganizationController) GetOrganization(c *fiber.Ctx) error {
	org, err := ctrl.Repo.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Organization not found",
		})
	}
	return c.JSON(org)
}

func (ctrl *OrganizationController) UpdateOrganization(c *fiber.Ctx) error {
	org, err := ctrl.Repo.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Organization not found",
		})
	}

	var req UpdateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name != "" {
		org.Name = req.Name
	}
	if req.LegalID != "" {
		org.LegalID = req.LegalID
	}
	if req.Address != "" {
		org.Address = req.Address
	}
	if req.Phone != "" {
		org.Phone = req.Phone
	}
	org.UpdatedAt = time.Now()

	if err := ctrl.Repo.Update(c.UserContext(), org); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update organization",
		})
	}
	return c.JSON(org)
}

package client

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type ClientController struct {
	ClientService ClientService
}

func NewClientController(clientService ClientService) *ClientController {
	return &ClientController{
		ClientService: clientService,
	}
}

type ClientRequest struct {
	Name    string `json:"name"`
	RUT     string `json:"rut,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

func (req *ClientRequest) apply(cl *Client) {
	cl.Name = req.Name
	cl.RUT = req.RUT
	cl.Email = req.Email
	cl.Phone = req.Phone
	cl.Address = req.Address
	cl.Notes = req.Notes
}

func (ctrl *ClientController) ListClients(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	clients, total, err := ctrl.ClientService.ListClients(c.UserContext(), c.Query("search"), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch clients",
		})
	}

	return c.JSON(fiber.Map{
		"clients": clients,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func (ctrl *ClientController) GetClient(c *fiber.Ctx) error {
	cl, err := ctrl.ClientService.GetClientByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Client not found",
		})
	}
	return c.JSON(cl)
}

func (ctrl *ClientController) CreateClient(c *fiber.Ctx) error {
	var req ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	cl := &Client{}
	req.apply(cl)

	created, err := ctrl.ClientService.CreateClient(c.UserContext(), cl)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ctrl *ClientController) UpdateClient(c *fiber.Ctx) error {
	id := c.Params("id")

	existing, err := ctrl.ClientService.GetClientByID(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Client not found",
		})
	}

	var req ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" {
		req.Name = existing.Name
	}
	req.apply(existing)

	if err := ctrl.ClientService.UpdateClient(c.UserContext(), id, existing); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(existing)
}

func (ctrl *ClientController) DeleteClient(c *fiber.Ctx) error {
	if err := ctrl.ClientService.DeleteClient(c.UserContext(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete client",
		})
	}
	return c.JSON(fiber.Map{"message": "Client deleted"})
}

package user

import (
	"strconv"

	"estate-crm/internal/authz"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	UserService UserService
}

func NewUserController(userService UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
}

type UpdateUserRequest struct {
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Status    string `json:"status,omitempty"`
	Role      string `json:"role,omitempty"`
}

// UpdatePermissionsRequest carries the sparse override matrix. Values are
// 0 (denied) or 1 (granted); omitting a module/action leaves it inherited.
type UpdatePermissionsRequest struct {
	CustomPermissions map[string]map[string]int `json:"custom_permissions"`
}

func (ctrl *UserController) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	filter := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}

	users, total, err := ctrl.UserService.ListUsers(c.UserContext(), filter, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (ctrl *UserController) GetUser(c *fiber.Ctx) error {
	id := c.Params("id")

	user, err := ctrl.UserService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(user)
}

func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "password is required",
		})
	}

	user := &User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      authz.RoleID(req.Role),
	}

	created, err := ctrl.UserService.CreateUser(c.UserContext(), user, req.Password)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (ctrl *UserController) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")

	existing, err := ctrl.UserService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Username != "" {
		existing.Username = req.Username
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.FirstName != "" {
		existing.FirstName = req.FirstName
	}
	if req.LastName != "" {
		existing.LastName = req.LastName
	}
	if req.Phone != "" {
		existing.Phone = req.Phone
	}
	if req.Status != "" {
		existing.Status = req.Status
	}
	if req.Role != "" {
		existing.Role = authz.RoleID(req.Role)
	}

	if err := ctrl.UserService.UpdateUser(c.UserContext(), id, existing); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(existing)
}

// UpdateUserPermissions replaces the user's custom override matrix.
func (ctrl *UserController) UpdateUserPermissions(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdatePermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	overrides := make(authz.Overrides, len(req.CustomPermissions))
	for mod, actions := range req.CustomPermissions {
		entry := make(map[authz.Action]authz.Flag, len(actions))
		for action, value := range actions {
			switch value {
			case 0:
				entry[authz.Action(action)] = authz.FlagDenied
			case 1:
				entry[authz.Action(action)] = authz.FlagGranted
			default:
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "permission values must be 0 or 1",
				})
			}
		}
		overrides[authz.Module(mod)] = entry
	}

	if err := ctrl.UserService.UpdateUserPermissions(c.UserContext(), id, overrides); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Permissions updated"})
}

func (ctrl *UserController) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := ctrl.UserService.DeleteUser(c.UserContext(), id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}

// ListRoles exposes the static role table for admin UIs.
func (ctrl *UserController) ListRoles(c *fiber.Ctx) error {
	roles := make([]fiber.Map, 0)
	for _, id := range authz.Roles() {
		roles = append(roles, fiber.Map{
			"id":          id,
			"description": authz.Description(id),
		})
	}
	return c.JSON(fiber.Map{"roles": roles})
}

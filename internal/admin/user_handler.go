package admin

import (
	"strings"

	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type UserResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role"`
	EmployeeID  string `json:"employee_id,omitempty"`
	TerminalID  string `json:"terminal_id,omitempty"`
	IsActive    bool   `json:"is_active"`
	LastLoginAt string `json:"last_login_at,omitempty"`
}

func toUserResponse(u *models.User) UserResponse {
	res := UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Username:   u.Username,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       string(u.Role),
		EmployeeID: u.EmployeeID,
		TerminalID: u.TerminalID,
		IsActive:   u.IsActive,
	}
	if u.LastLoginAt != nil {
		res.LastLoginAt = u.LastLoginAt.Format("2006-01-02 15:04:05")
	}
	return res
}

func parseRole(raw string) (models.UserRole, error) {
	role := models.UserRole(raw)
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleCashier, models.RoleViewer:
		return role, nil
	}
	return "", fiber.NewError(fiber.StatusBadRequest, "Invalid role: "+raw)
}

type CreateUserRequest struct {
	Name       string `json:"name"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	EmployeeID string `json:"employee_id"`
	TerminalID string `json:"terminal_id"`
}

// POST /api/users (admin)
func CreateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Username = strings.ToLower(strings.TrimSpace(body.Username))
		if body.Username == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name and username are required")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 8 characters")
		}

		role, err := parseRole(body.Role)
		if err != nil {
			return err
		}

		var count int64
		if err := database.DB.Model(&models.User{}).Where("username = ?", body.Username).Count(&count).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not check username")
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Username is already taken")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		user := models.User{
			Name:         strings.TrimSpace(body.Name),
			Username:     body.Username,
			Email:        strings.ToLower(strings.TrimSpace(body.Email)),
			Phone:        strings.TrimSpace(body.Phone),
			PasswordHash: string(hash),
			Role:         role,
			EmployeeID:   strings.TrimSpace(body.EmployeeID),
			TerminalID:   strings.TrimSpace(body.TerminalID),
			IsActive:     true,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}

		actorID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      actorID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionCreate,
			Description: "Created user " + user.Username,
			IPAddress:   c.IP(),
			After:       toUserResponse(&user),
		})

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(&user))
	}
}

// GET /api/users?role=&active= (admin)
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.User{})
		if role := c.Query("role"); role != "" {
			dbq = dbq.Where("role = ?", role)
		}
		if active := c.Query("active"); active != "" {
			dbq = dbq.Where("is_active = ?", active == "true")
		}

		var users []models.User
		if err := dbq.Order("username").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list users")
		}

		res := make([]UserResponse, 0, len(users))
		for i := range users {
			res = append(res, toUserResponse(&users[i]))
		}
		return c.JSON(res)
	}
}

type UpdateUserRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Role       *string `json:"role"`
	EmployeeID *string `json:"employee_id"`
	TerminalID *string `json:"terminal_id"`
	IsActive   *bool   `json:"is_active"`
}

// PUT /api/users/:id (admin)
func UpdateUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body UpdateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		before := toUserResponse(&user)

		actorID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		if body.Name != nil {
			user.Name = strings.TrimSpace(*body.Name)
		}
		if body.Email != nil {
			user.Email = strings.ToLower(strings.TrimSpace(*body.Email))
		}
		if body.Phone != nil {
			user.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Role != nil {
			role, err := parseRole(*body.Role)
			if err != nil {
				return err
			}
			if user.ID == actorID && role != models.RoleAdmin {
				return fiber.NewError(fiber.StatusBadRequest, "You cannot demote yourself")
			}
			user.Role = role
		}
		if body.EmployeeID != nil {
			user.EmployeeID = strings.TrimSpace(*body.EmployeeID)
		}
		if body.TerminalID != nil {
			user.TerminalID = strings.TrimSpace(*body.TerminalID)
		}
		if body.IsActive != nil {
			if user.ID == actorID && !*body.IsActive {
				return fiber.NewError(fiber.StatusBadRequest, "You cannot deactivate yourself")
			}
			user.IsActive = *body.IsActive
		}

		if err := database.DB.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update user")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      actorID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionUpdate,
			Description: "Updated user " + user.Username,
			IPAddress:   c.IP(),
			Before:      before,
			After:       toUserResponse(&user),
		})

		return c.JSON(toUserResponse(&user))
	}
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// POST /api/users/:id/reset-password (admin)
func ResetPasswordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body ResetPasswordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.Password) < 8 {
			return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 8 characters")
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}
		if err := database.DB.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update password")
		}

		actorID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      actorID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "user",
			EntityID:    user.ID,
			Action:      models.AuditActionUpdate,
			Description: "Reset password for " + user.Username,
			IPAddress:   c.IP(),
		})

		return c.JSON(fiber.Map{"message": "Password updated"})
	}
}

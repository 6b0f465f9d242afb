package customers

import (
	"strings"

	"pos-backend/internal/auth"
	"pos-backend/internal/audit"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NoteResponse struct {
	ID        uint   `json:"id"`
	Note      string `json:"note"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

// GET /api/customers/:id/notes
func ListNotesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID := c.Params("id")

		var notes []models.CustomerNote
		if err := database.DB.Preload("CreatedBy").
			Where("customer_id = ?", customerID).
			Order("created_at DESC").Find(&notes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list notes")
		}

		res := make([]NoteResponse, 0, len(notes))
		for _, n := range notes {
			createdBy := ""
			if n.CreatedBy != nil {
				createdBy = n.CreatedBy.Name
			}
			res = append(res, NoteResponse{
				ID:        n.ID,
				Note:      n.Note,
				CreatedBy: createdBy,
				CreatedAt: n.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}

// POST /api/customers/:id/notes
func CreateNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID := c.Params("id")

		var cu models.Customer
		if err := database.DB.First(&cu, "id = ?", customerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Customer not found")
		}

		var body struct {
			Note string `json:"note"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Note = strings.TrimSpace(body.Note)
		if body.Note == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Note cannot be empty")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		note := models.CustomerNote{
			CustomerID:  cu.ID,
			Note:        body.Note,
			CreatedByID: &userID,
		}

		if err := database.DB.Create(&note).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create note")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "customer_note",
			EntityID:    note.ID,
			Action:      models.AuditActionCreate,
			Description: "Added note for customer " + cu.Code,
			After:       note,
		})

		return c.Status(fiber.StatusCreated).JSON(NoteResponse{
			ID:        note.ID,
			Note:      note.Note,
			CreatedAt: note.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// DELETE /api/customers/:id/notes/:noteID
func DeleteNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID := c.Params("id")
		noteID := c.Params("noteID")

		var note models.CustomerNote
		if err := database.DB.Where("id = ? AND customer_id = ?", noteID, customerID).First(&note).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Note not found")
		}

		if err := database.DB.Delete(&note).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete note")
		}

		userID, _ := auth.CurrentUserID(c)
		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    auth.CurrentUserName(c),
			EntityType:  "customer_note",
			EntityID:    note.ID,
			Action:      models.AuditActionDelete,
			Description: "Deleted customer note",
			Before:      note,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

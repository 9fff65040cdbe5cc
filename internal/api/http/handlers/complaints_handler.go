package handlers

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-desk/internal/api/dto"
	"github.com/spec-kit/complaint-desk/internal/domain"
	"github.com/spec-kit/complaint-desk/internal/service"
	"github.com/spec-kit/complaint-desk/internal/storage"
	apperrors "github.com/spec-kit/complaint-desk/pkg/errorutil"
)

// ComplaintsHandler serves the complaint endpoints of the operator panel.
type ComplaintsHandler struct {
	registry *service.Registry
	images   storage.ImageStore
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(registry *service.Registry, images storage.ImageStore) *ComplaintsHandler {
	return &ComplaintsHandler{registry: registry, images: images}
}

// ListComplaints GET /api/complaints.
func (h *ComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	var query dto.ComplaintListQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	if s, ok := domain.ParseStatus(query.Status); ok {
		query.Status = string(s)
	}
	if err := dto.Validate(query); err != nil {
		return err
	}

	names := h.departmentNames()
	items := make([]dto.ComplaintResponse, 0)
	for _, complaint := range h.registry.Complaints() {
		if query.Status != "" && string(complaint.Status) != query.Status {
			continue
		}
		if query.DepartmentID != "" && complaint.DepartmentID != query.DepartmentID {
			continue
		}
		items = append(items, dto.NewComplaintResponse(complaint, names[complaint.DepartmentID]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetComplaint GET /api/complaints/:id.
func (h *ComplaintsHandler) GetComplaint(c *fiber.Ctx) error {
	complaint, err := h.registry.Complaint(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.response(complaint)})
}

// CreateComplaint POST /api/complaints.
func (h *ComplaintsHandler) CreateComplaint(c *fiber.Ctx) error {
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if isMultipart(c) {
		file, err := imagePart(c)
		if err != nil {
			return err
		}
		if file != nil {
			upload, err := readUpload(file)
			if err != nil {
				return err
			}
			url, err := h.images.Store(c.UserContext(), upload)
			if err != nil {
				return err
			}
			req.ImageURL = url
		}
	}

	change, err := h.registry.CreateComplaint(c.UserContext(), service.CreateComplaintInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		DepartmentID: req.DepartmentID,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(h.mutation(change))
}

// AddAction POST /api/complaints/:id/actions.
func (h *ComplaintsHandler) AddAction(c *fiber.Ctx) error {
	var req dto.AddActionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	change, err := h.registry.AddAction(c.UserContext(), c.Params("id"), service.AddActionInput{
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(h.mutation(change))
}

// SetStatus PUT /api/complaints/:id/status.
func (h *ComplaintsHandler) SetStatus(c *fiber.Ctx) error {
	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	status, ok := domain.ParseStatus(req.Status)
	if !ok {
		return apperrors.NewValidationError("unknown status", map[string]any{
			"status":  req.Status,
			"allowed": domain.AllStatuses,
		})
	}
	change, err := h.registry.SetStatus(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(h.mutation(change))
}

func (h *ComplaintsHandler) mutation(change service.ComplaintChange) fiber.Map {
	resp := fiber.Map{
		"data":    h.response(change.Complaint),
		"changed": change.Changed,
	}
	if change.Notification != nil {
		resp["message"] = change.Notification.Notice
		resp["notification"] = dto.NewNotificationResponse(change.Notification)
	}
	return resp
}

func (h *ComplaintsHandler) response(complaint domain.Complaint) dto.ComplaintResponse {
	var name string
	if dept, err := h.registry.Department(complaint.DepartmentID); err == nil {
		name = dept.Name
	}
	return dto.NewComplaintResponse(complaint, name)
}

func (h *ComplaintsHandler) departmentNames() map[string]string {
	depts := h.registry.Departments()
	names := make(map[string]string, len(depts))
	for _, d := range depts {
		names[d.ID] = d.Name
	}
	return names
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// imagePart returns the "image" file part, or nil when none was sent.
func imagePart(c *fiber.Ctx) (*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewValidationError("malformed multipart body", map[string]any{"image": "unreadable"})
	}
	files := form.File["image"]
	switch {
	case len(form.Value["image"]) > 0:
		return nil, apperrors.NewValidationError("image must be sent as a file", map[string]any{"image": "not_a_file"})
	case len(files) > 1:
		return nil, apperrors.NewValidationError("only one image is accepted", map[string]any{"image": "too_many"})
	case len(files) == 0:
		return nil, nil
	}
	return files[0], nil
}

func readUpload(file *multipart.FileHeader) (storage.Upload, error) {
	f, err := file.Open()
	if err != nil {
		return storage.Upload{}, apperrors.NewValidationError("unreadable image", map[string]any{"image": "unreadable"})
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return storage.Upload{}, apperrors.NewValidationError("unreadable image", map[string]any{"image": "unreadable"})
	}
	return storage.Upload{
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

package controllers

import (
	"CourseShelf/models"
	"CourseShelf/services"
	"CourseShelf/storage"
	"CourseShelf/utils"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// MaxUploadSize is the ceiling for a single uploaded file.
const MaxUploadSize = 50 * 1024 * 1024

// allowedUploadTypes maps each accepted extension to the declared
// content types it may arrive with. Both the extension and the declared
// type must match for an upload to reach the store.
var allowedUploadTypes = map[string][]string{
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	".txt":  {"text/plain"},
	".png":  {"image/png"},
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
}

var (
	uploadCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "courseshelf_uploads_total",
		Help: "Total number of file uploads",
	})
	textSaveCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "courseshelf_text_saves_total",
		Help: "Total number of text saves",
	})
	downloadCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "courseshelf_downloads_total",
		Help: "Total number of file downloads",
	})
	deleteCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "courseshelf_deletes_total",
		Help: "Total number of content deletions",
	})
)

func init() {
	prometheus.MustRegister(uploadCounter, textSaveCounter, downloadCounter, deleteCounter)
}

// ContentController serves the content-slot endpoints.
type ContentController struct {
	Service *services.ContentService
	Storage storage.Storage
}

// NewContentController creates a new instance of ContentController.
func NewContentController(service *services.ContentService, blobs storage.Storage) *ContentController {
	return &ContentController{Service: service, Storage: blobs}
}

// Health reports liveness.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

type saveTextRequest struct {
	Subject string `json:"subject"`
	Feature string `json:"feature"`
	Chapter int    `json:"chapter"`
	Content string `json:"content"`
}

// Upload handles a multipart file upload into a slot. Validation happens
// entirely here: the store is never invoked for a rejected file.
func (ctl *ContentController) Upload(c echo.Context) error {
	uploadCounter.Inc()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "No file uploaded"})
	}
	if fileHeader.Size > MaxUploadSize {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"success": false, "message": "File exceeds the 50MB limit"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	declared := fileHeader.Header.Get("Content-Type")
	if !uploadTypeAllowed(ext, declared) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "File type not allowed"})
	}

	chapter, err := strconv.Atoi(c.FormValue("chapter"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Chapter must be a number"})
	}
	key := models.SlotKey{
		Subject: c.FormValue("subject"),
		Feature: c.FormValue("feature"),
		Chapter: chapter,
	}

	src, err := fileHeader.Open()
	if err != nil {
		return services.WrapError(services.KindStorageFault, "Failed to process request", err)
	}
	defer src.Close()

	blobName := utils.GenerateBlobName(fileHeader.Filename)
	if _, err := ctl.Storage.Upload(src, blobName); err != nil {
		return services.WrapError(services.KindStorageFault, "Failed to process request", err)
	}

	item, err := ctl.Service.PutFile(c.Request().Context(), key, blobName)
	if err != nil {
		// The blob is already durable; if the metadata write failed it
		// becomes an orphan and the sweep reclaims it.
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "filePath": *item.FilePath})
}

// SaveText stores an inline text blob into a slot.
func (ctl *ContentController) SaveText(c echo.Context) error {
	textSaveCounter.Inc()

	var req saveTextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid request body"})
	}
	key := models.SlotKey{Subject: req.Subject, Feature: req.Feature, Chapter: req.Chapter}

	if _, err := ctl.Service.PutText(c.Request().Context(), key, req.Content); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetContent returns the single item at the addressed slot.
func (ctl *ContentController) GetContent(c echo.Context) error {
	chapter, err := strconv.Atoi(c.Param("chapter"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Chapter must be a number"})
	}
	key := models.SlotKey{
		Subject: c.Param("subject"),
		Feature: c.Param("feature"),
		Chapter: chapter,
	}

	item, err := ctl.Service.Get(c.Request().Context(), key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "content": item})
}

// ListContent returns every item, ordered by subject, feature, chapter.
func (ctl *ContentController) ListContent(c echo.Context) error {
	items, err := ctl.Service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "content": items})
}

// DeleteContent removes the item with the given id.
func (ctl *ContentController) DeleteContent(c echo.Context) error {
	deleteCounter.Inc()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid content id"})
	}
	if err := ctl.Service.Delete(c.Request().Context(), uint(id)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Download streams a stored blob as an attachment.
func (ctl *ContentController) Download(c echo.Context) error {
	downloadCounter.Inc()

	filename := filepath.Base(c.Param("filename"))
	file, err := ctl.Storage.Download(filename)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "File not found"})
	}
	defer file.Close()

	return c.Attachment(file.Name(), filename)
}

func uploadTypeAllowed(ext, declared string) bool {
	// A declared type may carry parameters ("text/plain; charset=utf-8").
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = declared[:i]
	}
	declared = strings.TrimSpace(declared)
	for _, mime := range allowedUploadTypes[ext] {
		if mime == declared {
			return true
		}
	}
	return false
}

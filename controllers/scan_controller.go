package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/mathacharan30/nutricompare-atme/apperrors"
	"github.com/mathacharan30/nutricompare-atme/models"
	"github.com/mathacharan30/nutricompare-atme/services"
	"github.com/mathacharan30/nutricompare-atme/utils"
)

const (
	defaultScanListLimit = 20
	maxScanListLimit     = 100

	// room for multipart headers or the JSON envelope around the image
	requestOverheadBytes = 64 << 10
)

type ScanController struct {
	Svc *services.ScanService
}

func NewScanController(svc *services.ScanService) *ScanController {
	return &ScanController{Svc: svc}
}

// POST /api/scan  (multipart field "file")
func (h *ScanController) Upload(c *gin.Context) {
	h.limitBody(c, h.Svc.MaxBytes+requestOverheadBytes)

	fh, err := c.FormFile("file")
	if isBodyTooLarge(err) {
		respondError(c, h.tooLarge())
		return
	}
	if err != nil {
		respondError(c, apperrors.NewValidationError("file", "an image file is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, apperrors.ErrBadRequest.WithError(err))
		return
	}
	defer f.Close()

	// Read one byte past the limit so oversize uploads are reported as such.
	data, err := io.ReadAll(io.LimitReader(f, h.Svc.MaxBytes+1))
	if err != nil {
		respondError(c, apperrors.ErrBadRequest.WithError(fmt.Errorf("read upload: %w", err)))
		return
	}

	scan, err := h.Svc.Scan(c.Request.Context(), services.ScanInput{
		Source:      models.SourceUpload,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
		Locale:      localeTag(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scan)
}

type captureRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
}

// POST /api/scan/capture  { "image_base64": "data:image/png;base64,..." }
func (h *ScanController) Capture(c *gin.Context) {
	// base64 grows the image by 4/3
	h.limitBody(c, h.Svc.MaxBytes/3*4+requestOverheadBytes)

	var req captureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			respondError(c, h.tooLarge())
			return
		}
		respondError(c, apperrors.ParseValidationErrors(err))
		return
	}

	contentType, data, err := utils.DecodeDataURI(req.ImageBase64)
	if err != nil {
		respondError(c, apperrors.NewValidationError("image_base64", err.Error()))
		return
	}

	scan, err := h.Svc.Scan(c.Request.Context(), services.ScanInput{
		Source:      models.SourceCamera,
		Filename:    "capture" + utils.ImageExtension(contentType),
		ContentType: contentType,
		Data:        data,
		Locale:      localeTag(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scan)
}

// POST /api/scan/barcode
func (h *ScanController) Barcode(c *gin.Context) {
	_, err := h.Svc.Scan(c.Request.Context(), services.ScanInput{Source: models.SourceBarcode})
	respondError(c, err)
}

// GET /api/scans?limit=20
func (h *ScanController) List(c *gin.Context) {
	limit := defaultScanListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(c, apperrors.NewValidationError("limit", "limit must be a positive integer"))
			return
		}
		limit = min(n, maxScanListLimit)
	}

	scans, err := h.Svc.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scans": scans})
}

// GET /api/scans/:id
func (h *ScanController) Get(c *gin.Context) {
	scan, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, scan)
}

// limitBody caps how much of the request body can be read or spooled.
func (h *ScanController) limitBody(c *gin.Context, n int64) {
	if h.Svc.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
	}
}

func (h *ScanController) tooLarge() error {
	return apperrors.ErrPayloadTooLarge.WithMessage(fmt.Sprintf(
		"request is larger than the %s image limit", humanize.Bytes(uint64(h.Svc.MaxBytes)),
	))
}

func isBodyTooLarge(err error) bool {
	if err == nil {
		return false
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	// multipart parsing does not always wrap the reader error
	return strings.Contains(err.Error(), "http: request body too large")
}

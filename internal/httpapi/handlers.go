package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RakanBA/AYAN/internal/app"
	"github.com/RakanBA/AYAN/internal/catalog"
	"github.com/RakanBA/AYAN/internal/i18n"
	"github.com/RakanBA/AYAN/internal/logger"
	"github.com/RakanBA/AYAN/internal/navigation"
	"github.com/RakanBA/AYAN/internal/recognition"
)

const maxCaptureBytes = 10 << 20

// OriginPolicy reports whether the client reached us over an encrypted
// origin.
type OriginPolicy func(r *http.Request) bool

type Handler struct {
	core         *app.Core
	log          *logger.Logger
	originSecure OriginPolicy
}

// NewHandler serves core. A nil policy derives the origin scheme from the
// request itself.
func NewHandler(core *app.Core, log *logger.Logger, policy OriginPolicy) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	if policy == nil {
		policy = func(r *http.Request) bool {
			return strings.HasPrefix(requestBaseURL(r), "https://")
		}
	}
	return &Handler{core: core, log: log, originSecure: policy}
}

// FixedOrigin is an OriginPolicy that ignores the request.
func FixedOrigin(secure bool) OriginPolicy {
	return func(*http.Request) bool { return secure }
}

type navigateRequest struct {
	Screen string `json:"screen"`
}

type languageRequest struct {
	Language string `json:"language"`
}

type captureRequest struct {
	ImageDataURL string `json:"image_data_url"`
}

type identifyFailure struct {
	Error   string      `json:"error"`
	Failure app.Failure `json:"failure"`
	View    app.View    `json:"view"`
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) state(c *gin.Context) {
	c.JSON(http.StatusOK, h.core.View())
}

func (h *Handler) navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug("navigate decode error", "err", err)
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	screen, err := navigation.ParseScreen(strings.TrimSpace(req.Screen))
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.core.Navigate(screen); err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.core.View())
}

func (h *Handler) back(c *gin.Context) {
	h.core.GoBack()
	c.JSON(http.StatusOK, h.core.View())
}

func (h *Handler) startScan(c *gin.Context) {
	if err := h.core.StartScan(); err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.core.View())
}

// capture accepts a multipart "file" upload or a JSON image_data_url.
func (h *Handler) capture(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCaptureBytes)

	var (
		img recognition.Image
		err error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		img, err = readMultipartImage(c)
	} else {
		var req captureRequest
		if err = c.ShouldBindJSON(&req); err == nil {
			img, err = recognition.DecodeDataURL(req.ImageDataURL)
		}
	}
	if err != nil {
		h.log.Debug("capture decode error", "err", err)
		writeError(c, http.StatusBadRequest, "a captured image is required")
		return
	}

	if err := h.core.SubmitCapture(img); err != nil {
		writeCoreError(c, err)
		return
	}
	h.log.Info("capture submitted", "bytes", len(img.Data), "mime", img.MIMEType)
	c.JSON(http.StatusOK, h.core.View())
}

func readMultipartImage(c *gin.Context) (recognition.Image, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return recognition.Image{}, err
	}
	file, err := header.Open()
	if err != nil {
		return recognition.Image{}, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return recognition.Image{}, err
	}
	if len(data) == 0 {
		return recognition.Image{}, recognition.ErrEmptyImage
	}
	mime := strings.TrimSpace(header.Header.Get("Content-Type"))
	if mime == "" || mime == "application/octet-stream" {
		mime = http.DetectContentType(data)
	}
	return recognition.Image{Data: data, MIMEType: mime, FileName: header.Filename}, nil
}

func (h *Handler) identify(c *gin.Context) {
	_, err := h.core.Identify(c.Request.Context(), h.originSecure(c.Request))
	if err == nil {
		c.JSON(http.StatusOK, h.core.View())
		return
	}

	switch {
	case errors.Is(err, app.ErrIdentifyInProgress), errors.Is(err, app.ErrNoCapture), errors.Is(err, app.ErrCaptureDiscarded):
		h.log.Info("identify conflict", "err", err)
		writeError(c, http.StatusConflict, err.Error())
		return
	}

	failure, _ := h.core.Failure()
	resp := identifyFailure{Error: err.Error(), Failure: failure, View: h.core.View()}
	switch {
	case errors.Is(err, recognition.ErrNotABuilding), errors.Is(err, recognition.ErrLandmarkNotFound):
		c.JSON(http.StatusUnprocessableEntity, resp)
	case errors.Is(err, recognition.ErrService):
		h.log.Warn("identify upstream failure", "err", err)
		c.JSON(http.StatusBadGateway, resp)
	case errors.Is(err, recognition.ErrInsecureTransport):
		h.log.Warn("identify blocked by insecure classifier endpoint", "err", err)
		c.JSON(http.StatusBadRequest, resp)
	default:
		h.log.Error("identify internal error", "err", err)
		c.JSON(http.StatusInternalServerError, resp)
	}
}

func (h *Handler) retry(c *gin.Context) {
	h.core.Retry()
	c.JSON(http.StatusOK, h.core.View())
}

func (h *Handler) cancel(c *gin.Context) {
	h.core.Cancel()
	c.JSON(http.StatusOK, h.core.View())
}

func (h *Handler) scanAgain(c *gin.Context) {
	if err := h.core.ScanAgain(); err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.core.View())
}

func (h *Handler) openLandmark(c *gin.Context) {
	if _, err := h.core.OpenLandmark(c.Param("id")); err != nil {
		writeCoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.core.View())
}

func (h *Handler) landmarks(c *gin.Context) {
	page := 1
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(c, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = parsed
	}
	sort := strings.TrimSpace(c.DefaultQuery("sort", catalog.SortNameAsc))
	if sort != catalog.SortNameAsc && sort != catalog.SortNameDesc {
		writeError(c, http.StatusBadRequest, "sort must be name-asc or name-desc")
		return
	}
	result := h.core.Explore(catalog.Query{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     sort,
		Page:     page,
	})
	c.JSON(http.StatusOK, result)
}

func (h *Handler) setLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	lang, ok := i18n.ParseLanguage(req.Language)
	if !ok {
		writeError(c, http.StatusBadRequest, "unsupported language")
		return
	}
	if err := h.core.SetLanguage(c.Request.Context(), lang); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, h.core.View())
}

func (h *Handler) dismissBadge(c *gin.Context) {
	h.core.DismissBadge()
	c.JSON(http.StatusOK, h.core.View())
}

func (h *Handler) history(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": h.core.History()})
}

func (h *Handler) messages(c *gin.Context) {
	lang, ok := i18n.ParseLanguage(c.Param("lang"))
	if !ok {
		writeError(c, http.StatusNotFound, "unsupported language")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"language":  lang,
		"direction": i18n.DirectionOf(lang),
		"messages":  i18n.Messages(lang),
	})
}

// writeCoreError maps a rejected core command to a status code.
func writeCoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrFailurePending):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, app.ErrUnknownLandmark):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusBadRequest, err.Error())
	}
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

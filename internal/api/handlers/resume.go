package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-render/internal/api/middleware"
	"resume-render/internal/api/validation"
	"resume-render/internal/logging"
	"resume-render/internal/pdf"
	"resume-render/pkg/models"
	"resume-render/pkg/utils"
)

// Pipeline is the compile service behind the resume endpoints
type Pipeline interface {
	Compile(ctx context.Context, data *models.ResumeData) (*models.RenderedDocument, error)
	Latest(ctx context.Context) (*models.RenderedDocument, bool, error)
}

// CompileResumeHandler handles POST /api/v1/resume/compile
func CompileResumeHandler(pipeline Pipeline) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := middleware.RequestID(c)
		logger := logging.LogWithRequestID(requestID)

		logger.Info("Processing resume compile request", map[string]interface{}{
			"endpoint": "/api/v1/resume/compile",
			"method":   "POST",
		})

		var req models.ResumeData
		if err := c.Bind(&req); err != nil {
			logger.Warn("Failed to parse request body", map[string]interface{}{"error": err.Error()})
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return writeError(c, requestID, utils.NewRequestTooLargeError(tooLarge.Limit))
			}
			return writeError(c, requestID, utils.NewBadRequestError("Invalid request body"))
		}

		doc, err := pipeline.Compile(c.Request().Context(), &req)
		if err != nil {
			return writeError(c, requestID, err)
		}

		logger.Info("Resume compile completed", map[string]interface{}{
			"latex_length":    doc.LatexLength,
			"processing_time": utils.FormatDuration(time.Since(startTime)),
		})
		return c.JSON(http.StatusOK, models.NewCompileResponse(doc))
	}
}

// LatestResumeHandler handles GET /api/v1/resume/latest
func LatestResumeHandler(pipeline Pipeline) echo.HandlerFunc {
	return withLatest(pipeline, func(c echo.Context, doc *models.RenderedDocument) error {
		return c.JSON(http.StatusOK, models.NewCompileResponse(doc))
	})
}

// LatestPDFHandler serves the latest document as a PDF file
func LatestPDFHandler(pipeline Pipeline) echo.HandlerFunc {
	return withLatest(pipeline, func(c echo.Context, doc *models.RenderedDocument) error {
		raw, err := pdf.DecodeDataURI(doc.PDFDataURI)
		if err != nil {
			return writeError(c, middleware.RequestID(c), utils.NewInvariantError(err.Error()))
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="resume.pdf"`)
		return c.Blob(http.StatusOK, pdf.MimeType, raw)
	})
}

// LatestPreviewHandler serves the latest preview fragment
func LatestPreviewHandler(pipeline Pipeline) echo.HandlerFunc {
	return withLatest(pipeline, func(c echo.Context, doc *models.RenderedDocument) error {
		return c.HTML(http.StatusOK, doc.PreviewHTML)
	})
}

// LatestLatexHandler serves the latest LaTeX source as plain text
func LatestLatexHandler(pipeline Pipeline) echo.HandlerFunc {
	return withLatest(pipeline, func(c echo.Context, doc *models.RenderedDocument) error {
		c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="resume.tex"`)
		return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, []byte(doc.LatexSource))
	})
}

func withLatest(pipeline Pipeline, serve func(echo.Context, *models.RenderedDocument) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := middleware.RequestID(c)

		doc, ok, err := pipeline.Latest(c.Request().Context())
		if err != nil {
			return writeError(c, requestID, err)
		}
		if !ok {
			return writeError(c, requestID, utils.NewNotFoundError("No document has been compiled yet"))
		}
		return serve(c, doc)
	}
}

func writeError(c echo.Context, requestID string, err error) error {
	e := utils.ClassifyError(err)
	resp := models.ErrorResponse{
		Error:     e.Kind,
		Message:   e.Message,
		RequestID: requestID,
		Timestamp: time.Now(),
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}

	logger := logging.LogWithRequestID(requestID)
	if e.Code >= http.StatusInternalServerError {
		logger.Error("Request failed", map[string]interface{}{"error": err.Error(), "status": e.Code})
	} else {
		logger.Warn("Request rejected", map[string]interface{}{"error": err.Error(), "status": e.Code})
	}

	return c.JSON(e.Code, resp)
}

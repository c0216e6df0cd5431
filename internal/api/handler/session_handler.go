package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/scooter7/credo-etl/internal/dto"
	"github.com/scooter7/credo-etl/internal/ingest"
	"github.com/scooter7/credo-etl/internal/pipeline"
	"github.com/scooter7/credo-etl/internal/service"
	"github.com/scooter7/credo-etl/internal/transform"
	pkgerrors "github.com/scooter7/credo-etl/pkg/errors"
	"github.com/scooter7/credo-etl/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SessionHandler 分析会话 HTTP 处理器
type SessionHandler struct {
	sessionSvc  service.SessionService
	analysisSvc service.AnalysisService
	exportSvc   service.ExportService
	summarySvc  service.SummaryService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(
	sessionSvc service.SessionService,
	analysisSvc service.AnalysisService,
	exportSvc service.ExportService,
	summarySvc service.SummaryService,
) *SessionHandler {
	return &SessionHandler{
		sessionSvc:  sessionSvc,
		analysisSvc: analysisSvc,
		exportSvc:   exportSvc,
		summarySvc:  summarySvc,
	}
}

// Create 创建会话并签发会话令牌
// POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	created, err := h.sessionSvc.Create(c.Request.Context())
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.Created(c, created)
}

// Get 会话状态
// GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	status, err := h.sessionSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.OK(c, status)
}

// Delete 丢弃会话
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	if err := h.sessionSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.OK(c, nil)
}

// Upload 上传文件（multipart 字段 file，可重复）
// POST /api/v1/sessions/:id/files
func (h *SessionHandler) Upload(c *gin.Context) {
	id, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "上传文件过大")
		return
	}
	if err != nil || len(form.File["file"]) == 0 {
		response.BadRequest(c, 10001, "请通过 file 字段上传文件")
		return
	}

	uploaded := make([]*dto.FileResponse, 0, len(form.File["file"]))
	for _, fh := range form.File["file"] {
		src, err := fh.Open()
		if err != nil {
			response.BadRequest(c, 10001, "无法读取上传文件")
			return
		}
		resp, err := h.sessionSvc.Upload(c.Request.Context(), id, fh.Filename, src)
		src.Close()
		if err != nil {
			h.handleSessionError(c, err)
			return
		}
		uploaded = append(uploaded, resp)
	}
	response.Created(c, uploaded)
}

// Transform 构建标准表与派生表
// POST /api/v1/sessions/:id/transform
func (h *SessionHandler) Transform(c *gin.Context) {
	id, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.TransformRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	resp, err := h.analysisSvc.Transform(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.OK(c, resp)
}

// Analyze 计算利用率与冲突
// POST /api/v1/sessions/:id/analyze
func (h *SessionHandler) Analyze(c *gin.Context) {
	id, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.AnalyzeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "standard_hours_per_week 必须在 (0, 80] 之间")
			return
		}
	}

	resp, err := h.analysisSvc.Analyze(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.OK(c, resp)
}

// GetTable 读取一张数据表
// GET /api/v1/sessions/:id/tables/:name
func (h *SessionHandler) GetTable(c *gin.Context) {
	id, ok := MustGetSessionID(c)
	if !ok {
		return
	}
	tbl, err := h.analysisSvc.Table(c.Request.Context(), id, c.Param("name"))
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.OK(c, tbl)
}

// Export 下载七表工作簿
// GET /api/v1/sessions/:id/export
func (h *SessionHandler) Export(c *gin.Context) {
	id, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportWorkbook(c.Request.Context(), id)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Summary 冲突与利用率文字摘要
// POST /api/v1/sessions/:id/summary
func (h *SessionHandler) Summary(c *gin.Context) {
	id, ok := MustGetSessionID(c)
	if !ok {
		return
	}

	var req dto.SummaryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	resp, err := h.summarySvc.Summarize(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrSessionNotFound):
		response.NotFound(c, 20001, "会话不存在")
	case errors.Is(err, pkgerrors.ErrSessionExpired):
		response.Gone(c, 20002, "会话已过期，请重新创建")
	case errors.Is(err, service.ErrFileNameEmpty):
		response.BadRequest(c, 20101, "文件名不能为空")
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		response.Error(c, http.StatusUnsupportedMediaType, 20102, "不支持的文件格式，请上传 xlsx/xlsm/csv/ics/txt/md/pdf")
	case errors.Is(err, ingest.ErrEmptyFile):
		response.BadRequest(c, 20103, "文件内容为空")
	case errors.Is(err, pipeline.ErrFileNotFound):
		response.NotFound(c, 20104, "会话中不存在该文件")
	case errors.Is(err, pipeline.ErrSheetNotFound):
		response.NotFound(c, 20105, "文件中不存在该工作表")
	case errors.Is(err, pipeline.ErrStageNotReady):
		response.Conflict(c, 21001, err.Error())
	case errors.Is(err, pipeline.ErrUnknownTable):
		response.NotFound(c, 21002, "未知的数据表名称")
	case errors.Is(err, transform.ErrEmptySchedule),
		errors.Is(err, transform.ErrMissingCourseID),
		errors.Is(err, transform.ErrEmptyCourseID):
		response.UnprocessableEntity(c, 21101, "无法构建课程排课表", err.Error())
	case errors.Is(err, transform.ErrEmptyLookup),
		errors.Is(err, transform.ErrMissingRoomMapping):
		response.UnprocessableEntity(c, 21102, "无法构建校园教室表，请指定列映射", err.Error())
	case errors.Is(err, transform.ErrLookupNotFound):
		response.UnprocessableEntity(c, 21103, "未检测到楼宇/教室对照表，请手动选择", err.Error())
	case errors.Is(err, service.ErrSummaryDisabled):
		response.ServiceUnavailable(c, 23001, "文字摘要功能未启用")
	case errors.Is(err, service.ErrSummaryFailed):
		response.Error(c, http.StatusBadGateway, 23002, "生成文字摘要失败")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

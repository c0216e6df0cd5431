package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/scooter7/credo-etl/internal/dto"
	"github.com/scooter7/credo-etl/internal/service"
	"github.com/scooter7/credo-etl/pkg/response"
)

// RunHandler 分析历史 HTTP 处理器
type RunHandler struct {
	runSvc service.RunService
}

// NewRunHandler 创建 RunHandler
func NewRunHandler(runSvc service.RunService) *RunHandler {
	return &RunHandler{runSvc: runSvc}
}

// List 分页查询分析历史
// GET /api/v1/runs?page=1&page_size=20
func (h *RunHandler) List(c *gin.Context) {
	var req dto.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "分页参数无效")
		return
	}

	runs, total, err := h.runSvc.List(c.Request.Context(), req.GetOffset(), req.GetPageSize())
	if err != nil {
		h.handleRunError(c, err)
		return
	}
	response.OKPage(c, runs, total, req.GetPage(), req.GetPageSize())
}

func (h *RunHandler) handleRunError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRunHistoryDisabled):
		response.ServiceUnavailable(c, 24001, "分析历史功能未启用")
	default:
		response.InternalError(c)
	}
}

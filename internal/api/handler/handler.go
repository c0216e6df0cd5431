package handler

import "github.com/scooter7/credo-etl/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Session *SessionHandler
	Run     *RunHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Session: NewSessionHandler(svc.Session, svc.Analysis, svc.Export, svc.Summary),
		Run:     NewRunHandler(svc.Run),
	}
}

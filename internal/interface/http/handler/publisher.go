package handler

import (
	"github.com/gin-gonic/gin"

	apppublisher "github.com/xiebiao/bookadmin/internal/application/publisher"
	"github.com/xiebiao/bookadmin/internal/interface/http/dto"
	"github.com/xiebiao/bookadmin/pkg/response"
)

// PublisherHandler 出版社HTTP处理器
type PublisherHandler struct {
	service *apppublisher.Service
	resp    *response.Responder
}

func NewPublisherHandler(service *apppublisher.Service, resp *response.Responder) *PublisherHandler {
	return &PublisherHandler{service: service, resp: resp}
}

// CreatePublisher 新建出版社
// @Summary      新建出版社
// @Tags         出版社
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePublisherRequest true "出版社信息"
// @Success      201 {object} response.Response{data=dto.IDResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/publishers [post]
func (h *PublisherHandler) CreatePublisher(c *gin.Context) {
	var req dto.CreatePublisherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.Error(c, bindError(err))
		return
	}

	id, err := h.service.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Created(c, &dto.IDResponse{ID: id})
}

// GetPublisher 出版社详情
// @Summary      出版社详情
// @Tags         出版社
// @Produce      json
// @Param        id path int true "出版社ID"
// @Success      200 {object} response.Response{data=dto.PublisherResponse}
// @Failure      404 {object} response.Response "出版社不存在"
// @Router       /api/v1/publishers/{id} [get]
func (h *PublisherHandler) GetPublisher(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, dto.ToPublisherResponse(p))
}

package dto

import (
	"time"

	"github.com/xiebiao/bookadmin/internal/domain/publisher"
)

// CreatePublisherRequest 新建出版社
type CreatePublisherRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"人民邮电出版社"`
}

// PublisherResponse 出版社详情
type PublisherResponse struct {
	ID        uint      `json:"id" example:"1"`
	Name      string    `json:"name" example:"人民邮电出版社"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToPublisherResponse(p *publisher.Publisher) *PublisherResponse {
	return &PublisherResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

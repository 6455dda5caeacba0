package publisher

import (
	"context"

	"github.com/xiebiao/bookadmin/internal/domain/publisher"
)

// Service 出版社用例
type Service struct {
	repo publisher.Repository
}

func NewService(repo publisher.Repository) *Service {
	return &Service{repo: repo}
}

// Create 创建出版社，返回ID
func (s *Service) Create(ctx context.Context, name string) (uint, error) {
	p := &publisher.Publisher{Name: name}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return 0, err
	}
	return p.ID, nil
}

// Get 查询出版社，不存在或已删除返回ErrPublisherNotFound
func (s *Service) Get(ctx context.Context, id uint) (*publisher.Publisher, error) {
	return s.repo.FindByID(ctx, id)
}

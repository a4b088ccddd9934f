package service

import (
	"context"

	"github.com/MKhiriev/go-zakat-keeper/internal/adapter"
)

type clientAppInfoService struct {
	adapter adapter.ServerAdapter
}

func NewClientAppInfoService(serverAdapter adapter.ServerAdapter) ClientAppInfoService {
	return &clientAppInfoService{adapter: serverAdapter}
}

func (s *clientAppInfoService) ServerVersion(ctx context.Context) (string, error) {
	version, err := s.adapter.Version(ctx)
	if err != nil {
		return "", mapAdapterError(err)
	}
	return version.Version, nil
}

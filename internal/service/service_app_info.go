package service

import (
	"context"

	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

type appInfoService struct {
	build models.AppBuildInfo
}

// NewAppInfoService refuses a build without a version: clients compare it
// before a migration and an empty one would always look incompatible.
func NewAppInfoService(build models.AppBuildInfo, log *logger.Logger) (AppInfoService, error) {
	if build.BuildVersion() == "" {
		log.Error().Str("func", "NewAppInfoService").Msg("server version is empty")
		return nil, ErrVersionIsNotSpecified
	}

	log.Info().
		Str("version", build.BuildVersion()).
		Str("commit", build.BuildCommit()).
		Msg("serving build")

	return &appInfoService{build: build}, nil
}

func (s *appInfoService) GetBuildInfo(ctx context.Context) models.AppBuildInfo {
	return s.build
}

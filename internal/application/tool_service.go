package application

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/diaglens/diaglens/internal/domain"
)

// ToolService makes sure the external analyzer can be invoked.
type ToolService struct {
	installer domain.AnalyzerInstaller
}

func NewToolService(installer domain.AnalyzerInstaller) *ToolService {
	return &ToolService{installer: installer}
}

// EnsureAnalyzer returns nil when the analyzer is available, installing it
// first when allowInstall is set. Every failure wraps domain.ErrToolUnavailable.
func (s *ToolService) EnsureAnalyzer(ctx context.Context, allowInstall bool) error {
	if s.installer.Available() {
		return nil
	}
	if !allowInstall {
		return goerr.Wrap(domain.ErrToolUnavailable, "analyzer not found and installation is disabled")
	}

	logger := ctxlog.From(ctx)
	logger.Info("analyzer not found, installing")
	if err := s.installer.Install(ctx); err != nil {
		return goerr.Wrap(domain.ErrToolUnavailable, "analyzer installation failed", goerr.V("cause", err.Error()))
	}
	if !s.installer.Available() {
		return goerr.Wrap(domain.ErrToolUnavailable, "analyzer still not found after installation")
	}
	logger.Info("analyzer installed")
	return nil
}

package security

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"totvs_automation/domain/interfaces"
)

// ErrWriteAction is returned for clicks that could change ERP data
var ErrWriteAction = errors.New("click refused: extraction is read-only")

// SecurityLayer keeps the automation from clicking anything that deletes or saves
type SecurityLayer struct {
	logger *logrus.Logger
}

func NewSecurityLayer(logger *logrus.Logger) *SecurityLayer {
	return &SecurityLayer{
		logger: logger,
	}
}

var (
	deletionKeywords = []string{
		"excluir", "exclusao", "exclusão", "delete", "remover", "remove", "apagar", "trash",
	}
	saveKeywords = []string{
		"salvar", "save", "gravar", "submit", "enviar",
	}
)

// AllowClick refuses targets whose name mentions deleting or saving
func (s *SecurityLayer) AllowClick(ctx context.Context, target string) error {
	if level := s.RiskLevel(target); level == "high" {
		s.logger.WithField("target", target).Warn("refusing click on a write action")
		return fmt.Errorf("%w: %q", ErrWriteAction, target)
	}
	return nil
}

// RiskLevel - "high" for deletions and saves, "low" otherwise
func (s *SecurityLayer) RiskLevel(target string) string {
	if s.IsDeletionAction(target) || s.IsSaveAction(target) {
		return "high"
	}
	return "low"
}

func (s *SecurityLayer) IsDeletionAction(target string) bool {
	return containsAny(target, deletionKeywords)
}

func (s *SecurityLayer) IsSaveAction(target string) bool {
	return containsAny(target, saveKeywords)
}

func containsAny(target string, keywords []string) bool {
	lower := strings.ToLower(target)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Ensure SecurityLayer implements Guard interface
var _ interfaces.Guard = (*SecurityLayer)(nil)

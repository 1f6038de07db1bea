package security

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestAllowClick(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := NewSecurityLayer(logger)

	tests := []struct {
		target string
		allow  bool
	}{
		{"cancelar", true},
		{"Dados Fiscais", true},
		{"linha", true},
		{"Excluir", false},
		{"btn salvar", false},
		{"Gravar e fechar", false},
		{"toolBarDeleteItem", false},
		{"Remover item", false},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			err := s.AllowClick(context.Background(), tt.target)
			if tt.allow {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrWriteAction)
		})
	}
	require.Len(t, hook.AllEntries(), 5)
}

func TestRiskLevel(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewSecurityLayer(logger)
	require.Equal(t, "high", s.RiskLevel("EXCLUSÃO"))
	require.Equal(t, "low", s.RiskLevel("Sim"))
	require.True(t, s.IsSaveAction("save"))
	require.False(t, s.IsDeletionAction("save"))
}

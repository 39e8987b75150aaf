package domain_test

import (
	"testing"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestSessionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.SessionStatus
		to   domain.SessionStatus
		want bool
	}{
		{name: "pending to in progress", from: domain.SessionPending, to: domain.SessionInProgress, want: true},
		{name: "in progress to completed", from: domain.SessionInProgress, to: domain.SessionCompleted, want: true},
		{name: "pending cannot skip to completed", from: domain.SessionPending, to: domain.SessionCompleted, want: false},
		{name: "completed is terminal", from: domain.SessionCompleted, to: domain.SessionInProgress, want: false},
		{name: "no regression to pending", from: domain.SessionInProgress, to: domain.SessionPending, want: false},
		{name: "no self transition", from: domain.SessionPending, to: domain.SessionPending, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

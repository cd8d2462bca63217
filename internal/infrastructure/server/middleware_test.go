package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/communityhub/core/internal/domain/entities"
)

func TestStatusForDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{entities.ErrValidation, http.StatusBadRequest},
		{entities.ErrUnauthorized, http.StatusUnauthorized},
		{entities.ErrForbidden, http.StatusForbidden},
		{entities.ErrFounderImmutable, http.StatusForbidden},
		{entities.ErrNotFound, http.StatusNotFound},
		{entities.ErrUserNotFound, http.StatusNotFound},
		{entities.ErrPostNotFound, http.StatusNotFound},
		{entities.ErrArticleNotFound, http.StatusNotFound},
		{entities.ErrCommentNotFound, http.StatusNotFound},
		{entities.ErrAnnouncementNotFound, http.StatusNotFound},
		{entities.ErrDocumentNotFound, http.StatusNotFound},
		{entities.ErrNotificationNotFound, http.StatusNotFound},
		{entities.ErrDuplicateID, http.StatusConflict},
		{entities.ErrEmailTaken, http.StatusConflict},
		{entities.ErrVersionConflict, http.StatusConflict},
		{fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusForDomainError(tt.err))
		})
	}
}

func TestStatusForWrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("%w: not the author", entities.ErrForbidden)
	assert.Equal(t, http.StatusForbidden, statusForDomainError(wrapped))

	doubleWrapped := fmt.Errorf("post service: %w", fmt.Errorf("%w: invalid credentials", entities.ErrUnauthorized))
	assert.Equal(t, http.StatusUnauthorized, statusForDomainError(doubleWrapped))
}

package service

import (
	"testing"

	"clinical-eval-be/internal/constant"
	"clinical-eval-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectCategoriesDefaultsToFullCatalog(t *testing.T) {
	requests, err := selectCategories(nil)
	require.NoError(t, err)
	require.Len(t, requests, len(constant.ChecklistCatalog))
	assert.Equal(t, constant.ChecklistCatalog[0].Name, requests[0].Category)
}

func TestSelectCategoriesResolvesAndDedupes(t *testing.T) {
	requests, err := selectCategories([]string{"metabolic", "cardiovascular", "metabolic"})
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "metabolic", requests[0].Category)
	assert.Equal(t, "cardiovascular", requests[1].Category)
	assert.NotEmpty(t, requests[0].Items)
}

func TestSelectCategoriesRejectsUnknownName(t *testing.T) {
	_, err := selectCategories([]string{"metabolic", "astrology"})
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Message, "astrology")
}

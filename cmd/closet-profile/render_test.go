package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/closet-profile/internal/catalog"
	"github.com/terra-clan/closet-profile/internal/models"
)

func TestReadAnswersAppliesDefaultsAndRepairs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"ranked": ["Shoes", "Shoes", "Bags & Purses", "Long Hanging", "Jewelry"],
		"balance": 140,
		"contact": {"name": "Ana Lopez"}
	}`), 0o644))

	cat := catalog.Default()
	form, err := readAnswers(cat, path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Shoes", "Bags & Purses", "Long Hanging"}, form.Ranked)
	assert.Equal(t, 100, form.Shelving())
	assert.Equal(t, "Ana Lopez", form.Contact.Name)
	assert.Equal(t, models.DefaultMethod, form.Contact.Method)
	assert.NotNil(t, form.Dual)
}

func TestReadAnswersErrors(t *testing.T) {
	cat := catalog.Default()

	_, err := readAnswers(cat, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))
	_, err = readAnswers(cat, path)
	assert.Error(t, err)
}

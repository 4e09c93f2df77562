package drugindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFlattensCategories(t *testing.T) {
	ix := New([]Category{
		{Name: "painkillers", Drugs: []string{"Paracetamol", "Ibuprofen"}},
		{Name: "antibiotics", Drugs: []string{"Amoxicillin"}},
	})

	assert.Equal(t, []string{"Paracetamol", "Ibuprofen", "Amoxicillin"}, ix.All())
	assert.Equal(t, 3, ix.Size())
}

func TestFromList(t *testing.T) {
	ix := FromList([]string{"Metformin", "Insulin"})

	assert.Equal(t, []string{"Metformin", "Insulin"}, ix.All())
	assert.Equal(t, 2, ix.Size())
}

func TestDefaultNotEmpty(t *testing.T) {
	ix := Default()

	assert.Greater(t, ix.Size(), 20)
	assert.Contains(t, ix.All(), "Paracetamol")
	assert.Contains(t, ix.All(), "Atorvastatin")
}

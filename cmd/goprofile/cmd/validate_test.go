package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCommandStructure(t *testing.T) {
	assert.NotNil(t, validateCmd)
	assert.Equal(t, "validate", validateCmd.Use)
	assert.NotEmpty(t, validateCmd.Short)
	assert.NotEmpty(t, validateCmd.Long)
	assert.NotNil(t, validateCmd.RunE)
}

func TestValidateUsesPersistentFlagsOnly(t *testing.T) {
	assert.Nil(t, validateCmd.Flags().Lookup("table"))
	assert.Nil(t, validateCmd.Flags().Lookup("force"))
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/countrysearch/internal/mock"
)

func TestMockBanner(t *testing.T) {
	server, err := mock.NewServer(&mock.Config{}, nil)
	require.NoError(t, err)

	banner := mockBanner(server)

	assert.Equal(t, "Mock country API on http://localhost:8089 (Ctrl+C to stop)", banner)
	assert.NotContains(t, banner, "http://http://")
}

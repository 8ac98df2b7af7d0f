package pdftext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract_NotAPDF(t *testing.T) {
	_, err := Extract([]byte("plain text, no pdf header"))
	require.Error(t, err)
}

func TestExtractFile_Missing(t *testing.T) {
	_, err := ExtractFile("testdata/does-not-exist.pdf")
	require.Error(t, err)
}

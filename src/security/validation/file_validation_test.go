package validation

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClientContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{"pdf", "application/pdf", false},
		{"pdf uppercase", "APPLICATION/PDF", false},
		{"plain text", "text/plain", false},
		{"octet stream", "application/octet-stream", false},
		{"csv explicitly disallowed", "text/csv", true},
		{"image", "image/png", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClientContentType(tt.contentType)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFileContentByMagicBytes_PDF(t *testing.T) {
	content := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	file := bytes.NewReader(content)

	detected, err := ValidateFileContentByMagicBytes(file)

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", detected)

	// The reader must be rewound for the downstream consumer.
	rest, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Equal(t, content, rest)
}

func TestValidateFileContentByMagicBytes_PlainText(t *testing.T) {
	file := bytes.NewReader([]byte("Robinhood Securities LLC\nConsolidated Form 1099\n"))

	detected, err := ValidateFileContentByMagicBytes(file)

	require.NoError(t, err)
	assert.Equal(t, "text/plain", detected)
}

func TestValidateFileContentByMagicBytes_RejectsImage(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	file := bytes.NewReader(pngHeader)

	detected, err := ValidateFileContentByMagicBytes(file)

	assert.Error(t, err)
	assert.Equal(t, "image/png", detected)
}

func TestValidateFileContentByMagicBytes_NilFile(t *testing.T) {
	_, err := ValidateFileContentByMagicBytes(nil)
	assert.Error(t, err)
}

func TestIsPDFContentType(t *testing.T) {
	assert.True(t, IsPDFContentType("application/pdf"))
	assert.True(t, IsPDFContentType("APPLICATION/PDF"))
	assert.False(t, IsPDFContentType("text/plain"))
	assert.False(t, IsPDFContentType(""))
}

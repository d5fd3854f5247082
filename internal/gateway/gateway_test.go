package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceValid(t *testing.T) {
	for _, v := range Voices {
		assert.True(t, v.Valid(), "voice %q", v)
	}
	assert.False(t, Voice("robot").Valid())
	assert.False(t, Voice("").Valid())
	assert.False(t, Voice("Nova").Valid(), "voice names are lowercase")
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: ProviderOpenAI})

	require.Error(t, err)
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "local", APIKey: "k"})

	require.Error(t, err)
}

func TestDecodeDataURI(t *testing.T) {
	blob, err := decodeDataURI("data:image/png;base64,aGVsbG8=")

	require.NoError(t, err)
	assert.Equal(t, "image/png", blob.MIMEType)
	assert.Equal(t, []byte("hello"), blob.Data)
}

func TestDecodeDataURIRejectsPlainURL(t *testing.T) {
	_, err := decodeDataURI("https://example.com/image.png")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelCallFailed)
}

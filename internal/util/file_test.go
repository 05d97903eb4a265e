package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 录音上传依赖内容嗅探而非扩展名，这里用真实文件头验证嗅探与分类
func TestValidateMimeTypeSniffing(t *testing.T) {
	webmHead := []byte{0x1A, 0x45, 0xDF, 0xA3, 0x01, 0x00, 0x00, 0x00}
	wavHead := append([]byte("RIFF"), append(make([]byte, 4), []byte("WAVEfmt ")...)...)
	allowed := []string{MimeAudio, MimeVideo, "application/octet-stream"}

	mime, err := ValidateMimeType(bytes.NewReader(webmHead), allowed)
	require.NoError(t, err)
	assert.Equal(t, "video/webm", mime)
	assert.True(t, IsVideo(mime))

	mime, err = ValidateMimeType(bytes.NewReader(wavHead), allowed)
	require.NoError(t, err)
	assert.Equal(t, "audio/wave", mime)
	assert.False(t, IsVideo(mime))

	// 文本内容不在白名单内
	_, err = ValidateMimeType(bytes.NewReader([]byte("hello interview")), allowed)
	assert.Error(t, err)
}

func TestIsVideo(t *testing.T) {
	assert.True(t, IsVideo("video/mp4"))
	assert.True(t, IsVideo("application/x-mpegURL"))
	assert.False(t, IsVideo("audio/mpeg"))
	assert.False(t, IsVideo("application/octet-stream"))
}

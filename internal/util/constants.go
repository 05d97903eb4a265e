package util

const (
	// TrendDateFormat 趋势图日期桶的展示格式（"Jan 2"）
	TrendDateFormat = "Jan 2"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 录音/录像上传相关常量
const (
	MimeVideo = "video/"
	MimeAudio = "audio/"
)

var (
	AllowedRecordingExtensions = []string{".webm", ".mp4", ".mov", ".m4a", ".mp3", ".wav", ".ogg"}
)

package contracts

// NoticeLevel classifies a user-visible message
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a non-fatal message shown next to partial or empty results
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Source  Source      `json:"source,omitempty"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
}

// Notices collects messages produced during one pipeline run
type Notices []Notice

func (n *Notices) Info(source Source, msg string) {
	*n = append(*n, Notice{Level: NoticeInfo, Source: source, Message: msg})
}

func (n *Notices) Error(source Source, msg string) {
	*n = append(*n, Notice{Level: NoticeError, Source: source, Message: msg})
}

// HasErrors reports whether any notice is an error
func (n Notices) HasErrors() bool {
	for _, notice := range n {
		if notice.Level == NoticeError {
			return true
		}
	}
	return false
}

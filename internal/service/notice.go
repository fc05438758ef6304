package service

import "time"

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is the user-visible message produced by the last action.
// Blocking notices cover the page until the next state change; a non-zero
// DisplayFor means the notice may be dismissed automatically after that long.
type Notice struct {
	Level      NoticeLevel   `json:"level" yaml:"level"`
	Title      string        `json:"title" yaml:"title"`
	Text       string        `json:"text" yaml:"text"`
	Blocking   bool          `json:"blocking,omitempty" yaml:"blocking,omitempty"`
	DisplayFor time.Duration `json:"display_for,omitempty" yaml:"display_for,omitempty"`
}

var (
	noticeInvalidType = Notice{
		Level: NoticeWarning,
		Title: `Invalid File`,
		Text:  `Please select a JSON file.`,
	}
	noticeNoFile = Notice{
		Level: NoticeError,
		Title: `No File Selected`,
		Text:  `Please select a file first.`,
	}
	noticeUploading = Notice{
		Level:    NoticeInfo,
		Title:    `Uploading File...`,
		Text:     `Please wait while your file is being uploaded.`,
		Blocking: true,
	}
	noticeUploadError = Notice{
		Level: NoticeError,
		Title: `Upload Error`,
		Text:  `An error occurred while uploading the file. Please try again.`,
	}
	noticeUploadSuccess = Notice{
		Level:      NoticeSuccess,
		Title:      `Upload Successful`,
		Text:       `Your file has been uploaded and processed successfully!`,
		DisplayFor: 2 * time.Second,
	}
)

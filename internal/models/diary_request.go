package models

// DiaryContentRequest is the body of diary create and update requests.
// Content is validated by the service so blank text gets a dedicated message.
type DiaryContentRequest struct {
	Content string `json:"content"`
}

package story

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateStoryRequest carries the story form. The optional cover image is a
// separate multipart part and travels outside this struct.
// Validation error keys follow the json tag, matching the template's
// per-field error lookups.
type CreateStoryRequest struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
}

func (r CreateStoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(5, 100).Error("title must be 5-100 characters"),
		),
		validation.Field(&r.Description,
			validation.Required.Error("description is required"),
		),
	)
}

// CommentRequest carries the comment form.
type CommentRequest struct {
	Content string `form:"content" json:"content"`
}

func (r CommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.Required.Error("comment cannot be empty"),
		),
	)
}

// Upload is a received cover image, handed to the upload pipeline.
type Upload struct {
	Data     []byte
	Filename string
}

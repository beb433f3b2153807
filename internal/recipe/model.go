package recipe

// Recipe is the sole domain entity: three required free-text fields, a
// service-assigned creation timestamp and an optional reference to a
// stored image.
type Recipe struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Ingredients string `json:"ingredients"`
	Directions  string `json:"recipe"`
	CreatedAt   string `json:"createdAt"`
	ImageRef    string `json:"imageRef,omitempty"`
}

// Image describes a stored recipe image. URL is the retrieval path
// reconstructed from the file id.
type Image struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

type CreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Ingredients string `json:"ingredients" validate:"required"`
	Directions  string `json:"recipe" validate:"required"`
}

// UpdateRequest carries any subset of the mutable fields; nil pointers
// leave the stored value untouched.
type UpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Ingredients *string `json:"ingredients,omitempty"`
	Directions  *string `json:"recipe,omitempty"`
}

// UploadInput points at an image the upload middleware already wrote to
// local disk. The service consumes and deletes the local copy.
type UploadInput struct {
	Path         string
	Name         string
	OriginalName string
	Size         int64
}

// Created is the response payload of a successful create.
type Created struct {
	Data  Recipe `json:"createdData"`
	Image *Image `json:"createdImage,omitempty"`
}

type DeleteResponse struct {
	DeletedID string `json:"deletedId"`
}

package message

const (
	InvalidInput   = "Invalid input."
	RecipeNotFound = "Recipe not found."
	ImageNotFound  = "Image not found."
	StoreDown      = "The storage backend is unavailable. Try again later."
	UploadTooLarge = "The uploaded form exceeds the size limit."
	RecipeCreated  = "Recipe created."
	RecipeUpdated  = "Recipe updated."
	RecipeDeleted  = "Recipe deleted."
	SomethingWrong = "Something went wrong."
)

package api

// Attribute is a tag or an ingredient.
type Attribute struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RecipeSummary is the list form of a recipe: relations are ids.
type RecipeSummary struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       string  `json:"price"`
	Link        string  `json:"link"`
	Tags        []int64 `json:"tags"`
	Ingredients []int64 `json:"ingredients"`
}

// RecipeDetail embeds the related tags and ingredients.
type RecipeDetail struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	TimeMinutes int         `json:"time_minutes"`
	Price       string      `json:"price"`
	Link        string      `json:"link"`
	Image       *string     `json:"image"`
	Tags        []Attribute `json:"tags"`
	Ingredients []Attribute `json:"ingredients"`
}

// RecipeInput is the body of a recipe create request. Price is a decimal
// string such as "5.00".
type RecipeInput struct {
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       string  `json:"price"`
	Link        string  `json:"link,omitempty"`
	Tags        []int64 `json:"tags"`
	Ingredients []int64 `json:"ingredients"`
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ImageUpload is the answer to an upload-image request: the stored object
// key and a short-lived URL to PUT the image to.
type ImageUpload struct {
	ID        int64  `json:"id"`
	Image     string `json:"image"`
	UploadURL string `json:"upload_url"`
}

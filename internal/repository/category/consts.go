package category

const (
	// collection name
	categoryNode string = "categories"

	// Fields' name and path
	NameFieldPath      string = "name"
	IconFieldPath      string = "icon"
	CreatedAtFieldPath string = "createdAt"
)

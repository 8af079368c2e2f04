package review

const (
	// collection name
	reviewNode string = "reviews"

	// Fields' name and path
	ProductIdFieldPath string = "productId"
	UserIdFieldPath    string = "userId"
	RatingFieldPath    string = "rating"
	CommentFieldPath   string = "comment"
	CreatedAtFieldPath string = "createdAt"
)

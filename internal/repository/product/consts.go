package product

const (
	// collection name
	productNode string = "products"

	// Fields' name and path
	IdFieldPath            string = "id"
	NameFieldPath          string = "name"
	BrandFieldPath         string = "brand"
	CategoryFieldPath      string = "category"
	PriceFieldPath         string = "price"
	OriginalPriceFieldPath string = "originalPrice"
	StockFieldPath         string = "stock"
	ImagesFieldPath        string = "images"
	FeaturedFieldPath      string = "featured"
	DescriptionFieldPath   string = "description"
	CreatedAtFieldPath     string = "createdAt"
)

// Package seed holds the fixed dataset used to reset the catalog to a known
// state in test and demo environments.
package seed

// User is a seed identity. Passwords are plain text here and hashed at
// insertion time.
type User struct {
	Email    string
	FullName string
	Password string
	Roles    []string
}

// Product is a seed catalog entry. Titles are pairwise distinct; the
// concurrent seed insertion relies on that.
type Product struct {
	Title       string
	Price       float64
	Description string
	Stock       int
	Sizes       []string
	Gender      string
	Tags        []string
	Images      []string
}

// Users is the fixed identity dataset. The first user owns every seeded
// product.
var Users = []User{
	{
		Email:    "admin@teslo.com",
		FullName: "Admin User",
		Password: "Abc123456",
		Roles:    []string{"admin", "user"},
	},
	{
		Email:    "user@teslo.com",
		FullName: "Regular User",
		Password: "Abc123456",
		Roles:    []string{"user"},
	},
}

// Products is the fixed catalog dataset.
var Products = []Product{
	{
		Title:       "Men's Chill Crew Neck Sweatshirt",
		Price:       75,
		Description: "Introducing the Tesla Chill Collection. The Men's Chill Crew Neck Sweatshirt has a premium, heavyweight exterior and soft fleece interior for comfort in any season.",
		Stock:       7,
		Sizes:       []string{"XS", "S", "M", "L", "XL", "XXL"},
		Gender:      "men",
		Tags:        []string{"sweatshirt"},
		Images:      []string{"1740176-00-A_0_2000.jpg", "1740176-00-A_1.jpg"},
	},
	{
		Title:       "Men's Quilted Shirt Jacket",
		Price:       200,
		Description: "The Men's Quilted Shirt Jacket features a uniquely fit, quilted design for warmth and mobility in cold weather seasons.",
		Stock:       5,
		Sizes:       []string{"XS", "S", "M", "XL", "XXL"},
		Gender:      "men",
		Tags:        []string{"jacket"},
		Images:      []string{"1740507-00-A_0_2000.jpg", "1740507-00-A_1.jpg"},
	},
	{
		Title:       "Men's Raven Lightweight Zip Up Bomber Jacket",
		Price:       130,
		Description: "Introducing the Tesla Raven Collection. The Men's Raven Lightweight Zip Up Bomber has a premium, modern silhouette made from a sustainable bamboo cotton blend.",
		Stock:       10,
		Sizes:       []string{"S", "M", "L", "XL", "XXL"},
		Gender:      "men",
		Tags:        []string{"shirt"},
		Images:      []string{"1740250-00-A_0_2000.jpg", "1740250-00-A_1.jpg"},
	},
	{
		Title:       "Men's Turbine Long Sleeve Tee",
		Price:       45,
		Description: "Introducing the Tesla Turbine Collection. Designed for style, comfort and everyday lifestyle, the Men's Turbine Long Sleeve Tee features a subtle, water-based T logo.",
		Stock:       50,
		Sizes:       []string{"XS", "S", "M", "L", "XL", "XXL"},
		Gender:      "men",
		Tags:        []string{"shirt"},
		Images:      []string{"1740280-00-A_0_2000.jpg", "1740280-00-A_1.jpg"},
	},
	{
		Title:       "Men's Cybertruck Owl Tee",
		Price:       35,
		Description: "The Cybertruck Owl Tee is made from 100% cotton and features our signature Cybertruck owl outline on the back.",
		Stock:       0,
		Sizes:       []string{"M", "L", "XL", "XXL"},
		Gender:      "men",
		Tags:        []string{"shirt"},
		Images:      []string{"7654393-00-A_2_2000.jpg", "7654393-00-A_3.jpg"},
	},
	{
		Title:       "Women's Cropped Puffer Jacket",
		Price:       225,
		Description: "The Women's Cropped Puffer Jacket features a uniquely cropped silhouette for the perfect, modern style while on the go during the cozy season ahead.",
		Stock:       85,
		Sizes:       []string{"XS", "S", "M"},
		Gender:      "women",
		Tags:        []string{"jacket"},
		Images:      []string{"1654219-00-A_0_2000.jpg", "1654219-00-A_1.jpg"},
	},
	{
		Title:       "Women's T Logo Short Sleeve Scoop Neck Tee",
		Price:       35,
		Description: "Designed for style and comfort, the ultrasoft Women's T Logo Short Sleeve Scoop Neck Tee features a tonal 3D silicone-printed T logo on the left chest.",
		Stock:       30,
		Sizes:       []string{"XS", "S", "M", "L", "XL", "XXL"},
		Gender:      "women",
		Tags:        []string{"shirt"},
		Images:      []string{"8765090-00-A_0_2000.jpg", "8765090-00-A_1.jpg"},
	},
	{
		Title:       "Women's Raven Slouchy Crew Sweatshirt",
		Price:       110,
		Description: "Introducing the Tesla Raven Collection. The Women's Raven Slouchy Crew Sweatshirt has a premium, relaxed silhouette made from a sustainable bamboo cotton blend.",
		Stock:       9,
		Sizes:       []string{"XS", "S", "M"},
		Gender:      "women",
		Tags:        []string{"sweatshirt"},
		Images:      []string{"1654204-00-A_0_2000.jpg", "1654204-00-A_1.jpg"},
	},
	{
		Title:       "Kids Cybertruck Long Sleeve Tee",
		Price:       30,
		Description: "Designed for fit, comfort and style, the Kids Cybertruck Graffiti Long Sleeve Tee features a water-based Cybertruck graffiti wrap across the back.",
		Stock:       10,
		Sizes:       []string{"XS", "S", "M"},
		Gender:      "kid",
		Tags:        []string{"shirt"},
		Images:      []string{"1742694-00-A_1_2000.jpg", "1742694-00-A_3.jpg"},
	},
	{
		Title:       "Kids Scribble T Logo Tee",
		Price:       25,
		Description: "The Kids Scribble T Logo Tee is made from 100% Peruvian cotton and features a Tesla T sketched logo for every young artist to wear.",
		Stock:       0,
		Sizes:       []string{"XS", "S", "M"},
		Gender:      "kid",
		Tags:        []string{"shirt"},
		Images:      []string{"8529312-00-A_0_2000.jpg", "8529312-00-A_1.jpg"},
	},
	{
		Title:       "Kids Cyberquad Bomber Jacket",
		Price:       65,
		Description: "Wear your Kids Cyberquad Bomber Jacket during your adventures on Cyberquad for Kids. The bomber jacket features a graffiti-style illustration of our Cyberquad silhouette.",
		Stock:       10,
		Sizes:       []string{"XS", "S", "M"},
		Gender:      "kid",
		Tags:        []string{"shirt"},
		Images:      []string{"1742702-00-A_0_2000.jpg", "1742702-00-A_1.jpg"},
	},
	{
		Title:       "3D Large Wordmark Pullover Hoodie",
		Price:       70,
		Description: "The 3D Large Wordmark Pullover Hoodie features soft fleece and an adjustable, jersey-lined hood for comfort and coverage.",
		Stock:       15,
		Sizes:       []string{"XS", "S", "XL", "XXL"},
		Gender:      "unisex",
		Tags:        []string{"hoodie"},
		Images:      []string{"8529107-00-A_0_2000.jpg", "8529107-00-A_1.jpg"},
	},
}
